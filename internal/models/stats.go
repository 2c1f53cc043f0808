package models

// Statistics holds the dashboard counts exposed by the backend.
type Statistics struct {
	ActiveShips     int `json:"activeShips"`
	RegisteredUsers int `json:"registeredUsers"`
	FleetShips      int `json:"fleetShips"`
	ViolationsToday int `json:"violationsToday"`
	CollisionsToday int `json:"collisionsToday"`
}
