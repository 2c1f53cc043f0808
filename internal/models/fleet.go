package models

import "time"

// FleetEntry is a bookmarked vessel's cached detail record. It is a superset
// of VesselUpdate: the kinematic fields are refreshed from the live stream,
// the descriptive fields come from the fleet endpoint.
type FleetEntry struct {
	MMSI             string   `json:"mmsi"`
	Name             string   `json:"name"`
	Callsign         string   `json:"callsign"`
	IMO              string   `json:"imo"`
	Destination      string   `json:"destination"`
	Draught          float64  `json:"draught"` // meters
	Length           float64  `json:"length"`  // meters
	Beam             float64  `json:"beam"`    // meters
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	SpeedOverGround  float64  `json:"speedOverGround"`
	CourseOverGround float64  `json:"courseOverGround"`
	TrueHeading      int      `json:"trueHeading"`
	NavStatus        int      `json:"navStatus"`
	ShipType         string   `json:"shipType"`
	Timestamp        int64    `json:"timestamp"`

	AddedAt time.Time `json:"addedAt"`
}

// ApplyUpdate refreshes the entry's kinematic fields in place from a live
// update for the same vessel. Descriptive fields are left untouched.
func (f *FleetEntry) ApplyUpdate(u VesselUpdate) {
	if u.MMSI != f.MMSI {
		return
	}
	f.Latitude = u.Latitude
	f.Longitude = u.Longitude
	f.SpeedOverGround = u.SpeedOverGround
	f.CourseOverGround = u.CourseOverGround
	f.TrueHeading = u.TrueHeading
	f.NavStatus = u.NavStatus
	if u.ShipType != "" {
		f.ShipType = u.ShipType
	}
	f.Timestamp = u.Timestamp
}

// Fleet is a user's named collection of bookmarked vessels.
type Fleet struct {
	Name  string       `json:"name"`
	Ships []FleetEntry `json:"ships"`
}
