package models

import "fmt"

// ZoneKind distinguishes the two zone variants a user may own.
type ZoneKind string

const (
	ZoneInterest  ZoneKind = "interest"
	ZoneCollision ZoneKind = "collision"
)

// ConstraintType enumerates the rules a zone of interest can carry.
type ConstraintType string

const (
	ConstraintEntryNotify    ConstraintType = "entry-notify"
	ConstraintExitNotify     ConstraintType = "exit-notify"
	ConstraintSpeedAbove     ConstraintType = "speed-above"
	ConstraintSpeedBelow     ConstraintType = "speed-below"
	ConstraintForbiddenType  ConstraintType = "forbidden-ship-type"
	ConstraintUnwantedStatus ConstraintType = "unwanted-nav-status"
)

// ParseConstraintType validates a constraint type string from the wire.
func ParseConstraintType(s string) (ConstraintType, error) {
	switch ConstraintType(s) {
	case ConstraintEntryNotify, ConstraintExitNotify, ConstraintSpeedAbove,
		ConstraintSpeedBelow, ConstraintForbiddenType, ConstraintUnwantedStatus:
		return ConstraintType(s), nil
	}
	return "", fmt.Errorf("unknown constraint type %q", s)
}

// Constraint is one rule attached to a zone of interest.
type Constraint struct {
	Type  ConstraintType `json:"type"`
	Value string         `json:"value"`
}

// Zone is a user-defined circular geofence. At most one zone of each kind
// exists per user; the backend enforces this and the client refuses to start
// a create flow when its cache already holds one.
type Zone struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Kind        ZoneKind     `json:"kind"`
	CenterLat   float64      `json:"centerLatitude"`
	CenterLon   float64      `json:"centerLongitude"`
	RadiusNm    float64      `json:"radiusNm"` // nautical miles
	Constraints []Constraint `json:"constraints,omitempty"`
}

// Validate checks a zone definition before it is sent to the server.
func (z *Zone) Validate() error {
	if z.Name == "" {
		return fmt.Errorf("zone name is required")
	}
	if z.CenterLat < -90 || z.CenterLat > 90 {
		return fmt.Errorf("zone latitude %.4f out of range", z.CenterLat)
	}
	if z.CenterLon < -180 || z.CenterLon > 180 {
		return fmt.Errorf("zone longitude %.4f out of range", z.CenterLon)
	}
	if z.RadiusNm <= 0 {
		return fmt.Errorf("zone radius must be positive")
	}
	if z.Kind == ZoneCollision && len(z.Constraints) > 0 {
		return fmt.Errorf("collision zones carry no constraints")
	}
	for _, c := range z.Constraints {
		if _, err := ParseConstraintType(string(c.Type)); err != nil {
			return err
		}
	}
	return nil
}
