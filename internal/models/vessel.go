package models

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// HeadingUnavailable is the AIS sentinel for "true heading not available".
const HeadingUnavailable = 511

// VesselUpdate represents one vessel's latest known kinematic state, as
// delivered by the bulk snapshot endpoint and the broadcast stream.
type VesselUpdate struct {
	MMSI             string   `json:"mmsi"`
	Latitude         *float64 `json:"latitude"`  // nil if position unknown
	Longitude        *float64 `json:"longitude"` // nil if position unknown
	SpeedOverGround  float64  `json:"speedOverGround"`  // knots
	CourseOverGround float64  `json:"courseOverGround"` // degrees
	TrueHeading      int      `json:"trueHeading"`      // degrees, 511 = unavailable
	NavStatus        int      `json:"navStatus"`
	ShipType         string   `json:"shipType"`
	Timestamp        int64    `json:"timestamp"` // seconds since epoch
}

// ErrMissingMMSI is returned when a vessel payload has no identifier.
var ErrMissingMMSI = errors.New("vessel update missing mmsi")

// Validate checks the invariants a VesselUpdate must satisfy before it may
// enter the merged view. A missing position is legal; a missing MMSI is not.
func (v *VesselUpdate) Validate() error {
	if v.MMSI == "" {
		return ErrMissingMMSI
	}
	if (v.Latitude == nil) != (v.Longitude == nil) {
		return fmt.Errorf("vessel %s: partial position", v.MMSI)
	}
	return nil
}

// HasPosition reports whether the update carries a usable position.
func (v *VesselUpdate) HasPosition() bool {
	return v.Latitude != nil && v.Longitude != nil
}

// HeadingAvailable reports whether TrueHeading carries a real value.
func (v *VesselUpdate) HeadingAvailable() bool {
	return v.TrueHeading >= 0 && v.TrueHeading < 360
}

// ParseVesselUpdate decodes and validates a streamed vessel payload.
func ParseVesselUpdate(data []byte) (*VesselUpdate, error) {
	var v VesselUpdate
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decoding vessel update: %w", err)
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return &v, nil
}

// TrackPoint is one historical position sample for a tracked vessel.
type TrackPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timestamp int64   `json:"timestamp"`
}

// NavStatusText maps AIS navigational status codes to display text.
func NavStatusText(code int) string {
	switch code {
	case 0:
		return "Under way using engine"
	case 1:
		return "At anchor"
	case 2:
		return "Not under command"
	case 3:
		return "Restricted manoeuvrability"
	case 4:
		return "Constrained by draught"
	case 5:
		return "Moored"
	case 6:
		return "Aground"
	case 7:
		return "Engaged in fishing"
	case 8:
		return "Under way sailing"
	case 14:
		return "AIS-SART active"
	case 15:
		return "Undefined"
	default:
		return fmt.Sprintf("Status %d", code)
	}
}
