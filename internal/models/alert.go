package models

import (
	"fmt"

	"github.com/goccy/go-json"
)

// ZoneViolation is a per-user streamed alert: a vessel tripped one of the
// constraints on the user's zone of interest.
type ZoneViolation struct {
	MMSI           string         `json:"mmsi"`
	ShipName       string         `json:"shipName"`
	ZoneName       string         `json:"zoneName"`
	ConstraintType ConstraintType `json:"constraintType"`
	Detail         string         `json:"detail"`
	Timestamp      int64          `json:"timestamp"`
}

// Validate checks a streamed violation payload.
func (v *ZoneViolation) Validate() error {
	if v.MMSI == "" {
		return fmt.Errorf("zone violation missing mmsi")
	}
	if _, err := ParseConstraintType(string(v.ConstraintType)); err != nil {
		return fmt.Errorf("zone violation: %w", err)
	}
	return nil
}

// ParseZoneViolation decodes and validates a streamed violation payload.
func ParseZoneViolation(data []byte) (*ZoneViolation, error) {
	var v ZoneViolation
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decoding zone violation: %w", err)
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return &v, nil
}

// CollisionAlert is a per-user streamed alert: two vessels inside the user's
// collision zone are on a converging course. Risk assessment is done by the
// backend; the client only presents it.
type CollisionAlert struct {
	MMSIA     string  `json:"mmsiA"`
	MMSIB     string  `json:"mmsiB"`
	ShipNameA string  `json:"shipNameA"`
	ShipNameB string  `json:"shipNameB"`
	ZoneName  string  `json:"zoneName"`
	CPANm     float64 `json:"cpaNm"`   // closest point of approach, nautical miles
	TCPASec   float64 `json:"tcpaSec"` // time to CPA, seconds
	Timestamp int64   `json:"timestamp"`
}

// Validate checks a streamed collision payload.
func (c *CollisionAlert) Validate() error {
	if c.MMSIA == "" || c.MMSIB == "" {
		return fmt.Errorf("collision alert missing vessel identifiers")
	}
	return nil
}

// ParseCollisionAlert decodes and validates a streamed collision payload.
func ParseCollisionAlert(data []byte) (*CollisionAlert, error) {
	var c CollisionAlert
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding collision alert: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
