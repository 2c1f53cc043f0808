package models

import (
	"testing"
)

func f64(v float64) *float64 { return &v }

func TestVesselUpdateValidate(t *testing.T) {
	tests := []struct {
		name    string
		update  VesselUpdate
		wantErr bool
	}{
		{
			name:   "valid with position",
			update: VesselUpdate{MMSI: "244660180", Latitude: f64(52.1), Longitude: f64(4.3), Timestamp: 1000},
		},
		{
			name:   "valid without position",
			update: VesselUpdate{MMSI: "244660180", Timestamp: 1000},
		},
		{
			name:    "missing mmsi",
			update:  VesselUpdate{Latitude: f64(52.1), Longitude: f64(4.3)},
			wantErr: true,
		},
		{
			name:    "partial position",
			update:  VesselUpdate{MMSI: "244660180", Latitude: f64(52.1)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.update.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseVesselUpdate(t *testing.T) {
	data := []byte(`{"mmsi":"244660180","latitude":52.1,"longitude":4.3,"speedOverGround":12.5,"trueHeading":511,"navStatus":0,"shipType":"Cargo","timestamp":1700000000}`)

	v, err := ParseVesselUpdate(data)
	if err != nil {
		t.Fatalf("ParseVesselUpdate() error = %v", err)
	}

	if v.MMSI != "244660180" {
		t.Errorf("MMSI = %s, want 244660180", v.MMSI)
	}
	if !v.HasPosition() {
		t.Error("HasPosition() = false, want true")
	}
	if v.HeadingAvailable() {
		t.Error("HeadingAvailable() = true for sentinel 511")
	}
	if v.SpeedOverGround != 12.5 {
		t.Errorf("SpeedOverGround = %v, want 12.5", v.SpeedOverGround)
	}
}

func TestParseVesselUpdateRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{"mmsi":`},
		{"empty mmsi", `{"mmsi":"","latitude":52.1,"longitude":4.3}`},
		{"wrong type", `{"mmsi":123}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseVesselUpdate([]byte(tt.data)); err == nil {
				t.Error("ParseVesselUpdate() expected error, got nil")
			}
		})
	}
}

func TestNavStatusText(t *testing.T) {
	if got := NavStatusText(0); got != "Under way using engine" {
		t.Errorf("NavStatusText(0) = %s", got)
	}
	if got := NavStatusText(5); got != "Moored" {
		t.Errorf("NavStatusText(5) = %s", got)
	}
	if got := NavStatusText(42); got != "Status 42" {
		t.Errorf("NavStatusText(42) = %s", got)
	}
}

func TestFleetEntryApplyUpdate(t *testing.T) {
	entry := FleetEntry{MMSI: "244660180", Name: "EEMSLIFT ELLEN", ShipType: "Cargo"}
	update := VesselUpdate{
		MMSI:            "244660180",
		Latitude:        f64(53.2),
		Longitude:       f64(5.1),
		SpeedOverGround: 9.8,
		NavStatus:       0,
		Timestamp:       1700000500,
	}

	entry.ApplyUpdate(update)

	if entry.Latitude == nil || *entry.Latitude != 53.2 {
		t.Errorf("Latitude not applied, got %v", entry.Latitude)
	}
	if entry.Name != "EEMSLIFT ELLEN" {
		t.Error("descriptive field should be untouched")
	}
	if entry.ShipType != "Cargo" {
		t.Error("empty ShipType in update should not clear cached value")
	}

	// Update for a different vessel must be ignored.
	entry.ApplyUpdate(VesselUpdate{MMSI: "999999999", Timestamp: 99})
	if entry.Timestamp != 1700000500 {
		t.Error("update for different MMSI should be ignored")
	}
}
