package models

import "testing"

func TestParseConstraintType(t *testing.T) {
	valid := []string{
		"entry-notify", "exit-notify", "speed-above",
		"speed-below", "forbidden-ship-type", "unwanted-nav-status",
	}
	for _, s := range valid {
		if _, err := ParseConstraintType(s); err != nil {
			t.Errorf("ParseConstraintType(%q) error = %v", s, err)
		}
	}

	if _, err := ParseConstraintType("teleport-notify"); err == nil {
		t.Error("expected error for unknown constraint type")
	}
}

func TestZoneValidate(t *testing.T) {
	tests := []struct {
		name    string
		zone    Zone
		wantErr bool
	}{
		{
			name: "valid interest zone",
			zone: Zone{
				Name: "Rotterdam approach", Kind: ZoneInterest,
				CenterLat: 51.95, CenterLon: 4.05, RadiusNm: 10,
				Constraints: []Constraint{{Type: ConstraintEntryNotify}},
			},
		},
		{
			name: "valid collision zone",
			zone: Zone{Name: "Anchorage", Kind: ZoneCollision, CenterLat: 51.9, CenterLon: 3.9, RadiusNm: 5},
		},
		{
			name:    "missing name",
			zone:    Zone{Kind: ZoneInterest, CenterLat: 51.9, CenterLon: 3.9, RadiusNm: 5},
			wantErr: true,
		},
		{
			name:    "latitude out of range",
			zone:    Zone{Name: "x", Kind: ZoneInterest, CenterLat: 95, CenterLon: 3.9, RadiusNm: 5},
			wantErr: true,
		},
		{
			name:    "zero radius",
			zone:    Zone{Name: "x", Kind: ZoneInterest, CenterLat: 51.9, CenterLon: 3.9},
			wantErr: true,
		},
		{
			name: "constraints on collision zone",
			zone: Zone{
				Name: "x", Kind: ZoneCollision, CenterLat: 51.9, CenterLon: 3.9, RadiusNm: 5,
				Constraints: []Constraint{{Type: ConstraintEntryNotify}},
			},
			wantErr: true,
		},
		{
			name: "bad constraint type",
			zone: Zone{
				Name: "x", Kind: ZoneInterest, CenterLat: 51.9, CenterLon: 3.9, RadiusNm: 5,
				Constraints: []Constraint{{Type: "bogus"}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.zone.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
