package stage

import "testing"

func TestFilterHidesUnpublishedFromNonAdmins(t *testing.T) {
	catalog := []Stage{
		{ID: "1", Name: "Aethelgard Prime", IsPublished: true},
		{ID: "2", Name: "Veiled Depths", IsPublished: false},
	}

	visible := Filter(catalog, false)
	if len(visible) != 1 || visible[0].ID != "1" {
		t.Fatalf("non-admin filter returned %+v, want only stage 1", visible)
	}

	if got := len(Filter(catalog, true)); got != 2 {
		t.Fatalf("admin filter returned %d stages, want 2", got)
	}
}

func TestFind(t *testing.T) {
	catalog := Seed()

	if found := Find(catalog, "1"); found == nil || found.Name != "Aethelgard Prime" {
		t.Fatalf("Find(1) = %+v, want the seed stage", found)
	}
	if Find(catalog, "missing") != nil {
		t.Fatal("Find of unknown id should return nil")
	}
}

func TestSeedIsValid(t *testing.T) {
	catalog := Seed()

	if err := Validate(catalog); err != nil {
		t.Fatalf("seed catalog failed validation: %v", err)
	}
	if len(catalog) != 1 || catalog[0].ID != "1" || catalog[0].Code != "AE-001" {
		t.Fatalf("unexpected seed catalog: %+v", catalog)
	}

	zone := catalog[0].Zones[0]
	if len(zone.Hotspots) != 2 {
		t.Fatalf("seed zone has %d hotspots, want 2", len(zone.Hotspots))
	}
	if zone.Hotspots[1].Type != HotspotTypeEncounter || len(zone.Hotspots[1].Choices) != 2 {
		t.Fatal("seed encounter hotspot should offer two choices")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		stages  []Stage
		wantErr bool
	}{
		{
			name:    "empty catalog",
			stages:  nil,
			wantErr: false,
		},
		{
			name: "duplicate stage id",
			stages: []Stage{
				{ID: "1"},
				{ID: "1"},
			},
			wantErr: true,
		},
		{
			name: "empty stage id",
			stages: []Stage{
				{ID: "", Name: "Nameless"},
			},
			wantErr: true,
		},
		{
			name: "duplicate zone id within stage",
			stages: []Stage{
				{ID: "1", Zones: []Zone{{ID: "z1"}, {ID: "z1"}}},
			},
			wantErr: true,
		},
		{
			name: "same zone id in different stages",
			stages: []Stage{
				{ID: "1", Zones: []Zone{{ID: "z1"}}},
				{ID: "2", Zones: []Zone{{ID: "z1"}}},
			},
			wantErr: false,
		},
		{
			name: "duplicate hotspot id within zone",
			stages: []Stage{
				{ID: "1", Zones: []Zone{{ID: "z1", Hotspots: []Hotspot{
					{ID: "h1", Type: HotspotTypeInfo},
					{ID: "h1", Type: HotspotTypeInfo},
				}}}},
			},
			wantErr: true,
		},
		{
			name: "unknown hotspot type",
			stages: []Stage{
				{ID: "1", Zones: []Zone{{ID: "z1", Hotspots: []Hotspot{
					{ID: "h1", Type: "portal"},
				}}}},
			},
			wantErr: true,
		},
		{
			name: "duplicate choice id within hotspot",
			stages: []Stage{
				{ID: "1", Zones: []Zone{{ID: "z1", Hotspots: []Hotspot{
					{ID: "h1", Type: HotspotTypeEncounter, Choices: []EncounterChoice{
						{ID: "c1"}, {ID: "c1"},
					}},
				}}}},
			},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.stages)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr = %v", err, tc.wantErr)
			}
		})
	}
}
