package stage

import "time"

// Seed returns the built-in catalog used when storage is empty, so the
// app is never empty on first run.
func Seed() []Stage {
	return []Stage{
		{
			ID:          "1",
			Name:        "Aethelgard Prime",
			Code:        "AE-001",
			Overview:    "A verdant world covered in glowing crystalline forests.",
			IsPublished: true,
			CreatedAt:   time.Now().UnixMilli(),
			Metadata: PlanetMetadata{
				FormationTime: "4.2 Billion Years",
				Orbit:         "Circular, 1.2 AU",
				Satellites:    2,
				Gravity:       "0.98g",
				Diameter:      "12,500 km",
				LandSeaRatio:  "40:60",
				Geology:       "Silicate crust with quartz veins",
				Atmosphere: Atmosphere{
					O2:    23,
					N2:    74,
					Other: "3% Argon",
				},
				InternalStructure: "Molten iron core",
				RotationPeriod:    "26 hours",
				RevolutionPeriod:  "410 days",
				CirculationSystem: "Double Hadley cells",
			},
			Zones: []Zone{
				{
					ID:       "z1",
					Name:     "Crystal Shores",
					ImageURL: "https://images.unsplash.com/photo-1614728894747-a83421e2b9c9?auto=format&fit=crop&w=1200&q=80",
					Hotspots: []Hotspot{
						{
							ID:      "h1",
							X:       30,
							Y:       50,
							Label:   "Strange Shimmer",
							Type:    HotspotTypeInfo,
							Content: "The sand here seems to be composed of ground emeralds.",
						},
						{
							ID:      "h2",
							X:       70,
							Y:       40,
							Label:   "Ancient Monolith",
							Type:    HotspotTypeEncounter,
							Content: "A tall obsidian pillar hums as you approach. A voice echoes in your mind.",
							Choices: []EncounterChoice{
								{ID: "c1", Text: "Touch the surface", Response: "A surge of historical data floods your consciousness."},
								{ID: "c2", Text: "Back away", Response: "The humming stops, and the silence is deafening."},
							},
						},
					},
				},
			},
		},
	}
}
