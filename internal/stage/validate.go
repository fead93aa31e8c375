package stage

import "life-server/internal/shared/errors"

// Validate checks the id-uniqueness invariants of a replacement catalog:
// stage IDs unique across the catalog, zone IDs unique within a stage,
// hotspot IDs unique within a zone, choice IDs unique within a hotspot.
// The caller remains responsible for keeping IDs stable across replacements.
func Validate(stages []Stage) error {
	stageIDs := make(map[string]bool, len(stages))

	for _, s := range stages {
		if s.ID == "" {
			return errors.Validationf("stage %q has an empty id", s.Name)
		}
		if stageIDs[s.ID] {
			return errors.Validationf("duplicate stage id %q", s.ID)
		}
		stageIDs[s.ID] = true

		zoneIDs := make(map[string]bool, len(s.Zones))
		for _, z := range s.Zones {
			if zoneIDs[z.ID] {
				return errors.Validationf("duplicate zone id %q in stage %q", z.ID, s.ID)
			}
			zoneIDs[z.ID] = true

			hotspotIDs := make(map[string]bool, len(z.Hotspots))
			for _, h := range z.Hotspots {
				if hotspotIDs[h.ID] {
					return errors.Validationf("duplicate hotspot id %q in zone %q", h.ID, z.ID)
				}
				hotspotIDs[h.ID] = true

				if h.Type != HotspotTypeInfo && h.Type != HotspotTypeEncounter {
					return errors.Validationf("hotspot %q has unknown type %q", h.ID, h.Type)
				}

				choiceIDs := make(map[string]bool, len(h.Choices))
				for _, c := range h.Choices {
					if choiceIDs[c.ID] {
						return errors.Validationf("duplicate choice id %q in hotspot %q", c.ID, h.ID)
					}
					choiceIDs[c.ID] = true
				}
			}
		}
	}

	return nil
}
