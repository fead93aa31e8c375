package stage

// HotspotType distinguishes plain info popups from branching encounters.
type HotspotType string

const (
	HotspotTypeInfo      HotspotType = "info"
	HotspotTypeEncounter HotspotType = "encounter"
)

// Stage is a "planet": the top-level content unit containing zones.
type Stage struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Code        string         `json:"code"`
	Overview    string         `json:"overview"`
	Metadata    PlanetMetadata `json:"metadata"`
	Zones       []Zone         `json:"zones"`
	IsPublished bool           `json:"isPublished"`
	CreatedAt   int64          `json:"createdAt"`
}

type PlanetMetadata struct {
	FormationTime     string     `json:"formationTime"`
	Orbit             string     `json:"orbit"`
	Satellites        int        `json:"satellites"`
	Gravity           string     `json:"gravity"`
	Diameter          string     `json:"diameter"`
	LandSeaRatio      string     `json:"landSeaRatio"`
	Geology           string     `json:"geology"`
	Atmosphere        Atmosphere `json:"atmosphere"`
	InternalStructure string     `json:"internalStructure"`
	RotationPeriod    string     `json:"rotationPeriod"`
	RevolutionPeriod  string     `json:"revolutionPeriod"`
	CirculationSystem string     `json:"circulationSystem"`
}

// Atmosphere percentages need not sum to 100; the remainder is described by Other.
type Atmosphere struct {
	O2    float64 `json:"o2"`
	N2    float64 `json:"n2"`
	Other string  `json:"other"`
}

// Zone is a navigable scene within a stage. Zones are ordered and
// navigated sequentially by index.
type Zone struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	ImageURL string    `json:"imageUrl"`
	Hotspots []Hotspot `json:"hotspots"`
}

// Hotspot is a clickable point within a zone. X and Y are percentages (0-100).
// Content carries the info message or the encounter story. Choices is present
// only for encounters; absent or empty means a pass-through encounter.
type Hotspot struct {
	ID      string            `json:"id"`
	X       float64           `json:"x"`
	Y       float64           `json:"y"`
	Label   string            `json:"label"`
	Type    HotspotType       `json:"type"`
	Content string            `json:"content"`
	Choices []EncounterChoice `json:"choices,omitempty"`
}

type EncounterChoice struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Response string `json:"response"`
}

// Visible reports whether a stage may be shown to a reader. Non-admin
// readers never observe unpublished stages.
func (s Stage) Visible(isAdmin bool) bool {
	return s.IsPublished || isAdmin
}

// Filter returns the stages visible to a reader with the given role.
func Filter(stages []Stage, isAdmin bool) []Stage {
	visible := make([]Stage, 0, len(stages))
	for _, s := range stages {
		if s.Visible(isAdmin) {
			visible = append(visible, s)
		}
	}
	return visible
}

// Find returns the stage with the given ID, or nil.
func Find(stages []Stage, id string) *Stage {
	for i := range stages {
		if stages[i].ID == id {
			return &stages[i]
		}
	}
	return nil
}
