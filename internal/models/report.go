package models

// VolumeLevel classifies total weekly watch time.
type VolumeLevel int

const (
	// VolumeLight is seven hours a week or less.
	VolumeLight VolumeLevel = iota
	// VolumeModerate is more than seven hours a week.
	VolumeModerate
	// VolumeHeavy is more than fourteen hours a week.
	VolumeHeavy
)

// String returns the string representation of a VolumeLevel.
func (v VolumeLevel) String() string {
	switch v {
	case VolumeLight:
		return "light"
	case VolumeModerate:
		return "moderate"
	case VolumeHeavy:
		return "heavy"
	default:
		return "unknown"
	}
}

// Report is the rule-based reading of a StatsSummary.
type Report struct {
	Opening     string
	Volume      string
	Preference  string
	TimeHabit   string
	Regularity  string
	Suggestions []string

	VolumeLevel       VolumeLevel
	StrongPreference  bool
	BroadInterests    bool
	CategoryDiversity int
	PrimeTime         string
	Regular           bool
}

// Blocks returns the report text in display order. Suggestions come last,
// one block each.
func (r Report) Blocks() []string {
	blocks := []string{r.Opening, r.Volume, r.Preference, r.TimeHabit, r.Regularity}
	return append(blocks, r.Suggestions...)
}
