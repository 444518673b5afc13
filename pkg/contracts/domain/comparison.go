package domain

// Level classifies a subgroup percent against a baseline percent
type Level string

const (
	// LevelAbove means the subgroup exceeds the upper band of the baseline
	LevelAbove Level = "ABOVE"
	// LevelWithin means the subgroup is inside the band around the baseline
	LevelWithin Level = "WITHIN"
	// LevelBelow means the subgroup is under the lower band of the baseline
	LevelBelow Level = "BELOW"
)

// Phrase returns the wording used in textual reports
func (l Level) Phrase() string {
	switch l {
	case LevelAbove:
		return "above"
	case LevelBelow:
		return "below"
	default:
		return "about at"
	}
}

// DefaultBand is the relative tolerance around a baseline percent
const DefaultBand = 0.05

// Classification is the comparison of one (group, outcome) pair
type Classification struct {
	Values   []string `json:"values"`
	Outcome  string   `json:"outcome"`
	Subgroup float64  `json:"subgroup_percent"`
	Baseline float64  `json:"baseline_percent"`
	Level    Level    `json:"level"`
}

// Label renders the grouping values of the classification
func (c Classification) Label() string {
	return JoinLabels(c.Values)
}

// YearComparison holds the classifications computed for a single year
type YearComparison struct {
	Year            int              `json:"year"`
	Classifications []Classification `json:"classifications"`
}

// Standing compares the latest year of a section with its jurisdiction
type Standing string

const (
	// StandingAtOrAbove means the section rate is at or above the jurisdiction rate
	StandingAtOrAbove Standing = "AT_OR_ABOVE"
	// StandingBelow means the section rate is below the jurisdiction rate
	StandingBelow Standing = "BELOW"
)

// Phrase returns the wording used in textual reports
func (s Standing) Phrase() string {
	if s == StandingBelow {
		return "below"
	}
	return "at or above"
}

// TrendSeries is a year by outcome matrix of percentages
type TrendSeries struct {
	Name     string      `json:"name"`
	Years    []int       `json:"years"`
	Outcomes []string    `json:"outcomes"`
	Values   [][]float64 `json:"values"` // [year][outcome]
}

// Column returns the values of one outcome across years
func (s TrendSeries) Column(outcome int) []float64 {
	out := make([]float64, len(s.Values))
	for i, row := range s.Values {
		out[i] = row[outcome]
	}
	return out
}

// KeyTrend tracks one group of a subgroup and its baseline across years
type KeyTrend struct {
	Values   []string    `json:"values"`
	Label    string      `json:"label"`
	Years    []int       `json:"years"`
	Outcomes []string    `json:"outcomes"`
	Subgroup [][]float64 `json:"subgroup"` // [outcome][year]
	Baseline [][]float64 `json:"baseline"` // [outcome][year]
}

// NewKeyTrend allocates a zeroed trend for the group values
func NewKeyTrend(values []string, outcomes []string, years []int) KeyTrend {
	kt := KeyTrend{
		Values:   values,
		Label:    JoinLabels(values),
		Years:    append([]int(nil), years...),
		Outcomes: append([]string(nil), outcomes...),
		Subgroup: make([][]float64, len(outcomes)),
		Baseline: make([][]float64, len(outcomes)),
	}
	for i := range outcomes {
		kt.Subgroup[i] = make([]float64, len(years))
		kt.Baseline[i] = make([]float64, len(years))
	}
	return kt
}
