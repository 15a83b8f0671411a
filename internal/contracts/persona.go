package contracts

// PersonaID identifies one investor persona.
type PersonaID string

// Bracket is a labeled inclusive numeric range mapped to a point award.
// Within one metric's bracket list the first declared bracket containing
// the value wins; adjacent brackets share endpoints by convention.
type Bracket struct {
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
	Points float64 `json:"points" yaml:"points"`
	Label  string  `json:"label" yaml:"label"`
}

// Contains reports whether v falls inside the bracket's [Min,Max] range.
func (b Bracket) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// MetricBrackets binds one metric to its ordered bracket table.
type MetricBrackets struct {
	Metric   MetricID  `json:"metric" yaml:"metric"`
	Brackets []Bracket `json:"brackets" yaml:"brackets"`
}

// Category is one weighted group of metrics inside a persona table.
// MaxPoints is the raw score a record hitting every metric's best
// bracket would accumulate; it anchors the 0-100 normalization.
type Category struct {
	Name      string           `json:"name" yaml:"name"`
	Weight    float64          `json:"weight" yaml:"weight"`
	MaxPoints float64          `json:"max_points" yaml:"max_points"`
	Metrics   []MetricBrackets `json:"metrics" yaml:"metrics"`
}

// ScoringCriteria is one persona's complete scoring table.
// Instances are built once at startup and never mutated afterwards.
type ScoringCriteria struct {
	ID           PersonaID  `json:"id" yaml:"id"`
	Name         string     `json:"name" yaml:"name"`
	Description  string     `json:"description" yaml:"description"`
	MinThreshold int        `json:"min_threshold" yaml:"min_threshold"`
	Categories   []Category `json:"categories" yaml:"categories"`
}

// CategoryNames returns the category names in declaration order.
func (c *ScoringCriteria) CategoryNames() []string {
	names := make([]string, 0, len(c.Categories))
	for _, cat := range c.Categories {
		names = append(names, cat.Name)
	}
	return names
}

// ScoreBreakdown is the transparency variant of a preliminary score:
// the same bracket matching as the scalar score, with the matched value,
// points and label recorded per metric that carried data.
type ScoreBreakdown struct {
	PersonaID     PersonaID           `json:"persona_id"`
	PersonaName   string              `json:"persona_name"`
	Score         int                 `json:"score"`
	Insufficient  bool                `json:"insufficient"`
	TotalWeighted float64             `json:"total_weighted"`
	MaxWeighted   float64             `json:"max_weighted"`
	Categories    []CategoryBreakdown `json:"categories"`
}

// CategoryBreakdown records one category's contribution.
type CategoryBreakdown struct {
	Name           string            `json:"name"`
	Weight         float64           `json:"weight"`
	RawPoints      float64           `json:"raw_points"`
	MaxPoints      float64           `json:"max_points"`
	WeightedPoints float64           `json:"weighted_points"`
	Metrics        []MetricBreakdown `json:"metrics"`
}

// MetricBreakdown records one scored metric's bracket match.
type MetricBreakdown struct {
	Metric MetricID `json:"metric"`
	Value  float64  `json:"value"`
	Points float64  `json:"points"`
	Label  string   `json:"label"`
}
