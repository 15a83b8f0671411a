package contracts

// Verdict is the model's fit classification for one candidate.
type Verdict string

const (
	VerdictStrongFit        Verdict = "strong_fit"
	VerdictModerateFit      Verdict = "moderate_fit"
	VerdictWeakFit          Verdict = "weak_fit"
	VerdictPoorFit          Verdict = "poor_fit"
	VerdictInsufficientData Verdict = "insufficient_data"
)

// Valid reports whether the verdict is one of the five known values.
func (v Verdict) Valid() bool {
	switch v {
	case VerdictStrongFit, VerdictModerateFit, VerdictWeakFit,
		VerdictPoorFit, VerdictInsufficientData:
		return true
	}
	return false
}

// Display maps the internal verdict vocabulary to the persona-facing one.
func (v Verdict) Display() string {
	switch v {
	case VerdictStrongFit:
		return "Strong Fit"
	case VerdictModerateFit:
		return "Fit"
	case VerdictWeakFit:
		return "Borderline"
	case VerdictPoorFit:
		return "Not a Fit"
	default:
		return "Insufficient Data"
	}
}

// CriterionStatus is the model's pass/fail call on one criterion.
type CriterionStatus string

const (
	CriterionPass    CriterionStatus = "pass"
	CriterionFail    CriterionStatus = "fail"
	CriterionPartial CriterionStatus = "partial"
)

// Criterion is one named check the model evaluated for a candidate.
type Criterion struct {
	Name        string          `json:"name"`
	Weight      float64         `json:"weight"`
	Status      CriterionStatus `json:"status"`
	MetricsUsed []string        `json:"metricsUsed"`
	Explanation string          `json:"explanation"`
}

// AgentFindings is the structured record one research sub-agent produces
// for a single candidate.
type AgentFindings struct {
	Agent    string   `json:"agent"`
	Headline string   `json:"headline"`
	Bullets  []string `json:"bullets"`
	Cautions []string `json:"cautions,omitempty"`
}

// FindingsResult is the explicit outcome of one sub-agent call. Exactly
// one of Findings and Err is meaningful; the builder branches on Err
// instead of relying on an ambient nil.
type FindingsResult struct {
	Findings *AgentFindings
	Err      error
}

// AnalysisInput is the per-candidate bundle handed to the batch scorer.
// Built once per pipeline run per candidate and discarded afterwards.
type AnalysisInput struct {
	Symbol           string               `json:"symbol"`
	PersonaID        PersonaID            `json:"persona_id"`
	PersonaName      string               `json:"persona_name"`
	PreliminaryScore int                  `json:"preliminary_score"`
	Quote            *PriceQuote          `json:"quote,omitempty"`
	Profile          *CompanyProfile      `json:"profile,omitempty"`
	Statements       []FinancialStatement `json:"statements,omitempty"`
	Ratios           *KeyRatios           `json:"ratios,omitempty"`
	DataQualityFlags []string             `json:"data_quality_flags,omitempty"`
	Fundamentals     *AgentFindings       `json:"fundamentals,omitempty"`
	Valuation        *AgentFindings       `json:"valuation,omitempty"`
}

// AnalysisOutput is the model's result for one candidate, sanitized so
// that Score is in [0,100], Confidence in [0,1] and Verdict is valid.
type AnalysisOutput struct {
	Symbol              string      `json:"symbol"`
	Score               int         `json:"score"`
	Verdict             Verdict     `json:"verdict"`
	Confidence          float64     `json:"confidence"`
	SummaryBullets      []string    `json:"summaryBullets"`
	Criteria            []Criterion `json:"criteria"`
	KeyRisks            []string    `json:"keyRisks"`
	WhatWouldChangeMind []string    `json:"whatWouldChangeMind"`
}
