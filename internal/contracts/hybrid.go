package contracts

import "time"

// PreFilterResult is one ticker that survived deterministic pre-filtering.
// Consumed immediately by input building; never persisted.
type PreFilterResult struct {
	Symbol           string         `json:"symbol"`
	PreliminaryScore int            `json:"preliminary_score"`
	Data             *FinancialData `json:"-"`
}

// HybridResult is the terminal record of the two-stage pipeline: the
// untouched preliminary score alongside the model's final score, with the
// verdict already mapped to the display vocabulary.
type HybridResult struct {
	Symbol              string      `json:"symbol"`
	PreliminaryScore    int         `json:"preliminary_score"`
	FinalScore          int         `json:"final_score"`
	Verdict             string      `json:"verdict"`
	Confidence          float64     `json:"confidence"`
	Thesis              []string    `json:"thesis"`
	Criteria            []Criterion `json:"criteria"`
	KeyRisks            []string    `json:"key_risks"`
	WhatWouldChangeMind []string    `json:"what_would_change_mind"`
	FinancialMetrics    *KeyRatios  `json:"financial_metrics,omitempty"`
	DataUsed            []string    `json:"data_used"`
}

// HybridRun is the persisted summary of one pipeline execution.
type HybridRun struct {
	RunID        string         `json:"run_id"`
	PersonaID    PersonaID      `json:"persona_id"`
	UniverseSize int            `json:"universe_size"`
	TopN         int            `json:"top_n"`
	Results      []HybridResult `json:"results"`
	StartedAt    time.Time      `json:"started_at"`
	Duration     time.Duration  `json:"duration"`
}
