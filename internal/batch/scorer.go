package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quaestorlabs/quaestor/backend/internal/contracts"
	"github.com/quaestorlabs/quaestor/backend/internal/metrics"
	"github.com/quaestorlabs/quaestor/backend/pkg/logger"
)

// Fallback values used when the model cannot produce a usable batch.
const (
	fallbackScore      = 50
	fallbackConfidence = 0.3
	fallbackBullet     = "Generative scoring was unavailable for this batch; this is a neutral placeholder result."
)

// Scorer issues exactly one generative-model call for a whole candidate
// batch. It never propagates a model failure: any error, malformed
// response or schema violation degrades to one fallback result per
// candidate, so the caller always receives len(inputs) outputs.
type Scorer struct {
	model   contracts.ModelClient
	metrics *metrics.Registry
	logger  *logger.Logger
}

// NewScorer creates a batch scorer. metrics may be nil.
func NewScorer(model contracts.ModelClient, reg *metrics.Registry, log *logger.Logger) *Scorer {
	return &Scorer{
		model:   model,
		metrics: reg,
		logger:  log,
	}
}

// Score evaluates the whole batch with one model call and returns outputs
// aligned with inputs (index i scores inputs[i]). Responses are matched
// to candidates by their echoed symbol; a candidate the model skipped
// gets an individual fallback, and a response of the wrong length
// falls back for the entire batch.
func (s *Scorer) Score(ctx context.Context, criteria *contracts.ScoringCriteria, inputs []contracts.AnalysisInput) []contracts.AnalysisOutput {
	if len(inputs) == 0 {
		return nil
	}

	req := &contracts.ModelRequest{
		System: systemPrompt(criteria),
		Messages: []contracts.ModelMessage{
			{Role: "user", Content: batchPrompt(criteria, inputs)},
		},
		Schema:      batchSchema(),
		Temperature: 0.2,
	}

	raw, err := s.model.GenerateJSON(ctx, req)
	if err != nil {
		s.logger.WithError(err).WithFields(map[string]interface{}{
			"persona":    criteria.ID,
			"candidates": len(inputs),
		}).Error("Batch model call failed, falling back")
		return s.fallbackAll(criteria, inputs)
	}

	var parsed []contracts.AnalysisOutput
	if err := json.Unmarshal(raw, &parsed); err != nil {
		s.logger.WithError(err).WithFields(map[string]interface{}{
			"persona": criteria.ID,
		}).Error("Batch model response is not a valid JSON array, falling back")
		return s.fallbackAll(criteria, inputs)
	}

	if len(parsed) != len(inputs) {
		s.logger.WithFields(map[string]interface{}{
			"persona":  criteria.ID,
			"expected": len(inputs),
			"received": len(parsed),
		}).Error("Batch model returned wrong candidate count, falling back")
		return s.fallbackAll(criteria, inputs)
	}

	// Match by echoed symbol rather than trusting positional order; the
	// model reordering entries must not corrupt the candidate mapping.
	bySymbol := make(map[string]contracts.AnalysisOutput, len(parsed))
	for _, out := range parsed {
		bySymbol[strings.ToUpper(strings.TrimSpace(out.Symbol))] = out
	}

	outputs := make([]contracts.AnalysisOutput, len(inputs))
	for i, input := range inputs {
		out, ok := bySymbol[strings.ToUpper(input.Symbol)]
		if !ok {
			s.logger.WithFields(map[string]interface{}{
				"persona": criteria.ID,
				"symbol":  input.Symbol,
			}).Warn("Model omitted candidate, using fallback result")
			outputs[i] = s.fallbackOne(criteria, input.Symbol)
			continue
		}
		outputs[i] = sanitize(out, input.Symbol)
	}

	if s.metrics != nil {
		s.metrics.ModelCalls.WithLabelValues("success").Inc()
	}
	return outputs
}

// sanitize enforces the output invariants regardless of what the model
// produced: score in [0,100], confidence in [0,1], a known verdict, and
// the candidate's own symbol.
func sanitize(out contracts.AnalysisOutput, symbol string) contracts.AnalysisOutput {
	out.Symbol = symbol

	if out.Score < 0 {
		out.Score = 0
	} else if out.Score > 100 {
		out.Score = 100
	}

	if out.Confidence < 0 {
		out.Confidence = 0
	} else if out.Confidence > 1 {
		out.Confidence = 1
	}

	if !out.Verdict.Valid() {
		out.Verdict = contracts.VerdictInsufficientData
	}

	for i := range out.Criteria {
		c := &out.Criteria[i]
		if c.Weight < 0 {
			c.Weight = 0
		} else if c.Weight > 1 {
			c.Weight = 1
		}
		switch c.Status {
		case contracts.CriterionPass, contracts.CriterionFail, contracts.CriterionPartial:
		default:
			c.Status = contracts.CriterionPartial
		}
	}

	return out
}

// fallbackAll fabricates a deterministic result for every candidate in
// the batch.
func (s *Scorer) fallbackAll(criteria *contracts.ScoringCriteria, inputs []contracts.AnalysisInput) []contracts.AnalysisOutput {
	if s.metrics != nil {
		s.metrics.ModelCalls.WithLabelValues("fallback").Inc()
		s.metrics.FallbackBatches.Inc()
	}

	outputs := make([]contracts.AnalysisOutput, len(inputs))
	for i, input := range inputs {
		outputs[i] = s.fallbackOne(criteria, input.Symbol)
	}
	return outputs
}

// fallbackOne is the fixed degraded result: neutral score, explicit
// insufficient-data verdict, low confidence, and criteria synthesized
// from the persona's static category names.
func (s *Scorer) fallbackOne(criteria *contracts.ScoringCriteria, symbol string) contracts.AnalysisOutput {
	synthesized := make([]contracts.Criterion, 0, len(criteria.Categories))
	for _, cat := range criteria.Categories {
		synthesized = append(synthesized, contracts.Criterion{
			Name:        cat.Name,
			Weight:      cat.Weight,
			Status:      contracts.CriterionPartial,
			Explanation: fmt.Sprintf("Not evaluated: generative scoring unavailable for %s.", symbol),
		})
	}

	return contracts.AnalysisOutput{
		Symbol:         symbol,
		Score:          fallbackScore,
		Verdict:        contracts.VerdictInsufficientData,
		Confidence:     fallbackConfidence,
		SummaryBullets: []string{fallbackBullet},
		Criteria:       synthesized,
	}
}
