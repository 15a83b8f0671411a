package hybrid

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/quaestorlabs/quaestor/backend/internal/analysis"
	"github.com/quaestorlabs/quaestor/backend/internal/batch"
	"github.com/quaestorlabs/quaestor/backend/internal/contracts"
	"github.com/quaestorlabs/quaestor/backend/internal/metrics"
	"github.com/quaestorlabs/quaestor/backend/internal/personas"
	"github.com/quaestorlabs/quaestor/backend/internal/prefilter"
	"github.com/quaestorlabs/quaestor/backend/pkg/logger"
)

// Stage identifies one step of the hybrid pipeline. Transitions are
// strictly sequential; no stage retries a prior one.
type Stage string

const (
	StagePreFiltering   Stage = "pre_filtering"
	StageSelecting      Stage = "selecting"
	StageBuildingInputs Stage = "building_inputs"
	StageScoringBatch   Stage = "scoring_batch"
	StageMerging        Stage = "merging"
	StageDone           Stage = "done"
)

// ProgressSink receives stage transitions during a run. Implementations
// must not block; the API's websocket hub is one.
type ProgressSink interface {
	StageChanged(runID string, persona contracts.PersonaID, stage Stage)
}

// Orchestrator wires pre-filtering, input building, batch scoring and
// merging into the single hybrid pipeline. Once the universe and persona
// validate it never hard-fails on scoring: the worst case is a list of
// explicit Insufficient Data verdicts.
type Orchestrator struct {
	registry  *personas.Registry
	prefilter *prefilter.PreFilter
	builder   *analysis.Builder
	scorer    *batch.Scorer
	runs      contracts.RunRepository
	sink      ProgressSink
	metrics   *metrics.Registry
	logger    *logger.Logger
}

// NewOrchestrator creates a hybrid orchestrator. runs, sink and reg are
// optional; nil disables persistence, progress streaming and metrics.
func NewOrchestrator(
	registry *personas.Registry,
	pf *prefilter.PreFilter,
	builder *analysis.Builder,
	scorer *batch.Scorer,
	runs contracts.RunRepository,
	sink ProgressSink,
	reg *metrics.Registry,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		registry:  registry,
		prefilter: pf,
		builder:   builder,
		scorer:    scorer,
		runs:      runs,
		sink:      sink,
		metrics:   reg,
		logger:    log,
	}
}

// HybridScore runs the full pipeline for a ticker universe and returns
// at most topN results sorted by final score descending. Fewer results
// mean the universe yielded fewer valid candidates; the list is never
// padded.
func (o *Orchestrator) HybridScore(ctx context.Context, symbols []string, persona contracts.PersonaID, topN int) ([]contracts.HybridResult, error) {
	criteria, err := o.registry.Get(persona)
	if err != nil {
		return nil, err
	}
	if topN <= 0 {
		return nil, fmt.Errorf("topN must be positive, got %d", topN)
	}

	runID := newRunID()
	started := time.Now()

	if o.metrics != nil {
		o.metrics.ActiveRuns.Inc()
		defer o.metrics.ActiveRuns.Dec()
	}

	o.logger.WithFields(map[string]interface{}{
		"run_id":   runID,
		"persona":  persona,
		"universe": len(symbols),
		"top_n":    topN,
	}).Info("Starting hybrid scoring run")

	// PreFiltering
	o.transition(runID, persona, StagePreFiltering)
	filtered, err := o.timedPrefilter(ctx, symbols, persona)
	if err != nil {
		if o.metrics != nil {
			o.metrics.RunsTotal.WithLabelValues(string(persona), "failed").Inc()
		}
		return nil, fmt.Errorf("pre-filter: %w", err)
	}

	// Selecting: truncate to topN, never pad.
	o.transition(runID, persona, StageSelecting)
	candidates := filtered
	if len(candidates) > topN {
		candidates = candidates[:topN]
	}

	results, err := o.finalScore(ctx, runID, criteria, candidates)
	if err != nil {
		return nil, err
	}

	o.transition(runID, persona, StageDone)
	duration := time.Since(started)

	if o.metrics != nil {
		o.metrics.RunsTotal.WithLabelValues(string(persona), "completed").Inc()
	}

	o.saveRun(ctx, &contracts.HybridRun{
		RunID:        runID,
		PersonaID:    persona,
		UniverseSize: len(symbols),
		TopN:         topN,
		Results:      results,
		StartedAt:    started,
		Duration:     duration,
	})

	o.logger.WithFields(map[string]interface{}{
		"run_id":   runID,
		"persona":  persona,
		"results":  len(results),
		"duration": duration.Seconds(),
	}).Info("Hybrid scoring run completed")

	return results, nil
}

// ApplyFinalScoring runs the model stage of the pipeline for candidates
// that already passed pre-filtering: builds inputs concurrently, issues
// the single batch call, and merges into final ranked results. It cannot
// fail on model errors; every candidate always gets a result.
func (o *Orchestrator) ApplyFinalScoring(ctx context.Context, candidates []contracts.PreFilterResult, persona contracts.PersonaID) ([]contracts.HybridResult, error) {
	criteria, err := o.registry.Get(persona)
	if err != nil {
		return nil, err
	}
	return o.finalScore(ctx, newRunID(), criteria, candidates)
}

func (o *Orchestrator) finalScore(ctx context.Context, runID string, criteria *contracts.ScoringCriteria, candidates []contracts.PreFilterResult) ([]contracts.HybridResult, error) {
	if len(candidates) == 0 {
		return []contracts.HybridResult{}, nil
	}

	// BuildingInputs: all candidates concurrently, blocking until every
	// one has settled.
	o.transition(runID, criteria.ID, StageBuildingInputs)
	buildStart := time.Now()
	inputs := o.builder.BuildAll(ctx, criteria, candidates)
	o.observeStage(StageBuildingInputs, "ok", buildStart)

	// ScoringBatch: exactly one external call for the whole batch.
	o.transition(runID, criteria.ID, StageScoringBatch)
	scoreStart := time.Now()
	outputs := o.scorer.Score(ctx, criteria, inputs)
	o.observeStage(StageScoringBatch, "ok", scoreStart)

	// Merging: zip outputs with their originating candidates, map the
	// verdict vocabulary and sort by final score.
	o.transition(runID, criteria.ID, StageMerging)
	results := make([]contracts.HybridResult, len(candidates))
	for i, candidate := range candidates {
		results[i] = merge(candidate, inputs[i], outputs[i])
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})

	return results, nil
}

// merge assembles the terminal record for one candidate, carrying the
// untouched preliminary score alongside the model's final score.
func merge(candidate contracts.PreFilterResult, input contracts.AnalysisInput, output contracts.AnalysisOutput) contracts.HybridResult {
	var ratios *contracts.KeyRatios
	if candidate.Data != nil {
		ratios = candidate.Data.Ratios
	}

	return contracts.HybridResult{
		Symbol:              candidate.Symbol,
		PreliminaryScore:    candidate.PreliminaryScore,
		FinalScore:          output.Score,
		Verdict:             output.Verdict.Display(),
		Confidence:          output.Confidence,
		Thesis:              output.SummaryBullets,
		Criteria:            output.Criteria,
		KeyRisks:            output.KeyRisks,
		WhatWouldChangeMind: output.WhatWouldChangeMind,
		FinancialMetrics:    ratios,
		DataUsed:            dataUsed(input),
	}
}

func dataUsed(input contracts.AnalysisInput) []string {
	var used []string
	if input.Quote != nil {
		used = append(used, "quote")
	}
	if input.Profile != nil {
		used = append(used, "profile")
	}
	if len(input.Statements) > 0 {
		used = append(used, "statements")
	}
	if input.Ratios != nil {
		used = append(used, "ratios")
	}
	if input.Fundamentals != nil {
		used = append(used, "fundamentals")
	}
	if input.Valuation != nil {
		used = append(used, "valuation")
	}
	return used
}

func (o *Orchestrator) timedPrefilter(ctx context.Context, symbols []string, persona contracts.PersonaID) ([]contracts.PreFilterResult, error) {
	start := time.Now()
	filtered, err := o.prefilter.Run(ctx, symbols, persona)
	if err != nil {
		o.observeStage(StagePreFiltering, "error", start)
		return nil, err
	}
	o.observeStage(StagePreFiltering, "ok", start)

	if o.metrics != nil {
		o.metrics.PrefilterScored.Observe(float64(len(filtered)))
		o.metrics.PrefilterSkipped.Add(float64(len(symbols) - len(filtered)))
	}
	return filtered, nil
}

func (o *Orchestrator) transition(runID string, persona contracts.PersonaID, stage Stage) {
	o.logger.WithFields(map[string]interface{}{
		"run_id": runID,
		"stage":  stage,
	}).Debug("Pipeline stage transition")

	if o.sink != nil {
		o.sink.StageChanged(runID, persona, stage)
	}
}

func (o *Orchestrator) observeStage(stage Stage, result string, start time.Time) {
	if o.metrics != nil {
		o.metrics.StageDuration.WithLabelValues(string(stage), result).
			Observe(time.Since(start).Seconds())
	}
}

// saveRun persists the run summary. Persistence failures are logged and
// swallowed; they must not fail a completed scoring run.
func (o *Orchestrator) saveRun(ctx context.Context, run *contracts.HybridRun) {
	if o.runs == nil {
		return
	}
	if err := o.runs.SaveRun(ctx, run); err != nil {
		o.logger.WithError(err).WithFields(map[string]interface{}{
			"run_id": run.RunID,
		}).Warn("Failed to persist hybrid run")
	}
}

// newRunID generates a unique run identifier.
func newRunID() string {
	return fmt.Sprintf("run_%s", time.Now().Format("20060102_150405.000"))
}
