package analysis

import (
	"context"
	"sort"
	"sync"

	"github.com/quaestorlabs/quaestor/backend/internal/contracts"
	"github.com/quaestorlabs/quaestor/backend/internal/metrics"
	"github.com/quaestorlabs/quaestor/backend/pkg/logger"
)

// maxStatementPeriods caps how many reporting periods travel to the model.
const maxStatementPeriods = 4

// Builder assembles the per-candidate payload for the batch scorer.
// Candidates are built concurrently and independently; within one
// candidate the two research agents run concurrently with each other.
type Builder struct {
	fundamentals contracts.ResearchAgent
	valuation    contracts.ResearchAgent
	metrics      *metrics.Registry
	logger       *logger.Logger
}

// NewBuilder creates an input builder. Either agent may be nil, in which
// case its findings are simply absent from every input. reg may be nil.
func NewBuilder(fundamentals, valuation contracts.ResearchAgent, reg *metrics.Registry, log *logger.Logger) *Builder {
	return &Builder{
		fundamentals: fundamentals,
		valuation:    valuation,
		metrics:      reg,
		logger:       log,
	}
}

// BuildAll builds one AnalysisInput per candidate, in candidate order.
// The call returns only once every candidate has settled. One candidate's
// agent failures degrade that candidate's findings to absent; they never
// cancel or fail siblings, and BuildAll itself cannot fail.
func (b *Builder) BuildAll(ctx context.Context, criteria *contracts.ScoringCriteria, candidates []contracts.PreFilterResult) []contracts.AnalysisInput {
	inputs := make([]contracts.AnalysisInput, len(candidates))

	var wg sync.WaitGroup
	for i, candidate := range candidates {
		wg.Add(1)
		go func(idx int, c contracts.PreFilterResult) {
			defer wg.Done()
			inputs[idx] = b.buildOne(ctx, criteria, c)
		}(i, candidate)
	}
	wg.Wait()

	return inputs
}

// buildOne assembles a single candidate's input, running both research
// agents concurrently and branching explicitly on each outcome.
func (b *Builder) buildOne(ctx context.Context, criteria *contracts.ScoringCriteria, candidate contracts.PreFilterResult) contracts.AnalysisInput {
	input := contracts.AnalysisInput{
		Symbol:           candidate.Symbol,
		PersonaID:        criteria.ID,
		PersonaName:      criteria.Name,
		PreliminaryScore: candidate.PreliminaryScore,
	}

	if data := candidate.Data; data != nil {
		input.Quote = data.Quote
		input.Profile = data.Profile
		input.Statements = normalizeStatements(data.Statements)
		input.Ratios = data.Ratios
	}
	input.DataQualityFlags = qualityFlags(candidate.Data)

	var (
		wg          sync.WaitGroup
		fundamental contracts.FindingsResult
		valuation   contracts.FindingsResult
	)

	if b.fundamentals != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fundamental = b.runAgent(ctx, b.fundamentals, candidate)
		}()
	}
	if b.valuation != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			valuation = b.runAgent(ctx, b.valuation, candidate)
		}()
	}
	wg.Wait()

	if fundamental.Err == nil {
		input.Fundamentals = fundamental.Findings
	}
	if valuation.Err == nil {
		input.Valuation = valuation.Findings
	}

	return input
}

// runAgent invokes one research agent and captures the outcome as an
// explicit result. A panic or error here affects only this candidate's
// findings for this agent.
func (b *Builder) runAgent(ctx context.Context, agent contracts.ResearchAgent, candidate contracts.PreFilterResult) contracts.FindingsResult {
	findings, err := agent.Analyze(ctx, candidate.Symbol, candidate.Data)
	if err != nil {
		b.logger.WithError(err).WithFields(map[string]interface{}{
			"symbol": candidate.Symbol,
			"agent":  agent.Name(),
		}).Warn("Research agent failed, continuing without findings")
		if b.metrics != nil {
			b.metrics.AgentFailures.WithLabelValues(agent.Name()).Inc()
		}
		return contracts.FindingsResult{Err: err}
	}
	return contracts.FindingsResult{Findings: findings}
}

// normalizeStatements returns the most recent periods, newest first,
// capped at maxStatementPeriods.
func normalizeStatements(statements []contracts.FinancialStatement) []contracts.FinancialStatement {
	if len(statements) == 0 {
		return nil
	}

	sorted := make([]contracts.FinancialStatement, len(statements))
	copy(sorted, statements)
	sort.SliceStable(sorted, func(i, j int) bool {
		return newerThan(sorted[i], sorted[j])
	})

	if len(sorted) > maxStatementPeriods {
		sorted = sorted[:maxStatementPeriods]
	}
	return sorted
}

func newerThan(a, b contracts.FinancialStatement) bool {
	if a.FiscalYear != b.FiscalYear {
		return a.FiscalYear > b.FiscalYear
	}
	return a.Period > b.Period
}

// qualityFlags records which snapshot sections are missing so the model
// can weigh its own confidence.
func qualityFlags(data *contracts.FinancialData) []string {
	var flags []string
	if data == nil {
		return []string{"no_snapshot"}
	}
	if data.Quote == nil {
		flags = append(flags, "missing_quote")
	}
	if data.Profile == nil {
		flags = append(flags, "missing_profile")
	}
	if len(data.Statements) == 0 {
		flags = append(flags, "missing_statements")
	}
	if data.Ratios == nil || data.Ratios.AvailableCount() == 0 {
		flags = append(flags, "missing_ratios")
	}
	return flags
}
