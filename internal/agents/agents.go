package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quaestorlabs/quaestor/backend/internal/contracts"
	"github.com/quaestorlabs/quaestor/backend/pkg/logger"
)

// findingsSchema is the shared structured-output contract for both
// research agents.
func findingsSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"headline", "bullets"},
		"properties": map[string]any{
			"headline": map[string]any{"type": "string"},
			"bullets": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"cautions": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
	}
}

// agent is the shared machinery behind the two research sub-agents: one
// narrow single-candidate prompt, one model call, structured findings
// back. Errors propagate; the input builder owns the degrade decision.
type agent struct {
	name   string
	system string
	model  contracts.ModelClient
	logger *logger.Logger
}

func (a *agent) Name() string {
	return a.name
}

func (a *agent) analyze(ctx context.Context, symbol, prompt string) (*contracts.AgentFindings, error) {
	raw, err := a.model.GenerateJSON(ctx, &contracts.ModelRequest{
		System: a.system,
		Messages: []contracts.ModelMessage{
			{Role: "user", Content: prompt},
		},
		Schema:      findingsSchema(),
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("%s agent for %s: %w", a.name, symbol, err)
	}

	var findings contracts.AgentFindings
	if err := json.Unmarshal(raw, &findings); err != nil {
		return nil, fmt.Errorf("%s agent for %s: parse findings: %w", a.name, symbol, err)
	}

	findings.Agent = a.name
	return &findings, nil
}

// FundamentalsAgent summarizes the health and trajectory of a company's
// reported fundamentals.
type FundamentalsAgent struct {
	agent
}

// NewFundamentalsAgent creates the fundamentals research agent.
func NewFundamentalsAgent(model contracts.ModelClient, log *logger.Logger) *FundamentalsAgent {
	return &FundamentalsAgent{agent{
		name: "fundamentals",
		system: "You are a fundamentals analyst. Summarize the health and trajectory " +
			"of the company's reported financials: growth, margins, returns on capital, " +
			"leverage. Be factual and terse; flag anything unusual as a caution.",
		model:  model,
		logger: log,
	}}
}

// Analyze produces fundamentals findings for one candidate.
func (a *FundamentalsAgent) Analyze(ctx context.Context, symbol string, data *contracts.FinancialData) (*contracts.AgentFindings, error) {
	return a.analyze(ctx, symbol, candidateBrief(symbol, data))
}

// ValuationAgent assesses what the market is currently paying for the
// business relative to its economics.
type ValuationAgent struct {
	agent
}

// NewValuationAgent creates the valuation research agent.
func NewValuationAgent(model contracts.ModelClient, log *logger.Logger) *ValuationAgent {
	return &ValuationAgent{agent{
		name: "valuation",
		system: "You are a valuation analyst. Assess what the market is paying for " +
			"this business: multiples versus profitability and growth, and whether the " +
			"current price embeds optimism or pessimism. Flag data gaps as cautions.",
		model:  model,
		logger: log,
	}}
}

// Analyze produces valuation findings for one candidate.
func (a *ValuationAgent) Analyze(ctx context.Context, symbol string, data *contracts.FinancialData) (*contracts.AgentFindings, error) {
	return a.analyze(ctx, symbol, candidateBrief(symbol, data))
}

// candidateBrief renders one candidate's snapshot as a compact prompt.
func candidateBrief(symbol string, data *contracts.FinancialData) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Ticker: %s\n", symbol)
	if data == nil {
		b.WriteString("No financial snapshot is available.\n")
		return b.String()
	}

	if data.Profile != nil {
		fmt.Fprintf(&b, "Company: %s, sector %s, industry %s\n",
			data.Profile.Name, data.Profile.Sector, data.Profile.Industry)
	}
	if data.Quote != nil {
		fmt.Fprintf(&b, "Price %.2f, market cap %.0f\n", data.Quote.Price, data.Quote.MarketCap)
	}

	if data.Ratios != nil {
		b.WriteString("Ratios:")
		for _, id := range contracts.AllMetricIDs() {
			if v, ok := data.Ratios.Metric(id); ok {
				fmt.Fprintf(&b, " %s=%.4g", id, v)
			}
		}
		b.WriteString("\n")
	}

	for _, s := range data.Statements {
		fmt.Fprintf(&b, "%d %s: revenue %.0f, net income %.0f, equity %.0f, fcf %.0f\n",
			s.FiscalYear, s.Period, s.Revenue, s.NetIncome, s.TotalEquity, s.FreeCashFlow)
	}

	return b.String()
}
