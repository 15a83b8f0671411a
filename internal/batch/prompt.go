package batch

import (
	"fmt"
	"strings"

	"github.com/quaestorlabs/quaestor/backend/internal/contracts"
)

// systemPrompt frames the model as the persona's analyst and pins the
// response contract: one JSON array element per candidate, echoing the
// candidate's symbol, in presentation order.
func systemPrompt(criteria *contracts.ScoringCriteria) string {
	var b strings.Builder

	b.WriteString("You are an equity analyst scoring candidates for the investment persona ")
	fmt.Fprintf(&b, "%q.\n", criteria.Name)
	b.WriteString("Persona philosophy: ")
	b.WriteString(criteria.Description)
	b.WriteString("\n\n")
	b.WriteString("Score each candidate from 0 (no fit) to 100 (ideal fit) for this persona only.\n")
	b.WriteString("Respond with a JSON array containing exactly one object per candidate, ")
	b.WriteString("in the order the candidates are presented. Every object must echo the ")
	b.WriteString("candidate's ticker symbol exactly as given.\n")
	b.WriteString("Verdicts: strong_fit, moderate_fit, weak_fit, poor_fit, insufficient_data.\n")
	b.WriteString("Base every claim on the supplied data; when data is missing, lower your ")
	b.WriteString("confidence and say so rather than inventing figures.\n")

	return b.String()
}

// batchPrompt enumerates every candidate's key metrics, financial summary
// and research findings in one message. One prompt for the whole batch is
// the deliberate latency trade: one round trip instead of N.
func batchPrompt(criteria *contracts.ScoringCriteria, inputs []contracts.AnalysisInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Evaluate the following %d candidates for the %q persona.\n",
		len(inputs), criteria.Name)
	b.WriteString("Persona scoring categories: ")
	b.WriteString(strings.Join(criteria.CategoryNames(), ", "))
	b.WriteString(".\n\n")

	for i, input := range inputs {
		fmt.Fprintf(&b, "### Candidate %d: %s\n", i+1, input.Symbol)
		fmt.Fprintf(&b, "Preliminary screen score: %d/100\n", input.PreliminaryScore)

		if input.Profile != nil {
			fmt.Fprintf(&b, "Company: %s (%s / %s)\n",
				input.Profile.Name, input.Profile.Sector, input.Profile.Industry)
		}
		if input.Quote != nil {
			fmt.Fprintf(&b, "Price: %.2f (%.2f%% today), market cap %.0f\n",
				input.Quote.Price, input.Quote.ChangePercent, input.Quote.MarketCap)
		}

		writeRatios(&b, input.Ratios)
		writeStatements(&b, input.Statements)
		writeFindings(&b, "Fundamentals research", input.Fundamentals)
		writeFindings(&b, "Valuation research", input.Valuation)

		if len(input.DataQualityFlags) > 0 {
			fmt.Fprintf(&b, "Data quality flags: %s\n", strings.Join(input.DataQualityFlags, ", "))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func writeRatios(b *strings.Builder, ratios *contracts.KeyRatios) {
	if ratios == nil {
		b.WriteString("Key ratios: unavailable\n")
		return
	}

	b.WriteString("Key ratios:")
	written := 0
	for _, id := range contracts.AllMetricIDs() {
		if v, ok := ratios.Metric(id); ok {
			fmt.Fprintf(b, " %s=%.4g", id, v)
			written++
		}
	}
	if written == 0 {
		b.WriteString(" unavailable")
	}
	b.WriteString("\n")
}

func writeStatements(b *strings.Builder, statements []contracts.FinancialStatement) {
	if len(statements) == 0 {
		return
	}

	b.WriteString("Recent periods (newest first):\n")
	for _, s := range statements {
		fmt.Fprintf(b, "  %d %s: revenue %.0f, operating income %.0f, net income %.0f, free cash flow %.0f\n",
			s.FiscalYear, s.Period, s.Revenue, s.OperatingIncome, s.NetIncome, s.FreeCashFlow)
	}
}

func writeFindings(b *strings.Builder, title string, findings *contracts.AgentFindings) {
	if findings == nil {
		return
	}

	fmt.Fprintf(b, "%s: %s\n", title, findings.Headline)
	for _, bullet := range findings.Bullets {
		fmt.Fprintf(b, "  - %s\n", bullet)
	}
	for _, caution := range findings.Cautions {
		fmt.Fprintf(b, "  - caution: %s\n", caution)
	}
}

// batchSchema is the strict structured-output contract: a JSON array with
// exactly one object per candidate, each echoing its symbol.
func batchSchema() map[string]any {
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"required": []string{
				"symbol", "score", "verdict", "confidence",
				"summaryBullets", "criteria", "keyRisks", "whatWouldChangeMind",
			},
			"properties": map[string]any{
				"symbol": map[string]any{"type": "string"},
				"score": map[string]any{
					"type": "integer", "minimum": 0.0, "maximum": 100.0,
				},
				"verdict": map[string]any{
					"type": "string",
					"enum": []string{
						string(contracts.VerdictStrongFit),
						string(contracts.VerdictModerateFit),
						string(contracts.VerdictWeakFit),
						string(contracts.VerdictPoorFit),
						string(contracts.VerdictInsufficientData),
					},
				},
				"confidence": map[string]any{
					"type": "number", "minimum": 0.0, "maximum": 1.0,
				},
				"summaryBullets": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"criteria": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":     "object",
						"required": []string{"name", "weight", "status", "explanation"},
						"properties": map[string]any{
							"name":   map[string]any{"type": "string"},
							"weight": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
							"status": map[string]any{
								"type": "string",
								"enum": []string{
									string(contracts.CriterionPass),
									string(contracts.CriterionFail),
									string(contracts.CriterionPartial),
								},
							},
							"metricsUsed": map[string]any{
								"type":  "array",
								"items": map[string]any{"type": "string"},
							},
							"explanation": map[string]any{"type": "string"},
						},
					},
				},
				"keyRisks": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"whatWouldChangeMind": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
		},
	}
}
