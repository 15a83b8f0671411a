package personas

import (
	"github.com/quaestorlabs/quaestor/backend/internal/contracts"
)

// Built-in persona identifiers.
const (
	QualityValue   contracts.PersonaID = "quality_value"
	GARP           contracts.PersonaID = "garp"
	DeepValue      contracts.PersonaID = "deep_value"
	DividendIncome contracts.PersonaID = "dividend_income"
	HighGrowth     contracts.PersonaID = "high_growth"
	Fortress       contracts.PersonaID = "fortress"
)

// unbounded is the sentinel for open-ended bracket tails. Bracket tables
// must cover the whole domain, so extreme readings still land somewhere.
const unbounded = 1e9

// builtinCriteria returns the hand-authored scoring tables for the six
// built-in personas. Brackets are declared best-first within each metric;
// a value on a shared endpoint therefore resolves to the better bracket.
func builtinCriteria() []*contracts.ScoringCriteria {
	return []*contracts.ScoringCriteria{
		qualityValueCriteria(),
		garpCriteria(),
		deepValueCriteria(),
		dividendIncomeCriteria(),
		highGrowthCriteria(),
		fortressCriteria(),
	}
}

func qualityValueCriteria() *contracts.ScoringCriteria {
	return &contracts.ScoringCriteria{
		ID:           QualityValue,
		Name:         "Quality at a Fair Price",
		Description:  "Profitable, conservatively financed businesses trading at sensible multiples.",
		MinThreshold: 70,
		Categories: []contracts.Category{
			{
				Name: "valuation", Weight: 0.35, MaxPoints: 30,
				Metrics: []contracts.MetricBrackets{
					{Metric: contracts.MetricPERatio, Brackets: []contracts.Bracket{
						{Min: 0, Max: 15, Points: 15, Label: "excellent"},
						{Min: 15, Max: 25, Points: 10, Label: "fair"},
						{Min: 25, Max: 40, Points: 5, Label: "stretched"},
						{Min: 40, Max: unbounded, Points: 0, Label: "expensive"},
						{Min: -unbounded, Max: 0, Points: 0, Label: "negative earnings"},
					}},
					{Metric: contracts.MetricPBRatio, Brackets: []contracts.Bracket{
						{Min: 0, Max: 1.5, Points: 15, Label: "excellent"},
						{Min: 1.5, Max: 3, Points: 10, Label: "fair"},
						{Min: 3, Max: 5, Points: 5, Label: "rich"},
						{Min: 5, Max: unbounded, Points: 0, Label: "very rich"},
						{Min: -unbounded, Max: 0, Points: 0, Label: "negative book"},
					}},
				},
			},
			{
				Name: "profitability", Weight: 0.35, MaxPoints: 30,
				Metrics: []contracts.MetricBrackets{
					{Metric: contracts.MetricROE, Brackets: []contracts.Bracket{
						{Min: 0.20, Max: unbounded, Points: 12, Label: "excellent"},
						{Min: 0.12, Max: 0.20, Points: 8, Label: "good"},
						{Min: 0.05, Max: 0.12, Points: 4, Label: "modest"},
						{Min: -unbounded, Max: 0.05, Points: 0, Label: "weak"},
					}},
					{Metric: contracts.MetricROA, Brackets: []contracts.Bracket{
						{Min: 0.08, Max: unbounded, Points: 10, Label: "excellent"},
						{Min: 0.04, Max: 0.08, Points: 6, Label: "good"},
						{Min: 0, Max: 0.04, Points: 3, Label: "modest"},
						{Min: -unbounded, Max: 0, Points: 0, Label: "weak"},
					}},
					{Metric: contracts.MetricNetMargin, Brackets: []contracts.Bracket{
						{Min: 0.15, Max: unbounded, Points: 8, Label: "excellent"},
						{Min: 0.08, Max: 0.15, Points: 5, Label: "good"},
						{Min: 0, Max: 0.08, Points: 2, Label: "thin"},
						{Min: -unbounded, Max: 0, Points: 0, Label: "loss-making"},
					}},
				},
			},
			{
				Name: "balance_sheet", Weight: 0.30, MaxPoints: 30,
				Metrics: []contracts.MetricBrackets{
					{Metric: contracts.MetricDebtToEquity, Brackets: []contracts.Bracket{
						{Min: 0, Max: 0.5, Points: 12, Label: "conservative"},
						{Min: 0.5, Max: 1.0, Points: 8, Label: "moderate"},
						{Min: 1.0, Max: 2.0, Points: 4, Label: "levered"},
						{Min: 2.0, Max: unbounded, Points: 0, Label: "heavy"},
						{Min: -unbounded, Max: 0, Points: 0, Label: "negative equity"},
					}},
					{Metric: contracts.MetricCurrentRatio, Brackets: []contracts.Bracket{
						{Min: 2.0, Max: unbounded, Points: 10, Label: "strong"},
						{Min: 1.5, Max: 2.0, Points: 7, Label: "healthy"},
						{Min: 1.0, Max: 1.5, Points: 4, Label: "adequate"},
						{Min: -unbounded, Max: 1.0, Points: 0, Label: "tight"},
					}},
					{Metric: contracts.MetricInterestCoverage, Brackets: []contracts.Bracket{
						{Min: 5, Max: unbounded, Points: 8, Label: "comfortable"},
						{Min: 2.5, Max: 5, Points: 5, Label: "adequate"},
						{Min: 1, Max: 2.5, Points: 2, Label: "thin"},
						{Min: -unbounded, Max: 1, Points: 0, Label: "strained"},
					}},
				},
			},
		},
	}
}

func garpCriteria() *contracts.ScoringCriteria {
	return &contracts.ScoringCriteria{
		ID:           GARP,
		Name:         "Growth at a Reasonable Price",
		Description:  "Compounding businesses whose growth is not already fully paid for.",
		MinThreshold: 65,
		Categories: []contracts.Category{
			{
				Name: "growth", Weight: 0.40, MaxPoints: 30,
				Metrics: []contracts.MetricBrackets{
					{Metric: contracts.MetricRevenueGrowth, Brackets: []contracts.Bracket{
						{Min: 0.15, Max: unbounded, Points: 12, Label: "rapid"},
						{Min: 0.08, Max: 0.15, Points: 8, Label: "solid"},
						{Min: 0.02, Max: 0.08, Points: 4, Label: "slow"},
						{Min: -unbounded, Max: 0.02, Points: 0, Label: "stagnant"},
					}},
					{Metric: contracts.MetricEarningsGrowth, Brackets: []contracts.Bracket{
						{Min: 0.15, Max: unbounded, Points: 12, Label: "rapid"},
						{Min: 0.08, Max: 0.15, Points: 8, Label: "solid"},
						{Min: 0.02, Max: 0.08, Points: 4, Label: "slow"},
						{Min: -unbounded, Max: 0.02, Points: 0, Label: "stagnant"},
					}},
					{Metric: contracts.MetricNetMargin, Brackets: []contracts.Bracket{
						{Min: 0.10, Max: unbounded, Points: 6, Label: "healthy"},
						{Min: 0.04, Max: 0.10, Points: 3, Label: "thin"},
						{Min: -unbounded, Max: 0.04, Points: 0, Label: "weak"},
					}},
				},
			},
			{
				Name: "valuation_vs_growth", Weight: 0.35, MaxPoints: 30,
				Metrics: []contracts.MetricBrackets{
					{Metric: contracts.MetricPEGRatio, Brackets: []contracts.Bracket{
						{Min: 0, Max: 1.0, Points: 18, Label: "cheap for growth"},
						{Min: 1.0, Max: 1.5, Points: 12, Label: "fair"},
						{Min: 1.5, Max: 2.5, Points: 6, Label: "full"},
						{Min: 2.5, Max: unbounded, Points: 0, Label: "expensive"},
						{Min: -unbounded, Max: 0, Points: 0, Label: "not meaningful"},
					}},
					{Metric: contracts.MetricPERatio, Brackets: []contracts.Bracket{
						{Min: 0, Max: 20, Points: 12, Label: "reasonable"},
						{Min: 20, Max: 35, Points: 8, Label: "elevated"},
						{Min: 35, Max: 60, Points: 4, Label: "rich"},
						{Min: 60, Max: unbounded, Points: 0, Label: "speculative"},
						{Min: -unbounded, Max: 0, Points: 0, Label: "negative earnings"},
					}},
				},
			},
			{
				Name: "quality", Weight: 0.25, MaxPoints: 20,
				Metrics: []contracts.MetricBrackets{
					{Metric: contracts.MetricROE, Brackets: []contracts.Bracket{
						{Min: 0.15, Max: unbounded, Points: 10, Label: "strong"},
						{Min: 0.08, Max: 0.15, Points: 6, Label: "decent"},
						{Min: -unbounded, Max: 0.08, Points: 0, Label: "weak"},
					}},
					{Metric: contracts.MetricDebtToEquity, Brackets: []contracts.Bracket{
						{Min: 0, Max: 0.8, Points: 10, Label: "manageable"},
						{Min: 0.8, Max: 1.5, Points: 5, Label: "elevated"},
						{Min: 1.5, Max: unbounded, Points: 0, Label: "heavy"},
						{Min: -unbounded, Max: 0, Points: 0, Label: "negative equity"},
					}},
				},
			},
		},
	}
}

func deepValueCriteria() *contracts.ScoringCriteria {
	return &contracts.ScoringCriteria{
		ID:           DeepValue,
		Name:         "Deep Value",
		Description:  "Statistically cheap assets and earnings with enough balance sheet to wait.",
		MinThreshold: 60,
		Categories: []contracts.Category{
			{
				Name: "price_to_assets", Weight: 0.40, MaxPoints: 30,
				Metrics: []contracts.MetricBrackets{
					{Metric: contracts.MetricPBRatio, Brackets: []contracts.Bracket{
						{Min: 0, Max: 1.0, Points: 20, Label: "below book"},
						{Min: 1.0, Max: 1.8, Points: 12, Label: "near book"},
						{Min: 1.8, Max: 3.0, Points: 4, Label: "above book"},
						{Min: 3.0, Max: unbounded, Points: 0, Label: "premium"},
						{Min: -unbounded, Max: 0, Points: 0, Label: "negative book"},
					}},
					{Metric: contracts.MetricPSRatio, Brackets: []contracts.Bracket{
						{Min: 0, Max: 1.0, Points: 10, Label: "depressed"},
						{Min: 1.0, Max: 2.5, Points: 5, Label: "moderate"},
						{Min: 2.5, Max: unbounded, Points: 0, Label: "full"},
						{Min: -unbounded, Max: 0, Points: 0, Label: "not meaningful"},
					}},
				},
			},
			{
				Name: "earnings_yield", Weight: 0.35, MaxPoints: 30,
				Metrics: []contracts.MetricBrackets{
					{Metric: contracts.MetricPERatio, Brackets: []contracts.Bracket{
						{Min: 0, Max: 8, Points: 15, Label: "deep discount"},
						{Min: 8, Max: 12, Points: 10, Label: "cheap"},
						{Min: 12, Max: 18, Points: 5, Label: "average"},
						{Min: 18, Max: unbounded, Points: 0, Label: "no margin of safety"},
						{Min: -unbounded, Max: 0, Points: 0, Label: "negative earnings"},
					}},
					{Metric: contracts.MetricFCFYield, Brackets: []contracts.Bracket{
						{Min: 0.10, Max: unbounded, Points: 15, Label: "exceptional"},
						{Min: 0.06, Max: 0.10, Points: 10, Label: "attractive"},
						{Min: 0.03, Max: 0.06, Points: 5, Label: "modest"},
						{Min: -unbounded, Max: 0.03, Points: 0, Label: "scant"},
					}},
				},
			},
			{
				Name: "downside_protection", Weight: 0.25, MaxPoints: 20,
				Metrics: []contracts.MetricBrackets{
					{Metric: contracts.MetricCurrentRatio, Brackets: []contracts.Bracket{
						{Min: 1.5, Max: unbounded, Points: 10, Label: "liquid"},
						{Min: 1.0, Max: 1.5, Points: 5, Label: "adequate"},
						{Min: -unbounded, Max: 1.0, Points: 0, Label: "tight"},
					}},
					{Metric: contracts.MetricDebtToEquity, Brackets: []contracts.Bracket{
						{Min: 0, Max: 0.6, Points: 10, Label: "low"},
						{Min: 0.6, Max: 1.2, Points: 5, Label: "moderate"},
						{Min: 1.2, Max: unbounded, Points: 0, Label: "heavy"},
						{Min: -unbounded, Max: 0, Points: 0, Label: "negative equity"},
					}},
				},
			},
		},
	}
}

func dividendIncomeCriteria() *contracts.ScoringCriteria {
	return &contracts.ScoringCriteria{
		ID:           DividendIncome,
		Name:         "Durable Dividend",
		Description:  "Meaningful, well-covered payouts from stable cash generators.",
		MinThreshold: 65,
		Categories: []contracts.Category{
			{
				Name: "income", Weight: 0.40, MaxPoints: 30,
				Metrics: []contracts.MetricBrackets{
					{Metric: contracts.MetricDividendYield, Brackets: []contracts.Bracket{
						{Min: 0.035, Max: unbounded, Points: 18, Label: "high"},
						{Min: 0.02, Max: 0.035, Points: 12, Label: "solid"},
						{Min: 0.01, Max: 0.02, Points: 6, Label: "token"},
						{Min: -unbounded, Max: 0.01, Points: 0, Label: "negligible"},
					}},
					{Metric: contracts.MetricPayoutRatio, Brackets: []contracts.Bracket{
						{Min: 0.30, Max: 0.60, Points: 12, Label: "sweet spot"},
						{Min: 0, Max: 0.30, Points: 8, Label: "conservative"},
						{Min: 0.60, Max: 0.80, Points: 6, Label: "stretched"},
						{Min: 0.80, Max: unbounded, Points: 0, Label: "unsustainable"},
						{Min: -unbounded, Max: 0, Points: 0, Label: "no payout"},
					}},
				},
			},
			{
				Name: "coverage", Weight: 0.30, MaxPoints: 25,
				Metrics: []contracts.MetricBrackets{
					{Metric: contracts.MetricFCFYield, Brackets: []contracts.Bracket{
						{Min: 0.05, Max: unbounded, Points: 13, Label: "well covered"},
						{Min: 0.02, Max: 0.05, Points: 8, Label: "covered"},
						{Min: -unbounded, Max: 0.02, Points: 0, Label: "weak"},
					}},
					{Metric: contracts.MetricInterestCoverage, Brackets: []contracts.Bracket{
						{Min: 6, Max: unbounded, Points: 12, Label: "comfortable"},
						{Min: 3, Max: 6, Points: 7, Label: "adequate"},
						{Min: -unbounded, Max: 3, Points: 0, Label: "strained"},
					}},
				},
			},
			{
				Name: "stability", Weight: 0.30, MaxPoints: 25,
				Metrics: []contracts.MetricBrackets{
					{Metric: contracts.MetricNetMargin, Brackets: []contracts.Bracket{
						{Min: 0.10, Max: unbounded, Points: 10, Label: "strong"},
						{Min: 0.05, Max: 0.10, Points: 6, Label: "steady"},
						{Min: -unbounded, Max: 0.05, Points: 0, Label: "thin"},
					}},
					{Metric: contracts.MetricDebtToEquity, Brackets: []contracts.Bracket{
						{Min: 0, Max: 0.8, Points: 10, Label: "prudent"},
						{Min: 0.8, Max: 1.6, Points: 5, Label: "elevated"},
						{Min: 1.6, Max: unbounded, Points: 0, Label: "heavy"},
						{Min: -unbounded, Max: 0, Points: 0, Label: "negative equity"},
					}},
					{Metric: contracts.MetricCurrentRatio, Brackets: []contracts.Bracket{
						{Min: 1.2, Max: unbounded, Points: 5, Label: "sound"},
						{Min: -unbounded, Max: 1.2, Points: 0, Label: "tight"},
					}},
				},
			},
		},
	}
}

func highGrowthCriteria() *contracts.ScoringCriteria {
	return &contracts.ScoringCriteria{
		ID:           HighGrowth,
		Name:         "Aggressive Growth",
		Description:  "Fast expanders with scalable economics, tolerating rich multiples.",
		MinThreshold: 70,
		Categories: []contracts.Category{
			{
				Name: "expansion", Weight: 0.50, MaxPoints: 40,
				Metrics: []contracts.MetricBrackets{
					{Metric: contracts.MetricRevenueGrowth, Brackets: []contracts.Bracket{
						{Min: 0.30, Max: unbounded, Points: 20, Label: "hyper"},
						{Min: 0.18, Max: 0.30, Points: 14, Label: "rapid"},
						{Min: 0.08, Max: 0.18, Points: 7, Label: "moderate"},
						{Min: -unbounded, Max: 0.08, Points: 0, Label: "slow"},
					}},
					{Metric: contracts.MetricEarningsGrowth, Brackets: []contracts.Bracket{
						{Min: 0.25, Max: unbounded, Points: 20, Label: "explosive"},
						{Min: 0.12, Max: 0.25, Points: 12, Label: "strong"},
						{Min: 0, Max: 0.12, Points: 5, Label: "modest"},
						{Min: -unbounded, Max: 0, Points: 0, Label: "declining"},
					}},
				},
			},
			{
				Name: "scalability", Weight: 0.30, MaxPoints: 25,
				Metrics: []contracts.MetricBrackets{
					{Metric: contracts.MetricGrossMargin, Brackets: []contracts.Bracket{
						{Min: 0.55, Max: unbounded, Points: 15, Label: "software-grade"},
						{Min: 0.35, Max: 0.55, Points: 9, Label: "healthy"},
						{Min: -unbounded, Max: 0.35, Points: 0, Label: "commodity"},
					}},
					{Metric: contracts.MetricOperatingMargin, Brackets: []contracts.Bracket{
						{Min: 0.15, Max: unbounded, Points: 10, Label: "operating leverage"},
						{Min: 0, Max: 0.15, Points: 5, Label: "emerging"},
						{Min: -unbounded, Max: 0, Points: 0, Label: "burning"},
					}},
				},
			},
			{
				Name: "discipline", Weight: 0.20, MaxPoints: 15,
				Metrics: []contracts.MetricBrackets{
					{Metric: contracts.MetricPEGRatio, Brackets: []contracts.Bracket{
						{Min: 0, Max: 1.5, Points: 8, Label: "justified"},
						{Min: 1.5, Max: 3.0, Points: 4, Label: "aggressive"},
						{Min: 3.0, Max: unbounded, Points: 0, Label: "priced for perfection"},
						{Min: -unbounded, Max: 0, Points: 0, Label: "not meaningful"},
					}},
					{Metric: contracts.MetricDebtToEquity, Brackets: []contracts.Bracket{
						{Min: 0, Max: 0.5, Points: 7, Label: "clean"},
						{Min: 0.5, Max: 1.2, Points: 3, Label: "funded"},
						{Min: 1.2, Max: unbounded, Points: 0, Label: "leveraged"},
						{Min: -unbounded, Max: 0, Points: 0, Label: "negative equity"},
					}},
				},
			},
		},
	}
}

func fortressCriteria() *contracts.ScoringCriteria {
	return &contracts.ScoringCriteria{
		ID:           Fortress,
		Name:         "Balance-Sheet Fortress",
		Description:  "Capital preservation first: low leverage, deep liquidity, resilient earnings.",
		MinThreshold: 75,
		Categories: []contracts.Category{
			{
				Name: "solvency", Weight: 0.45, MaxPoints: 35,
				Metrics: []contracts.MetricBrackets{
					{Metric: contracts.MetricDebtToEquity, Brackets: []contracts.Bracket{
						{Min: 0, Max: 0.3, Points: 15, Label: "fortress"},
						{Min: 0.3, Max: 0.7, Points: 9, Label: "conservative"},
						{Min: 0.7, Max: 1.2, Points: 4, Label: "moderate"},
						{Min: 1.2, Max: unbounded, Points: 0, Label: "levered"},
						{Min: -unbounded, Max: 0, Points: 0, Label: "negative equity"},
					}},
					{Metric: contracts.MetricInterestCoverage, Brackets: []contracts.Bracket{
						{Min: 10, Max: unbounded, Points: 12, Label: "ample"},
						{Min: 5, Max: 10, Points: 8, Label: "comfortable"},
						{Min: 2, Max: 5, Points: 3, Label: "adequate"},
						{Min: -unbounded, Max: 2, Points: 0, Label: "strained"},
					}},
					{Metric: contracts.MetricQuickRatio, Brackets: []contracts.Bracket{
						{Min: 1.5, Max: unbounded, Points: 8, Label: "highly liquid"},
						{Min: 1.0, Max: 1.5, Points: 5, Label: "liquid"},
						{Min: -unbounded, Max: 1.0, Points: 0, Label: "tight"},
					}},
				},
			},
			{
				Name: "liquidity", Weight: 0.25, MaxPoints: 20,
				Metrics: []contracts.MetricBrackets{
					{Metric: contracts.MetricCurrentRatio, Brackets: []contracts.Bracket{
						{Min: 2.5, Max: unbounded, Points: 12, Label: "abundant"},
						{Min: 1.8, Max: 2.5, Points: 8, Label: "strong"},
						{Min: 1.2, Max: 1.8, Points: 4, Label: "adequate"},
						{Min: -unbounded, Max: 1.2, Points: 0, Label: "tight"},
					}},
					{Metric: contracts.MetricFCFYield, Brackets: []contracts.Bracket{
						{Min: 0.04, Max: unbounded, Points: 8, Label: "cash generative"},
						{Min: 0.01, Max: 0.04, Points: 4, Label: "positive"},
						{Min: -unbounded, Max: 0.01, Points: 0, Label: "weak"},
					}},
				},
			},
			{
				Name: "earnings_resilience", Weight: 0.30, MaxPoints: 25,
				Metrics: []contracts.MetricBrackets{
					{Metric: contracts.MetricROE, Brackets: []contracts.Bracket{
						{Min: 0.12, Max: unbounded, Points: 10, Label: "productive"},
						{Min: 0.06, Max: 0.12, Points: 6, Label: "steady"},
						{Min: -unbounded, Max: 0.06, Points: 0, Label: "weak"},
					}},
					{Metric: contracts.MetricOperatingMargin, Brackets: []contracts.Bracket{
						{Min: 0.12, Max: unbounded, Points: 10, Label: "resilient"},
						{Min: 0.05, Max: 0.12, Points: 5, Label: "moderate"},
						{Min: -unbounded, Max: 0.05, Points: 0, Label: "fragile"},
					}},
					{Metric: contracts.MetricROA, Brackets: []contracts.Bracket{
						{Min: 0.05, Max: unbounded, Points: 5, Label: "efficient"},
						{Min: -unbounded, Max: 0.05, Points: 0, Label: "asset heavy"},
					}},
				},
			},
		},
	}
}
