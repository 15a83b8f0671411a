package contracts

// MetricID identifies one supported financial ratio.
// The set is closed: persona tables and the YAML loader only accept
// identifiers declared here, so there is no runtime "unknown metric" path.
type MetricID string

const (
	MetricPERatio          MetricID = "peRatio"
	MetricPBRatio          MetricID = "pbRatio"
	MetricPSRatio          MetricID = "psRatio"
	MetricPEGRatio         MetricID = "pegRatio"
	MetricEVToEBITDA       MetricID = "evToEbitda"
	MetricROE              MetricID = "roe"
	MetricROA              MetricID = "roa"
	MetricGrossMargin      MetricID = "grossMargin"
	MetricOperatingMargin  MetricID = "operatingMargin"
	MetricNetMargin        MetricID = "netMargin"
	MetricDebtToEquity     MetricID = "debtToEquity"
	MetricCurrentRatio     MetricID = "currentRatio"
	MetricQuickRatio       MetricID = "quickRatio"
	MetricInterestCoverage MetricID = "interestCoverage"
	MetricRevenueGrowth    MetricID = "revenueGrowth"
	MetricEarningsGrowth   MetricID = "earningsGrowth"
	MetricFCFYield         MetricID = "fcfYield"
	MetricDividendYield    MetricID = "dividendYield"
	MetricPayoutRatio      MetricID = "payoutRatio"
)

// AllMetricIDs returns every supported metric identifier.
func AllMetricIDs() []MetricID {
	return []MetricID{
		MetricPERatio, MetricPBRatio, MetricPSRatio, MetricPEGRatio,
		MetricEVToEBITDA, MetricROE, MetricROA, MetricGrossMargin,
		MetricOperatingMargin, MetricNetMargin, MetricDebtToEquity,
		MetricCurrentRatio, MetricQuickRatio, MetricInterestCoverage,
		MetricRevenueGrowth, MetricEarningsGrowth, MetricFCFYield,
		MetricDividendYield, MetricPayoutRatio,
	}
}

// Valid reports whether the identifier is one of the declared metrics.
func (m MetricID) Valid() bool {
	for _, id := range AllMetricIDs() {
		if m == id {
			return true
		}
	}
	return false
}

// KeyRatios is an immutable snapshot of named financial ratios for one
// ticker at one point in time. A nil field means the upstream provider
// had no value for that metric; zero is a real value, not absence.
type KeyRatios struct {
	PERatio          *float64 `json:"peRatio,omitempty"`
	PBRatio          *float64 `json:"pbRatio,omitempty"`
	PSRatio          *float64 `json:"psRatio,omitempty"`
	PEGRatio         *float64 `json:"pegRatio,omitempty"`
	EVToEBITDA       *float64 `json:"evToEbitda,omitempty"`
	ROE              *float64 `json:"roe,omitempty"`
	ROA              *float64 `json:"roa,omitempty"`
	GrossMargin      *float64 `json:"grossMargin,omitempty"`
	OperatingMargin  *float64 `json:"operatingMargin,omitempty"`
	NetMargin        *float64 `json:"netMargin,omitempty"`
	DebtToEquity     *float64 `json:"debtToEquity,omitempty"`
	CurrentRatio     *float64 `json:"currentRatio,omitempty"`
	QuickRatio       *float64 `json:"quickRatio,omitempty"`
	InterestCoverage *float64 `json:"interestCoverage,omitempty"`
	RevenueGrowth    *float64 `json:"revenueGrowth,omitempty"`
	EarningsGrowth   *float64 `json:"earningsGrowth,omitempty"`
	FCFYield         *float64 `json:"fcfYield,omitempty"`
	DividendYield    *float64 `json:"dividendYield,omitempty"`
	PayoutRatio      *float64 `json:"payoutRatio,omitempty"`
}

// Metric resolves a metric identifier against the snapshot.
// The switch is exhaustive over the declared MetricID constants.
func (r *KeyRatios) Metric(id MetricID) (float64, bool) {
	if r == nil {
		return 0, false
	}

	var v *float64
	switch id {
	case MetricPERatio:
		v = r.PERatio
	case MetricPBRatio:
		v = r.PBRatio
	case MetricPSRatio:
		v = r.PSRatio
	case MetricPEGRatio:
		v = r.PEGRatio
	case MetricEVToEBITDA:
		v = r.EVToEBITDA
	case MetricROE:
		v = r.ROE
	case MetricROA:
		v = r.ROA
	case MetricGrossMargin:
		v = r.GrossMargin
	case MetricOperatingMargin:
		v = r.OperatingMargin
	case MetricNetMargin:
		v = r.NetMargin
	case MetricDebtToEquity:
		v = r.DebtToEquity
	case MetricCurrentRatio:
		v = r.CurrentRatio
	case MetricQuickRatio:
		v = r.QuickRatio
	case MetricInterestCoverage:
		v = r.InterestCoverage
	case MetricRevenueGrowth:
		v = r.RevenueGrowth
	case MetricEarningsGrowth:
		v = r.EarningsGrowth
	case MetricFCFYield:
		v = r.FCFYield
	case MetricDividendYield:
		v = r.DividendYield
	case MetricPayoutRatio:
		v = r.PayoutRatio
	}

	if v == nil {
		return 0, false
	}
	return *v, true
}

// AvailableCount returns how many metrics carry a value.
func (r *KeyRatios) AvailableCount() int {
	count := 0
	for _, id := range AllMetricIDs() {
		if _, ok := r.Metric(id); ok {
			count++
		}
	}
	return count
}

// Float is a convenience for building ratio snapshots in wiring and tests.
func Float(v float64) *float64 {
	return &v
}
