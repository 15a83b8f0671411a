package contracts

import "time"

// FinancialData is the opaque per-ticker snapshot supplied by the market
// data collaborator. Any section may be absent; the pipeline degrades
// instead of failing when one is.
type FinancialData struct {
	Symbol     string               `json:"symbol"`
	Quote      *PriceQuote          `json:"quote,omitempty"`
	Profile    *CompanyProfile      `json:"profile,omitempty"`
	Statements []FinancialStatement `json:"statements,omitempty"`
	Ratios     *KeyRatios           `json:"ratios,omitempty"`
	AsOf       time.Time            `json:"as_of"`
}

// HasRatios reports whether the snapshot carries at least one ratio value.
func (d *FinancialData) HasRatios() bool {
	return d != nil && d.Ratios != nil && d.Ratios.AvailableCount() > 0
}

// PriceQuote is the latest market quote for a ticker.
type PriceQuote struct {
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	MarketCap     float64 `json:"market_cap"`
	Volume        int64   `json:"volume"`
}

// CompanyProfile describes the issuing company.
type CompanyProfile struct {
	Name        string `json:"name"`
	Exchange    string `json:"exchange"`
	Sector      string `json:"sector"`
	Industry    string `json:"industry"`
	Description string `json:"description,omitempty"`
	Website     string `json:"website,omitempty"`
}

// FinancialStatement is one reporting period's summary figures.
// Monetary fields are in the reporting currency's base unit.
type FinancialStatement struct {
	FiscalYear        int     `json:"fiscal_year"`
	Period            string  `json:"period"` // FY, Q1..Q4
	Revenue           float64 `json:"revenue"`
	GrossProfit       float64 `json:"gross_profit"`
	OperatingIncome   float64 `json:"operating_income"`
	NetIncome         float64 `json:"net_income"`
	TotalAssets       float64 `json:"total_assets"`
	TotalLiabilities  float64 `json:"total_liabilities"`
	TotalEquity       float64 `json:"total_equity"`
	OperatingCashFlow float64 `json:"operating_cash_flow"`
	FreeCashFlow      float64 `json:"free_cash_flow"`
}
