package marketdata

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/quaestorlabs/quaestor/backend/internal/contracts"
	"github.com/quaestorlabs/quaestor/backend/internal/metrics"
	"github.com/quaestorlabs/quaestor/backend/pkg/config"
	"github.com/quaestorlabs/quaestor/backend/pkg/logger"
	"github.com/quaestorlabs/quaestor/backend/pkg/redis"
)

// maxConcurrentFetches bounds per-symbol fan-out against the data API.
const maxConcurrentFetches = 4

// Provider assembles per-ticker financial snapshots from the data API,
// with an optional Redis cache in front and a profile scraper as a
// fallback when the API has no company profile.
type Provider struct {
	client  *Client
	cache   *redis.Cache
	scraper *ProfileScraper
	ttl     time.Duration
	metrics *metrics.Registry
	logger  *logger.Logger
}

// NewProvider creates a snapshot provider. cache, scraper and reg may be nil.
func NewProvider(client *Client, cache *redis.Cache, scraper *ProfileScraper, cfg config.MarketDataConfig, reg *metrics.Registry, log *logger.Logger) *Provider {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = redis.TTLMedium
	}
	return &Provider{
		client:  client,
		cache:   cache,
		scraper: scraper,
		ttl:     ttl,
		metrics: reg,
		logger:  log,
	}
}

// GetBatch fetches snapshots for the given symbols. Symbols whose fetch
// fails entirely are omitted from the result; a partial snapshot (some
// sections missing) is still returned. The map never contains nil values.
func (p *Provider) GetBatch(ctx context.Context, symbols []string) (map[string]*contracts.FinancialData, error) {
	results := make(map[string]*contracts.FinancialData, len(symbols))

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrentFetches)

	for _, symbol := range symbols {
		symbol := strings.ToUpper(strings.TrimSpace(symbol))
		if symbol == "" {
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			data, err := p.getOne(ctx, symbol)
			if err != nil {
				p.logger.WithError(err).WithFields(map[string]interface{}{
					"symbol": symbol,
				}).Warn("Snapshot fetch failed, symbol omitted")
				return
			}

			mu.Lock()
			results[symbol] = data
			mu.Unlock()
		}()
	}

	wg.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	p.logger.WithFields(map[string]interface{}{
		"requested": len(symbols),
		"fetched":   len(results),
	}).Debug("Snapshot batch complete")

	return results, nil
}

// getOne assembles a single snapshot, consulting the cache first.
func (p *Provider) getOne(ctx context.Context, symbol string) (*contracts.FinancialData, error) {
	if p.cache != nil {
		var cached contracts.FinancialData
		found, err := p.cache.Get(ctx, redis.SnapshotKey(symbol), &cached)
		if err == nil && found {
			if p.metrics != nil {
				p.metrics.CacheHits.WithLabelValues("snapshot").Inc()
			}
			return &cached, nil
		}
		if p.metrics != nil {
			p.metrics.CacheMisses.WithLabelValues("snapshot").Inc()
		}
	}

	data := &contracts.FinancialData{
		Symbol: symbol,
		AsOf:   time.Now().UTC(),
	}

	// Sections are fetched independently so one missing section does
	// not discard the rest of the snapshot.
	quote, err := p.fetchQuote(ctx, symbol)
	if err != nil {
		p.logger.WithError(err).WithFields(map[string]interface{}{"symbol": symbol}).Debug("Quote unavailable")
	} else {
		data.Quote = quote
	}

	ratios, err := p.fetchRatios(ctx, symbol)
	if err != nil {
		p.logger.WithError(err).WithFields(map[string]interface{}{"symbol": symbol}).Debug("Ratios unavailable")
	} else {
		data.Ratios = ratios
	}

	profile, err := p.fetchProfile(ctx, symbol)
	if err != nil && p.scraper != nil {
		profile, err = p.scrapeProfile(ctx, symbol)
	}
	if err != nil {
		p.logger.WithError(err).WithFields(map[string]interface{}{"symbol": symbol}).Debug("Profile unavailable")
	} else {
		data.Profile = profile
	}

	statements, err := p.fetchStatements(ctx, symbol)
	if err != nil {
		p.logger.WithError(err).WithFields(map[string]interface{}{"symbol": symbol}).Debug("Statements unavailable")
	} else {
		data.Statements = statements
	}

	if data.Quote == nil && data.Ratios == nil && data.Profile == nil && len(data.Statements) == 0 {
		return nil, fmt.Errorf("no data available for %s", symbol)
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, redis.SnapshotKey(symbol), data, p.ttl); err != nil {
			p.logger.WithError(err).Debug("Snapshot cache write failed")
		}
	}

	return data, nil
}

// scrapeProfile is the scraper fallback with its own cache entry:
// scraped profiles are expensive to fetch and change rarely, so they
// outlive the snapshot TTL.
func (p *Provider) scrapeProfile(ctx context.Context, symbol string) (*contracts.CompanyProfile, error) {
	if p.cache != nil {
		var cached contracts.CompanyProfile
		found, err := p.cache.Get(ctx, redis.ProfileKey(symbol), &cached)
		if err == nil && found {
			if p.metrics != nil {
				p.metrics.CacheHits.WithLabelValues("profile").Inc()
			}
			return &cached, nil
		}
		if p.metrics != nil {
			p.metrics.CacheMisses.WithLabelValues("profile").Inc()
		}
	}

	profile, err := p.scraper.Scrape(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, redis.ProfileKey(symbol), profile, redis.TTLLong); err != nil {
			p.logger.WithError(err).Debug("Profile cache write failed")
		}
	}
	return profile, nil
}

// quoteResponse mirrors the API's /quote payload.
type quoteResponse struct {
	Symbol            string  `json:"symbol"`
	Price             float64 `json:"price"`
	Change            float64 `json:"change"`
	ChangesPercentage float64 `json:"changesPercentage"`
	MarketCap         float64 `json:"marketCap"`
	Volume            int64   `json:"volume"`
}

func (p *Provider) fetchQuote(ctx context.Context, symbol string) (*contracts.PriceQuote, error) {
	var rows []quoteResponse
	if err := p.client.fetchJSON(ctx, "/quote/"+symbol, nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty quote response for %s", symbol)
	}
	q := rows[0]
	return &contracts.PriceQuote{
		Price:         q.Price,
		Change:        q.Change,
		ChangePercent: q.ChangesPercentage,
		MarketCap:     q.MarketCap,
		Volume:        q.Volume,
	}, nil
}

// ratiosResponse mirrors the API's trailing-twelve-month ratios payload.
// Pointer fields distinguish "not reported" from zero.
type ratiosResponse struct {
	PERatio          *float64 `json:"peRatioTTM"`
	PBRatio          *float64 `json:"priceToBookRatioTTM"`
	PSRatio          *float64 `json:"priceToSalesRatioTTM"`
	PEGRatio         *float64 `json:"pegRatioTTM"`
	EVToEBITDA       *float64 `json:"enterpriseValueMultipleTTM"`
	ROE              *float64 `json:"returnOnEquityTTM"`
	ROA              *float64 `json:"returnOnAssetsTTM"`
	GrossMargin      *float64 `json:"grossProfitMarginTTM"`
	OperatingMargin  *float64 `json:"operatingProfitMarginTTM"`
	NetMargin        *float64 `json:"netProfitMarginTTM"`
	DebtToEquity     *float64 `json:"debtEquityRatioTTM"`
	CurrentRatio     *float64 `json:"currentRatioTTM"`
	QuickRatio       *float64 `json:"quickRatioTTM"`
	InterestCoverage *float64 `json:"interestCoverageTTM"`
	RevenueGrowth    *float64 `json:"revenueGrowthTTM"`
	EarningsGrowth   *float64 `json:"epsGrowthTTM"`
	FCFYield         *float64 `json:"freeCashFlowYieldTTM"`
	DividendYield    *float64 `json:"dividendYielTTM"` // upstream misspells this field
	PayoutRatio      *float64 `json:"payoutRatioTTM"`
}

func (p *Provider) fetchRatios(ctx context.Context, symbol string) (*contracts.KeyRatios, error) {
	var rows []ratiosResponse
	if err := p.client.fetchJSON(ctx, "/ratios-ttm/"+symbol, nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty ratios response for %s", symbol)
	}
	r := rows[0]
	return &contracts.KeyRatios{
		PERatio:          r.PERatio,
		PBRatio:          r.PBRatio,
		PSRatio:          r.PSRatio,
		PEGRatio:         r.PEGRatio,
		EVToEBITDA:       r.EVToEBITDA,
		ROE:              r.ROE,
		ROA:              r.ROA,
		GrossMargin:      r.GrossMargin,
		OperatingMargin:  r.OperatingMargin,
		NetMargin:        r.NetMargin,
		DebtToEquity:     r.DebtToEquity,
		CurrentRatio:     r.CurrentRatio,
		QuickRatio:       r.QuickRatio,
		InterestCoverage: r.InterestCoverage,
		RevenueGrowth:    r.RevenueGrowth,
		EarningsGrowth:   r.EarningsGrowth,
		FCFYield:         r.FCFYield,
		DividendYield:    r.DividendYield,
		PayoutRatio:      r.PayoutRatio,
	}, nil
}

// profileResponse mirrors the API's /profile payload.
type profileResponse struct {
	CompanyName       string `json:"companyName"`
	ExchangeShortName string `json:"exchangeShortName"`
	Sector            string `json:"sector"`
	Industry          string `json:"industry"`
	Description       string `json:"description"`
	Website           string `json:"website"`
}

func (p *Provider) fetchProfile(ctx context.Context, symbol string) (*contracts.CompanyProfile, error) {
	var rows []profileResponse
	if err := p.client.fetchJSON(ctx, "/profile/"+symbol, nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 || rows[0].CompanyName == "" {
		return nil, fmt.Errorf("empty profile response for %s", symbol)
	}
	pr := rows[0]
	return &contracts.CompanyProfile{
		Name:        pr.CompanyName,
		Exchange:    pr.ExchangeShortName,
		Sector:      pr.Sector,
		Industry:    pr.Industry,
		Description: pr.Description,
		Website:     pr.Website,
	}, nil
}

// incomeResponse / balanceResponse / cashFlowResponse mirror the API's
// statement payloads. They are merged by fiscal year and period.
type incomeResponse struct {
	CalendarYear    string  `json:"calendarYear"`
	Period          string  `json:"period"`
	Revenue         float64 `json:"revenue"`
	GrossProfit     float64 `json:"grossProfit"`
	OperatingIncome float64 `json:"operatingIncome"`
	NetIncome       float64 `json:"netIncome"`
}

type balanceResponse struct {
	CalendarYear     string  `json:"calendarYear"`
	Period           string  `json:"period"`
	TotalAssets      float64 `json:"totalAssets"`
	TotalLiabilities float64 `json:"totalLiabilities"`
	TotalEquity      float64 `json:"totalStockholdersEquity"`
}

type cashFlowResponse struct {
	CalendarYear      string  `json:"calendarYear"`
	Period            string  `json:"period"`
	OperatingCashFlow float64 `json:"operatingCashFlow"`
	FreeCashFlow      float64 `json:"freeCashFlow"`
}

func (p *Provider) fetchStatements(ctx context.Context, symbol string) ([]contracts.FinancialStatement, error) {
	params := url.Values{"limit": []string{"4"}}

	var income []incomeResponse
	if err := p.client.fetchJSON(ctx, "/income-statement/"+symbol, params, &income); err != nil {
		return nil, err
	}
	if len(income) == 0 {
		return nil, fmt.Errorf("empty statements response for %s", symbol)
	}

	// Balance sheet and cash flow are best-effort supplements.
	var balance []balanceResponse
	if err := p.client.fetchJSON(ctx, "/balance-sheet-statement/"+symbol, params, &balance); err != nil {
		p.logger.WithError(err).WithFields(map[string]interface{}{"symbol": symbol}).Debug("Balance sheet unavailable")
	}
	var cashFlow []cashFlowResponse
	if err := p.client.fetchJSON(ctx, "/cash-flow-statement/"+symbol, params, &cashFlow); err != nil {
		p.logger.WithError(err).WithFields(map[string]interface{}{"symbol": symbol}).Debug("Cash flow unavailable")
	}

	type periodKey struct {
		year   int
		period string
	}
	balances := make(map[periodKey]balanceResponse, len(balance))
	for _, b := range balance {
		balances[periodKey{parseYear(b.CalendarYear), b.Period}] = b
	}
	flows := make(map[periodKey]cashFlowResponse, len(cashFlow))
	for _, f := range cashFlow {
		flows[periodKey{parseYear(f.CalendarYear), f.Period}] = f
	}

	statements := make([]contracts.FinancialStatement, 0, len(income))
	for _, in := range income {
		key := periodKey{parseYear(in.CalendarYear), in.Period}
		stmt := contracts.FinancialStatement{
			FiscalYear:      key.year,
			Period:          in.Period,
			Revenue:         in.Revenue,
			GrossProfit:     in.GrossProfit,
			OperatingIncome: in.OperatingIncome,
			NetIncome:       in.NetIncome,
		}
		if b, ok := balances[key]; ok {
			stmt.TotalAssets = b.TotalAssets
			stmt.TotalLiabilities = b.TotalLiabilities
			stmt.TotalEquity = b.TotalEquity
		}
		if f, ok := flows[key]; ok {
			stmt.OperatingCashFlow = f.OperatingCashFlow
			stmt.FreeCashFlow = f.FreeCashFlow
		}
		statements = append(statements, stmt)
	}

	return statements, nil
}

func parseYear(s string) int {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return y
}
