package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quaestorlabs/quaestor/backend/internal/contracts"
	"github.com/quaestorlabs/quaestor/backend/pkg/config"
	"github.com/quaestorlabs/quaestor/backend/pkg/httputil"
	"github.com/quaestorlabs/quaestor/backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{LogLevel: "error", LogFormat: "json"})
}

func newTestProvider(t *testing.T, handler http.Handler) (*Provider, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	log := testLogger()
	httpClient := httputil.New(&config.Config{}, log).DisableRetry()
	client := NewClient(httpClient, config.MarketDataConfig{
		BaseURL:        server.URL,
		APIKey:         "test-key",
		RequestsPerSec: 1000,
	}, log)

	return NewProvider(client, nil, nil, config.MarketDataConfig{}, nil, log), server
}

func TestGetBatchAssemblesSnapshot(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/quote/AAPL", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		fmt.Fprint(w, `[{"symbol":"AAPL","price":190.5,"change":1.2,"changesPercentage":0.63,"marketCap":2950000000000,"volume":52000000}]`)
	})
	mux.HandleFunc("/ratios-ttm/AAPL", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"peRatioTTM":28.4,"returnOnEquityTTM":1.47,"debtEquityRatioTTM":1.8}]`)
	})
	mux.HandleFunc("/profile/AAPL", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"companyName":"Apple Inc.","exchangeShortName":"NASDAQ","sector":"Technology","industry":"Consumer Electronics"}]`)
	})
	mux.HandleFunc("/income-statement/AAPL", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "4", r.URL.Query().Get("limit"))
		fmt.Fprint(w, `[{"calendarYear":"2025","period":"FY","revenue":400000,"grossProfit":180000,"operatingIncome":120000,"netIncome":100000}]`)
	})
	mux.HandleFunc("/balance-sheet-statement/AAPL", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"calendarYear":"2025","period":"FY","totalAssets":350000,"totalLiabilities":290000,"totalStockholdersEquity":60000}]`)
	})
	mux.HandleFunc("/cash-flow-statement/AAPL", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"calendarYear":"2025","period":"FY","operatingCashFlow":110000,"freeCashFlow":95000}]`)
	})

	provider, _ := newTestProvider(t, mux)

	got, err := provider.GetBatch(context.Background(), []string{"aapl"})
	require.NoError(t, err)
	require.Contains(t, got, "AAPL")

	data := got["AAPL"]
	require.NotNil(t, data.Quote)
	assert.Equal(t, 190.5, data.Quote.Price)

	require.NotNil(t, data.Ratios)
	pe, ok := data.Ratios.Metric(contracts.MetricPERatio)
	require.True(t, ok)
	assert.Equal(t, 28.4, pe)
	_, ok = data.Ratios.Metric(contracts.MetricDividendYield)
	assert.False(t, ok, "unreported metric should be absent, not zero")

	require.NotNil(t, data.Profile)
	assert.Equal(t, "Apple Inc.", data.Profile.Name)

	require.Len(t, data.Statements, 1)
	stmt := data.Statements[0]
	assert.Equal(t, 2025, stmt.FiscalYear)
	assert.Equal(t, 400000.0, stmt.Revenue)
	assert.Equal(t, 350000.0, stmt.TotalAssets)
	assert.Equal(t, 95000.0, stmt.FreeCashFlow)
}

func TestGetBatchOmitsFailedSymbols(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/quote/GOOD", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"symbol":"GOOD","price":10}]`)
	})
	// Everything else 404s, including all BAD endpoints.

	provider, _ := newTestProvider(t, mux)

	got, err := provider.GetBatch(context.Background(), []string{"GOOD", "BAD"})
	require.NoError(t, err)

	require.Contains(t, got, "GOOD", "partial snapshot should survive")
	assert.NotContains(t, got, "BAD", "symbol with no data at all should be omitted")
	assert.NotNil(t, got["GOOD"].Quote)
	assert.Nil(t, got["GOOD"].Ratios)
}

func TestGetBatchFallsBackToScraperForProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/quote/IBM", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"symbol":"IBM","price":215.3}]`)
	})
	// /profile/IBM 404s; the scraper page carries the profile instead.
	mux.HandleFunc("/company/IBM", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<h1 class="company-name">International Business Machines</h1>
			<span class="exchange">NYSE</span>
		</body></html>`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	log := testLogger()
	httpClient := httputil.New(&config.Config{}, log).DisableRetry()
	client := NewClient(httpClient, config.MarketDataConfig{
		BaseURL:        server.URL,
		APIKey:         "test-key",
		RequestsPerSec: 1000,
	}, log)
	scraper := NewProfileScraper(httpClient, server.URL+"/company", log)
	provider := NewProvider(client, nil, scraper, config.MarketDataConfig{}, nil, log)

	got, err := provider.GetBatch(context.Background(), []string{"IBM"})
	require.NoError(t, err)
	require.Contains(t, got, "IBM")

	require.NotNil(t, got["IBM"].Profile)
	assert.Equal(t, "International Business Machines", got["IBM"].Profile.Name)
	assert.Equal(t, "NYSE", got["IBM"].Profile.Exchange)
}

func TestScrapeProfileFallback(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/company/MSFT", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<h1 class="company-name">Microsoft Corporation</h1>
			<span class="exchange">NASDAQ</span>
			<div class="company-meta">
				<dt>Sector</dt><dd>Technology</dd>
				<dt>Industry</dt><dd>Software</dd>
			</div>
		</body></html>`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	log := testLogger()
	httpClient := httputil.New(&config.Config{}, log).DisableRetry()
	scraper := NewProfileScraper(httpClient, server.URL+"/company", log)

	profile, err := scraper.Scrape(context.Background(), "MSFT")
	require.NoError(t, err)
	assert.Equal(t, "Microsoft Corporation", profile.Name)
	assert.Equal(t, "NASDAQ", profile.Exchange)
	assert.Equal(t, "Technology", profile.Sector)
	assert.Equal(t, "Software", profile.Industry)
}

func TestScrapeProfileRejectsEmptyPage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/company/NXDO", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>not found</p></body></html>`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	log := testLogger()
	httpClient := httputil.New(&config.Config{}, log).DisableRetry()
	scraper := NewProfileScraper(httpClient, server.URL+"/company", log)

	_, err := scraper.Scrape(context.Background(), "NXDO")
	assert.Error(t, err)
}
