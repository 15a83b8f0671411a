package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quaestorlabs/quaestor/backend/internal/contracts"
	"github.com/quaestorlabs/quaestor/backend/pkg/config"
	"github.com/quaestorlabs/quaestor/backend/pkg/logger"
)

type fakeModel struct {
	response []byte
	err      error
	lastReq  *contracts.ModelRequest
}

func (f *fakeModel) GenerateJSON(ctx context.Context, req *contracts.ModelRequest) ([]byte, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

func testLogger() *logger.Logger {
	return logger.New(&config.Config{LogLevel: "error", LogFormat: "json"})
}

func sampleData() *contracts.FinancialData {
	return &contracts.FinancialData{
		Symbol:  "AAPL",
		Quote:   &contracts.PriceQuote{Price: 190.5, MarketCap: 2.9e12},
		Profile: &contracts.CompanyProfile{Name: "Apple Inc.", Sector: "Technology", Industry: "Consumer Electronics"},
		Ratios:  &contracts.KeyRatios{PERatio: contracts.Float(29.4)},
		Statements: []contracts.FinancialStatement{
			{FiscalYear: 2024, Period: "FY", Revenue: 391e9, NetIncome: 93e9},
		},
	}
}

func TestFundamentalsAgentAnalyze(t *testing.T) {
	model := &fakeModel{response: []byte(`{"headline":"Margins holding","bullets":["Net margin above 20%"],"cautions":["Hardware cycle risk"]}`)}
	agent := NewFundamentalsAgent(model, testLogger())

	findings, err := agent.Analyze(context.Background(), "AAPL", sampleData())
	require.NoError(t, err)

	assert.Equal(t, "fundamentals", agent.Name())
	assert.Equal(t, "fundamentals", findings.Agent, "agent stamps its own name")
	assert.Equal(t, "Margins holding", findings.Headline)
	assert.Len(t, findings.Bullets, 1)
	assert.Len(t, findings.Cautions, 1)

	require.NotNil(t, model.lastReq)
	require.Len(t, model.lastReq.Messages, 1)
	assert.Contains(t, model.lastReq.Messages[0].Content, "AAPL")
	assert.Contains(t, model.lastReq.Messages[0].Content, "Apple Inc.")
	assert.Contains(t, model.lastReq.Messages[0].Content, "peRatio")
	assert.NotEmpty(t, model.lastReq.Schema)
}

func TestValuationAgentAnalyze(t *testing.T) {
	model := &fakeModel{response: []byte(`{"headline":"Priced for perfection","bullets":["PE well above sector"]}`)}
	agent := NewValuationAgent(model, testLogger())

	findings, err := agent.Analyze(context.Background(), "AAPL", sampleData())
	require.NoError(t, err)
	assert.Equal(t, "valuation", findings.Agent)
}

func TestAnalyzePropagatesModelError(t *testing.T) {
	model := &fakeModel{err: errors.New("quota exceeded")}
	agent := NewFundamentalsAgent(model, testLogger())

	_, err := agent.Analyze(context.Background(), "AAPL", sampleData())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AAPL")
}

func TestAnalyzeRejectsMalformedFindings(t *testing.T) {
	model := &fakeModel{response: []byte(`["not","an","object"]`)}
	agent := NewValuationAgent(model, testLogger())

	_, err := agent.Analyze(context.Background(), "AAPL", sampleData())
	assert.Error(t, err)
}

func TestAnalyzeWithNilSnapshot(t *testing.T) {
	model := &fakeModel{response: []byte(`{"headline":"No data","bullets":[]}`)}
	agent := NewFundamentalsAgent(model, testLogger())

	_, err := agent.Analyze(context.Background(), "GONE", nil)
	require.NoError(t, err)
	assert.Contains(t, model.lastReq.Messages[0].Content, "No financial snapshot")
}
