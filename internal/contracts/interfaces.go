package contracts

import "context"

// SnapshotProvider supplies FinancialData snapshots for a set of tickers
// in one batched request. A partial result map (some tickers absent) is a
// valid, expected response; absence of a ticker is not an error.
type SnapshotProvider interface {
	GetBatch(ctx context.Context, symbols []string) (map[string]*FinancialData, error)
}

// ResearchAgent is a narrow sub-agent producing qualitative findings for
// one candidate. Failures are the caller's to absorb: one agent failing
// for one candidate must never abort the candidate or its siblings.
type ResearchAgent interface {
	Name() string
	Analyze(ctx context.Context, symbol string, data *FinancialData) (*AgentFindings, error)
}

// ModelMessage is one role-tagged message in a model conversation.
type ModelMessage struct {
	Role    string `json:"role"` // user, assistant
	Content string `json:"content"`
}

// ModelRequest carries messages plus a strict JSON-schema descriptor the
// response payload must conform to.
type ModelRequest struct {
	System      string
	Messages    []ModelMessage
	Schema      map[string]any
	Model       string
	Temperature float32
	MaxTokens   int
}

// ModelClient invokes a generative model and returns the raw JSON payload
// matching the request schema, or an error. Timeout and cancellation
// policy lives behind this interface, not in the pipeline.
type ModelClient interface {
	GenerateJSON(ctx context.Context, req *ModelRequest) ([]byte, error)
}

// RunRepository persists completed hybrid runs.
type RunRepository interface {
	SaveRun(ctx context.Context, run *HybridRun) error
}
