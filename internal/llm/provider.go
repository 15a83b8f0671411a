package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"google.golang.org/genai"

	"github.com/quaestorlabs/quaestor/backend/internal/contracts"
	"github.com/quaestorlabs/quaestor/backend/pkg/config"
	"github.com/quaestorlabs/quaestor/backend/pkg/logger"
)

// ProviderType identifies the generative-model backend.
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
	ProviderClaude ProviderType = "claude"
)

// Factory selects and invokes a model provider per request. It implements
// contracts.ModelClient: one call, a strict JSON payload back or an
// error. No retries live here; a failed call fails once.
type Factory struct {
	cfg     config.LLMConfig
	logger  *logger.Logger
	breaker *breaker

	clientMu     sync.Mutex
	geminiClient *genai.Client
	claudeClient anthropic.Client
	claudeReady  bool
}

// NewFactory creates a provider factory. Clients are created lazily on
// first use with the configured API keys.
func NewFactory(cfg config.LLMConfig, log *logger.Logger) *Factory {
	return &Factory{
		cfg:     cfg,
		logger:  log,
		breaker: newBreaker("model-provider", log),
	}
}

// DetectProvider determines the provider from a model string. Empty
// model strings fall back to the configured default provider.
func (f *Factory) DetectProvider(model string) ProviderType {
	m := strings.ToLower(model)

	switch {
	case m == "":
		return ProviderType(f.cfg.DefaultProvider)
	case strings.HasPrefix(m, "claude/"), strings.HasPrefix(m, "anthropic/"), strings.HasPrefix(m, "claude-"):
		return ProviderClaude
	case strings.HasPrefix(m, "gemini/"), strings.HasPrefix(m, "google/"), strings.HasPrefix(m, "gemini-"):
		return ProviderGemini
	default:
		return ProviderType(f.cfg.DefaultProvider)
	}
}

// NormalizeModel strips an explicit provider prefix from a model name.
func NormalizeModel(model string) string {
	for _, prefix := range []string{"claude/", "anthropic/", "gemini/", "google/"} {
		if strings.HasPrefix(strings.ToLower(model), prefix) {
			return model[len(prefix):]
		}
	}
	return model
}

// GenerateJSON invokes the selected provider once, through the circuit
// breaker, and returns the raw JSON payload. Non-JSON responses are an
// error: the caller's contract is strict structured output.
func (f *Factory) GenerateJSON(ctx context.Context, req *contracts.ModelRequest) ([]byte, error) {
	provider := f.DetectProvider(req.Model)
	model := NormalizeModel(req.Model)

	f.logger.WithFields(map[string]interface{}{
		"provider": provider,
		"model":    model,
		"messages": len(req.Messages),
	}).Debug("Invoking model provider")

	payload, err := f.breaker.execute(func() ([]byte, error) {
		switch provider {
		case ProviderClaude:
			return f.generateWithClaude(ctx, req, model)
		default:
			return f.generateWithGemini(ctx, req, model)
		}
	})
	if err != nil {
		return nil, err
	}

	if !json.Valid(payload) {
		return nil, fmt.Errorf("model returned invalid JSON payload")
	}
	return payload, nil
}

// geminiRole maps a wire message role onto the typed genai role.
func geminiRole(role string) genai.Role {
	if role == "assistant" {
		return genai.RoleModel
	}
	return genai.RoleUser
}

// generateWithGemini uses structured output: the response MIME type and
// schema make the API enforce the JSON contract server-side.
func (f *Factory) generateWithGemini(ctx context.Context, req *contracts.ModelRequest, model string) ([]byte, error) {
	client, err := f.getGeminiClient(ctx)
	if err != nil {
		return nil, err
	}

	if model == "" {
		model = f.cfg.GeminiModel
	}

	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, msg := range req.Messages {
		contents = append(contents, genai.NewContentFromText(msg.Content, geminiRole(msg.Role)))
	}

	temp := req.Temperature
	if temp <= 0 {
		temp = f.cfg.Temperature
	}
	genConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temp),
	}
	if req.System != "" {
		genConfig.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.MaxTokens > 0 {
		genConfig.MaxOutputTokens = int32(req.MaxTokens)
	}

	if len(req.Schema) > 0 {
		schema, err := convertSchema(req.Schema)
		if err != nil {
			return nil, fmt.Errorf("convert output schema: %w", err)
		}
		genConfig.ResponseMIMEType = "application/json"
		genConfig.ResponseSchema = schema
	}

	resp, err := client.Models.GenerateContent(ctx, model, contents, genConfig)
	if err != nil {
		return nil, fmt.Errorf("gemini call failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from gemini")
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("empty text in gemini response")
	}
	return []byte(text), nil
}

// generateWithClaude carries the schema as an explicit instruction since
// the Messages API has no server-side schema enforcement; the JSON
// validity check in GenerateJSON backstops it.
func (f *Factory) generateWithClaude(ctx context.Context, req *contracts.ModelRequest, model string) ([]byte, error) {
	client, err := f.getClaudeClient()
	if err != nil {
		return nil, err
	}

	if model == "" {
		model = f.cfg.ClaudeModel
	}

	messages := make([]anthropic.MessageParam, 0, len(req.Messages))
	for _, msg := range req.Messages {
		block := anthropic.NewTextBlock(msg.Content)
		if msg.Role == "assistant" {
			messages = append(messages, anthropic.NewAssistantMessage(block))
		} else {
			messages = append(messages, anthropic.NewUserMessage(block))
		}
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = f.cfg.MaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		Messages:  messages,
	}

	temp := req.Temperature
	if temp <= 0 {
		temp = f.cfg.Temperature
	}
	if temp > 0 {
		params.Temperature = anthropic.Float(float64(temp))
	}

	system := req.System
	if len(req.Schema) > 0 {
		schemaJSON, err := json.Marshal(req.Schema)
		if err != nil {
			return nil, fmt.Errorf("marshal schema: %w", err)
		}
		system += "\n\nRespond with raw JSON only, no prose and no code fences, conforming exactly to this JSON schema:\n" + string(schemaJSON)
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("claude call failed: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("empty response from claude")
	}

	return []byte(strings.TrimSpace(text.String())), nil
}

// getGeminiClient initializes the client on first use. The factory is
// shared across concurrent agent calls, so lazy init holds clientMu.
func (f *Factory) getGeminiClient(ctx context.Context) (*genai.Client, error) {
	f.clientMu.Lock()
	defer f.clientMu.Unlock()

	if f.geminiClient != nil {
		return f.geminiClient, nil
	}
	if f.cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  f.cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	f.geminiClient = client
	return client, nil
}

func (f *Factory) getClaudeClient() (anthropic.Client, error) {
	f.clientMu.Lock()
	defer f.clientMu.Unlock()

	if f.claudeReady {
		return f.claudeClient, nil
	}
	if f.cfg.ClaudeAPIKey == "" {
		return anthropic.Client{}, fmt.Errorf("ANTHROPIC_API_KEY is not configured")
	}

	f.claudeClient = anthropic.NewClient(option.WithAPIKey(f.cfg.ClaudeAPIKey))
	f.claudeReady = true
	return f.claudeClient, nil
}
