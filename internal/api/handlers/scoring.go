package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/quaestorlabs/quaestor/backend/internal/contracts"
	"github.com/quaestorlabs/quaestor/backend/internal/hybrid"
	"github.com/quaestorlabs/quaestor/backend/internal/prefilter"
	"github.com/quaestorlabs/quaestor/backend/internal/scoring"
	"github.com/quaestorlabs/quaestor/backend/pkg/logger"
)

// ScoringHandler handles scoring-related API endpoints.
type ScoringHandler struct {
	provider     contracts.SnapshotProvider
	engine       *scoring.Engine
	prefilter    *prefilter.PreFilter
	orchestrator *hybrid.Orchestrator
	runs         *hybrid.Repository
	defaultTopN  int
	logger       *logger.Logger
}

// NewScoringHandler creates a new scoring handler. runs may be nil when
// persistence is disabled.
func NewScoringHandler(
	provider contracts.SnapshotProvider,
	engine *scoring.Engine,
	pf *prefilter.PreFilter,
	orch *hybrid.Orchestrator,
	runs *hybrid.Repository,
	defaultTopN int,
	log *logger.Logger,
) *ScoringHandler {
	return &ScoringHandler{
		provider:     provider,
		engine:       engine,
		prefilter:    pf,
		orchestrator: orch,
		runs:         runs,
		defaultTopN:  defaultTopN,
		logger:       log,
	}
}

// HybridScoreRequest is the request body for a hybrid scoring run.
type HybridScoreRequest struct {
	Symbols []string `json:"symbols"`
	Persona string   `json:"persona"`
	TopN    int      `json:"topN,omitempty"`
}

// HybridScore runs the full two-stage pipeline
// POST /api/score/hybrid
func (h *ScoringHandler) HybridScore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req HybridScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Symbols) == 0 {
		respondError(w, http.StatusBadRequest, "symbols is required")
		return
	}
	if req.Persona == "" {
		respondError(w, http.StatusBadRequest, "persona is required")
		return
	}

	topN := req.TopN
	if topN <= 0 {
		topN = h.defaultTopN
	}

	results, err := h.orchestrator.HybridScore(ctx, req.Symbols, contracts.PersonaID(req.Persona), topN)
	if err != nil {
		h.logger.WithError(err).Error("Hybrid scoring run failed")
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"persona": req.Persona,
		"count":   len(results),
		"results": results,
	})
}

// PreFilterRequest is the request body for a pre-filter only run.
type PreFilterRequest struct {
	Symbols []string `json:"symbols"`
	Persona string   `json:"persona"`
}

// PreFilter runs only the deterministic first stage
// POST /api/score/prefilter
func (h *ScoringHandler) PreFilter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PreFilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Symbols) == 0 || req.Persona == "" {
		respondError(w, http.StatusBadRequest, "symbols and persona are required")
		return
	}

	results, err := h.prefilter.Run(ctx, req.Symbols, contracts.PersonaID(req.Persona))
	if err != nil {
		h.logger.WithError(err).Error("Pre-filter run failed")
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"persona": req.Persona,
		"count":   len(results),
		"results": results,
	})
}

// Breakdown returns the per-category score decomposition for one ticker
// GET /api/score/breakdown?symbol=AAPL&persona=quality_value
func (h *ScoringHandler) Breakdown(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	symbol := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("symbol")))
	persona := r.URL.Query().Get("persona")
	if symbol == "" || persona == "" {
		respondError(w, http.StatusBadRequest, "symbol and persona query parameters are required")
		return
	}

	snapshots, err := h.provider.GetBatch(ctx, []string{symbol})
	if err != nil {
		h.logger.WithError(err).Error("Snapshot fetch failed")
		respondError(w, http.StatusBadGateway, "Failed to fetch financial data")
		return
	}

	data, ok := snapshots[symbol]
	if !ok || !data.HasRatios() {
		respondError(w, http.StatusNotFound, "No financial ratios available for "+symbol)
		return
	}

	breakdown, err := h.engine.Breakdown(data.Ratios, contracts.PersonaID(persona))
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, breakdown)
}

// RecentRuns returns persisted run summaries
// GET /api/score/runs?persona=garp&limit=20
func (h *ScoringHandler) RecentRuns(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		respondError(w, http.StatusNotImplemented, "Run persistence is disabled")
		return
	}

	persona := contracts.PersonaID(r.URL.Query().Get("persona"))
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	runs, err := h.runs.GetRecentRuns(r.Context(), persona, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load recent runs")
		respondError(w, http.StatusInternalServerError, "Failed to load recent runs")
		return
	}

	respondJSON(w, http.StatusOK, runs)
}
