package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/quaestorlabs/quaestor/backend/internal/contracts"
	"github.com/quaestorlabs/quaestor/backend/internal/personas"
	"github.com/quaestorlabs/quaestor/backend/pkg/logger"
)

// PersonasHandler exposes the persona registry over HTTP.
type PersonasHandler struct {
	registry *personas.Registry
	logger   *logger.Logger
}

// NewPersonasHandler creates a new personas handler
func NewPersonasHandler(registry *personas.Registry, log *logger.Logger) *PersonasHandler {
	return &PersonasHandler{
		registry: registry,
		logger:   log,
	}
}

// PersonaSummary is the list view of one persona.
type PersonaSummary struct {
	ID           contracts.PersonaID `json:"id"`
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	MinThreshold int                 `json:"minThreshold"`
	Categories   []string            `json:"categories"`
}

// List returns all registered personas
// GET /api/personas
func (h *PersonasHandler) List(w http.ResponseWriter, r *http.Request) {
	all := h.registry.All()
	summaries := make([]PersonaSummary, 0, len(all))
	for _, c := range all {
		summaries = append(summaries, PersonaSummary{
			ID:           c.ID,
			Name:         c.Name,
			Description:  c.Description,
			MinThreshold: c.MinThreshold,
			Categories:   c.CategoryNames(),
		})
	}

	respondJSON(w, http.StatusOK, summaries)
}

// Get returns the full scoring criteria for one persona
// GET /api/personas/{id}
func (h *PersonasHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := contracts.PersonaID(mux.Vars(r)["id"])

	criteria, err := h.registry.Get(id)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, criteria)
}
