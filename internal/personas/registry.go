package personas

import (
	"fmt"

	"github.com/quaestorlabs/quaestor/backend/internal/contracts"
)

// Registry is the immutable persona configuration table. It is built once
// at startup and injected into the scoring engine and the orchestrator;
// nothing in the pipeline reads persona configuration from global state.
type Registry struct {
	criteria map[contracts.PersonaID]*contracts.ScoringCriteria
	order    []contracts.PersonaID
}

// NewRegistry validates every table and builds a registry from them.
// An invalid table is a configuration mistake and fails construction.
func NewRegistry(criteria ...*contracts.ScoringCriteria) (*Registry, error) {
	r := &Registry{
		criteria: make(map[contracts.PersonaID]*contracts.ScoringCriteria, len(criteria)),
		order:    make([]contracts.PersonaID, 0, len(criteria)),
	}

	for _, c := range criteria {
		if err := Validate(c); err != nil {
			return nil, fmt.Errorf("persona %q: %w", c.ID, err)
		}
		if _, exists := r.criteria[c.ID]; exists {
			return nil, fmt.Errorf("persona %q: duplicate id", c.ID)
		}
		r.criteria[c.ID] = c
		r.order = append(r.order, c.ID)
	}

	if len(r.order) == 0 {
		return nil, fmt.Errorf("registry requires at least one persona")
	}

	return r, nil
}

// Builtin builds a registry containing the built-in persona tables.
func Builtin() (*Registry, error) {
	return NewRegistry(builtinCriteria()...)
}

// Get returns the scoring table for a persona. An unknown id is a
// programmer error, not a data condition.
func (r *Registry) Get(id contracts.PersonaID) (*contracts.ScoringCriteria, error) {
	c, ok := r.criteria[id]
	if !ok {
		return nil, fmt.Errorf("unknown persona %q", id)
	}
	return c, nil
}

// MinThreshold returns the persona's minimum opportunity score.
func (r *Registry) MinThreshold(id contracts.PersonaID) (int, error) {
	c, err := r.Get(id)
	if err != nil {
		return 0, err
	}
	return c.MinThreshold, nil
}

// All returns every persona table in registration order.
func (r *Registry) All() []*contracts.ScoringCriteria {
	out := make([]*contracts.ScoringCriteria, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.criteria[id])
	}
	return out
}

// IDs returns every persona id in registration order.
func (r *Registry) IDs() []contracts.PersonaID {
	out := make([]contracts.PersonaID, len(r.order))
	copy(out, r.order)
	return out
}
