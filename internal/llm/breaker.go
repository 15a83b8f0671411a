package llm

import (
	"time"

	"github.com/sony/gobreaker"

	"github.com/quaestorlabs/quaestor/backend/pkg/logger"
)

// breaker shields the pipeline from a degraded model endpoint: after
// enough consecutive failures calls fail fast instead of waiting out
// timeouts, and the batch scorer's fallback path absorbs them.
type breaker struct {
	cb *gobreaker.CircuitBreaker
}

func newBreaker(name string, log *logger.Logger) *breaker {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Model provider breaker state changed")
		},
	}

	return &breaker{cb: gobreaker.NewCircuitBreaker(settings)}
}

func (b *breaker) execute(fn func() ([]byte, error)) ([]byte, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}
