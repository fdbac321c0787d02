package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"moodrec/internal/port"
)

// BreakerLLM stops calling the model after a run of consecutive failures and
// fails fast until the cooldown has passed. It never retries.
type BreakerLLM struct {
	inner port.LLM
	cb    *gobreaker.CircuitBreaker[string]
}

// NewBreakerLLM wraps inner. failures is the number of consecutive failures
// that opens the breaker; cooldown is how long it stays open before a single
// trial call is let through.
func NewBreakerLLM(inner port.LLM, failures uint32, cooldown time.Duration, log zerolog.Logger) *BreakerLLM {
	if failures == 0 {
		failures = 3
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        inner.ModelName(),
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("model", name).Str("from", from.String()).Str("to", to.String()).Msg("generative model breaker state changed")
		},
	}

	return &BreakerLLM{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker[string](settings),
	}
}

func (b *BreakerLLM) Generate(ctx context.Context, prompt string) (string, error) {
	text, err := b.cb.Execute(func() (string, error) {
		return b.inner.Generate(ctx, prompt)
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", b.inner.ModelName(), err)
	}
	return text, nil
}

func (b *BreakerLLM) ModelName() string {
	return b.inner.ModelName()
}

// State reports the breaker state: closed, half-open or open.
func (b *BreakerLLM) State() string {
	return b.cb.State().String()
}

var _ port.LLM = (*BreakerLLM)(nil)
