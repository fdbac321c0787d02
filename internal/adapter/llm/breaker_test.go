package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyLLM struct {
	calls int
	err   error
}

func (f *flakyLLM) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "ok", nil
}

func (f *flakyLLM) ModelName() string { return "flaky" }

func TestBreakerLLM_OpensAfterConsecutiveFailures(t *testing.T) {
	inner := &flakyLLM{err: errors.New("503")}
	b := NewBreakerLLM(inner, 2, time.Hour, zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := b.Generate(ctx, "p")
		require.ErrorIs(t, err, inner.err)
	}
	assert.Equal(t, "open", b.State())

	_, err := b.Generate(ctx, "p")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 2, inner.calls, "open breaker must not call the model")
}

func TestBreakerLLM_PassesThrough(t *testing.T) {
	inner := &flakyLLM{}
	b := NewBreakerLLM(inner, 0, 0, zerolog.Nop())

	text, err := b.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, "closed", b.State())
	assert.Equal(t, "flaky", b.ModelName())
}

func TestBreakerLLM_HalfOpenTrial(t *testing.T) {
	inner := &flakyLLM{err: errors.New("timeout")}
	b := NewBreakerLLM(inner, 1, 10*time.Millisecond, zerolog.Nop())
	ctx := context.Background()

	_, err := b.Generate(ctx, "p")
	require.Error(t, err)
	assert.Equal(t, "open", b.State())

	time.Sleep(20 * time.Millisecond)
	inner.err = nil
	text, err := b.Generate(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, "closed", b.State())
}
