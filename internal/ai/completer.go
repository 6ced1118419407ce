// Package ai talks to the generative-language service behind the backtest
// console and the trend check, and turns every failure into a fallback payload.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"TradeMind/internal/logging"
)

// ErrNoAPIKey is returned by the offline completer used when no key is configured.
var ErrNoAPIKey = errors.New("API Key not found")

// Completer sends a single prompt and returns the model's text. wantJSON asks
// the provider for a JSON object response where it supports that.
type Completer interface {
	Complete(ctx context.Context, prompt string, wantJSON bool) (string, error)
}

// Options selects and tunes a provider.
type Options struct {
	Provider       string // "openai" or "anthropic"
	APIKey         string
	BaseURL        string
	Model          string
	Timeout        time.Duration
	MaxRetries     int
	RequestsPerSec float64
}

// NewCompleter builds the completer for opts.Provider wrapped in Guarded.
// Without an API key every call fails with ErrNoAPIKey.
func NewCompleter(opts Options) (Completer, error) {
	var inner Completer
	switch {
	case opts.APIKey == "":
		inner = OfflineCompleter{}
	case opts.Provider == "anthropic":
		inner = NewAnthropicCompleter(opts.APIKey, opts.Model)
	case opts.Provider == "openai" || opts.Provider == "":
		inner = NewOpenAICompleter(opts.APIKey, opts.BaseURL, opts.Model)
	default:
		return nil, fmt.Errorf("unknown ai provider %q", opts.Provider)
	}
	return NewGuarded(inner, opts.RequestsPerSec, opts.MaxRetries, opts.Timeout), nil
}

// OfflineCompleter always fails with ErrNoAPIKey.
type OfflineCompleter struct{}

func (OfflineCompleter) Complete(context.Context, string, bool) (string, error) {
	return "", ErrNoAPIKey
}

// Guarded rate-limits and retries another completer.
type Guarded struct {
	next       Completer
	limiter    *rate.Limiter
	maxRetries int
	timeout    time.Duration
	logger     zerolog.Logger
}

// NewGuarded wraps next. A non-positive rps disables rate limiting and a
// non-positive timeout leaves deadlines to the caller's context.
func NewGuarded(next Completer, rps float64, maxRetries int, timeout time.Duration) *Guarded {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Guarded{
		next:       next,
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: maxRetries,
		timeout:    timeout,
		logger:     logging.Component("ai"),
	}
}

func (g *Guarded) Complete(ctx context.Context, prompt string, wantJSON bool) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	var out string
	attempt := 0
	operation := func() error {
		attempt++
		if err := g.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		text, err := g.next.Complete(ctx, prompt, wantJSON)
		if err != nil {
			if errors.Is(err, ErrNoAPIKey) || ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			g.logger.Warn().Err(err).Int("attempt", attempt).Msg("completion failed")
			return err
		}
		out = text
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(g.maxRetries)), ctx)
	if err := backoff.Retry(operation, b); err != nil {
		return "", err
	}
	return out, nil
}
