// ABOUTME: Gateway middleware for retries, timeouts, rate limiting, logging and call metrics
// ABOUTME: Decorators compose with Wrap so providers stay free of cross-cutting concerns
package llm

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/harper/cdt-coder/internal/util"
)

// Middleware decorates a Gateway with a cross-cutting concern.
type Middleware func(Gateway) Gateway

// Wrap applies middlewares in left-to-right order.
// Wrap(inner, A, B) => A(B(inner))
func Wrap(inner Gateway, mws ...Middleware) Gateway {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			out = mws[i](out)
		}
	}
	return out
}

// gatewayFunc adapts a function to the Gateway interface
type gatewayFunc struct {
	name string
	fn   func(ctx context.Context, template string, vars map[string]string) (string, error)
}

func (g gatewayFunc) Name() string { return g.name }
func (g gatewayFunc) Invoke(ctx context.Context, template string, vars map[string]string) (string, error) {
	return g.fn(ctx, template, vars)
}

// -------- Retry with exponential backoff --------

// WithRetry retries failed calls up to maxRetries extra times, waiting
// util.CalculateBackoff between attempts. Permanent errors and a done
// context stop immediately.
func WithRetry(maxRetries int, baseDelay time.Duration) Middleware {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return func(next Gateway) Gateway {
		return gatewayFunc{name: next.Name(), fn: func(ctx context.Context, template string, vars map[string]string) (string, error) {
			var lastErr error
			for attempt := 0; attempt <= maxRetries; attempt++ {
				if attempt > 0 {
					if err := util.SleepContext(ctx, util.CalculateBackoff(baseDelay, attempt)); err != nil {
						return "", err
					}
				}
				out, err := next.Invoke(ctx, template, vars)
				if err == nil {
					return out, nil
				}
				lastErr = err
				if IsPermanent(err) || ctx.Err() != nil {
					return "", err
				}
			}
			return "", lastErr
		}}
	}
}

// -------- Per-call timeout --------

// WithTimeout bounds every call with d. Zero disables it.
func WithTimeout(d time.Duration) Middleware {
	return func(next Gateway) Gateway {
		if d <= 0 {
			return next
		}
		return gatewayFunc{name: next.Name(), fn: func(ctx context.Context, template string, vars map[string]string) (string, error) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next.Invoke(ctx, template, vars)
		}}
	}
}

// -------- Rate limiting --------

// WithRateLimit throttles calls to rps requests per second. Zero disables it.
func WithRateLimit(rps float64) Middleware {
	return func(next Gateway) Gateway {
		if rps <= 0 {
			return next
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		limiter := rate.NewLimiter(rate.Limit(rps), burst)
		return gatewayFunc{name: next.Name(), fn: func(ctx context.Context, template string, vars map[string]string) (string, error) {
			if err := limiter.Wait(ctx); err != nil {
				return "", err
			}
			return next.Invoke(ctx, template, vars)
		}}
	}
}

// -------- Logging --------

// WithLogging logs prompt size, latency and errors at debug level.
func WithLogging(logger zerolog.Logger) Middleware {
	return func(next Gateway) Gateway {
		return gatewayFunc{name: next.Name(), fn: func(ctx context.Context, template string, vars map[string]string) (string, error) {
			start := time.Now()
			out, err := next.Invoke(ctx, template, vars)
			evt := logger.Debug()
			if err != nil {
				evt = logger.Warn().Err(err)
			}
			evt.Str("provider", next.Name()).
				Int("prompt_bytes", len(Render(template, vars))).
				Int("response_bytes", len(out)).
				Dur("elapsed", time.Since(start)).
				Msg("llm call")
			return out, err
		}}
	}
}

// -------- Metrics --------

// CallObserver receives one observation per gateway call.
type CallObserver interface {
	ObserveLLMCall(provider string, elapsed time.Duration, err error)
}

// WithObserver reports every call to obs. A nil observer disables it.
func WithObserver(obs CallObserver) Middleware {
	return func(next Gateway) Gateway {
		if obs == nil {
			return next
		}
		return gatewayFunc{name: next.Name(), fn: func(ctx context.Context, template string, vars map[string]string) (string, error) {
			start := time.Now()
			out, err := next.Invoke(ctx, template, vars)
			obs.ObserveLLMCall(next.Name(), time.Since(start), err)
			return out, err
		}}
	}
}
