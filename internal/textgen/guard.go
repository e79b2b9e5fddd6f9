package textgen

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/spark_cart/pkg/logging"
)

const DefaultTimeout = 10 * time.Second

// Guard bounds each call and substitutes fallback text on any failure.
// A Guard with a nil Next always returns the fallbacks.
type Guard struct {
	Next    Generator
	Timeout time.Duration
}

func (g *Guard) Description(ctx context.Context, name string) string {
	if g == nil || g.Next == nil {
		return FallbackDescription
	}
	text, err := g.call(ctx, func(ctx context.Context) (string, error) {
		return g.Next.GenerateDescription(ctx, name)
	})
	if err != nil {
		logging.FromContext(ctx).Warn("generate_description_failed", "item", name, "error", err)
		return FallbackDescription
	}
	return text
}

func (g *Guard) Suggestion(ctx context.Context, name string, price decimal.Decimal) string {
	if g == nil || g.Next == nil {
		return FallbackSuggestion
	}
	text, err := g.call(ctx, func(ctx context.Context) (string, error) {
		return g.Next.GenerateSuggestion(ctx, name, price)
	})
	if err != nil {
		logging.FromContext(ctx).Warn("generate_suggestion_failed", "item", name, "error", err)
		return FallbackSuggestion
	}
	return text
}

type result struct {
	text string
	err  error
}

// call returns when fn does or the deadline passes, whichever is first;
// a generator that ignores ctx is abandoned rather than waited on.
func (g *Guard) call(ctx context.Context, fn func(context.Context) (string, error)) (string, error) {
	t := g.Timeout
	if t <= 0 {
		t = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, t)
	defer cancel()

	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%w: panic: %v", ErrGeneration, r)}
			}
		}()
		text, err := fn(ctx)
		done <- result{text: text, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return "", r.err
		}
		if r.text == "" {
			return "", ErrGeneration
		}
		return r.text, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
