// Package textgen produces the per-item description and buy suggestion shown
// on a cart. Generators may fail; Guard turns every failure into fallback text.
package textgen

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

const (
	FallbackDescription = "No description available."
	FallbackSuggestion  = "No suggestion available."
)

// ErrGeneration marks a response that carried no usable text.
var ErrGeneration = errors.New("text generation failed")

type Generator interface {
	GenerateDescription(ctx context.Context, name string) (string, error)
	GenerateSuggestion(ctx context.Context, name string, price decimal.Decimal) (string, error)
}
