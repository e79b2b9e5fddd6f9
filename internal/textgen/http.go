package textgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

// HTTPGenerator calls the standalone product text service.
type HTTPGenerator struct {
	rc *resty.Client
}

func NewHTTPGenerator(baseURL string, timeout time.Duration) *HTTPGenerator {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &HTTPGenerator{rc: rc}
}

type contentResponse struct {
	Content string `json:"content"`
}

func (g *HTTPGenerator) GenerateDescription(ctx context.Context, name string) (string, error) {
	return g.post(ctx, "/get_product_description", map[string]string{"description": name})
}

func (g *HTTPGenerator) GenerateSuggestion(ctx context.Context, name string, price decimal.Decimal) (string, error) {
	return g.post(ctx, "/get_product_suggestion", map[string]string{
		"name":  name,
		"price": price.StringFixed(2),
	})
}

func (g *HTTPGenerator) post(ctx context.Context, path string, body any) (string, error) {
	resp, err := g.rc.R().SetContext(ctx).SetBody(body).Post(path)
	if err != nil {
		return "", fmt.Errorf("post %s: %w", path, err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("%w: %s returned status %d", ErrGeneration, path, resp.StatusCode())
	}

	var out contentResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("%w: decode %s: %v", ErrGeneration, path, err)
	}
	content := strings.TrimSpace(out.Content)
	if content == "" {
		return "", fmt.Errorf("%w: %s returned empty content", ErrGeneration, path)
	}
	return content, nil
}
