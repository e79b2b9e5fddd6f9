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

const DefaultOpenAIURL = "https://api.openai.com/v1"

const (
	descriptionSystemPrompt = "You are a helpful assistant that generates concise, informative product descriptions."
	suggestionSystemPrompt  = "You are a helpful shopping assistant that provides balanced, honest advice about whether a product is worth purchasing. " +
		"Evaluate products based on the following key metrics: value for money, quality, durability, versatility, comfort, and style. " +
		"Provide a concise assessment that helps shoppers make informed decisions."
)

// OpenAIGenerator asks a chat-completions model directly.
type OpenAIGenerator struct {
	rc    *resty.Client
	model string
}

func NewOpenAIGenerator(baseURL, apiKey, model string, timeout time.Duration) *OpenAIGenerator {
	if baseURL == "" {
		baseURL = DefaultOpenAIURL
	}
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json")
	return &OpenAIGenerator{rc: rc, model: model}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (g *OpenAIGenerator) GenerateDescription(ctx context.Context, name string) (string, error) {
	return g.complete(ctx, descriptionSystemPrompt,
		"Generate a brief, factual description for this product: "+name, 100)
}

func (g *OpenAIGenerator) GenerateSuggestion(ctx context.Context, name string, price decimal.Decimal) (string, error) {
	user := fmt.Sprintf("Provide a brief, balanced suggestion about whether this product is worth buying. "+
		"Evaluate it based on value for money, quality, durability, versatility, comfort, and style where applicable. "+
		"Product: %s, Price: $%s", name, price.StringFixed(2))
	return g.complete(ctx, suggestionSystemPrompt, user, 150)
}

func (g *OpenAIGenerator) complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	resp, err := g.rc.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model: g.model,
			Messages: []chatMessage{
				{Role: "system", Content: system},
				{Role: "user", Content: user},
			},
			MaxTokens: maxTokens,
		}).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	var out chatResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("%w: decode chat completion (HTTP %d): %v", ErrGeneration, resp.StatusCode(), err)
	}
	if resp.StatusCode() != 200 {
		if out.Error != nil {
			return "", fmt.Errorf("%w: openai %s: %s", ErrGeneration, out.Error.Type, out.Error.Message)
		}
		return "", fmt.Errorf("%w: openai HTTP %d", ErrGeneration, resp.StatusCode())
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", ErrGeneration)
	}
	content := strings.TrimSpace(out.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: empty completion", ErrGeneration)
	}
	return content, nil
}
