package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"

	"github.com/Skotchmaster/spark_cart/internal/models"
)

// ItemDoc is the indexed shape of a cart item.
type ItemDoc struct {
	ID          string `json:"id"`
	CartID      string `json:"cart_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	URL         string `json:"url,omitempty"`
	Image       string `json:"image"`
}

type ItemIndex struct {
	ES    *elasticsearch.Client
	Index string
}

// IndexCart upserts every item of the cart.
func (x *ItemIndex) IndexCart(ctx context.Context, cart *models.Cart) error {
	for _, it := range cart.Items {
		doc := ItemDoc{
			ID:          it.ID.String(),
			CartID:      cart.ID.String(),
			Name:        it.Name,
			Description: it.Description,
			Price:       it.Price.StringFixed(2),
			URL:         it.URL,
			Image:       it.Image,
		}
		body, err := json.Marshal(doc)
		if err != nil {
			return err
		}

		res, err := x.ES.Index(
			x.Index,
			bytes.NewReader(body),
			x.ES.Index.WithContext(ctx),
			x.ES.Index.WithDocumentID(doc.ID),
		)
		if err != nil {
			return fmt.Errorf("index item %s: %w", doc.ID, err)
		}
		if err := checkResponse(res); err != nil {
			return fmt.Errorf("index item %s: %w", doc.ID, err)
		}
	}
	return nil
}

// Search runs a fuzzy match over item names and descriptions.
func (x *ItemIndex) Search(ctx context.Context, query string, from, size int) (int64, []ItemDoc, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, err
	}

	res, err := x.ES.Search(
		x.ES.Search.WithContext(ctx),
		x.ES.Search.WithIndex(x.Index),
		x.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source ItemDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("decode search: %w", err)
	}

	docs := make([]ItemDoc, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		docs[i] = hit.Source
	}
	return r.Hits.Total.Value, docs, nil
}

func checkResponse(res *esapi.Response) error {
	defer res.Body.Close()
	if !res.IsError() {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	b, _ := io.ReadAll(io.LimitReader(res.Body, 512))
	return fmt.Errorf("status %d: %s", res.StatusCode, b)
}

// Page converts a 1-based page and size into from/size, capping size at 100.
func Page(page, size int) (from, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 10
	}
	return (page - 1) * size, size
}
