package authclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Skotchmaster/spark_cart/pkg/tokens"
)

// Client talks to the external auth service.
type Client struct {
	rc *resty.Client
}

func NewClient(authServiceURL string) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(authServiceURL, "/")).
		SetTimeout(5*time.Second).
		SetHeader("Accept", "application/json")
	return &Client{rc: rc}
}

type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	AccessExp    int64  `json:"access_exp"`
	RefreshExp   int64  `json:"refresh_exp"`
}

func (c *Client) RefreshTokens(ctx context.Context, refreshToken, accessToken string) (*RefreshResponse, error) {
	var result RefreshResponse
	resp, err := c.rc.R().
		SetContext(ctx).
		SetCookies([]*http.Cookie{
			{Name: tokens.RefreshCookie, Value: refreshToken},
			{Name: tokens.AccessCookie, Value: accessToken},
		}).
		SetResult(&result).
		Post("/auth/refresh")
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("refresh failed with status: %d", resp.StatusCode())
	}
	if result.AccessToken == "" {
		return nil, fmt.Errorf("refresh response has no access token")
	}

	return &result, nil
}
