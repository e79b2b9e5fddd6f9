package authclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshTokens(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/refresh", r.URL.Path)
		ck, err := r.Cookie("refreshToken")
		if err != nil || ck.Value != "r-old" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(RefreshResponse{
			AccessToken: "a-new", RefreshToken: "r-new", AccessExp: 10, RefreshExp: 20,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/")

	res, err := c.RefreshTokens(context.Background(), "r-old", "a-old")
	require.NoError(t, err)
	assert.Equal(t, "a-new", res.AccessToken)
	assert.Equal(t, "r-new", res.RefreshToken)
	assert.EqualValues(t, 20, res.RefreshExp)

	_, err = c.RefreshTokens(context.Background(), "bad", "a-old")
	require.Error(t, err)
}
