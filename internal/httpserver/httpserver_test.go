package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/spark_cart/internal/realtime"
	"github.com/Skotchmaster/spark_cart/internal/repo"
	"github.com/Skotchmaster/spark_cart/internal/service"
	"github.com/Skotchmaster/spark_cart/internal/textgen"
	"github.com/Skotchmaster/spark_cart/internal/transport"
	pkgdb "github.com/Skotchmaster/spark_cart/pkg/db"
	"github.com/Skotchmaster/spark_cart/pkg/tokens"
)

var jwtSecret = []byte("test-jwt-secret")

type testEnv struct {
	E     *echo.Echo
	Repo  *repo.GormRepo
	Hub   *realtime.Hub
	Votes *service.VoteService
	Carts *service.CartService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	r := &repo.GormRepo{DB: pkgdb.NewTestDB(t)}
	require.NoError(t, r.Migrate(context.Background()))

	hub := realtime.NewHub()
	votes := &service.VoteService{Repo: r, Notifier: hub, KeepAlive: time.Hour}
	carts := &service.CartService{Repo: r, Votes: votes, Text: &textgen.Guard{}}

	e := echo.New()
	Register(e, &Deps{
		Carts:     &CartHTTP{Svc: carts},
		Votes:     &VoteHTTP{Svc: votes},
		Comments:  &CommentHTTP{Svc: &service.CommentService{Repo: r}},
		Stream:    &StreamHTTP{Votes: votes, Carts: carts, Source: hub},
		Profiles:  &service.ProfileService{Repo: r},
		JWTSecret: jwtSecret,
	})

	return &testEnv{E: e, Repo: r, Hub: hub, Votes: votes, Carts: carts}
}

func login(t *testing.T, name string) (uuid.UUID, *http.Cookie) {
	t.Helper()
	id := uuid.New()
	tok, err := tokens.SignAccessToken(tokens.AccessClaims{
		Name:             name,
		Picture:          name + ".png",
		RegisteredClaims: jwt.RegisteredClaims{Subject: id.String()},
	}, time.Now().Add(time.Hour), jwtSecret)
	require.NoError(t, err)
	return id, &http.Cookie{Name: tokens.AccessCookie, Value: tok, Path: "/"}
}

func (env *testEnv) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (env *testEnv) createCart(t *testing.T, ck *http.Cookie, names ...string) transport.CartResponse {
	t.Helper()
	req := map[string]any{"title": "weekend", "cartUrl": "https://shop.example.com/x"}
	var items []map[string]any
	for _, n := range names {
		items = append(items, map[string]any{"name": n, "price": 12.5, "url": "https://shop.example.com/p/" + n})
	}
	req["items"] = items

	rec := env.do(t, http.MethodPost, "/api/carts", req, ck)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[transport.CreateCartResponse](t, rec)

	rec = env.do(t, http.MethodGet, "/api/carts/"+created.CartID.String(), nil, ck)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[transport.CartResponse](t, rec)
}
