package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/billiard-club-pos/internal/config"
)

func TestPayloadRoundTrip(t *testing.T) {
	body := []byte(`{"items":[]}`)
	bs := encodePayload(http.StatusOK, body)
	status, got, ok := decodePayload(bs)
	require.True(t, ok)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, body, got)

	_, _, ok = decodePayload([]byte{1, 2})
	require.False(t, ok)
}

func TestCacheKeyVariesByQuery(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache"}
	e := echo.New()

	mk := func(target string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/v1/tables/status")
		return c
	}

	a := cacheKey(cfg, mk("/v1/tables/status"))
	b := cacheKey(cfg, mk("/v1/tables/status?x=1"))
	require.NotEqual(t, a, b)
	require.Equal(t, a, cacheKey(cfg, mk("/v1/tables/status")))
}

func TestDisabledMiddlewaresPassThrough(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/tables/status", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	next := func(c echo.Context) error {
		called = true
		return c.String(http.StatusOK, "ok")
	}

	cache := NewRedisCache(config.CacheConfig{Enabled: false}, nil)
	require.NoError(t, cache(next)(c))
	require.True(t, called)

	called = false
	limit := NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil)
	require.NoError(t, limit(next)(c))
	require.True(t, called)
}
