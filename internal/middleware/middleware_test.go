package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/raffle-manager/internal/config"
	"github.com/iliyamo/raffle-manager/internal/model"
	"github.com/iliyamo/raffle-manager/internal/utils"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func serve(e *echo.Echo, method, target string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthAndRole(t *testing.T) {
	const secret = "test-secret"
	e := echo.New()
	e.GET("/admin", func(c echo.Context) error {
		return c.String(http.StatusOK, UserID(c))
	}, JWTAuth(secret), RequireRole(model.RoleAdmin))

	rec := serve(e, http.MethodGet, "/admin", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(e, http.MethodGet, "/admin", map[string]string{"Authorization": "Bearer garbage"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	other, err := utils.NewAccessToken("other-secret", 1, model.RoleAdmin, 5)
	require.NoError(t, err)
	rec = serve(e, http.MethodGet, "/admin", map[string]string{"Authorization": "Bearer " + other.Token})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	viewer, err := utils.NewAccessToken(secret, 2, "VIEWER", 5)
	require.NoError(t, err)
	rec = serve(e, http.MethodGet, "/admin", map[string]string{"Authorization": "Bearer " + viewer.Token})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin, err := utils.NewAccessToken(secret, 42, model.RoleAdmin, 5)
	require.NoError(t, err)
	rec = serve(e, http.MethodGet, "/admin", map[string]string{"Authorization": "Bearer " + admin.Token})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "42", rec.Body.String())
}

func TestRedisCache(t *testing.T) {
	rdb, _ := setupTestRedis(t)
	cfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}, TTL: time.Minute, Prefix: "test:cache", KeyStrategy: "route_query"}

	calls := 0
	e := echo.New()
	e.GET("/raffles/:id", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"id": c.Param("id"), "calls": calls})
	}, NewRedisCache(cfg, rdb))
	e.GET("/missing", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusNotFound, echo.Map{"error": "raffle not found"})
	}, NewRedisCache(cfg, rdb))

	first := serve(e, http.MethodGet, "/raffles/1", nil)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := serve(e, http.MethodGet, "/raffles/1", nil)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Contains(t, second.Header().Get(echo.HeaderContentType), "application/json")

	other := serve(e, http.MethodGet, "/raffles/2", nil)
	assert.Equal(t, "MISS", other.Header().Get("X-Cache"))
	assert.Contains(t, other.Body.String(), `"id":"2"`)
	assert.Equal(t, 2, calls)

	serve(e, http.MethodGet, "/missing", nil)
	rec := serve(e, http.MethodGet, "/missing", nil)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 4, calls)
}

func TestRedisCacheDisabledWithoutClient(t *testing.T) {
	cfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}}
	e := echo.New()
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, NewRedisCache(cfg, nil))

	rec := serve(e, http.MethodGet, "/x", nil)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestTokenBucket(t *testing.T) {
	rdb, mr := setupTestRedis(t)
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            time.Hour,
		KeyStrategy:    "ip_route",
		Prefix:         "test:rl",
	}
	e := echo.New()
	e.GET("/public", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, NewTokenBucket(cfg, rdb))

	for i := 0; i < 2; i++ {
		rec := serve(e, http.MethodGet, "/public", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := serve(e, http.MethodGet, "/public", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	// another client has its own bucket
	rec = serve(e, http.MethodGet, "/public", map[string]string{"X-Real-IP": "10.0.0.9"})
	assert.Equal(t, http.StatusOK, rec.Code)

	// redis failures fail open
	mr.Close()
	rec = serve(e, http.MethodGet, "/public", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/public/raffles/3", nil)
	req.Header.Set("X-Real-IP", "1.2.3.4")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/public/raffles/:id")

	assert.Equal(t, "rl:ip:1.2.3.4:route:GET /v1/public/raffles/:id", buildRateKey(config.RateLimitConfig{Prefix: "rl"}, c))
	assert.Equal(t, "rl:ip:1.2.3.4", buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}, c))
	assert.Equal(t, "rl:ip:1.2.3.4:user:anon", buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_user"}, c))
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"image/png"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, gotHdr)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, body)

	_, _, _, ok = decodePayload([]byte{0, 1})
	assert.False(t, ok)
}
