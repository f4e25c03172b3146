package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	"github.com/oksasatya/bootcamp-directory/internal/domain/query"
	"github.com/oksasatya/bootcamp-directory/pkg/apperror"
	"github.com/oksasatya/bootcamp-directory/pkg/helpers"
	"github.com/oksasatya/bootcamp-directory/pkg/response"
)

func init() { gin.SetMode(gin.TestMode) }

type fakeAuth map[string]*entity.User

func (f fakeAuth) Authenticate(_ context.Context, token string) (*entity.User, *helpers.Claims, error) {
	if u, ok := f[token]; ok {
		return u, &helpers.Claims{UserID: u.ID}, nil
	}
	return nil, nil, apperror.Unauthorized("Access denied")
}

type envelope struct {
	Success    bool                `json:"success"`
	Error      string              `json:"error"`
	Count      *int                `json:"count"`
	Total      *int64              `json:"total"`
	Pagination response.Pagination `json:"pagination"`
	Data       json.RawMessage     `json:"data"`
}

func do(t *testing.T, r http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func newEngine() (*gin.Engine, *test.Hook) {
	logger, hook := test.NewNullLogger()
	r := gin.New()
	r.Use(RequestIDMiddleware(), ErrorHandler(logger))
	return r, hook
}

func ok(c *gin.Context) { response.Success(c, http.StatusOK, CurrentActor(c).ID) }

func TestProtect(t *testing.T) {
	users := fakeAuth{"good": {ID: "u1", Role: entity.RoleUser}}
	r, _ := newEngine()
	r.GET("/me", Protect(users, false), ok)
	r.GET("/cookie", Protect(users, true), ok)

	w, env := do(t, r, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Access denied", env.Error)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer bad")
	w, _ = do(t, r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	w, env = do(t, r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `"u1"`, string(env.Data))

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: helpers.TokenCookie, Value: "good"})
	w, _ = do(t, r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/cookie", nil)
	req.AddCookie(&http.Cookie{Name: helpers.TokenCookie, Value: "good"})
	w, _ = do(t, r, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthorize_RoleMatrix(t *testing.T) {
	roles := []string{entity.RoleUser, entity.RolePublisher, entity.RoleAdmin}
	lists := [][]string{
		{entity.RoleAdmin},
		{entity.RolePublisher, entity.RoleAdmin},
		{entity.RoleUser},
		{},
	}
	for _, role := range roles {
		users := fakeAuth{"tok": {ID: "u-" + role, Role: role}}
		for _, allowed := range lists {
			r, _ := newEngine()
			r.GET("/x", Protect(users, false), Authorize(allowed...), ok)
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			req.Header.Set("Authorization", "Bearer tok")
			w, env := do(t, r, req)

			if entity.HasRole(role, allowed...) {
				assert.Equal(t, http.StatusOK, w.Code, "role %s in %v", role, allowed)
			} else {
				assert.Equal(t, http.StatusForbidden, w.Code, "role %s in %v", role, allowed)
				assert.Equal(t, "User role "+role+" is unauthorized to access this route", env.Error)
			}
		}
	}
}

func TestErrorHandler(t *testing.T) {
	r, hook := newEngine()
	r.GET("/nf", func(c *gin.Context) { _ = c.Error(apperror.NotFound("No bootcamp with the id of 1")) })
	r.GET("/val", func(c *gin.Context) {
		_ = c.Error(apperror.ValidationDetails("Invalid input", map[string]string{"name": "is required"}))
	})
	r.GET("/boom", func(c *gin.Context) { _ = c.Error(errors.New("pq: connection refused")) })

	w, env := do(t, r, httptest.NewRequest(http.MethodGet, "/nf", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No bootcamp with the id of 1", env.Error)

	w, _ = do(t, r, httptest.NewRequest(http.MethodGet, "/val", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"is required"`)

	w, env = do(t, r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Server Error", env.Error)
	assert.NotContains(t, w.Body.String(), "connection refused")
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
}

type item struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func TestAdvancedResults(t *testing.T) {
	var got query.Spec
	find := func(_ context.Context, spec query.Spec) (query.Result[item], error) {
		got = spec
		return query.Result[item]{
			Items: []item{{ID: "a", Name: "A", Price: 300}, {ID: "b", Name: "B", Price: 200}},
			Total: 25,
			Spec:  spec,
		}, nil
	}
	r, _ := newEngine()
	r.GET("/items", AdvancedResults(find), response.AdvancedResults)

	w, env := do(t, r, httptest.NewRequest(http.MethodGet, "/items?price[gte]=100&select=name&sort=-price&page=2&limit=10", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 10, got.Limit)
	require.Len(t, got.Filters, 1)
	assert.Equal(t, query.OpGte, got.Filters[0].Op)

	assert.Equal(t, 2, *env.Count)
	assert.EqualValues(t, 25, *env.Total)
	require.NotNil(t, env.Pagination.Next)
	assert.Equal(t, 3, env.Pagination.Next.Page)
	require.NotNil(t, env.Pagination.Prev)
	assert.Equal(t, 1, env.Pagination.Prev.Page)
	assert.JSONEq(t, `[{"id":"a","name":"A"},{"id":"b","name":"B"}]`, string(env.Data))

	w, env = do(t, r, httptest.NewRequest(http.MethodGet, "/items?price[near]=1", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
}

func TestBearerToken(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, BearerToken(c, true))

	c.Request.Header.Set("Authorization", "Basic abc")
	assert.Empty(t, BearerToken(c, false))

	c.Request.Header.Set("Authorization", "bearer  abc.def ")
	assert.Equal(t, "abc.def", BearerToken(c, false))
}

func realIPEngine(t *testing.T, proxies []string) *gin.Engine {
	t.Helper()
	r := gin.New()
	require.NoError(t, TrustProxies(r, proxies))
	r.Use(RealIP(), RateLimit(nil, 1, 0, KeyByIP(), nil))
	r.GET("/ip", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("real_ip")) })
	return r
}

func getIP(r *gin.Engine, header, value string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	if header != "" {
		req.Header.Set(header, value)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRealIPIgnoresForwardingFromUntrustedPeers(t *testing.T) {
	r := realIPEngine(t, nil)

	for _, spoof := range []string{"203.0.113.7", "203.0.113.8", "198.51.100.1"} {
		w := getIP(r, "X-Forwarded-For", spoof)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "192.0.2.1", w.Body.String())

		w = getIP(r, "CF-Connecting-IP", spoof)
		assert.Equal(t, "192.0.2.1", w.Body.String())
	}
}

func TestRealIPHonoursTrustedProxy(t *testing.T) {
	r := realIPEngine(t, []string{"192.0.2.0/24"})

	w := getIP(r, "CF-Connecting-IP", "203.0.113.9")
	assert.Equal(t, "203.0.113.9", w.Body.String())

	w = getIP(r, "X-Forwarded-For", "203.0.113.7")
	assert.Equal(t, "203.0.113.7", w.Body.String())

	w = getIP(r, "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "192.0.2.1", w.Body.String())
}

func TestTrustProxiesRejectsGarbage(t *testing.T) {
	assert.Error(t, TrustProxies(gin.New(), []string{"not-an-ip"}))
}
