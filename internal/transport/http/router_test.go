package httptransport

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vcissuer/internal/platform/health"
	"vcissuer/pkg/domain"
	"vcissuer/pkg/platform/httputil"
	"vcissuer/pkg/platform/middleware/caller"
	"vcissuer/pkg/platform/middleware/request"
	"vcissuer/pkg/requestcontext"
)

const subject = domain.Principal("2mg2s-uqaaa-aaaaa-aaaaq-cai")

// whoami echoes the caller and request time resolved by the middleware chain.
type whoami struct{}

func (whoami) Register(r chi.Router) {
	r.Post("/whoami", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"caller":   requestcontext.Caller(ctx).String(),
			"has_time": !requestcontext.Now(ctx).IsZero(),
		})
	})
	r.Post("/panic", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
}

func newTestRouter(t *testing.T) (http.Handler, *caller.Tokens, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	tokens := caller.NewTokens("test-key", "", time.Hour)
	router := NewRouter(RouterConfig{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Callers:   tokens,
		Metrics:   request.NewMetrics(reg),
		Gatherer:  reg,
		BodyLimit: 64,
		Health:    health.New("test"),
		Handlers:  []Routes{whoami{}},
	})
	return router, tokens, reg
}

func serve(router http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouterCallerResolution(t *testing.T) {
	router, tokens, _ := newTestRouter(t)

	t.Run("no token is anonymous", func(t *testing.T) {
		w := serve(router, http.MethodPost, "/whoami", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"caller":"2vxsx-fae","has_time":true}`, w.Body.String())
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("bearer token sets the caller", func(t *testing.T) {
		token, err := tokens.Issue(subject, time.Now())
		require.NoError(t, err)

		w := serve(router, http.MethodPost, "/whoami", "", map[string]string{"Authorization": "Bearer " + token})
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"caller":"`+subject.String()+`","has_time":true}`, w.Body.String())
	})

	t.Run("invalid token is rejected", func(t *testing.T) {
		w := serve(router, http.MethodPost, "/whoami", "", map[string]string{"Authorization": "Bearer nope"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRouterMiddleware(t *testing.T) {
	router, _, reg := newTestRouter(t)

	t.Run("client request id is propagated", func(t *testing.T) {
		w := serve(router, http.MethodPost, "/whoami", "", map[string]string{"X-Request-ID": "req-123"})
		assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
	})

	t.Run("non json content type is rejected", func(t *testing.T) {
		w := serve(router, http.MethodPost, "/whoami", "a=b", map[string]string{"Content-Type": "application/x-www-form-urlencoded"})
		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	})

	t.Run("panics become 500", func(t *testing.T) {
		w := serve(router, http.MethodPost, "/panic", "", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("latency is recorded per route", func(t *testing.T) {
		serve(router, http.MethodPost, "/whoami", "", nil)
		assert.Positive(t, testutil.CollectAndCount(reg, "vcissuer_endpoint_latency_seconds"))
	})
}

func TestRouterOperationalEndpoints(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := serve(router, http.MethodGet, "/health/live", "", map[string]string{"Authorization": "Bearer nope"})
	assert.Equal(t, http.StatusOK, w.Code)

	serve(router, http.MethodPost, "/whoami", "", nil)
	w = serve(router, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "vcissuer_endpoint_latency_seconds")
}
