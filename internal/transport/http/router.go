package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"vcissuer/internal/platform/metrics"
	"vcissuer/pkg/platform/middleware/caller"
	"vcissuer/pkg/platform/middleware/request"
	"vcissuer/pkg/platform/middleware/requesttime"
	"vcissuer/pkg/platform/validation"
)

// DefaultBodyLimit applies when RouterConfig.BodyLimit is not set.
const DefaultBodyLimit = validation.MaxBodySize

// Routes is implemented by every module handler.
type Routes interface {
	Register(r chi.Router)
}

// RouterConfig lists what the router mounts. Health and Gatherer are
// optional and served without caller authentication.
type RouterConfig struct {
	Logger    *slog.Logger
	Callers   caller.Validator
	Metrics   *request.Metrics
	Gatherer  prometheus.Gatherer
	BodyLimit int64
	Health    Routes
	Handlers  []Routes
}

// NewRouter wires all public endpoints with middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	bodyLimit := cfg.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = DefaultBodyLimit
	}

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Recovery(cfg.Logger))
	r.Use(request.Logger(cfg.Logger))
	r.Use(requesttime.Middleware)
	r.Use(request.BodyLimit(bodyLimit))
	r.Use(request.ContentTypeJSON)
	r.Use(request.Instrument(cfg.Metrics))

	if cfg.Health != nil {
		cfg.Health.Register(r)
	}
	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(cfg.Gatherer))
	}

	r.Group(func(r chi.Router) {
		r.Use(caller.Middleware(cfg.Callers, cfg.Logger))
		for _, h := range cfg.Handlers {
			h.Register(r)
		}
	})
	return r
}
