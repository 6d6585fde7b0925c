package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vcissuer/internal/configuration/models"
	"vcissuer/pkg/domain"
	"vcissuer/pkg/platform/httputil"
	"vcissuer/pkg/requestcontext"
)

// Service defines the configuration operations exposed over HTTP.
type Service interface {
	Configure(ctx context.Context, caller domain.Principal, cfg *models.IssuerConfiguration) (*models.IssuerConfiguration, error)
	DerivationOrigin(ctx context.Context, frontendHostname string) (*models.DerivationOriginResponse, error)
}

// Handler serves issuer configuration endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/configure", h.HandleConfigure)
	r.Post("/derivation-origin", h.HandleDerivationOrigin)
}

func (h *Handler) HandleConfigure(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.ConfigureRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	cfg, err := req.ToConfiguration()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	updated, err := h.service.Configure(ctx, requestcontext.Caller(ctx), cfg)
	if err != nil {
		h.logger.WarnContext(ctx, "configure rejected",
			"error", err,
			"caller", requestcontext.Caller(ctx),
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.ConfigureResponse{Version: updated.Version})
}

func (h *Handler) HandleDerivationOrigin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.DerivationOriginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	resp, err := h.service.DerivationOrigin(ctx, req.FrontendHostname)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
