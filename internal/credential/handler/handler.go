package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vcissuer/internal/credential/models"
	"vcissuer/pkg/platform/httputil"
	"vcissuer/pkg/requestcontext"
)

// Service renders consent messages for credential specs.
type Service interface {
	ConsentMessage(ctx context.Context, spec models.CredentialSpec, prefs models.ConsentPreferences) (*models.ConsentInfo, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/vc-consent-message", h.HandleConsentMessage)
}

func (h *Handler) HandleConsentMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.ConsentMessageRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	info, err := h.service.ConsentMessage(ctx, req.CredentialSpec, req.Preferences)
	if err != nil {
		h.logger.InfoContext(ctx, "consent message unavailable",
			"error", err,
			"credential_type", req.CredentialSpec.CredentialType,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, info)
}
