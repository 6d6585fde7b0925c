package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"vcissuer/internal/eligibility/models"
	"vcissuer/pkg/domain"
	"vcissuer/pkg/platform/httputil"
	"vcissuer/pkg/requestcontext"
)

// Service registers the calling principal.
type Service interface {
	Register(ctx context.Context, subject domain.Principal, now time.Time, reg *models.EventRegistration) (*models.Record, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/register", h.HandleRegister)
}

// HandleRegister registers the caller. An empty body registers without an event.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req := &models.RegisterRequest{}
	if r.ContentLength != 0 {
		decoded, ok := httputil.DecodeAndPrepare[models.RegisterRequest](w, r, h.logger, ctx, requestID)
		if !ok {
			return
		}
		req = decoded
	}

	record, err := h.service.Register(ctx, requestcontext.Caller(ctx), requestcontext.Now(ctx), req.EventData)
	if err != nil {
		h.logger.InfoContext(ctx, "registration rejected",
			"error", err,
			"caller", requestcontext.Caller(ctx),
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record.ToView())
}
