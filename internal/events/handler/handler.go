package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vcissuer/internal/events/models"
	"vcissuer/pkg/domain"
	"vcissuer/pkg/platform/httputil"
	"vcissuer/pkg/requestcontext"
)

// Service defines the event registry operations exposed over HTTP.
type Service interface {
	Add(ctx context.Context, caller domain.Principal, name string, code *string) (*models.Event, error)
	List(ctx context.Context, caller domain.Principal) ([]*models.Event, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/events", h.HandleAddEvent)
	r.Get("/events", h.HandleListEvents)
}

func (h *Handler) HandleAddEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.AddEventRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	event, err := h.service.Add(ctx, requestcontext.Caller(ctx), req.EventName, req.RegistrationCode)
	if err != nil {
		h.logger.WarnContext(ctx, "add event failed",
			"error", err,
			"event_name", req.EventName,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, event.ToView())
}

func (h *Handler) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	events, err := h.service.List(ctx, requestcontext.Caller(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	resp := models.ListEventsResponse{Events: make([]models.EventView, 0, len(events))}
	for _, e := range events {
		resp.Events = append(resp.Events, e.ToView())
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
