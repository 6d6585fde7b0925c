package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	credential "vcissuer/internal/credential/models"
	"vcissuer/internal/idalias"
	"vcissuer/internal/issuance/models"
	"vcissuer/pkg/domain"
	dErrors "vcissuer/pkg/domain-errors"
	"vcissuer/pkg/platform/httputil"
	"vcissuer/pkg/requestcontext"
)

// Service runs the two-phase credential issuance.
type Service interface {
	Prepare(ctx context.Context, caller domain.Principal, spec credential.CredentialSpec, signed idalias.SignedIdAlias) (*models.PrepareResponse, error)
	Get(ctx context.Context, caller domain.Principal, spec credential.CredentialSpec, signed idalias.SignedIdAlias, preparedContext []byte) (*models.GetResponse, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/credentials/prepare", h.HandlePrepare)
	r.Post("/credentials/get", h.HandleGet)
}

// HandlePrepare prepares a credential for the caller and returns the opaque
// context to present to HandleGet.
func (h *Handler) HandlePrepare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.PrepareRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	resp, err := h.service.Prepare(ctx, requestcontext.Caller(ctx), req.CredentialSpec, req.SignedIdAlias)
	if err != nil {
		h.logFailure(ctx, "credential preparation failed", err, req.CredentialSpec.CredentialType)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleGet returns the credential for a prepared context. Callers retry on
// signature_not_found.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.GetRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	resp, err := h.service.Get(ctx, requestcontext.Caller(ctx), req.CredentialSpec, req.SignedIdAlias, req.PreparedContext)
	if err != nil {
		h.logFailure(ctx, "credential retrieval failed", err, req.CredentialSpec.CredentialType)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) logFailure(ctx context.Context, msg string, err error, credentialType string) {
	level := slog.LevelWarn
	if dErrors.IsRetryable(err) {
		level = slog.LevelDebug
	} else if !dErrors.IsExternal(err) {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg,
		"error", err,
		"credential_type", credentialType,
		"caller", requestcontext.Caller(ctx),
		"request_id", requestcontext.RequestID(ctx),
	)
}
