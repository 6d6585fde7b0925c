package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "vcissuer/pkg/domain-errors"
)

// ErrorResponse is the JSON body written for every failed request.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	Kind             string `json:"kind"`
	Retryable        bool   `json:"retryable,omitempty"`
}

// Error kinds exposed to callers.
const (
	KindExternal = "external"
	KindInternal = "internal"
)

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; an encoding failure cannot change the status.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError centralizes domain error translation to HTTP responses.
// Internal causes are never echoed to the caller.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if !errors.As(err, &domainErr) || domainErr.Code == dErrors.CodeInternal {
		WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: string(dErrors.CodeInternal),
			Kind:  KindInternal,
		})
		return
	}

	WriteJSON(w, DomainCodeToHTTPStatus(domainErr.Code), ErrorResponse{
		Error:            string(domainErr.Code),
		ErrorDescription: domainErr.Message,
		Kind:             KindExternal,
		Retryable:        dErrors.IsRetryable(err),
	})
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeBadRequest, dErrors.CodeValidation, dErrors.CodeInvalidInput:
		return http.StatusBadRequest
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeUnauthorized, dErrors.CodeInvalidIdAlias:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden, dErrors.CodeUnknownSubject, dErrors.CodeUnauthorizedSubject:
		return http.StatusForbidden
	case dErrors.CodeUnsupportedCredentialSpec, dErrors.CodeConsentMessageUnavailable,
		dErrors.CodeUnsupportedOrigin:
		return http.StatusUnprocessableEntity
	case dErrors.CodeSignatureNotFound:
		// The prepared credential exists but is not certified yet; callers poll.
		return http.StatusConflict
	case dErrors.CodePreparedContextExpired:
		return http.StatusGone
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
