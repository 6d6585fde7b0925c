package handler

//go:generate mockgen -source=handler.go -destination=mocks/issuance-mocks.go -package=mocks Service

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	credential "vcissuer/internal/credential/models"
	"vcissuer/internal/idalias"
	"vcissuer/internal/issuance/handler/mocks"
	"vcissuer/internal/issuance/models"
	"vcissuer/pkg/domain"
	dErrors "vcissuer/pkg/domain-errors"
	"vcissuer/pkg/requestcontext"
)

const subject = domain.Principal("2mg2s-uqaaa-aaaaa-aaaaq-cai")

var (
	spec = credential.CredentialSpec{
		CredentialType: credential.TypeEarlyAdopter,
		Arguments:      map[string]credential.ArgumentValue{credential.ArgSinceYear: credential.IntArg(2024)},
	}
	signed = idalias.SignedIdAlias{CredentialJWS: "header.payload.signature"}
)

func newRouter(t *testing.T) (*mocks.MockService, http.Handler) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(requestcontext.WithCaller(req.Context(), subject)))
		})
	})
	New(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return svc, r
}

func post(router http.Handler, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body)))
	return w
}

const prepareBody = `{"credential_spec":{"credential_type":"EarlyAdopter","arguments":{"sinceYear":{"Int":2024}}},"signed_id_alias":{"credential_jws":"header.payload.signature"}}`

func TestHandlePrepare(t *testing.T) {
	t.Run("returns prepared context as base64", func(t *testing.T) {
		svc, router := newRouter(t)
		svc.EXPECT().Prepare(gomock.Any(), subject, spec, signed).
			Return(&models.PrepareResponse{PreparedContext: []byte{0xa2, 0x01}}, nil)

		w := post(router, "/credentials/prepare", prepareBody)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"prepared_context":"ogE="}`, w.Body.String())
	})

	t.Run("unknown subject is forbidden", func(t *testing.T) {
		svc, router := newRouter(t)
		svc.EXPECT().Prepare(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeUnknownSubject, "unregistered principal "+subject.String()))

		w := post(router, "/credentials/prepare", prepareBody)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "unknown_subject")
	})

	t.Run("invalid alias is unauthorized", func(t *testing.T) {
		svc, router := newRouter(t)
		svc.EXPECT().Prepare(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeInvalidIdAlias, idalias.InvalidAliasMessage))

		w := post(router, "/credentials/prepare", prepareBody)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing alias fails validation", func(t *testing.T) {
		_, router := newRouter(t)
		w := post(router, "/credentials/prepare", `{"credential_spec":{"credential_type":"EarlyAdopter"}}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		_, router := newRouter(t)
		w := post(router, "/credentials/prepare", `{`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleGet(t *testing.T) {
	getBody := func(t *testing.T) string {
		body, err := json.Marshal(models.GetRequest{CredentialSpec: spec, SignedIdAlias: signed, PreparedContext: []byte{0xa2, 0x01}})
		require.NoError(t, err)
		return string(body)
	}

	t.Run("returns credential", func(t *testing.T) {
		svc, router := newRouter(t)
		svc.EXPECT().Get(gomock.Any(), subject, spec, signed, []byte{0xa2, 0x01}).
			Return(&models.GetResponse{VcJws: "a.b.c"}, nil)

		w := post(router, "/credentials/get", getBody(t))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"vc_jws":"a.b.c"}`, w.Body.String())
	})

	t.Run("missing signature is retryable conflict", func(t *testing.T) {
		svc, router := newRouter(t)
		svc.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeSignatureNotFound, "signature not found"))

		w := post(router, "/credentials/get", getBody(t))

		assert.Equal(t, http.StatusConflict, w.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "signature_not_found", resp["error"])
		assert.Equal(t, true, resp["retryable"])
	})

	t.Run("expired context is gone", func(t *testing.T) {
		svc, router := newRouter(t)
		svc.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodePreparedContextExpired, "prepared context expired or unknown"))

		w := post(router, "/credentials/get", getBody(t))
		assert.Equal(t, http.StatusGone, w.Code)
	})

	t.Run("missing prepared context fails validation", func(t *testing.T) {
		_, router := newRouter(t)
		w := post(router, "/credentials/get", prepareBody)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
