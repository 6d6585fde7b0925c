package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "vcissuer/pkg/domain-errors"
)

type taggedRequest struct {
	EventName string `json:"event_name" validate:"required,max=64"`
}

type checkedRequest struct {
	Code string `json:"code"`
}

func (r *checkedRequest) Validate() error {
	if r.Code == "" {
		return errors.New("code is required")
	}
	return nil
}

type normalizedRequest struct {
	Language   string `json:"language"`
	normalized bool
}

func (r *normalizedRequest) Normalize() {
	if r.Language == "" {
		r.Language = "en"
	}
	r.normalized = true
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestDecodeAndPrepare(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	t.Run("malformed JSON is a bad request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{nope`))
		w := httptest.NewRecorder()

		result, ok := DecodeAndPrepare[taggedRequest](w, req, logger, ctx, "req-1")

		assert.False(t, ok)
		assert.Nil(t, result)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "bad_request", decodeError(t, w).Error)
	})

	t.Run("struct tag violations are validation failures", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"event_name":""}`))
		w := httptest.NewRecorder()

		_, ok := DecodeAndPrepare[taggedRequest](w, req, logger, ctx, "req-1")

		assert.False(t, ok)
		resp := decodeError(t, w)
		assert.Equal(t, "validation_failed", resp.Error)
		assert.Equal(t, "event_name is required", resp.ErrorDescription)
		assert.Equal(t, KindExternal, resp.Kind)
	})

	t.Run("empty, trailing and oversized bodies are bad requests", func(t *testing.T) {
		cases := map[string]struct {
			body    io.Reader
			limit   int64
			message string
		}{
			"empty":    {body: http.NoBody, message: "request body is required"},
			"trailing": {body: bytes.NewBufferString(`{"event_name":"a"} {"event_name":"b"}`), message: "invalid request body"},
			"too large": {
				body:    bytes.NewBufferString(`{"event_name":"` + string(bytes.Repeat([]byte("a"), 64)) + `"}`),
				limit:   16,
				message: "request body too large",
			},
			"wrong type": {body: bytes.NewBufferString(`{"event_name":7}`), message: "event_name has the wrong type"},
		}
		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				w := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodPost, "/", tc.body)
				if tc.limit > 0 {
					req.Body = http.MaxBytesReader(w, req.Body, tc.limit)
				}

				_, ok := DecodeAndPrepare[taggedRequest](w, req, logger, ctx, "req-1")

				assert.False(t, ok)
				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.Equal(t, tc.message, decodeError(t, w).ErrorDescription)
			})
		}
	})

	t.Run("plain Validate errors become validation failures", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{}`))
		w := httptest.NewRecorder()

		_, ok := DecodeAndPrepare[checkedRequest](w, req, logger, ctx, "req-1")

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeError(t, w).ErrorDescription, "code is required")
	})

	t.Run("normalizes before returning", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{}`))
		w := httptest.NewRecorder()

		result, ok := DecodeAndPrepare[normalizedRequest](w, req, logger, ctx, "req-1")

		require.True(t, ok)
		assert.True(t, result.normalized)
		assert.Equal(t, "en", result.Language)
	})
}

func TestWriteError(t *testing.T) {
	t.Run("internal errors hide their message", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "db password wrong"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeError(t, w)
		assert.Empty(t, resp.ErrorDescription)
		assert.Equal(t, KindInternal, resp.Kind)
	})

	t.Run("non-domain errors are internal", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, errors.New("boom"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("missing signature is retryable", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeSignatureNotFound, "signature not found"))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.True(t, decodeError(t, w).Retryable)
	})

	t.Run("unsupported origin carries the hostname", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeUnsupportedOrigin, "https://wrong.fe.host"))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "unsupported_origin", resp.Error)
		assert.Equal(t, "https://wrong.fe.host", resp.ErrorDescription)
	})
}
