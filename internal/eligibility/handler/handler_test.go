package handler

//go:generate mockgen -source=handler.go -destination=mocks/eligibility-mocks.go -package=mocks Service

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"vcissuer/internal/eligibility/handler/mocks"
	"vcissuer/internal/eligibility/models"
	"vcissuer/pkg/domain"
	dErrors "vcissuer/pkg/domain-errors"
	"vcissuer/pkg/requestcontext"
)

const subject = domain.Principal("2mg2s-uqaaa-aaaaa-aaaaq-cai")

var fixedNow = time.Unix(1_714_550_400, 0)

func newRouter(t *testing.T, caller domain.Principal) (*mocks.MockService, http.Handler) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := requestcontext.WithCaller(req.Context(), caller)
			ctx = requestcontext.WithTime(ctx, fixedNow)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	New(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return svc, r
}

func post(router http.Handler, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/register", bytes.NewBufferString(body)))
	return w
}

func TestHandleRegister(t *testing.T) {
	t.Run("registers with event data", func(t *testing.T) {
		svc, router := newRouter(t, subject)
		svc.EXPECT().Register(gomock.Any(), subject, fixedNow, &models.EventRegistration{EventName: "DICE2024", RegistrationCode: "secret"}).
			Return(&models.Record{
				Subject:  subject,
				JoinedAt: fixedNow,
				Events:   []models.EventAttendance{{EventName: "DICE2024", JoinedAt: fixedNow}},
			}, nil)

		w := post(router, `{"event_data":{"event_name":"DICE2024","registration_code":"secret"}}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"joined_timestamp_s":1714550400,"events":[{"event_name":"DICE2024","joined_timestamp_s":1714550400}]}`, w.Body.String())
	})

	t.Run("event data is trimmed before the service", func(t *testing.T) {
		svc, router := newRouter(t, subject)
		svc.EXPECT().Register(gomock.Any(), subject, fixedNow, &models.EventRegistration{EventName: "DICE2024", RegistrationCode: "secret"}).
			Return(&models.Record{Subject: subject, JoinedAt: fixedNow}, nil)

		w := post(router, `{"event_data":{"event_name":"DICE2024 ","registration_code":" secret"}}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("empty body registers without event", func(t *testing.T) {
		svc, router := newRouter(t, subject)
		svc.EXPECT().Register(gomock.Any(), subject, fixedNow, (*models.EventRegistration)(nil)).
			Return(&models.Record{Subject: subject, JoinedAt: fixedNow}, nil)

		w := post(router, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"joined_timestamp_s":1714550400,"events":[]}`, w.Body.String())
	})

	t.Run("anonymous caller is unauthorized", func(t *testing.T) {
		svc, router := newRouter(t, domain.AnonymousPrincipal)
		svc.EXPECT().Register(gomock.Any(), domain.AnonymousPrincipal, gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeUnauthorized, "anonymous principals cannot register"))

		w := post(router, `{}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong code is forbidden", func(t *testing.T) {
		svc, router := newRouter(t, subject)
		svc.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeForbidden, "invalid registration code for event DICE2024"))

		w := post(router, `{"event_data":{"event_name":"DICE2024","registration_code":"nope"}}`)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "invalid registration code for event DICE2024")
	})

	t.Run("malformed body", func(t *testing.T) {
		_, router := newRouter(t, subject)
		w := post(router, `{"event_data":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
