package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,EventLookup

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"vcissuer/internal/eligibility/metrics"
	"vcissuer/internal/eligibility/models"
	"vcissuer/internal/eligibility/service/mocks"
	"vcissuer/internal/eligibility/store"
	eventmodels "vcissuer/internal/events/models"
	"vcissuer/pkg/domain"
	dErrors "vcissuer/pkg/domain-errors"
	"vcissuer/pkg/platform/audit"
)

const subject = domain.Principal("2mg2s-uqaaa-aaaaa-aaaaq-cai")

type EligibilityServiceSuite struct {
	suite.Suite
	ctx     context.Context
	ctrl    *gomock.Controller
	events  *mocks.MockEventLookup
	store   *store.InMemoryStore
	audits  *audit.InMemoryStore
	metrics *metrics.Metrics
	service *Service
	now     time.Time
}

func TestEligibilityServiceSuite(t *testing.T) {
	suite.Run(t, new(EligibilityServiceSuite))
}

type storeEmitter struct{ store audit.Store }

func (e storeEmitter) Emit(ctx context.Context, ev audit.Event) error { return e.store.Append(ctx, ev) }

func (s *EligibilityServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	s.ctrl = gomock.NewController(s.T())
	s.events = mocks.NewMockEventLookup(s.ctrl)
	s.store = store.NewInMemory()
	s.audits = audit.NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.metrics = metrics.New(prometheus.NewRegistry(), s.store, logger)
	s.service = New(s.store, s.events, logger,
		WithAuditor(audit.NewLogger(logger, storeEmitter{s.audits})),
		WithMetrics(s.metrics),
	)
}

func (s *EligibilityServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *EligibilityServiceSuite) expectEvent(name, code string) *gomock.Call {
	return s.events.EXPECT().Lookup(gomock.Any(), name).
		Return(&eventmodels.Event{Name: name, RegistrationCode: code}, nil)
}

func (s *EligibilityServiceSuite) TestRegisterWithoutEvent() {
	record, err := s.service.Register(s.ctx, subject, s.now, nil)
	s.Require().NoError(err)
	s.Equal(s.now, record.JoinedAt)
	s.Empty(record.Events)

	view := record.ToView()
	s.Equal(s.now.Unix(), view.JoinedTimestampS)
	s.NotNil(view.Events)

	s.Equal(1.0, testutil.ToFloat64(s.metrics.EarlyAdopters))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Registrations.WithLabelValues("new")))

	events, err := s.audits.ListBySubject(s.ctx, subject.String())
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(string(audit.EventSubjectRegistered), events[0].Action)
}

func (s *EligibilityServiceSuite) TestRegisterIsIdempotent() {
	later := s.now.Add(24 * time.Hour)
	s.expectEvent("DICE2024", "secret").Times(2)

	_, err := s.service.Register(s.ctx, subject, s.now, &models.EventRegistration{EventName: "DICE2024", RegistrationCode: "secret"})
	s.Require().NoError(err)
	record, err := s.service.Register(s.ctx, subject, later, &models.EventRegistration{EventName: "DICE2024", RegistrationCode: "secret"})
	s.Require().NoError(err)

	s.Equal(s.now, record.JoinedAt)
	s.Require().Len(record.Events, 1)
	s.Equal(s.now, record.Events[0].JoinedAt)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.EarlyAdopters))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Registrations.WithLabelValues("existing")))
}

func (s *EligibilityServiceSuite) TestRegisterAddsEventToExistingRecord() {
	_, err := s.service.Register(s.ctx, subject, s.now, nil)
	s.Require().NoError(err)

	s.expectEvent("DICE2024", "secret")
	record, err := s.service.Register(s.ctx, subject, s.now.Add(time.Hour), &models.EventRegistration{EventName: "DICE2024", RegistrationCode: "secret"})
	s.Require().NoError(err)

	s.Equal(s.now, record.JoinedAt)
	s.Require().Len(record.Events, 1)
	s.Equal(s.now.Add(time.Hour), record.Events[0].JoinedAt)
}

func (s *EligibilityServiceSuite) TestRegisterTrimsEventData() {
	s.expectEvent("DICE2024", "secret")

	record, err := s.service.Register(s.ctx, subject, s.now, &models.EventRegistration{EventName: " DICE2024 ", RegistrationCode: "secret "})
	s.Require().NoError(err)
	s.Require().Len(record.Events, 1)
	s.Equal("DICE2024", record.Events[0].EventName)
}

func (s *EligibilityServiceSuite) TestRegisterRejections() {
	s.Run("anonymous caller", func() {
		_, err := s.service.Register(s.ctx, domain.AnonymousPrincipal, s.now, nil)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("empty event name", func() {
		_, err := s.service.Register(s.ctx, subject, s.now, &models.EventRegistration{EventName: ""})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Equal("event name cannot be an empty string", err.Error())
	})

	s.Run("unknown event", func() {
		s.events.EXPECT().Lookup(gomock.Any(), "Nope").
			Return(nil, dErrors.New(dErrors.CodeNotFound, "event Nope does not exist"))

		_, err := s.service.Register(s.ctx, subject, s.now, &models.EventRegistration{EventName: "Nope", RegistrationCode: "x"})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("wrong registration code", func() {
		s.expectEvent("DICE2024", "secret")

		_, err := s.service.Register(s.ctx, subject, s.now, &models.EventRegistration{EventName: "DICE2024", RegistrationCode: "guess"})
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
		s.Equal("invalid registration code for event DICE2024", err.Error())
	})

	s.Run("rejections create no record", func() {
		record, err := s.service.Eligibility(s.ctx, subject)
		s.Require().NoError(err)
		s.Nil(record)
		s.Equal(3.0, testutil.ToFloat64(s.metrics.Registrations.WithLabelValues("rejected")))
	})
}

func (s *EligibilityServiceSuite) TestStoreFailureIsInternal() {
	mockStore := mocks.NewMockStore(s.ctrl)
	svc := New(mockStore, s.events, slog.New(slog.NewTextHandler(io.Discard, nil)))

	mockStore.EXPECT().FindBySubject(gomock.Any(), subject).Return(nil, errors.New("db down"))

	_, err := svc.Register(s.ctx, subject, s.now, nil)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}
