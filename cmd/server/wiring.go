package main

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/prometheus/client_golang/prometheus"

	configHandler "vcissuer/internal/configuration/handler"
	configmodels "vcissuer/internal/configuration/models"
	configService "vcissuer/internal/configuration/service"
	configStore "vcissuer/internal/configuration/store"
	credentialHandler "vcissuer/internal/credential/handler"
	credentialService "vcissuer/internal/credential/service"
	eligibilityHandler "vcissuer/internal/eligibility/handler"
	eligibilityMetrics "vcissuer/internal/eligibility/metrics"
	eligibilityService "vcissuer/internal/eligibility/service"
	eligibilityStore "vcissuer/internal/eligibility/store"
	eventsHandler "vcissuer/internal/events/handler"
	eventsService "vcissuer/internal/events/service"
	eventsStore "vcissuer/internal/events/store"
	"vcissuer/internal/idalias"
	"vcissuer/internal/issuance/certifier"
	issuanceHandler "vcissuer/internal/issuance/handler"
	issuanceMetrics "vcissuer/internal/issuance/metrics"
	issuanceService "vcissuer/internal/issuance/service"
	issuanceStore "vcissuer/internal/issuance/store"
	"vcissuer/internal/issuance/vctoken"
	"vcissuer/internal/issuance/workers/certification"
	"vcissuer/internal/issuance/workers/cleanup"
	"vcissuer/internal/platform/config"
	"vcissuer/internal/platform/database"
	"vcissuer/internal/platform/health"
	"vcissuer/internal/platform/kafka/producer"
	"vcissuer/internal/platform/metrics"
	"vcissuer/internal/platform/redis"
	httptransport "vcissuer/internal/transport/http"
	"vcissuer/migrations"
	"vcissuer/pkg/platform/audit"
	auditKafka "vcissuer/pkg/platform/audit/kafka"
	auditMetrics "vcissuer/pkg/platform/audit/metrics"
	"vcissuer/pkg/platform/audit/publisher"
	auditPostgres "vcissuer/pkg/platform/audit/store/postgres"
	"vcissuer/pkg/platform/circuit"
	"vcissuer/pkg/platform/middleware/caller"
	"vcissuer/pkg/platform/middleware/request"
	"vcissuer/pkg/platform/tracer"
)

var errIssuerNotConfigured = errors.New("issuer not configured")

const (
	auditBufferSize   = 1024
	poolStatsInterval = 15 * time.Second
)

type worker struct {
	name string
	run  func(ctx context.Context) error
}

type application struct {
	router  http.Handler
	workers []worker
	closers []func()
}

// close releases resources in reverse order of acquisition.
func (a *application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// infra holds the optional backing services. Nil members select the
// in-memory fallback.
type infra struct {
	pool     *database.Pool
	redis    *redis.Client
	producer *producer.Producer
}

func build(ctx context.Context, cfg config.Config, log *slog.Logger) (*application, error) {
	app := &application{}
	reg := metrics.NewRegistry()
	holder := configService.NewHolder(nil)
	healthHandler := health.New(cfg.Server.Environment, health.WithConfigVersion(func() uint64 {
		if current := holder.Current(); current != nil {
			return current.Version
		}
		return 0
	}))
	healthHandler.RegisterCheck("issuer_configuration", func(context.Context) error {
		if current := holder.Current(); current == nil || len(current.AuthorityIDs) == 0 {
			return errIssuerNotConfigured
		}
		return nil
	})

	inf, err := connect(ctx, cfg, log, reg, app, healthHandler)
	if err != nil {
		app.close()
		return nil, err
	}

	auditor := buildAuditor(cfg, log, reg, inf, app)

	// Issuer configuration
	var cfgStore configService.Store = configStore.NewInMemory()
	if inf.pool != nil {
		cfgStore = configStore.NewPostgres(inf.pool.DB())
	}
	seed, err := issuerSeed(cfg.Issuer)
	if err != nil {
		app.close()
		return nil, err
	}
	configSvc := configService.New(cfgStore, holder, log, configService.WithAuditor(auditor))
	if err := configSvc.Bootstrap(ctx, seed); err != nil {
		app.close()
		return nil, fmt.Errorf("bootstrap issuer configuration: %w", err)
	}

	// Events and eligibility
	var evStore eventsService.Store = eventsStore.NewInMemory()
	var elStore eligibilityService.Store = eligibilityStore.NewInMemory()
	if inf.pool != nil {
		evStore = eventsStore.NewPostgres(inf.pool.DB())
		elStore = eligibilityStore.NewPostgres(inf.pool.DB())
	}
	eventsSvc := eventsService.New(evStore, holder, log, eventsService.WithAuditor(auditor))
	eligibilitySvc := eligibilityService.New(elStore, eventsSvc, log,
		eligibilityService.WithAuditor(auditor),
		eligibilityService.WithMetrics(eligibilityMetrics.New(reg, elStore, log)),
	)

	// Issuance
	key, err := signingKey(cfg.Issuer.SigningKey, log)
	if err != nil {
		app.close()
		return nil, err
	}
	cert := certifier.New(key)
	builder := vctoken.NewBuilder(cfg.Issuer.IssuerID, cert.PublicKey(), cfg.Issuance.CredentialValidity)
	tickets := ticketStore(inf)
	issMetrics := issuanceMetrics.New(reg)
	catalog := credentialService.New()
	issuanceSvc := issuanceService.New(issuanceService.Deps{
		Config:      holder,
		Verifier:    idalias.NewVerifier(log),
		Eligibility: eligibilitySvc,
		Catalog:     catalog,
		Certifier:   cert,
		Tickets:     tickets,
		Builder:     builder,
	}, log,
		issuanceService.WithAuditor(auditor),
		issuanceService.WithMetrics(issMetrics),
		issuanceService.WithTracer(tracer.NewOTel()),
		issuanceService.WithTicketTTL(cfg.Issuance.TicketTTL),
	)

	certWorker, err := certification.New(cert,
		certification.WithInterval(cfg.Issuance.CertificationInterval),
		certification.WithLogger(log),
		certification.WithMetrics(issMetrics),
		certification.WithTracer(tracer.NewOTel()),
	)
	if err != nil {
		app.close()
		return nil, err
	}
	cleanupWorker, err := cleanup.New(tickets,
		cleanup.WithCleanupInterval(cfg.Issuance.CleanupInterval),
		cleanup.WithCleanupLogger(log),
		cleanup.WithCleanupMetrics(issMetrics),
		cleanup.WithSignaturePruner(cert, cfg.Issuance.TicketTTL),
	)
	if err != nil {
		app.close()
		return nil, err
	}
	app.workers = append(app.workers,
		worker{name: "certification", run: certWorker.Start},
		worker{name: "ticket_cleanup", run: cleanupWorker.Start},
	)

	app.router = httptransport.NewRouter(httptransport.RouterConfig{
		Logger:    log,
		Callers:   caller.NewTokens(cfg.Auth.CallerTokenKey, cfg.Auth.CallerTokenAudience, cfg.Auth.CallerTokenTTL),
		Metrics:   request.NewMetrics(reg),
		Gatherer:  reg,
		BodyLimit: cfg.Server.BodyLimitBytes,
		Health:    healthHandler,
		Handlers: []httptransport.Routes{
			configHandler.New(configSvc, log),
			credentialHandler.New(catalog, log),
			eventsHandler.New(eventsSvc, log),
			eligibilityHandler.New(eligibilitySvc, log),
			issuanceHandler.New(issuanceSvc, log),
		},
	})
	return app, nil
}

// connect opens Postgres, Redis and Kafka when configured and registers
// their health checks.
func connect(ctx context.Context, cfg config.Config, log *slog.Logger, reg prometheus.Registerer, app *application, h *health.Handler) (*infra, error) {
	inf := &infra{}

	pool, err := database.New(ctx, databaseConfig(cfg), database.WithStatsRegisterer(reg))
	if err != nil {
		return nil, err
	}
	if pool != nil {
		inf.pool = pool
		app.closers = append(app.closers, func() { _ = pool.Close() })
		h.RegisterCheck("postgres", pool.Health)
		log.Info("connected to postgres")
		if cfg.Database.AutoMigrate {
			applied, err := database.Migrate(ctx, pool.DB(), migrations.FS)
			if err != nil {
				return nil, err
			}
			log.Info("migrations applied", "count", len(applied))
		}
	} else {
		log.Info("database not configured, using in-memory stores")
	}

	client, err := redis.New(ctx, redis.Config{
		URL:          cfg.Redis.URL,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	}, redis.NewPoolMetrics(reg))
	if err != nil {
		return nil, err
	}
	if client != nil {
		inf.redis = client
		app.closers = append(app.closers, func() { _ = client.Close() })
		app.workers = append(app.workers, worker{name: "redis_pool_stats", run: func(ctx context.Context) error {
			return client.RunPoolStats(ctx, poolStatsInterval)
		}})
		h.RegisterCheck("redis", client.Health)
		log.Info("connected to redis")
	}

	if cfg.Kafka.Brokers != "" {
		p, err := producer.New(producer.Config{
			Brokers:         cfg.Kafka.Brokers,
			Acks:            cfg.Kafka.Acks,
			Retries:         cfg.Kafka.Retries,
			DeliveryTimeout: cfg.Kafka.DeliveryTimeout,
			Compression:     cfg.Kafka.Compression,
		}, log)
		if err != nil {
			return nil, err
		}
		if err := p.EnsureTopic(ctx, producer.Topic{Name: cfg.Kafka.AuditTopic, Retention: cfg.Kafka.AuditRetention}); err != nil {
			log.Warn("failed to ensure audit topic", "topic", cfg.Kafka.AuditTopic, "error", err)
		}
		inf.producer = p
		app.closers = append(app.closers, func() { _ = p.Close() })
		h.RegisterCheck("kafka", p.Healthy)
		log.Info("connected to kafka", "audit_topic", cfg.Kafka.AuditTopic)
	}
	return inf, nil
}

// buildAuditor persists audit events to Postgres or memory, mirrored to Kafka
// when configured, through an async publisher.
func buildAuditor(cfg config.Config, log *slog.Logger, reg prometheus.Registerer, inf *infra, app *application) *audit.Logger {
	var primary audit.Store = audit.NewInMemoryStore()
	if inf.pool != nil {
		primary = auditPostgres.New(inf.pool.DB())
	}
	sink := primary
	if inf.producer != nil {
		stream := auditKafka.NewSink(inf.producer, cfg.Kafka.AuditTopic,
			auditKafka.WithBreaker(circuit.New("audit-kafka")),
			auditKafka.WithSinkLogger(log),
		)
		sink = audit.Tee{primary, stream}
	}
	pub := publisher.NewPublisher(sink,
		publisher.WithAsyncBuffer(auditBufferSize),
		publisher.WithPublisherLogger(log),
		publisher.WithMetrics(auditMetrics.New(reg)),
	)
	app.closers = append(app.closers, pub.Close)
	return audit.NewLogger(log, pub)
}

func ticketStore(inf *infra) issuanceService.Tickets {
	switch {
	case inf.redis != nil:
		return issuanceStore.NewRedis(inf.redis.Client)
	case inf.pool != nil:
		return issuanceStore.NewPostgres(inf.pool.DB())
	default:
		return issuanceStore.NewInMemory()
	}
}

func databaseConfig(cfg config.Config) database.Config {
	return database.Config{
		URL:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
}

// signingKey decodes the issuer seed. Without one an ephemeral key is
// generated and credentials will not verify across restarts.
func signingKey(seed string, log *slog.Logger) (ed25519.PrivateKey, error) {
	if seed != "" {
		key, err := certifier.KeyFromSeed(seed)
		if err != nil {
			return nil, fmt.Errorf("issuer.signing_key: %w", err)
		}
		return key, nil
	}
	log.Warn("issuer.signing_key not set, generating an ephemeral signing key")
	return certifier.GenerateKey()
}

// issuerSeed builds the initial issuer configuration from static config.
func issuerSeed(cfg config.Issuer) (*configmodels.IssuerConfiguration, error) {
	seed := &configmodels.IssuerConfiguration{
		DerivationOrigin:  cfg.DerivationOrigin,
		FrontendHostnames: cfg.FrontendHostnames,
		AuthorityIDs:      cfg.AuthorityIDs,
		Controllers:       cfg.Controllers,
	}
	if cfg.RootKeysJWKS != "" {
		var keys jose.JSONWebKeySet
		if err := json.Unmarshal([]byte(cfg.RootKeysJWKS), &keys); err != nil {
			return nil, fmt.Errorf("issuer.root_keys_jwks: %w", err)
		}
		seed.RootKeys = keys
	}
	return seed, nil
}
