// main wires high-level dependencies: stores, the access coordinator, the
// continuous monitor, and the HTTP server lifecycle. Business logic lives
// in the internal services packages.
package main

import (
	"context"
	"crypto/ed25519"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"zonegate/internal/access"
	"zonegate/internal/clearance"
	"zonegate/internal/collaborators"
	"zonegate/internal/lockout"
	"zonegate/internal/monitor"
	"zonegate/internal/platform/config"
	"zonegate/internal/platform/httpserver"
	"zonegate/internal/platform/logger"
	"zonegate/internal/platform/metrics"
	platformredis "zonegate/internal/platform/redis"
	"zonegate/internal/session"
	"zonegate/internal/token"
	httptransport "zonegate/internal/transport/http"
	"zonegate/internal/zone"
	"zonegate/pkg/platform/audit"
	auditworker "zonegate/pkg/platform/audit/worker"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	// Audit pipeline: emission enqueues into a bounded ring buffer and a
	// worker drains it into the store, so the request path never blocks.
	auditStore := audit.NewInMemoryStore()
	publisher := audit.NewBufferedPublisher(audit.NewRingBuffer(10000))
	worker := auditworker.NewWorker(auditStore, publisher)

	sealer, err := buildSealer(cfg)
	if err != nil {
		return fmt.Errorf("build sealer: %w", err)
	}

	var (
		sessionStore session.Store
		lockoutStore lockout.Store
	)
	redisClient, err := platformredis.New(cfg.Redis())
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		sessionStore = session.NewRedisStore(redisClient.Client)
		lockoutStore = lockout.NewRedisStore(redisClient.Client)
		log.Info("using redis-backed session and lockout stores")
	} else {
		sessionStore = session.NewInMemoryStore()
		lockoutStore = lockout.NewInMemoryStore()
	}

	clearances, db, err := buildClearanceStore(cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	tracker, err := lockout.New(lockoutStore, lockout.WithLogger(log))
	if err != nil {
		return err
	}
	registry, err := session.NewRegistry(sessionStore, sealer,
		session.WithLogger(log),
		session.WithAuditPublisher(publisher),
		session.WithMetrics(m),
		session.WithSealTimeout(cfg.CollaboratorTimeout),
	)
	if err != nil {
		return err
	}

	scorer := collaborators.NewStaticTrustScorer(0.99)
	mon := monitor.New(scorer, registry,
		monitor.WithLogger(log),
		monitor.WithInterval(cfg.MonitorInterval),
		monitor.WithCallTimeout(cfg.CollaboratorTimeout),
	)
	registry.BindCanceller(mon)

	coordinator, err := access.New(
		zone.DefaultPolicyTable(),
		clearances,
		tracker,
		registry,
		collaborators.NewSimulatedCredentialVerifier(),
		collaborators.NewSimulatedBiometricVerifier(),
		scorer,
		access.WithLogger(log),
		access.WithMetrics(m),
		access.WithAuditPublisher(publisher),
		access.WithMonitor(mon),
		access.WithCallTimeout(cfg.CollaboratorTimeout),
	)
	if err != nil {
		return err
	}

	health := map[string]httptransport.HealthChecker{
		"sealer": sealer.Health,
	}
	if redisClient != nil {
		health["redis"] = redisClient.Health
	}
	if db != nil {
		health["postgres"] = db.PingContext
	}

	handler := httptransport.NewHandler(coordinator, log, health).
		WithAuditLog(audit.NewPublisher(auditStore))
	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(handler))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting zonegate", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		err := worker.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		// Monitoring tasks must be joined before exit; none may outlive
		// the process.
		if err := mon.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("monitor shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func buildSealer(cfg config.Server) (*token.EnvelopeSealer, error) {
	if cfg.SealerEncKey == "" || cfg.SealerSignSeed == "" {
		return token.NewEphemeralSealer(cfg.Issuer)
	}
	encKey, err := base64.StdEncoding.DecodeString(cfg.SealerEncKey)
	if err != nil {
		return nil, fmt.Errorf("decode encryption key: %w", err)
	}
	seed, err := base64.StdEncoding.DecodeString(cfg.SealerSignSeed)
	if err != nil {
		return nil, fmt.Errorf("decode signing seed: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("signing seed must be %d bytes", ed25519.SeedSize)
	}
	return token.NewEnvelopeSealer(encKey, ed25519.NewKeyFromSeed(seed), cfg.Issuer, time.Hour)
}

func buildClearanceStore(cfg config.Server, log *slog.Logger) (access.ClearanceReader, *sql.DB, error) {
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		log.Info("using postgres clearance store")
		return clearance.NewPostgresStore(db), db, nil
	}

	store := clearance.NewInMemoryStore()
	if cfg.SeedDev {
		ids := clearance.SeedDevClearances(store)
		for i, userID := range ids {
			log.Info("seeded dev clearance", "clearance_level", i, "user_id", userID.String())
		}
	}
	return store, nil, nil
}
