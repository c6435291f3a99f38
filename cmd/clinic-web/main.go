package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	_ "time/tzdata"

	"github.com/clinicdesk/clinic-web/internal/api"
	"github.com/clinicdesk/clinic-web/internal/api/handler"
	"github.com/clinicdesk/clinic-web/internal/api/metrics"
	"github.com/clinicdesk/clinic-web/internal/api/middleware"
	"github.com/clinicdesk/clinic-web/internal/core/ports"
	"github.com/clinicdesk/clinic-web/internal/core/service"
	"github.com/clinicdesk/clinic-web/internal/infrastructure/config"
	mongodb "github.com/clinicdesk/clinic-web/internal/infrastructure/db/mongo"
	redisdb "github.com/clinicdesk/clinic-web/internal/infrastructure/db/redis"
	"github.com/clinicdesk/clinic-web/internal/infrastructure/gateway"
	"github.com/clinicdesk/clinic-web/internal/web"
	"github.com/clinicdesk/clinic-web/pkg/logger"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-web",
		Short: "Clinic management web front-end",
	}
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the clinic web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func runServer(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Development(),
		Service: "clinic-web",
		Env:     cfg.Env,
	})

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	checks := map[string]handler.Check{
		"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}

	var audit ports.AuditRepository
	if cfg.Mongo.Enabled {
		mc, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = mc.Disconnect(dctx)
		}()

		repo := mongodb.NewAuditRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return err
		}
		audit = repo
		checks["mongodb"] = func(ctx context.Context) error { return mc.Ping(ctx, nil) }
	}

	gw := gateway.New(gateway.Config{
		URL:            cfg.Gateway.URL,
		AnonKey:        cfg.Gateway.AnonKey,
		ServiceRoleKey: cfg.Gateway.ServiceRoleKey,
		JWTSecret:      cfg.Gateway.JWTSecret,
		Timeout:        cfg.Gateway.Timeout,
		Observe:        metrics.ObserveGateway,
	}, log)
	authGW := gateway.NewAuthClient(gw)
	checks["gateway"] = authGW.Ping

	roles := gateway.NewRoleRepository(gw)
	patients := gateway.NewPatientRepository(gw)
	visits := gateway.NewVisitRepository(gw)
	appointments := gateway.NewAppointmentRepository(gw)

	bus := service.NewAuthEventBus()
	sessions := redisdb.NewSessionRepository(rdb, cfg.Redis.SessionTTL)
	store := service.NewSessionStore(authGW, roles, sessions, bus, log).Start()
	defer store.Close()

	renderer, err := web.NewRenderer(loc)
	if err != nil {
		return err
	}

	e := api.NewRouter(api.Deps{
		Log:          log,
		Renderer:     renderer,
		Sessions:     store,
		Auth:         service.NewAuthService(authGW, roles, bus, audit, log),
		Patients:     service.NewPatientService(patients, visits, appointments, audit, log),
		Visits:       service.NewVisitService(visits),
		Appointments: service.NewAppointmentService(appointments),
		Dashboard:    service.NewDashboardService(patients, visits, appointments, loc, nil),
		Checks:       checks,
		Cookies:      middleware.SessionOptions{Secure: cfg.CookieSecure, MaxAge: cfg.Redis.SessionTTL},
	})

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("timezone", loc.String()).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down server")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

