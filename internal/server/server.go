package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"

	"academy-match-service/internal/board"
	"academy-match-service/internal/changefeed"
	"academy-match-service/internal/commands"
	"academy-match-service/internal/config"
	"academy-match-service/internal/domain"
	"academy-match-service/internal/httpapi"
	"academy-match-service/internal/logging"
	"academy-match-service/internal/metrics"
	"academy-match-service/internal/poller"
	"academy-match-service/internal/providers"
	"academy-match-service/internal/providers/academyhub"
	"academy-match-service/internal/snapshots"
	"academy-match-service/internal/store"
	"academy-match-service/internal/timeutil"
)

var metricsSetup = metrics.Setup

// timeNowUTC remains a var for tests to fix the snapshot date.
var timeNowUTC = func() time.Time { return time.Now().UTC() }

// Server owns the sync loop, the lifecycle store, and the HTTP surfaces.
type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	store         *store.MemoryStore
	svc           *domain.Service
	detector      *changefeed.Detector
	httpServer    httpServer
	metricsServer httpServer
	subscription  Poller
	metricsStop   func(context.Context) error
}

// New constructs a server with default provider and subscription wiring.
func New(cfg config.Config, logger *slog.Logger) *Server {
	return newServerWithProvider(cfg, logger, nil)
}

func newServerWithProvider(cfg config.Config, logger *slog.Logger, provider providers.MatchProvider) *Server {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger)

	if provider == nil {
		provider = academyhub.NewClient(academyhub.Config{
			BaseURL:  cfg.Hub.BaseURL,
			APIToken: cfg.Hub.APIToken,
			Logger:   logger,
		})
	}
	provider = providers.NewInstrumentedProvider(provider, academyhub.ProviderName, logger, recorder)
	provider = providers.NewRetryingProvider(provider, logger, 0, 0)

	memoryStore := store.NewMemoryStoreWithTTL(cfg.TombstoneTTL)
	svc := domain.NewService(memoryStore)
	detector := changefeed.New(logger, recorder, changefeed.WithHold(cfg.ChangeHold))

	var writer *snapshots.Writer
	if cfg.Snapshots.Enabled {
		writer = snapshots.NewWriter(cfg.Snapshots.Dir, cfg.Snapshots.RetentionDays)
		warmBoot(svc, cfg.Snapshots.Dir, logger)
	}

	sub := poller.New(provider, logger, recorder, poller.Config{
		Interval: cfg.PollInterval,
		Enabled:  cfg.PollEnabled,
		OnUpdate: func(requests []domain.MatchRequest) {
			svc.Reconcile(requests)
			detector.Observe(requests)
			if writer != nil {
				date := timeutil.FormatDate(timeNowUTC())
				snap := snapshots.NewBoardSnapshot(date, requests)
				if err := writer.WriteBoardSnapshot(date, snap); err != nil {
					logging.Error(logger, "board snapshot write failed", err)
				}
			}
		},
	})

	cmds := commands.NewHandler(svc, provider, logger, recorder)
	controller := board.NewController(svc, provider, logger, recorder)
	httpSrv := buildHTTPServer(cfg, svc, cmds, controller, detector, sub, logger, recorder)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		store:         memoryStore,
		svc:           svc,
		detector:      detector,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		subscription:  sub,
		metricsStop:   metricsShutdown,
	}
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, svc *domain.Service, httpSrv httpServer, sub Poller) *Server {
	return &Server{
		cfg:          cfg,
		logger:       logger,
		svc:          svc,
		httpServer:   httpSrv,
		subscription: sub,
	}
}

// warmBoot seeds the store from the latest on-disk snapshot so the first
// requests are served with stale-but-available data instead of an empty board.
func warmBoot(svc *domain.Service, dir string, logger *slog.Logger) {
	snap, err := snapshots.NewFSStore(dir).LoadLatest()
	if err != nil {
		if err != snapshots.ErrNoSnapshot {
			logging.Warn(logger, "board snapshot load failed", "error", err)
		}
		return
	}
	svc.Reconcile(snap.Requests)
	logging.Info(logger, "board warmed from snapshot",
		"date", snap.Date, logging.FieldCount, len(snap.Requests))
}

func buildHTTPServer(
	cfg config.Config,
	svc *domain.Service,
	cmds *commands.Handler,
	controller *board.Controller,
	detector *changefeed.Detector,
	sub Poller,
	logger *slog.Logger,
	recorder *metrics.Recorder,
) httpServer {
	var statusFn func() poller.Status
	var viewFn func() poller.State
	var refreshFn func()
	if sub != nil {
		statusFn = sub.Status
		viewFn = sub.View
		refreshFn = sub.Refresh
	}

	handler := httpapi.NewHandler(svc, cmds, controller, detector, statusFn, viewFn, refreshFn, domain.Actor(cfg.AcademyID), logger)
	router := httpapi.NewRouter(handler)

	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	wrapped := httpapi.LoggingMiddleware(logger, recorder, router)
	wrapped = cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "X-Academy-ID", "X-Request-ID"},
	}).Handler(wrapped)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      wrapped,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the subscription and HTTP server, then waits for context
// cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	s.subscription.Start(ctx)

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", "error", err)
		}
	}

	if err := s.subscription.Stop(shutdownCtx); err != nil {
		logging.Error(s.logger, "failed to stop subscription", err)
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	logging.Info(s.logger, "shutdown complete")
}

func buildMetrics(cfg config.Config, logger *slog.Logger) (*metrics.Recorder, httpServer, func(context.Context) error) {
	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "error", err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:    ":" + recCfg.Port,
				Handler: handler,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		logging.Info(logger, "starting "+name+" server", slog.String("addr", srv.Addr()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Warn(logger, name+" server failed", "error", err)
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
