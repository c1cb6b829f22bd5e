package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/application/usecase"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/service"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/infrastructure/config"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/infrastructure/messaging"
	pgrepo "github.com/BuildZone-Tech/gerenciador-de-dividas/internal/infrastructure/persistence/postgres"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/infrastructure/telemetry"
	grpcpresentation "github.com/BuildZone-Tech/gerenciador-de-dividas/internal/presentation/grpc"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/presentation/rest"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/kafka"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/observability"
	pgutil "github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/postgres"
)

func newServeCmd() *cobra.Command {
	var migrateFirst, noRelay bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the gRPC API, the HTTP probes and the outbox relay",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, config.Load(), migrateFirst, !noRelay)
		},
	}
	cmd.Flags().BoolVar(&migrateFirst, "migrate", false, "Apply pending schema migrations before serving")
	cmd.Flags().BoolVar(&noRelay, "no-relay", false, "Do not publish outbox events to Kafka from this instance")
	return cmd
}

func serve(ctx context.Context, cfg config.Config, migrateFirst, relayEvents bool) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger := newLogger(cfg)
	logger.Info("starting receivablesd",
		"grpc_port", cfg.GRPCPort,
		"http_port", cfg.HTTPPort,
		"timezone", cfg.Timezone,
	)

	// --- Telemetry ----------------------------------------------------------
	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    cfg.OTLPInsecure,
	})
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: cfg.ServiceName})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	paymentMetrics, err := telemetry.NewPaymentMetrics(meterProvider)
	if err != nil {
		return err
	}

	// --- Database -----------------------------------------------------------
	dbCfg := databaseConfig(cfg)
	if migrateFirst {
		if err := migrateUp(dbCfg.DSN()); err != nil {
			return err
		}
		logger.Info("schema migrations applied")
	}

	dbCfg.Logger = logger.With("component", "postgres")
	pool, err := pgutil.NewPool(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to database", "host", cfg.DB.Host, "database", cfg.DB.Name)

	// --- Infrastructure adapters -------------------------------------------
	debtRepo := pgrepo.NewDebtRepo(pool)
	paymentRepo := pgrepo.NewPaymentRepo(pool)
	outboxRepo := pgrepo.NewOutboxRepo(pool)
	uow := pgutil.NewTransactor(pool)

	loc := cfg.Location()
	calendar := usecase.Calendar{Location: loc}
	receipts := service.NewReceiptBuilder(loc, cfg.Receipt.DefaultLogoURL)
	aggregator := service.NewReconciliationAggregator(loc)

	// --- Use cases ----------------------------------------------------------
	handler := grpcpresentation.NewReceivablesHandler(grpcpresentation.UseCases{
		CreateDebt:      usecase.NewCreateDebtUseCase(debtRepo, outboxRepo, uow, cfg.Currency(), calendar, logger),
		GetDebt:         usecase.NewGetDebtUseCase(debtRepo, calendar),
		ListDebts:       usecase.NewListDebtsUseCase(debtRepo, calendar),
		DeleteDebt:      usecase.NewDeleteDebtUseCase(debtRepo, outboxRepo, uow, logger),
		PreviewSchedule: usecase.NewPreviewScheduleUseCase(),
		RecordPayment:   usecase.NewRecordPaymentUseCase(debtRepo, paymentRepo, outboxRepo, uow, receipts, paymentMetrics, calendar, logger),
		ListPayments:    usecase.NewListPaymentsUseCase(debtRepo, paymentRepo),
		Summary:         usecase.NewGetPortfolioSummaryUseCase(debtRepo, paymentRepo, aggregator, calendar),
		ReconcileDebt:   usecase.NewReconcileDebtUseCase(debtRepo, paymentRepo, outboxRepo, uow, paymentMetrics, calendar, logger),
		GetReceipt:      usecase.NewGetReceiptUseCase(debtRepo, paymentRepo, receipts),
	}, logger)

	// --- gRPC server --------------------------------------------------------
	jwtSvc, err := jwtService(cfg.Auth)
	if err != nil {
		return err
	}
	grpcServer, err := grpcpresentation.NewServer(handler, jwtSvc, grpcpresentation.ServerConfig{
		TLSCertFile: cfg.TLS.CertFile,
		TLSKeyFile:  cfg.TLS.KeyFile,
		Reflection:  cfg.Reflection,
	}, logger)
	if err != nil {
		return err
	}

	errCh := make(chan error, 3)
	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server: %w", err)
		}
	}()

	// --- HTTP probes and metrics --------------------------------------------
	health := rest.NewHealthHandler(map[string]rest.ReadinessCheck{
		"postgres": func(ctx context.Context) error { return pgutil.HealthCheck(ctx, pool) },
	}, logger)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           rest.NewRouter(health, metricsHandler),
		ReadHeaderTimeout: cfg.ShutdownTimeout,
	}
	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	// --- Outbox relay -------------------------------------------------------
	stopRelay := func() {}
	var producer *kafka.Producer
	if relayEvents {
		producer, stopRelay, err = startRelay(ctx, cfg, outboxRepo, uow, logger.With("component", "outbox-relay"), errCh)
		if err != nil {
			return err
		}
	}

	// --- Graceful shutdown --------------------------------------------------
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	case runErr = <-errCh:
		logger.Error("component failed, shutting down", "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	// The relay must be idle before its producer is closed.
	stopRelay()
	grpcServer.GracefulStop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka producer close error", "error", err)
		}
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		logger.Error("meter provider shutdown error", "error", err)
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Error("tracer shutdown error", "error", err)
	}

	logger.Info("receivablesd stopped")
	return runErr
}

func startRelay(
	ctx context.Context,
	cfg config.Config,
	outboxRepo *pgrepo.OutboxRepo,
	uow *pgutil.Transactor,
	logger *slog.Logger,
	errCh chan<- error,
) (*kafka.Producer, func(), error) {
	producer, err := kafka.NewProducer(kafkaConfig(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("create kafka producer: %w", err)
	}
	publisher := messaging.NewKafkaEntryPublisher(producer, cfg.Kafka.Topic, logger)
	relay := messaging.NewOutboxRelay(messaging.RelayConfig{
		PollInterval: cfg.Outbox.PollInterval,
		BatchSize:    cfg.Outbox.BatchSize,
	}, outboxRepo, uow, publisher, logger)

	return producer, relay.Start(ctx, errCh), nil
}
