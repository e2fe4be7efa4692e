package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"

	"github.com/andrescamacho/transferproc/internal/adapters/dispatch"
	"github.com/andrescamacho/transferproc/internal/adapters/metrics"
	"github.com/andrescamacho/transferproc/internal/adapters/monitoring"
	"github.com/andrescamacho/transferproc/internal/adapters/observable"
	"github.com/andrescamacho/transferproc/internal/adapters/persistence"
	"github.com/andrescamacho/transferproc/internal/adapters/registries"
	"github.com/andrescamacho/transferproc/internal/adapters/serde"
	"github.com/andrescamacho/transferproc/internal/adapters/waitstrategy"
	"github.com/andrescamacho/transferproc/internal/application/command"
	transferapp "github.com/andrescamacho/transferproc/internal/application/transfer"
	"github.com/andrescamacho/transferproc/internal/domain/shared"
	"github.com/andrescamacho/transferproc/internal/domain/transfer"
	"github.com/andrescamacho/transferproc/internal/infrastructure/config"
	"github.com/andrescamacho/transferproc/internal/infrastructure/database"
	"github.com/andrescamacho/transferproc/internal/infrastructure/pidfile"
)

func main() {
	force := flag.Bool("force", false, "kill any existing daemon instance before starting")
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	cfg := config.MustLoadConfig(*configPath)

	monitor, err := monitoring.NewZapMonitor(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, "transferd: failed to build logger:", err)
		os.Exit(1)
	}
	defer monitor.Sync()

	pf := pidfile.New(cfg.Scheduler.PIDFile)
	if *force {
		_ = pf.Release()
	}
	if err := pf.Acquire(); err != nil {
		monitor.Log("error", "failed to acquire pidfile", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	defer pf.Release()

	if err := run(cfg, monitor); err != nil {
		monitor.Log("error", "transferd exited with error", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}

func run(cfg *config.Config, monitor *monitoring.ZapMonitor) error {
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	defer database.Close(db)

	store := persistence.NewTransferProcessRepository(db)
	clock := shared.NewRealClock()

	manifestGenerator := registries.NewManifestGeneratorRegistry()
	provisionManager := registries.NewProvisionManagerRegistry()
	dataFlowManager := registries.NewDataFlowManagerRegistry()
	statusCheckerRegistry := registries.NewStatusCheckerRegistry()

	metricsCollector := metrics.NewSchedulerMetricsCollector()
	obs := observable.NewFanout(monitor)
	obs.RegisterListener(metricsCollector.Listener())

	queue := command.NewQueue(cfg.Scheduler.BatchSize)
	runner := command.NewRunner()
	if err := transferapp.RegisterCommands(runner, store, clock); err != nil {
		return fmt.Errorf("registering commands: %w", err)
	}

	initiator := &transferapp.Initiator{Store: store, Clock: clock}

	grpcServer := grpc.NewServer()
	dispatchServer := dispatch.NewGRPCServer(func(ctx context.Context, processID, transferID string, managedResources, isFinite bool) bool {
		_, err := initiator.InitiateConsumerRequest(ctx, transfer.DataRequest{
			ID:               transferID,
			ManagedResources: managedResources,
			TransferType:     transfer.TransferType{IsFinite: isFinite},
		})
		return err == nil
	})
	grpcServer.RegisterService(&dispatch.ServiceDesc, dispatchServer)

	listener, err := net.Listen("tcp", cfg.Scheduler.Address)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Scheduler.Address, err)
	}
	go func() {
		if err := grpcServer.Serve(listener); err != nil {
			monitor.Log("error", "grpc server stopped", map[string]interface{}{"error": err.Error()})
		}
	}()
	defer grpcServer.GracefulStop()

	remoteDispatcher := dispatch.NewLocalDispatcher(func(ctx context.Context, message transfer.DataRequest) transfer.DispatchResult {
		_, err := initiator.InitiateConsumerRequest(ctx, message)
		return transfer.DispatchResult{Acknowledged: err == nil, Err: err}
	})

	wait := waitstrategy.NewExponentialBackoff(cfg.Scheduler.PollInterval, 30*time.Second)

	manager, err := transferapp.NewBuilder().
		WithStore(store).
		WithProvisionManager(provisionManager).
		WithDataFlowManager(dataFlowManager).
		WithDispatcherRegistry(remoteDispatcher).
		WithManifestGenerator(manifestGenerator).
		WithStatusCheckerRegistry(statusCheckerRegistry).
		WithObservable(obs).
		WithCommandQueue(queue).
		WithCommandRunner(runner).
		WithWaitStrategy(wait).
		WithTypeManager(serde.NewJSONTypeManager()).
		WithMonitor(monitor).
		WithMetrics(metricsCollector).
		WithClock(clock).
		WithBatchSize(cfg.Scheduler.BatchSize).
		Build()
	if err != nil {
		return fmt.Errorf("building manager: %w", err)
	}

	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsCollector.MustRegister(prometheus.DefaultRegisterer)
		metricsServer = metrics.NewServer(cfg.Metrics)
		go func() {
			if err := metricsServer.Start(); err != nil {
				monitor.Log("error", "metrics server stopped", map[string]interface{}{"error": err.Error()})
			}
		}()
	}

	recovery := transferapp.NewRecoveryManager(store, monitor, clock, cfg.Scheduler.Recovery.Timeout, cfg.Scheduler.Recovery.MaxAttempts)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager.Start(ctx)
	stopRecovery := startRecoveryLoop(ctx, recovery, cfg)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	monitor.Log("info", "shutting down", nil)
	close(stopRecovery)
	manager.Stop()

	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Scheduler.ShutdownTimeout)
		defer shutdownCancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}

	return nil
}

func startRecoveryLoop(ctx context.Context, recovery *transferapp.RecoveryManager, cfg *config.Config) chan struct{} {
	stop := make(chan struct{})
	if !cfg.Scheduler.Recovery.Enabled {
		return stop
	}
	go func() {
		ticker := time.NewTicker(cfg.Scheduler.Recovery.Timeout / 2)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				recovery.Sweep(ctx, cfg.Scheduler.BatchSize)
			}
		}
	}()
	return stop
}
