package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"supportdesk.app/engine/common/id"
	"supportdesk.app/engine/common/logger"
	"supportdesk.app/engine/common/otel"
	"supportdesk.app/engine/core/config"
	"supportdesk.app/engine/core/db"
	"supportdesk.app/engine/internal/events"
	"supportdesk.app/engine/internal/service"
	"supportdesk.app/engine/internal/store"
	"supportdesk.app/engine/internal/worker"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeWorker)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	fmt.Printf("%s\n", banner)

	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	slog.InfoContext(ctx, "support worker starting",
		"env", cfg.Env,
		"breach_interval", cfg.Sweeps.BreachInterval,
		"idle_return_minutes", cfg.Sweeps.IdleReturnMinutes)

	// Use a different node ID than the server
	if err := id.Init(cfg.NodeID); err != nil {
		slog.ErrorContext(ctx, "failed to initialize id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	publisher := events.NewNoopPublisher()
	if cfg.Events.Enabled() {
		redisOpts, err := redis.ParseURL(cfg.Events.RedisURL)
		if err != nil {
			slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
			os.Exit(1)
		}

		redisClient := redis.NewClient(redisOpts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
			os.Exit(1)
		}
		slog.InfoContext(ctx, "redis connected", "stream_prefix", cfg.Events.StreamPrefix)

		publisher = events.NewRedisPublisher(redisClient, events.PublisherConfig{
			StreamPrefix: cfg.Events.StreamPrefix,
			MaxLen:       cfg.Events.MaxLen,
		}, slog.Default())
	}
	defer publisher.Close()

	stores := store.NewStores(database.Queries())
	services := service.NewServices(stores, service.NewTxRunner(database), publisher, cfg)

	jobs := []worker.Job{
		worker.BreachSweepJob(services.SLA(), cfg.Sweeps.BreachInterval, cfg.Sweeps.BreachBatchSize),
	}
	if cfg.Sweeps.IdleReturnEnabled() {
		idleFor := time.Duration(cfg.Sweeps.IdleReturnMinutes) * time.Minute
		jobs = append(jobs, worker.IdleReturnJob(services.Queue(), idleFor, cfg.Sweeps.IdleReturnInterval, cfg.Sweeps.IdleReturnBatch))
	} else {
		slog.InfoContext(ctx, "idle auto-return disabled")
	}

	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	sweeper := worker.NewSweeper(jobs...)
	done := make(chan struct{})
	go func() {
		sweeper.Run(runCtx)
		close(done)
	}()

	slog.InfoContext(ctx, "worker initialized and running", "jobs", len(jobs))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down worker...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// Let in-flight sweeps commit; cancel them if they outlive the timeout.
	go sweeper.Stop()

	select {
	case <-shutdownCtx.Done():
		slog.WarnContext(ctx, "shutdown timeout exceeded")
		stop()
	case <-done:
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(ctx, "worker shutdown complete")
}

const banner = `
███████╗██╗    ██╗███████╗███████╗██████╗ ███████╗██████╗
██╔════╝██║    ██║██╔════╝██╔════╝██╔══██╗██╔════╝██╔══██╗
███████╗██║ █╗ ██║█████╗  █████╗  ██████╔╝█████╗  ██████╔╝
╚════██║██║███╗██║██╔══╝  ██╔══╝  ██╔═══╝ ██╔══╝  ██╔══██╗
███████║╚███╔███╔╝███████╗███████╗██║     ███████╗██║  ██║
╚══════╝ ╚══╝╚══╝ ╚══════╝╚══════╝╚═╝     ╚══════╝╚═╝  ╚═╝
`
