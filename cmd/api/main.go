package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bostrovsky/tastyreport02/internal/interfaces/scheduler"
	"github.com/bostrovsky/tastyreport02/internal/shared/config"
	"github.com/bostrovsky/tastyreport02/internal/shared/telemetry"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Init(context.Background(), cfg.Telemetry)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				log.Printf("Telemetry shutdown error: %v", err)
			}
		}()
	}

	deps, err := NewDependencies(cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	// Initialize scheduler (if enabled)
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		log.Println("Initializing scheduler...")
		sched, err = scheduler.New(scheduler.Config{
			ScheduleTimes: cfg.Scheduler.ScheduleTimes,
			WorkerCount:   cfg.Scheduler.WorkerCount,
			JobDelay:      cfg.Scheduler.JobDelay,
			QueueSize:     cfg.Scheduler.QueueSize,
			RunOnStartup:  cfg.Scheduler.RunOnStartup,
			JobProvider:   scheduler.NewAllAccountsJobProvider(deps.AccountRepo, deps.SyncService),
		})
		if err != nil {
			return err
		}
		sched.Start()
	} else {
		log.Println("Scheduler is disabled")
	}

	handler := SetupRoutes(cfg, deps)
	srv := StartServer(net.JoinHostPort(cfg.Server.Host, cfg.Server.Port), handler)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	GracefulShutdown(srv, sched, 30*time.Second)
	return nil
}
