package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"drones/cmd"
	"drones/internal/adapters/out/postgres/runrepo"
	"drones/internal/core/application/usecases/commands"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	configs := getConfigs(logger)

	var gormDB *gorm.DB
	if configs.UsesPostgres() {
		gormDB = mustOpenDB(configs)
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		log.Fatalf("Error building application: %v", err)
	}

	forwarder, err := app.CreateForwarder()
	if err != nil {
		log.Fatalf("Error connecting to Redis: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runOnce(ctx, app, configs, logger)

	if configs.HTTPPort == "" {
		if configs.RenderTerminal {
			if _, err := app.CreateTerminal(os.Stdout).Draw(); err != nil {
				logger.ErrorContext(ctx, "Failed to draw final frame", "error", err)
			}
		}
		if forwarder != nil {
			if err := forwarder.Forward(ctx, app.Snapshots().Latest()); err != nil {
				logger.ErrorContext(ctx, "Failed to forward final frame", "error", err)
			}
		}
		return
	}

	jobManager := app.CreateJobManager(os.Stdout)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	if forwarder != nil {
		g.Go(func() error {
			forwarder.Run(gctx, app.Snapshots())
			return nil
		})
	}
	g.Go(func() error {
		return startWebServer(gctx, app, configs.HTTPPort)
	})

	err = g.Wait()
	jobManager.StopAll()
	if err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

func getConfigs(logger *slog.Logger) cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		logger.Info("No .env file loaded, using the environment", "error", err)
	}

	config, err := cmd.NewConfig(os.Getenv, time.Now)
	if err != nil {
		log.Fatalf("Error reading configuration: %v", err)
	}
	return config
}

func mustOpenDB(configs cmd.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(configs.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	if err := db.AutoMigrate(&runrepo.RunDTO{}, &runrepo.DroneCostDTO{}); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}
	return db
}

// runOnce drains the scenario with the configured solver and prints the cost.
func runOnce(ctx context.Context, app cmd.CompositionRoot, configs cmd.Config, logger *slog.Logger) {
	command, err := commands.NewRunSimulationCommand(configs.Solver, configs.Seed)
	if err != nil {
		log.Fatalf("Error creating command: %v", err)
	}

	handler := app.CreateRunSimulationCommandHandler()
	r, err := handler.Handle(ctx, command)
	if r != nil {
		app.Recorder().RecordRun(r)
	}
	if err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}

	logger.InfoContext(ctx, "Simulation finished",
		"run", r.ID().String(),
		"solver", r.Solver(),
		"seed", r.Seed(),
		"orders", r.OrderCount(),
		"exceededTimeLimit", r.ExceededTimeLimit(),
	)
	fmt.Printf("cost %d\n", r.Makespan())
}

// startWebServer serves until ctx is done, then shuts down gracefully.
func startWebServer(ctx context.Context, app cmd.CompositionRoot, port string) error {
	e := echo.New()
	e.HideBanner = true
	app.CreateServer().Register(e)

	served := make(chan error, 1)
	go func() {
		served <- e.Start(fmt.Sprintf("0.0.0.0:%s", port))
	}()

	select {
	case err := <-served:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
