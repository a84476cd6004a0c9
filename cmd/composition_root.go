package cmd

import (
	"io"
	"log/slog"

	httpin "drones/internal/adapters/in/http"
	"drones/internal/adapters/out/memory"
	"drones/internal/adapters/out/metrics"
	"drones/internal/adapters/out/postgres"
	"drones/internal/adapters/out/redis"
	"drones/internal/adapters/out/renderer"
	"drones/internal/adapters/out/scenario"
	"drones/internal/core/application/usecases/commands"
	"drones/internal/core/application/usecases/queries"
	"drones/internal/core/ports"
	"drones/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	configs    Config
	logger     *slog.Logger
	gormDB     *gorm.DB
	uowFactory ports.UnitOfWorkFactory
	loader     ports.ScenarioLoader
	hub        *renderer.Hub
	recorder   *metrics.Recorder
}

// NewCompositionRoot wires the application. A nil gormDB keeps the run log in memory.
func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) (CompositionRoot, error) {
	var loaderOpts []scenario.Option
	if configs.OrderPerPackage {
		loaderOpts = append(loaderOpts, scenario.WithOrderPerPackage())
	}
	loader, err := scenario.NewFileLoader(configs.ScenarioDir, logger, loaderOpts...)
	if err != nil {
		return CompositionRoot{}, err
	}

	var uowFactory ports.UnitOfWorkFactory
	if gormDB != nil {
		uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB)
	} else {
		uowFactory = memory.NewUnitOfWorkFactory(memory.NewRunStore())
	}

	return CompositionRoot{
		configs:    configs,
		logger:     logger,
		gormDB:     gormDB,
		uowFactory: uowFactory,
		loader:     loader,
		hub:        renderer.NewHub(),
		recorder:   metrics.NewRecorder(true),
	}, nil
}

func (c *CompositionRoot) Recorder() *metrics.Recorder {
	return c.recorder
}

// Snapshots is where every simulation publishes its grid.
func (c *CompositionRoot) Snapshots() *renderer.Hub {
	return c.hub
}

// CreateForwarder returns nil when no Redis URL is configured.
func (c *CompositionRoot) CreateForwarder() (*redis.Forwarder, error) {
	if c.configs.RedisURL == "" {
		return nil, nil
	}
	client, err := redis.NewClient(c.configs.RedisURL)
	if err != nil {
		return nil, err
	}
	return redis.NewForwarder(client, c.configs.RedisChannel, redis.DefaultFrameInterval, c.logger), nil
}

func (c *CompositionRoot) CreateRunSimulationCommandHandler() commands.RunSimulationCommandHandler {
	var f commands.RunUoWFactory = FuncRunUoWFactory(func() commands.RunUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRunSimulationCommandHandler(f, c.loader, c.hub, c.recorder)
}

// CreateRunsQueryHandler reads the run log with SQL when it lives in Postgres.
func (c *CompositionRoot) CreateRunsQueryHandler() httpin.RunsQueryHandler {
	if c.gormDB != nil {
		return queries.NewGetAllRunsQueryHandler(c.gormDB)
	}
	return queries.NewRunLogQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateServer() *httpin.Server {
	return httpin.NewServer(c.hub, c.CreateRunsQueryHandler(), c.recorder.Handler(), c.logger)
}

func (c *CompositionRoot) CreateTerminal(out io.Writer) *renderer.Terminal {
	return renderer.NewTerminal(c.hub, out)
}

// CreateJobManager holds the render job when the terminal renderer is on and
// the replay job when a schedule is configured.
func (c *CompositionRoot) CreateJobManager(out io.Writer) *jobs.JobManager {
	var renderJob *jobs.RenderJob
	if c.configs.RenderTerminal {
		renderJob = jobs.NewRenderJob(c.CreateTerminal(out), jobs.RenderEverySecond, c.logger)
	}

	var simulationJob *jobs.SimulationJob
	if c.configs.SimulationSchedule != "" {
		handler := c.CreateRunSimulationCommandHandler()
		simulationJob = jobs.NewSimulationJob(
			&handler,
			c.recorder,
			c.configs.Solver,
			c.configs.Seed+1,
			c.configs.SimulationSchedule,
			c.logger,
		)
	}

	return jobs.NewJobManager(renderJob, simulationJob)
}

type FuncRunUoWFactory func() commands.RunUoW

func (f FuncRunUoWFactory) Create() commands.RunUoW {
	return f()
}
