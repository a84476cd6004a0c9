package jobs

import (
	"context"
	"log/slog"
	"sync/atomic"

	"drones/internal/core/application/usecases/commands"
	"drones/internal/core/domain/model/run"

	"github.com/robfig/cron/v3"
)

// simulationRunner runs one simulation to completion.
type simulationRunner interface {
	Handle(ctx context.Context, cmd commands.RunSimulationCommand) (*run.Run, error)
}

// RunRecorder is told about every run the job closes.
type RunRecorder interface {
	RecordRun(r *run.Run)
}

// SimulationJob replays the scenario on a schedule. Replay n uses seed
// baseSeed+n, so a series of replays is reproducible from its base seed.
// A replay still running when the next is due is skipped.
type SimulationJob struct {
	runner   simulationRunner
	recorder RunRecorder
	solver   string
	baseSeed int64
	replays  atomic.Int64
	spec     string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewSimulationJob(
	runner simulationRunner,
	recorder RunRecorder,
	solver string,
	baseSeed int64,
	spec string,
	logger *slog.Logger,
) *SimulationJob {
	return &SimulationJob{
		runner:   runner,
		recorder: recorder,
		solver:   solver,
		baseSeed: baseSeed,
		spec:     spec,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "simulation_job"),
	}
}

// Start schedules replays.
func (j *SimulationJob) Start() error {
	if _, err := j.cron.AddFunc(j.spec, func() { j.Tick(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Simulation job started", "schedule", j.spec, "solver", j.solver)
	return nil
}

// Tick runs the next replay and returns its run, nil when it could not start.
func (j *SimulationJob) Tick(ctx context.Context) *run.Run {
	seed := j.baseSeed + j.replays.Add(1) - 1

	cmd, err := commands.NewRunSimulationCommand(j.solver, seed)
	if err != nil {
		j.logger.ErrorContext(ctx, "Simulation job misconfigured", "error", err)
		return nil
	}

	r, err := j.runner.Handle(ctx, cmd)
	if r != nil && j.recorder != nil {
		j.recorder.RecordRun(r)
	}
	if err != nil {
		j.logger.ErrorContext(ctx, "Simulation replay failed", "seed", seed, "error", err)
		return r
	}

	j.logger.InfoContext(ctx, "Simulation replay finished",
		"seed", seed,
		"cost", r.Makespan(),
		"exceededTimeLimit", r.ExceededTimeLimit(),
	)
	return r
}

// Stop stops scheduling and waits for a running replay to finish.
func (j *SimulationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Simulation job stopped")
}
