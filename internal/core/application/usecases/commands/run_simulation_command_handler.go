package commands

import (
	"context"
	"fmt"
	"time"

	"drones/internal/core/domain/model/drone"
	"drones/internal/core/domain/model/kernel"
	"drones/internal/core/domain/model/order"
	"drones/internal/core/domain/model/run"
	"drones/internal/core/domain/services"
	"drones/internal/core/domain/simulation"
	"drones/internal/core/ports"

	"golang.org/x/time/rate"
)

// SnapshotInterval is the shortest gap between two grid snapshots published
// while a solver runs. The first and the final frame are always published.
const SnapshotInterval = 100 * time.Millisecond

// RunSimulationCommandHandler loads a scenario, drains it with the requested
// solver and writes the outcome to the run log. Failed runs are logged too.
//
// Example:
//
//	handler := NewRunSimulationCommandHandler(uowFactory, loader, hub, recorder)
//	cmd, _ := NewRunSimulationCommand("greedy", 42)
//
//	r, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("simulation failed: %w", err)
//	}
//	fmt.Printf("cost %d\n", r.Makespan())
type RunSimulationCommandHandler struct {
	uowFactory RunUoWFactory
	loader     ports.ScenarioLoader
	publisher  ports.SnapshotPublisher
	observers  []simulation.Observer
	now        func() time.Time
}

// NewRunSimulationCommandHandler creates the handler. The publisher may be nil
// when nothing renders; observers are attached to every simulation it runs.
func NewRunSimulationCommandHandler(
	uowFactory RunUoWFactory,
	loader ports.ScenarioLoader,
	publisher ports.SnapshotPublisher,
	observers ...simulation.Observer,
) RunSimulationCommandHandler {
	return RunSimulationCommandHandler{
		uowFactory: uowFactory,
		loader:     loader,
		publisher:  publisher,
		observers:  observers,
		now:        time.Now,
	}
}

// Handle runs one simulation and returns its closed run record. When the solver
// fails, the failed run is still stored and returned along with the error.
func (h *RunSimulationCommandHandler) Handle(ctx context.Context, cmd RunSimulationCommand) (*run.Run, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	solver, err := services.NewSolver(cmd.Solver(), services.NewRand(cmd.Seed()))
	if err != nil {
		return nil, err
	}

	scenario, err := h.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load scenario: %w", err)
	}

	r, err := run.NewRun(kernel.NewUUID(), solver.Name(), cmd.Seed(), scenario.TimeLimit, len(scenario.Orders), h.now())
	if err != nil {
		return nil, err
	}

	publisher := &snapshotPublisher{
		publisher: h.publisher,
		every:     rate.Sometimes{Interval: SnapshotInterval},
	}
	sim, err := simulation.NewSimulation(
		scenario.Grid,
		scenario.Warehouses,
		scenario.Orders,
		scenario.Drones,
		scenario.TimeLimit,
		simulation.WithObserver(h.observers...),
		simulation.WithObserver(publisher),
	)
	if err != nil {
		return nil, fmt.Errorf("build simulation: %w", err)
	}
	publisher.sim = sim
	publisher.changed()

	solveErr := solver.Solve(sim)
	publisher.publish()
	if solveErr != nil {
		err = r.Fail(solveErr, sim.DroneCosts(), h.now())
	} else {
		err = r.Finish(sim.DroneCosts(), h.now())
	}
	if err != nil {
		return nil, err
	}

	if err = h.store(ctx, r); err != nil {
		return nil, err
	}

	if solveErr != nil {
		return r, fmt.Errorf("solve with %s: %w", solver.Name(), solveErr)
	}
	return r, nil
}

func (h *RunSimulationCommandHandler) store(ctx context.Context, r *run.Run) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.RunRepository().Add(ctx, r); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// snapshotPublisher pushes a grid snapshot after changes a renderer can see,
// at most once per SnapshotInterval.
type snapshotPublisher struct {
	simulation.NopObserver

	publisher ports.SnapshotPublisher
	sim       *simulation.Simulation
	every     rate.Sometimes
}

func (p *snapshotPublisher) DroneFlew(_ *drone.Drone, _, _ kernel.Position, _ int) {
	p.changed()
}

func (p *snapshotPublisher) OrderCompleted(_ *order.Order) {
	p.changed()
}

func (p *snapshotPublisher) changed() {
	if p.publisher == nil {
		return
	}
	p.every.Do(p.publish)
}

func (p *snapshotPublisher) publish() {
	if p.publisher == nil || p.sim == nil {
		return
	}
	p.publisher.Publish(p.sim.Snapshot())
}
