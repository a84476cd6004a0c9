package commands

import (
	"errors"
	"strings"

	"drones/internal/pkg/errs"
	"drones/internal/pkg/guard"
)

var (
	ErrRunSimulationCommandIsNotConstructed = errors.New(
		"RunSimulationCommand must be created via NewRunSimulationCommand constructor",
	)
	ErrSolverIsRequired = errs.NewValueIsRequiredError("solver")
)

// RunSimulationCommand asks for one solver pass over a freshly loaded scenario.
// The seed drives every random choice of the solver, so the same seed over the
// same scenario replays the same run.
//
// Example:
//
//	cmd, err := NewRunSimulationCommand("greedy", 42)
//	if err != nil {
//	    return fmt.Errorf("invalid run request: %w", err)
//	}
//
//	r, err := handler.Handle(ctx, cmd)
//	fmt.Println(r.Makespan())
type RunSimulationCommand struct { //nolint:recvcheck //using for validation
	solver string
	seed   int64

	guard guard.ConstructorGuard
}

func NewRunSimulationCommand(solver string, seed int64) (RunSimulationCommand, error) {
	cmd := RunSimulationCommand{
		seed:  seed,
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setSolver(solver); err != nil {
		return RunSimulationCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RunSimulationCommand) Validate() error {
	return c.guard.Validate(ErrRunSimulationCommandIsNotConstructed)
}

func (c RunSimulationCommand) Solver() string {
	return c.solver
}

func (c RunSimulationCommand) Seed() int64 {
	return c.seed
}

func (c *RunSimulationCommand) setSolver(solver string) error {
	solver = strings.TrimSpace(solver)
	if solver == "" {
		return ErrSolverIsRequired
	}

	c.solver = solver
	return nil
}
