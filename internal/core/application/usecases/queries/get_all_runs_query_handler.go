package queries

import (
	"context"
	"database/sql"

	"drones/internal/core/domain/model/kernel"
	"drones/internal/core/domain/model/run"
	"drones/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAllRunsQueryHandler reads the run log straight from the runs and
// drone_costs tables.
//
// Example:
//
//	handler := NewGetAllRunsQueryHandler(db)
//	query, _ := NewGetAllRunsQuery(0)
//
//	runs, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%d runs logged\n", len(runs))
type GetAllRunsQueryHandler struct {
	db *gorm.DB
}

func NewGetAllRunsQueryHandler(db *gorm.DB) GetAllRunsQueryHandler {
	return GetAllRunsQueryHandler{db: db}
}

// Handle returns runs ordered by finish time, newest first. Runs finishing at
// the same instant are ordered by id.
func (h GetAllRunsQueryHandler) Handle(
	ctx context.Context,
	query GetAllRunsQuery,
) ([]GetAllRunsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	runs := make([]GetAllRunsQueryResponse, 0)

	limit := sql.NullInt64{Int64: int64(query.Limit()), Valid: query.Limit() > 0}
	rows, err := h.db.WithContext(ctx).Raw(`
		WITH page AS (
			SELECT
				id,
				solver,
				seed,
				makespan,
				order_count,
				time_limit,
				exceeded_time_limit,
				failure,
				started_at,
				finished_at
			FROM runs
			ORDER BY finished_at DESC, id
			LIMIT ?
		)
		SELECT
			page.id,
			page.solver,
			page.seed,
			page.makespan,
			page.order_count,
			page.time_limit,
			page.exceeded_time_limit,
			page.failure,
			page.started_at,
			page.finished_at,
			drone_costs.drone,
			drone_costs.cost
		FROM page
		LEFT JOIN drone_costs ON drone_costs.run_id = page.id
		ORDER BY page.finished_at DESC, page.id, drone_costs.drone
	`, limit).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			resp  GetAllRunsQueryResponse
			id    uuid.UUID
			drone sql.NullString
			cost  sql.NullInt64
		)

		err = rows.Scan(
			&id,
			&resp.Solver,
			&resp.Seed,
			&resp.Makespan,
			&resp.OrderCount,
			&resp.TimeLimit,
			&resp.ExceededTimeLimit,
			&resp.Failure,
			&resp.StartedAt,
			&resp.FinishedAt,
			&drone,
			&cost,
		)
		if err != nil {
			return nil, err
		}

		runID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		if n := len(runs); n == 0 || !runs[n-1].ID.IsEqual(runID) {
			resp.ID = runID
			resp.DroneCosts = make(map[string]int)
			resp.StartedAt = resp.StartedAt.UTC()
			resp.FinishedAt = resp.FinishedAt.UTC()
			runs = append(runs, resp)
		}
		if drone.Valid {
			runs[len(runs)-1].DroneCosts[drone.String] = int(cost.Int64)
		}
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}

// RunLogQueryHandler answers the same query from a RunRepository. It serves
// the in-memory run log, which has no SQL to query.
type RunLogQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewRunLogQueryHandler(uowFactory ports.UnitOfWorkFactory) RunLogQueryHandler {
	return RunLogQueryHandler{uowFactory: uowFactory}
}

func (h RunLogQueryHandler) Handle(
	ctx context.Context,
	query GetAllRunsQuery,
) ([]GetAllRunsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	all, err := h.uowFactory.Create().RunRepository().GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if query.Limit() > 0 && len(all) > query.Limit() {
		all = all[:query.Limit()]
	}

	runs := make([]GetAllRunsQueryResponse, 0, len(all))
	for _, r := range all {
		runs = append(runs, fromRun(r))
	}
	return runs, nil
}

func fromRun(r *run.Run) GetAllRunsQueryResponse {
	return GetAllRunsQueryResponse{
		ID:                r.ID(),
		Solver:            r.Solver(),
		Seed:              r.Seed(),
		Makespan:          r.Makespan(),
		DroneCosts:        r.DroneCosts(),
		OrderCount:        r.OrderCount(),
		TimeLimit:         r.TimeLimit(),
		ExceededTimeLimit: r.ExceededTimeLimit(),
		Failure:           r.Failure(),
		StartedAt:         r.StartedAt().UTC(),
		FinishedAt:        r.FinishedAt().UTC(),
	}
}
