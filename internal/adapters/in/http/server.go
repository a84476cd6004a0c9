// Package http serves the read surface of the simulator: the live grid (as
// JSON, text, or a websocket stream), the run log and Prometheus metrics.
// Nothing here changes simulation state.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"drones/internal/core/application/usecases/queries"
	"drones/internal/core/domain/model/grid"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// SnapshotSource is what the server reads the grid from.
type SnapshotSource interface {
	Latest() grid.Snapshot
	Subscribe() (<-chan grid.Snapshot, func())
}

// RunsQueryHandler lists the run log. Both the SQL and the in-memory handlers fit.
type RunsQueryHandler interface {
	Handle(ctx context.Context, query queries.GetAllRunsQuery) ([]queries.GetAllRunsQueryResponse, error)
}

// Error is the body of every non-2xx JSON response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Cell is one grid cell in the JSON view.
type Cell struct {
	X          int      `json:"x"`
	Y          int      `json:"y"`
	Warehouses []string `json:"warehouses"`
	Customers  []string `json:"customers"`
	Drones     []string `json:"drones"`
}

// Grid is the JSON view of a snapshot. Cells are row-major and empty cells
// are left out.
type Grid struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Cells  []Cell `json:"cells"`
}

const (
	writeWait = 5 * time.Second
	// StreamFrameInterval is the shortest gap between two frames sent to one
	// stream client. Snapshots published in between are coalesced by the source.
	StreamFrameInterval = 100 * time.Millisecond
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Server coordinates between HTTP handlers and the read side of the application.
type Server struct {
	snapshots SnapshotSource
	runs      RunsQueryHandler
	metrics   http.Handler
	logger    *slog.Logger
}

// NewServer creates the server. metrics may be nil, in which case /metrics is not served.
func NewServer(snapshots SnapshotSource, runs RunsQueryHandler, metrics http.Handler, logger *slog.Logger) *Server {
	return &Server{
		snapshots: snapshots,
		runs:      runs,
		metrics:   metrics,
		logger:    logger.With("component", "http"),
	}
}

// Register mounts every route on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", s.Health)
	e.GET("/api/v1/grid", s.GetGrid)
	e.GET("/api/v1/grid/stream", s.StreamGrid)
	e.GET("/api/v1/runs", s.GetRuns)
	if s.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(s.metrics))
	}
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// GetGrid handles GET /api/v1/grid. format=text returns the ASCII frame and
// format=summary the per-cell C/W/D counts.
func (s *Server) GetGrid(ctx echo.Context) error {
	snap := s.snapshots.Latest()
	if snap.IsZero() {
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Message: "No simulation has published a grid yet",
		})
	}

	switch ctx.QueryParam("format") {
	case "", "json":
		return ctx.JSON(http.StatusOK, toGrid(snap))
	case "text":
		return ctx.String(http.StatusOK, snap.Render())
	case "summary":
		return ctx.String(http.StatusOK, snap.Summary())
	default:
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "format must be json, text or summary",
		})
	}
}

// StreamGrid handles GET /api/v1/grid/stream: published snapshots are pushed
// as JSON text messages until the client goes away, at most one per
// StreamFrameInterval.
func (s *Server) StreamGrid(ctx echo.Context) error {
	conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	snapshots, cancel := s.snapshots.Subscribe()
	defer cancel()

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	reqCtx := ctx.Request().Context()
	limiter := rate.NewLimiter(rate.Every(StreamFrameInterval), 1)
	for {
		select {
		case snap, ok := <-snapshots:
			if !ok {
				return nil
			}
			if err := limiter.Wait(reqCtx); err != nil {
				return nil
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(toGrid(snap)); err != nil {
				s.logger.DebugContext(reqCtx, "Grid stream closed", "error", err)
				return nil
			}
		case <-gone:
			return nil
		case <-reqCtx.Done():
			return nil
		}
	}
}

// GetRuns handles GET /api/v1/runs - the run log, newest first.
func (s *Server) GetRuns(ctx echo.Context) error {
	limit := 0
	if raw := ctx.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: "limit must be an integer",
			})
		}
		limit = n
	}

	query, err := queries.NewGetAllRunsQuery(limit)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	runs, err := s.runs.Handle(ctx.Request().Context(), query)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, context.Canceled) {
			status = http.StatusServiceUnavailable
		}
		s.logger.ErrorContext(ctx.Request().Context(), "Failed to list runs", "error", err)
		return ctx.JSON(status, Error{
			Code:    status,
			Message: "Failed to retrieve runs",
		})
	}

	return ctx.JSON(http.StatusOK, runs)
}

func toGrid(snap grid.Snapshot) Grid {
	view := Grid{
		Width:  snap.Width(),
		Height: snap.Height(),
		Cells:  make([]Cell, 0),
	}
	for _, c := range snap.Cells() {
		if c.IsEmpty() {
			continue
		}
		view.Cells = append(view.Cells, Cell{
			X:          c.X,
			Y:          c.Y,
			Warehouses: nonNil(c.Warehouses),
			Customers:  nonNil(c.Customers),
			Drones:     nonNil(c.Drones),
		})
	}
	return view
}

func nonNil(names []string) []string {
	if names == nil {
		return []string{}
	}
	return names
}
