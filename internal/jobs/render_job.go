package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// RenderEverySecond polls once a second, the pace the grid was always redrawn at.
const RenderEverySecond = "* * * * * *"

// frameDrawer draws the latest frame, reporting whether it changed.
type frameDrawer interface {
	Draw() (bool, error)
}

// RenderJob polls the renderer on a schedule. The simulation never calls the
// renderer itself; it only publishes snapshots the renderer picks up here.
type RenderJob struct {
	drawer frameDrawer
	spec   string
	cron   *cron.Cron
	logger *slog.Logger
}

func NewRenderJob(drawer frameDrawer, spec string, logger *slog.Logger) *RenderJob {
	if spec == "" {
		spec = RenderEverySecond
	}
	return &RenderJob{
		drawer: drawer,
		spec:   spec,
		cron:   cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger: logger.With("component", "render_job"),
	}
}

// Start schedules the poll.
func (j *RenderJob) Start() error {
	if _, err := j.cron.AddFunc(j.spec, func() { j.Tick(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Render job started", "schedule", j.spec)
	return nil
}

// Tick draws one frame.
func (j *RenderJob) Tick(ctx context.Context) {
	if _, err := j.drawer.Draw(); err != nil {
		j.logger.ErrorContext(ctx, "Render job failed", "error", err)
	}
}

// Stop stops the job and waits for a running draw to return.
func (j *RenderJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Render job stopped")
}
