// Package redis forwards grid snapshots to a Redis Pub/Sub channel, so
// renderers in other processes can follow a simulation without polling.
package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"drones/internal/core/domain/model/grid"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const (
	DefaultChannel = "drones:grid"
	// DefaultFrameInterval caps forwarding at ten frames a second.
	DefaultFrameInterval = 100 * time.Millisecond

	publishTimeout = 2 * time.Second
)

// Frame is the message published for every forwarded snapshot.
type Frame struct {
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Frame   string `json:"frame"`
	Summary string `json:"summary"`
}

func NewFrame(snap grid.Snapshot) Frame {
	return Frame{
		Width:   snap.Width(),
		Height:  snap.Height(),
		Frame:   snap.Render(),
		Summary: snap.Summary(),
	}
}

type snapshotSource interface {
	Subscribe() (<-chan grid.Snapshot, func())
}

// Forwarder publishes snapshots on one channel. Snapshots arriving faster than
// the frame interval are coalesced by the source, so only the newest is sent.
type Forwarder struct {
	client   *goredis.Client
	channel  string
	interval time.Duration
	logger   *slog.Logger
}

// NewClient connects to the server named by a redis:// URL.
func NewClient(url string) (*goredis.Client, error) {
	opt, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(opt), nil
}

func NewForwarder(client *goredis.Client, channel string, interval time.Duration, logger *slog.Logger) *Forwarder {
	if channel == "" {
		channel = DefaultChannel
	}
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &Forwarder{
		client:   client,
		channel:  channel,
		interval: interval,
		logger:   logger.With("component", "redis_forwarder"),
	}
}

func (f *Forwarder) Channel() string {
	return f.channel
}

// Run forwards snapshots from source until ctx is done or the source closes
// the subscription. Failed publishes are logged and skipped.
func (f *Forwarder) Run(ctx context.Context, source snapshotSource) {
	snapshots, cancel := source.Subscribe()
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(f.interval), 1)
	f.logger.InfoContext(ctx, "Forwarding snapshots", "channel", f.channel)
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-snapshots:
			if !ok {
				return
			}
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			if err := f.Forward(ctx, snap); err != nil {
				f.logger.ErrorContext(ctx, "Failed to forward snapshot", "error", err)
			}
		}
	}
}

// Forward publishes one snapshot now.
func (f *Forwarder) Forward(ctx context.Context, snap grid.Snapshot) error {
	payload, err := json.Marshal(NewFrame(snap))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	return f.client.Publish(ctx, f.channel, payload).Err()
}
