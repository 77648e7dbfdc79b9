package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/kyosol/kyosol/internal/config"
	"github.com/kyosol/kyosol/internal/logging"
	"github.com/kyosol/kyosol/internal/portal"
	"github.com/kyosol/kyosol/internal/solar"
	"github.com/kyosol/kyosol/internal/state"
)

const (
	defaultPollInterval = 30 * time.Second
	minPollInterval     = 5 * time.Second
)

// Result is one completed fetch→normalize→estimate cycle.
type Result struct {
	Reading  solar.Snapshot
	Estimate solar.Estimate
	Raw      []byte
}

// Controller drives the poll cycle against the portal, either once or on a
// fixed cadence. It owns the re-login policy: a fetch rejected for auth while
// a session was already held gets exactly one fresh login before the error is
// surfaced.
type Controller struct {
	client  portal.Snapshotter
	store   *state.Store
	battery config.Battery
}

// NewController wires a controller to its portal client and result store.
func NewController(client portal.Snapshotter, store *state.Store, battery config.Battery) *Controller {
	return &Controller{client: client, store: store, battery: battery}
}

// RunOnce executes a single poll cycle and records the outcome in the store.
func (c *Controller) RunOnce(ctx context.Context) (Result, error) {
	res, err := c.poll(ctx)
	if err != nil {
		c.store.SetError(err)
		return Result{}, err
	}
	c.store.SetResult(res.Reading, res.Estimate, res.Raw)
	return res, nil
}

// Watch polls repeatedly until ctx is cancelled. Failed polls are logged and
// recorded in the store; the loop only stops on cancellation, which is not an
// error.
func (c *Controller) Watch(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = defaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		res, err := c.poll(ctx)
		switch {
		case err != nil && ctx.Err() != nil:
			return nil
		case err != nil:
			c.store.SetError(err)
			logging.Ctx(ctx).WarnContext(ctx, "poll failed", slog.Any("error", err))
		default:
			c.store.SetResult(res.Reading, res.Estimate, res.Raw)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// poll performs one authenticate→fetch→normalize→estimate cycle.
func (c *Controller) poll(ctx context.Context) (Result, error) {
	hadSession := c.client.HasSession()
	if !hadSession {
		if err := c.client.Login(ctx); err != nil {
			return Result{}, err
		}
	}

	raw, rawJSON, err := c.client.FetchRealtime(ctx)
	if err != nil && portal.IsAuth(err) && hadSession {
		// The cached session went stale server-side. One fresh login, then
		// give up if the portal still refuses us.
		logging.Ctx(ctx).InfoContext(ctx, "cached session invalid, re-authenticating")
		c.client.InvalidateSession()
		if err = c.client.Login(ctx); err != nil {
			return Result{}, err
		}
		raw, rawJSON, err = c.client.FetchRealtime(ctx)
	}
	if err != nil {
		return Result{}, err
	}

	reading, err := solar.Normalize(raw, time.Now())
	if err != nil {
		return Result{}, err
	}
	estimate := solar.BatteryEstimate(reading, c.battery)
	return Result{Reading: reading, Estimate: estimate, Raw: rawJSON}, nil
}
