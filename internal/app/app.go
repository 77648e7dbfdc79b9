// Package app wires configuration, the portal client, the poll controller
// and the terminal output into the kyosol command.
package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kyosol/kyosol/internal/config"
	"github.com/kyosol/kyosol/internal/logging"
	"github.com/kyosol/kyosol/internal/portal"
	"github.com/kyosol/kyosol/internal/state"
	"github.com/kyosol/kyosol/internal/ui"
)

// Options carries the command line settings into Run.
type Options struct {
	ConfigPath string
	JSON       bool
	ForceLogin bool
	Watch      bool
	Verbosity  int
	PollEvery  int // seconds, 0 means the default
}

// Run executes a single poll or the continuous watch display, depending on
// the options. It returns once the work is done or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	logging.SetVerbosity(opts.Verbosity)

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	client, err := portal.New(cfg.Auth, cfg.Site, portal.Options{DisableCache: opts.ForceLogin})
	if err != nil {
		return err
	}

	store := &state.Store{}
	controller := NewController(client, store, cfg.Battery)

	interval := defaultPollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}
	if interval < minPollInterval {
		interval = minPollInterval
	}

	if opts.Watch {
		return runWatch(ctx, controller, store, cfg, interval)
	}

	res, err := controller.RunOnce(ctx)
	if err != nil {
		return err
	}

	if opts.JSON {
		var buf bytes.Buffer
		if err := json.Indent(&buf, res.Raw, "", "  "); err != nil {
			return &portal.DataError{Field: "payload", Err: err}
		}
		fmt.Println(buf.String())
		return nil
	}

	fmt.Println(ui.Render(res.Reading, res.Estimate, cfg.Battery, cfg.Site.Location))
	return nil
}

// runWatch starts the poll loop in the background and hands the terminal to
// the watch UI. The loop stops when the UI exits or ctx is cancelled.
func runWatch(ctx context.Context, controller *Controller, store *state.Store, cfg config.Config, interval time.Duration) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pollDone := make(chan struct{})
	go func() {
		defer close(pollDone)
		_ = controller.Watch(ctx, interval)
	}()

	err := ui.RunWatch(ctx, store, cfg.Battery, cfg.Site.Location, interval)

	cancel()
	<-pollDone
	return err
}
