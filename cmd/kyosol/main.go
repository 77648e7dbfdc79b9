package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kyosol/kyosol/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (default ~/.config/kyosol/config.toml)")
	jsonOut := flag.Bool("json", false, "dump the raw portal payload instead of the dashboard")
	forceLogin := flag.Bool("force-login", false, "ignore the cached session and re-authenticate")
	watch := flag.Bool("watch", false, "refresh the dashboard continuously")
	flag.BoolVar(watch, "w", false, "shorthand for -watch")
	interval := flag.Int("interval", 30, "refresh interval in seconds for watch mode")
	verbosity := 0
	flag.BoolFunc("v", "increase logging verbosity (repeatable)", func(string) error {
		verbosity++
		return nil
	})
	flag.Parse()

	if *watch && *jsonOut {
		fmt.Fprintln(os.Stderr, "kyosol: -watch is not compatible with -json output")
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		JSON:       *jsonOut,
		ForceLogin: *forceLogin,
		Watch:      *watch,
		Verbosity:  verbosity,
	}
	if *interval > 0 {
		opts.PollEvery = *interval
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "kyosol: %v\n", err)
		return 1
	}
	return 0
}
