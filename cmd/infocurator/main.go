package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"infocurator/internal/app"
	"infocurator/internal/config"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to the YAML config (defaults to CURATOR_CONFIG)")
		once       = flag.Bool("once", false, "run the pipeline once and exit instead of serving")
		category   = flag.String("category", "", "restrict a -once run to a single category id")
		weekly     = flag.Bool("weekly", false, "include the weekly digest in a -once run")
	)
	flag.Parse()

	if err := run(*configPath, *once, *category, *weekly); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(configPath string, once bool, category string, weekly bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	a, err := app.New(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if once {
		return a.RunOnce(ctx, category, weekly)
	}
	return a.Run(ctx)
}
