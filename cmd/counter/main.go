// Counter is a terminal front end for the counter store.
//
// It reads commands from stdin, dispatches them and prints the count after
// every dispatch.
//
//	inc [n]   increment
//	dec [n]   decrement
//	quit      exit
//
// Usage: counter [-config file.json] [-initial n] [-verbose]
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/tailored-agentic-units/flux/counter"
	"github.com/tailored-agentic-units/flux/observability"
	"github.com/tailored-agentic-units/flux/store"
)

func main() {
	var (
		configFile = flag.String("config", "", "Path to counter config JSON file")
		initial    = flag.Int("initial", 0, "Initial counter value (overrides config and env)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging to stderr")
	)
	flag.Parse()

	cfg := counter.DefaultConfig()
	if *configFile != "" {
		loaded, err := counter.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}

	if err := cfg.ParseEnv(); err != nil {
		log.Fatalf("Failed to read environment: %v", err)
	}

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "initial" {
			cfg.Initial = *initial
		}
	})

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	observability.RegisterObserver("slog", observability.NewSlogObserver(logger))

	observer, err := observability.GetObserver(cfg.Store.Observer)
	if err != nil {
		log.Fatalf("Failed to resolve observer: %v", err)
	}
	if *verbose && cfg.Store.Observer != "slog" {
		observer = observability.NewMultiObserver(observer, observability.NewSlogObserver(logger))
	}

	c, err := counter.New(&cfg, store.WithObserver(observer))
	if err != nil {
		log.Fatalf("Failed to create counter: %v", err)
	}

	c.Store().Subscribe(counter.Render(os.Stdout, c.Store()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println(c.Value())

	scanner := bufio.NewScanner(os.Stdin)
	for ctx.Err() == nil && scanner.Scan() {
		quit, err := c.Exec(scanner.Text())
		if err != nil {
			logger.Warn("command rejected", slog.String("error", err.Error()))
			continue
		}
		if quit {
			return
		}
	}

	if err := scanner.Err(); err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}
}
