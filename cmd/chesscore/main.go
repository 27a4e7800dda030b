package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"

	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/protocol"
	"github.com/hailam/chesscore/internal/storage"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	depth      = flag.Int("depth", 0, "search depth in plies (default: saved preference, else 2)")
	workers    = flag.Int("workers", 0, "root subtrees searched in parallel (default: saved preference, else 1)")
	dbDir      = flag.String("db", "", "game database directory (default: platform data dir, \"none\" to disable)")
)

func main() {
	flag.Parse()
	log.SetOutput(os.Stderr)

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	store := openStorage(*dbDir)
	if store != nil {
		defer store.Close()
	}

	eng := engine.NewEngine(engineConfig(store))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	h := protocol.New(eng, store, os.Stdout, log.Default())
	if err := h.Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		log.Printf("input error: %v", err)
	}
}

// openStorage opens the game database, or returns nil when it is disabled
// or cannot be opened.
func openStorage(dir string) *storage.Storage {
	if dir == "none" {
		return nil
	}

	var (
		store *storage.Storage
		err   error
	)
	if dir == "" {
		store, err = storage.NewStorage()
	} else {
		store, err = storage.Open(dir)
	}
	if err != nil {
		log.Printf("Warning: game database unavailable: %v", err)
		return nil
	}

	first, err := store.IsFirstLaunch()
	if err != nil {
		log.Printf("Warning: %v", err)
	} else if first {
		log.Printf("Created game database")
		if err := store.MarkFirstLaunchComplete(); err != nil {
			log.Printf("Warning: %v", err)
		}
	}
	return store
}

// engineConfig combines saved preferences with command-line flags; flags
// win when given.
func engineConfig(store *storage.Storage) engine.Config {
	cfg := engine.DefaultConfig()

	if store != nil {
		prefs, err := store.LoadPreferences()
		if err != nil {
			log.Printf("Warning: Failed to load preferences: %v", err)
		} else {
			cfg.Depth = prefs.Depth
			cfg.Workers = prefs.Workers
		}
	}

	if *depth > 0 {
		cfg.Depth = *depth
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	return cfg
}
