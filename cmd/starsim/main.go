// Command starsim runs the settlement economy of a solar system: markets,
// producers and populations on every settled body, plus autonomous traders.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/talgya/starmarket/internal/api"
	"github.com/talgya/starmarket/internal/config"
	"github.com/talgya/starmarket/internal/engine"
	"github.com/talgya/starmarket/internal/history"
)

func main() {
	configPath := flag.String("config", os.Getenv("STARSIM_CONFIG"), "YAML config file (default: built-in scenario)")
	cycles := flag.Int("cycles", 0, "run this many economy cycles headless, print the report and exit")
	seed := flag.Int64("seed", 0, "override the configured random seed")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	slog.Info("starsim: settlement economy simulation",
		"config", *configPath,
		"bodies", len(cfg.System),
		"seed", cfg.Seed,
	)

	// ── History log ───────────────────────────────────────────────────
	var db *history.DB
	var recorder engine.Recorder
	if cfg.History.Enabled && *cycles == 0 {
		if dir := filepath.Dir(cfg.History.Path); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				slog.Error("failed to create history directory", "dir", dir, "error", err)
				os.Exit(1)
			}
		}
		db, err = history.Open(cfg.History.Path)
		if err != nil {
			slog.Error("failed to open history", "path", cfg.History.Path, "error", err)
			os.Exit(1)
		}
		defer db.Close()
		recorder = db
		slog.Info("history opened", "path", cfg.History.Path)
	}

	// ── Simulation ────────────────────────────────────────────────────
	opts, err := cfg.EngineOptions(recorder)
	if err != nil {
		slog.Error("invalid catalog", "error", err)
		os.Exit(1)
	}
	sim, err := engine.NewSimulation(cfg.System, opts)
	if err != nil {
		slog.Error("failed to build simulation", "error", err)
		os.Exit(1)
	}
	slog.Info("system ready",
		"bodies", sim.System.BodyCount(),
		"settlements", len(sim.System.Settled()),
		"routes", sim.Network.Len(),
		"ships", len(sim.Ships),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eng := engine.NewEngine()
	eng.Speed = cfg.Simulation.Speed
	eng.Interval = cfg.Simulation.Interval
	eng.TickSeconds = cfg.Simulation.TickSeconds
	eng.EconomyEvery = cfg.Simulation.EconomyEvery
	eng.SpawnEvery = cfg.Simulation.SpawnEvery

	eng.OnTick = sim.TickFrame
	eng.OnEconomy = func(tick uint64) { sim.TickEconomy(ctx, tick) }
	eng.OnSpawn = sim.TickSpawn

	if *cycles > 0 {
		runHeadless(ctx, eng, sim, uint64(*cycles))
		return
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	var apiServer *api.Server
	if cfg.API.Enabled {
		apiServer = &api.Server{
			Sim:         sim,
			Port:        cfg.API.Port,
			CORSOrigins: cfg.API.CORSOrigins,
		}
		if db != nil {
			apiServer.DB = db
		}
		apiServer.Start()
	}

	// ── Start ─────────────────────────────────────────────────────────
	eng.Run(ctx)

	if apiServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("api shutdown", "error", err)
		}
	}
	slog.Info("shutdown complete", "tick", eng.Tick, "cycle", sim.CurrentCycle())
}

// runHeadless steps the engine as fast as possible until n economy cycles
// have run, then prints the developer report.
func runHeadless(ctx context.Context, eng *engine.Engine, sim *engine.Simulation, n uint64) {
	for sim.CurrentCycle() < n && ctx.Err() == nil {
		eng.Step()
	}
	if err := sim.Snapshot().WriteText(os.Stdout); err != nil {
		slog.Error("write report", "error", err)
		os.Exit(1)
	}
}
