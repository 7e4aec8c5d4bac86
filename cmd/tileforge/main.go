package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"tileforge/internal/archive"
	"tileforge/internal/catalog"
	"tileforge/internal/config"
	"tileforge/internal/export"
	"tileforge/internal/grid"
	"tileforge/internal/solver"
)

func main() {
	var (
		cfgPath     string
		catalogPath string
		outPath     string
		archivePath string
	)
	flag.StringVar(&cfgPath, "config", "", "path to generation configuration file")
	flag.StringVar(&catalogPath, "catalog", "", "path to YAML tile catalog")
	flag.StringVar(&outPath, "out", "", "optional YAML result output path")
	flag.StringVar(&archivePath, "archive", "", "optional SQLite run archive path")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if cfg.Log.FilePath != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   cfg.Log.FilePath,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAgeDays,
		})
	}

	if catalogPath == "" {
		log.Fatalf("a -catalog file is required")
	}
	cat, err := catalog.LoadFile(catalogPath)
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}

	seed := cfg.Generation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	g, err := grid.New(grid.Dimensions{
		Width:  cfg.Grid.Width,
		Height: cfg.Grid.Height,
		Depth:  cfg.Grid.Depth,
	})
	if err != nil {
		log.Fatalf("create grid: %v", err)
	}

	start := g.Center()
	if !cfg.Start.Centered {
		start = grid.Coord{X: cfg.Start.X, Y: cfg.Start.Y, Z: cfg.Start.Z}
	}

	s, err := solver.New(g, cat, rng, logSpawner(), solver.Options{
		Start: start,
		Boundary: solver.BoundaryPolicy{
			EnableX:      cfg.Boundary.EnableX,
			EnableZ:      cfg.Boundary.EnableZ,
			EnableBottom: cfg.Boundary.EnableBottom,
			EnableTop:    cfg.Boundary.EnableTop,
			Thickness:    cfg.Boundary.Thickness,
			TileID:       cfg.Boundary.TileID,
		},
		FallbackTileID: cfg.Generation.FallbackTileID,
		UsageCaps:      cfg.Generation.UsageCaps,
	})
	if err != nil {
		log.Fatalf("initialise solver: %v", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	log.Printf("generating %dx%dx%d grid from %s with seed %d",
		cfg.Grid.Width, cfg.Grid.Height, cfg.Grid.Depth, start, seed)

	if err := run(ctx, s, cfg.Pacing); err != nil {
		log.Fatalf("generation aborted: %v", err)
	}

	for _, entry := range summarize(s) {
		log.Print(entry)
	}
	if unassigned := g.UnassignedCount(); unassigned > 0 {
		log.Printf("%d cells remained unassigned", unassigned)
	}

	result := export.Collect(g, s, seed)
	if outPath != "" {
		if err := export.WriteFile(outPath, result); err != nil {
			log.Fatalf("write result: %v", err)
		}
		log.Printf("result written to %s", outPath)
	}
	if archivePath != "" {
		store, err := archive.Open(archivePath)
		if err != nil {
			log.Fatalf("open archive: %v", err)
		}
		defer store.Close()
		runID, err := store.SaveRun(result)
		if err != nil {
			log.Fatalf("archive run: %v", err)
		}
		log.Printf("run archived as %d in %s", runID, archivePath)
	}
}

// run drives the solver one collapse at a time, sleeping between steps when
// pacing is enabled so the fill can be observed externally.
func run(ctx context.Context, s *solver.Solver, pacing config.PacingConfig) error {
	delay := pacing.StepDelay.Duration()
	steps := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if _, ok := s.Step(); !ok {
			return nil
		}
		steps++
		if steps%256 == 0 {
			log.Printf("%d cells collapsed, %d pending", steps, s.Pending())
		}
		if pacing.Enabled && delay > 0 {
			time.Sleep(delay)
		}
	}
}

func summarize(s *solver.Solver) []string {
	usage := s.Usage()
	counts := usage.Counts()
	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	lines := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		if limit, capped := usage.Cap(id); capped {
			lines = append(lines, fmt.Sprintf("usage %s: %d/%d", id, counts[id], limit))
		} else {
			lines = append(lines, fmt.Sprintf("usage %s: %d", id, counts[id]))
		}
	}
	lines = append(lines, fmt.Sprintf("%d fallback placements", len(s.Diagnostics())))
	return lines
}

func logSpawner() solver.Spawner {
	return solver.SpawnerFunc(func(c grid.Coord, tileID string) error {
		log.Printf("spawn %s at %s", tileID, c)
		return nil
	})
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
