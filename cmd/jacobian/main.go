package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"diffraster/internal/batch"
	"diffraster/internal/config"
	"diffraster/internal/diag"
	"diffraster/internal/gradient"
	"diffraster/internal/scene"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (.json or .toml)")
	sceneDir := flag.String("scenes", "", "Directory of scene .json files (default: built-in demo scene)")
	outputDir := flag.String("output", "", "Output directory (default: jacobian-out)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	scale := flag.Int("scale", 0, "Upscale factor for written images (default: 4)")
	plain := flag.Bool("plain", false, "Use kernel derivatives everywhere instead of boundary-aware ones")
	noImages := flag.Bool("no-images", false, "Skip writing WebP visualizations")
	verbose := flag.Bool("v", false, "Log debug output")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	diag.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		SceneDir:  *sceneDir,
		OutputDir: *outputDir,
		Workers:   *workers,
		Scale:     *scale,
		Plain:     *plain,
		NoImages:  *noImages,
	})

	// Load scenes
	var scenes []*scene.Scene
	if cfg.SceneDir == "" {
		scenes = []*scene.Scene{scene.Demo(cfg.DemoWidth, cfg.DemoHeight)}
	} else {
		var err error
		scenes, err = scene.LoadDir(cfg.SceneDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading scenes: %v\n", err)
			os.Exit(1)
		}
	}

	if len(scenes) == 0 {
		fmt.Println("No scenes to process.")
		os.Exit(0)
	}

	// Print summary
	mode := "boundary-aware"
	if cfg.Plain {
		mode = "plain"
	}
	fmt.Printf("Rasterizer Jacobians (%s, aperture %d)\n", mode, cfg.Aperture)
	fmt.Printf("Scenes: %d, Workers: %d\n", len(scenes), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	// Run batch
	batchCfg := batch.Config{
		OutputDir:   cfg.OutputDir,
		Workers:     cfg.Workers,
		Scale:       cfg.Scale,
		Plain:       cfg.Plain,
		Gradient:    gradient.Estimator{Aperture: cfg.Aperture, Workers: 1},
		WriteImages: cfg.Images(),
	}

	results := batch.Run(batchCfg, scenes)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
			fmt.Printf("  %s: FAILED: %s\n", r.Name, r.Error)
			continue
		}
		st := r.Stats
		fmt.Printf("  %s: %dx%dx%d, visible %d, boundary %d, dI/dv nnz %d (|J| %.3g), dI/dc nnz %d, dI/dbg nnz %d",
			r.Name, st.Width, st.Height, st.Channels, st.Visible, st.Boundary,
			st.Position.NNZ, st.Position.Norm, st.Color.NNZ, st.Background.NNZ)
		if st.Flow != nil {
			fmt.Printf(", flow mean %.3fpx max %.3fpx", st.Flow.Mean, st.Flow.Max)
		}
		fmt.Println()
	}
	fmt.Printf("Processed: %d/%d\n", len(results)-failed, len(results))

	// Write manifest
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: create %s: %v\n", cfg.OutputDir, err)
	}
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	manifest := batch.NewManifest(batchCfg, results)
	if err := batch.WriteManifest(manifestPath, manifest); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s (run %s)\n", manifestPath, manifest.RunID)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
