package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-light2d/pkg/core"
	"github.com/df07/go-light2d/pkg/diagram"
	"github.com/df07/go-light2d/pkg/integrator"
	"github.com/df07/go-light2d/pkg/loaders"
	"github.com/df07/go-light2d/pkg/renderer"
	"github.com/df07/go-light2d/pkg/scene"
)

// scenesDir is searched for JSON scenes by -list and by bare scene names
const scenesDir = "scenes"

// options holds the parsed command line
type options struct {
	scene   string
	out     string
	samples int
	depth   int
	tiles   int
	workers int
	seed    uint64
	gamma   float64
	diagram string
}

func main() {
	var opts options
	flag.StringVar(&opts.scene, "scene", "hello-circle", "Built-in scene name or path to a .json scene")
	flag.StringVar(&opts.out, "out", "", "Output file (.png, .tif or .tiff); default output/<scene>/render_<timestamp>.png")
	flag.IntVar(&opts.samples, "samples", 0, "Samples per pixel (0 = scene setting)")
	flag.IntVar(&opts.depth, "depth", 0, "Maximum path depth (0 = scene setting)")
	flag.IntVar(&opts.tiles, "tiles", 0, "Number of render tiles (0 = scene setting)")
	flag.IntVar(&opts.workers, "workers", 0, "Number of worker goroutines (0 = number of CPUs)")
	flag.Uint64Var(&opts.seed, "seed", renderer.DefaultOptions().Seed, "Random seed")
	flag.Float64Var(&opts.gamma, "gamma", 2.2, "Output gamma")
	flag.StringVar(&opts.diagram, "diagram", "", "Also write a PDF diagram of the scene geometry to this file")
	list := flag.Bool("list", false, "List available scenes and exit")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		showHelp()
		return
	}
	if *list {
		if err := listScenes(); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, renderer.NewDefaultLogger()); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func showHelp() {
	fmt.Println("2-D Light Transport Renderer")
	fmt.Println("Usage: light2d [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Built-in scenes:")
	for _, name := range scene.BuiltinNames() {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println()
	fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.png unless -out is given")
}

func listScenes() error {
	groups, err := scene.ListAllScenes(scenesDir)
	if err != nil {
		return err
	}
	for _, group := range groups {
		fmt.Printf("%s:\n", group.Name)
		for _, s := range group.Scenes {
			fmt.Printf("  %-24s %s\n", s.ID, s.Description)
		}
	}
	return nil
}

// run loads the scene, renders it and writes the image
func run(ctx context.Context, opts options, logger core.Logger) error {
	s, err := createScene(opts.scene)
	if err != nil {
		return err
	}
	applyOverrides(s, opts)
	logger.Printf("Scene %s\n", s)

	if opts.diagram != "" {
		if err := diagram.WritePDF(opts.diagram, s.Tree, s.Region, diagram.DefaultOptions()); err != nil {
			return fmt.Errorf("error writing diagram: %w", err)
		}
		logger.Printf("Diagram saved as %s\n", opts.diagram)
	}

	integ, err := integrator.NewPathTracer(s.Sampling)
	if err != nil {
		return err
	}

	renderOpts := renderer.DefaultOptions()
	renderOpts.Workers = opts.workers
	renderOpts.Seed = opts.seed
	renderOpts.Logger = logger

	startTime := time.Now()
	film, stats, err := renderer.Render(ctx, s.Tree, integ, s.Region, image.Pt(s.Width, s.Height), s.Tiles, renderOpts)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	logger.Printf("Render completed in %v (%.0f samples/s)\n", time.Since(startTime), stats.SamplesPerSecond())

	filename := opts.out
	if filename == "" {
		outputDir := createOutputDir(opts.scene)
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("error creating output directory: %w", err)
		}
		timestamp := time.Now().Format("20060102_150405")
		filename = filepath.Join(outputDir, fmt.Sprintf("render_%s.png", timestamp))
	}

	if err := loaders.SaveImage(filename, film, opts.gamma); err != nil {
		return err
	}
	logger.Printf("Render saved as %s\n", filename)
	return nil
}

// createScene resolves a built-in name, a .json path, or the name of a JSON
// scene in the scenes directory
func createScene(name string) (*scene.Scene, error) {
	return scene.Open(name, scenesDir)
}

// applyOverrides replaces scene settings with the non-zero flags
func applyOverrides(s *scene.Scene, opts options) {
	s.Sampling = integrator.MergeConfig(s.Sampling, integrator.Config{
		SamplesPerPixel: opts.samples,
		MaxDepth:        opts.depth,
	})
	if opts.tiles > 0 {
		s.Tiles = opts.tiles
	}
}

// createOutputDir returns the output directory for a scene name or path
func createOutputDir(sceneName string) string {
	base := filepath.Base(sceneName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		base = "scene"
	}
	return filepath.Join("output", base)
}
