// Package main is the scenecast command line tool: it builds a renderer
// scene file from a job description and runs the external renderer on it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/cadlabs/scenecast/internal/config"
	"github.com/cadlabs/scenecast/internal/logger"
	"github.com/cadlabs/scenecast/internal/render"
	_ "github.com/cadlabs/scenecast/internal/render/cycles"
	_ "github.com/cadlabs/scenecast/internal/render/luxcore"
	_ "github.com/cadlabs/scenecast/internal/render/povray"
	"github.com/cadlabs/scenecast/internal/scene"
)

var (
	flagJob     = flag.String("job", "", "Path to the scene job YAML file")
	flagBackend = flag.String("backend", "", "Renderer backend (overrides the job file)")
	flagOutput  = flag.String("output", "", "Output image path (overrides the job file)")
	flagWidth   = flag.Int("width", 0, "Image width in pixels (overrides the job file)")
	flagHeight  = flag.Int("height", 0, "Image height in pixels (overrides the job file)")
	flagDryRun  = flag.Bool("dry-run", false, "Write the scene file but do not run the renderer")
	flagList    = flag.Bool("list", false, "List available backends and exit")
)

func main() {
	config.ParseFlags()

	if *flagList {
		for _, name := range render.Names() {
			fmt.Println(name)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("export failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	if *flagJob == "" {
		return fmt.Errorf("no job file given (use -job)")
	}

	job, err := scene.LoadJob(*flagJob)
	if err != nil {
		return err
	}
	if *flagBackend != "" {
		job.Backend = *flagBackend
	}
	if *flagOutput != "" {
		job.Output = *flagOutput
	}
	if *flagWidth > 0 {
		job.Width = *flagWidth
	}
	if *flagHeight > 0 {
		job.Height = *flagHeight
	}

	backend, err := render.Lookup(job.Backend)
	if err != nil {
		return err
	}

	text, err := render.BuildScene(job, backend)
	if err != nil {
		return err
	}

	sceneFile := strings.TrimSuffix(*flagJob, filepath.Ext(*flagJob)) + backend.FileExt()
	if err := os.WriteFile(sceneFile, []byte(text), 0644); err != nil {
		return fmt.Errorf("writing scene file: %w", err)
	}
	logger.Info("scene file written",
		zap.String("backend", backend.Name()),
		zap.String("file", sceneFile))

	if *flagDryRun {
		return nil
	}

	bc := cfg.Backend(backend.Name())
	output, err := render.Invoke(context.Background(), backend, sceneFile, job, render.InvokeConfig{
		Prefix:   cfg.Prefix,
		Path:     bc.Path,
		Params:   bc.Params,
		External: cfg.Render.External,
		Timeout:  cfg.Render.Timeout,
	})
	if err != nil {
		return err
	}

	fmt.Println(output)
	return nil
}
