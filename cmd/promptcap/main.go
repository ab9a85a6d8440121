package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/promptcap/promptcap/internal/capture"
	"github.com/promptcap/promptcap/internal/cli"
	"github.com/promptcap/promptcap/internal/config"
	"github.com/promptcap/promptcap/internal/db"
	"github.com/promptcap/promptcap/internal/prompts"
	"github.com/promptcap/promptcap/internal/repository"
	"github.com/promptcap/promptcap/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := config.DefaultPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	database, err := db.Open(cfg.HistoryDB)
	if err != nil {
		return fmt.Errorf("opening history database: %w", err)
	}
	defer database.Close()

	runRepo := repository.NewSQLiteRunRepo(database)
	annotationRepo := repository.NewSQLiteAnnotationRepo(database)

	isInteractive := func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	captureCfg := capture.Config{
		PtyCols:          cfg.Capture.PtyCols,
		PtyRows:          cfg.Capture.PtyRows,
		KillGrace:        time.Duration(cfg.Capture.EscalationTimeoutMS) * time.Millisecond,
		TerminalPrograms: cfg.Capture.TerminalPrograms,
		IsTTY:            isInteractive,
	}
	controller := capture.NewController(captureCfg)

	// Chunk logs land next to the history database.
	outputDir := filepath.Join(filepath.Dir(cfg.HistoryDB), "output")

	store := prompts.NewStore(cfg.PromptsDir)

	app := &cli.App{
		Runs:          service.NewRunService(controller, runRepo, outputDir, cfg.Capture.MaxOutputBytes),
		Prompts:       service.NewPromptService(store),
		History:       service.NewHistoryService(runRepo, annotationRepo),
		Config:        cfg,
		ConfigPath:    configPath,
		IsInteractive: isInteractive,
	}

	return cli.NewRootCmd(app).Execute()
}
