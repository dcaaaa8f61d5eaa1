package main

import (
	"flag"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"blueprint"
)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

func parseLevel(s string) log.Level {
	switch s {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func main() {
	var (
		configPath = flag.String("config", "", "path to a blueprint.toml")
		scriptPath = flag.String("script", "", "script to evaluate (overrides config)")
		tick       = flag.Duration("tick", 0, "scheduler tick interval (overrides config)")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	cfg := blueprint.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = blueprint.LoadConfig(*configPath); err != nil {
			log.Fatal("config", "err", err)
		}
	}
	if *scriptPath != "" {
		cfg.Script = *scriptPath
	}
	if *tick > 0 {
		cfg.TickInterval = blueprint.Duration(*tick)
	}

	level := parseLevel(cfg.LogLevel)
	if *verbose {
		level = log.DebugLevel
	}
	// The terminal belongs to the UI; logs go to stderr.
	logger := newLogger(os.Stderr, level)

	if cfg.Script == "" {
		logger.Fatal("no script given; use -script or a config file")
	}
	src, err := os.ReadFile(cfg.Script)
	if err != nil {
		logger.Fatal("read script", "err", err)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		logger.Fatal("stdout is not a terminal")
	}

	root := blueprint.NewRoot(
		blueprint.WithLogger(logger),
		blueprint.WithTickInterval(time.Duration(cfg.TickInterval)),
	)

	p := tea.NewProgram(blueprint.NewProgram(root, string(src)), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Fatal("run", "err", err)
	}
}
