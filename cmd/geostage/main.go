// Package main is the entry point for the geostage renderer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/geostage/internal/config"
	"github.com/Faultbox/geostage/internal/engine/debug"
	"github.com/Faultbox/geostage/internal/engine/framebuffer"
	"github.com/Faultbox/geostage/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== geostage ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	s, err := buildDemo(cfg)
	if err != nil {
		logger.Error("failed to build scene", zap.Error(err))
		os.Exit(1)
	}

	fb := framebuffer.New(cfg.Render.Width, cfg.Render.Height)
	capture := debug.NewScreenshotCapture(cfg.Output.Dir, cfg.Output.Prefix)

	paths, err := render(s, fb, capture, cfg.Output.Frames)
	if err != nil {
		logger.Error("render failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("done", zap.Int("frames", len(paths)), zap.String("dir", capture.OutputDir()))
}
