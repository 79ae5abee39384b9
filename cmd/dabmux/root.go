/*
NAME
  root.go - dabmux command line interface.

DESCRIPTION
  NewCommand builds the cobra root command, following the pack's
  NewCommand(version, commit string) *cobra.Command shape
  (USA-RedDragon-DMRHub/cmd/root.go): a RunE that loads configuration,
  sets up logging, wires the scheduler and blocks on a signal-driven
  graceful shutdown. Logging setup itself - lumberjack file rotation
  feeding a logging.Logger, verbosity from the config file's log_level - follows
  cmd/looper/main.go's logging.New(verbosity, io.Writer, suppress)
  construction rather than DMRHub's slog/tint stack, since dabmux
  carries the ausocean logging package, not DMRHub's.

AUTHOR
  dabmux contributors

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Command dabmux runs a standalone DAB/DAB+ multiplexer core that
// reads per-subchannel octet streams and emits ETI(NI) and/or EDI
// frame streams on a fixed frame-period tick.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/dabmux/observer"
	"github.com/ausocean/utils/logging"
)

// shutdownTimeout bounds how long Stop is given to finish the current
// tick and release readers/sinks once a shutdown signal arrives.
const shutdownTimeout = 10 * time.Second

// Logging defaults, mirroring cmd/looper/main.go's constants.
const (
	logMaxSizeMB = 100
	logMaxBackup = 5
	logMaxAgeDay = 28
)

// NewCommand builds the dabmux root command.
func NewCommand(version string) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:     "dabmux",
		Short:   "Run a DAB/DAB+ multiplexer core producing ETI/EDI frame streams",
		Version: version,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRoot(cmd.Context(), configPath)
		},
		SilenceErrors:     true,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the dabmux YAML configuration file (required)")
	cmd.MarkFlagRequired("config")

	return cmd
}

func runRoot(ctx context.Context, configPath string) error {
	fc, err := loadFileConfig(configPath)
	if err != nil {
		return err
	}

	log, closeLog := setupLogger(fc)
	defer closeLog()

	runID := uuid.New()
	log.Info("dabmux: starting run", "run_id", runID.String())

	cfg, err := fc.toConfig(log)
	if err != nil {
		return err
	}

	obs := observer.NewPrometheusObserver()
	sched, teardown, err := buildScheduler(cfg, obs, log)
	if err != nil {
		return err
	}
	defer teardown()

	metricsCtx, cancelMetrics := context.WithCancel(ctx)
	defer cancelMetrics()
	if fc.MetricsAddr != "" {
		go func() {
			if err := obs.Serve(metricsCtx, fc.MetricsAddr); err != nil {
				log.Error("dabmux: metrics server failed", "error", err.Error())
			}
		}()
	}

	sched.Start()
	log.Info("dabmux: scheduler started")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info("dabmux: received signal, shutting down", "signal", s.String())
	case <-ctx.Done():
	}

	stopped := make(chan struct{})
	go func() {
		sched.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		log.Info("dabmux: scheduler stopped cleanly")
	case <-time.After(shutdownTimeout):
		log.Warning("dabmux: shutdown timed out waiting for scheduler")
	}

	return nil
}

func setupLogger(fc *fileConfig) (logging.Logger, func()) {
	verbosity := parseVerbosity(fc.LogLevel)

	var out *lumberjack.Logger
	if fc.LogPath != "" {
		out = &lumberjack.Logger{
			Filename:   fc.LogPath,
			MaxSize:    logMaxSizeMB,
			MaxBackups: logMaxBackup,
			MaxAge:     logMaxAgeDay,
		}
	}

	w := os.Stderr
	var log logging.Logger
	if out != nil {
		log = logging.New(verbosity, out, fc.Suppress)
	} else {
		log = logging.New(verbosity, w, fc.Suppress)
	}

	return log, func() {
		if out != nil {
			out.Close()
		}
	}
}

func parseVerbosity(s string) int8 {
	switch s {
	case "debug":
		return logging.Debug
	case "info", "":
		return logging.Info
	case "warning":
		return logging.Warning
	case "error":
		return logging.Error
	case "fatal":
		return logging.Fatal
	default:
		return logging.Info
	}
}
