// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Pmemd hosts the physical-memory device driver as a userspace daemon.
// It creates the pmem and pmem_info device nodes, serves raw physical
// memory and the memory-layout metadata document through them, and
// exposes runtime controls (logging verbosity, layout snapshots)
// through the dynamic configuration registry.
//
// On startup:
//  1. Loads configuration from --config, PMEM_CONFIG, or defaults.
//  2. Acquires the driver resource chain: allocation tag, lock groups,
//     major number, device nodes, collaborator subsystems.
//  3. Waits for SIGINT or SIGTERM.
//  4. Rolls the resource chain back in reverse dependency order.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/pmem/devfs"
	"github.com/bureau-foundation/pmem/driver"
	"github.com/bureau-foundation/pmem/lib/config"
	"github.com/bureau-foundation/pmem/lib/logging"
	"github.com/bureau-foundation/pmem/lib/sysctl"
	"github.com/bureau-foundation/pmem/lib/version"
	"github.com/bureau-foundation/pmem/meta"
	"github.com/bureau-foundation/pmem/physmem"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath  string
		devDir      string
		logLevel    string
		logFormat   string
		showVersion bool
	)

	pflag.StringVar(&configPath, "config", "", "path to the pmem.yaml config file (overrides PMEM_CONFIG)")
	pflag.StringVar(&devDir, "dev-dir", "", "directory for device nodes (overrides config)")
	pflag.StringVar(&logLevel, "log-level", "", "log verbosity: error, warn, info, debug (overrides config)")
	pflag.StringVar(&logFormat, "log-format", "", "log format: text or json (overrides config)")
	pflag.BoolVar(&showVersion, "version", false, "print version information and exit")
	pflag.Parse()

	if showVersion {
		fmt.Printf("pmemd %s\n", version.Info())
		return nil
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if devDir != "" {
		cfg.Devices.Dir = devDir
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}

	level, err := logging.Parse(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger, levelVar := logging.New(logging.Options{Level: level, Format: cfg.Log.Format})
	slog.SetDefault(logger)

	registry := sysctl.NewRegistry()
	host := devfs.New(devfs.Config{
		Dir:    cfg.Devices.Dir,
		GID:    cfg.Devices.Group,
		Logger: logger,
	})
	metaService := meta.NewService(meta.Config{
		Registry: registry,
		Logger:   logger,
	})
	mapper := physmem.NewMapper(physmem.Config{
		Path:   cfg.Memory.Source,
		Logger: logger,
	})

	manager, err := driver.NewManager(driver.Config{
		Host:           host,
		Registry:       registry,
		Meta:           metaService,
		PageTable:      mapper,
		Memory:         &physmem.Reader{Mapper: mapper},
		LogLevel:       levelVar,
		Logger:         logger,
		PreferredMajor: cfg.Devices.PreferredMajor,
		NodeMode:       cfg.NodeMode(),
		MemoryName:     cfg.Devices.MemoryName,
		InfoName:       cfg.Devices.InfoName,
	})
	if err != nil {
		return err
	}

	if err := manager.Load(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	logger.Info("shutdown signal received")

	return manager.Unload()
}

// loadConfig resolves the configuration source: an explicit flag wins,
// then PMEM_CONFIG, then built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	if os.Getenv("PMEM_CONFIG") != "" {
		return config.Load()
	}
	return config.Default(), nil
}
