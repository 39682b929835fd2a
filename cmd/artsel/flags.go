package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tturner/artsel/internal/catalog"
	"github.com/tturner/artsel/internal/config"
	"github.com/tturner/artsel/internal/logging"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	baseURL    string
	pageSize   int
	logLevel   string
	logFile    string
}

func (g *globalFlags) register(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&g.configPath, "config", config.DefaultPath, "Path to the YAML config file")
	flags.StringVar(&g.baseURL, "base-url", "", "Catalog endpoint (overrides api.base_url)")
	flags.IntVar(&g.pageSize, "page-size", 0, "Rows per page, 1-100 (overrides api.page_size)")
	flags.StringVar(&g.logLevel, "log-level", "", "Log level: silent|error|info|verbose|debug")
	flags.StringVar(&g.logFile, "log-file", "", "Append JSON logs to this file")
}

// loadConfig reads the config file and applies flag overrides. The file is
// required only when --config was given explicitly.
func (g *globalFlags) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	required := cmd.Flags().Changed("config")
	cfg, err := config.LoadConfig(g.configPath, required)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.API.BaseURL = g.baseURL
	}
	if flags.Changed("page-size") {
		cfg.API.PageSize = g.pageSize
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = g.logLevel
	}
	if flags.Changed("log-file") {
		cfg.Logging.File = g.logFile
	}

	config.ApplyDefaults(cfg)
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return cfg, nil
}

// newLogger builds the logger for a command. A nil console keeps logs off
// the terminal entirely.
func newLogger(cfg *config.Config, console io.Writer) (*logging.Logger, error) {
	return logging.NewLoggerWithOptions(logging.Options{
		Level:   cfg.LogLevel(),
		File:    cfg.Logging.File,
		Console: console,
	})
}

// setup loads config, opens the logger and builds the catalog client.
func (g *globalFlags) setup(cmd *cobra.Command, console io.Writer) (*config.Config, *logging.Logger, *catalog.Client, error) {
	cfg, err := g.loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := newLogger(cfg, console)
	if err != nil {
		return nil, nil, nil, err
	}
	client, err := catalog.NewClient(catalog.OptionsFromConfig(cfg, logger))
	if err != nil {
		logger.Close()
		return nil, nil, nil, err
	}
	logger.LogStartup(cmd.Name(), cfg.API.BaseURL, cfg.API.PageSize, g.configPath)
	return cfg, logger, client, nil
}
