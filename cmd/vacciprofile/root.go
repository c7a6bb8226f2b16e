package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vacciprofile/internal/app"
	"vacciprofile/internal/catalog"
	"vacciprofile/internal/config"
	"vacciprofile/internal/dataset"
	"vacciprofile/internal/logging"
	"vacciprofile/internal/observability"
)

// cli carries state shared by the subcommands of one invocation.
type cli struct {
	configPath string
	logLevel   string
	logFile    string

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{logger: zap.NewNop()}
	root := &cobra.Command{
		Use:          "vacciprofile",
		Short:        "Browse vaccines, the pathogens they target and their manufacturers",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = c.logger.Sync()
		},
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "override the configured log level")
	root.PersistentFlags().StringVar(&c.logFile, "log-file", "", "write logs to this file instead of stderr")

	root.AddCommand(
		newServeCmd(c),
		newBrowseCmd(c),
		newQueryCmd(c),
		newVersionCmd(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	if cmd.Name() == "version" {
		return nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Logging.Level = c.logLevel
	}
	c.cfg = cfg

	var outputs []string
	switch {
	case c.logFile != "":
		outputs = []string{c.logFile}
	case cmd.Name() == "browse":
		// The terminal belongs to the browser.
		return nil
	}
	logger, err := logging.New(cfg.Logging, outputs...)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	c.logger = logger
	return nil
}

// loadCatalog opens the configured dataset and loads it once.
func (c *cli) loadCatalog(ctx context.Context, rec observability.Recorder) (*catalog.Catalog, app.Dataset, *dataset.Loader, error) {
	d, err := app.OpenDataset(ctx, c.cfg.Dataset)
	if err != nil {
		return nil, app.Dataset{}, nil, err
	}
	loader := dataset.NewLoader(d.Source, dataset.WithLogger(c.logger), dataset.WithRecorder(rec))
	cat, err := loader.Load(ctx)
	if err != nil {
		_ = d.Close()
		return nil, app.Dataset{}, nil, fmt.Errorf("load catalogue: %w", err)
	}
	return cat, d, loader, nil
}
