// Package cli implements predictorctl, the operator CLI for the rank predictor
package cli

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/yigit/rankpredictor/internal/app/services"
	"github.com/yigit/rankpredictor/internal/catalog"
	"github.com/yigit/rankpredictor/internal/config"
	"github.com/yigit/rankpredictor/internal/output"
	"github.com/yigit/rankpredictor/internal/pkg/logger"
)

var (
	// Version info set from main
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// SetVersionInfo sets version information from build flags
func SetVersionInfo(v, c, b string) {
	version = v
	commit = c
	buildTime = b
}

// app holds the global flags and the state derived from them
type app struct {
	configPath  string
	catalogPath string
	outputFmt   string
	colorMode   string
	verbose     bool

	printer *output.Printer
	logger  zerolog.Logger
}

// NewRootCommand builds the predictorctl command tree
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "predictorctl",
		Short: "Operator CLI for the college rank predictor",
		Long: `predictorctl inspects the filter catalog and runs predictions
against a cutoff fixture or the configured database.

Example usage:
  predictorctl resolve iit-delhi JEE-Advanced
  predictorctl exam-types dtu-delhi
  predictorctl predict --sample --rank 5000 --exam JEE-Main --seat-type OPEN --home-state Delhi
  predictorctl catalog validate configs/catalog.example.yaml
  predictorctl rounds sort "Round-10" "CSAB-1" "Round-2"
  predictorctl token issue --subject ops@example.com`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "configs/config.yaml", "config file, needed for database access and tokens")
	flags.StringVar(&a.catalogPath, "catalog", "", "catalog overlay file (default: built-in catalog)")
	flags.StringVarP(&a.outputFmt, "output", "o", "table", "output format (table, json)")
	flags.StringVar(&a.colorMode, "color", "auto", "color output (auto, always, never)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "verbose logging")

	root.AddCommand(
		newResolveCmd(a),
		newExamTypesCmd(a),
		newPredictCmd(a),
		newCatalogCmd(a),
		newRoundsCmd(a),
		newTokenCmd(a),
		newVersionCmd(a),
	)
	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}

func (a *app) init(cmd *cobra.Command) error {
	format, err := output.ParseFormat(a.outputFmt)
	if err != nil {
		return err
	}
	mode, err := output.ParseColorMode(a.colorMode)
	if err != nil {
		return err
	}
	a.printer = output.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), format, output.ResolveColors(mode))

	level := "warn"
	if a.verbose {
		level = "debug"
	}
	cfg := logger.FromSettings(level, "text")
	cfg.Output = cmd.ErrOrStderr()
	logger.Configure(cfg)
	a.logger = logger.Component("predictorctl")
	return nil
}

// loadConfig reads the config file. Only commands that touch the database
// or sign tokens need it.
func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func (a *app) loadCatalog() (*catalog.Catalog, error) {
	if a.catalogPath == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.LoadFile(a.catalogPath, catalog.DefaultDefinition())
	if err != nil {
		for _, p := range catalog.Problems(err) {
			a.printer.Error("%s", p)
		}
		return nil, fmt.Errorf("loading catalog %s: %w", a.catalogPath, err)
	}
	return cat, nil
}

func (a *app) filterService() (services.FilterConfigService, error) {
	cat, err := a.loadCatalog()
	if err != nil {
		return nil, err
	}
	return services.NewFilterConfigService(cat, a.logger), nil
}

func (a *app) out() io.Writer {
	return a.printer.Out()
}
