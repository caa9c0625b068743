package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/fraudlens/internal/buildinfo"
	"github.com/cleared-dev/fraudlens/internal/config"
	"github.com/cleared-dev/fraudlens/internal/logger"
)

// app carries state shared by every subcommand once the root pre-run has
// loaded the config.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg *config.Config
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "fraudlens",
		Short:   "Fraud analytics for transaction datasets",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", config.FileName, "config file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (overrides config)")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format: auto, console or json (overrides config)")

	rootCmd.AddCommand(
		newInitCommand(),
		newSummaryCommand(a),
		newPreprocessCommand(a),
		newTrainCommand(a),
		newRunCommand(a),
		newSchemaCommand(a),
		newWatchCommand(a),
		newDatasetsCommand(a),
		newGenerateCommand(a),
	)

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadOrDefault(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Logging.Format = a.logFormat
	}
	a.cfg = cfg

	log, err := logger.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("configuring logger: %w", err)
	}
	cmd.SetContext(logger.WithContext(cmd.Context(), log))
	return nil
}

// source returns the dataset named on the command line, or the configured
// default resolved against the config file's directory.
func (a *app) source(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return a.projectPath(a.cfg.Dataset.DefaultPath)
}

// projectPath resolves p against the directory holding the config file.
func (a *app) projectPath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(a.configPath), p)
}
