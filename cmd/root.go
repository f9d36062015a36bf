package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mdcombine/pkg/collect"
	"mdcombine/pkg/config"
	"mdcombine/pkg/ignore"
	"mdcombine/pkg/logging"
	"mdcombine/pkg/version"
)

var (
	cfgFile string
	debug   bool

	cfg    = config.Default()
	logger = zap.NewNop()
)

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "mdcombine",
	Short: "mdcombine joins text documents into one file in a chosen order",
	Long: `mdcombine concatenates markdown and other text files into a single document.
Each file is preceded by a marker naming it:

  <!-- File: intro.md -->

Use "combine" to join files in the order given, or "arrange" to build and
reorder the list interactively before writing it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		c, err := config.Load(wd, cfgFile)
		if err != nil {
			return err
		}
		if debug {
			c.Debug = true
		}
		cfg = c

		l, err := logging.New(cfg.Debug, "mdcombine", version.Get().Version)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		logger.Debug("Loaded configuration", zap.Any("config", cfg))
		return nil
	},
}

// reportedError wraps an error that has already been shown to the user.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

// Execute runs the root command and prints any error not yet reported.
func Execute() error {
	err := RootCmd.Execute()
	var reported reportedError
	if err != nil && !errors.As(err, &reported) {
		fmt.Fprintln(RootCmd.ErrOrStderr(), "Error:", err)
	}
	return err
}

// Logger returns the logger configured for the last command run.
func Logger() *zap.Logger {
	return logger
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default .mdcombine.yaml in the working directory)")
	RootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// newCollector builds a Collector from the ignore files and rules in the
// loaded configuration.
func newCollector(pattern string) (*collect.Collector, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	// Global, local and config rules all apply relative to the working directory.
	m, err := ignore.Load(wd, logger, cfg.GlobalIgnore, filepath.Join(wd, ignore.FileName))
	if err != nil {
		return nil, fmt.Errorf("failed to load ignore patterns: %w", err)
	}
	m.AddLines(cfg.Ignore...)
	logger.Debug("Loaded ignore patterns", zap.Int("totalPatterns", m.Len()))

	if pattern == "" {
		pattern = cfg.Pattern
	}
	return collect.New(pattern, m, logger)
}
