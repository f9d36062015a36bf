package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"mdcombine/pkg/combine"
	"mdcombine/pkg/session"
)

var combineCmd = &cobra.Command{
	Use:   "combine PATH...",
	Short: "Combine files into one document in the order given",
	Long: `Combine writes every PATH, in argument order, to a single output file.
Directories are searched for files matching --pattern. A path given twice is
written once, at its first position.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCombine,
}

func init() {
	combineCmd.Flags().StringP("output", "o", "", "output file (default from config, combined.md)")
	combineCmd.Flags().StringP("pattern", "p", "", "file name pattern used inside directories (default from config, *.md)")
	combineCmd.Flags().Bool("dry-run", false, "print the resolved order without writing")
	RootCmd.AddCommand(combineCmd)
}

func runCombine(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	pattern, _ := cmd.Flags().GetString("pattern")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if output == "" {
		output = cfg.Output
	}

	collector, err := newCollector(pattern)
	if err != nil {
		return err
	}

	notifier := newTerminal(cmd.OutOrStdout(), cmd.ErrOrStderr(), false)
	s := session.New(
		combine.New(combine.Options{Workers: cfg.Workers}, logger),
		notifier,
		session.Options{DefaultExt: cfg.DefaultExt, Expander: collector},
		logger,
	)
	if _, err := s.Add(args); err != nil {
		return err
	}

	if dryRun {
		for i, p := range s.Entries() {
			fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, p)
		}
		return nil
	}

	if _, err := s.Generate(cmd.Context(), output); err != nil {
		return reportedError{err}
	}
	return nil
}
