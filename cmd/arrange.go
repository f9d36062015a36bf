package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mdcombine/pkg/combine"
	"mdcombine/pkg/fileset"
	"mdcombine/pkg/session"
)

const arrangeHelp = `Commands (positions start at 1):
  add PATH...        add files, or matching files inside directories
  list               show the current order
  select N           select the entry at N
  remove [N]         remove entry N, or the selected entry
  move FROM TO       move the entry at FROM to position TO
  clear              remove every entry
  write [OUT]        combine the list into OUT
  help               show this help
  quit               leave without writing
`

var arrangeCmd = &cobra.Command{
	Use:   "arrange [PATH...]",
	Short: "Build and reorder the file list interactively, then write it",
	Long: `Arrange starts an interactive session with an ordered list of files.
Commands are read one per line from standard input; type "help" for the list.
Paths may be quoted to include spaces.`,
	RunE: runArrange,
}

func init() {
	arrangeCmd.Flags().StringP("pattern", "p", "", "file name pattern used inside directories (default from config, *.md)")
	RootCmd.AddCommand(arrangeCmd)
}

func runArrange(cmd *cobra.Command, args []string) error {
	pattern, _ := cmd.Flags().GetString("pattern")
	collector, err := newCollector(pattern)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	s := session.New(
		combine.New(combine.Options{Workers: cfg.Workers}, logger),
		newTerminal(out, cmd.ErrOrStderr(), true),
		session.Options{DefaultExt: cfg.DefaultExt, Expander: collector},
		logger,
	)
	r := &repl{session: s, out: out, defaultOutput: cfg.Output}

	if len(args) > 0 {
		if _, err := s.Add(args); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
	return r.run(cmd.Context(), cmd.InOrStdin(), isTerminal(cmd.InOrStdin()))
}

// repl maps command lines onto session operations.
type repl struct {
	session       *session.Session
	out           io.Writer
	defaultOutput string
}

func (r *repl) run(ctx context.Context, in io.Reader, prompt bool) error {
	scanner := bufio.NewScanner(in)
	for {
		if prompt {
			fmt.Fprint(r.out, "> ")
		}
		if !scanner.Scan() {
			break
		}
		if r.exec(ctx, scanner.Text()) {
			return nil
		}
	}
	return scanner.Err()
}

// exec runs one command line and reports whether the session should end.
func (r *repl) exec(ctx context.Context, line string) bool {
	fields, err := shlex.Split(line)
	if err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
		return false
	}
	if len(fields) == 0 {
		return false
	}

	name, args := strings.ToLower(fields[0]), fields[1:]
	logger.Debug("Running command", zap.String("command", name), zap.Strings("args", args))

	switch name {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		fmt.Fprint(r.out, arrangeHelp)
	case "list", "ls":
		r.list()
	case "add":
		_, err = r.session.Add(args)
	case "select":
		err = r.withIndexes(args, 1, func(ix []int) error { return r.session.Select(ix[0]) })
	case "remove", "rm":
		if len(args) == 0 {
			err = r.session.RemoveSelected()
		} else {
			err = r.withIndexes(args, 1, func(ix []int) error { return r.session.Remove(ix[0]) })
		}
	case "move", "mv", "drag":
		err = r.withIndexes(args, 2, func(ix []int) error {
			n := len(r.session.Entries())
			for _, i := range ix {
				if i < 0 || i >= n {
					return fileset.ErrIndexOutOfRange
				}
			}
			return r.session.Move(ix[0], ix[1])
		})
	case "clear":
		err = r.session.Clear()
	case "write", "generate":
		dest := r.defaultOutput
		if len(args) > 0 {
			dest = args[0]
		}
		// Other outcomes are reported through the notifier.
		if _, gerr := r.session.Generate(ctx, dest); errors.Is(gerr, session.ErrBusy) {
			err = gerr
		}
	default:
		fmt.Fprintf(r.out, "unknown command %q; type help for a list\n", name)
	}

	if err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
	}
	return false
}

// withIndexes parses exactly n one-based positions and calls fn with their
// zero-based values.
func (r *repl) withIndexes(args []string, n int, fn func([]int) error) error {
	if len(args) != n {
		return fmt.Errorf("expected %d position(s), got %d", n, len(args))
	}
	ix := make([]int, n)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return fmt.Errorf("invalid position %q", a)
		}
		ix[i] = v - 1
	}
	err := fn(ix)
	if errors.Is(err, fileset.ErrIndexOutOfRange) {
		return fmt.Errorf("no entry at that position")
	}
	return err
}

func (r *repl) list() {
	entries := r.session.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(r.out, "(no files)")
		return
	}
	selected := r.session.Selected()
	for i, p := range entries {
		marker := " "
		if i == selected {
			marker = "*"
		}
		size := "missing"
		if info, err := os.Stat(p); err == nil {
			size = humanize.Bytes(uint64(info.Size()))
		}
		fmt.Fprintf(r.out, "%s%3d. %s (%s)\n", marker, i+1, fileset.DisplayName(p), size)
	}
}
