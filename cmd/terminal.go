package cmd

import (
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"mdcombine/pkg/session"
)

// terminal shows session feedback on a text stream. Status lines are only
// printed when showStatus is set; notifications always are, errors and
// warnings on errOut.
type terminal struct {
	out        io.Writer
	errOut     io.Writer
	showStatus bool
}

func newTerminal(out, errOut io.Writer, showStatus bool) *terminal {
	return &terminal{out: out, errOut: errOut, showStatus: showStatus}
}

func (t *terminal) Status(msg string) {
	if t.showStatus {
		color.New(color.Faint).Fprintf(t.out, "[%s]\n", msg)
	}
}

func (t *terminal) Notify(level session.Level, title, msg string) {
	switch level {
	case session.LevelError:
		color.New(color.FgRed, color.Bold).Fprintf(t.errOut, "%s: %s\n", title, msg)
	case session.LevelWarning:
		color.New(color.FgYellow).Fprintf(t.errOut, "%s: %s\n", title, msg)
	default:
		color.New(color.FgGreen).Fprintf(t.out, "%s: %s\n", title, msg)
	}
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
