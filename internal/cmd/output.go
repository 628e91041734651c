package cmd

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/cli/go-gh/v2/pkg/tableprinter"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

const defaultWidth = 80

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// newTable returns a table printer for w. Headers are styled only
// when w is a terminal.
func newTable(w io.Writer, headers ...string) tableprinter.TablePrinter {
	tty := isTerminal(w)

	width := defaultWidth
	if f, ok := w.(*os.File); ok && tty {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil {
			width = cols
		}
	}

	table := tableprinter.New(w, tty, width)

	for _, header := range headers {
		if tty {
			table.AddField(header, tableprinter.WithColor(func(s string) string { return headerStyle.Render(s) }))
		} else {
			table.AddField(header)
		}
	}
	table.EndRow()

	return table
}
