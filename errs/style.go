package errs

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// errorStyle bolds and reddens the "Error" tag of static diagnostics when
// they are written to a terminal (§10.2). Runtime diagnostics carry no
// tag and are never styled.
var errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

func isTerminalFD(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
