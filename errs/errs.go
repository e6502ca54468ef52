// Package errs holds the interpreter's error sink and its sentinel errors.
//
// Every pipeline stage (scanner, parser, resolver, evaluator) reports
// through a *Sink value threaded in explicitly by the caller, rather than
// through package-level mutable state: §9 of the spec calls for replacing
// "process-wide static state with an explicit context value ... carrying
// the two flags and a diagnostic writer".
package errs

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Sentinel errors identifying which phase produced a diagnostic. Callers
// wrap them with fmt.Errorf("%w: ...", ...) and unwrap at the boundary
// with errors.Is, in the idiom of WoozyMasta-rvmat's errors.go.
var (
	ErrLex     = errors.New("lex error")
	ErrParse   = errors.New("parse error")
	ErrResolve = errors.New("resolve error")
	ErrRuntime = errors.New("runtime error")
)

// Sink collects the had-error/had-runtime-error flags the driver consults
// at phase boundaries (§2, §7) and the writer diagnostics are printed to.
type Sink struct {
	Out   io.Writer
	Color bool // style phase tags when Out is a terminal (§10.2)

	HadError        bool
	HadRuntimeError bool

	// lastErr lets tests assert which phase produced the last diagnostic
	// via errors.Is, without string-matching the rendered text.
	lastErr error
}

// NewSink builds a Sink writing to stderr, with color auto-detected.
func NewSink() *Sink {
	return &Sink{Out: os.Stderr, Color: IsTerminal(os.Stderr)}
}

// ResetStatic clears the static-error flag between REPL prompts (§7). The
// runtime-error flag is never consulted by the REPL, only by file mode.
func (s *Sink) ResetStatic() {
	s.HadError = false
}

// StaticError reports a lexer/parser/resolver diagnostic, in the exact
// wire format of §6: "[line N] Error WHERE: MESSAGE". sentinel should be
// one of ErrLex, ErrParse or ErrResolve, identifying which phase raised
// it for tests that check with errors.Is(sink.LastError(), ...) instead
// of matching message text.
func (s *Sink) StaticError(sentinel error, line int, where, format string, args ...any) {
	s.HadError = true
	s.lastErr = fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
	fmt.Fprintf(s.Out, "[line %d] %s%s: %s\n", line, s.styled("Error"), where, fmt.Sprintf(format, args...))
}

// RuntimeError reports a runtime diagnostic, in the exact wire format of
// §6: "MESSAGE\n[line N]".
func (s *Sink) RuntimeError(line int, format string, args ...any) {
	s.HadRuntimeError = true
	message := fmt.Sprintf(format, args...)
	s.lastErr = fmt.Errorf("%w: %s", ErrRuntime, message)
	fmt.Fprintf(s.Out, "%s\n[line %d]\n", message, line)
}

// LastError returns the most recently reported diagnostic wrapped around
// its phase's sentinel error, or nil if nothing has been reported yet.
func (s *Sink) LastError() error { return s.lastErr }

// styled returns label, bolded/reddened when Color is set. Only the label
// itself is styled so the surrounding "[line N] ...: MESSAGE" text that
// tests and tools match against never carries escape sequences.
func (s *Sink) styled(label string) string {
	if !s.Color {
		return label
	}
	return errorStyle.Render(label)
}

// IsTerminal reports whether w is a terminal file descriptor, used to
// decide whether diagnostic styling (§10.2) is safe to emit.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isTerminalFD(f.Fd())
}
