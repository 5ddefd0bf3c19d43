// Package diagnostics formats the categorized, non-hierarchical errors
// spec.md §7 describes ("<category> error: <message>", color-coded) and
// implements the *LomdaError type every evaluate/differentiate/infer
// method in internal/interp, internal/calculus, and internal/typeinfer
// returns on failure.
//
// The teacher hand-rolls ANSI escapes in internal/errors/errors.go; per
// SPEC_FULL.md's ambient-stack section Lomda instead uses
// github.com/fatih/color (as hashicorp-nomad's dependency graph does) and
// github.com/mattn/go-isatty (as funvibe-funxy's does) to decide whether
// color is appropriate for the current stream.
package diagnostics

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/lomda-lang/lomda/internal/token"
)

// Category tags a LomdaError the way spec.md §7 enumerates: parser,
// type, runtime, calculus, IO, warning. Categories are siblings, not a
// hierarchy — there is no "is-a" relationship among them.
type Category string

const (
	Parser  Category = "parser"
	Type    Category = "type"
	Runtime Category = "runtime"
	Calculus Category = "calculus"
	IO      Category = "IO"
	Warning Category = "warning"
)

// LomdaError is the single error type every operation in the core
// returns. It carries a category, a message, and the source position the
// failure was detected at, mirroring the teacher's
// internal/errors.CompilerError (position + message) generalized with the
// category tag spec.md §7 requires.
type LomdaError struct {
	Category Category
	Message  string
	Pos      token.Position
}

func New(cat Category, pos token.Position, format string, args ...any) *LomdaError {
	return &LomdaError{Category: cat, Message: fmt.Sprintf(format, args...), Pos: pos}
}

func (e *LomdaError) Error() string {
	return fmt.Sprintf("%s error: %s (%d:%d)", e.Category, e.Message, e.Pos.Line, e.Pos.Column)
}

// IsWarning reports whether e is a warning-category diagnostic — callers
// (cmd/lomda's run/repl paths) use this to decide whether --werror should
// promote it to a fatal abort.
func (e *LomdaError) IsWarning() bool { return e.Category == Warning }

// colorFor returns the fatih/color attribute set for a category: red for
// hard errors, yellow for warnings (Debug applies blue to verbose traces
// itself) — the palette spec.md §7 names.
func colorFor(cat Category) *color.Color {
	switch cat {
	case Warning:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

// shouldColor decides whether w should receive ANSI escapes: only when it
// is a terminal, per funvibe-funxy's go-isatty-gated color wiring.
func shouldColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Print writes e to w in the "<category> error: <message>" format,
// color-coded when w is a terminal.
func Print(w io.Writer, e *LomdaError) {
	label := fmt.Sprintf("%s error: %s", e.Category, e.Message)
	if shouldColor(w) {
		colorFor(e.Category).Fprintln(w, label)
		return
	}
	fmt.Fprintln(w, label)
}

// Debug writes a verbose step-by-step trace line in blue (when colored),
// used by internal/interp when config.Verbose is
// set — the "additional step-by-step proof/evaluation traces" §7 calls
// for.
func Debug(w io.Writer, format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if shouldColor(w) {
		color.New(color.FgBlue).Fprintln(w, line)
		return
	}
	fmt.Fprintln(w, line)
}

// FormatSourceContext renders the offending source line with a caret
// under the error column, in the teacher's CompilerError.Format style.
func FormatSourceContext(source string, pos token.Position) string {
	lines := strings.Split(source, "\n")
	if pos.Line < 1 || pos.Line > len(lines) {
		return ""
	}
	line := lines[pos.Line-1]
	prefix := fmt.Sprintf("%4d | ", pos.Line)
	caret := strings.Repeat(" ", len(prefix)+pos.Column-1) + "^"
	return prefix + line + "\n" + caret
}
