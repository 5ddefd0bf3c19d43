package parser

import (
	"fmt"

	"github.com/lomda-lang/lomda/internal/token"
)

// SyntaxError is a structured parse failure with source position, mirroring
// the teacher's ParserError (internal/parser/error.go): a message plus a
// position rather than a bare string, so callers can render source context.
type SyntaxError struct {
	Message string
	Pos     token.Position
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at %d:%d", e.Message, e.Pos.Line, e.Pos.Column)
}

// Ambiguity records a parse point where more than one production could have
// matched (spec.md §9's "ambiguity-detection path"). It is reported as a
// warning-category diagnostic by internal/diagnostics and is only promoted
// to a fatal error under --werror.
type Ambiguity struct {
	Message string
	Pos     token.Position
}
