package parse

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrSyntax is wrapped by every ParseError.
var ErrSyntax = errors.New("parse: syntax error")

// ParseError reports malformed input. Pos is a byte offset into Input.
type ParseError struct {
	Reason string
	Pos    int
	Input  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at position %d: %s", e.Pos, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrSyntax
}

// Highlight renders the input with a caret under the offending character.
func (e *ParseError) Highlight() string {
	pos := e.Pos
	if pos < 0 {
		pos = 0
	}
	if pos > len(e.Input) {
		pos = len(e.Input)
	}
	col := utf8.RuneCountInString(e.Input[:pos])

	var b strings.Builder
	b.WriteString(e.Input)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", col))
	b.WriteString("^ ")
	b.WriteString(e.Reason)
	return b.String()
}
