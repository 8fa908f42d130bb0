package grammar

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/leapfluff/pkg/segment"
	"github.com/leapstack-labs/leapfluff/pkg/token"
)

// Sentinel errors.
var (
	// ErrUnknownRule is returned when a Ref names a rule the dialect does
	// not define.
	ErrUnknownRule = errors.New("unknown grammar rule")
	// ErrOverlap is returned when a match result tries to apply
	// overlapping children.
	ErrOverlap = errors.New("overlapping match results")
)

// Error messages raised during matching.
const (
	ErrMsgUnclosedBracket   = "Couldn't find closing bracket for opening bracket."
	ErrMsgUnexpectedBracket = "Found unexpected end bracket!"
)

// ParseError is a structural error found while matching, such as an
// unbalanced bracket.
type ParseError struct {
	Pos     token.Position
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func newParseError(seg *segment.Segment, msg string) *ParseError {
	var pos token.Position
	if seg != nil {
		pos = seg.Pos
	}
	return &ParseError{Pos: pos, Message: msg}
}
