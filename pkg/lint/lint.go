package lint

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapfluff/pkg/segment"
	"github.com/leapstack-labs/leapfluff/pkg/token"
)

// Severity indicates the importance of a diagnostic.
type Severity int

// Severity levels for diagnostics.
const (
	// SeverityError indicates a critical issue that should be fixed.
	SeverityError Severity = iota
	// SeverityWarning indicates a potential issue that should be reviewed.
	SeverityWarning
	// SeverityInfo indicates informational feedback.
	SeverityInfo
	// SeverityHint indicates a suggestion for improvement.
	SeverityHint
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// ParseSeverity is the inverse of Severity.String.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return SeverityError, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "info":
		return SeverityInfo, nil
	case "hint":
		return SeverityHint, nil
	}
	return 0, fmt.Errorf("unknown severity %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// DialectInfo is the part of a dialect rules may consult. Implemented by
// dialect.Dialect.
type DialectInfo interface {
	Name() string
	IsReservedWord(word string) bool
}

// RuleDef is a data-driven rule definition. Rules are stateless; all
// context comes in through Check.
type RuleDef struct {
	ID          string    // Unique identifier, e.g. "AM01"
	Name        string    // Human-readable name, e.g. "ambiguous.distinct"
	Group       string    // Category, e.g. "ambiguous", "convention"
	Description string    // Human-readable description
	Severity    Severity  // Default severity
	Check       CheckFunc // The check function
	ConfigKeys  []string  // Rule-specific options
	Dialects    []string  // Restrict to specific dialects; empty means all
	Scope       Scope     // What Check receives

	Rationale   string
	BadExample  string
	GoodExample string
}

// AppliesTo reports whether the rule runs for the named dialect.
func (r RuleDef) AppliesTo(dialectName string) bool {
	if len(r.Dialects) == 0 {
		return true
	}
	for _, d := range r.Dialects {
		if strings.EqualFold(d, dialectName) {
			return true
		}
	}
	return false
}

// Scope selects the node a rule's Check function receives.
type Scope int

// Rule scopes.
const (
	// ScopeStatement runs Check once per top-level statement.
	ScopeStatement Scope = iota
	// ScopeFile runs Check once with the file node, for rules that compare
	// statements with each other.
	ScopeFile
)

// CheckFunc inspects a node of the tree and returns diagnostics.
type CheckFunc func(stmt *segment.Segment, dialect DialectInfo, opts map[string]any) []Diagnostic

// Diagnostic represents a lint finding.
type Diagnostic struct {
	RuleID   string         `json:"rule"`
	Severity Severity       `json:"severity"`
	Message  string         `json:"message"`
	Pos      token.Position `json:"pos"`
	EndPos   token.Position `json:"end_pos"`
	Fixes    []Fix          `json:"fixes,omitempty"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("L:%3d | P:%3d | %-4s | %s", d.Pos.Line, d.Pos.Column, d.RuleID, d.Message)
}

// Fix represents a suggested code fix.
type Fix struct {
	Description string     `json:"description"`
	TextEdits   []TextEdit `json:"edits"`
}

// TextEdit represents a text replacement.
type TextEdit struct {
	Pos     token.Position `json:"pos"`
	EndPos  token.Position `json:"end_pos"`
	NewText string         `json:"new_text"`
}

// At returns a diagnostic spanning seg.
func At(seg *segment.Segment, ruleID string, sev Severity, msg string) Diagnostic {
	span := seg.Span()
	return Diagnostic{RuleID: ruleID, Severity: sev, Message: msg, Pos: span.Start, EndPos: span.End}
}

// Replace returns a fix replacing the text of seg.
func Replace(seg *segment.Segment, desc, text string) Fix {
	span := seg.Span()
	return Fix{Description: desc, TextEdits: []TextEdit{{Pos: span.Start, EndPos: span.End, NewText: text}}}
}
