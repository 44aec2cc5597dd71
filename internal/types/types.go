package types

import "go/token"

// Severity ranks a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARNING"
	case SeverityInfo:
		return "INFO"
	default:
		return "UNKNOWN"
	}
}

// Diagnostic kinds.
const (
	KindLexError      = "lex-error"
	KindUnknownRule   = "unknown-rule"
	KindNoMatch       = "no-match"
	KindDepthExceeded = "depth-exceeded"
	KindTrailingInput = "trailing-input"
)

// Diagnostic represents a problem found while lexing or parsing a source.
type Diagnostic struct {
	Kind     string
	Severity Severity
	Filename string
	Message  string
	Start    token.Position
	End      token.Position
}
