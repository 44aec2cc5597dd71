package parser

import (
	"errors"
	"fmt"

	"github.com/nano-lang/nnc/grammar"
	"github.com/nano-lang/nnc/token"
)

var (
	// ErrNoMatch is returned when the tokens do not match the rule.
	ErrNoMatch = errors.New("no match")
	// ErrUnknownRule is returned when a rule name is not in the table.
	ErrUnknownRule = errors.New("unknown rule")
	// ErrDepthExceeded is returned when rule nesting goes beyond the depth limit.
	ErrDepthExceeded = errors.New("rule depth limit exceeded")
)

// MatchError describes the farthest point the interpreter reached before
// failing. It wraps ErrNoMatch.
type MatchError struct {
	Rule     string // rule being matched at the failure point, may be empty
	Expected grammar.SingleToken
	Index    int // index of the offending token, len(tokens) when input ran out
	Found    token.Token
	AtEnd    bool
	Line     int
	Col      int
}

func (e *MatchError) Error() string {
	where := "end of input"
	if !e.AtEnd {
		where = e.Found.Kind.String()
	}
	msg := fmt.Sprintf("expected %s, found %s at Ln %d, Col %d", e.Expected, where, e.Line, e.Col)
	if e.Rule != "" {
		msg = fmt.Sprintf("rule %q: %s", e.Rule, msg)
	}
	return msg
}

func (e *MatchError) Unwrap() error { return ErrNoMatch }

func unknownRule(name string) error {
	return fmt.Errorf("%w %q", ErrUnknownRule, name)
}
