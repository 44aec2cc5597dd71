// Package parser interprets a grammar.Table over a token sequence and builds
// syntax trees.
package parser

import (
	"errors"
	"fmt"

	"github.com/nano-lang/nnc/grammar"
	"github.com/nano-lang/nnc/token"
)

// DefaultMaxDepth bounds rule nesting when Context.MaxDepth is zero.
const DefaultMaxDepth = 1000

// Context carries what a match needs besides the tokens.
// It records failure information while matching, so a Context must not be
// shared between concurrent calls.
type Context struct {
	Source       string
	Table        *grammar.Table
	RetainGhosts bool
	MaxDepth     int

	rule     string
	depth    int
	farthest failure
}

type failure struct {
	set      bool
	index    int
	rule     string
	expected grammar.SingleToken
}

// Result is a successful match.
type Result struct {
	// Consumed counts every token advanced over, ghosts included.
	Consumed int
	// Content has one item per fragment, plus ghost Tok items before a
	// SingleToken when ghosts are retained.
	Content []Item
}

// Match matches seq against tokens starting at index pos.
// On failure it returns an error wrapping ErrNoMatch, ErrUnknownRule or
// ErrDepthExceeded; a token mismatch is reported as a *MatchError.
func Match(tokens []token.Token, pos int, seq grammar.Sequence, ctx *Context) (Result, error) {
	if ctx == nil {
		ctx = &Context{}
	}
	ctx.farthest = failure{}

	r, err := ctx.matchSequence(tokens, pos, seq)
	if err != nil {
		if errors.Is(err, ErrNoMatch) {
			return Result{}, ctx.matchError(tokens)
		}
		return Result{}, err
	}
	return r, nil
}

func (c *Context) matchSequence(tokens []token.Token, start int, seq grammar.Sequence) (Result, error) {
	pos := start
	content := make([]Item, 0, len(seq))
	for _, frag := range seq {
		n, items, err := c.matchFragment(tokens, pos, frag)
		if err != nil {
			return Result{}, err
		}
		pos += n
		content = append(content, items...)
	}
	return Result{Consumed: pos - start, Content: content}, nil
}

func (c *Context) matchFragment(tokens []token.Token, pos int, frag grammar.Fragment) (int, []Item, error) {
	switch f := frag.(type) {
	case grammar.SingleToken:
		return c.matchToken(tokens, pos, f)

	case grammar.Optional:
		r, err := c.matchSequence(tokens, pos, f.Seq)
		if err != nil {
			if errors.Is(err, ErrNoMatch) {
				return 0, []Item{Absent{}}, nil
			}
			return 0, nil, err
		}
		return r.Consumed, []Item{Grouping{Items: r.Content}}, nil

	case grammar.Many:
		n, groups, err := c.repeat(tokens, pos, f.Seq)
		if err != nil {
			return 0, nil, err
		}
		if len(groups) == 0 {
			return 0, nil, ErrNoMatch
		}
		return n, []Item{Grouping{Items: groups}}, nil

	case grammar.OptionalMany:
		n, groups, err := c.repeat(tokens, pos, f.Seq)
		if err != nil {
			return 0, nil, err
		}
		return n, []Item{Grouping{Items: groups}}, nil

	case grammar.Disjunction:
		if err := c.enter(); err != nil {
			return 0, nil, err
		}
		defer c.leave()

		for _, cs := range f.Cases {
			r, err := c.matchSequence(tokens, pos, cs)
			if err == nil {
				return r.Consumed, []Item{Grouping{Items: r.Content}}, nil
			}
			if !errors.Is(err, ErrNoMatch) {
				return 0, nil, err
			}
		}
		return 0, nil, ErrNoMatch

	case grammar.Conjunction:
		if err := c.enter(); err != nil {
			return 0, nil, err
		}
		defer c.leave()

		var last Result
		for _, cs := range f.Cases {
			r, err := c.matchSequence(tokens, pos, cs)
			if err != nil {
				return 0, nil, err
			}
			last = r
		}
		return last.Consumed, []Item{Grouping{Items: last.Content}}, nil

	case grammar.Nest:
		seq, ok := c.Table.Lookup(f.Rule)
		if !ok {
			return 0, nil, unknownRule(f.Rule)
		}
		if err := c.enter(); err != nil {
			return 0, nil, err
		}
		defer c.leave()

		outer := c.rule
		c.rule = f.Rule
		r, err := c.matchSequence(tokens, pos, seq)
		c.rule = outer
		if err != nil {
			return 0, nil, err
		}
		return r.Consumed, []Item{&Node{MatchedWith: f.Rule, Content: r.Content}}, nil

	default:
		return 0, nil, fmt.Errorf("unsupported fragment %T", frag)
	}
}

// matchToken consumes ghost tokens until it finds one that matches f.
// Ghosts are never counted as a failed attempt.
func (c *Context) matchToken(tokens []token.Token, pos int, f grammar.SingleToken) (int, []Item, error) {
	var items []Item
	for i := pos; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.Kind == f.Kind && (f.Text == "" || tok.Text(c.Source) == f.Text) {
			return i - pos + 1, append(items, Tok{Index: i}), nil
		}
		if !token.IsGhost(tok.Kind) {
			c.fail(i, f)
			return 0, nil, ErrNoMatch
		}
		if c.RetainGhosts {
			items = append(items, Tok{Index: i})
		}
	}
	c.fail(len(tokens), f)
	return 0, nil, ErrNoMatch
}

// repeat matches seq until it fails. An iteration that consumes nothing
// ends the loop after being recorded.
func (c *Context) repeat(tokens []token.Token, pos int, seq grammar.Sequence) (int, []Item, error) {
	consumed := 0
	groups := []Item{}
	for {
		r, err := c.matchSequence(tokens, pos+consumed, seq)
		if err != nil {
			if errors.Is(err, ErrNoMatch) {
				break
			}
			return 0, nil, err
		}
		groups = append(groups, Grouping{Items: r.Content})
		consumed += r.Consumed
		if r.Consumed == 0 {
			break
		}
	}
	return consumed, groups, nil
}

func (c *Context) enter() error {
	limit := c.MaxDepth
	if limit <= 0 {
		limit = DefaultMaxDepth
	}
	if c.depth >= limit {
		return fmt.Errorf("%w (%d)", ErrDepthExceeded, limit)
	}
	c.depth++
	return nil
}

func (c *Context) leave() { c.depth-- }

// fail remembers the farthest mismatch.
func (c *Context) fail(index int, expected grammar.SingleToken) {
	if c.farthest.set && index < c.farthest.index {
		return
	}
	c.farthest = failure{set: true, index: index, rule: c.rule, expected: expected}
}

func (c *Context) matchError(tokens []token.Token) error {
	f := c.farthest
	e := &MatchError{Rule: f.rule, Expected: f.expected, Index: f.index}

	offset := len(c.Source)
	switch {
	case f.index < len(tokens):
		e.Found = tokens[f.index]
		e.AtEnd = e.Found.Kind == token.EOF
		offset = e.Found.Offset
	case len(tokens) > 0:
		e.AtEnd = true
		offset = tokens[len(tokens)-1].End()
	default:
		e.AtEnd = true
	}
	e.Line, e.Col = token.LineCol(c.Source, offset)
	return e
}
