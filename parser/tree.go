package parser

import (
	"github.com/nano-lang/nnc/grammar"
	"github.com/nano-lang/nnc/token"
)

// Options tune BuildTreeWith.
type Options struct {
	// RetainGhosts keeps ghost tokens in the tree (a concrete tree).
	RetainGhosts bool
	// MaxDepth bounds rule nesting, DefaultMaxDepth when zero.
	MaxDepth int
}

// BuildTree matches the rule named start against tokens and returns the tree
// rooted at that rule. Trailing tokens the rule did not consume are not an
// error; check AST.Consumed or AST.Remaining for whole-input parses.
func BuildTree(source string, tokens []token.Token, table *grammar.Table, start string, retainGhosts bool) (*AST, error) {
	return BuildTreeWith(source, tokens, table, start, Options{RetainGhosts: retainGhosts})
}

// BuildTreeWith is BuildTree with explicit options.
func BuildTreeWith(source string, tokens []token.Token, table *grammar.Table, start string, opts Options) (*AST, error) {
	seq, ok := table.Lookup(start)
	if !ok {
		return nil, unknownRule(start)
	}

	ctx := &Context{
		Source:       source,
		Table:        table,
		RetainGhosts: opts.RetainGhosts,
		MaxDepth:     opts.MaxDepth,
		rule:         start,
	}
	r, err := Match(tokens, 0, seq, ctx)
	if err != nil {
		return nil, err
	}

	return &AST{
		Root:     &Node{MatchedWith: start, Content: r.Content},
		Abstract: !opts.RetainGhosts,
		Consumed: r.Consumed,
	}, nil
}
