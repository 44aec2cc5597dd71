package parser

import "github.com/nano-lang/nnc/token"

// Item is one element of a node's content.
// The concrete types are Tok, Grouping, *Node and Absent.
type Item interface {
	item()
}

var (
	_ Item = Tok{}
	_ Item = Grouping{}
	_ Item = (*Node)(nil)
	_ Item = Absent{}
)

// Tok references a token by its index in the token sequence.
type Tok struct{ Index int }

// Grouping holds the content produced by a quantifier, a disjunction or a
// conjunction.
type Grouping struct{ Items []Item }

// Absent marks an Optional fragment that did not match.
type Absent struct{}

// Node is the content produced by a named rule.
type Node struct {
	MatchedWith string
	Content     []Item
}

func (Tok) item()      {}
func (Grouping) item() {}
func (Absent) item()   {}
func (*Node) item()    {}

// Tokens returns the indices of every token referenced below n, in order.
func (n *Node) Tokens() []int {
	var out []int
	collect(n.Content, &out)
	return out
}

func collect(items []Item, out *[]int) {
	for _, it := range items {
		switch it := it.(type) {
		case Tok:
			*out = append(*out, it.Index)
		case Grouping:
			collect(it.Items, out)
		case *Node:
			collect(it.Content, out)
		}
	}
}

// AST is the result of BuildTree.
type AST struct {
	Root *Node
	// Abstract is set when ghost tokens were left out of the tree.
	Abstract bool
	// Consumed is the number of tokens the start rule advanced over.
	Consumed int
}

// Remaining returns the indices of the significant tokens, EOF excluded,
// that the tree did not consume.
func (a *AST) Remaining(tokens []token.Token) []int {
	var rest []int
	for i := a.Consumed; i < len(tokens); i++ {
		k := tokens[i].Kind
		if k == token.EOF || token.IsGhost(k) {
			continue
		}
		rest = append(rest, i)
	}
	return rest
}
