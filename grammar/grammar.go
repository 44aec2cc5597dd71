// Package grammar defines the data model of a parse grammar: rules made of
// fragment sequences, and a table that resolves rule names.
package grammar

import (
	"fmt"

	"github.com/nano-lang/nnc/token"
)

// Fragment is one unit of a rule's sequence.
// The concrete types are SingleToken, Optional, Many, OptionalMany,
// Disjunction, Conjunction and Nest.
type Fragment interface {
	fragment()
}

// Sequence is an ordered list of fragments matched left to right.
type Sequence []Fragment

var (
	_ Fragment = SingleToken{}
	_ Fragment = Optional{}
	_ Fragment = Many{}
	_ Fragment = OptionalMany{}
	_ Fragment = Disjunction{}
	_ Fragment = Conjunction{}
	_ Fragment = Nest{}
)

// SingleToken matches one token of Kind. A non-empty Text also requires the
// token text to be equal to it.
type SingleToken struct {
	Kind token.Kind
	Text string
}

// Optional matches Seq or nothing.
type Optional struct{ Seq Sequence }

// Many matches Seq one or more times.
type Many struct{ Seq Sequence }

// OptionalMany matches Seq zero or more times.
type OptionalMany struct{ Seq Sequence }

// Disjunction commits to the first case that matches.
type Disjunction struct{ Cases []Sequence }

// Conjunction requires every case to match at the same position and keeps
// the result of the last one.
type Conjunction struct{ Cases []Sequence }

// Nest matches the rule named Rule.
type Nest struct{ Rule string }

func (SingleToken) fragment()  {}
func (Optional) fragment()     {}
func (Many) fragment()         {}
func (OptionalMany) fragment() {}
func (Disjunction) fragment()  {}
func (Conjunction) fragment()  {}
func (Nest) fragment()         {}

func (f SingleToken) String() string {
	if f.Text == "" {
		return f.Kind.String()
	}
	return fmt.Sprintf("%s(%q)", f.Kind, f.Text)
}

func (f Nest) String() string { return "<" + f.Rule + ">" }

// Tok matches a single token of kind k.
func Tok(k token.Kind) SingleToken { return SingleToken{Kind: k} }

// Lit matches a single token of kind k whose text is text.
func Lit(k token.Kind, text string) SingleToken { return SingleToken{Kind: k, Text: text} }

// Seq builds a sequence.
func Seq(frags ...Fragment) Sequence { return frags }

// Opt builds an Optional fragment.
func Opt(frags ...Fragment) Optional { return Optional{Seq: frags} }

// OneOrMore builds a Many fragment.
func OneOrMore(frags ...Fragment) Many { return Many{Seq: frags} }

// ZeroOrMore builds an OptionalMany fragment.
func ZeroOrMore(frags ...Fragment) OptionalMany { return OptionalMany{Seq: frags} }

// AnyOf builds a Disjunction fragment.
func AnyOf(cases ...Sequence) Disjunction { return Disjunction{Cases: cases} }

// AllOf builds a Conjunction fragment.
func AllOf(cases ...Sequence) Conjunction { return Conjunction{Cases: cases} }

// Ref builds a Nest fragment.
func Ref(rule string) Nest { return Nest{Rule: rule} }

// Rule is a named fragment sequence.
type Rule struct {
	Name string
	Seq  Sequence
}

// Table maps rule names to sequences, keeping declaration order.
// A Table is never modified after construction.
type Table struct {
	rules []Rule
	index map[string]int
}

// NewTable builds a table. Rule names must be unique and non-empty.
func NewTable(rules ...Rule) (*Table, error) {
	t := &Table{
		rules: make([]Rule, 0, len(rules)),
		index: make(map[string]int, len(rules)),
	}
	for _, r := range rules {
		if r.Name == "" {
			return nil, fmt.Errorf("rule #%d has no name", len(t.rules))
		}
		if _, dup := t.index[r.Name]; dup {
			return nil, fmt.Errorf("duplicate rule %q", r.Name)
		}
		t.index[r.Name] = len(t.rules)
		t.rules = append(t.rules, r)
	}
	return t, nil
}

// MustTable is like NewTable but panics on error.
func MustTable(rules ...Rule) *Table {
	t, err := NewTable(rules...)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the sequence of the rule named name.
func (t *Table) Lookup(name string) (Sequence, bool) {
	if t == nil {
		return nil, false
	}
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.rules[i].Seq, true
}

// Rules returns the rules in declaration order.
func (t *Table) Rules() []Rule {
	if t == nil {
		return nil
	}
	return append([]Rule(nil), t.rules...)
}

// Len returns the number of rules.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rules)
}
