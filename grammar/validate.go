package grammar

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that every Nest target exists and that no rule can reach
// itself without consuming a token first. Such a cycle would make the
// interpreter recurse until its depth limit.
func (t *Table) Validate() error {
	var errs []error
	for _, r := range t.Rules() {
		walk(r.Seq, func(f Fragment) {
			if n, ok := f.(Nest); ok {
				if _, found := t.Lookup(n.Rule); !found {
					errs = append(errs, fmt.Errorf("rule %q references unknown rule %q", r.Name, n.Rule))
				}
			}
		})
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	nullable := t.nullableRules()
	edges := make(map[string][]string, t.Len())
	for _, r := range t.Rules() {
		edges[r.Name] = leftRefs(r.Seq, nullable)
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(edges))
	var path []string
	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case visiting:
			start := 0
			for i, p := range path {
				if p == name {
					start = i
					break
				}
			}
			cycle := append(append([]string(nil), path[start:]...), name)
			return fmt.Errorf("left recursion: %s", strings.Join(cycle, " -> "))
		case done:
			return nil
		}
		state[name] = visiting
		path = append(path, name)
		for _, next := range edges[name] {
			if err := visit(next); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		state[name] = done
		return nil
	}

	for _, r := range t.Rules() {
		if err := visit(r.Name); err != nil {
			return err
		}
	}
	return nil
}

// walk calls fn for every fragment in seq, depth first.
func walk(seq Sequence, fn func(Fragment)) {
	for _, f := range seq {
		fn(f)
		switch f := f.(type) {
		case Optional:
			walk(f.Seq, fn)
		case Many:
			walk(f.Seq, fn)
		case OptionalMany:
			walk(f.Seq, fn)
		case Disjunction:
			for _, c := range f.Cases {
				walk(c, fn)
			}
		case Conjunction:
			for _, c := range f.Cases {
				walk(c, fn)
			}
		}
	}
}

// nullableRules computes the set of rules that can match without consuming
// a significant token.
func (t *Table) nullableRules() map[string]bool {
	nullable := make(map[string]bool, t.Len())
	for changed := true; changed; {
		changed = false
		for _, r := range t.Rules() {
			if !nullable[r.Name] && seqNullable(r.Seq, nullable) {
				nullable[r.Name] = true
				changed = true
			}
		}
	}
	return nullable
}

func seqNullable(seq Sequence, nullable map[string]bool) bool {
	for _, f := range seq {
		if !fragNullable(f, nullable) {
			return false
		}
	}
	return true
}

func fragNullable(f Fragment, nullable map[string]bool) bool {
	switch f := f.(type) {
	case SingleToken:
		return false
	case Optional, OptionalMany:
		return true
	case Many:
		return seqNullable(f.Seq, nullable)
	case Disjunction:
		for _, c := range f.Cases {
			if seqNullable(c, nullable) {
				return true
			}
		}
		return false
	case Conjunction:
		// the last case decides how much is consumed
		if len(f.Cases) == 0 {
			return true
		}
		return seqNullable(f.Cases[len(f.Cases)-1], nullable)
	case Nest:
		return nullable[f.Rule]
	}
	return false
}

// leftRefs lists the rules that seq may enter before consuming a token.
func leftRefs(seq Sequence, nullable map[string]bool) []string {
	var refs []string
	for _, f := range seq {
		switch f := f.(type) {
		case Nest:
			refs = append(refs, f.Rule)
		case Optional:
			refs = append(refs, leftRefs(f.Seq, nullable)...)
		case Many:
			refs = append(refs, leftRefs(f.Seq, nullable)...)
		case OptionalMany:
			refs = append(refs, leftRefs(f.Seq, nullable)...)
		case Disjunction:
			for _, c := range f.Cases {
				refs = append(refs, leftRefs(c, nullable)...)
			}
		case Conjunction:
			for _, c := range f.Cases {
				refs = append(refs, leftRefs(c, nullable)...)
			}
		}
		if !fragNullable(f, nullable) {
			break
		}
	}
	return refs
}
