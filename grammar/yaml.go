package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nano-lang/nnc/token"
	"gopkg.in/yaml.v3"
)

// YAML keys of the fragment variants.
const (
	keyToken        = "token"
	keyText         = "text"
	keyOptional     = "optional"
	keyMany         = "many"
	keyOptionalMany = "optional_many"
	keyAnyOf        = "any_of"
	keyAllOf        = "all_of"
	keyRule         = "rule"
)

type yamlRule struct {
	Name     string   `yaml:"name"`
	Sequence Sequence `yaml:"sequence"`
}

// MarshalYAML encodes the table as a list of {name, sequence} rules.
func (t Table) MarshalYAML() (any, error) {
	rules := make([]yamlRule, len(t.rules))
	for i, r := range t.rules {
		rules[i] = yamlRule{Name: r.Name, Sequence: r.Seq}
	}
	return rules, nil
}

// UnmarshalYAML decodes a list of {name, sequence} rules.
func (t *Table) UnmarshalYAML(value *yaml.Node) error {
	var rules []yamlRule
	if err := value.Decode(&rules); err != nil {
		return err
	}
	built := make([]Rule, len(rules))
	for i, r := range rules {
		built[i] = Rule{Name: r.Name, Seq: r.Sequence}
	}
	table, err := NewTable(built...)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*t = *table
	return nil
}

// MarshalYAML encodes each fragment as a mapping with a single variant key.
func (s Sequence) MarshalYAML() (any, error) {
	out := make([]map[string]any, len(s))
	for i, f := range s {
		m, err := encodeFragment(f)
		if err != nil {
			return nil, err
		}
		out[i] = m
	}
	return out, nil
}

func encodeFragment(f Fragment) (map[string]any, error) {
	switch f := f.(type) {
	case SingleToken:
		m := map[string]any{keyToken: f.Kind.String()}
		if f.Text != "" {
			m[keyText] = f.Text
		}
		return m, nil
	case Optional:
		return map[string]any{keyOptional: f.Seq}, nil
	case Many:
		return map[string]any{keyMany: f.Seq}, nil
	case OptionalMany:
		return map[string]any{keyOptionalMany: f.Seq}, nil
	case Disjunction:
		return map[string]any{keyAnyOf: f.Cases}, nil
	case Conjunction:
		return map[string]any{keyAllOf: f.Cases}, nil
	case Nest:
		return map[string]any{keyRule: f.Rule}, nil
	default:
		return nil, fmt.Errorf("unsupported fragment %T", f)
	}
}

// UnmarshalYAML decodes a list of fragment mappings.
func (s *Sequence) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: fragment sequence must be a list", value.Line)
	}
	var seq Sequence
	for _, n := range value.Content {
		f, err := decodeFragment(n)
		if err != nil {
			return err
		}
		seq = append(seq, f)
	}
	*s = seq
	return nil
}

func decodeFragment(n *yaml.Node) (Fragment, error) {
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: fragment must be a mapping", n.Line)
	}

	fields := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		fields[n.Content[i].Value] = n.Content[i+1]
	}

	variant, err := variantKey(fields)
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", n.Line, err)
	}
	v := fields[variant]

	switch variant {
	case keyToken:
		var name, text string
		if err := v.Decode(&name); err != nil {
			return nil, err
		}
		kind, err := token.ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", v.Line, err)
		}
		if t, ok := fields[keyText]; ok {
			if err := t.Decode(&text); err != nil {
				return nil, err
			}
		}
		return SingleToken{Kind: kind, Text: text}, nil
	case keyOptional, keyMany, keyOptionalMany:
		var seq Sequence
		if err := v.Decode(&seq); err != nil {
			return nil, err
		}
		switch variant {
		case keyOptional:
			return Optional{Seq: seq}, nil
		case keyMany:
			return Many{Seq: seq}, nil
		default:
			return OptionalMany{Seq: seq}, nil
		}
	case keyAnyOf, keyAllOf:
		var cases []Sequence
		if err := v.Decode(&cases); err != nil {
			return nil, err
		}
		if variant == keyAnyOf {
			return Disjunction{Cases: cases}, nil
		}
		return Conjunction{Cases: cases}, nil
	default:
		var rule string
		if err := v.Decode(&rule); err != nil {
			return nil, err
		}
		return Nest{Rule: rule}, nil
	}
}

// variantKey returns the single variant key of a fragment mapping.
func variantKey(fields map[string]*yaml.Node) (string, error) {
	var found []string
	for key := range fields {
		switch key {
		case keyToken, keyOptional, keyMany, keyOptionalMany, keyAnyOf, keyAllOf, keyRule:
			found = append(found, key)
		case keyText:
		default:
			return "", fmt.Errorf("unknown fragment key %q", key)
		}
	}
	sort.Strings(found)
	switch {
	case len(found) == 0:
		return "", fmt.Errorf("fragment has no variant key")
	case len(found) > 1:
		return "", fmt.Errorf("fragment has several variant keys: %s", strings.Join(found, ", "))
	}
	if _, ok := fields[keyText]; ok && found[0] != keyToken {
		return "", fmt.Errorf("%q is only valid with %q", keyText, keyToken)
	}
	return found[0], nil
}
