package formatter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nano-lang/nnc/parser"
	"github.com/nano-lang/nnc/token"
)

// FormatTokens lists tokens one per line as "line:col kind text".
// Ghost tokens are skipped unless all is set.
func FormatTokens(tokens []token.Token, source string, all bool) string {
	type row struct {
		pos, kind, text string
	}
	var (
		rows     []row
		posWidth int
		kindWid  int
	)
	for _, tok := range tokens {
		if tok.IsGhost() && !all {
			continue
		}
		line, col := token.LineCol(source, tok.Offset)
		r := row{
			pos:  fmt.Sprintf("%d:%d", line, col),
			kind: tok.Kind.String(),
			text: fmt.Sprintf("%q", tok.Text(source)),
		}
		posWidth = max(posWidth, len(r.pos))
		kindWid = max(kindWid, len(r.kind))
		rows = append(rows, r)
	}

	var b strings.Builder
	for _, r := range rows {
		b.WriteString(lineStyle.Sprintf("%-*s", posWidth, r.pos))
		b.WriteString("  ")
		b.WriteString(kindStyle.Sprintf("%-*s", kindWid, r.kind))
		b.WriteString("  ")
		b.WriteString(textStyle.Sprint(r.text))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatTree prints the tree with two spaces of indentation per level.
// Rule nodes print their rule name, tokens their kind and text, groupings
// a dash and absent optionals a question mark.
func FormatTree(ast *parser.AST, tokens []token.Token, source string) string {
	if ast == nil || ast.Root == nil {
		return ""
	}
	var b strings.Builder
	writeItem(&b, ast.Root, tokens, source, 0)
	return b.String()
}

func writeItem(b *strings.Builder, item parser.Item, tokens []token.Token, source string, depth int) {
	indent := strings.Repeat("  ", depth)
	switch it := item.(type) {
	case *parser.Node:
		b.WriteString(indent + fileStyle.Sprint(it.MatchedWith) + "\n")
		for _, child := range it.Content {
			writeItem(b, child, tokens, source, depth+1)
		}
	case parser.Grouping:
		b.WriteString(indent + lineStyle.Sprint("-") + "\n")
		for _, child := range it.Items {
			writeItem(b, child, tokens, source, depth+1)
		}
	case parser.Tok:
		if it.Index < 0 || it.Index >= len(tokens) {
			b.WriteString(indent + messageStyle.Sprintf("<bad token %d>", it.Index) + "\n")
			return
		}
		tok := tokens[it.Index]
		b.WriteString(indent + kindStyle.Sprint(tok.Kind.String()) + " " + textStyle.Sprintf("%q", tok.Text(source)) + "\n")
	case parser.Absent:
		b.WriteString(indent + lineStyle.Sprint("?") + "\n")
	}
}

// JSONItem is the JSON view of a tree item. Exactly one of Rule, Token,
// Group or Absent describes the item.
type JSONItem struct {
	Rule    string      `json:"rule,omitempty"`
	Token   *JSONToken  `json:"token,omitempty"`
	Group   bool        `json:"group,omitempty"`
	Absent  bool        `json:"absent,omitempty"`
	Content []*JSONItem `json:"content,omitempty"`
}

// JSONToken describes a token inside a JSONItem.
type JSONToken struct {
	Index int    `json:"index"`
	Kind  string `json:"kind"`
	Text  string `json:"text"`
	Line  int    `json:"line"`
	Col   int    `json:"col"`
}

// JSONTree is the JSON view of a whole parse.
type JSONTree struct {
	Filename string    `json:"filename"`
	Abstract bool      `json:"abstract"`
	Consumed int       `json:"consumed"`
	Root     *JSONItem `json:"root"`
}

// TreeJSON converts ast into its JSON view.
func TreeJSON(filename string, ast *parser.AST, tokens []token.Token, source string) *JSONTree {
	if ast == nil {
		return nil
	}
	return &JSONTree{
		Filename: filename,
		Abstract: ast.Abstract,
		Consumed: ast.Consumed,
		Root:     jsonItem(ast.Root, tokens, source),
	}
}

// MarshalTree is TreeJSON encoded with indentation.
func MarshalTree(filename string, ast *parser.AST, tokens []token.Token, source string) ([]byte, error) {
	return json.MarshalIndent(TreeJSON(filename, ast, tokens, source), "", "  ")
}

func jsonItem(item parser.Item, tokens []token.Token, source string) *JSONItem {
	switch it := item.(type) {
	case *parser.Node:
		if it == nil {
			return nil
		}
		return &JSONItem{Rule: it.MatchedWith, Content: jsonItems(it.Content, tokens, source)}
	case parser.Grouping:
		return &JSONItem{Group: true, Content: jsonItems(it.Items, tokens, source)}
	case parser.Tok:
		jt := &JSONToken{Index: it.Index}
		if it.Index >= 0 && it.Index < len(tokens) {
			tok := tokens[it.Index]
			jt.Kind = tok.Kind.String()
			jt.Text = tok.Text(source)
			jt.Line, jt.Col = token.LineCol(source, tok.Offset)
		}
		return &JSONItem{Token: jt}
	case parser.Absent:
		return &JSONItem{Absent: true}
	default:
		return nil
	}
}

func jsonItems(items []parser.Item, tokens []token.Token, source string) []*JSONItem {
	out := make([]*JSONItem, 0, len(items))
	for _, it := range items {
		out = append(out, jsonItem(it, tokens, source))
	}
	return out
}
