package token

import (
	"fmt"
	"unicode/utf8"
)

// Kind defines the lexical category of a token.
type Kind int

const (
	// Ghost kinds. Grammar rules skip them unless they ask for them explicitly.
	Indent       Kind = iota // '\n' followed by indentation
	Newline                  // '\n'
	Whitespace               // ' ', '\t'
	BlockComment             // '### ... ###'
	Comment                  // '# ...'

	Identifier // hello foo_bar Baz

	ThinArrow // '->'
	Pipe      // '|>'
	Semicolon // ';'
	Comma     // ','

	ScopeAnnotation  // '%%test'
	BranchAnnotation // '#%define'

	IntLiteral     // '42', '0xFA', '0b0110_1100'
	StringLiteral  // '"..."'
	BooleanLiteral // 'true' | 'false' | 'yes' | 'no'

	ParenOpen           // '('
	ParenClose          // ')'
	SqBracketOpen       // '['
	SqBracketClose      // ']'
	CrBracketOpen       // '{'
	CrBracketClose      // '}'
	AgBracketOpen       // '<'
	AgBracketClose      // '>'
	Reticences          // '...'
	ExclusiveReticences // '..'

	Colon // ':'

	OpAddrof             // 'addrof'
	OpTypeof             // 'typeof'
	OpType               // 'type'
	OpValue              // 'value'
	OpIs                 // 'is'
	OpXis                // 'xis'
	OpAnd                // 'and'
	OpOr                 // 'or'
	OpNot                // 'not'
	OpPipe               // '|'
	OpAmpersand          // '&'
	OpPlus               // '+'
	OpDash               // '-'
	OpAsterisk           // '*'
	OpForwardSlash       // '/'
	OpDoubleForwardSlash // '//'
	OpPercent            // '%'
	OpEqSign             // '='

	EOF // end of input sentinel

	numKinds
)

var kindNames = [numKinds]string{
	Indent:               "Indent",
	Newline:              "Newline",
	Whitespace:           "Whitespace",
	BlockComment:         "BlockComment",
	Comment:              "Comment",
	Identifier:           "Identifier",
	ThinArrow:            "ThinArrow",
	Pipe:                 "Pipe",
	Semicolon:            "Semicolon",
	Comma:                "Comma",
	ScopeAnnotation:      "ScopeAnnotation",
	BranchAnnotation:     "BranchAnnotation",
	IntLiteral:           "IntLiteral",
	StringLiteral:        "StringLiteral",
	BooleanLiteral:       "BooleanLiteral",
	ParenOpen:            "ParenOpen",
	ParenClose:           "ParenClose",
	SqBracketOpen:        "SqBracketOpen",
	SqBracketClose:       "SqBracketClose",
	CrBracketOpen:        "CrBracketOpen",
	CrBracketClose:       "CrBracketClose",
	AgBracketOpen:        "AgBracketOpen",
	AgBracketClose:       "AgBracketClose",
	Reticences:           "Reticences",
	ExclusiveReticences:  "ExclusiveReticences",
	Colon:                "Colon",
	OpAddrof:             "OpAddrof",
	OpTypeof:             "OpTypeof",
	OpType:               "OpType",
	OpValue:              "OpValue",
	OpIs:                 "OpIs",
	OpXis:                "OpXis",
	OpAnd:                "OpAnd",
	OpOr:                 "OpOr",
	OpNot:                "OpNot",
	OpPipe:               "OpPipe",
	OpAmpersand:          "OpAmpersand",
	OpPlus:               "OpPlus",
	OpDash:               "OpDash",
	OpAsterisk:           "OpAsterisk",
	OpForwardSlash:       "OpForwardSlash",
	OpDoubleForwardSlash: "OpDoubleForwardSlash",
	OpPercent:            "OpPercent",
	OpEqSign:             "OpEqSign",
	EOF:                  "EOF",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, numKinds)
	for k, name := range kindNames {
		m[name] = Kind(k)
	}
	return m
}()

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind returns the kind with the given name.
func ParseKind(name string) (Kind, error) {
	k, ok := kindsByName[name]
	if !ok {
		return 0, fmt.Errorf("unknown token kind %q", name)
	}
	return k, nil
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, numKinds)
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

// IsGhost reports whether tokens of kind k are transparent to grammar rules.
func IsGhost(k Kind) bool {
	switch k {
	case Indent, Newline, Whitespace, BlockComment, Comment:
		return true
	default:
		return false
	}
}

// Token is a span of the source text recognized as one lexical category.
// It does not copy the text; use Text to recover it.
type Token struct {
	Kind   Kind
	Offset int // byte offset of the first character in the source
	Length int // length in bytes
}

// End returns the offset just after the token.
func (t Token) End() int { return t.Offset + t.Length }

// Text returns the slice of source covered by the token.
func (t Token) Text(source string) string {
	if t.Offset < 0 || t.End() > len(source) {
		return ""
	}
	return source[t.Offset:t.End()]
}

// IsGhost reports whether the token is a ghost token.
func (t Token) IsGhost() bool { return IsGhost(t.Kind) }

func (t Token) String() string {
	return fmt.Sprintf("%s@%d+%d", t.Kind, t.Offset, t.Length)
}

// LineCol converts a byte offset into a 1-based line and column.
// Columns count runes, not bytes.
func LineCol(source string, offset int) (line, col int) {
	if offset > len(source) {
		offset = len(source)
	}
	line, col = 1, 1
	for i := 0; i < offset; {
		r, size := utf8.DecodeRuneInString(source[i:])
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
		i += size
	}
	return line, col
}
