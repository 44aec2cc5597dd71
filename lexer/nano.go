package lexer

import "github.com/nano-lang/nnc/token"

// nanoMatchers is ordered by precedence: multi-character punctuation comes
// before its single-character prefix, keywords before identifiers, and block
// comments before line comments.
var nanoMatchers = []Matcher{
	// whitespace
	MustCompile(token.Indent, `\r?\n[ \t]+`),
	MustCompile(token.Newline, `\r?\n`),
	MustCompile(token.Whitespace, `[ \t\r\f\v]+`),

	// structural punctuation
	MustCompile(token.Comma, `,`),
	MustCompile(token.Semicolon, `;`),
	MustCompile(token.Colon, `:`),
	MustCompile(token.ThinArrow, `->`),
	MustCompile(token.Pipe, `\|>`),
	MustCompile(token.ParenOpen, `\(`),
	MustCompile(token.ParenClose, `\)`),
	MustCompile(token.SqBracketOpen, `\[`),
	MustCompile(token.SqBracketClose, `\]`),
	MustCompile(token.CrBracketOpen, `\{`),
	MustCompile(token.CrBracketClose, `\}`),
	MustCompile(token.Reticences, `\.\.\.`),
	MustCompile(token.ExclusiveReticences, `\.\.`),

	// literals
	MustCompile(token.IntLiteral, `0x[0-9a-zA-Z_]+|0b[0-9_]+|[0-9][0-9_]*`),
	MustCompile(token.StringLiteral, `"(?:[^"\\]|\\.)*"`),
	MustCompile(token.BooleanLiteral, `(?:true|false|yes|no)\b`),

	// word operators
	MustCompile(token.OpAddrof, `addrof\b`),
	MustCompile(token.OpTypeof, `typeof\b`),
	MustCompile(token.OpType, `type\b`),
	MustCompile(token.OpValue, `value\b`),
	MustCompile(token.OpXis, `xis\b`),
	MustCompile(token.OpIs, `is\b`),
	MustCompile(token.OpAnd, `and\b`),
	MustCompile(token.OpOr, `or\b`),
	MustCompile(token.OpNot, `not\b`),

	MustCompile(token.Identifier, `[a-zA-Z_][a-zA-Z0-9_]*`),

	// annotations and comments
	MustCompile(token.ScopeAnnotation, `%%[a-zA-Z_][a-zA-Z0-9_]*`),
	MustCompile(token.BranchAnnotation, `#%[a-zA-Z_][a-zA-Z0-9_]*`),
	MustCompile(token.BlockComment, `###[\s\S]*?###`),
	MustCompile(token.Comment, `#[^\n]*`),

	// symbolic operators
	MustCompile(token.OpDoubleForwardSlash, `//`),
	MustCompile(token.OpForwardSlash, `/`),
	MustCompile(token.OpPipe, `\|`),
	MustCompile(token.OpAmpersand, `&`),
	MustCompile(token.OpPlus, `\+`),
	MustCompile(token.OpDash, `-`),
	MustCompile(token.OpAsterisk, `\*`),
	MustCompile(token.OpPercent, `%`),
	MustCompile(token.OpEqSign, `=`),
	MustCompile(token.AgBracketOpen, `<`),
	MustCompile(token.AgBracketClose, `>`),
}
