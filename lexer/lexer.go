// Package lexer converts source text into a token sequence using an ordered
// list of pattern matchers.
package lexer

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/nano-lang/nnc/token"
)

// ErrUnexpectedChar is wrapped by every LexError.
var ErrUnexpectedChar = errors.New("unexpected character")

// LexError reports a character no matcher recognizes.
type LexError struct {
	Char   rune
	Offset int
	Line   int // 1-based
	Col    int // 1-based, in runes
}

func (e *LexError) Error() string {
	return fmt.Sprintf("unexpected character %q at Ln %d, Col %d", e.Char, e.Line, e.Col)
}

func (e *LexError) Unwrap() error { return ErrUnexpectedChar }

// Matcher pairs a token kind with a pattern recognizing it at the start of a string.
type Matcher struct {
	Kind    token.Kind
	Pattern string // as written, without the leading anchor

	re *regexp.Regexp
}

// Compile builds a matcher anchored at the start of the input.
func Compile(kind token.Kind, pattern string) (Matcher, error) {
	if kind == token.EOF {
		return Matcher{}, fmt.Errorf("matcher for %s: EOF tokens are synthetic", kind)
	}
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return Matcher{}, fmt.Errorf("matcher for %s: %w", kind, err)
	}
	return Matcher{Kind: kind, Pattern: pattern, re: re}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(kind token.Kind, pattern string) Matcher {
	m, err := Compile(kind, pattern)
	if err != nil {
		panic(err)
	}
	return m
}

// match returns the length of the match at the start of s, or -1.
// An empty match counts as no match.
func (m Matcher) match(s string) int {
	loc := m.re.FindStringIndex(s)
	if loc == nil || loc[0] != 0 || loc[1] == 0 {
		return -1
	}
	return loc[1]
}

// Lexer tokenizes source text. It is immutable and safe for concurrent use.
type Lexer struct {
	matchers []Matcher
}

// New creates a Lexer trying matchers in the given order.
// Matchers built as struct literals are compiled here.
func New(matchers []Matcher) (*Lexer, error) {
	if len(matchers) == 0 {
		return nil, errors.New("lexer needs at least one matcher")
	}
	ms := make([]Matcher, len(matchers))
	for i, m := range matchers {
		if m.re == nil {
			compiled, err := Compile(m.Kind, m.Pattern)
			if err != nil {
				return nil, err
			}
			m = compiled
		}
		ms[i] = m
	}
	return &Lexer{matchers: ms}, nil
}

var defaultLexer = &Lexer{matchers: nanoMatchers}

// Default returns the lexer for the nano language.
func Default() *Lexer { return defaultLexer }

// Matchers returns a copy of the matcher list in priority order.
func (l *Lexer) Matchers() []Matcher {
	return append([]Matcher(nil), l.matchers...)
}

// Tokenize scans source into tokens. The first matcher that matches at the
// cursor wins. The result always ends with exactly one EOF token. When a
// character cannot be matched, scanning stops and the tokens read so far are
// returned together with a *LexError.
func (l *Lexer) Tokenize(source string) ([]token.Token, error) {
	var (
		tokens    []token.Token
		err       error
		offset    int
		line, col = 1, 1
	)

	for offset < len(source) {
		rest := source[offset:]
		kind, length := l.next(rest)
		if length < 0 {
			r, _ := utf8.DecodeRuneInString(rest)
			err = &LexError{Char: r, Offset: offset, Line: line, Col: col}
			break
		}

		tokens = append(tokens, token.Token{Kind: kind, Offset: offset, Length: length})
		line, col = advance(rest[:length], line, col)
		offset += length
	}

	tokens = append(tokens, token.Token{Kind: token.EOF, Offset: offset})
	return tokens, err
}

func (l *Lexer) next(s string) (token.Kind, int) {
	for _, m := range l.matchers {
		if n := m.match(s); n > 0 {
			return m.Kind, n
		}
	}
	return 0, -1
}

// advance moves line and col past text.
func advance(text string, line, col int) (int, int) {
	nl := strings.Count(text, "\n")
	if nl == 0 {
		return line, col + utf8.RuneCountInString(text)
	}
	last := text[strings.LastIndexByte(text, '\n')+1:]
	return line + nl, 1 + utf8.RuneCountInString(last)
}
