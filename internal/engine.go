package internal

import (
	"errors"
	"fmt"
	"go/token"
	"os"
	"strings"

	"go.uber.org/zap"

	tt "github.com/nano-lang/nnc/internal/types"
	"github.com/nano-lang/nnc/grammar"
	"github.com/nano-lang/nnc/lexer"
	"github.com/nano-lang/nnc/parser"
	"github.com/nano-lang/nnc/scanner"
	ntok "github.com/nano-lang/nnc/token"
)

// DefaultExtensions lists the source file extensions processed by default.
var DefaultExtensions = []string{".nano"}

// Settings configure an Engine. Zero values fall back to the nano language.
type Settings struct {
	Lexer        *lexer.Lexer
	Table        *grammar.Table
	Start        string
	RetainGhosts bool
	MaxDepth     int
	Extensions   []string
}

// Engine runs the lex and parse pipeline over sources.
// Run and RunSource are safe for concurrent use; watching is not.
type Engine struct {
	lexer      *lexer.Lexer
	table      *grammar.Table
	start      string
	opts       parser.Options
	isSource   func(path string) bool
	logger     *zap.Logger
	cache      *Cache

	watchState
}

// Result holds everything produced for one source.
// Tree is nil whenever Diagnostics is not empty.
type Result struct {
	Filename    string
	Source      string
	Tokens      []ntok.Token
	Tree        *parser.AST
	Diagnostics []tt.Diagnostic
}

// NewEngine creates an engine. The grammar is validated up front.
func NewEngine(s Settings, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		lexer:  s.Lexer,
		table:  s.Table,
		start:  s.Start,
		opts:   parser.Options{RetainGhosts: s.RetainGhosts, MaxDepth: s.MaxDepth},
		logger: logger,
		cache:  NewCache(0),
	}
	if e.lexer == nil {
		e.lexer = lexer.Default()
	}
	if e.table == nil {
		e.table = grammar.Nano()
	}
	if e.start == "" {
		e.start = grammar.StartRule
	}

	exts := s.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	normalized := make([]string, len(exts))
	for i, ext := range exts {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized[i] = ext
	}
	e.isSource = scanner.Extensions(normalized...)

	if _, ok := e.table.Lookup(e.start); !ok {
		return nil, fmt.Errorf("start rule %q is not defined", e.start)
	}
	if err := e.table.Validate(); err != nil {
		return nil, fmt.Errorf("invalid grammar: %w", err)
	}
	return e, nil
}

// HasSourceExtension reports whether path names a file the engine processes.
func (e *Engine) HasSourceExtension(path string) bool {
	return e.isSource(path)
}

// Run loads filename and processes its content.
func (e *Engine) Run(filename string) (*Result, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return e.RunSource(filename, content), nil
}

// RunSource tokenizes and parses source. Lex and parse failures are
// reported as diagnostics on the result.
func (e *Engine) RunSource(filename string, source []byte) *Result {
	src := string(source)
	res := &Result{Filename: filename, Source: src}

	tokens, err := e.lexer.Tokenize(src)
	res.Tokens = tokens
	if err != nil {
		res.Diagnostics = append(res.Diagnostics, e.lexDiagnostic(res, err))
		return res
	}

	tree, err := parser.BuildTreeWith(src, tokens, e.table, e.start, e.opts)
	if err != nil {
		res.Diagnostics = append(res.Diagnostics, e.parseDiagnostic(res, err))
		return res
	}

	if rest := tree.Remaining(tokens); len(rest) > 0 {
		tok := tokens[rest[0]]
		res.Diagnostics = append(res.Diagnostics, tt.Diagnostic{
			Kind:     tt.KindTrailingInput,
			Severity: tt.SeverityError,
			Filename: filename,
			Message:  fmt.Sprintf("unexpected %s %q after %s", tok.Kind, tok.Text(src), e.start),
			Start:    position(filename, src, tok.Offset),
			End:      position(filename, src, tok.End()),
		})
		return res
	}

	res.Tree = tree
	e.logger.Debug("parsed source",
		zap.String("file", filename),
		zap.Int("tokens", len(tokens)),
		zap.Int("consumed", tree.Consumed),
	)
	return res
}

func (e *Engine) lexDiagnostic(res *Result, err error) tt.Diagnostic {
	d := tt.Diagnostic{
		Kind:     tt.KindLexError,
		Severity: tt.SeverityError,
		Filename: res.Filename,
		Message:  err.Error(),
	}
	var lexErr *lexer.LexError
	if errors.As(err, &lexErr) {
		d.Message = fmt.Sprintf("unexpected character %q", lexErr.Char)
		d.Start = position(res.Filename, res.Source, lexErr.Offset)
		d.End = d.Start
	}
	return d
}

func (e *Engine) parseDiagnostic(res *Result, err error) tt.Diagnostic {
	d := tt.Diagnostic{
		Severity: tt.SeverityError,
		Filename: res.Filename,
		Message:  err.Error(),
	}

	var matchErr *parser.MatchError
	switch {
	case errors.As(err, &matchErr):
		d.Kind = tt.KindNoMatch
		offset := len(res.Source)
		end := offset
		if !matchErr.AtEnd {
			offset = matchErr.Found.Offset
			end = matchErr.Found.End()
		}
		d.Start = position(res.Filename, res.Source, offset)
		d.End = position(res.Filename, res.Source, end)
	case errors.Is(err, parser.ErrUnknownRule):
		d.Kind = tt.KindUnknownRule
	case errors.Is(err, parser.ErrDepthExceeded):
		d.Kind = tt.KindDepthExceeded
	default:
		d.Kind = tt.KindNoMatch
	}
	return d
}

func position(filename, source string, offset int) token.Position {
	line, col := ntok.LineCol(source, offset)
	return token.Position{Filename: filename, Offset: offset, Line: line, Column: col}
}

// SourceCode stores the content of a source code file.
type SourceCode struct {
	Lines []string
}

// ReadSourceCode reads the content of a file and returns it as a `SourceCode` struct.
func ReadSourceCode(filename string) (*SourceCode, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return NewSourceCode(string(content)), nil
}

// NewSourceCode splits source into lines.
func NewSourceCode(source string) *SourceCode {
	return &SourceCode{Lines: strings.Split(source, "\n")}
}
