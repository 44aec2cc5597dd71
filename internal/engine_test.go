package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nano-lang/nnc/grammar"
	"github.com/nano-lang/nnc/internal/types"
	"github.com/nano-lang/nnc/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// createTempDir creates a temporary directory and returns its path.
// It also registers a cleanup function to remove the directory after the test.
func createTempDir(t testing.TB, prefix string) string {
	tempDir, err := os.MkdirTemp("", prefix)
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tempDir) })
	return tempDir
}

func newTestEngine(t *testing.T, s Settings) *Engine {
	t.Helper()
	e, err := NewEngine(s, zap.NewNop())
	require.NoError(t, err)
	return e
}

func TestNewEngine(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, Settings{})
	assert.NotNil(t, engine.lexer)
	assert.Equal(t, grammar.StartRule, engine.start)
	assert.True(t, engine.HasSourceExtension("main.nano"))
	assert.False(t, engine.HasSourceExtension("main.go"))
}

func TestNewEngine_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		settings Settings
		errMsg   string
	}{
		{
			name:     "undefined start rule",
			settings: Settings{Start: "Nope"},
			errMsg:   `start rule "Nope" is not defined`,
		},
		{
			name: "left recursive grammar",
			settings: Settings{
				Table: grammar.MustTable(grammar.Rule{
					Name: "Expr",
					Seq:  grammar.Seq(grammar.Ref("Expr"), grammar.Tok(token.OpPlus)),
				}),
				Start: "Expr",
			},
			errMsg: "invalid grammar",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewEngine(tt.settings, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestEngine_Extensions(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, Settings{Extensions: []string{"nn", ".nano"}})
	assert.True(t, engine.HasSourceExtension("a.nn"))
	assert.True(t, engine.HasSourceExtension("dir/b.nano"))
	assert.False(t, engine.HasSourceExtension("c.txt"))
}

func TestEngine_RunSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		settings Settings
		source   string
		kind     string
		line     int
		col      int
	}{
		{name: "valid program", source: "x = 1 + 2;\nprint(x)\n"},
		{name: "empty source", source: ""},
		{name: "lex error", source: "a @ b", kind: types.KindLexError, line: 1, col: 3},
		{name: "trailing input", source: "a )", kind: types.KindTrailingInput, line: 1, col: 3},
		{
			name:     "no match at end of input",
			settings: Settings{Start: "Statement"},
			source:   "(1",
			kind:     types.KindNoMatch,
			line:     1,
			col:      3,
		},
		{
			name:     "depth exceeded",
			settings: Settings{MaxDepth: 2},
			source:   "1",
			kind:     types.KindDepthExceeded,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			engine := newTestEngine(t, tt.settings)
			res := engine.RunSource("test.nano", []byte(tt.source))

			require.NotNil(t, res)
			assert.Equal(t, "test.nano", res.Filename)
			assert.Equal(t, tt.source, res.Source)

			if tt.kind == "" {
				assert.Empty(t, res.Diagnostics)
				require.NotNil(t, res.Tree)
				assert.Empty(t, res.Tree.Remaining(res.Tokens))
				return
			}

			assert.Nil(t, res.Tree)
			require.Len(t, res.Diagnostics, 1)
			d := res.Diagnostics[0]
			assert.Equal(t, tt.kind, d.Kind)
			assert.Equal(t, types.SeverityError, d.Severity)
			assert.Equal(t, "test.nano", d.Filename)
			assert.NotEmpty(t, d.Message)
			if tt.line > 0 {
				assert.Equal(t, tt.line, d.Start.Line)
				assert.Equal(t, tt.col, d.Start.Column)
			}
		})
	}
}

func TestEngine_RunSource_RetainGhosts(t *testing.T) {
	t.Parallel()

	src := "a  +  b"
	abstract := newTestEngine(t, Settings{}).RunSource("a.nano", []byte(src))
	concrete := newTestEngine(t, Settings{RetainGhosts: true}).RunSource("a.nano", []byte(src))

	require.NotNil(t, abstract.Tree)
	require.NotNil(t, concrete.Tree)
	assert.True(t, abstract.Tree.Abstract)
	assert.False(t, concrete.Tree.Abstract)
	assert.Equal(t, []int{0, 2, 4}, abstract.Tree.Root.Tokens())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, concrete.Tree.Root.Tokens())
}

func TestEngine_Run(t *testing.T) {
	t.Parallel()

	tempDir := createTempDir(t, "engine_run")
	path := filepath.Join(tempDir, "main.nano")
	require.NoError(t, os.WriteFile(path, []byte("f(1, 2)\n"), 0o644))

	engine := newTestEngine(t, Settings{})
	res, err := engine.Run(path)
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)
	assert.NotNil(t, res.Tree)

	_, err = engine.Run(filepath.Join(tempDir, "missing.nano"))
	assert.ErrorContains(t, err, "error reading file")
}

func TestReadSourceCode(t *testing.T) {
	t.Parallel()

	tempDir := createTempDir(t, "source_code")
	path := filepath.Join(tempDir, "a.nano")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\n"), 0o644))

	sc, err := ReadSourceCode(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", ""}, sc.Lines)

	_, err = ReadSourceCode(filepath.Join(tempDir, "nope"))
	assert.Error(t, err)
}
