package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nano-lang/nnc/frontend"
	"github.com/nano-lang/nnc/grammar"
	tt "github.com/nano-lang/nnc/internal/types"
	"github.com/nano-lang/nnc/lexer"
)

func init() {
	frontend.ProgressOutput = io.Discard
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestInitConfigurationFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".nnc.yaml")
	require.NoError(t, initConfigurationFile(path))

	config, err := frontend.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "nnc", config.Name)
	assert.Equal(t, grammar.StartRule, config.Start)
	assert.NotEmpty(t, config.Matchers)
	require.NotNil(t, config.Rules)
	assert.Equal(t, grammar.Nano().Len(), config.Rules.Len())

	engine, err := loadEngine(path, engineOverrides{}, zap.NewNop())
	require.NoError(t, err)
	res := engine.RunSource("a.nano", []byte("print(1 + 2)"))
	assert.Empty(t, res.Diagnostics)
}

func TestLoadEngine_Overrides(t *testing.T) {
	t.Parallel()

	engine, err := loadEngine("", engineOverrides{concrete: true, start: "Expr"}, zap.NewNop())
	require.NoError(t, err)

	res := engine.RunSource("a.nano", []byte("a + b"))
	require.Empty(t, res.Diagnostics)
	assert.Equal(t, "Expr", res.Tree.Root.MatchedWith)
	assert.False(t, res.Tree.Abstract)

	_, err = loadEngine("", engineOverrides{start: "Nope"}, zap.NewNop())
	assert.Error(t, err)
}

func TestRunCompile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := writeFile(t, dir, "good.nano", "f(1)\n")
	bad := writeFile(t, dir, "bad.nano", "a @ b\n")

	engine, err := loadEngine("", engineOverrides{}, zap.NewNop())
	require.NoError(t, err)

	var out bytes.Buffer
	failed, err := runCompile(context.Background(), zap.NewNop(), engine, []string{good}, compileOptions{}, &out)
	require.NoError(t, err)
	assert.False(t, failed)
	assert.Contains(t, out.String(), good+":\nProgram\n")
	assert.Contains(t, out.String(), `Identifier "f"`)

	out.Reset()
	failed, err = runCompile(context.Background(), zap.NewNop(), engine, []string{dir}, compileOptions{}, &out)
	require.NoError(t, err)
	assert.True(t, failed)
	assert.Contains(t, out.String(), "error: lex-error")
	assert.Contains(t, out.String(), bad+":1:3")

	_, err = runCompile(context.Background(), zap.NewNop(), engine, []string{filepath.Join(dir, "missing")}, compileOptions{}, &out)
	assert.Error(t, err)
}

func TestRunCompile_JSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := writeFile(t, dir, "good.nano", "x;")
	bad := writeFile(t, dir, "bad.nano", "x )")

	engine, err := loadEngine("", engineOverrides{}, zap.NewNop())
	require.NoError(t, err)

	outFile := filepath.Join(t.TempDir(), "out.json")
	failed, err := runCompile(context.Background(), zap.NewNop(), engine, []string{dir}, compileOptions{json: true, outPath: outFile}, nil)
	require.NoError(t, err)
	assert.True(t, failed)

	d, err := os.ReadFile(outFile)
	require.NoError(t, err)

	var byFile map[string]fileOutput
	require.NoError(t, json.Unmarshal(d, &byFile))
	require.Contains(t, byFile, good)
	require.Contains(t, byFile, bad)

	assert.Empty(t, byFile[good].Diagnostics)
	require.NotNil(t, byFile[good].Tree)
	assert.Equal(t, grammar.StartRule, byFile[good].Tree.Root.Rule)

	assert.Nil(t, byFile[bad].Tree)
	require.Len(t, byFile[bad].Diagnostics, 1)
	assert.Equal(t, tt.KindTrailingInput, byFile[bad].Diagnostics[0].Kind)
	assert.Equal(t, 3, byFile[bad].Diagnostics[0].Start.Column)
}

func TestRunLex(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "a.nano", "a + 1")

	var out bytes.Buffer
	require.NoError(t, runLex(lexer.Default(), path, false, &out))
	assert.Equal(t, "1:1  Identifier  \"a\"\n1:3  OpPlus      \"+\"\n1:5  IntLiteral  \"1\"\n1:6  EOF         \"\"\n", out.String())

	out.Reset()
	require.NoError(t, runLex(lexer.Default(), path, true, &out))
	assert.Contains(t, out.String(), "Whitespace")

	bad := writeFile(t, dir, "bad.nano", "a @")
	out.Reset()
	err := runLex(lexer.Default(), bad, false, &out)
	var lexErr *lexer.LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, '@', lexErr.Char)
	assert.Contains(t, out.String(), `Identifier`)

	assert.Error(t, runLex(lexer.Default(), filepath.Join(dir, "nope.nano"), false, &out))
}

func TestLoadLexer(t *testing.T) {
	t.Parallel()

	lx, err := loadLexer("")
	require.NoError(t, err)
	assert.Same(t, lexer.Default(), lx)

	path := writeFile(t, t.TempDir(), "c.yaml", "matchers:\n  - kind: Identifier\n    pattern: '[a-z]+'\n")
	lx, err = loadLexer(path)
	require.NoError(t, err)
	assert.Len(t, lx.Matchers(), 1)
}

func TestRunWatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	engine, err := loadEngine("", engineOverrides{}, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	var out syncBuffer
	done := make(chan error, 1)
	go func() { done <- runWatch(ctx, engine, []string{dir}, &out) }()

	// the watcher is registered asynchronously; keep writing until it reports
	path := filepath.Join(dir, "w.nano")
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("x"), 0o644)
		return bytes.Contains(out.Bytes(), []byte(path+": ok"))
	}, 5*time.Second, 200*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runWatch did not return")
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "nnc version "+version+"\n", out.String())
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf.Bytes()...)
}
