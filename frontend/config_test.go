package frontend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nano-lang/nnc/grammar"
	"github.com/nano-lang/nnc/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const keywordConfig = `name: keywords
start: Script
extensions: [".kw"]
matchers:
  - kind: Whitespace
    pattern: '[ \t\n]+'
  - kind: Identifier
    pattern: '[a-z]+'
  - kind: Semicolon
    pattern: ';'
rules:
  - name: Script
    sequence:
      - many:
          - token: Identifier
            text: say
          - token: Identifier
          - token: Semicolon
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(createTempDir(t, "config"), ".nnc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    func(t *testing.T) string
		want    Config
		wantErr bool
	}{
		{
			name: "empty path",
			path: func(*testing.T) string { return "" },
		},
		{
			name: "missing file",
			path: func(t *testing.T) string { return filepath.Join(createTempDir(t, "config"), "nope.yaml") },
		},
		{
			name: "empty file",
			path: func(t *testing.T) string { return writeConfig(t, "") },
		},
		{
			name: "plain settings",
			path: func(t *testing.T) string {
				return writeConfig(t, "name: demo\nretain_ghosts: true\nmax_depth: 50\n")
			},
			want: Config{Name: "demo", RetainGhosts: true, MaxDepth: 50},
		},
		{
			name:    "unknown field",
			path:    func(t *testing.T) string { return writeConfig(t, "colour: blue\n") },
			wantErr: true,
		},
		{
			name:    "bad rules",
			path:    func(t *testing.T) string { return writeConfig(t, "rules:\n  - name: A\n    sequence:\n      - bogus: x\n") },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			config, err := LoadConfig(tt.path(t))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, config)
		})
	}
}

func TestConfig_Settings(t *testing.T) {
	t.Parallel()

	config, err := LoadConfig(writeConfig(t, keywordConfig))
	require.NoError(t, err)

	settings, err := config.Settings()
	require.NoError(t, err)
	require.NotNil(t, settings.Lexer)
	assert.Len(t, settings.Lexer.Matchers(), 3)
	assert.Equal(t, "Script", settings.Start)
	assert.Equal(t, []string{".kw"}, settings.Extensions)
	require.NotNil(t, settings.Table)
	assert.Equal(t, 1, settings.Table.Len())
}

func TestConfig_SettingsErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		matchers []MatcherConfig
		errMsg   string
	}{
		{
			name:     "unknown kind",
			matchers: []MatcherConfig{{Kind: "Keyword", Pattern: "if"}},
			errMsg:   "matcher 0",
		},
		{
			name:     "bad pattern",
			matchers: []MatcherConfig{{Kind: "Identifier", Pattern: "[a-"}},
			errMsg:   "matcher 0",
		},
		{
			name:     "synthetic EOF",
			matchers: []MatcherConfig{{Kind: "Identifier", Pattern: "a"}, {Kind: "EOF", Pattern: "$"}},
			errMsg:   "matcher 1",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Config{Matchers: tt.matchers}.Settings()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestNew_CustomLanguage(t *testing.T) {
	t.Parallel()

	engine, err := New(writeConfig(t, keywordConfig), zap.NewNop())
	require.NoError(t, err)
	assert.True(t, engine.HasSourceExtension("hello.kw"))

	res := engine.RunSource("hello.kw", []byte("say hi;\nsay bye;\n"))
	assert.Empty(t, res.Diagnostics)
	require.NotNil(t, res.Tree)
	assert.Equal(t, "Script", res.Tree.Root.MatchedWith)

	res = engine.RunSource("hello.kw", []byte("shout hi;"))
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, types.KindNoMatch, res.Diagnostics[0].Kind)
	assert.Nil(t, res.Tree)
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := New(writeConfig(t, "matchers:\n  - kind: Nope\n    pattern: x\n"), nil)
	assert.ErrorContains(t, err, "invalid configuration")

	_, err = New(writeConfig(t, "start: Missing\n"), nil)
	assert.ErrorContains(t, err, `start rule "Missing" is not defined`)
}

func TestDefaultConfig_RoundTrip(t *testing.T) {
	t.Parallel()

	d, err := yaml.Marshal(DefaultConfig())
	require.NoError(t, err)

	var config Config
	require.NoError(t, yaml.Unmarshal(d, &config))
	assert.Equal(t, "nnc", config.Name)
	assert.Equal(t, grammar.StartRule, config.Start)
	assert.Equal(t, grammar.Nano().Rules(), config.Rules.Rules())

	settings, err := config.Settings()
	require.NoError(t, err)
	assert.Equal(t, len(DefaultConfig().Matchers), len(settings.Lexer.Matchers()))
}
