package frontend

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/nano-lang/nnc/grammar"
	"github.com/nano-lang/nnc/internal"
	"github.com/nano-lang/nnc/lexer"
	"github.com/nano-lang/nnc/token"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file looked up when none is given.
const DefaultConfigFile = ".nnc.yaml"

// Config represents the overall configuration of the compiler front end.
type Config struct {
	Name         string          `yaml:"name"`
	Start        string          `yaml:"start,omitempty"`
	RetainGhosts bool            `yaml:"retain_ghosts"`
	MaxDepth     int             `yaml:"max_depth,omitempty"`
	Extensions   []string        `yaml:"extensions,omitempty"`
	Matchers     []MatcherConfig `yaml:"matchers,omitempty"`
	Rules        *grammar.Table  `yaml:"rules,omitempty"`
}

// MatcherConfig is one lexer matcher as written in the configuration file.
type MatcherConfig struct {
	Kind    string `yaml:"kind"`
	Pattern string `yaml:"pattern"`
}

// DefaultConfig spells out the built-in nano language.
func DefaultConfig() Config {
	ms := lexer.Default().Matchers()
	matchers := make([]MatcherConfig, len(ms))
	for i, m := range ms {
		matchers[i] = MatcherConfig{Kind: m.Kind.String(), Pattern: m.Pattern}
	}
	return Config{
		Name:       "nnc",
		Start:      grammar.StartRule,
		Extensions: internal.DefaultExtensions,
		Matchers:   matchers,
		Rules:      grammar.Nano(),
	}
}

// LoadConfig reads the configuration file at path. An empty path or a
// missing file yields an empty Config, which selects every default.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	config, err := parseConfigurationFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("error parsing config file %s: %w", path, err)
	}
	return config, nil
}

func parseConfigurationFile(configurationPath string) (Config, error) {
	var config Config

	f, err := os.Open(configurationPath)
	if err != nil {
		return config, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, err
	}
	return config, nil
}

// Settings turns the configuration into engine settings.
func (c Config) Settings() (internal.Settings, error) {
	s := internal.Settings{
		Table:        c.Rules,
		Start:        c.Start,
		RetainGhosts: c.RetainGhosts,
		MaxDepth:     c.MaxDepth,
		Extensions:   c.Extensions,
	}
	if len(c.Matchers) == 0 {
		return s, nil
	}

	matchers := make([]lexer.Matcher, 0, len(c.Matchers))
	for i, mc := range c.Matchers {
		kind, err := token.ParseKind(mc.Kind)
		if err != nil {
			return s, fmt.Errorf("matcher %d: %w", i, err)
		}
		m, err := lexer.Compile(kind, mc.Pattern)
		if err != nil {
			return s, fmt.Errorf("matcher %d: %w", i, err)
		}
		matchers = append(matchers, m)
	}
	lx, err := lexer.New(matchers)
	if err != nil {
		return s, err
	}
	s.Lexer = lx
	return s, nil
}
