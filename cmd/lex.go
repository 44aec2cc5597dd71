package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nano-lang/nnc/formatter"
	"github.com/nano-lang/nnc/frontend"
	"github.com/nano-lang/nnc/lexer"
)

var lexAll bool

var lexCmd = &cobra.Command{
	Use:   "lex <file>",
	Short: "Print the tokens of a source file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		lx, err := loadLexer(cfgFile)
		if err != nil {
			logger.Fatal("Failed to initialize lexer", zap.Error(err))
		}
		if err := runLex(lx, args[0], lexAll, cmd.OutOrStdout()); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	lexCmd.Flags().BoolVar(&lexAll, "all", false, "Include whitespace, comments and newlines")
}

func loadLexer(configPath string) (*lexer.Lexer, error) {
	config, err := frontend.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	settings, err := config.Settings()
	if err != nil {
		return nil, err
	}
	if settings.Lexer == nil {
		return lexer.Default(), nil
	}
	return settings.Lexer, nil
}

// runLex writes the token listing of path to w. When the file cannot be
// fully tokenized the tokens read so far are still written.
func runLex(lx *lexer.Lexer, path string, all bool, w io.Writer) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}
	src := string(content)

	tokens, lexErr := lx.Tokenize(src)
	if _, err := io.WriteString(w, formatter.FormatTokens(tokens, src, all)); err != nil {
		return err
	}
	if lexErr != nil {
		return fmt.Errorf("%s: %w", path, lexErr)
	}
	return nil
}
