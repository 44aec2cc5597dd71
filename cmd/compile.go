package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nano-lang/nnc/formatter"
	"github.com/nano-lang/nnc/frontend"
	"github.com/nano-lang/nnc/internal"
	tt "github.com/nano-lang/nnc/internal/types"
)

var (
	compileJSONOutput bool
	compileConcrete   bool
	compileStart      string
	outPath           string
)

var compileCmd = &cobra.Command{
	Use:   "compile [paths...]",
	Short: "Tokenize and parse source files and print their syntax trees",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		engine, err := loadEngine(cfgFile, engineOverrides{concrete: compileConcrete, start: compileStart}, logger)
		if err != nil {
			logger.Fatal("Failed to initialize engine", zap.Error(err))
		}

		opts := compileOptions{json: compileJSONOutput, outPath: outPath}
		failed, err := runCompile(ctx, logger, engine, args, opts, cmd.OutOrStdout())
		if err != nil {
			logger.Error("Error processing files", zap.Error(err))
			os.Exit(1)
		}
		if failed {
			os.Exit(1)
		}
	},
}

func init() {
	compileCmd.Flags().BoolVar(&compileJSONOutput, "json", false, "Output trees and diagnostics in JSON format")
	compileCmd.Flags().BoolVar(&compileConcrete, "concrete", false, "Keep whitespace, comments and newlines in the tree")
	compileCmd.Flags().StringVar(&compileStart, "start", "", "Rule to start parsing from")
	compileCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
}

type compileOptions struct {
	json    bool
	outPath string
}

// fileOutput is the JSON output for one file.
type fileOutput struct {
	Diagnostics []tt.Diagnostic      `json:"diagnostics,omitempty"`
	Tree        *formatter.JSONTree `json:"tree,omitempty"`
}

// runCompile processes paths and writes the outcome to w. It reports
// whether any diagnostic was produced.
func runCompile(ctx context.Context, logger *zap.Logger, engine frontend.Engine, paths []string, opts compileOptions, w io.Writer) (bool, error) {
	results, err := frontend.ProcessFiles(ctx, logger, engine, paths, frontend.ProcessFile)
	if err != nil {
		return false, err
	}
	failed := len(frontend.Diagnostics(results)) > 0

	if opts.json {
		return failed, writeJSON(results, opts.outPath, w)
	}

	for _, res := range results {
		if len(res.Diagnostics) > 0 {
			fmt.Fprintln(w, formatter.GenerateFormattedDiagnostics(res.Diagnostics, internal.NewSourceCode(res.Source)))
			continue
		}
		fmt.Fprintf(w, "%s:\n%s\n", res.Filename, formatter.FormatTree(res.Tree, res.Tokens, res.Source))
	}
	return failed, nil
}

func writeJSON(results []*internal.Result, outPath string, w io.Writer) error {
	byFile := make(map[string]fileOutput, len(results))
	for _, res := range results {
		byFile[res.Filename] = fileOutput{
			Diagnostics: res.Diagnostics,
			Tree:        formatter.TreeJSON(res.Filename, res.Tree, res.Tokens, res.Source),
		}
	}

	d, err := json.Marshal(byFile)
	if err != nil {
		return fmt.Errorf("error marshalling results to JSON: %w", err)
	}
	if outPath == "" {
		_, err = fmt.Fprintln(w, string(d))
		return err
	}
	if err := os.WriteFile(outPath, d, 0o644); err != nil {
		return fmt.Errorf("error writing JSON output file: %w", err)
	}
	return nil
}
