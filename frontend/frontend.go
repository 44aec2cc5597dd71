// Package frontend drives the nano front end over files and directories.
package frontend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"sync"

	"github.com/nano-lang/nnc/internal"
	tt "github.com/nano-lang/nnc/internal/types"
	"github.com/nano-lang/nnc/scanner"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// Engine is what the processing helpers need from an engine.
type Engine interface {
	Run(filename string) (*internal.Result, error)
	RunSource(filename string, source []byte) *internal.Result
	HasSourceExtension(path string) bool
}

// FileProcessor processes one file with an engine.
type FileProcessor func(Engine, string) (*internal.Result, error)

// SourceProcessor processes one in-memory source with an engine.
type SourceProcessor func(Engine, []byte) (*internal.Result, error)

// ProgressOutput receives the progress bar drawn while processing a directory.
var ProgressOutput io.Writer = os.Stderr

// New creates an engine configured from the file at configurationPath.
func New(configurationPath string, logger *zap.Logger) (*internal.Engine, error) {
	config, err := LoadConfig(configurationPath)
	if err != nil {
		return nil, err
	}
	return NewFromConfig(config, logger)
}

// NewFromConfig creates an engine from an already loaded configuration.
func NewFromConfig(config Config, logger *zap.Logger) (*internal.Engine, error) {
	settings, err := config.Settings()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return internal.NewEngine(settings, logger)
}

func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	sources [][]byte,
	processor SourceProcessor,
) ([]*internal.Result, error) {
	var results []*internal.Result
	for i, source := range sources {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := processor(engine, source)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing source", zap.Int("source", i), zap.Error(err))
			}
			return nil, err
		}
		results = append(results, res)
	}

	return results, nil
}

func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	paths []string,
	processor FileProcessor,
) ([]*internal.Result, error) {
	var results []*internal.Result
	for _, path := range paths {
		res, err := ProcessPath(ctx, logger, engine, path, processor)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return nil, err
		}
		results = append(results, res...)
	}

	return results, nil
}

// ProcessPath processes path, or every source file under it when it is a
// directory. Directory files are processed concurrently and the results are
// sorted by filename. On cancellation the results gathered so far are
// returned with the context error.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	path string,
	processor FileProcessor,
) ([]*internal.Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	results := []*internal.Result{}
	if !info.IsDir() {
		if !engine.HasSourceExtension(path) {
			return results, nil
		}
		res, err := processor(engine, path)
		if err != nil {
			return results, err
		}
		return append(results, res), nil
	}

	files, err := scanner.New(path, engine.HasSourceExtension).Scan()
	if err != nil {
		return nil, fmt.Errorf("error walking %s: %w", path, err)
	}

	type fileResult struct {
		res *internal.Result
		err error
	}
	resultChan := make(chan fileResult, len(files))

	// limit the number of workers
	sem := make(chan struct{}, runtime.NumCPU())

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(ProgressOutput),
		progressbar.OptionSetDescription(path),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	var (
		wg       sync.WaitGroup
		canceled error
	)
dispatch:
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			canceled = err
			break
		}
		select {
		case <-ctx.Done():
			canceled = ctx.Err()
			break dispatch
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(fp string) {
			defer wg.Done()
			defer func() { <-sem }()

			res, err := processor(engine, fp)
			if err != nil && logger != nil {
				logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
			}
			resultChan <- fileResult{res: res, err: err}
			_ = bar.Add(1)
		}(file.Path)
	}

	wg.Wait()
	close(resultChan)
	_ = bar.Finish()

	var errs []error
	for r := range resultChan {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		if r.res != nil {
			results = append(results, r.res)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Filename < results[j].Filename
	})

	if canceled != nil {
		return results, canceled
	}
	return results, errors.Join(errs...)
}

func ProcessFile(engine Engine, filePath string) (*internal.Result, error) {
	return engine.Run(filePath)
}

func ProcessSource(engine Engine, source []byte) (*internal.Result, error) {
	return engine.RunSource("", source), nil
}

// Diagnostics collects the diagnostics of every result in order.
func Diagnostics(results []*internal.Result) []tt.Diagnostic {
	var out []tt.Diagnostic
	for _, r := range results {
		out = append(out, r.Diagnostics...)
	}
	return out
}
