package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nano-lang/nnc/formatter"
	"github.com/nano-lang/nnc/internal"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Reparse source files whenever they change",
	Run: func(cmd *cobra.Command, args []string) {
		dirs := args
		if len(dirs) == 0 {
			dirs = []string{"."}
		}

		engine, err := loadEngine(cfgFile, engineOverrides{}, logger)
		if err != nil {
			logger.Fatal("Failed to initialize engine", zap.Error(err))
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := runWatch(ctx, engine, dirs, cmd.OutOrStdout()); err != nil {
			logger.Error("Error watching files", zap.Error(err))
			os.Exit(1)
		}
	},
}

// runWatch prints a report for every changed file until ctx is done.
func runWatch(ctx context.Context, engine *internal.Engine, dirs []string, w io.Writer) error {
	var mu sync.Mutex
	report := func(res *internal.Result) {
		mu.Lock()
		defer mu.Unlock()
		if len(res.Diagnostics) == 0 {
			fmt.Fprintf(w, "%s: ok\n", res.Filename)
			return
		}
		fmt.Fprintln(w, formatter.GenerateFormattedDiagnostics(res.Diagnostics, internal.NewSourceCode(res.Source)))
	}

	if err := engine.StartWatching(dirs, report); err != nil {
		return err
	}
	logger.Info("watching for changes", zap.Strings("dirs", dirs))

	<-ctx.Done()
	return engine.StopWatching()
}
