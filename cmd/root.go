package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nano-lang/nnc/frontend"
	"github.com/nano-lang/nnc/internal"
)

const defaultTimeout = 5 * time.Minute

var (
	cfgFile string
	timeout time.Duration
	verbose bool

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:              "nnc [paths...]",
	Short:            "nnc - the nano compiler front end",
	TraverseChildren: true, // Prioritize subcommands
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(verbose)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	Run: func(cmd *cobra.Command, args []string) {
		// no subcommand
		if len(args) == 0 {
			_ = cmd.Help()
			return
		}
		// Format: nnc [path1 path2 ...] => behaves like the compile subcommand
		compileCmd.Run(compileCmd, args)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", frontend.DefaultConfigFile, "Path to the configuration file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", defaultTimeout, "Set a timeout for the command")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(lexCmd)
	rootCmd.AddCommand(watchCmd)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// engineOverrides are command line settings that take precedence over the
// configuration file.
type engineOverrides struct {
	concrete bool
	start    string
}

func loadEngine(configPath string, o engineOverrides, logger *zap.Logger) (*internal.Engine, error) {
	config, err := frontend.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if o.concrete {
		config.RetainGhosts = true
	}
	if o.start != "" {
		config.Start = o.start
	}
	return frontend.NewFromConfig(config, logger)
}
