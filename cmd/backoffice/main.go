// Backoffice serves the products and users admin pages over HTTP,
// a websocket event stream and MCP (streamable HTTP, optionally stdio).
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jaakkos/backoffice/internal/policy"
)

// Version is set by -ldflags at build time.
var Version = "dev"

// rootOptions carries the global flags and what PersistentPreRunE builds from them.
type rootOptions struct {
	configPath string
	logFile    string
	verbose    bool

	cfg     *policy.Config
	pol     *policy.Policy
	logger  *zap.Logger
	closeFn func()
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "backoffice",
		Short:         "Admin dashboard for products and users",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return opts.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
			if opts.closeFn != nil {
				opts.closeFn()
			}
		},
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default $"+policy.ConfigEnv+")")
	root.PersistentFlags().StringVar(&opts.logFile, "log-file", "", `Log file path; "none" disables file logging`)
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newStatsCmd(opts))
	root.AddCommand(newVersionCmd())
	return root
}

// setup loads the config and builds the logger.
func (o *rootOptions) setup() error {
	cfg := policy.DefaultConfig()
	if path := policy.ConfigPath(o.configPath); path != "" {
		loaded, err := policy.LoadConfig(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if o.logFile != "" {
		cfg.LogFile = o.logFile
	}
	o.cfg = cfg
	o.pol = policy.New(cfg)

	level := o.pol.LogLevel()
	if o.verbose {
		level = zapcore.DebugLevel
	}
	o.logger, o.closeFn = setupLogger(o.pol.LogFile(), level)
	return nil
}

// setSeed overrides the seed file. Flag paths are relative to the working directory.
func (o *rootOptions) setSeed(path string) error {
	if path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		path = abs
	}
	o.pol.SetSeedFile(path)
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "backoffice "+Version)
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
