package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/berrythewa/fmclip/internal/common"
	"github.com/berrythewa/fmclip/internal/config"
	"github.com/berrythewa/fmclip/internal/transfer"
	"github.com/berrythewa/fmclip/pkg/format"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fmclip",
		Short: "Move database definitions between the clipboard and XML files",
		Long: `fmclip saves the definitions the database tool puts on the clipboard
(tables, fields, scripts, script steps, layouts, custom functions, value
lists and themes) to XML files, and puts XML files back on the clipboard
with the right type so they can be pasted.

Running fmclip without a command exports the clipboard to the export path.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, exportFlags{})
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if zapLogger != nil {
				_ = zapLogger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <user config dir>/fmclip/config.yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log warnings and errors")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	root.PersistentFlags().StringVar(&backend, "backend", "", "clipboard backend (auto, native, x11, wayland, text)")

	root.AddCommand(
		newExportCmd(),
		newImportCmd(),
		newDetectCmd(),
		newTypesCmd(),
		newPrefsCmd(),
		newPathsCmd(),
		newHistoryCmd(),
		newConfigCmd(),
		newGUICmd(),
		newVersionCmd(),
	)
	return root
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, formatterFor(os.Stderr).Failure(err.Error()))
		os.Exit(1)
	}
}

func setup() error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if backend != "" {
		loaded.Clipboard.Backend = backend
	}

	logger, err := common.NewLogger(loaded, common.LoggerOptions{Verbose: verbose, Quiet: quiet})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Debug("Configuration loaded",
		zap.String("config", loaded.Path),
		zap.String("db", loaded.DBPath()),
		zap.String("backend", loaded.Clipboard.Backend))

	SetConfig(loaded)
	SetZapLogger(logger)
	return nil
}

func formatterFor(w io.Writer) *format.Formatter {
	return format.New(formatOptions(w))
}

func formatOptions(w io.Writer) format.Options {
	opts := format.For(w)
	if noColor {
		opts.UseColors = false
	}
	return opts
}

// report prints the status line of a finished operation. A nil result means
// the user cancelled the prompt.
func report(cmd *cobra.Command, res *transfer.Result, err error) error {
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if res == nil {
		fmt.Fprintln(out, "Cancelled.")
		return nil
	}
	fmt.Fprintln(out, formatterFor(out).Success(res.Message))
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
