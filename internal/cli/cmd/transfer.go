package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/berrythewa/fmclip/internal/config"
	"github.com/berrythewa/fmclip/internal/snippet"
	"github.com/berrythewa/fmclip/internal/transfer"
)

type exportFlags struct {
	as   bool
	path string
}

func newExportCmd() *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Save the clipboard definition to a file",
		Long: `Save the definition on the clipboard to an XML file.

Examples:
  fmclip export                     # write to the export path
  fmclip export --path ~/s.xml      # write to another file
  fmclip export --as                # ask for the file, remember it for next time
  fmclip export --raw --no-open     # keep the XML as copied, do not open it`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.as, "as", false, "prompt for the destination file")
	cmd.Flags().StringVarP(&flags.path, "path", "p", "", "destination file (default is the export path)")
	cmd.Flags().Bool("pretty", false, "pretty-print the XML")
	cmd.Flags().Bool("raw", false, "write the XML exactly as copied")
	cmd.Flags().Bool("open", false, "open the file after saving")
	cmd.Flags().Bool("no-open", false, "do not open the file after saving")
	cmd.MarkFlagsMutuallyExclusive("pretty", "raw")
	cmd.MarkFlagsMutuallyExclusive("open", "no-open")
	cmd.MarkFlagsMutuallyExclusive("as", "path")
	return cmd
}

func runExport(cmd *cobra.Command, flags exportFlags) error {
	s, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	broker := s.Broker.WithOverrides(transfer.Overrides{
		PrettyPrintXML:      boolOverride(cmd, "pretty", "raw"),
		OpenFileAfterExport: boolOverride(cmd, "open", "no-open"),
	})
	ctx := commandContext(cmd)

	switch {
	case flags.as:
		var (
			res  *transfer.Result
			rerr error
		)
		broker.ExportAs(ctx, func(r *transfer.Result, err error) { res, rerr = r, err })
		return report(cmd, res, rerr)
	case flags.path != "":
		res, err := broker.Export(ctx, config.ExpandHome(flags.path))
		return report(cmd, res, err)
	default:
		res, err := broker.ExportDefault(ctx)
		return report(cmd, res, err)
	}
}

func newImportCmd() *cobra.Command {
	var (
		from     bool
		typeName string
	)

	cmd := &cobra.Command{
		Use:   "import [path]",
		Short: "Put a definition file on the clipboard",
		Long: `Read an XML definition file and put it on the clipboard with its type,
ready to paste.

The type is detected from the XML unless auto-detection is off, in which
case the manually selected type is used.

Examples:
  fmclip import                     # read the import path
  fmclip import ~/script.xml        # read a given file
  fmclip import --from              # ask for the file
  fmclip import --type script x.xml # force the type (implies --manual)`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if from && len(args) > 0 {
				return fmt.Errorf("--from cannot be combined with a path")
			}

			var o transfer.Overrides
			o.AutoDetectType = boolOverride(cmd, "auto", "manual")
			if typeName != "" {
				ct, ok := snippet.Resolve(typeName)
				if !ok {
					return fmt.Errorf("unknown type %q, see 'fmclip types'", typeName)
				}
				manual := false
				o.ManualType = &ct
				o.AutoDetectType = &manual
			}

			s, err := openSession(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			broker := s.Broker.WithOverrides(o)
			ctx := commandContext(cmd)

			switch {
			case from:
				var (
					res  *transfer.Result
					rerr error
				)
				broker.ImportFrom(ctx, func(r *transfer.Result, err error) { res, rerr = r, err })
				return report(cmd, res, rerr)
			case len(args) == 1:
				res, err := broker.Import(ctx, config.ExpandHome(args[0]))
				return report(cmd, res, err)
			default:
				res, err := broker.ImportDefault(ctx)
				return report(cmd, res, err)
			}
		},
	}

	cmd.Flags().BoolVar(&from, "from", false, "prompt for the file to import")
	cmd.Flags().StringVarP(&typeName, "type", "t", "", "type key, tag, label or number to use instead of detection")
	cmd.Flags().Bool("auto", false, "detect the type from the XML")
	cmd.Flags().Bool("manual", false, "use the manually selected type")
	cmd.MarkFlagsMutuallyExclusive("auto", "manual")
	cmd.MarkFlagsMutuallyExclusive("type", "auto")
	return cmd
}

func newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect [path|-]",
		Short: "Show the type of a definition",
		Long: `Show which type a definition would be given.

With a path the file is classified, with "-" standard input is. Without an
argument the clipboard is read and its type reported.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			f := formatterFor(out)

			if len(args) == 0 {
				return detectClipboard(cmd, out)
			}

			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(config.ExpandHome(args[0]))
			}
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}

			s, err := openSession(cmd, true)
			if err != nil {
				return err
			}
			defer s.Close()

			settings, err := s.Preferences().Settings()
			if err != nil {
				return err
			}
			opts := settings.DetectOptions()
			opts.AutoDetect = true

			result := snippet.Detect(string(data), opts)
			fmt.Fprintln(out, f.FormatOutcome(result))
			return transfer.OutcomeError(result)
		},
	}
}

func detectClipboard(cmd *cobra.Command, out io.Writer) error {
	s, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := commandContext(cmd)
	content, err := s.Clipboard.ReadTyped(ctx)
	if err != nil {
		return fmt.Errorf("failed to read clipboard: %w", err)
	}
	if content.Empty() {
		fmt.Fprintln(out, "The clipboard holds no definition.")
		return nil
	}

	f := formatterFor(out)
	ct, known := snippet.LookupByTag(content.Tag)
	if !known {
		return fmt.Errorf("unsupported clipboard type %q", content.Tag)
	}
	fmt.Fprintf(out, "Clipboard: %s (%s), %d bytes via %s\n", ct.Label, ct.Tag, len(content.Data), s.Clipboard.Name())

	result, err := s.Broker.Detect(content.Text())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Payload:   %s\n", f.FormatOutcome(result))
	GetZapLogger().Debug("Clipboard inspected", zap.String("tag", content.Tag), zap.String("outcome", result.Kind.String()))
	return nil
}

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the definition types",
		Long: `List the definition types in order with their clipboard tag and key.
The type used when auto-detection is off is marked with "*".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, true)
			if err != nil {
				return err
			}
			defer s.Close()

			selected, err := s.Preferences().ManualType()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatterFor(out).FormatTypes(snippet.All(), selected))
			return nil
		},
	}
}

// boolOverride reads a pair of opposing flags. It returns nil when neither
// was given.
func boolOverride(cmd *cobra.Command, on, off string) *bool {
	flags := cmd.Flags()
	if flags.Lookup(on) == nil {
		return nil
	}
	switch {
	case flags.Changed(on):
		v, _ := flags.GetBool(on)
		return &v
	case flags.Changed(off):
		v, _ := flags.GetBool(off)
		v = !v
		return &v
	}
	return nil
}
