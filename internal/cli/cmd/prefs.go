package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/berrythewa/fmclip/internal/config"
	"github.com/berrythewa/fmclip/internal/snippet"
	"github.com/berrythewa/fmclip/internal/storage"
	"github.com/berrythewa/fmclip/pkg/format"
)

func newPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show and change preferences",
		Long: `Show and change the preferences remembered between runs.

Defaults come from the "defaults" section of the config file; values set
here override them until reset.

Keys: ` + strings.Join(storage.Keys(), ", "),
	}

	cmd.AddCommand(newPrefsListCmd())
	cmd.AddCommand(newPrefsGetCmd())
	cmd.AddCommand(newPrefsSetCmd())
	cmd.AddCommand(newPrefsResetCmd())
	cmd.AddCommand(newPrefsSelectCmd())
	return cmd
}

func newPrefsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List every preference",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, true)
			if err != nil {
				return err
			}
			defer s.Close()

			entries, err := s.Preferences().All()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colors := formatOptions(out).UseColors
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, e := range entries {
				source := format.DimIf("default", colors)
				if e.IsSet {
					source = format.ColorizeIf("set", format.Green, colors)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", e.Key, e.Value, source)
			}
			return w.Flush()
		},
	}
}

func newPrefsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one preference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, true)
			if err != nil {
				return err
			}
			defer s.Close()

			value, err := s.Preferences().Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}

func newPrefsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one preference",
		Example: `  fmclip prefs set prettyPrintXml false
  fmclip prefs set lastManualType script
  fmclip prefs set exportPath ~/Desktop/clipboard.xml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, true)
			if err != nil {
				return err
			}
			defer s.Close()

			key, value := args[0], args[1]
			switch key {
			case storage.KeyExportPath, storage.KeyImportPath, storage.KeyLastCustomSavePath:
				value = config.ExpandHome(value)
			}
			prefs := s.Preferences()
			if err := prefs.Set(key, value); err != nil {
				return err
			}
			effective, err := prefs.Get(key)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, effective)
			return nil
		},
	}
}

func newPrefsResetCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "reset [key]",
		Short: "Restore the default of one or every preference",
		Args: func(cmd *cobra.Command, args []string) error {
			if all && len(args) > 0 {
				return fmt.Errorf("--all takes no key")
			}
			if !all && len(args) != 1 {
				return fmt.Errorf("give a key or --all")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, true)
			if err != nil {
				return err
			}
			defer s.Close()

			if all {
				if err := s.Preferences().ResetAll(); err != nil {
					return fmt.Errorf("failed to reset preferences: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "All preferences reset to defaults")
				return nil
			}
			if err := s.Preferences().Reset(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s reset to default\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "reset every preference")
	return cmd
}

func newPrefsSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select <type>",
		Short: "Choose the type used when auto-detection is off",
		Long: `Choose the type used when auto-detection is off. The type may be given
by key, tag, label or number as listed by 'fmclip types'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, ok := snippet.Resolve(args[0])
			if !ok {
				return fmt.Errorf("unknown type %q, see 'fmclip types'", args[0])
			}

			s, err := openSession(cmd, true)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Preferences().SetManualType(ct); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Manual type set to %s (%s)\n", ct.Label, ct.Tag)
			return nil
		},
	}
}

func newPathsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Show or choose the export and import files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, true)
			if err != nil {
				return err
			}
			defer s.Close()

			settings, err := s.Preferences().Settings()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Export: %s\n", settings.ExportPath)
			fmt.Fprintf(out, "Import: %s", settings.EffectiveImportPath())
			if settings.UseSamePathForImport {
				fmt.Fprint(out, " (same as export)")
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.AddCommand(newPathCmd(true), newPathCmd(false))
	return cmd
}

func newPathCmd(export bool) *cobra.Command {
	name, key := "import", storage.KeyImportPath
	if export {
		name, key = "export", storage.KeyExportPath
	}

	return &cobra.Command{
		Use:   name + " [path]",
		Short: "Set the " + name + " file, or ask for it when no path is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				s, err := openSession(cmd, true)
				if err != nil {
					return err
				}
				defer s.Close()

				path := config.ExpandHome(args[0])
				if err := s.Preferences().SetString(key, path); err != nil {
					return err
				}
				fmt.Fprintf(out, "%s path set to %s\n", name, path)
				return nil
			}

			s, err := openSession(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			var (
				chosen string
				cerr   error
			)
			done := func(path string, err error) { chosen, cerr = path, err }
			if export {
				s.Broker.ChooseExportPath(done)
			} else {
				s.Broker.ChooseImportPath(done)
			}
			if cerr != nil {
				return cerr
			}
			if chosen == "" {
				fmt.Fprintln(out, "Cancelled.")
				return nil
			}
			fmt.Fprintf(out, "%s path set to %s\n", name, chosen)
			return nil
		},
	}
}
