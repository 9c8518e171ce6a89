package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/berrythewa/fmclip/internal/snippet"
	"github.com/berrythewa/fmclip/internal/types"
	"github.com/berrythewa/fmclip/pkg/format"
)

// newHistoryCmd creates the history command with all subcommands
func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse past exports and imports",
		Long: `Browse past exports and imports:
  • List recent transfers
  • Show one transfer with its XML
  • Put a past definition back on the clipboard
  • Show statistics or clear the history`,
	}

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistoryRestoreCmd())
	cmd.AddCommand(newHistoryStatsCmd())
	cmd.AddCommand(newHistoryClearCmd())
	return cmd
}

// newHistoryListCmd creates the list subcommand
func newHistoryListCmd() *cobra.Command {
	var (
		limit     int
		since     time.Duration
		direction string
		typeName  string
		compact   bool
		preview   bool
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent transfers",
		Long: `List recent transfers, newest first.

Examples:
  fmclip history list                    # Show last 10 entries
  fmclip history list -n 50 --compact    # One line per entry
  fmclip history list --since 24h        # Entries from the last day
  fmclip history list --type script      # Only scripts
  fmclip history list --preview          # Add a line of XML per entry
  fmclip history list --direction import # Only imports`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := types.HistoryFilter{Limit: limit, Direction: types.Direction(direction)}
			if direction != "" && !filter.Direction.Valid() {
				return fmt.Errorf("direction must be export or import, got %q", direction)
			}
			if typeName != "" {
				ct, ok := snippet.Resolve(typeName)
				if !ok {
					return fmt.Errorf("unknown type %q, see 'fmclip types'", typeName)
				}
				filter.Tag = ct.Tag
			}
			if since > 0 {
				filter.Since = time.Now().Add(-since)
			}

			s, err := openSession(cmd, true)
			if err != nil {
				return err
			}
			defer s.Close()

			records, err := s.History().List(filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				for _, r := range records {
					r.Payload = ""
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}

			opts := formatOptions(out)
			if compact {
				colors := opts.UseColors
				opts = format.CompactOptions()
				opts.UseColors = colors
			}
			f := format.New(opts)
			if preview && !compact {
				f.WithPreviews(func(rec *types.TransferRecord) []byte {
					if !rec.HasPayload() {
						return nil
					}
					data, err := s.History().Payload(rec)
					if err != nil {
						return nil
					}
					return data
				})
			}
			fmt.Fprintln(out, f.FormatRecordList(records))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of entries to show (0 = all)")
	cmd.Flags().DurationVar(&since, "since", 0, "show entries since duration (e.g. 24h)")
	cmd.Flags().StringVarP(&direction, "direction", "d", "", "export or import")
	cmd.Flags().StringVarP(&typeName, "type", "t", "", "filter by type key, tag or label")
	cmd.Flags().BoolVarP(&compact, "compact", "c", false, "use compact single-line format")
	cmd.Flags().BoolVarP(&preview, "preview", "p", false, "show the start of the stored XML")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

// newHistoryShowCmd creates the show subcommand
func newHistoryShowCmd() *cobra.Command {
	var (
		raw      bool
		maxLines int
	)

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one transfer",
		Long: `Show a transfer by its id or a unique prefix of it.

Examples:
  fmclip history show 3f2a            # Details and an XML preview
  fmclip history show 3f2a --raw      # The stored XML only`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, true)
			if err != nil {
				return err
			}
			defer s.Close()

			rec, err := s.History().Get(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var data []byte
			if rec.HasPayload() {
				if data, err = s.History().Payload(rec); err != nil {
					return err
				}
			}
			if raw {
				if data == nil {
					return fmt.Errorf("no payload stored for %s", rec.ID)
				}
				_, err := out.Write(data)
				return err
			}

			opts := formatOptions(out)
			opts.MaxLines = maxLines
			f := format.New(opts)
			fmt.Fprintln(out, f.FormatRecord(rec))
			if preview := format.FormatXML(data, opts); preview != "" {
				fmt.Fprintln(out, format.CreateBox("XML", preview, opts))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print the stored XML only")
	cmd.Flags().IntVar(&maxLines, "max-lines", 20, "maximum XML lines to show (0 = no limit)")
	return cmd
}

func newHistoryRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "Put a past definition back on the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			rec, err := s.History().Get(args[0])
			if err != nil {
				return err
			}
			if !rec.HasPayload() {
				return fmt.Errorf("no payload stored for %s, enable history.store_payload to keep them", rec.ID)
			}
			data, err := s.History().Payload(rec)
			if err != nil {
				return err
			}

			res, err := s.Broker.Restore(commandContext(cmd), rec, data)
			return report(cmd, res, err)
		},
	}
}

func newHistoryStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show history statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, true)
			if err != nil {
				return err
			}
			defer s.Close()

			records, err := s.History().List(types.HistoryFilter{})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, format.FormatStats(format.ComputeStats(records), formatOptions(out)))
			return nil
		},
	}
}

func newHistoryClearCmd() *cobra.Command {
	var (
		force bool
		keep  int
	)

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete history entries",
		Long: `Delete every history entry, or all but the newest ones with --keep.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, true)
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			if keep > 0 {
				n, err := s.History().Trim(keep)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Removed %d entries\n", n)
				return nil
			}

			if !force {
				fmt.Fprint(cmd.ErrOrStderr(), "Delete the whole history? [y/N]: ")
				var answer string
				fmt.Fscanln(cmd.InOrStdin(), &answer)
				if !strings.EqualFold(strings.TrimSpace(answer), "y") {
					fmt.Fprintln(out, "Cancelled.")
					return nil
				}
			}
			if err := s.History().Clear(); err != nil {
				return err
			}
			fmt.Fprintln(out, "History cleared")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "do not ask for confirmation")
	cmd.Flags().IntVar(&keep, "keep", 0, "keep the newest entries instead of clearing everything")
	return cmd
}
