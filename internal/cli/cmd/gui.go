package cmd

import (
	"github.com/spf13/cobra"

	"github.com/berrythewa/fmclip/internal/gui"
)

func newGUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Open the fmclip window",
		Long: `Open the fmclip window with export and import buttons, the type picker
and the preference checkboxes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return gui.Run(GetConfig(), GetZapLogger())
		},
	}
}
