package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/berrythewa/fmclip/internal/clipboard"
)

// openSession opens the store and, unless storeOnly, the clipboard and
// broker. Status lines are printed by the commands, not the broker.
func openSession(cmd *cobra.Command, storeOnly bool) (*clipboard.Session, error) {
	return clipboard.Open(GetConfig(), GetZapLogger(), clipboard.Options{
		NoClipboard: storeOnly,
		Prompter:    newTerminalPrompter(cmd.InOrStdin(), cmd.ErrOrStderr(), os.Stdin),
	})
}
