package tui

import (
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shelfshop/internal/util"
)

// ShouldUseTUI reports whether cmd should open the interactive storefront:
// stdin and stdout must be terminals, and neither --no-interactive nor
// --json may be set.
func ShouldUseTUI(cmd *cobra.Command) bool {
	if !util.IsTTY() || !util.IsInputTTY() {
		return false
	}
	if noInteractive, _ := cmd.Flags().GetBool("no-interactive"); noInteractive {
		return false
	}
	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return false
	}
	return true
}
