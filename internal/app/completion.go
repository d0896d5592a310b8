package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shelfshop/internal/access"
	"github.com/blackwell-systems/shelfshop/internal/cache"
)

var completionShells = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash":       func(r *cobra.Command, w io.Writer) error { return r.GenBashCompletionV2(w, true) },
	"zsh":        func(r *cobra.Command, w io.Writer) error { return r.GenZshCompletion(w) },
	"fish":       func(r *cobra.Command, w io.Writer) error { return r.GenFishCompletion(w, true) },
	"powershell": func(r *cobra.Command, w io.Writer) error { return r.GenPowerShellCompletionWithDesc(w) },
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell autocompletion scripts",
		Long: `Generate autocompletion scripts for your shell. Book ids complete from
the last catalog snapshot, so completion works offline.

Examples:
  source <(shelfshop completion bash)
  source <(shelfshop completion zsh)
  shelfshop completion fish > ~/.config/fish/completions/shelfshop.fish`,
		Args:                  cobra.ExactArgs(1),
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, found := completionShells[args[0]]
			if !found {
				return fmt.Errorf("unsupported shell %q", args[0])
			}
			return gen(cmd.Root(), os.Stdout)
		},
	}
}

// completeBookIDs offers ids from the saved catalog snapshot, described by
// title. It never contacts the backend.
func completeBookIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	c, err := loadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	products, _, found, err := cache.New(c.Defaults.StateDir).LoadCatalog()
	if err != nil || !found {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	for _, p := range products {
		if strings.HasPrefix(p.ID, toComplete) {
			out = append(out, p.ID+"\t"+p.Title)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeRoles offers role names for the second set-role argument.
func completeRoles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 1 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	for _, r := range access.Roles() {
		out = append(out, r.String())
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
