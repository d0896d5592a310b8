package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/blackwell-systems/shelfshop/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or inspect the config file",
	}
	cmd.AddCommand(newConfigInitCmd(), newConfigShowCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		backend   string
		projectID string
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the defaults",
		Long: `Write a config file. The API key is never stored; it is read from the
environment variable named by backend.api_key_env (SHELFSHOP_API_KEY).

Examples:
  shelfshop config init
  shelfshop config init --backend firebase --project bookstore-demo`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			next := *cfg
			if cmd.Flags().Changed("backend") {
				next.Backend.Kind = backend
			}
			if cmd.Flags().Changed("project") {
				next.Backend.ProjectID = projectID
			}
			if err := next.Validate(); err != nil {
				return err
			}
			if err := config.SaveTo(path, &next); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}
			ok("Wrote %s", path)
			if next.Backend.Kind == config.BackendFirebase && next.Backend.APIKey == "" {
				warn("Set %s before signing in", next.Backend.EffectiveAPIKeyEnv())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "backend", config.BackendMemory, "Backend: firebase or memory")
	cmd.Flags().StringVar(&projectID, "project", "", "Firebase project id")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			header("# %s", configPath())
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				warn("%v", err)
			}
			if cfg.Backend.APIKey != "" {
				printField("api key", "set via "+cfg.Backend.EffectiveAPIKeyEnv())
			}
			return nil
		},
	}
}
