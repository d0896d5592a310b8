package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shelfshop/internal/config"
	"github.com/blackwell-systems/shelfshop/internal/logging"
	"github.com/blackwell-systems/shelfshop/internal/shop"
	"github.com/blackwell-systems/shelfshop/internal/tui"
	"github.com/blackwell-systems/shelfshop/internal/util"
)

var (
	cfg     *config.Config
	state   *shop.State
	logger  zerolog.Logger
	logFile io.Closer

	flagNoColor       bool
	flagNoInteractive bool
	flagConfig        string
	flagEmail         string
)

var rootCmd = &cobra.Command{
	Use:   "shelfshop",
	Short: "Terminal storefront for the bookstore",
	Long: `shelfshop is a terminal client for the bookstore: browse and search the
catalog, keep a cart, manage inventory as a manager and users as an admin.

Run 'shelfshop' with no arguments to open the interactive storefront.
Subcommands give the same operations for scripts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if tui.ShouldUseTUI(cmd) {
			return runStorefront(cmd.Context())
		}
		return cmd.Help()
	},
}

// Execute is the entry point called from main.
func Execute() {
	err := rootCmd.ExecuteContext(context.Background())
	if logFile != nil {
		_ = logFile.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagNoInteractive, "no-interactive", false, "Disable the interactive storefront")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/shelfshop/config.yml)")
	rootCmd.PersistentFlags().StringVar(&flagEmail, "email", "", "Sign in as this account for one command (or set SHELFSHOP_EMAIL)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		util.InitColor(flagNoColor)

		var err error
		cfg, err = loadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		// config show must still print a config that fails validation.
		if standalone(cmd) {
			return nil
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		logger, logFile = openLogger(cfg)
		state, err = newState(cfg, logger)
		return err
	}

	rootCmd.AddCommand(
		newLoginCmd(),
		newRegisterCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newBooksCmd(),
		newUsersCmd(),
		newConfigCmd(),
		newVersionCmd(),
		newCompletionCmd(),
	)
}

func loadConfig() (*config.Config, error) {
	if flagConfig != "" {
		return config.LoadFrom(flagConfig)
	}
	return config.Load()
}

func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.DefaultPath()
}

// standalone reports whether cmd runs without a backend.
func standalone(cmd *cobra.Command) bool {
	for c := cmd; c != nil && c != rootCmd; c = c.Parent() {
		if c.Parent() != rootCmd {
			continue
		}
		switch c.Name() {
		case "config", "version", "completion", "help":
			return true
		}
	}
	return false
}

// openLogger sends logs to the state dir so they never interleave with the
// TUI. When the file cannot be opened logging is disabled.
func openLogger(c *config.Config) (zerolog.Logger, io.Closer) {
	f, err := logging.OpenFile(c.Defaults.StateDir)
	if err != nil {
		warn("Logging disabled: %v", err)
		return zerolog.Nop(), nil
	}
	return logging.New(logging.Options{
		Level:  logging.ParseLevel(c.Log.Level),
		Format: c.Log.Format,
		Output: f,
	}), f
}
