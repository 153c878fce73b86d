package main

import (
	"fmt"
	"os"
	"path/filepath"

	"antipop/internal/config"
	"antipop/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose    bool
	apiKey     string
	workspace  string
	configPath string

	// Resolved by PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "antipop",
	Short: "Anti-pop circuit visualizer and electronics tutor",
	Long: `antipop simulates the anti-pop timing circuit of a TPA3116 amplifier.

A capacitor charging through a transistor keeps the amplifier's SDZ pin low for
about a second after power-up, then releases it so the amp starts playing
without a speaker "pop". Power-off mutes it again at once.

Run without arguments to start the interactive schematic and tutor chat.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ws, err := resolveWorkspace()
		if err != nil {
			return err
		}
		workspace = ws

		if configPath == "" {
			configPath = config.DefaultPath(workspace)
		}
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if apiKey != "" {
			cfg.LLM.APIKey = apiKey
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		if err := logging.Initialize(workspace, cfg.Logging.Settings()); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		logging.Boot("antipop %s starting: command=%s workspace=%s", cfg.Version, cmd.Name(), workspace)

		// The TUI owns the terminal, so only headless commands log to stderr.
		if cmd == cmd.Root() {
			logger = zap.NewNop()
			return nil
		}
		logger, err = logging.NewCLILogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Gemini API key (or set GEMINI_API_KEY / GOOGLE_API_KEY / API_KEY)")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: <workspace>/.antipop/config.yaml)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(partsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func resolveWorkspace() (string, error) {
	if workspace != "" {
		return filepath.Abs(workspace)
	}
	return os.Getwd()
}
