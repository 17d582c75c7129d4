package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/existflow/qazzerep/internal/config"
	"github.com/existflow/qazzerep/internal/i18n"
	"github.com/existflow/qazzerep/internal/logger"
	"github.com/existflow/qazzerep/internal/output"
	"github.com/existflow/qazzerep/internal/router"
	"github.com/existflow/qazzerep/internal/tui"
	"github.com/spf13/cobra"
)

var (
	logLevel   string
	logFile    string
	logConsole bool
	apiURL     string
	publicURL  string
	language   string
	startRoute string
	noColor    bool

	cfg *config.Config
	out = output.NewPrinter(false)

	// stdout and stderr back the printer; tests swap them
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

var rootCmd = &cobra.Command{
	Use:   "qazzerep",
	Short: "QazZerep - document similarity checks from the terminal",
	Long: `QazZerep uploads documents to the QazZerep analysis backend, shows
pairwise similarity reports and manages scan history.

Run 'qazzerep' without arguments to launch the interactive TUI.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnv(); err != nil {
			return err
		}

		// Load config from file (or defaults if not exists)
		loaded, err := config.Load()
		if err != nil {
			logger.Warn("Failed to load config, using defaults", logger.F("error", err))
			loaded = config.DefaultConfig()
		}
		cfg = loaded

		// Override with CLI flags if provided
		configChanged := false
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
			configChanged = true
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = logFile
			configChanged = true
		}
		if cmd.Flags().Changed("log-console") {
			cfg.LogConsole = logConsole
			configChanged = true
		}
		if cmd.Flags().Changed("api-url") {
			cfg.APIURL = apiURL
			configChanged = true
		}
		if cmd.Flags().Changed("public-url") {
			cfg.PublicURL = publicURL
			configChanged = true
		}
		if cmd.Flags().Changed("lang") {
			lang, err := i18n.ParseLang(language)
			if err != nil {
				return err
			}
			cfg.Language = string(lang)
			configChanged = true
		}

		// Save config if changed via CLI flags
		if configChanged {
			if err := cfg.Save(); err != nil {
				logger.Warn("Failed to save config", logger.F("error", err))
			}
		}

		logConfig := logger.Config{
			Level:      logger.ParseLevel(cfg.LogLevel),
			FilePath:   cfg.LogFile,
			MaxSize:    10 * 1024 * 1024, // 10MB
			MaxAge:     7,
			MaxBackups: 5,
			Console:    cfg.LogConsole,
		}

		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		out = output.NewPrinterWithWriters(stdout, stderr, !noColor && output.UseColors())

		logger.Info("QazZerep started", logger.F("command", cmd.Name()), logger.F("api", cfg.APIURL))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		return launchTUI(cmd, startRoute)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("QazZerep exiting", logger.F("command", cmd.Name()))
		logger.Close()
	},
}

var openCmd = &cobra.Command{
	Use:   "open PATH",
	Short: "Open the TUI at a path",
	Long: `Open the interactive client at a path. Guards apply as usual, so a
protected path redirects to the login view.

Examples:
  qazzerep open /history
  qazzerep open /verify/65f0aa11c0ffee01
  qazzerep open privacy`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return launchTUI(cmd, args[0])
	},
}

func launchTUI(cmd *cobra.Command, path string) error {
	a, err := openApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	logger.Info("Launching TUI", logger.F("path", path))
	return tui.Run(a.tuiDeps(), path)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add logging flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")

	// Backend and display flags
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend base URL (saved to config)")
	rootCmd.PersistentFlags().StringVar(&publicURL, "public-url", "", "Origin used in verification links (saved to config)")
	rootCmd.PersistentFlags().StringVar(&language, "lang", "", "Interface language: rus, kaz, eng (saved to config)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.Flags().StringVar(&startRoute, "route", router.PathHome, "Path to open in the TUI, e.g. /history or /verify/<id>")

	// Add subcommands
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(openCmd)
}
