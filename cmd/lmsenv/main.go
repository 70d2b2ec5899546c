package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/fang"
	"github.com/mark3labs/lmsenv/internal/api"
	"github.com/mark3labs/lmsenv/internal/config"
	"github.com/mark3labs/lmsenv/internal/logger"
	"github.com/mark3labs/lmsenv/internal/tui/theme"
	"github.com/spf13/cobra"
)

const (
	logoText1 = "█   █▀▄▀█ █▀▀ █▀▀ █▄ █ █ █"
	logoText2 = "█▄▄ █ ▀ █ ▄▄█ ██▄ █ ▀█ ▀▄▀"
)

// Version set via ldflags during build
var version = "dev"

var rootFlags struct {
	apiURL string
	plain  bool
}

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lmsenv",
	Short: "Request and manage LMS test environments from the terminal",
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

// loadConfig loads and validates the configuration, applies the root flags
// and configures the logger.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if rootFlags.plain {
		lipgloss.Writer.Profile = colorprofile.Ascii
	}
	if cmd.Flags().Changed("api-url") {
		cfg.APIURL = strings.TrimRight(rootFlags.apiURL, "/")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w\n\nRun 'lmsenv setup' to create a config file", err)
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, fmt.Errorf("failed to configure logger: %w", err)
	}
	logger.Debug("Using backend %s", cfg.APIURL)
	return cfg, nil
}

// newClient creates the backend client for cfg.
func newClient(cfg *config.Config) *api.Client {
	return api.New(cfg.APIURL, api.WithRateLimit(cfg.RateLimit))
}

func init() {
	// Set Long description with logo
	rootCmd.Long = renderLogo() + `

lmsenv files requests for LMS test environments (subaccounts, courses and
app integrations), previews them as the familiar request form, submits them
to the provisioning backend and keeps an eye on the environments in use.

Configuration is loaded from multiple sources with the following precedence:
  CLI flags > Environment variables > Project config > Global config > Defaults

Project config: ./lmsenv.yml
Global config: ~/.config/lmsenv/lmsenv.yml`

	rootCmd.PersistentFlags().StringVar(&rootFlags.apiURL, "api-url", "", "Provisioning backend URL (overrides api_url)")
	rootCmd.PersistentFlags().BoolVar(&rootFlags.plain, "plain", false, "Print without colors")

	rootCmd.AddCommand(requestCmd)
	rootCmd.AddCommand(requestsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(scenariosCmd)
	rootCmd.AddCommand(quickSetupCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(mcpCmd)
}
