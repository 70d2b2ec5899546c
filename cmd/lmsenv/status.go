package main

import (
	"strconv"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/mark3labs/lmsenv/internal/api"
	"github.com/mark3labs/lmsenv/internal/tui/dashboard"
	"github.com/mark3labs/lmsenv/internal/tui/theme"
	"github.com/spf13/cobra"
)

var statusFlags struct {
	once bool
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the usage of every test environment",
	Long: `Show the usage of every configured test environment.

The dashboard refreshes every refresh_interval (default 30s); press r to
refresh immediately. Use --once to print the status a single time.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusFlags.once, "once", false, "Print the status once instead of opening the dashboard")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	client := newClient(cfg)

	if !statusFlags.once {
		return dashboard.Run(client, cfg.Environments, cfg.RefreshInterval)
	}

	t := theme.Current()
	health, err := client.Health(cmd.Context())
	if err != nil {
		health = err.Error()
	}
	lipgloss.Println(t.S().Muted.Render("Backend " + cfg.APIURL + ": " + health))

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(t.BgSurface2))).
		Headers("Environment", "Status", "Subaccounts", "Courses", "Last activity")

	for _, env := range cfg.Environments {
		s, err := client.EnvironmentStatus(cmd.Context(), env)
		tbl.Row(statusRow(env, s, err)...)
	}
	lipgloss.Println(tbl.String())
	return nil
}

func statusRow(env string, s *api.EnvironmentStatus, err error) []string {
	if err != nil {
		return []string{env, dashboard.StatusError.String(), "-", "-", err.Error()}
	}
	activity := "-"
	if s.LastActivity != nil {
		activity = dashboard.HumanizeActivity(*s.LastActivity, time.Now())
	}
	return []string{
		env,
		dashboard.Classify(s).String(),
		strconv.Itoa(s.Subaccounts),
		strconv.Itoa(s.Courses),
		activity,
	}
}
