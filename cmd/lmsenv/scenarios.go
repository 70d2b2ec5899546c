package main

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/lmsenv/internal/request"
	"github.com/mark3labs/lmsenv/internal/tui/theme"
	"github.com/spf13/cobra"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List the request scenarios",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := theme.Current().S()
		for _, sc := range request.Scenarios() {
			lipgloss.Println(lipgloss.JoinHorizontal(lipgloss.Top,
				s.Label.Render(fmt.Sprintf("%-16s", sc.ID)),
				s.Value.Render(sc.Title),
			))
			lipgloss.Println(s.Muted.Render(fmt.Sprintf("%-16s%s", "", sc.Description)))
		}
		return nil
	},
}
