package main

import (
	"github.com/mark3labs/lmsenv/internal/tui/requests"
	"github.com/spf13/cobra"
)

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "List submitted requests and clean them up",
	RunE:  runRequests,
}

func runRequests(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return requests.Run(newClient(cfg))
}
