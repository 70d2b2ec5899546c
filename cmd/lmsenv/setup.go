package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/mark3labs/lmsenv/internal/api"
	"github.com/mark3labs/lmsenv/internal/config"
	"github.com/spf13/cobra"
)

var setupFlags struct {
	project  bool
	force    bool
	apiURL   string
	discover bool
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create lmsenv configuration file",
	Long: `Create an lmsenv configuration file with the default settings.

By default, creates a global config at ~/.config/lmsenv/lmsenv.yml.
Use --project to create a project-local config in the current directory.
Use --discover to ask the backend which environments it manages.`,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().BoolVarP(&setupFlags.project, "project", "p", false, "Create config in current directory instead of global location")
	setupCmd.Flags().BoolVarP(&setupFlags.force, "force", "f", false, "Overwrite existing config file")
	setupCmd.Flags().StringVar(&setupFlags.apiURL, "backend", config.DefaultAPIURL, "Provisioning backend URL to write")
	setupCmd.Flags().BoolVar(&setupFlags.discover, "discover", false, "Fetch the environment list from the backend")
}

func runSetup(cmd *cobra.Command, args []string) error {
	targetPath := config.GlobalPath()
	if setupFlags.project {
		targetPath = config.ProjectPath()
	}

	if !setupFlags.force && fileExists(targetPath) {
		return fmt.Errorf("config file already exists at %s\n\nUse --force to overwrite", targetPath)
	}

	cfg := config.Defaults()
	cfg.APIURL = setupFlags.apiURL
	if err := cfg.Validate(); err != nil {
		return err
	}
	if setupFlags.discover {
		envs, err := api.New(cfg.APIURL).Environments(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to discover environments: %w", err)
		}
		if len(envs) > 0 {
			cfg.Environments = environmentNames(envs)
		}
	}

	var err error
	if setupFlags.project {
		err = config.WriteProject(cfg)
	} else {
		err = config.WriteGlobal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Printf("Config written to: %s\n\n", targetPath)
	fmt.Println("Run 'lmsenv request' to get started.")
	return nil
}

// environmentNames orders the discovered environments the way the built-in
// list does, with unknown names sorted after them.
func environmentNames(envs map[string]string) []string {
	names := make([]string, 0, len(envs))
	for _, known := range config.DefaultEnvironments {
		if _, ok := envs[known]; ok {
			names = append(names, known)
		}
	}
	var rest []string
	for name := range envs {
		if !slices.Contains(names, name) {
			rest = append(rest, name)
		}
	}
	slices.Sort(rest)
	return append(names, rest...)
}

// fileExists checks if a file exists (helper for setup command).
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
