package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/lmsenv/internal/config"
	"github.com/mark3labs/lmsenv/internal/hooks"
	"github.com/mark3labs/lmsenv/internal/logger"
	"github.com/mark3labs/lmsenv/internal/request"
	"github.com/mark3labs/lmsenv/internal/tui"
	"github.com/mark3labs/lmsenv/internal/tui/requests"
	"github.com/mark3labs/lmsenv/internal/tui/wizard"
	"github.com/spf13/cobra"
)

var requestFlags struct {
	file   string
	dryRun bool
	export string
	width  int
}

var requestCmd = &cobra.Command{
	Use:   "request",
	Short: "Request a new test environment",
	Long: `Request a new test environment.

Without flags a wizard walks through three steps: pick a scenario, fill in
the request form and review the preview before submitting. After a
successful submission the request list is shown.

With --file the request is read from a YAML draft instead. The draft names
a scenario; its defaults are applied first and every key in the file
overrides them:

  scenario: bulk-testing
  requester: Jan Jansen
  environment: test
  start_date: 2024-03-01
  end_date: 2024-06-30
  courses:
    - name: Statistics 101
      sections: "2"

The preview and the JSON payload are printed, and the request is submitted
unless --dry-run is given.`,
	RunE: runRequest,
}

func init() {
	requestCmd.Flags().StringVarP(&requestFlags.file, "file", "f", "", "Read the request from a YAML draft instead of the wizard")
	requestCmd.Flags().BoolVar(&requestFlags.dryRun, "dry-run", false, "Print the preview and payload without submitting (with --file)")
	requestCmd.Flags().StringVar(&requestFlags.export, "export", "", "Write the preview as Markdown into this directory")
	requestCmd.Flags().IntVar(&requestFlags.width, "width", 100, "Wrap width of the printed preview")
}

func runRequest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	hooksCfg, err := hooks.LoadConfig(workDir)
	if err != nil {
		return err
	}

	if requestFlags.file != "" {
		return runDraft(cmd.Context(), cfg, hooksCfg, workDir)
	}

	client := newClient(cfg)
	result, err := wizard.Run(wizard.Options{
		Submitter:     client,
		Environments:  cfg.Environments,
		RedirectDelay: cfg.RedirectDelay,
		ExportDir:     requestFlags.export,
		Hooks:         hooksCfg,
		WorkDir:       workDir,
	})
	if err != nil {
		return err
	}
	if result.Redirect {
		return requests.Run(client)
	}
	return nil
}

// runDraft previews and submits a request read from a YAML draft.
func runDraft(ctx context.Context, cfg *config.Config, hooksCfg *hooks.Config, workDir string) error {
	draft, err := request.LoadDraft(requestFlags.file)
	if err != nil {
		return err
	}
	if draft.Fields.Environment == "" && len(cfg.Environments) > 0 {
		draft.Fields.Environment = cfg.Environments[0]
	}

	ctrl, err := draft.Controller()
	if err != nil {
		return err
	}
	doc := ctrl.Preview()
	payload := request.BuildPayload(ctrl.Fields(), &draft.Scenario)

	lipgloss.Println(tui.RenderMarkdown("# "+request.Title+"\n\n"+doc.Markdown(), requestFlags.width))

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}
	lipgloss.Println(tui.HighlightJSON(string(data)))

	if requestFlags.export != "" {
		path, err := request.ExportMarkdown(requestFlags.export, draft.Scenario, ctrl.Fields(), doc)
		if err != nil {
			return err
		}
		fmt.Printf("\nPreview saved to %s\n", path)
	}

	if requestFlags.dryRun {
		fmt.Println("\nDry run: nothing submitted.")
		return nil
	}

	// Interrupting stops waiting for hooks; the submission itself is one call.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	body, err := ctrl.Submit(ctx, newClient(cfg))
	if err != nil {
		return fmt.Errorf("submission failed: %w", err)
	}
	fmt.Println("\nRequest submitted.")
	if len(body) > 0 {
		lipgloss.Println(tui.HighlightJSON(string(body)))
	}

	if hooksCfg != nil {
		vars := hooks.Variables{
			Scenario:    string(draft.Scenario),
			Environment: payload.Environment,
			Requester:   payload.Requester,
		}
		for _, r := range hooks.RunPostSubmit(ctx, hooksCfg, workDir, vars, data) {
			if r.Err != nil {
				logger.Warn("hook %q failed: %v", r.Command, r.Err)
				fmt.Fprintf(os.Stderr, "Hook failed: %s: %v\n", r.Command, r.Err)
				continue
			}
			if r.Output != "" {
				fmt.Print(r.Output)
			}
		}
	}
	return nil
}
