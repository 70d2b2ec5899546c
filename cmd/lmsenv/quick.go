package main

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/lmsenv/internal/api"
	"github.com/mark3labs/lmsenv/internal/tui/theme"
	"github.com/spf13/cobra"
)

// rootAccountID is the account new subaccounts and courses are created under.
const rootAccountID = 1

var quickFlags struct {
	env         string
	subaccounts []string
	courses     []string
}

var quickSetupCmd = &cobra.Command{
	Use:   "quick-setup",
	Short: "Create subaccounts and courses directly",
	Long: `Create subaccounts and courses in an environment without filing a request.

Courses are given as name:code. Blank names, and courses without a code,
are skipped.

  lmsenv quick-setup --env test --subaccount "Faculty of Law" \
    --course "Statistics 101:STAT101" --course "Civil Law:LAW200"`,
	RunE: runQuickSetup,
}

func init() {
	quickSetupCmd.Flags().StringVarP(&quickFlags.env, "env", "e", "", "Target environment (defaults to the first configured one)")
	quickSetupCmd.Flags().StringArrayVar(&quickFlags.subaccounts, "subaccount", nil, "Subaccount to create (repeatable)")
	quickSetupCmd.Flags().StringArrayVar(&quickFlags.courses, "course", nil, "Course to create as name:code (repeatable)")
}

func runQuickSetup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	env := quickFlags.env
	if env == "" && len(cfg.Environments) > 0 {
		env = cfg.Environments[0]
	}

	req := buildSetupRequest(env, quickFlags.subaccounts, quickFlags.courses)
	if len(req.Subaccounts) == 0 && len(req.Courses) == 0 {
		return fmt.Errorf("nothing to create: pass --subaccount or --course")
	}

	res, err := newClient(cfg).Setup(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("quick setup failed: %w", err)
	}
	lipgloss.Print(formatSetupResult(res))
	return nil
}

// buildSetupRequest turns the flag values into a setup call. Blank entries
// and courses missing a name or code are dropped.
func buildSetupRequest(env string, subaccounts, courses []string) api.SetupRequest {
	req := api.SetupRequest{
		Environment: env,
		Subaccounts: []api.SetupSubaccount{},
		Courses:     []api.SetupCourse{},
	}
	for _, name := range subaccounts {
		if name = strings.TrimSpace(name); name == "" {
			continue
		}
		req.Subaccounts = append(req.Subaccounts, api.SetupSubaccount{
			Name:            name,
			ParentAccountID: rootAccountID,
		})
	}
	for _, c := range courses {
		name, code, _ := strings.Cut(c, ":")
		name, code = strings.TrimSpace(name), strings.TrimSpace(code)
		if name == "" || code == "" {
			continue
		}
		req.Courses = append(req.Courses, api.SetupCourse{
			Name:       name,
			CourseCode: code,
			AccountID:  rootAccountID,
		})
	}
	return req
}

// formatSetupResult lists what was created and what failed. Empty sections
// are left out.
func formatSetupResult(res *api.SetupResult) string {
	s := theme.Current().S()
	var b strings.Builder

	if len(res.Subaccounts) > 0 {
		b.WriteString(s.Label.Render(fmt.Sprintf("Subaccounts Created (%d)", len(res.Subaccounts))) + "\n")
		for _, sa := range res.Subaccounts {
			fmt.Fprintf(&b, "  %s (ID: %s)\n", sa.Name, sa.ID)
		}
	}
	if len(res.Courses) > 0 {
		b.WriteString(s.Label.Render(fmt.Sprintf("Courses Created (%d)", len(res.Courses))) + "\n")
		for _, c := range res.Courses {
			fmt.Fprintf(&b, "  %s - %s (ID: %s)\n", c.Name, c.CourseCode, c.ID)
		}
	}
	if len(res.Errors) > 0 {
		b.WriteString(s.Error.Render(fmt.Sprintf("Errors (%d)", len(res.Errors))) + "\n")
		for _, e := range res.Errors {
			fmt.Fprintf(&b, "  %s\n", e)
		}
	}
	if b.Len() == 0 {
		return "Nothing was created.\n"
	}
	return b.String()
}
