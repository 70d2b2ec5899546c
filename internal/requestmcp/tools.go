package requestmcp

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/mark3labs/lmsenv/internal/logger"
	"github.com/mark3labs/lmsenv/internal/request"
	"github.com/mark3labs/mcp-go/mcp"
)

// textArgs maps tool arguments to the form fields they set.
var textArgs = map[string]request.TextField{
	"requester":       request.FieldRequester,
	"topdesk_number":  request.FieldTopdeskNumber,
	"environment":     request.FieldEnvironment,
	"jira_epic":       request.FieldJiraEpic,
	"start_date":      request.FieldStartDate,
	"end_date":        request.FieldEndDate,
	"admin_users":     request.FieldAdminUsers,
	"subaccount_name": request.FieldSubaccountName,
	"app_names":       request.FieldAppNames,
	"special_notes":   request.FieldSpecialNotes,
}

// requestOptions are the arguments shared by preview-request and submit-request.
func requestOptions() []mcp.ToolOption {
	ids := make([]string, 0, 4)
	for _, sc := range request.Scenarios() {
		ids = append(ids, string(sc.ID))
	}

	opts := []mcp.ToolOption{
		mcp.WithString("scenario",
			mcp.Description("Scenario preset whose defaults fill the form"),
			mcp.Enum(ids...),
		),
		mcp.WithString("draft",
			mcp.Description("A complete request as YAML, in the format of `lmsenv request --file`. Overrides every other argument."),
		),
	}
	names := make([]string, 0, len(textArgs))
	for name := range textArgs {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		opts = append(opts, mcp.WithString(name, mcp.Description(strings.ReplaceAll(name, "_", " "))))
	}
	return opts
}

// registerTools registers the request tools with the MCP server.
func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("list-scenarios",
			mcp.WithDescription("List the scenario presets a request can start from"),
		),
		s.handleListScenarios,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("preview-request",
			append([]mcp.ToolOption{
				mcp.WithDescription("Render the request summary and JSON payload without submitting"),
			}, requestOptions()...)...,
		),
		s.handlePreviewRequest,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("submit-request",
			append([]mcp.ToolOption{
				mcp.WithDescription("Submit a test environment request to the provisioning backend"),
			}, requestOptions()...)...,
		),
		s.handleSubmitRequest,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list-requests",
			mcp.WithDescription("List submitted requests with their state"),
		),
		s.handleListRequests,
	)
}

// buildController turns tool arguments into a controller on the preview
// step.
func (s *Server) buildController(args map[string]any) (*request.Controller, error) {
	if raw, ok := args["draft"].(string); ok && strings.TrimSpace(raw) != "" {
		d, err := request.ParseDraft([]byte(raw))
		if err != nil {
			return nil, err
		}
		if _, ok := request.LookupScenario(d.Scenario); !ok {
			return nil, fmt.Errorf("unknown scenario %q", d.Scenario)
		}
		if err := s.checkEnvironment(d.Fields.Environment); err != nil {
			return nil, err
		}
		return d.Controller()
	}

	id, _ := args["scenario"].(string)
	if id == "" {
		return nil, fmt.Errorf("missing 'scenario' parameter")
	}
	if _, ok := request.LookupScenario(request.ScenarioID(id)); !ok {
		return nil, fmt.Errorf("unknown scenario %q", id)
	}

	fields := request.Resolve(request.ScenarioID(id)).Apply(request.NewFormFields())
	for name, field := range textArgs {
		if v, ok := args[name].(string); ok {
			fields.SetText(field, v)
		}
	}
	if fields.Environment == "" && len(s.environments) > 0 {
		fields.Environment = s.environments[0]
	}
	if err := s.checkEnvironment(fields.Environment); err != nil {
		return nil, err
	}

	d := &request.Draft{Scenario: request.ScenarioID(id), Fields: fields}
	return d.Controller()
}

func (s *Server) checkEnvironment(env string) error {
	if len(s.environments) == 0 || env == "" || slices.Contains(s.environments, env) {
		return nil
	}
	return fmt.Errorf("unknown environment %q (configured: %s)", env, strings.Join(s.environments, ", "))
}

func (s *Server) handleListScenarios(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type scenario struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	out := make([]scenario, 0, 4)
	for _, sc := range request.Scenarios() {
		out = append(out, scenario{ID: string(sc.ID), Title: sc.Title, Description: sc.Description})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handlePreviewRequest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctrl, err := s.buildController(req.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	scenario, _ := ctrl.Scenario()
	payload := request.BuildPayload(ctrl.Fields(), &scenario)
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("# " + request.Title + "\n\n")
	b.WriteString(ctrl.Preview().Markdown())
	b.WriteString("\n## Payload\n\n```json\n")
	b.Write(data)
	b.WriteString("\n```\n")
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleSubmitRequest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctrl, err := s.buildController(req.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	body, err := ctrl.Submit(ctx, s.backend)
	if err != nil {
		logger.Warn("MCP submission failed: %v", err)
		return mcp.NewToolResultError("Submission failed: " + err.Error()), nil
	}
	logger.Info("MCP submission accepted")

	text := "Request submitted."
	if len(body) > 0 {
		text += "\n\n" + string(body)
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleListRequests(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	records, err := s.backend.ListRequests(ctx)
	if err != nil {
		return mcp.NewToolResultError("Failed to load requests: " + err.Error()), nil
	}
	if len(records) == 0 {
		return mcp.NewToolResultText("No active requests found"), nil
	}

	now := s.now()
	var b strings.Builder
	for _, r := range records {
		fmt.Fprintf(&b, "- %s [%s] %s, %s, %s to %s\n",
			r.ID, r.State(now), r.DisplayName(), r.Environment,
			request.FormatNumericDate(r.StartDate), request.FormatNumericDate(r.EndDate))
	}
	return mcp.NewToolResultText(b.String()), nil
}
