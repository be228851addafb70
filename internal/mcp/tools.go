// ABOUTME: MCP tool implementations for weight logs, plans, targets, and history.
// ABOUTME: Each handler delegates to the tracker and returns a typed output.
package mcp

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/harperreed/weightplan/internal/calc"
	"github.com/harperreed/weightplan/internal/calendar"
	"github.com/harperreed/weightplan/internal/history"
	"github.com/harperreed/weightplan/internal/models"
	"github.com/harperreed/weightplan/internal/plans"
	"github.com/harperreed/weightplan/internal/tracker"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// log_weight
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_weight",
		Description: "Record a body weight in kg. A second entry on the same day replaces the first.",
	}, s.handleLogWeight)

	// list_weights
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_weights",
		Description: "List recent weight logs, newest first",
	}, s.handleListWeights)

	// delete_weight
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_weight",
		Description: "Delete a weight log by ID or ID prefix",
	}, s.handleDeleteWeight)

	// get_targets
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_targets",
		Description: "Get BMR, TDEE, and the daily calorie target for the active plan",
	}, s.handleGetTargets)

	// list_plans
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_plans",
		Description: "List goal plans and which one is active",
	}, s.handleListPlans)

	// create_plan
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_plan",
		Description: "Create a goal plan with a target weight and date",
	}, s.handleCreatePlan)

	// activate_plan
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "activate_plan",
		Description: "Make a plan the only active plan",
	}, s.handleActivatePlan)

	// delete_plan
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_plan",
		Description: "Delete a plan by ID or ID prefix",
	}, s.handleDeletePlan)

	// get_history
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_history",
		Description: "Get weight history grouped daily, weekly, or monthly over 1W, 1M, 1Y, or ALL",
	}, s.handleGetHistory)

	// export_csv
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "export_csv",
		Description: "Export the weight progress report as CSV",
	}, s.handleExportCSV)
}

// Tool input/output types

type logWeightInput struct {
	Weight float64 `json:"weight" jsonschema:"Body weight in kg"`
	Date   string  `json:"date,omitempty" jsonschema:"Date (YYYY-MM-DD or RFC 3339), defaults to now"`
}

type logOutput struct {
	ID      string  `json:"id"`
	Date    string  `json:"date"`
	Weight  float64 `json:"weight"`
	Message string  `json:"message"`
}

type listWeightsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type listWeightsOutput struct {
	Logs  []logOutput `json:"logs"`
	Count int         `json:"count"`
}

type idInput struct {
	ID string `json:"id" jsonschema:"ID or ID prefix"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type emptyInput struct{}

type planOutput struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	StartDate    string  `json:"start_date"`
	TargetDate   string  `json:"target_date"`
	TargetWeight float64 `json:"target_weight"`
	Active       bool    `json:"active"`
	Notes        string  `json:"notes,omitempty"`
}

type targetsOutput struct {
	CurrentWeight float64      `json:"current_weight"`
	Height        float64      `json:"height_cm"`
	Age           int          `json:"age"`
	Gender        string       `json:"gender"`
	ActivityLevel string       `json:"activity_level"`
	BMI           float64      `json:"bmi"`
	BMICategory   string       `json:"bmi_category"`
	LogCount      int          `json:"log_count"`
	ToGo          float64      `json:"to_go"`
	ActivePlan    *planOutput  `json:"active_plan,omitempty"`
	Targets       *calc.Result `json:"targets,omitempty"`
	Message       string       `json:"message"`
}

type listPlansOutput struct {
	Plans []planOutput `json:"plans"`
}

type createPlanInput struct {
	Name         string  `json:"name" jsonschema:"Plan name"`
	StartDate    string  `json:"start_date,omitempty" jsonschema:"Start date (YYYY-MM-DD), defaults to today"`
	TargetDate   string  `json:"target_date" jsonschema:"Target date (YYYY-MM-DD)"`
	TargetWeight float64 `json:"target_weight" jsonschema:"Target weight in kg"`
	Notes        string  `json:"notes,omitempty" jsonschema:"Optional notes"`
	Activate     bool    `json:"activate,omitempty" jsonschema:"Make this the active plan"`
}

type getHistoryInput struct {
	Group  string `json:"group,omitempty" jsonschema:"daily, weekly, or monthly (default daily)"`
	Range  string `json:"range,omitempty" jsonschema:"1W, 1M, 1Y, or ALL (default 1M)"`
	Offset int    `json:"offset,omitempty" jsonschema:"Shift the range back (negative) or forward by whole ranges"`
}

type historyRow struct {
	ID     string  `json:"id,omitempty"`
	Label  string  `json:"label"`
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
	Change float64 `json:"change"`
	Count  int     `json:"count"`
}

type historyOutput struct {
	Group string       `json:"group"`
	Range string       `json:"range"`
	Rows  []historyRow `json:"rows"`
}

type exportCSVOutput struct {
	Filename string `json:"filename"`
	CSV      string `json:"csv"`
}

// Tool handlers

func (s *Server) handleLogWeight(ctx context.Context, req *mcp.CallToolRequest, input logWeightInput) (*mcp.CallToolResult, logOutput, error) {
	var date time.Time
	if input.Date != "" {
		d, err := parseDate(input.Date)
		if err != nil {
			return nil, logOutput{}, err
		}
		date = d
	}

	l, err := s.tracker.SubmitLog(input.Weight, date)
	if err != nil {
		return nil, logOutput{}, fmt.Errorf("failed to log weight: %w", err)
	}

	out := toLogOutput(l)
	out.Message = fmt.Sprintf("Logged %.1f kg on %s (ID: %s)", l.Weight, out.Date, out.ID)
	return nil, out, nil
}

func (s *Server) handleListWeights(ctx context.Context, req *mcp.CallToolRequest, input listWeightsInput) (*mcp.CallToolResult, listWeightsOutput, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	logs, err := s.tracker.Logs(input.Limit)
	if err != nil {
		return nil, listWeightsOutput{}, fmt.Errorf("failed to list weights: %w", err)
	}

	out := listWeightsOutput{Logs: make([]logOutput, 0, len(logs)), Count: len(logs)}
	for _, l := range logs {
		out.Logs = append(out.Logs, toLogOutput(l))
	}
	return nil, out, nil
}

func (s *Server) handleDeleteWeight(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	removed, err := s.tracker.DeleteLog(input.ID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete weight: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted %.1f kg log from %s", removed.Weight, removed.Date.Format(calendar.ISODate)),
	}, nil
}

func (s *Server) handleGetTargets(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, targetsOutput, error) {
	sum, err := s.tracker.Summary()
	if err != nil {
		return nil, targetsOutput{}, fmt.Errorf("failed to compute targets: %w", err)
	}

	out := targetsOutput{
		CurrentWeight: sum.Profile.CurrentWeight,
		Height:        sum.Profile.Height,
		Age:           sum.Profile.Age,
		Gender:        string(sum.Profile.Gender),
		ActivityLevel: string(sum.Profile.ActivityLevel),
		BMI:           sum.BMI,
		BMICategory:   sum.BMICategory,
		LogCount:      sum.LogCount,
		ToGo:          sum.ToGo,
		Targets:       sum.Result,
	}
	if sum.ActivePlan == nil {
		out.Message = "No active plan. Create one with create_plan to get calorie targets."
		return nil, out, nil
	}
	plan := toPlanOutput(*sum.ActivePlan)
	out.ActivePlan = &plan
	out.Message = fmt.Sprintf("Eat %.0f kcal/day to reach %.1f kg by %s", sum.Result.DailyCalorieTarget, plan.TargetWeight, plan.TargetDate)
	return nil, out, nil
}

func (s *Server) handleListPlans(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, listPlansOutput, error) {
	list, err := s.tracker.Plans()
	if err != nil {
		return nil, listPlansOutput{}, fmt.Errorf("failed to list plans: %w", err)
	}

	out := listPlansOutput{Plans: make([]planOutput, 0, len(list))}
	for _, p := range list {
		out.Plans = append(out.Plans, toPlanOutput(p))
	}
	return nil, out, nil
}

func (s *Server) handleCreatePlan(ctx context.Context, req *mcp.CallToolRequest, input createPlanInput) (*mcp.CallToolResult, planOutput, error) {
	in := plans.Input{
		Name:         input.Name,
		StartDate:    calendar.Day(s.tracker.Now()),
		TargetWeight: input.TargetWeight,
		Notes:        input.Notes,
	}
	if input.StartDate != "" {
		d, err := parseDate(input.StartDate)
		if err != nil {
			return nil, planOutput{}, err
		}
		in.StartDate = d
	}
	if input.TargetDate != "" {
		d, err := parseDate(input.TargetDate)
		if err != nil {
			return nil, planOutput{}, err
		}
		in.TargetDate = d
	}

	p, err := s.tracker.CreatePlan(in, input.Activate)
	if err != nil {
		return nil, planOutput{}, fmt.Errorf("failed to create plan: %w", err)
	}
	return nil, toPlanOutput(p), nil
}

func (s *Server) handleActivatePlan(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	p, err := s.tracker.ActivatePlan(input.ID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to activate plan: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Activated plan %q", p.Name)}, nil
}

func (s *Server) handleDeletePlan(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	p, err := s.tracker.DeletePlan(input.ID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete plan: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted plan %q", p.Name)}, nil
}

func (s *Server) handleGetHistory(ctx context.Context, req *mcp.CallToolRequest, input getHistoryInput) (*mcp.CallToolResult, historyOutput, error) {
	group, err := history.ParseGroup(input.Group)
	if err != nil {
		return nil, historyOutput{}, err
	}
	rng := history.RangeMonth
	if input.Range != "" {
		if rng, err = history.ParseRange(input.Range); err != nil {
			return nil, historyOutput{}, err
		}
	}

	view, err := s.tracker.History(tracker.HistoryOptions{Group: group, Range: rng, Offset: input.Offset})
	if err != nil {
		return nil, historyOutput{}, fmt.Errorf("failed to build history: %w", err)
	}

	out := historyOutput{Group: string(group), Range: string(rng), Rows: make([]historyRow, 0, len(view.Rows))}
	for _, r := range view.Rows {
		row := historyRow{
			Label:  r.Label,
			Date:   r.Date.Format(calendar.ISODate),
			Weight: r.Weight,
			Change: r.Change,
			Count:  r.Count,
		}
		if r.ID != "" {
			row.ID = models.ShortID(r.ID)
		}
		out.Rows = append(out.Rows, row)
	}
	return nil, out, nil
}

func (s *Server) handleExportCSV(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, exportCSVOutput, error) {
	var buf bytes.Buffer
	name, err := s.tracker.ExportCSV(&buf)
	if err != nil {
		return nil, exportCSVOutput{}, fmt.Errorf("failed to export csv: %w", err)
	}
	return nil, exportCSVOutput{Filename: name, CSV: buf.String()}, nil
}

func toLogOutput(l models.WeightLog) logOutput {
	return logOutput{
		ID:     models.ShortID(l.ID),
		Date:   l.Date.Format(calendar.ISODate),
		Weight: l.Weight,
	}
}

func toPlanOutput(p models.Plan) planOutput {
	return planOutput{
		ID:           models.ShortID(p.ID),
		Name:         p.Name,
		StartDate:    p.StartDate.Format(calendar.ISODate),
		TargetDate:   p.TargetDate.Format(calendar.ISODate),
		TargetWeight: p.TargetWeight,
		Active:       p.IsActive,
		Notes:        p.Notes,
	}
}

// parseDate accepts RFC 3339, "2006-01-02 15:04", or a bare ISO date in local time.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02 15:04", calendar.ISODate} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
}
