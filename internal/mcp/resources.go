// ABOUTME: MCP resource implementations for the weightplan tracker.
// ABOUTME: Provides weightplan://summary and weightplan://plans resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/weightplan/internal/calendar"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	summaryURI = "weightplan://summary"
	plansURI   = "weightplan://plans"
)

func (s *Server) registerResources() {
	// weightplan://summary - Profile, active plan, and calorie targets
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         summaryURI,
		Name:        "Weight Plan Summary",
		Description: "Profile, active plan, calorie targets, and the latest weigh-in",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)

	// weightplan://plans - Every plan with its active flag
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         plansURI,
		Name:        "Goal Plans",
		Description: "All goal plans and which one is active",
		MIMEType:    "application/json",
	}, s.handlePlansResource)
}

// Resource handlers

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	sum, err := s.tracker.Summary()
	if err != nil {
		return nil, fmt.Errorf("failed to load summary: %w", err)
	}

	result := map[string]interface{}{
		"generated_at": s.tracker.Now().Format(time.RFC3339),
		"profile": map[string]interface{}{
			"height_cm":      sum.Profile.Height,
			"current_weight": sum.Profile.CurrentWeight,
			"age":            sum.Profile.Age,
			"gender":         sum.Profile.Gender,
			"activity_level": sum.Profile.ActivityLevel,
			"bmi":            sum.BMI,
			"bmi_category":   sum.BMICategory,
		},
		"log_count": sum.LogCount,
	}
	if sum.Latest != nil {
		result["latest"] = toLogOutput(*sum.Latest)
	}
	if sum.ActivePlan != nil {
		result["active_plan"] = toPlanOutput(*sum.ActivePlan)
		result["targets"] = sum.Result
		result["to_go"] = sum.ToGo
	}

	return jsonResource(summaryURI, result)
}

func (s *Server) handlePlansResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	list, err := s.tracker.Plans()
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	out := make([]planOutput, 0, len(list))
	for _, p := range list {
		out = append(out, toPlanOutput(p))
	}
	result := map[string]interface{}{
		"as_of": s.tracker.Now().Format(calendar.ISODate),
		"plans": out,
		"count": len(out),
	}

	return jsonResource(plansURI, result)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
