package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/perfboard/internal/performance/application/queries"
)

// RegisterResources registers MCP resources that expose perfboard data.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}
	t := tools{app: deps.App}

	srv.Resource("perfboard://rankings/employees").
		Name("Employee rankings").
		Description("All employees ranked by performance score").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if t.app == nil {
				return nil, fmt.Errorf("ranking requires database connection")
			}
			rankings, err := t.rankEmployees(ctx, rankEmployeesInput{})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, rankings)
		})

	srv.Resource("perfboard://rankings/managers").
		Name("Manager rankings").
		Description("All managers ranked by team performance").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if t.app == nil {
				return nil, fmt.Errorf("ranking requires database connection")
			}
			rankings, err := t.rankManagers(ctx, rankManagersInput{})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, rankings)
		})

	srv.Resource("perfboard://reports/org").
		Name("Organisation report").
		Description("Department completion, workload and leaders, top employees and managers").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if t.app == nil {
				return nil, fmt.Errorf("reporting requires database connection")
			}
			report, err := t.report(ctx, reportInput{TopEmployees: queries.DefaultTopEmployees})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, report)
		})

	return nil
}
