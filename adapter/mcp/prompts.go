package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers MCP prompts for common review workflows.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("performance_review").
		Description("Prepare a performance review for one employee or manager from their score breakdown and task history.").
		Argument("user_id", "ID of the person under review", true).
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			userID := args["user_id"]
			if userID == "" {
				userID = "[user ID]"
			}
			return userPrompt("Performance Review", fmt.Sprintf(`Prepare a performance review for %s.

1. Call performance.score with user_id %q to get the score and every rate behind it
2. Call task.list with viewer_id %q to see their tasks
3. Compare them with their peers using the perfboard://rankings/employees or
   perfboard://rankings/managers resource

In the review:
- Summarise the score and which component pulls it down the most
- Call out tasks that went to REWORK or finished late
- Suggest two concrete goals for the next period

Quote numbers from the tools rather than estimating them.`, userID, userID, userID)), nil
		})

	srv.Prompt("team_checkin").
		Description("Run a team check-in for a manager: workload, blockers and who needs support.").
		Argument("manager_id", "Manager whose team to review (defaults to the acting user)", false).
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			target := "my team"
			if id := args["manager_id"]; id != "" {
				target = fmt.Sprintf("the team of %s", id)
			}
			return userPrompt("Team Check-in", fmt.Sprintf(`Run a check-in for %s.

1. Call performance.team_dashboard for the team's size, totals, rework and ranking
2. Call task.list with status SUBMITTED to find work waiting for approval
3. Call task.list with status REWORK to find work that bounced back

Then:
- List submissions to approve or send back today
- Flag team members with several open or reworked tasks
- Suggest reassignments with task.reassign where workload is uneven`, target)), nil
		})

	srv.Prompt("org_overview").
		Description("Executive summary of organisation performance by department.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return userPrompt("Organisation Overview", `Give me an executive overview of the organisation.

Read the perfboard://reports/org resource and:
- State overall completion and how many tasks are pending
- Rank departments by completion index and name the weakest two
- Name the top performer in each department
- Compare the best and worst ranked managers and what separates them

Keep it under 300 words.`), nil
		})

	return nil
}

func userPrompt(description, text string) *mcp.PromptResult {
	return &mcp.PromptResult{
		Description: description,
		Messages: []mcp.PromptMessage{
			{
				Role: string(mcp.RoleUser),
				Content: mcp.TextContent{
					Type: "text",
					Text: text,
				},
			},
		},
	}
}
