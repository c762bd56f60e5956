package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/felixgeelhaar/perfboard/internal/performance/application/queries"
)

const ruleWidth = 64

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintRule writes a horizontal separator.
func PrintRule(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("-", ruleWidth))
}

// PrintRanking writes a ranked list as a table.
func PrintRanking(w io.Writer, title string, rows []queries.RankedDTO) {
	fmt.Fprintf(w, "%s (%d):\n", title, len(rows))
	PrintRule(w)
	if len(rows) == 0 {
		fmt.Fprintln(w, "No subjects found.")
		return
	}
	fmt.Fprintf(w, "%4s  %-10s %-22s %-16s %7s\n", "RANK", "ID", "NAME", "DEPARTMENT", "SCORE")
	for _, r := range rows {
		fmt.Fprintf(w, "%4d  %-10s %-22s %-16s %7.2f\n", r.Rank, r.ID, truncate(r.Name, 22), truncate(r.Department, 16), r.Score)
	}
}

// PrintTopPerformer writes the leader line of a ranking.
func PrintTopPerformer(w io.Writer, top *queries.RankedDTO) {
	if top == nil {
		return
	}
	fmt.Fprintf(w, "\nTop performer: %s (%s) %.2f\n", top.Name, top.ID, top.Score)
}

// PrintTasks writes tasks as a list.
func PrintTasks(w io.Writer, tasks []queries.TaskDTO) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return
	}
	fmt.Fprintf(w, "Tasks (%d):\n", len(tasks))
	PrintRule(w)
	for _, t := range tasks {
		fmt.Fprintf(w, "%s %s [%s]\n", statusIcon(t.Status), t.Title, t.Severity)
		fmt.Fprintf(w, "   ID: %s  Assignee: %s  Status: %s\n", t.ID, t.EmployeeID, t.Status)
		if t.DueDate != "" {
			fmt.Fprintf(w, "   Due: %s", t.DueDate)
			if t.CompletedDate != "" {
				fmt.Fprintf(w, "  Completed: %s", t.CompletedDate)
			}
			fmt.Fprintln(w)
		}
		if t.ReworkCount > 0 {
			fmt.Fprintf(w, "   Rework: %d\n", t.ReworkCount)
		}
	}
}

// PrintUsers writes users as a table.
func PrintUsers(w io.Writer, users []queries.UserDTO) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users found.")
		return
	}
	fmt.Fprintf(w, "Users (%d):\n", len(users))
	PrintRule(w)
	fmt.Fprintf(w, "%-10s %-22s %-9s %-16s %-10s %s\n", "ID", "NAME", "ROLE", "DEPARTMENT", "MANAGER", "ACTIVE")
	for _, u := range users {
		fmt.Fprintf(w, "%-10s %-22s %-9s %-16s %-10s %t\n", u.ID, truncate(u.Name, 22), u.Role, truncate(u.Department, 16), u.ManagerID, u.Active)
	}
}

func statusIcon(status string) string {
	switch status {
	case "APPROVED", "Completed":
		return "[x]"
	case "SUBMITTED", "In Review":
		return "[?]"
	case "REWORK":
		return "[!]"
	case "CANCELLED":
		return "[-]"
	default:
		return "[ ]"
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "~"
}
