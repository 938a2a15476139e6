package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"worklog/internal/store"
)

// ANSI color codes
const (
	colorReset = "\033[0m"
	colorBold  = "\033[1m"
	colorDim   = "\033[2m"
	colorGreen = "\033[32m"
)

const (
	iconOK   = colorGreen + "✓" + colorReset
	iconOpen = "◯"
)

func categoryList() string {
	names := make([]string, len(store.Categories))
	for i, c := range store.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

func printJob(cmd *cobra.Command, j *store.JobEntry) {
	icon := iconOpen
	if j.TodoMatched {
		icon = iconOK
	}
	cmd.Printf("%s %s%s%s %s  %s\n", icon, colorBold, j.Category, colorReset, j.Date, j.PartNumber)
	cmd.Printf("  %sID:%s %s\n", colorDim, colorReset, j.ID)
	if j.WorkOrder != "" || j.TaskCode != "" || j.Trainer != "" {
		cmd.Printf("  %sWO:%s %s  %sTask:%s %s  %sTrainer:%s %s\n",
			colorDim, colorReset, valueOrDash(j.WorkOrder),
			colorDim, colorReset, valueOrDash(j.TaskCode),
			colorDim, colorReset, valueOrDash(j.Trainer))
	}
	if j.Notes != "" {
		cmd.Printf("  %s\n", j.Notes)
	}
	if len(j.MatchedTodoIDs) > 0 {
		cmd.Printf("  %sSatisfies %d requirement(s)%s\n", colorDim, len(j.MatchedTodoIDs), colorReset)
	}
}

func printTodoSection(cmd *cobra.Command, todos []store.TodoEntry, done bool) {
	shown := 0
	for i := range todos {
		if todos[i].Done != done {
			continue
		}
		printTodo(cmd, &todos[i])
		shown++
	}
	if shown == 0 {
		cmd.Println("  None")
	}
}

func printTodo(cmd *cobra.Command, t *store.TodoEntry) {
	icon := iconOpen
	if t.Done {
		icon = iconOK
	}
	cmd.Printf("%s %s%s%s %s\n", icon, colorBold, t.Category, colorReset, t.PartNumber)
	cmd.Printf("  %sID:%s %s\n", colorDim, colorReset, t.ID)
	if t.WorkOrder != "" || t.TaskCode != "" {
		cmd.Printf("  %sWO:%s %s  %sTask:%s %s\n",
			colorDim, colorReset, valueOrDash(t.WorkOrder),
			colorDim, colorReset, valueOrDash(t.TaskCode))
	}
	if t.Notes != "" {
		cmd.Printf("  %s\n", t.Notes)
	}
	if t.Done && t.MatchedJobID != nil {
		cmd.Printf("  %sSatisfied by job %s%s\n", colorDim, t.MatchedJobID, colorReset)
	}
}

func todoSummary(t *store.TodoEntry) string {
	parts := []string{string(t.Category)}
	if t.PartNumber != "" {
		parts = append(parts, t.PartNumber)
	}
	if t.Notes != "" {
		notes := t.Notes
		if len(notes) > 40 {
			notes = notes[:40] + "…"
		}
		parts = append(parts, notes)
	}
	return strings.Join(parts, " ")
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
