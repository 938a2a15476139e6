package cmd

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"worklog/internal/store"
)

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Manage job entries",
}

var jobAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a new job entry",
	Long: `Log a job entry and reconcile it against the open requirements.

A job needs at least one identifying field: part number, work order,
task code, trainer or notes. Date defaults to today.

Example:
  worklog job add --category CLS --pn "98-7654-321" --notes "replace gasket"`,
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		category, _ := flags.GetString("category")
		date, _ := flags.GetString("date")
		pn, _ := flags.GetString("pn")
		wo, _ := flags.GetString("wo")
		task, _ := flags.GetString("task")
		trainer, _ := flags.GetString("trainer")
		notes, _ := flags.GetString("notes")

		cat := store.Category(strings.ToUpper(strings.TrimSpace(category)))
		if !cat.Valid() {
			cmd.Printf("Error: unknown category %q (valid: %s)\n", category, categoryList())
			return
		}

		if date == "" {
			date = time.Now().Format("2006-01-02")
		}
		if _, err := time.Parse("2006-01-02", date); err != nil {
			cmd.Printf("Error: invalid date %q, want YYYY-MM-DD\n", date)
			return
		}

		now := time.Now().UTC()
		job := store.JobEntry{
			ID:         uuid.New(),
			Category:   cat,
			Date:       date,
			PartNumber: strings.TrimSpace(pn),
			WorkOrder:  strings.TrimSpace(wo),
			TaskCode:   strings.TrimSpace(task),
			Trainer:    strings.TrimSpace(trainer),
			Notes:      strings.TrimSpace(notes),
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		if err := store.ValidateJob(&job); err != nil {
			cmd.Printf("Error: %v\n", err)
			return
		}

		app, cleanup, err := openApp(cmd)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			return
		}
		defer cleanup()

		ctx := opContext(cmd)
		if err := app.store.PutJob(ctx, &job); err != nil {
			cmd.Printf("Error: failed to save job: %v\n", err)
			return
		}

		hits, err := app.engine.OnJobSaved(ctx, &job)
		if err != nil {
			cmd.Printf("Job saved, but reconciliation failed: %v\n", err)
			return
		}

		cmd.Printf("%s Job logged!\nID: %s\n", iconOK, job.ID)
		for _, t := range hits {
			cmd.Printf("%s Requirement satisfied: %s\n", iconOK, todoSummary(&t))
		}
	},
}

var jobListCmd = &cobra.Command{
	Use:   "list",
	Short: "List job entries",
	Long: `List job entries, optionally restricted to one day or one month.

Examples:
  worklog job list --today
  worklog job list --month 2026-08`,
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		date, _ := flags.GetString("date")
		month, _ := flags.GetString("month")
		today, _ := flags.GetBool("today")

		if today {
			date = time.Now().Format("2006-01-02")
		}

		app, cleanup, err := openApp(cmd)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			return
		}
		defer cleanup()

		jobs, err := app.store.GetAllJobs(cmd.Context())
		if err != nil {
			cmd.Printf("Error: failed to load jobs: %v\n", err)
			return
		}

		shown := 0
		for i := range jobs {
			j := &jobs[i]
			if date != "" && j.Date != date {
				continue
			}
			if month != "" && !strings.HasPrefix(j.Date, month) {
				continue
			}
			printJob(cmd, j)
			shown++
		}
		if shown == 0 {
			cmd.Println("No jobs found.")
		}
	},
}

var jobDeleteCmd = &cobra.Command{
	Use:   "delete [job_id]",
	Short: "Delete a job entry",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := uuid.Parse(args[0])
		if err != nil {
			cmd.Printf("Error: invalid job id %q\n", args[0])
			return
		}

		app, cleanup, err := openApp(cmd)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			return
		}
		defer cleanup()

		if err := app.store.DeleteJob(cmd.Context(), id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				cmd.Printf("No job with id %s\n", id)
			} else {
				cmd.Printf("Error: failed to delete job: %v\n", err)
			}
			return
		}
		cmd.Printf("%s Job deleted. Run 'worklog recheck' to refresh requirement state.\n", iconOK)
	},
}

func init() {
	flags := jobAddCmd.Flags()
	flags.StringP("category", "c", string(store.DefaultCategory()), "job category ("+categoryList()+")")
	flags.StringP("date", "d", "", "job date, YYYY-MM-DD (default: today)")
	flags.String("pn", "", "part number")
	flags.String("wo", "", "work order")
	flags.String("task", "", "task code")
	flags.String("trainer", "", "trainer")
	flags.StringP("notes", "n", "", "free-text notes")

	listFlags := jobListCmd.Flags()
	listFlags.String("date", "", "only jobs on this day, YYYY-MM-DD")
	listFlags.String("month", "", "only jobs in this month, YYYY-MM")
	listFlags.Bool("today", false, "only today's jobs")

	jobCmd.AddCommand(jobAddCmd)
	jobCmd.AddCommand(jobListCmd)
	jobCmd.AddCommand(jobDeleteCmd)
	rootCmd.AddCommand(jobCmd)
}
