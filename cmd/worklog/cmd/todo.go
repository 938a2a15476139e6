package cmd

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"worklog/internal/store"
)

var todoCmd = &cobra.Command{
	Use:   "todo",
	Short: "Manage OJT requirements",
}

var todoAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new requirement",
	Long: `Record an OJT requirement. If an already-logged job matches it, the
requirement is completed immediately.

Example:
  worklog todo add --category INT --notes "inspect hydraulic line for leaks"`,
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		category, _ := flags.GetString("category")
		pn, _ := flags.GetString("pn")
		wo, _ := flags.GetString("wo")
		task, _ := flags.GetString("task")
		notes, _ := flags.GetString("notes")

		cat := store.Category(strings.ToUpper(strings.TrimSpace(category)))
		if !cat.Valid() {
			cmd.Printf("Error: unknown category %q (valid: %s)\n", category, categoryList())
			return
		}

		todo := store.TodoEntry{
			ID:         uuid.New(),
			Category:   cat,
			PartNumber: strings.TrimSpace(pn),
			WorkOrder:  strings.TrimSpace(wo),
			TaskCode:   strings.TrimSpace(task),
			Notes:      strings.TrimSpace(notes),
			CreatedAt:  time.Now().UTC(),
		}

		if err := store.ValidateTodo(&todo); err != nil {
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
		if err := app.store.PutTodo(ctx, &todo); err != nil {
			cmd.Printf("Error: failed to save requirement: %v\n", err)
			return
		}

		job, err := app.engine.OnTodoSaved(ctx, &todo)
		if err != nil {
			cmd.Printf("Requirement saved, but reconciliation failed: %v\n", err)
			return
		}

		cmd.Printf("%s Requirement recorded!\nID: %s\n", iconOK, todo.ID)
		if job != nil {
			cmd.Printf("%s Already satisfied by job %s (%s)\n", iconOK, job.ID, job.Date)
		}
	},
}

var todoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List requirements",
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		openOnly, _ := flags.GetBool("open")
		doneOnly, _ := flags.GetBool("done")

		app, cleanup, err := openApp(cmd)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			return
		}
		defer cleanup()

		todos, err := app.store.GetAllTodos(cmd.Context())
		if err != nil {
			cmd.Printf("Error: failed to load requirements: %v\n", err)
			return
		}

		if !doneOnly {
			cmd.Printf("%sOpen%s\n", colorBold, colorReset)
			printTodoSection(cmd, todos, false)
		}
		if !openOnly {
			cmd.Printf("%sDone%s\n", colorBold, colorReset)
			printTodoSection(cmd, todos, true)
		}
	},
}

var todoDoneCmd = &cobra.Command{
	Use:   "done [todo_id]",
	Short: "Mark a requirement done by hand",
	Long: `Mark a requirement done without a matching job. Use this for
requirements signed off outside the tracker.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := uuid.Parse(args[0])
		if err != nil {
			cmd.Printf("Error: invalid requirement id %q\n", args[0])
			return
		}

		app, cleanup, err := openApp(cmd)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			return
		}
		defer cleanup()

		todos, err := app.store.GetAllTodos(cmd.Context())
		if err != nil {
			cmd.Printf("Error: failed to load requirements: %v\n", err)
			return
		}

		for i := range todos {
			if todos[i].ID != id {
				continue
			}
			if todos[i].Done {
				cmd.Println("Requirement is already done.")
				return
			}
			now := time.Now().UTC()
			todos[i].Done = true
			todos[i].DoneAt = &now
			if err := app.store.PutTodo(cmd.Context(), &todos[i]); err != nil {
				cmd.Printf("Error: failed to save requirement: %v\n", err)
				return
			}
			cmd.Printf("%s Requirement marked done.\n", iconOK)
			return
		}
		cmd.Printf("No requirement with id %s\n", id)
	},
}

var todoDeleteCmd = &cobra.Command{
	Use:   "delete [todo_id]",
	Short: "Delete a requirement",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := uuid.Parse(args[0])
		if err != nil {
			cmd.Printf("Error: invalid requirement id %q\n", args[0])
			return
		}

		app, cleanup, err := openApp(cmd)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			return
		}
		defer cleanup()

		if err := app.store.DeleteTodo(cmd.Context(), id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				cmd.Printf("No requirement with id %s\n", id)
			} else {
				cmd.Printf("Error: failed to delete requirement: %v\n", err)
			}
			return
		}
		cmd.Printf("%s Requirement deleted.\n", iconOK)
	},
}

func init() {
	flags := todoAddCmd.Flags()
	flags.StringP("category", "c", string(store.DefaultCategory()), "requirement category ("+categoryList()+")")
	flags.String("pn", "", "part number")
	flags.String("wo", "", "work order")
	flags.String("task", "", "task code")
	flags.StringP("notes", "n", "", "free-text notes")

	listFlags := todoListCmd.Flags()
	listFlags.Bool("open", false, "only open requirements")
	listFlags.Bool("done", false, "only completed requirements")

	todoCmd.AddCommand(todoAddCmd)
	todoCmd.AddCommand(todoListCmd)
	todoCmd.AddCommand(todoDoneCmd)
	todoCmd.AddCommand(todoDeleteCmd)
	rootCmd.AddCommand(todoCmd)
}
