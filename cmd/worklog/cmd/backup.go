package cmd

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"worklog/internal/transfer"
)

var backupCmd = &cobra.Command{
	Use:   "backup [file]",
	Short: "Export all jobs and requirements to a backup file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app, cleanup, err := openApp(cmd)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			return
		}
		defer cleanup()

		f, err := os.Create(args[0])
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			return
		}
		defer f.Close()

		if err := transfer.Export(cmd.Context(), app.store, f, time.Now()); err != nil {
			cmd.Printf("Error: backup failed: %v\n", err)
			return
		}
		cmd.Printf("%s Backup written to %s\n", iconOK, args[0])
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore [file]",
	Short: "Replace all data from a backup file",
	Long: `Replace the entire contents of both collections with a backup file,
then run a full reconciliation pass. A malformed backup is rejected
before anything is touched.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		f, err := os.Open(args[0])
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			return
		}
		defer f.Close()

		app, cleanup, err := openApp(cmd)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			return
		}
		defer cleanup()

		ctx := opContext(cmd)
		jobs, todos, err := transfer.Restore(ctx, app.store, f)
		if err != nil {
			if errors.Is(err, transfer.ErrBadFormat) {
				cmd.Printf("Restore rejected: %v\n", err)
			} else {
				cmd.Printf("Error: restore failed: %v\n", err)
			}
			return
		}

		report, err := app.engine.RecheckAll(ctx)
		if err != nil {
			cmd.Printf("Restored %d jobs and %d requirements, but recheck failed: %v\n", jobs, todos, err)
			return
		}

		cmd.Printf("%s Restored %d jobs and %d requirements (%d newly completed)\n",
			iconOK, jobs, todos, report.TodosCompleted)
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
}
