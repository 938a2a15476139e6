package cmd

import (
	"github.com/spf13/cobra"
)

var recheckCmd = &cobra.Command{
	Use:   "recheck",
	Short: "Re-run matching over all jobs and requirements",
	Long: `Run a full reconciliation pass. Editing, importing or deleting records
can leave completion flags behind what the matching rule would now
conclude; recheck repairs that drift. Completed requirements are never
reopened.`,
	Run: func(cmd *cobra.Command, args []string) {
		app, cleanup, err := openApp(cmd)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			return
		}
		defer cleanup()

		report, err := app.engine.RecheckAll(opContext(cmd))
		if err != nil {
			cmd.Printf("Error: recheck failed: %v\n", err)
			return
		}

		cmd.Printf("%s Recheck complete: %d requirements completed, %d jobs flagged, %d pass(es)\n",
			iconOK, report.TodosCompleted, report.JobsFlagged, report.Passes)
	},
}

func init() {
	rootCmd.AddCommand(recheckCmd)
}
