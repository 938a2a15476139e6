package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"worklog/internal/transfer"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Bulk-import requirements from JSON or CSV",
	Long: `Import requirements from a JSON array of partial to-do objects or from
CSV rows of the form:

  category,workOrder,taskCode,partNumber,notes

The category column is optional; when the first column is not a known
category the columns shift left and the category defaults. Rows whose
normalized fields already exist are skipped, and every inserted
requirement is reconciled against the logged jobs immediately.

Example:
  worklog import requirements.csv
  worklog import requirements.json --format json`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		formatStr, _ := cmd.Flags().GetString("format")
		format := transfer.Format(formatStr)

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

		result, err := app.importer.Import(opContext(cmd), f, format)
		if err != nil {
			if errors.Is(err, transfer.ErrBadFormat) {
				cmd.Printf("Import rejected: %v\n", err)
			} else {
				cmd.Printf("Error: %v\n", err)
			}
			return
		}

		cmd.Printf("%s Import complete: %d added, %d skipped (duplicates), %d invalid\n",
			iconOK, result.Added, result.Skipped, result.Invalid)
	},
}

func init() {
	importCmd.Flags().String("format", string(transfer.FormatAuto), "input format: auto, json or csv")
	rootCmd.AddCommand(importCmd)
}
