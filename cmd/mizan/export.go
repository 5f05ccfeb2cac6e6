package main

import (
	"os"

	"github.com/spf13/cobra"

	"mizan-hq/mizan/pkg/audit"
	"mizan-hq/mizan/pkg/cli"
)

var exportCmd = &cobra.Command{
	Use:   "export [journal-file]",
	Short: "Export the audit journal as CSV",
	Long: `Write the audit journal to stdout as CSV with the header
id,timestamp,result,rule,reason,score,hash. Reason fields are quoted.

Examples:
  # Export the configured journal
  mizan export > audit.csv

  # Export a specific journal file
  mizan export /var/lib/mizan/audit.jsonl > audit.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: exportJournal,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func exportJournal(cmd *cobra.Command, args []string) error {
	path, err := journalPath(args)
	if err != nil {
		return err
	}

	log, err := audit.Open(path, audit.Options{Preload: true})
	if err != nil {
		return cli.NewInputError(path, err)
	}
	defer log.Close()

	if err := log.WriteCSV(os.Stdout); err != nil {
		return cli.NewCommandError("export", err)
	}
	return nil
}
