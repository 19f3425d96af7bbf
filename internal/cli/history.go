package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and roll back recorded refactorings",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent refactorings, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyRollbackCmd = &cobra.Command{
	Use:   "rollback ID",
	Short: "Restore the file content recorded before a refactoring",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryRollback,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyRollbackCmd)
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum records to show")
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(historyLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No refactorings recorded")
		return nil
	}

	for _, r := range records {
		fmt.Printf("%s  %s  %-22s %s\n", r.ID, r.Timestamp.Format("2006-01-02 15:04:05"), r.Kind, r.Description)
	}
	return nil
}

func runHistoryRollback(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	ok, err := store.Rollback(args[0])
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("record %s not found or not rollback-eligible", args[0])
	}
	fmt.Printf("Rolled back %s\n", args[0])
	return nil
}
