package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/cortex-refactor/internal/refactor"
)

var (
	moveInstanceName string
	moveUpdateCalls  bool
)

// moveCmd represents the move-method command
var moveCmd = &cobra.Command{
	Use:   "move-method FILE SOURCE_CLASS METHOD TARGET_CLASS",
	Short: "Move a method from one class to another",
	Long: `Move relocates METHOD from SOURCE_CLASS to TARGET_CLASS within the same
file, re-indenting it to the target's nesting level. Abstract methods and
destination name collisions are rejected before anything is written.

Examples:
  # Move greet from A to B and redirect internal callers through self.b
  cortex-refactor move-method models.py A greet B --instance b --update-call-sites
`,
	Args: cobra.ExactArgs(4),
	RunE: runMove,
}

func init() {
	rootCmd.AddCommand(moveCmd)
	moveCmd.Flags().StringVar(&moveInstanceName, "instance", "", "receiver attribute holding the target instance (default: snake_case of target class)")
	moveCmd.Flags().BoolVar(&moveUpdateCalls, "update-call-sites", false, "rewrite calls inside the source class to go through the instance attribute")
}

func runMove(cmd *cobra.Command, args []string) error {
	engine, closer, err := newEngine()
	if err != nil {
		return err
	}
	defer closer()

	result, err := engine.MoveMethod(args[0], refactor.MoveMethodOptions{
		SourceClass:  args[1],
		MethodName:   args[2],
		TargetClass:  args[3],
		InstanceName: moveInstanceName,
		UpdateCalls:  moveUpdateCalls,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Moved %s.%s to %s\n", result.SourceClass, result.MethodName, result.TargetClass)
	if result.CallSitesUpdated > 0 {
		fmt.Printf("Updated %d call site(s)\n", result.CallSitesUpdated)
	}
	if result.PlaceholderAdded {
		fmt.Printf("%s was left empty; added a pass placeholder\n", result.SourceClass)
	}
	return nil
}
