package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var inlineRemove bool

// inlineCmd represents the inline command
var inlineCmd = &cobra.Command{
	Use:   "inline FILE NAME",
	Short: "Inline a function at its call sites",
	Long: `Inline replaces every bare call to NAME with the function's substituted
return expression. Only provably side-effect-free functions with a single
exit point are inlined; anything else is rejected with the specific
reason.

Examples:
  # Inline double() and delete its definition
  cortex-refactor inline utils.py double --remove
`,
	Args: cobra.ExactArgs(2),
	RunE: runInline,
}

func init() {
	rootCmd.AddCommand(inlineCmd)
	inlineCmd.Flags().BoolVar(&inlineRemove, "remove", false, "delete the function definition after inlining")
}

func runInline(cmd *cobra.Command, args []string) error {
	engine, closer, err := newEngine()
	if err != nil {
		return err
	}
	defer closer()

	result, err := engine.InlineFunction(args[0], args[1], inlineRemove)
	if err != nil {
		return err
	}

	fmt.Printf("Inlined %d call site(s) of %s\n", result.InlinedCount, result.FunctionName)
	if result.Removed {
		fmt.Println("Definition removed")
	}
	return nil
}
