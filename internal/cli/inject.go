package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	injectDeps         []string
	injectKeepDefaults bool
)

// injectCmd represents the inject-deps command
var injectCmd = &cobra.Command{
	Use:   "inject-deps FILE CLASS",
	Short: "Convert hardcoded constructor dependencies to injection",
	Long: `Inject-deps finds assignments of the shape self.attr = Type(...) inside
CLASS's constructor and turns each into a constructor parameter. With
--keep-defaults the parameters are optional and fall back to the original
instantiation, so existing callers keep working. A companion dependency
container class is generated alongside.

Examples:
  # Inject every detected dependency, keeping backwards compatibility
  cortex-refactor inject-deps service.py Service --keep-defaults

  # Inject only the db dependency as a required parameter
  cortex-refactor inject-deps service.py Service --deps db
`,
	Args: cobra.ExactArgs(2),
	RunE: runInject,
}

func init() {
	rootCmd.AddCommand(injectCmd)
	injectCmd.Flags().StringSliceVar(&injectDeps, "deps", nil, "attribute names to inject (default: all detected)")
	injectCmd.Flags().BoolVar(&injectKeepDefaults, "keep-defaults", false, "make parameters optional with lazy fallback to the original instantiation")
}

func runInject(cmd *cobra.Command, args []string) error {
	engine, closer, err := newEngine()
	if err != nil {
		return err
	}
	defer closer()

	result, err := engine.InjectDependencies(args[0], args[1], injectDeps, injectKeepDefaults)
	if err != nil {
		return err
	}

	fmt.Printf("Injected [%s] into %s\n", strings.Join(result.Injected, ", "), result.ClassName)
	fmt.Printf("Generated container %s\n", result.ContainerName)
	if verbose {
		fmt.Println()
		fmt.Println(result.ContainerText)
	}
	return nil
}
