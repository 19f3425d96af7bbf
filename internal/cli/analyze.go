package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze FILE",
	Short: "Report hardcoded constructor dependencies",
	Long: `Analyze scans every class constructor in FILE and reports the hardcoded
dependency instantiations that inject-deps could refactor.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	engine, closer, err := newEngine()
	if err != nil {
		return err
	}
	defer closer()

	deps, err := engine.AnalyzeDependencies(args[0])
	if err != nil {
		return err
	}
	if len(deps) == 0 {
		fmt.Println("No hardcoded dependencies found")
		return nil
	}

	classes := make([]string, 0, len(deps))
	for name := range deps {
		classes = append(classes, name)
	}
	sort.Strings(classes)

	for _, class := range classes {
		fmt.Printf("%s:\n", class)
		for _, dep := range deps[class] {
			detail := ""
			if dep.HasParams {
				detail = fmt.Sprintf(" (args: %s)", strings.Join(append(dep.Args, dep.KwArgs...), ", "))
			}
			fmt.Printf("  line %d: %s = %s()%s\n", dep.Line, dep.AttrName, dep.TypeName, detail)
		}
	}
	return nil
}
