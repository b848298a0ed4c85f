package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skommel/mindweave/pkg/mindmap"
	"github.com/skommel/mindweave/pkg/validate"
)

// validateCommand creates the validate command for scoring map structure.
func (c *CLI) validateCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate [map.json]",
		Short: "Score a map's structural quality",
		Long: `Score a map's structural quality.

The validate command checks every node and edge individually, analyzes the
graph as a whole (root presence, connectivity, depth balance, branching,
edge-type mix), and reports a composite score with issues, suggestions, and
recommendations.

The command exits non-zero when the map fails validation, so it can gate
scripted pipelines.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full validation result as JSON")

	return cmd
}

// runValidate loads the map, validates it, and reports the verdict.
func (c *CLI) runValidate(input string, asJSON bool) error {
	m, err := mindmap.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load map %s: %w", input, err)
	}

	res := validate.CheckCollection(m)

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
	} else {
		printValidation(res)
	}

	if !res.Valid {
		return fmt.Errorf("map failed validation (score %.2f, %s)", res.Overall, res.Structure.Category)
	}
	return nil
}

// printValidation renders a human-readable validation summary.
func printValidation(res validate.CollectionResult) {
	if res.Valid {
		printSuccess("Map is valid")
	} else {
		printError("Map failed validation")
	}
	printKeyValue("score", fmt.Sprintf("%.2f (%s)", res.Overall, res.Structure.Category))
	printKeyValue("nodes", fmt.Sprintf("%d valid, %d invalid", res.ValidNodes, res.InvalidNodes))
	printKeyValue("edges", fmt.Sprintf("%d valid, %d invalid", res.ValidEdges, res.InvalidEdges))

	a := res.Structure.StructureAnalysis
	printKeyValue("depth", fmt.Sprintf("%d", a.MaxDepth))
	printKeyValue("balance", fmt.Sprintf("%.2f", a.DepthBalance))
	printKeyValue("branching", fmt.Sprintf("%.2f", a.BranchingFactor))
	if !a.IsConnected {
		printWarning("map splits into %d components", a.ComponentCount)
	}
	if a.OrphanCount > 0 {
		printWarning("%d orphan node(s)", a.OrphanCount)
	}

	for _, issue := range res.Structure.Issues {
		printDetail("issue: %s", issue)
	}
	for id, issues := range res.NodeIssues {
		for _, issue := range issues {
			printDetail("node %s: %s", id, issue)
		}
	}
	for id, issues := range res.EdgeIssues {
		for _, issue := range issues {
			printDetail("edge %s: %s", id, issue)
		}
	}
	for _, s := range res.Structure.Suggestions {
		printDetail("suggestion: %s", s)
	}
	for _, r := range res.Recommendations {
		printInfo("%s", r)
	}
}
