package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skommel/mindweave/pkg/layout"
	"github.com/skommel/mindweave/pkg/mindmap"
	"github.com/skommel/mindweave/pkg/pipeline"
)

// layoutCommand creates the layout command for positioning map nodes.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [map.json]",
		Short: "Position map nodes with a layout strategy",
		Long: `Position map nodes with a layout strategy.

The layout command takes a map.json file (produced by 'build') and assigns
canvas coordinates and sizes to every node. The output is a map.json with
positions filled in, ready for 'export' and 'render'.

Strategies: hierarchical (default), radial, network, timeline.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Layout flags
	cmd.Flags().StringVarP(&opts.Strategy, "strategy", "s", "", "layout strategy: hierarchical (default), radial, network, timeline")
	cmd.Flags().Float64Var(&opts.Width, "width", 0, fmt.Sprintf("canvas width (default %.0f)", layout.DefaultWidth))
	cmd.Flags().Float64Var(&opts.Height, "height", 0, fmt.Sprintf("canvas height (default %.0f)", layout.DefaultHeight))

	return cmd
}

// runLayout loads the map, applies the strategy, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	m, err := mindmap.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load map %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	strategy := opts.Strategy
	if strategy == "" {
		strategy = pipeline.DefaultStrategy
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", strategy))
	spinner.Start()

	positioned, cacheHit, err := runner.LayoutWithCacheInfo(ctx, m, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	out := outputPath(output, input, ".layout.json")
	if err := mindmap.WriteFile(positioned, out); err != nil {
		return fmt.Errorf("write output %s: %w", out, err)
	}

	printSuccess("Layout complete")
	printFile(out)
	printStats(positioned.NodeCount(), positioned.EdgeCount(), cacheHit)
	printNewline()
	printNextStep("Export", "mindweave export "+out)

	return nil
}
