package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skommel/mindweave/pkg/mindmap"
	"github.com/skommel/mindweave/pkg/pipeline"
)

// buildCommand creates the build command for constructing a map from a payload.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "build [payload.json]",
		Short: "Build a mind map from a concept payload",
		Long: `Build a mind map from a concept/relationship payload.

The build command takes a payload.json file with a root concept, a concept
list, and optional relationships. Malformed records are dropped with warnings
rather than failing the build, dangling relationships are excluded, and
hierarchy edges are synthesized from parent pointers. The output is a map.json
file that the 'layout', 'validate', and 'export' commands consume.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.map.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Build flags
	cmd.Flags().IntVar(&opts.MaxNodes, "max-nodes", 0, "maximum nodes to keep (default from complexity tier)")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", 0, "maximum hierarchy depth (default from complexity tier)")
	cmd.Flags().StringVar(&opts.Complexity, "complexity", "", "complexity tier: simple, detailed (default), comprehensive")
	cmd.Flags().StringVar(&opts.Language, "language", "", "content language hint")
	cmd.Flags().BoolVar(&opts.IncludeExamples, "examples", false, "keep concept examples")
	cmd.Flags().BoolVar(&opts.IncludeDefinitions, "definitions", false, "keep definition nodes")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass cache")

	return cmd
}

// runBuild reads the payload, builds the map, and writes output.
func (c *CLI) runBuild(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	payload, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read payload %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Building map...")
	spinner.Start()

	m, cacheHit, err := runner.BuildWithCacheInfo(ctx, payload, opts)
	if err != nil {
		spinner.StopWithError("Build failed")
		return fmt.Errorf("build map: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	out := outputPath(output, input, ".map.json")
	if err := mindmap.WriteFile(m, out); err != nil {
		return fmt.Errorf("write output %s: %w", out, err)
	}

	printSuccess("Build complete")
	printFile(out)
	printStats(m.NodeCount(), m.EdgeCount(), cacheHit)
	printNewline()
	printNextStep("Layout", "mindweave layout "+out)

	return nil
}
