package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skommel/mindweave/pkg/pipeline"
)

// generateCommand creates the generate command for running the full pipeline.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		output     string
		noCache    bool
		configPath string
		topic      string
		keyPoints  []string
		formatsStr string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "generate [payload.json]",
		Short: "Run the full build, layout, validate, export pipeline",
		Long: `Run the full pipeline: build the map from a payload, position it with a
layout strategy, score its structure, and render every requested notation.
The result is a single document JSON with nodes, edges, layout info,
statistics, the validation verdict, and the exported notations.

When the payload source produced nothing usable, --fallback-topic builds a
minimal valid map from a topic and repeated --key-point flags instead:

  mindweave generate --fallback-topic "Photosynthesis" \
      --key-point "Light reactions" --key-point "Calvin cycle"

Options may also come from a TOML file via --config; explicit flags win.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if topic == "" && len(args) == 0 {
				return fmt.Errorf("payload file or --fallback-topic required")
			}
			opts.Formats = parseFormats(formatsStr, nil)
			if err := applyConfig(configPath, &opts); err != nil {
				return err
			}
			input := ""
			if len(args) > 0 {
				input = args[0]
			}
			return c.runGenerate(cmd.Context(), input, topic, keyPoints, opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.document.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&configPath, "config", "", "TOML options file")

	// Build flags
	cmd.Flags().IntVar(&opts.MaxNodes, "max-nodes", 0, "maximum nodes to keep (default from complexity tier)")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", 0, "maximum hierarchy depth (default from complexity tier)")
	cmd.Flags().StringVar(&opts.Complexity, "complexity", "", "complexity tier: simple, detailed (default), comprehensive")
	cmd.Flags().StringVar(&opts.Language, "language", "", "content language hint")
	cmd.Flags().BoolVar(&opts.IncludeExamples, "examples", false, "keep concept examples")
	cmd.Flags().BoolVar(&opts.IncludeDefinitions, "definitions", false, "keep definition nodes")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass cache")

	// Layout flags
	cmd.Flags().StringVarP(&opts.Strategy, "strategy", "s", "", "layout strategy: hierarchical (default), radial, network, timeline")
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "canvas width")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "canvas height")
	cmd.Flags().StringVar(&opts.ColorScheme, "color-scheme", "", "presentation color scheme hint")
	cmd.Flags().StringSliceVar(&opts.FocusAreas, "focus", nil, "focus area hints (repeatable)")

	// Export flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "notation(s) to export: json, flow, dot (comma-separated, default all)")

	// Fallback flags
	cmd.Flags().StringVar(&topic, "fallback-topic", "", "build a minimal map from this topic instead of a payload")
	cmd.Flags().StringArrayVar(&keyPoints, "key-point", nil, "key point for the fallback map (repeatable)")

	return cmd
}

// runGenerate executes the pipeline and writes the resulting document.
func (c *CLI) runGenerate(ctx context.Context, input, topic string, keyPoints []string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Generating mind map...")
	spinner.Start()

	var doc *pipeline.Document
	if topic != "" {
		doc, err = runner.ExecuteFallback(ctx, topic, keyPoints, opts)
	} else {
		var payload []byte
		payload, err = os.ReadFile(input)
		if err != nil {
			spinner.StopWithError("Generation failed")
			return fmt.Errorf("read payload %s: %w", input, err)
		}
		doc, err = runner.Execute(ctx, payload, opts)
	}
	if err != nil {
		spinner.StopWithError("Generation failed")
		return fmt.Errorf("generate: %w", err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Generated %d nodes with %d edges", doc.Stats.NodeCount, doc.Stats.EdgeCount))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	out := documentPath(output, input, topic)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", out, err)
	}

	printSuccess("Generation complete")
	printFile(out)
	printStats(doc.Stats.NodeCount, doc.Stats.EdgeCount, doc.CacheInfo.BuildHit)
	printKeyValue("layout", doc.Layout.Type)
	printKeyValue("score", fmt.Sprintf("%.2f (%s)", doc.Validation.Overall, doc.Validation.Structure.Category))
	if !doc.Validation.Valid {
		printWarning("generated map failed validation")
		for _, r := range doc.Validation.Recommendations {
			printDetail("%s", r)
		}
	}
	printNewline()
	printNextStep("Inspect", "mindweave inspect "+out)

	return nil
}

// documentPath derives the document output path. Fallback runs have no input
// file, so the topic names the output instead.
func documentPath(output, input, topic string) string {
	if output != "" {
		return output
	}
	if input != "" {
		return strings.TrimSuffix(input, filepath.Ext(input)) + ".document.json"
	}
	slug := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(topic), " ", "-"))
	if slug == "" {
		slug = "mindmap"
	}
	return slug + ".document.json"
}
