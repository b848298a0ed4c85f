package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skommel/mindweave/pkg/export"
	"github.com/skommel/mindweave/pkg/mindmap"
	"github.com/skommel/mindweave/pkg/pipeline"
)

// formatExt maps export formats to output file extensions.
var formatExt = map[string]string{
	string(export.FormatJSON):  ".json",
	string(export.FormatFlow):  ".mmd",
	string(export.FormatGraph): ".dot",
}

// exportCommand creates the export command for rendering diagram notations.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "export [map.json]",
		Short: "Export a map as diagram notations",
		Long: `Export a map as diagram notations.

The export command takes a map.json file (ideally positioned by 'layout')
and writes the requested notations: json (canonical serialization), flow
(flowchart text, node shape per type), and dot (graph description for
'render').

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr, pipeline.DefaultFormats)
			return c.runExport(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (extension added per format)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Export flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output notation(s): json, flow, dot (comma-separated, default all)")

	return cmd
}

// runExport loads the map, renders the notations, and writes one file per
// requested format.
func (c *CLI) runExport(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	m, err := mindmap.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load map %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Exporting notations...")
	spinner.Start()

	formats, cacheHit, err := runner.ExportWithCacheInfo(ctx, m, opts)
	if err != nil {
		spinner.StopWithError("Export failed")
		return fmt.Errorf("export map: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := exportBase(output, input)
	printSuccess("Export complete")
	for _, f := range opts.Formats {
		content := notationFor(formats, f)
		path := base + formatExt[f]
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(m.NodeCount(), m.EdgeCount(), cacheHit)

	return nil
}

// exportBase derives the base output path, stripping a format extension if
// the caller supplied one.
func exportBase(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	for _, known := range formatExt {
		if ext == known {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

// notationFor picks the rendered notation for a format name.
func notationFor(f export.Formats, format string) string {
	switch format {
	case string(export.FormatJSON):
		return f.JSON
	case string(export.FormatFlow):
		return f.FlowNotation
	case string(export.FormatGraph):
		return f.GraphNotation
	}
	return ""
}
