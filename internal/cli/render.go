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
	"github.com/skommel/mindweave/pkg/render"
)

const defaultPNGScale = 2.0

// validRenderFormats is the set of supported visual output formats.
var validRenderFormats = map[string]bool{"svg": true, "pdf": true, "png": true}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // output file (single format) or base path (multiple)
	formats    []string // output formats: "svg", "pdf", "png"
	detailed   bool     // include description/category lines in node labels
	positioned bool     // pin nodes to their layout coordinates
	scale      float64  // PNG raster scale factor
}

// renderCommand creates the render command for producing visual output.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: defaultPNGScale}

	cmd := &cobra.Command{
		Use:   "render [map.json]",
		Short: "Render a map to SVG, PDF, or PNG",
		Long: `Render a map to SVG, PDF, or PNG.

The render command converts the map's graph notation into visual output.
Without --positioned the graph engine picks its own arrangement; with
--positioned the nodes are pinned to the coordinates computed by 'layout'.

PDF and PNG output shell out to rsvg-convert, which must be on PATH.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr, []string{"svg"})
			if err := validateRenderFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), pdf, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include descriptions and categories in node labels")
	cmd.Flags().BoolVar(&opts.positioned, "positioned", false, "pin nodes to layout coordinates")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")

	return cmd
}

// runRender loads the map, builds the graph notation, and renders each
// requested format.
func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	m, err := mindmap.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load map %s: %w", input, err)
	}

	dot := export.ToDOT(m, export.DOTOptions{Detailed: opts.detailed, Positioned: opts.positioned})
	c.Logger.Debugf("Graph notation: %d bytes", len(dot))

	base := renderBase(opts.output, input)

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	type artifact struct {
		path string
		data []byte
	}
	artifacts := make([]artifact, 0, len(opts.formats))
	for _, format := range opts.formats {
		data, err := renderFormat(ctx, dot, format, opts.scale)
		if err != nil {
			spinner.StopWithError("Render failed")
			return fmt.Errorf("render %s: %w", format, err)
		}
		path := opts.output
		if path == "" || len(opts.formats) > 1 {
			path = base + "." + format
		}
		artifacts = append(artifacts, artifact{path: path, data: data})
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	printSuccess("Render complete")
	for _, a := range artifacts {
		if err := os.WriteFile(a.path, a.data, 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", a.path, err)
		}
		printFile(a.path)
	}
	printStats(m.NodeCount(), m.EdgeCount(), false)

	return nil
}

// renderFormat dispatches to the renderer for a single format.
func renderFormat(ctx context.Context, dot, format string, scale float64) ([]byte, error) {
	switch format {
	case "svg":
		return render.SVG(ctx, dot)
	case "pdf":
		return render.PDF(ctx, dot)
	case "png":
		return render.PNG(ctx, dot, scale)
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// validateRenderFormats checks that all requested formats are valid.
func validateRenderFormats(formats []string) error {
	for _, f := range formats {
		if !validRenderFormats[f] {
			return fmt.Errorf("invalid format: %s (must be 'svg', 'pdf', or 'png')", f)
		}
	}
	return nil
}

// renderBase derives the base output path from the output and input paths,
// stripping a format extension from the output if present.
func renderBase(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if validRenderFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
