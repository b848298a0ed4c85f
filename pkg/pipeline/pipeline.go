// Package pipeline provides the core map generation pipeline for Mindweave.
//
// This package implements the complete build → layout → validate → export
// pipeline that can be used by CLI and embedding components. By centralizing
// this logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Build: Turn an untrusted concept payload into a typed mind map
//  2. Layout: Compute canvas positions with the chosen strategy
//  3. Validate: Score the structure and collect issues and suggestions
//  4. Export: Render flow notation, graph notation, and canonical JSON
//
// Each stage can be run independently or as part of the complete pipeline.
// Stages are synchronous and stateless; concurrent Execute calls share only
// the cache.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Strategy: "radial",
//	    Formats:  []string{"flow", "dot"},
//	}
//	doc, err := runner.Execute(ctx, payload, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	flow := doc.ExportFormats.FlowNotation
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/skommel/mindweave/pkg/builder"
	"github.com/skommel/mindweave/pkg/cache"
	"github.com/skommel/mindweave/pkg/errors"
	"github.com/skommel/mindweave/pkg/export"
	"github.com/skommel/mindweave/pkg/layout"
	"github.com/skommel/mindweave/pkg/mindmap"
	"github.com/skommel/mindweave/pkg/validate"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Embedders
// =============================================================================

const (
	// DefaultStrategy is the default layout strategy.
	DefaultStrategy = layout.Hierarchical

	// DefaultComplexity is the default generation complexity tier.
	DefaultComplexity = ComplexityDetailed
)

// Complexity tiers. Each tier implies node and depth caps unless the caller
// sets them explicitly.
const (
	ComplexitySimple        = "simple"
	ComplexityDetailed      = "detailed"
	ComplexityComprehensive = "comprehensive"
)

// Node and depth caps per complexity tier.
var complexityCaps = map[string]struct{ nodes, depth int }{
	ComplexitySimple:        {nodes: 20, depth: 3},
	ComplexityDetailed:      {nodes: builder.DefaultMaxNodes, depth: builder.DefaultMaxDepth},
	ComplexityComprehensive: {nodes: 80, depth: 5},
}

// ValidComplexities is the set of supported complexity tiers.
var ValidComplexities = map[string]bool{
	ComplexitySimple:        true,
	ComplexityDetailed:      true,
	ComplexityComprehensive: true,
}

// DefaultFormats are the notations exported when none are requested.
var DefaultFormats = []string{string(export.FormatJSON), string(export.FormatFlow), string(export.FormatGraph)}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the generation pipeline.
// This struct supports JSON serialization for embedding in request payloads.
type Options struct {
	// Build options
	Language           string `json:"language,omitempty"`
	MaxNodes           int    `json:"max_nodes,omitempty"`
	MaxDepth           int    `json:"max_depth,omitempty"`
	IncludeExamples    bool   `json:"include_examples,omitempty"`
	IncludeDefinitions bool   `json:"include_definitions,omitempty"`
	Complexity         string `json:"complexity,omitempty"`
	Refresh            bool   `json:"refresh,omitempty"`

	// Layout options
	Strategy string  `json:"strategy,omitempty"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`

	// Presentation hints carried into the document, not interpreted here.
	FocusAreas  []string `json:"focus_areas,omitempty"`
	ColorScheme string   `json:"color_scheme,omitempty"`

	// Export options
	Formats []string `json:"formats,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	EdgeCount    int
	BuildTime    time.Duration
	LayoutTime   time.Duration
	ValidateTime time.Duration
	ExportTime   time.Duration
}

// CacheInfo tracks cache hits for each cached pipeline stage.
type CacheInfo struct {
	BuildHit  bool // Whether the built map came from cache
	LayoutHit bool // Whether the positioned map came from cache
	ExportHit bool // Whether all notations came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks option values and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForExport(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForBuild validates and sets defaults for map construction.
func (o *Options) ValidateForBuild() error {
	if o.Complexity == "" {
		o.Complexity = DefaultComplexity
	}
	if !ValidComplexities[o.Complexity] {
		return errors.New(errors.ErrCodeInvalidOptions,
			"invalid complexity: %q (must be one of: simple, detailed, comprehensive)", o.Complexity)
	}

	caps := complexityCaps[o.Complexity]
	if o.MaxNodes == 0 {
		o.MaxNodes = caps.nodes
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = caps.depth
	}
	if o.MaxNodes < 1 {
		return errors.New(errors.ErrCodeInvalidOptions, "max_nodes must be positive, got %d", o.MaxNodes)
	}
	if o.MaxDepth < 1 {
		return errors.New(errors.ErrCodeInvalidOptions, "max_depth must be positive, got %d", o.MaxDepth)
	}

	o.applyLoggerDefault()
	return nil
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	if o.Strategy == "" {
		o.Strategy = DefaultStrategy
	}
	if o.Width == 0 {
		o.Width = layout.DefaultWidth
	}
	if o.Height == 0 {
		o.Height = layout.DefaultHeight
	}
	o.applyLoggerDefault()
	return layout.ValidateStrategy(o.Strategy)
}

// ValidateForExport validates and sets defaults for notation export.
func (o *Options) ValidateForExport() error {
	if len(o.Formats) == 0 {
		o.Formats = append([]string(nil), DefaultFormats...)
	}
	for _, f := range o.Formats {
		if err := export.ValidateFormat(export.Format(f)); err != nil {
			return err
		}
	}
	o.applyLoggerDefault()
	return nil
}

func (o *Options) applyLoggerDefault() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// BuilderOptions converts pipeline options into Structure Builder options.
func (o *Options) BuilderOptions() builder.Options {
	return builder.Options{
		MaxNodes:           o.MaxNodes,
		MaxDepth:           o.MaxDepth,
		IncludeExamples:    o.IncludeExamples,
		IncludeDefinitions: o.IncludeDefinitions,
		Logger:             o.Logger,
	}
}

// Canvas converts pipeline options into a layout canvas.
func (o *Options) Canvas() layout.Canvas {
	return layout.Canvas{Width: o.Width, Height: o.Height}
}

// MapKeyOpts returns cache key options for the build stage.
func (o *Options) MapKeyOpts() cache.MapKeyOpts {
	return cache.MapKeyOpts{
		MaxNodes:           o.MaxNodes,
		MaxDepth:           o.MaxDepth,
		IncludeExamples:    o.IncludeExamples,
		IncludeDefinitions: o.IncludeDefinitions,
	}
}

// LayoutKeyOpts returns cache key options for the layout stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Strategy: o.Strategy,
		Width:    o.Width,
		Height:   o.Height,
	}
}

// ExportKeyOpts returns cache key options for one exported notation.
func (o *Options) ExportKeyOpts(format string) cache.ExportKeyOpts {
	return cache.ExportKeyOpts{Format: format}
}

// =============================================================================
// Document - Pipeline Output
// =============================================================================

// LayoutInfo describes the layout applied to a document's map.
type LayoutInfo struct {
	Type   string   `json:"type"`
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
	Scheme string   `json:"colorScheme,omitempty"`
	Focus  []string `json:"focusAreas,omitempty"`
}

// Document is the finished product of a pipeline run: the positioned map
// plus everything downstream consumers need to display or store it. It is
// treated as a value once returned; no stage mutates it afterwards.
type Document struct {
	// ID uniquely identifies this generation run.
	ID string `json:"id"`

	// Nodes and Edges are the canonical graph, in builder order.
	Nodes []mindmap.Node `json:"nodes"`
	Edges []mindmap.Edge `json:"edges"`

	// Layout describes the strategy and canvas used for positioning.
	Layout LayoutInfo `json:"layout"`

	// Metadata carries counts, depth, root id, and the generation timestamp.
	Metadata mindmap.Info `json:"metadata"`

	// Statistics holds type/level/edge distributions and connectivity stats.
	Statistics mindmap.Statistics `json:"statistics"`

	// Validation is the collection verdict for the generated map.
	Validation validate.CollectionResult `json:"validation"`

	// ExportFormats holds each rendered notation.
	ExportFormats export.Formats `json:"exportFormats"`

	// Stats and CacheInfo describe the run itself, not the map.
	Stats     Stats     `json:"-"`
	CacheInfo CacheInfo `json:"-"`
}
