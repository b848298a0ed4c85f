// Package pkg provides the core libraries for Mindweave mind-map generation.
//
// # Overview
//
// Mindweave turns untrusted concept/relationship payloads into positioned,
// validated, exportable mind maps. The pkg directory is organized into five
// main areas:
//
//  1. [mindmap] - The map model (nodes, edges, statistics, serialization)
//  2. [builder] - Payload sanitization and graph construction
//  3. [layout] - Position strategies (hierarchical, radial, network, timeline)
//  4. [validate] - Element checks and composite structure scoring
//  5. [export] / [render] - Notation output and visual rendering
//
// # Architecture
//
// The typical data flow through Mindweave:
//
//	Concept/Relationship Payload
//	         ↓
//	    [builder] package (sanitize, drop, synthesize hierarchy)
//	         ↓
//	    [layout] package (assign positions and sizes)
//	         ↓
//	    [validate] package (score structure, collect issues)
//	         ↓
//	    [export] package (json / flow / dot notations)
//	         ↓
//	    [render] package (SVG, PDF, PNG)
//
// # Quick Start
//
// Build, position, and export a map:
//
//	import (
//	    "github.com/skommel/mindweave/pkg/builder"
//	    "github.com/skommel/mindweave/pkg/export"
//	    "github.com/skommel/mindweave/pkg/layout"
//	)
//
//	// 1. Parse and build
//	p, _ := builder.ParsePayload(data)
//	m, _ := builder.Build(p, builder.Options{})
//
//	// 2. Position
//	_ = layout.Apply(m, layout.Radial, layout.Canvas{})
//
//	// 3. Export
//	formats, _ := export.Export(m)
//
// # Main Packages
//
// [mindmap] - Map, Node, Edge types with indexed adjacency, connectivity
// queries, statistics, and the canonical JSON file format.
//
// [builder] - Tolerant construction from untrusted payloads: malformed
// records are dropped with warnings, dangling relationships excluded,
// hierarchy edges synthesized from parent pointers. Includes the fallback
// builder for topic + key-point input.
//
// [layout] - Four deterministic strategies sharing a Canvas configuration.
// Every node receives a position and size; unknown strategies are rejected
// up front.
//
// [validate] - Per-node and per-edge checks plus whole-graph analysis (root
// presence, connectivity, depth balance, branching factor, edge-type mix)
// rolled into a composite score and quality category.
//
// [export] - Diagram notations: canonical JSON, flowchart text with
// type-specific node shapes, and DOT for graph tooling.
//
// [render] - DOT to SVG via the embedded graph engine, with PDF/PNG
// conversion through rsvg-convert.
//
// [pipeline] - Orchestration of build → layout → validate → export with
// per-stage caching and timing, used by the CLI.
//
// [cache] - Cache interface with file, redis, and null backends plus
// deterministic SHA-256 stage keys.
//
// [observability] - Pluggable pipeline and cache hooks for metrics
// integration.
//
// [errors] - Coded errors distinguishing invalid payloads, invalid options,
// and internal failures.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/builder/...   # Specific package
//
// [mindmap]: https://pkg.go.dev/github.com/skommel/mindweave/pkg/mindmap
// [builder]: https://pkg.go.dev/github.com/skommel/mindweave/pkg/builder
// [layout]: https://pkg.go.dev/github.com/skommel/mindweave/pkg/layout
// [validate]: https://pkg.go.dev/github.com/skommel/mindweave/pkg/validate
// [export]: https://pkg.go.dev/github.com/skommel/mindweave/pkg/export
// [render]: https://pkg.go.dev/github.com/skommel/mindweave/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/skommel/mindweave/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/skommel/mindweave/pkg/cache
// [observability]: https://pkg.go.dev/github.com/skommel/mindweave/pkg/observability
// [errors]: https://pkg.go.dev/github.com/skommel/mindweave/pkg/errors
package pkg
