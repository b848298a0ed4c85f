// Package layout computes 2-D positions and sizes for concept maps.
//
// Four strategies are supported, each a pure function of (nodes, edges,
// canvas): hierarchical bands, radial rings, a deterministic grid, and an
// importance-ordered timeline. Strategies are selected by tag so new ones
// can be added without touching existing placements.
//
// Every strategy guarantees the same post-condition: on return, no node is
// left without a position and size.
package layout

import (
	"math"
	"sort"

	"github.com/skommel/mindweave/pkg/errors"
	"github.com/skommel/mindweave/pkg/mindmap"
)

// =============================================================================
// Strategies
// =============================================================================

// Layout strategy tags.
const (
	Hierarchical = "hierarchical"
	Radial       = "radial"
	Network      = "network"
	Timeline     = "timeline"
)

// ValidStrategies is the set of supported layout strategies.
var ValidStrategies = map[string]bool{
	Hierarchical: true,
	Radial:       true,
	Network:      true,
	Timeline:     true,
}

// ValidateStrategy checks that a strategy tag is recognized.
func ValidateStrategy(strategy string) error {
	if !ValidStrategies[strategy] {
		return errors.New(errors.ErrCodeInvalidStrategy,
			"invalid strategy: %q (must be one of: hierarchical, radial, network, timeline)", strategy)
	}
	return nil
}

// =============================================================================
// Canvas
// =============================================================================

// Default canvas dimensions and spacing. Tunable presentation constants,
// not structural invariants.
const (
	DefaultWidth  = 1200.0
	DefaultHeight = 800.0

	DefaultHorizontalSpacing = 200.0
	DefaultVerticalSpacing   = 150.0
	DefaultRadialSpacing     = 180.0

	topMargin      = 60.0
	timelineOffset = 60.0
)

// Canvas describes the drawing area and spacing hints for a layout run.
type Canvas struct {
	Width             float64 `json:"width"`
	Height            float64 `json:"height"`
	HorizontalSpacing float64 `json:"horizontalSpacing"`
	VerticalSpacing   float64 `json:"verticalSpacing"`
	RadialSpacing     float64 `json:"radialSpacing"`
}

// DefaultCanvas returns a canvas with the default dimensions and spacing.
func DefaultCanvas() Canvas {
	return Canvas{
		Width:             DefaultWidth,
		Height:            DefaultHeight,
		HorizontalSpacing: DefaultHorizontalSpacing,
		VerticalSpacing:   DefaultVerticalSpacing,
		RadialSpacing:     DefaultRadialSpacing,
	}
}

// setDefaults fills zero dimensions with defaults. Idempotent.
func (c *Canvas) setDefaults() {
	if c.Width == 0 {
		c.Width = DefaultWidth
	}
	if c.Height == 0 {
		c.Height = DefaultHeight
	}
	if c.HorizontalSpacing == 0 {
		c.HorizontalSpacing = DefaultHorizontalSpacing
	}
	if c.VerticalSpacing == 0 {
		c.VerticalSpacing = DefaultVerticalSpacing
	}
	if c.RadialSpacing == 0 {
		c.RadialSpacing = DefaultRadialSpacing
	}
}

// =============================================================================
// Entry Point
// =============================================================================

// Apply positions every node of the map in place using the named strategy.
// Edges are read-only input; only sizes and positions are written. Returns
// an error only for an unrecognized strategy.
func Apply(m *mindmap.Map, strategy string, canvas Canvas) error {
	if err := ValidateStrategy(strategy); err != nil {
		return err
	}
	canvas.setDefaults()

	for _, n := range m.Nodes() {
		size := nodeSize(n)
		n.Size = &size
	}

	switch strategy {
	case Hierarchical:
		applyHierarchical(m, canvas)
	case Radial:
		applyRadial(m, canvas)
	case Network:
		applyNetwork(m, canvas)
	case Timeline:
		applyTimeline(m, canvas)
	}
	return nil
}

// =============================================================================
// Node Sizing
// =============================================================================

// nodeSize derives a deterministic size from label length and type.
// Root and main topics render larger than their descendants.
func nodeSize(n *mindmap.Node) mindmap.Size {
	var base mindmap.Size
	switch n.Type {
	case mindmap.NodeRoot:
		base = mindmap.Size{Width: 180, Height: 64}
	case mindmap.NodeMainTopic:
		base = mindmap.Size{Width: 150, Height: 52}
	default:
		base = mindmap.Size{Width: 120, Height: 40}
	}

	// Widen to fit long labels.
	labelWidth := float64(len([]rune(n.Label)))*8 + 24
	if labelWidth > base.Width {
		base.Width = labelWidth
	}
	return base
}

// =============================================================================
// Hierarchical
// =============================================================================

// applyHierarchical places each level in its own horizontal band, nodes
// spread evenly and centered on the canvas. The root ends up top-center.
func applyHierarchical(m *mindmap.Map, c Canvas) {
	for _, level := range m.Levels() {
		nodes := m.NodesAtLevel(level)
		y := topMargin + float64(level)*c.VerticalSpacing
		span := c.HorizontalSpacing * float64(len(nodes)-1)
		startX := (c.Width - span) / 2
		for i, n := range nodes {
			n.Position = &mindmap.Position{
				X: startX + float64(i)*c.HorizontalSpacing,
				Y: y,
			}
		}
	}
}

// =============================================================================
// Radial
// =============================================================================

// applyRadial pins the root at canvas center and distributes each level
// evenly around a circle of radius level*radialSpacing.
func applyRadial(m *mindmap.Map, c Canvas) {
	centerX := c.Width / 2
	centerY := c.Height / 2

	for _, level := range m.Levels() {
		nodes := m.NodesAtLevel(level)
		if level == 0 {
			for _, n := range nodes {
				n.Position = &mindmap.Position{X: centerX, Y: centerY}
			}
			continue
		}
		radius := float64(level) * c.RadialSpacing
		step := 2 * math.Pi / float64(len(nodes))
		for i, n := range nodes {
			angle := step * float64(i)
			n.Position = &mindmap.Position{
				X: centerX + radius*math.Cos(angle),
				Y: centerY + radius*math.Sin(angle),
			}
		}
	}
}

// =============================================================================
// Network (Grid)
// =============================================================================

// applyNetwork places nodes on a deterministic grid scaled to the canvas.
// This is the documented fallback for network-style maps - no iterative
// force simulation.
func applyNetwork(m *mindmap.Map, c Canvas) {
	nodes := m.Nodes()
	n := len(nodes)
	if n == 0 {
		return
	}

	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols
	cellW := c.Width / float64(cols)
	cellH := c.Height / float64(rows)

	for i, node := range nodes {
		col := i % cols
		row := i / cols
		node.Position = &mindmap.Position{
			X: (float64(col) + 0.5) * cellW,
			Y: (float64(row) + 0.5) * cellH,
		}
	}
}

// =============================================================================
// Timeline
// =============================================================================

// applyTimeline orders nodes by descending importance and walks them
// left-to-right at equal steps, alternating above and below a center line
// to reduce label overlap. Ties keep insertion order (stable sort).
func applyTimeline(m *mindmap.Map, c Canvas) {
	nodes := m.Nodes()
	if len(nodes) == 0 {
		return
	}

	ordered := make([]*mindmap.Node, len(nodes))
	copy(ordered, nodes)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Metadata.Importance > ordered[j].Metadata.Importance
	})

	step := c.Width / float64(len(ordered)+1)
	centerY := c.Height / 2
	for i, n := range ordered {
		y := centerY - timelineOffset
		if i%2 == 1 {
			y = centerY + timelineOffset
		}
		n.Position = &mindmap.Position{
			X: step * float64(i+1),
			Y: y,
		}
	}
}
