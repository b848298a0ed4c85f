package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/skommel/mindweave/pkg/mindmap"
)

// DOTOptions configures directed-graph notation output.
type DOTOptions struct {
	// Detailed includes level and importance in node labels.
	// When false, only the node label is shown.
	Detailed bool

	// Positioned pins nodes to their layout coordinates. Only useful when
	// the map has been through a layout pass and the renderer honors pinned
	// positions (neato -n).
	Positioned bool
}

// Fill colors per node type, light pastel so black labels stay readable.
var dotFills = map[string]string{
	mindmap.NodeRoot:       "gold",
	mindmap.NodeMainTopic:  "lightblue",
	mindmap.NodeSubtopic:   "lightcyan",
	mindmap.NodeConcept:    "white",
	mindmap.NodeExample:    "honeydew",
	mindmap.NodeDetail:     "whitesmoke",
	mindmap.NodeDefinition: "lavender",
}

// ToDOT converts a mind map to Graphviz DOT format. The resulting string can
// be rendered with [github.com/skommel/mindweave/pkg/render.SVG] and friends.
//
// Root nodes are drawn as double circles; edge line styles encode the edge
// type (dashed associations, dotted examples, bold dependencies).
func ToDOT(m *mindmap.Map, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph MindMap {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range m.Nodes() {
		label := dotLabel(n, opts.Detailed)
		attrs := dotNodeAttrs(n, label, opts.Positioned)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range m.Edges() {
		attrs := dotEdgeAttrs(e)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotLabel(n *mindmap.Node, detailed bool) string {
	if !detailed {
		return n.Label
	}
	parts := []string{
		fmt.Sprintf("level: %d", n.Level),
		fmt.Sprintf("importance: %.2f", n.Metadata.Importance),
	}
	if n.Category != "" {
		parts = append(parts, "category: "+n.Category)
	}
	return n.Label + "\n" + strings.Join(parts, "\n")
}

func dotNodeAttrs(n *mindmap.Node, label string, positioned bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.IsRoot() {
		attrs = append(attrs, "shape=doublecircle", "style=filled")
	}
	if fill, ok := dotFills[n.Type]; ok && fill != "white" {
		attrs = append(attrs, "fillcolor="+fill)
	}
	if positioned && n.Positioned() {
		// Graphviz points, y grows upward; canvas y grows downward.
		attrs = append(attrs, fmt.Sprintf("pos=\"%.0f,%.0f!\"", n.Position.X, -n.Position.Y))
	}
	return attrs
}

func dotEdgeAttrs(e mindmap.Edge) []string {
	var attrs []string
	switch e.Type {
	case mindmap.EdgeAssociation:
		attrs = append(attrs, "style=dashed")
	case mindmap.EdgeExample:
		attrs = append(attrs, "style=dotted")
	case mindmap.EdgeDependency:
		attrs = append(attrs, "style=bold")
	case mindmap.EdgeContrast:
		attrs = append(attrs, "style=dashed", "color=red")
	}
	if e.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
	}
	if e.Bidirectional {
		attrs = append(attrs, "dir=both")
	}
	return attrs
}
