// Package validate analyzes concept maps for field-level correctness and
// structural quality.
//
// Validation is soft by design: no check raises an error. Field checks
// return structured results with human-readable issues and suggestions;
// structural checks produce a composite quality score and a tier category.
// Callers decide whether a low-scoring map is accepted, retried, or
// regenerated - generation itself never aborts on validation findings.
//
// The scoring weights are empirically chosen thresholds, kept as named
// constants in structure.go. They are tunable, not load-bearing invariants.
package validate

import (
	"fmt"
	"strings"

	"github.com/skommel/mindweave/pkg/mindmap"
)

// Result is the outcome of a field-level check on a single node or edge.
type Result struct {
	Valid       bool     `json:"isValid"`
	Issues      []string `json:"issues,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func (r *Result) issuef(format string, args ...any) {
	r.Issues = append(r.Issues, fmt.Sprintf(format, args...))
}

func (r *Result) suggestf(format string, args ...any) {
	r.Suggestions = append(r.Suggestions, fmt.Sprintf(format, args...))
}

// =============================================================================
// Node Checks
// =============================================================================

// CheckNode runs the field-level checks on a single node.
// Every failed check appends one issue and, where a fix is obvious, one
// suggestion. The function never panics on malformed input.
func CheckNode(n *mindmap.Node) Result {
	r := Result{}

	if n.ID == "" {
		r.issuef("node has no id")
	}

	label := strings.TrimSpace(n.Label)
	switch {
	case label == "":
		r.issuef("node %q has no label", n.ID)
		r.suggestf("give node %q a short descriptive label", n.ID)
	case len([]rune(label)) < mindmap.MinLabelLen:
		r.issuef("node %q label is shorter than %d characters", n.ID, mindmap.MinLabelLen)
	case len([]rune(label)) > mindmap.MaxLabelLen:
		r.issuef("node %q label exceeds %d characters", n.ID, mindmap.MaxLabelLen)
		r.suggestf("shorten the label of node %q", n.ID)
	}

	if !mindmap.ValidNodeTypes[n.Type] {
		r.issuef("node %q has unknown type %q", n.ID, n.Type)
		r.suggestf("use one of the supported node types for %q", n.ID)
	}

	if n.Level < 0 {
		r.issuef("node %q has negative level %d", n.ID, n.Level)
	}
	if n.Type == mindmap.NodeRoot && n.Level != 0 {
		r.issuef("root node %q must be at level 0, got %d", n.ID, n.Level)
	}
	if n.Type != mindmap.NodeRoot && n.Level == 0 {
		r.issuef("node %q is at level 0 but is not the root", n.ID)
		r.suggestf("move node %q to level 1 or deeper", n.ID)
	}

	if n.Metadata.Importance < 0 || n.Metadata.Importance > 1 {
		r.issuef("node %q importance %.2f outside [0,1]", n.ID, n.Metadata.Importance)
	}
	if n.Metadata.Complexity < 0 || n.Metadata.Complexity > 1 {
		r.issuef("node %q complexity %.2f outside [0,1]", n.ID, n.Metadata.Complexity)
	}

	if len(n.Examples) > mindmap.MaxExamples {
		// Soft cap - a suggestion, not a rejection.
		r.suggestf("node %q carries %d examples; consider trimming to %d", n.ID, len(n.Examples), mindmap.MaxExamples)
	}

	r.Valid = len(r.Issues) == 0
	return r
}

// =============================================================================
// Edge Checks
// =============================================================================

// CheckEdge runs the field-level checks on a single edge against the map it
// belongs to. Dangling endpoints make the edge invalid - such edges are
// excluded from the canonical graph by collection validation.
func CheckEdge(e *mindmap.Edge, m *mindmap.Map) Result {
	r := Result{}

	if e.ID == "" {
		r.issuef("edge has no id")
	}

	src, srcOK := m.Node(e.Source)
	if !srcOK {
		r.issuef("edge %q source %q does not exist", e.ID, e.Source)
	}
	dst, dstOK := m.Node(e.Target)
	if !dstOK {
		r.issuef("edge %q target %q does not exist", e.ID, e.Target)
	}
	if e.Source != "" && e.Source == e.Target {
		r.issuef("edge %q is a self-loop on %q", e.ID, e.Source)
	}

	if !mindmap.ValidEdgeTypes[e.Type] {
		r.issuef("edge %q has unknown type %q", e.ID, e.Type)
		r.suggestf("use one of the supported edge types for %q", e.ID)
	}

	if e.Strength < 0 || e.Strength > 1 {
		r.issuef("edge %q strength %.2f outside [0,1]", e.ID, e.Strength)
	}

	// A hierarchy edge always points from shallower to deeper.
	if e.Type == mindmap.EdgeHierarchy && srcOK && dstOK && src.Level >= dst.Level {
		r.issuef("hierarchy edge %q inverts levels (%d→%d)", e.ID, src.Level, dst.Level)
		r.suggestf("retype edge %q as association or fix node levels", e.ID)
	}

	r.Valid = len(r.Issues) == 0
	return r
}
