// Package builder implements the structure-building stage: it converts raw
// concept/relationship records from the concept source into a validated,
// typed node/edge graph.
//
// The builder never throws away the whole payload over a bad record. Records
// failing field validation are skipped (concepts) or excluded (relationships)
// with a logged warning, and building continues - the structural validator
// downstream reports on whatever shape results.
//
// # Pipeline position
//
// Concept source → *builder* → layout → validate → export.
//
// The builder performs no I/O; its only side effect is the returned map.
package builder

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/skommel/mindweave/pkg/errors"
	"github.com/skommel/mindweave/pkg/mindmap"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultMaxNodes caps the number of concept nodes taken from a payload.
	DefaultMaxNodes = 50

	// DefaultMaxDepth is the deepest hierarchy level assigned to concepts.
	DefaultMaxDepth = 4

	// RootNodeID is the node ID assigned to the synthesized root.
	RootNodeID = "root"

	// fallbackRootLabel is used when the payload has no root concept label.
	fallbackRootLabel = "Mind Map"

	// Defaults for absent metadata scores, on the canonical [0,1] scale.
	defaultImportance = 0.5
	defaultComplexity = 0.5

	// synthesizedStrength is the visual weight of synthesized hierarchy edges.
	synthesizedStrength = 0.9
)

// Options configures a build.
type Options struct {
	MaxNodes           int
	MaxDepth           int
	IncludeExamples    bool
	IncludeDefinitions bool
	Logger             *log.Logger
}

// setDefaults fills zero values. Idempotent.
func (o *Options) setDefaults() {
	if o.MaxNodes == 0 {
		o.MaxNodes = DefaultMaxNodes
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Report summarizes what the builder dropped or adjusted.
// Everything here is informational - none of it aborts a build.
type Report struct {
	SkippedConcepts       int      `json:"skippedConcepts"`
	ExcludedRelationships int      `json:"excludedRelationships"`
	SynthesizedEdges      int      `json:"synthesizedEdges"`
	Warnings              []string `json:"warnings,omitempty"`
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// =============================================================================
// Build
// =============================================================================

// Build converts a payload into a canonical map, discarding the report.
func Build(p Payload, opts Options) (*mindmap.Map, error) {
	m, _, err := BuildWithReport(p, opts)
	return m, err
}

// BuildWithReport converts a payload into a canonical map.
//
// The returned map always has exactly one root node at level 0. Concept
// records missing an ID or usable label are skipped; relationship records
// with dangling endpoints, self-loops, or level-inverting hierarchy types
// are excluded. Numeric fields are clamped into their documented ranges.
// After explicit relationships, one hierarchy edge per parent pointer is
// synthesized idempotently, then child lists and connection counts are
// recomputed.
//
// The only hard failure is an empty payload: nothing to build from.
func BuildWithReport(p Payload, opts Options) (*mindmap.Map, *Report, error) {
	opts.setDefaults()
	logger := opts.Logger
	report := &Report{}

	if p.Empty() {
		return nil, nil, errors.New(errors.ErrCodeEmptyContent, "payload has no root concept and no concepts")
	}

	m := mindmap.New()

	// Root first - concepts may point at it via parentId.
	rootLabel := strings.TrimSpace(p.RootConcept.Label)
	if rootLabel == "" {
		rootLabel = fallbackRootLabel
	}
	m.AddNode(mindmap.Node{
		ID:          RootNodeID,
		Label:       truncateLabel(rootLabel),
		Type:        mindmap.NodeRoot,
		Level:       0,
		Description: p.RootConcept.Description,
		Metadata:    mindmap.Metadata{Importance: 1, Complexity: defaultComplexity},
	})

	for _, c := range p.Concepts {
		if m.NodeCount() >= opts.MaxNodes {
			report.warnf("node cap %d reached; remaining concepts dropped", opts.MaxNodes)
			logger.Warn("node cap reached", "max_nodes", opts.MaxNodes)
			break
		}
		node, ok := sanitizeConcept(c, opts, report, logger)
		if !ok {
			report.SkippedConcepts++
			continue
		}
		if err := m.AddNode(node); err != nil {
			report.SkippedConcepts++
			report.warnf("concept %q: %v", c.ID, err)
			logger.Warn("skipping concept", "id", c.ID, "reason", err)
		}
	}

	// Parent pointers that reference nothing are cleared so they don't
	// produce dangling children lists or synthesized edges.
	for _, n := range m.Nodes() {
		if n.ParentID == "" {
			continue
		}
		if _, ok := m.Node(n.ParentID); !ok {
			report.warnf("node %q: unknown parent %q cleared", n.ID, n.ParentID)
			logger.Warn("clearing unknown parent", "id", n.ID, "parent", n.ParentID)
			n.ParentID = ""
		}
	}

	normalizeLevels(m, opts.MaxDepth, report)

	for i, r := range p.Relationships {
		edge, ok := sanitizeRelationship(i, r, m, report, logger)
		if !ok {
			report.ExcludedRelationships++
			continue
		}
		if err := m.AddEdge(edge); err != nil {
			report.ExcludedRelationships++
			report.warnf("relationship %s→%s: %v", r.SourceID, r.TargetID, err)
			logger.Warn("excluding relationship", "source", r.SourceID, "target", r.TargetID, "reason", err)
		}
	}

	synthesizeHierarchy(m, report)

	m.RebuildChildren()
	m.RecountConnections()

	logger.Debug("structure built",
		"nodes", m.NodeCount(),
		"edges", m.EdgeCount(),
		"skipped", report.SkippedConcepts,
		"excluded", report.ExcludedRelationships)

	return m, report, nil
}

// =============================================================================
// Record Sanitization
// =============================================================================

// sanitizeConcept turns a raw concept record into a node, or reports it
// unusable. Fields are defaulted and clamped rather than rejected wherever a
// reasonable value exists.
func sanitizeConcept(c ConceptRecord, opts Options, report *Report, logger *log.Logger) (mindmap.Node, bool) {
	if err := errors.ValidateNodeID(c.ID); err != nil {
		report.warnf("concept skipped: %v", err)
		logger.Warn("skipping concept", "id", c.ID, "reason", err)
		return mindmap.Node{}, false
	}
	if err := errors.ValidateLabel(c.Label); err != nil {
		report.warnf("concept %q skipped: %v", c.ID, err)
		logger.Warn("skipping concept", "id", c.ID, "reason", err)
		return mindmap.Node{}, false
	}

	label := strings.TrimSpace(c.Label)
	if len([]rune(label)) < mindmap.MinLabelLen {
		report.warnf("concept %q skipped: label shorter than %d characters", c.ID, mindmap.MinLabelLen)
		logger.Warn("skipping concept", "id", c.ID, "reason", "label too short")
		return mindmap.Node{}, false
	}

	nodeType := c.Type
	if !mindmap.ValidNodeTypes[nodeType] || nodeType == mindmap.NodeRoot {
		nodeType = mindmap.NodeConcept
	}
	if nodeType == mindmap.NodeDefinition && !opts.IncludeDefinitions {
		nodeType = mindmap.NodeConcept
	}

	examples := c.Examples
	if !opts.IncludeExamples {
		examples = nil
	} else if len(examples) > mindmap.MaxExamples {
		report.warnf("concept %q: examples truncated to %d", c.ID, mindmap.MaxExamples)
		examples = examples[:mindmap.MaxExamples]
	}

	return mindmap.Node{
		ID:          c.ID,
		Label:       truncateLabel(label),
		Type:        nodeType,
		Level:       clampInt(c.Level, 1, opts.MaxDepth),
		ParentID:    c.ParentID,
		Description: c.Description,
		Examples:    examples,
		Category:    c.Category,
		Tags:        c.Tags,
		Metadata: mindmap.Metadata{
			Importance: clampScore(c.Importance),
			Complexity: clampScore(c.Complexity),
		},
	}, true
}

// sanitizeRelationship turns a raw relationship record into an edge, or
// reports it unusable. Dangling endpoints and self-loops are excluded here;
// AddEdge double-checks the same constraints.
func sanitizeRelationship(idx int, r RelationshipRecord, m *mindmap.Map, report *Report, logger *log.Logger) (mindmap.Edge, bool) {
	src, srcOK := m.Node(r.SourceID)
	dst, dstOK := m.Node(r.TargetID)
	if !srcOK || !dstOK {
		report.warnf("relationship %s→%s excluded: unknown endpoint", r.SourceID, r.TargetID)
		logger.Warn("excluding relationship", "source", r.SourceID, "target", r.TargetID, "reason", "unknown endpoint")
		return mindmap.Edge{}, false
	}
	if r.SourceID == r.TargetID {
		report.warnf("relationship %s→%s excluded: self-loop", r.SourceID, r.TargetID)
		return mindmap.Edge{}, false
	}

	edgeType := r.Type
	if !mindmap.ValidEdgeTypes[edgeType] {
		edgeType = mindmap.EdgeAssociation
	}

	// A hierarchy edge always points from shallower to deeper.
	if edgeType == mindmap.EdgeHierarchy && src.Level >= dst.Level {
		report.warnf("relationship %s→%s excluded: hierarchy edge inverts levels (%d→%d)",
			r.SourceID, r.TargetID, src.Level, dst.Level)
		logger.Warn("excluding relationship", "source", r.SourceID, "target", r.TargetID, "reason", "hierarchy level inversion")
		return mindmap.Edge{}, false
	}

	strength := defaultImportance
	if r.Strength != nil {
		strength = clampFloat(*r.Strength, 0, 1)
	}

	return mindmap.Edge{
		ID:            fmt.Sprintf("r%d-%s-%s", idx, r.SourceID, r.TargetID),
		Source:        r.SourceID,
		Target:        r.TargetID,
		Type:          edgeType,
		Label:         r.Label,
		Strength:      strength,
		Bidirectional: r.Bidirectional,
	}, true
}

// normalizeLevels pushes every child at least one level below its parent,
// walking parent pointers from the parentless nodes down. Depth is capped at
// maxDepth, so a chain longer than the cap flattens at the bottom. Nodes on a
// parent-pointer cycle are never reached and keep their declared levels.
func normalizeLevels(m *mindmap.Map, maxDepth int, report *Report) {
	children := make(map[string][]*mindmap.Node)
	var queue []*mindmap.Node
	for _, n := range m.Nodes() {
		if n.ParentID == "" {
			queue = append(queue, n)
			continue
		}
		children[n.ParentID] = append(children[n.ParentID], n)
	}

	for len(queue) > 0 {
		parent := queue[0]
		queue = queue[1:]
		for _, child := range children[parent.ID] {
			if want := min(parent.Level+1, maxDepth); child.Level < want {
				report.warnf("node %q: level %d deepened to %d to sit below parent %q",
					child.ID, child.Level, want, parent.ID)
				child.Level = want
			}
			queue = append(queue, child)
		}
	}
}

// synthesizeHierarchy adds one hierarchy edge per parent pointer, skipping
// any (source,target,type) triple that already exists. Running it twice on
// the same map adds nothing. Parent pointers that still invert levels after
// normalization (chains flattened at maxDepth, or cycles) get no edge: a
// hierarchy edge always points from shallower to deeper.
func synthesizeHierarchy(m *mindmap.Map, report *Report) {
	for _, n := range m.Nodes() {
		if n.ParentID == "" {
			continue
		}
		if m.HasEdge(n.ParentID, n.ID, mindmap.EdgeHierarchy) {
			continue
		}
		parent, ok := m.Node(n.ParentID)
		if !ok || parent.Level >= n.Level {
			report.warnf("node %q: hierarchy edge from parent %q skipped, levels invert", n.ID, n.ParentID)
			continue
		}
		m.AddEdge(mindmap.Edge{
			ID:       fmt.Sprintf("h-%s-%s", n.ParentID, n.ID),
			Source:   n.ParentID,
			Target:   n.ID,
			Type:     mindmap.EdgeHierarchy,
			Strength: synthesizedStrength,
		})
		report.SynthesizedEdges++
	}
}

// =============================================================================
// Clamping Helpers
// =============================================================================

func truncateLabel(label string) string {
	runes := []rune(label)
	if len(runes) > mindmap.MaxLabelLen {
		return string(runes[:mindmap.MaxLabelLen])
	}
	return label
}

// clampScore clamps an optional score into [0,1], defaulting absent values.
func clampScore(v *float64) float64 {
	if v == nil {
		return defaultImportance
	}
	return clampFloat(*v, 0, 1)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
