package validate

import (
	"math"

	"github.com/skommel/mindweave/pkg/mindmap"
)

// =============================================================================
// Scoring Constants - Tunable Heuristics
// =============================================================================

// Composite score weights. Empirically chosen; adjust freely, the bounded
// deltas keep the score inside [0,1] without explicit clamping.
const (
	scoreBase = 0.5

	rootBonus   = 0.2
	rootPenalty = 0.3

	connectedBonus      = 0.15
	disconnectedPenalty = 0.2

	orphanPenalty = 0.1

	balanceBonus   = 0.1
	balancePenalty = 0.1

	branchingBonus   = 0.05
	branchingPenalty = 0.05

	edgeMixBonus = 0.05 // per satisfied mix criterion, two criteria
)

// Heuristic thresholds.
const (
	// balanceGood and balancePoor bound the depth-balance deltas.
	balanceGood = 0.6
	balancePoor = 0.3

	// Branching factor (mean out-degree) comfort band.
	branchingLow  = 1.5
	branchingHigh = 6.0

	// Edge-type mix expectations.
	minHierarchyRatio   = 0.3
	maxAssociationRatio = 0.5
)

// Quality tiers.
const (
	CategoryExcellent = "excellent"
	CategoryGood      = "good"
	CategoryFair      = "fair"
	CategoryPoor      = "poor"
)

// Tier cutoffs and validity gates.
const (
	excellentThreshold = 0.85
	goodThreshold      = 0.7
	fairThreshold      = 0.5

	validScoreFloor = 0.4
	maxIssuesValid  = 5
)

// =============================================================================
// Result Types
// =============================================================================

// StructureAnalysis captures the raw measurements behind the score.
type StructureAnalysis struct {
	HasRoot          bool    `json:"hasRoot"`
	RootCount        int     `json:"rootCount"`
	IsConnected      bool    `json:"isConnected"`
	ComponentCount   int     `json:"componentCount"`
	OrphanCount      int     `json:"orphanCount"`
	MaxDepth         int     `json:"maxDepth"`
	DepthBalance     float64 `json:"depthBalance"`
	BranchingFactor  float64 `json:"branchingFactor"`
	HierarchyRatio   float64 `json:"hierarchyRatio"`
	AssociationRatio float64 `json:"associationRatio"`
}

// StructureResult is the outcome of whole-graph validation.
type StructureResult struct {
	Valid             bool              `json:"isValid"`
	Score             float64           `json:"score"`
	Category          string            `json:"category"`
	Issues            []string          `json:"issues,omitempty"`
	Suggestions       []string          `json:"suggestions,omitempty"`
	StructureAnalysis StructureAnalysis `json:"structureAnalysis"`
}

// =============================================================================
// Structural Validation
// =============================================================================

// CheckStructure analyzes the graph as a whole: root presence, connectivity,
// depth balance, branching, and edge-type mix. Position is irrelevant - the
// check may run before or after layout.
func CheckStructure(m *mindmap.Map) StructureResult {
	res := StructureResult{}
	r := Result{} // collects issues/suggestions with the shared helpers
	analysis := &res.StructureAnalysis
	score := scoreBase

	// Root check.
	analysis.RootCount = m.RootCount()
	analysis.HasRoot = analysis.RootCount == 1
	if analysis.HasRoot {
		score += rootBonus
	} else {
		score -= rootPenalty
		if analysis.RootCount == 0 {
			r.issuef("map has no root node")
			r.suggestf("add a single root node at level 0")
		} else {
			r.issuef("map has %d root nodes, expected exactly one", analysis.RootCount)
		}
	}

	// Connectivity.
	components := m.Components()
	analysis.ComponentCount = len(components)
	analysis.IsConnected = len(components) == 1
	if analysis.IsConnected {
		score += connectedBonus
	} else {
		score -= disconnectedPenalty
		r.issuef("map splits into %d disconnected components", len(components))
		r.suggestf("connect isolated branches to the main structure")
	}

	analysis.OrphanCount = len(m.Orphans())
	if analysis.OrphanCount > 0 {
		score -= orphanPenalty
		r.issuef("%d orphan nodes have no connections", analysis.OrphanCount)
		r.suggestf("link orphan nodes to related concepts or remove them")
	}

	// Depth balance.
	analysis.MaxDepth = m.MaxLevel()
	analysis.DepthBalance = depthBalance(m)
	switch {
	case analysis.DepthBalance < balancePoor:
		score -= balancePenalty
		r.issuef("node distribution across levels is unbalanced (%.2f)", analysis.DepthBalance)
		r.suggestf("spread concepts more evenly across hierarchy levels")
	case analysis.DepthBalance >= balanceGood:
		score += balanceBonus
	}

	// Branching factor.
	analysis.BranchingFactor = branchingFactor(m)
	switch {
	case m.NodeCount() > 1 && analysis.BranchingFactor < branchingLow:
		score -= branchingPenalty
		r.suggestf("average branching %.2f is low; add more relationships between concepts", analysis.BranchingFactor)
	case analysis.BranchingFactor > branchingHigh:
		score -= branchingPenalty
		r.suggestf("average branching %.2f is high; consider splitting dense nodes", analysis.BranchingFactor)
	default:
		score += branchingBonus
	}

	// Edge-type mix.
	hierarchy, association := edgeMix(m)
	analysis.HierarchyRatio = hierarchy
	analysis.AssociationRatio = association
	if m.EdgeCount() > 0 {
		if hierarchy >= minHierarchyRatio {
			score += edgeMixBonus
		} else {
			r.suggestf("only %.0f%% of edges are hierarchical; the map may lack clear structure", hierarchy*100)
		}
		if association <= maxAssociationRatio {
			score += edgeMixBonus
		} else {
			r.suggestf("%.0f%% of edges are associations; consider more specific edge types", association*100)
		}
	}

	res.Score = round2(score)
	res.Category = category(res.Score)
	res.Issues = r.Issues
	res.Suggestions = r.Suggestions
	res.Valid = res.Score >= validScoreFloor && len(res.Issues) < maxIssuesValid
	return res
}

// =============================================================================
// Measurements
// =============================================================================

// depthBalance measures how evenly nodes spread across levels 0..maxDepth.
// For an ideal population of totalNodes/(maxDepth+1) per level, the score is
// the mean over levels of max(0, 1 - |actual-ideal|/ideal), in [0,1].
func depthBalance(m *mindmap.Map) float64 {
	total := m.NodeCount()
	if total == 0 {
		return 0
	}
	maxDepth := m.MaxLevel()
	levels := maxDepth + 1
	ideal := float64(total) / float64(levels)

	sum := 0.0
	for level := 0; level <= maxDepth; level++ {
		actual := float64(len(m.NodesAtLevel(level)))
		sum += math.Max(0, 1-math.Abs(actual-ideal)/ideal)
	}
	return sum / float64(levels)
}

// branchingFactor is the mean out-degree: edges where the node is source,
// averaged over all nodes.
func branchingFactor(m *mindmap.Map) float64 {
	if m.NodeCount() == 0 {
		return 0
	}
	return float64(m.EdgeCount()) / float64(m.NodeCount())
}

// edgeMix returns the hierarchy and association shares of the edge set.
func edgeMix(m *mindmap.Map) (hierarchy, association float64) {
	total := m.EdgeCount()
	if total == 0 {
		return 0, 0
	}
	var h, a int
	for _, e := range m.Edges() {
		switch e.Type {
		case mindmap.EdgeHierarchy:
			h++
		case mindmap.EdgeAssociation:
			a++
		}
	}
	return float64(h) / float64(total), float64(a) / float64(total)
}

func category(score float64) string {
	switch {
	case score >= excellentThreshold:
		return CategoryExcellent
	case score >= goodThreshold:
		return CategoryGood
	case score >= fairThreshold:
		return CategoryFair
	default:
		return CategoryPoor
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
