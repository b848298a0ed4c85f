package validate

import (
	"github.com/skommel/mindweave/pkg/mindmap"
)

// Collection score blend and recommendation triggers.
const (
	nodeWeight       = 0.4
	edgeWeight       = 0.3
	structureWeight  = 0.3
	invalidRatioWarn = 0.2
	overallWarn      = 0.6
)

// CollectionResult aggregates per-element and structural validation over a
// whole map.
type CollectionResult struct {
	Valid           bool                `json:"isValid"`
	Overall         float64             `json:"overallScore"`
	ValidNodes      int                 `json:"validNodes"`
	InvalidNodes    int                 `json:"invalidNodes"`
	ValidEdges      int                 `json:"validEdges"`
	InvalidEdges    int                 `json:"invalidEdges"`
	NodeIssues      map[string][]string `json:"nodeIssues,omitempty"`
	EdgeIssues      map[string][]string `json:"edgeIssues,omitempty"`
	Structure       StructureResult     `json:"structure"`
	Recommendations []string            `json:"recommendations,omitempty"`
}

// CheckCollection validates every node and edge individually, runs the
// structural check, and blends the three into an overall score. An empty map
// is invalid with a zero score.
func CheckCollection(m *mindmap.Map) CollectionResult {
	res := CollectionResult{
		NodeIssues: map[string][]string{},
		EdgeIssues: map[string][]string{},
	}

	if m.NodeCount() == 0 {
		res.Structure = CheckStructure(m)
		res.Recommendations = append(res.Recommendations, "map is empty; build it from at least one concept")
		return res
	}

	for _, n := range m.Nodes() {
		nr := CheckNode(n)
		if nr.Valid {
			res.ValidNodes++
		} else {
			res.InvalidNodes++
			res.NodeIssues[n.ID] = nr.Issues
		}
	}
	for _, e := range m.Edges() {
		er := CheckEdge(&e, m)
		if er.Valid {
			res.ValidEdges++
		} else {
			res.InvalidEdges++
			res.EdgeIssues[e.ID] = er.Issues
		}
	}

	res.Structure = CheckStructure(m)

	nodeRatio := ratio(res.ValidNodes, res.ValidNodes+res.InvalidNodes)
	edgeRatio := 1.0 // a map with no edges has no invalid edges
	if total := res.ValidEdges + res.InvalidEdges; total > 0 {
		edgeRatio = ratio(res.ValidEdges, total)
	}

	res.Overall = round2(nodeRatio*nodeWeight + edgeRatio*edgeWeight + res.Structure.Score*structureWeight)
	res.Valid = res.Overall >= validScoreFloor && res.Structure.Valid

	if 1-nodeRatio > invalidRatioWarn {
		res.Recommendations = append(res.Recommendations, "over 20% of nodes failed validation; review concept labels and levels")
	}
	if 1-edgeRatio > invalidRatioWarn {
		res.Recommendations = append(res.Recommendations, "over 20% of edges failed validation; review relationship endpoints and types")
	}
	if res.Overall < overallWarn {
		res.Recommendations = append(res.Recommendations, "overall quality is low; rebuild the map with stricter input filtering")
	}
	return res
}

func ratio(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total)
}
