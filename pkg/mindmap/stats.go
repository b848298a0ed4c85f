package mindmap

import "math"

// Statistics summarizes the shape of a finished map. All distributions are
// keyed by the closed enumerations in types.go; levels are keyed by depth.
type Statistics struct {
	NodesByType        map[string]int `json:"nodesByType"`
	NodesByLevel       map[int]int    `json:"nodesByLevel"`
	EdgesByType        map[string]int `json:"edgesByType"`
	AverageConnections float64        `json:"averageConnections"`
	// CoveragePercent is the share of nodes reachable from the root over an
	// undirected view of the edges, in [0,100].
	CoveragePercent float64 `json:"coveragePercent"`
}

// ComputeStatistics derives distribution statistics from the map.
// Connection counts are read from node metadata, so callers should run
// RecountConnections first if the edge set changed.
func ComputeStatistics(m *Map) Statistics {
	stats := Statistics{
		NodesByType:  make(map[string]int),
		NodesByLevel: make(map[int]int),
		EdgesByType:  make(map[string]int),
	}

	total := 0
	for _, n := range m.Nodes() {
		stats.NodesByType[n.Type]++
		stats.NodesByLevel[n.Level]++
		total += n.Metadata.Connections
	}
	for _, e := range m.Edges() {
		stats.EdgesByType[e.Type]++
	}

	if m.NodeCount() > 0 {
		stats.AverageConnections = round2(float64(total) / float64(m.NodeCount()))
		stats.CoveragePercent = round2(coverage(m) * 100)
	}
	return stats
}

// coverage returns the fraction of nodes in the root's component.
// Returns 0 when the map has no root.
func coverage(m *Map) float64 {
	root := m.Root()
	if root == nil {
		return 0
	}
	for _, comp := range m.Components() {
		for _, id := range comp {
			if id == root.ID {
				return float64(len(comp)) / float64(m.NodeCount())
			}
		}
	}
	return 0
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
