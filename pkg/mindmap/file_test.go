package mindmap

import (
	"encoding/json"
	"testing"
)

func buildSample() *Map {
	m := New()
	m.AddNode(Node{ID: "root", Label: "Machine Learning", Type: NodeRoot})
	m.AddNode(Node{ID: "a", Label: "Supervised", Type: NodeMainTopic, Level: 1, ParentID: "root"})
	m.AddNode(Node{ID: "b", Label: "Unsupervised", Type: NodeMainTopic, Level: 1, ParentID: "root"})
	m.AddEdge(Edge{ID: "e1", Source: "root", Target: "a", Type: EdgeHierarchy, Strength: 0.8})
	m.AddEdge(Edge{ID: "e2", Source: "root", Target: "b", Type: EdgeHierarchy, Strength: 0.8})
	m.RebuildChildren()
	m.RecountConnections()
	return m
}

func TestRoundTrip(t *testing.T) {
	m := buildSample()

	data, err := Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got.NodeCount() != m.NodeCount() {
		t.Errorf("nodes = %d, want %d", got.NodeCount(), m.NodeCount())
	}
	if got.EdgeCount() != m.EdgeCount() {
		t.Errorf("edges = %d, want %d", got.EdgeCount(), m.EdgeCount())
	}

	// Counts in metadata must agree with the decoded sets.
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("unmarshal file: %v", err)
	}
	if f.Metadata.TotalNodes != len(f.Nodes) {
		t.Errorf("totalNodes = %d, nodes = %d", f.Metadata.TotalNodes, len(f.Nodes))
	}
	if f.Metadata.TotalEdges != len(f.Edges) {
		t.Errorf("totalEdges = %d, edges = %d", f.Metadata.TotalEdges, len(f.Edges))
	}
	if f.Metadata.RootID != "root" {
		t.Errorf("rootId = %q, want root", f.Metadata.RootID)
	}
}

func TestRestoreRejectsDanglingEdge(t *testing.T) {
	f := File{
		Nodes: []Node{{ID: "root", Type: NodeRoot}},
		Edges: []Edge{{ID: "e1", Source: "root", Target: "ghost", Type: EdgeHierarchy}},
	}
	if _, err := Restore(f); err == nil {
		t.Fatal("expected error for dangling edge endpoint")
	}
}

func TestComputeStatistics(t *testing.T) {
	m := buildSample()
	stats := ComputeStatistics(m)

	if stats.NodesByType[NodeRoot] != 1 {
		t.Errorf("root count = %d, want 1", stats.NodesByType[NodeRoot])
	}
	if stats.NodesByType[NodeMainTopic] != 2 {
		t.Errorf("main-topic count = %d, want 2", stats.NodesByType[NodeMainTopic])
	}
	if stats.EdgesByType[EdgeHierarchy] != 2 {
		t.Errorf("hierarchy edges = %d, want 2", stats.EdgesByType[EdgeHierarchy])
	}
	if stats.NodesByLevel[1] != 2 {
		t.Errorf("level-1 count = %d, want 2", stats.NodesByLevel[1])
	}
	// 4 endpoint increments over 3 nodes.
	if stats.AverageConnections < 1.33 || stats.AverageConnections > 1.34 {
		t.Errorf("averageConnections = %v, want ~1.33", stats.AverageConnections)
	}
	if stats.CoveragePercent != 100 {
		t.Errorf("coverage = %v, want 100", stats.CoveragePercent)
	}
}

func TestCoverageWithoutRoot(t *testing.T) {
	m := New()
	m.AddNode(Node{ID: "a", Type: NodeConcept, Level: 1})
	stats := ComputeStatistics(m)
	if stats.CoveragePercent != 0 {
		t.Errorf("coverage = %v, want 0", stats.CoveragePercent)
	}
}
