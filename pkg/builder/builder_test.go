package builder

import (
	"sort"
	"testing"

	"github.com/skommel/mindweave/pkg/errors"
	"github.com/skommel/mindweave/pkg/mindmap"
)

func floatPtr(v float64) *float64 { return &v }

func TestBuild(t *testing.T) {
	tests := []struct {
		name      string
		payload   Payload
		opts      Options
		wantNodes int
		wantEdges int
		wantErr   errors.Code
		check     func(t *testing.T, m *mindmap.Map, r *Report)
	}{
		{
			name:    "EmptyPayload",
			payload: Payload{},
			wantErr: errors.ErrCodeEmptyContent,
		},
		{
			name: "RootOnly",
			payload: Payload{
				RootConcept: RootConcept{Label: "Photosynthesis"},
			},
			wantNodes: 1,
			wantEdges: 0,
			check: func(t *testing.T, m *mindmap.Map, r *Report) {
				root := m.Root()
				if root == nil || root.Level != 0 {
					t.Fatal("expected single root at level 0")
				}
				if root.Label != "Photosynthesis" {
					t.Errorf("root label = %q", root.Label)
				}
			},
		},
		{
			name: "FallbackRootLabel",
			payload: Payload{
				Concepts: []ConceptRecord{{ID: "a", Label: "Only concept", Level: 1}},
			},
			wantNodes: 2,
			check: func(t *testing.T, m *mindmap.Map, r *Report) {
				if m.Root().Label != "Mind Map" {
					t.Errorf("root label = %q, want generic fallback", m.Root().Label)
				}
			},
		},
		{
			name: "SynthesizedHierarchyEdge",
			payload: Payload{
				RootConcept: RootConcept{Label: "ML"},
				Concepts: []ConceptRecord{
					{ID: "a", Label: "Supervised", Level: 1, ParentID: "root"},
				},
			},
			wantNodes: 2,
			wantEdges: 1,
			check: func(t *testing.T, m *mindmap.Map, r *Report) {
				edges := m.Edges()
				e := edges[0]
				if e.Source != "root" || e.Target != "a" || e.Type != mindmap.EdgeHierarchy {
					t.Errorf("edge = %+v, want root→a hierarchy", e)
				}
				if r.SynthesizedEdges != 1 {
					t.Errorf("synthesized = %d, want 1", r.SynthesizedEdges)
				}
			},
		},
		{
			name: "DeepensChildBelowParentLevel",
			payload: Payload{
				RootConcept: RootConcept{Label: "Topic"},
				Concepts: []ConceptRecord{
					{ID: "a", Label: "First branch", Level: 2, ParentID: "root"},
					{ID: "b", Label: "Nested branch", Level: 2, ParentID: "a"},
				},
			},
			wantNodes: 3,
			wantEdges: 2,
			check: func(t *testing.T, m *mindmap.Map, r *Report) {
				b, _ := m.Node("b")
				if b.Level != 3 {
					t.Errorf("b.Level = %d, want 3", b.Level)
				}
				for _, e := range m.Edges() {
					if e.Type != mindmap.EdgeHierarchy {
						continue
					}
					src, _ := m.Node(e.Source)
					dst, _ := m.Node(e.Target)
					if src.Level >= dst.Level {
						t.Errorf("hierarchy edge %s→%s goes %d→%d, want shallower→deeper",
							e.Source, e.Target, src.Level, dst.Level)
					}
				}
			},
		},
		{
			name: "SkipsSynthesisWhenChainFlattensAtMaxDepth",
			payload: Payload{
				RootConcept: RootConcept{Label: "Topic"},
				Concepts: []ConceptRecord{
					{ID: "a", Label: "At the cap", Level: 2, ParentID: "root"},
					{ID: "b", Label: "Below the cap", Level: 2, ParentID: "a"},
				},
			},
			opts:      Options{MaxDepth: 2},
			wantNodes: 3,
			wantEdges: 1,
			check: func(t *testing.T, m *mindmap.Map, r *Report) {
				if m.HasEdge("a", "b", mindmap.EdgeHierarchy) {
					t.Error("expected no a→b hierarchy edge at equal levels")
				}
				if len(r.Warnings) == 0 {
					t.Error("expected a warning for the skipped edge")
				}
			},
		},
		{
			name: "SkipsMalformedConcepts",
			payload: Payload{
				RootConcept: RootConcept{Label: "Topic"},
				Concepts: []ConceptRecord{
					{ID: "", Label: "No id", Level: 1},
					{ID: "b", Label: "", Level: 1},
					{ID: "c", Label: "x", Level: 1}, // below minimum label length
					{ID: "ok", Label: "Kept", Level: 1},
				},
			},
			wantNodes: 2,
			check: func(t *testing.T, m *mindmap.Map, r *Report) {
				if r.SkippedConcepts != 3 {
					t.Errorf("skipped = %d, want 3", r.SkippedConcepts)
				}
			},
		},
		{
			name: "ClampsLevelsAndScores",
			payload: Payload{
				RootConcept: RootConcept{Label: "Topic"},
				Concepts: []ConceptRecord{
					{ID: "deep", Label: "Too deep", Level: 99, Importance: floatPtr(3.5), Complexity: floatPtr(-1)},
					{ID: "neg", Label: "Negative level", Level: -2},
				},
			},
			opts:      Options{MaxDepth: 3},
			wantNodes: 3,
			check: func(t *testing.T, m *mindmap.Map, r *Report) {
				deep, _ := m.Node("deep")
				if deep.Level != 3 {
					t.Errorf("deep.Level = %d, want 3", deep.Level)
				}
				if deep.Metadata.Importance != 1 {
					t.Errorf("importance = %v, want 1", deep.Metadata.Importance)
				}
				if deep.Metadata.Complexity != 0 {
					t.Errorf("complexity = %v, want 0", deep.Metadata.Complexity)
				}
				neg, _ := m.Node("neg")
				if neg.Level != 1 {
					t.Errorf("neg.Level = %d, want 1", neg.Level)
				}
			},
		},
		{
			name: "DefaultsInvalidType",
			payload: Payload{
				RootConcept: RootConcept{Label: "Topic"},
				Concepts: []ConceptRecord{
					{ID: "a", Label: "Weird type", Level: 1, Type: "banana"},
					{ID: "b", Label: "Sneaky root", Level: 1, Type: "root"},
				},
			},
			wantNodes: 3,
			check: func(t *testing.T, m *mindmap.Map, r *Report) {
				a, _ := m.Node("a")
				if a.Type != mindmap.NodeConcept {
					t.Errorf("a.Type = %q, want concept", a.Type)
				}
				// A payload concept can never claim the root type.
				b, _ := m.Node("b")
				if b.Type != mindmap.NodeConcept {
					t.Errorf("b.Type = %q, want concept", b.Type)
				}
				if m.RootCount() != 1 {
					t.Errorf("root count = %d, want 1", m.RootCount())
				}
			},
		},
		{
			name: "ExcludesDanglingRelationships",
			payload: Payload{
				RootConcept: RootConcept{Label: "Topic"},
				Concepts: []ConceptRecord{
					{ID: "a", Label: "Alpha", Level: 1},
				},
				Relationships: []RelationshipRecord{
					{SourceID: "a", TargetID: "ghost"},
					{SourceID: "ghost", TargetID: "a"},
					{SourceID: "a", TargetID: "a"},
				},
			},
			wantNodes: 2,
			wantEdges: 0,
			check: func(t *testing.T, m *mindmap.Map, r *Report) {
				if r.ExcludedRelationships != 3 {
					t.Errorf("excluded = %d, want 3", r.ExcludedRelationships)
				}
			},
		},
		{
			name: "ExcludesLevelInvertingHierarchy",
			payload: Payload{
				RootConcept: RootConcept{Label: "Topic"},
				Concepts: []ConceptRecord{
					{ID: "shallow", Label: "Shallow", Level: 1},
					{ID: "deep", Label: "Deep", Level: 2},
				},
				Relationships: []RelationshipRecord{
					{SourceID: "deep", TargetID: "shallow", Type: "hierarchy"},
					{SourceID: "shallow", TargetID: "deep", Type: "hierarchy"},
				},
			},
			wantNodes: 3,
			wantEdges: 1,
		},
		{
			name: "ClampsStrength",
			payload: Payload{
				RootConcept: RootConcept{Label: "Topic"},
				Concepts: []ConceptRecord{
					{ID: "a", Label: "Alpha", Level: 1},
					{ID: "b", Label: "Beta", Level: 1},
				},
				Relationships: []RelationshipRecord{
					{SourceID: "a", TargetID: "b", Type: "association", Strength: floatPtr(7)},
				},
			},
			wantNodes: 3,
			wantEdges: 1,
			check: func(t *testing.T, m *mindmap.Map, r *Report) {
				if got := m.Edges()[0].Strength; got != 1 {
					t.Errorf("strength = %v, want 1", got)
				}
			},
		},
		{
			name: "IdempotentSynthesis",
			payload: Payload{
				RootConcept: RootConcept{Label: "Topic"},
				Concepts: []ConceptRecord{
					{ID: "a", Label: "Alpha", Level: 1, ParentID: "root"},
				},
				Relationships: []RelationshipRecord{
					// Explicit edge with the same triple as the synthesized one.
					{SourceID: "root", TargetID: "a", Type: "hierarchy"},
				},
			},
			wantNodes: 2,
			wantEdges: 1,
			check: func(t *testing.T, m *mindmap.Map, r *Report) {
				if r.SynthesizedEdges != 0 {
					t.Errorf("synthesized = %d, want 0", r.SynthesizedEdges)
				}
			},
		},
		{
			name: "TruncatesExamples",
			payload: Payload{
				RootConcept: RootConcept{Label: "Topic"},
				Concepts: []ConceptRecord{
					{ID: "a", Label: "Alpha", Level: 1, Examples: []string{"1", "2", "3", "4", "5", "6", "7"}},
				},
			},
			opts:      Options{IncludeExamples: true},
			wantNodes: 2,
			check: func(t *testing.T, m *mindmap.Map, r *Report) {
				a, _ := m.Node("a")
				if len(a.Examples) != mindmap.MaxExamples {
					t.Errorf("examples = %d, want %d", len(a.Examples), mindmap.MaxExamples)
				}
				if len(r.Warnings) == 0 {
					t.Error("expected truncation warning")
				}
			},
		},
		{
			name: "ClearsUnknownParent",
			payload: Payload{
				RootConcept: RootConcept{Label: "Topic"},
				Concepts: []ConceptRecord{
					{ID: "a", Label: "Alpha", Level: 1, ParentID: "nope"},
				},
			},
			wantNodes: 2,
			wantEdges: 0,
			check: func(t *testing.T, m *mindmap.Map, r *Report) {
				a, _ := m.Node("a")
				if a.ParentID != "" {
					t.Errorf("parentId = %q, want cleared", a.ParentID)
				}
			},
		},
		{
			name: "NodeCap",
			payload: Payload{
				RootConcept: RootConcept{Label: "Topic"},
				Concepts: []ConceptRecord{
					{ID: "a", Label: "Alpha", Level: 1},
					{ID: "b", Label: "Beta", Level: 1},
					{ID: "c", Label: "Gamma", Level: 1},
				},
			},
			opts:      Options{MaxNodes: 3},
			wantNodes: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, report, err := BuildWithReport(tt.payload, tt.opts)

			if tt.wantErr != "" {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want code %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildWithReport: %v", err)
			}

			if got := m.NodeCount(); got != tt.wantNodes {
				t.Errorf("nodes = %d, want %d", got, tt.wantNodes)
			}
			if tt.wantEdges != 0 || tt.name == "ExcludesDanglingRelationships" || tt.name == "ClearsUnknownParent" {
				if got := m.EdgeCount(); got != tt.wantEdges {
					t.Errorf("edges = %d, want %d", got, tt.wantEdges)
				}
			}
			if m.RootCount() != 1 {
				t.Errorf("root count = %d, want exactly 1", m.RootCount())
			}

			if tt.check != nil {
				tt.check(t, m, report)
			}
		})
	}
}

// TestBuildIdempotence verifies that two builds from identical input produce
// identical node and edge sets, independent of record order effects.
func TestBuildIdempotence(t *testing.T) {
	payload := Payload{
		RootConcept: RootConcept{Label: "Biology"},
		Concepts: []ConceptRecord{
			{ID: "cells", Label: "Cells", Level: 1, ParentID: "root"},
			{ID: "dna", Label: "DNA", Level: 2, ParentID: "cells"},
			{ID: "rna", Label: "RNA", Level: 2, ParentID: "cells"},
		},
		Relationships: []RelationshipRecord{
			{SourceID: "dna", TargetID: "rna", Type: "association"},
		},
	}

	ids := func(m *mindmap.Map) ([]string, []string) {
		var nodeIDs, edgeIDs []string
		for _, n := range m.Nodes() {
			nodeIDs = append(nodeIDs, n.ID)
		}
		for _, e := range m.Edges() {
			edgeIDs = append(edgeIDs, e.ID)
		}
		sort.Strings(nodeIDs)
		sort.Strings(edgeIDs)
		return nodeIDs, edgeIDs
	}

	m1, err := Build(payload, Options{})
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	m2, err := Build(payload, Options{})
	if err != nil {
		t.Fatalf("second build: %v", err)
	}

	n1, e1 := ids(m1)
	n2, e2 := ids(m2)
	if len(n1) != len(n2) || len(e1) != len(e2) {
		t.Fatalf("set sizes differ: %d/%d nodes, %d/%d edges", len(n1), len(n2), len(e1), len(e2))
	}
	for i := range n1 {
		if n1[i] != n2[i] {
			t.Errorf("node sets differ at %d: %s vs %s", i, n1[i], n2[i])
		}
	}
	for i := range e1 {
		if e1[i] != e2[i] {
			t.Errorf("edge sets differ at %d: %s vs %s", i, e1[i], e2[i])
		}
	}
}

// TestBuildSynthesizedConnectivity: a build with only parent pointers and no
// relationship records must still come out connected with zero orphans.
func TestBuildSynthesizedConnectivity(t *testing.T) {
	payload := Payload{
		RootConcept: RootConcept{Label: "History"},
		Concepts: []ConceptRecord{
			{ID: "ancient", Label: "Ancient", Level: 1, ParentID: "root"},
			{ID: "medieval", Label: "Medieval", Level: 1, ParentID: "root"},
			{ID: "rome", Label: "Rome", Level: 2, ParentID: "ancient"},
		},
	}

	m, err := Build(payload, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if !m.IsConnected() {
		t.Error("expected connected map")
	}
	if orphans := m.Orphans(); len(orphans) != 0 {
		t.Errorf("orphans = %v, want none", orphans)
	}
}

func TestParsePayload(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantErr   bool
		wantNodes int
	}{
		{
			name:      "Valid",
			input:     `{"rootConcept":{"label":"ML"},"concepts":[{"id":"a","label":"Supervised","level":1}],"relationships":[]}`,
			wantNodes: 1,
		},
		{
			name:  "ToleratesUnknownFields",
			input: `{"rootConcept":{"label":"ML","confidence":0.9},"concepts":[],"unexpected":true}`,
		},
		{
			name:    "Malformed",
			input:   `{"rootConcept":`,
			wantErr: true,
		},
		{
			name:    "NotAnObject",
			input:   `[1,2,3]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePayload([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeInvalidPayload) {
					t.Errorf("code = %v, want INVALID_PAYLOAD", errors.GetCode(err))
				}
				return
			}
			if len(p.Concepts) != tt.wantNodes {
				t.Errorf("concepts = %d, want %d", len(p.Concepts), tt.wantNodes)
			}
		})
	}
}

func TestBuildFallback(t *testing.T) {
	tests := []struct {
		name      string
		topic     string
		points    []string
		wantErr   bool
		wantNodes int
	}{
		{
			name:      "TopicsLinkedToRoot",
			topic:     "Machine Learning",
			points:    []string{"Supervised", "Unsupervised", "Reinforcement"},
			wantNodes: 4,
		},
		{
			name:      "SkipsBlankPoints",
			topic:     "Physics",
			points:    []string{"Optics", "  ", "x"},
			wantNodes: 2,
		},
		{
			name:    "EmptyTopic",
			topic:   "  ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := BuildFallback(tt.topic, tt.points)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}

			if got := m.NodeCount(); got != tt.wantNodes {
				t.Errorf("nodes = %d, want %d", got, tt.wantNodes)
			}
			if !m.IsConnected() {
				t.Error("fallback map must be connected")
			}
			if m.RootCount() != 1 {
				t.Errorf("root count = %d, want 1", m.RootCount())
			}
		})
	}
}
