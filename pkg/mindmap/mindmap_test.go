package mindmap

import (
	"errors"
	"testing"
)

func TestAddNode(t *testing.T) {
	tests := []struct {
		name    string
		nodes   []Node
		wantErr error
	}{
		{
			name:  "Valid",
			nodes: []Node{{ID: "root", Type: NodeRoot}, {ID: "a", Level: 1}},
		},
		{
			name:    "EmptyID",
			nodes:   []Node{{ID: ""}},
			wantErr: ErrInvalidNodeID,
		},
		{
			name:    "Duplicate",
			nodes:   []Node{{ID: "a"}, {ID: "a"}},
			wantErr: ErrDuplicateNodeID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			var err error
			for _, n := range tt.nodes {
				if e := m.AddNode(n); e != nil {
					err = e
				}
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddEdge(t *testing.T) {
	tests := []struct {
		name    string
		edge    Edge
		wantErr error
	}{
		{name: "Valid", edge: Edge{Source: "a", Target: "b", Type: EdgeAssociation}},
		{name: "UnknownSource", edge: Edge{Source: "x", Target: "b"}, wantErr: ErrUnknownSourceNode},
		{name: "UnknownTarget", edge: Edge{Source: "a", Target: "x"}, wantErr: ErrUnknownTargetNode},
		{name: "SelfLoop", edge: Edge{Source: "a", Target: "a"}, wantErr: ErrSelfLoop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			m.AddNode(Node{ID: "a"})
			m.AddNode(Node{ID: "b"})

			err := m.AddEdge(tt.edge)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestComponents(t *testing.T) {
	tests := []struct {
		name          string
		build         func() *Map
		wantCount     int
		wantConnected bool
		wantOrphans   int
	}{
		{
			name:      "Empty",
			build:     New,
			wantCount: 0,
		},
		{
			name: "SingleChain",
			build: func() *Map {
				m := New()
				m.AddNode(Node{ID: "root", Type: NodeRoot})
				m.AddNode(Node{ID: "a", Level: 1})
				m.AddNode(Node{ID: "b", Level: 2})
				m.AddEdge(Edge{Source: "root", Target: "a", Type: EdgeHierarchy})
				m.AddEdge(Edge{Source: "a", Target: "b", Type: EdgeHierarchy})
				return m
			},
			wantCount:     1,
			wantConnected: true,
		},
		{
			name: "DisconnectedWithOrphan",
			build: func() *Map {
				m := New()
				m.AddNode(Node{ID: "root", Type: NodeRoot})
				m.AddNode(Node{ID: "a", Level: 1})
				m.AddNode(Node{ID: "stray", Level: 1})
				m.AddEdge(Edge{Source: "root", Target: "a", Type: EdgeHierarchy})
				return m
			},
			wantCount:   2,
			wantOrphans: 1,
		},
		{
			name: "UndirectedView",
			build: func() *Map {
				// Edge direction must not affect connectivity.
				m := New()
				m.AddNode(Node{ID: "root", Type: NodeRoot})
				m.AddNode(Node{ID: "a", Level: 1})
				m.AddEdge(Edge{Source: "a", Target: "root", Type: EdgeAssociation})
				return m
			},
			wantCount:     1,
			wantConnected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.build()

			if got := len(m.Components()); got != tt.wantCount {
				t.Errorf("components = %d, want %d", got, tt.wantCount)
			}
			if got := m.IsConnected(); got != tt.wantConnected {
				t.Errorf("connected = %v, want %v", got, tt.wantConnected)
			}
			if got := len(m.Orphans()); got != tt.wantOrphans {
				t.Errorf("orphans = %d, want %d", got, tt.wantOrphans)
			}
		})
	}
}

func TestRebuildChildren(t *testing.T) {
	m := New()
	m.AddNode(Node{ID: "root", Type: NodeRoot})
	m.AddNode(Node{ID: "a", Level: 1, ParentID: "root"})
	m.AddNode(Node{ID: "b", Level: 1, ParentID: "root"})
	m.AddNode(Node{ID: "c", Level: 2, ParentID: "a"})

	m.RebuildChildren()

	root, _ := m.Node("root")
	if len(root.Children) != 2 {
		t.Fatalf("root children = %v, want [a b]", root.Children)
	}
	if root.Children[0] != "a" || root.Children[1] != "b" {
		t.Errorf("root children = %v, want [a b]", root.Children)
	}
	a, _ := m.Node("a")
	if len(a.Children) != 1 || a.Children[0] != "c" {
		t.Errorf("a children = %v, want [c]", a.Children)
	}
}

func TestRecountConnections(t *testing.T) {
	m := New()
	m.AddNode(Node{ID: "root", Type: NodeRoot})
	m.AddNode(Node{ID: "a", Level: 1})
	m.AddNode(Node{ID: "b", Level: 1})
	m.AddEdge(Edge{Source: "root", Target: "a", Type: EdgeHierarchy})
	m.AddEdge(Edge{Source: "root", Target: "b", Type: EdgeHierarchy})
	m.AddEdge(Edge{Source: "a", Target: "b", Type: EdgeAssociation})

	m.RecountConnections()

	wants := map[string]int{"root": 2, "a": 2, "b": 2}
	for id, want := range wants {
		n, _ := m.Node(id)
		if n.Metadata.Connections != want {
			t.Errorf("%s connections = %d, want %d", id, n.Metadata.Connections, want)
		}
	}
}

func TestMaxLevelAndLevels(t *testing.T) {
	m := New()
	m.AddNode(Node{ID: "root", Type: NodeRoot, Level: 0})
	m.AddNode(Node{ID: "a", Level: 2})
	m.AddNode(Node{ID: "b", Level: 2})
	m.AddNode(Node{ID: "c", Level: 3})

	if got := m.MaxLevel(); got != 3 {
		t.Errorf("MaxLevel = %d, want 3", got)
	}
	levels := m.Levels()
	want := []int{0, 2, 3}
	if len(levels) != len(want) {
		t.Fatalf("Levels = %v, want %v", levels, want)
	}
	for i := range want {
		if levels[i] != want[i] {
			t.Errorf("Levels = %v, want %v", levels, want)
			break
		}
	}
}
