package mindmap

import (
	"errors"
	"slices"
	"sort"
)

var (
	// ErrInvalidNodeID is returned by [Map.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Map.AddNode] when a node with the
	// same ID already exists. Node IDs must be unique within a map.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Map.AddEdge] when the source node
	// does not exist in the map.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Map.AddEdge] when the target node
	// does not exist in the map.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrSelfLoop is returned by [Map.AddEdge] when source and target are the
	// same node.
	ErrSelfLoop = errors.New("edge must not be a self-loop")
)

// Map is the in-memory concept graph: a flat node index plus a typed edge
// list, with derived adjacency views. Child lists and connection counts are
// recomputed from the edge set, never maintained independently.
//
// The zero value is not usable - use New. Map is not safe for concurrent
// mutation without external synchronization; each generation request builds
// its own instance.
type Map struct {
	nodes    map[string]*Node
	order    []string // insertion order of node IDs
	edges    []Edge
	outgoing map[string][]string // nodeID -> target IDs
	incoming map[string][]string // nodeID -> source IDs
}

// New creates an empty map.
func New() *Map {
	return &Map{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode adds a node to the map.
// Returns ErrInvalidNodeID for an empty ID or ErrDuplicateNodeID when the ID
// is already taken.
func (m *Map) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := m.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	node := &n
	m.nodes[node.ID] = node
	m.order = append(m.order, node.ID)
	return nil
}

// AddEdge adds a directed edge between two existing nodes.
// Returns ErrUnknownSourceNode / ErrUnknownTargetNode for dangling endpoints
// and ErrSelfLoop when source equals target.
func (m *Map) AddEdge(e Edge) error {
	if _, ok := m.nodes[e.Source]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := m.nodes[e.Target]; !ok {
		return ErrUnknownTargetNode
	}
	if e.Source == e.Target {
		return ErrSelfLoop
	}
	m.edges = append(m.edges, e)
	m.outgoing[e.Source] = append(m.outgoing[e.Source], e.Target)
	m.incoming[e.Target] = append(m.incoming[e.Target], e.Source)
	return nil
}

// Node returns the node with the given ID and true, or nil and false.
// The pointer refers to the actual node, so modifications affect the map.
func (m *Map) Node(id string) (*Node, bool) {
	n, ok := m.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
// The slice contains pointers to the actual node structs.
func (m *Map) Nodes() []*Node {
	nodes := make([]*Node, 0, len(m.order))
	for _, id := range m.order {
		nodes = append(nodes, m.nodes[id])
	}
	return nodes
}

// Edges returns a copy of all edges in insertion order.
func (m *Map) Edges() []Edge { return slices.Clone(m.edges) }

// NodeCount returns the number of nodes.
func (m *Map) NodeCount() int { return len(m.nodes) }

// EdgeCount returns the number of edges.
func (m *Map) EdgeCount() int { return len(m.edges) }

// HasEdge reports whether an edge with the exact (source,target,type) triple
// already exists. Used for idempotent hierarchy-edge synthesis.
func (m *Map) HasEdge(source, target, edgeType string) bool {
	for _, e := range m.edges {
		if e.Source == source && e.Target == target && e.Type == edgeType {
			return true
		}
	}
	return false
}

// OutDegree returns the number of outgoing edges from the node.
func (m *Map) OutDegree(id string) int { return len(m.outgoing[id]) }

// Degree returns the number of incident edges (in plus out).
func (m *Map) Degree(id string) int { return len(m.outgoing[id]) + len(m.incoming[id]) }

// Root returns the first node with type "root", or nil if none exists.
func (m *Map) Root() *Node {
	for _, id := range m.order {
		if m.nodes[id].IsRoot() {
			return m.nodes[id]
		}
	}
	return nil
}

// RootCount returns the number of nodes typed as root.
func (m *Map) RootCount() int {
	count := 0
	for _, n := range m.nodes {
		if n.IsRoot() {
			count++
		}
	}
	return count
}

// NodesAtLevel returns all nodes at the given depth, in insertion order.
func (m *Map) NodesAtLevel(level int) []*Node {
	var out []*Node
	for _, id := range m.order {
		if m.nodes[id].Level == level {
			out = append(out, m.nodes[id])
		}
	}
	return out
}

// MaxLevel returns the deepest level present, or 0 for an empty map.
func (m *Map) MaxLevel() int {
	max := 0
	for _, n := range m.nodes {
		if n.Level > max {
			max = n.Level
		}
	}
	return max
}

// Levels returns the distinct levels present in ascending order.
func (m *Map) Levels() []int {
	seen := make(map[int]bool)
	for _, n := range m.nodes {
		seen[n.Level] = true
	}
	levels := make([]int, 0, len(seen))
	for l := range seen {
		levels = append(levels, l)
	}
	sort.Ints(levels)
	return levels
}

// =============================================================================
// Derived Views
// =============================================================================

// RebuildChildren recomputes every node's Children list from parent pointers.
// Children are ordered by insertion order of the child nodes.
func (m *Map) RebuildChildren() {
	for _, n := range m.nodes {
		n.Children = nil
	}
	for _, id := range m.order {
		n := m.nodes[id]
		if n.ParentID == "" {
			continue
		}
		if parent, ok := m.nodes[n.ParentID]; ok {
			parent.Children = append(parent.Children, n.ID)
		}
	}
}

// RecountConnections recomputes every node's cached connection count as the
// number of edges where the node is source or target.
func (m *Map) RecountConnections() {
	for _, n := range m.nodes {
		n.Metadata.Connections = 0
	}
	for _, e := range m.edges {
		if src, ok := m.nodes[e.Source]; ok {
			src.Metadata.Connections++
		}
		if dst, ok := m.nodes[e.Target]; ok {
			dst.Metadata.Connections++
		}
	}
}

// =============================================================================
// Connectivity
// =============================================================================

// Components enumerates connected components over an undirected view of the
// edges. Each component is a slice of node IDs; component and member order
// follow insertion order. Runs in O(N+E) using depth-first traversal.
func (m *Map) Components() [][]string {
	visited := make(map[string]bool, len(m.nodes))
	var components [][]string

	var dfs func(id string, comp *[]string)
	dfs = func(id string, comp *[]string) {
		visited[id] = true
		*comp = append(*comp, id)
		for _, next := range m.outgoing[id] {
			if !visited[next] {
				dfs(next, comp)
			}
		}
		for _, next := range m.incoming[id] {
			if !visited[next] {
				dfs(next, comp)
			}
		}
	}

	for _, id := range m.order {
		if !visited[id] {
			var comp []string
			dfs(id, &comp)
			components = append(components, comp)
		}
	}
	return components
}

// IsConnected reports whether the map forms exactly one connected component.
// An empty map is not connected.
func (m *Map) IsConnected() bool {
	return len(m.Components()) == 1
}

// Orphans returns the IDs of nodes with zero incident edges, in insertion
// order.
func (m *Map) Orphans() []string {
	var orphans []string
	for _, id := range m.order {
		if m.Degree(id) == 0 {
			orphans = append(orphans, id)
		}
	}
	return orphans
}
