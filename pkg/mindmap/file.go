package mindmap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// =============================================================================
// Map Serialization API
// =============================================================================

// File is the canonical serialization format for concept maps.
// Used for CLI output, caching, and as the exporter's JSON form.
//
// The format is designed for round-trip fidelity: build → layout → export →
// re-import preserves the node and edge sets.
type File struct {
	Nodes    []Node `json:"nodes"`
	Edges    []Edge `json:"edges"`
	Metadata Info   `json:"metadata"`
}

// Info carries derived map-level metadata.
type Info struct {
	TotalNodes  int       `json:"totalNodes"`
	TotalEdges  int       `json:"totalEdges"`
	MaxDepth    int       `json:"maxDepth"`
	RootID      string    `json:"rootId,omitempty"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Snapshot converts a Map to its serialization format.
// Nodes and edges keep insertion order for deterministic output.
func Snapshot(m *Map) File {
	f := File{
		Nodes: make([]Node, 0, m.NodeCount()),
		Edges: m.Edges(),
		Metadata: Info{
			TotalNodes:  m.NodeCount(),
			TotalEdges:  m.EdgeCount(),
			MaxDepth:    m.MaxLevel(),
			GeneratedAt: time.Now().UTC(),
		},
	}
	for _, n := range m.Nodes() {
		f.Nodes = append(f.Nodes, *n)
	}
	if root := m.Root(); root != nil {
		f.Metadata.RootID = root.ID
	}
	return f
}

// Restore converts a File back to a Map.
// Returns an error if the structure violates map constraints (duplicate IDs,
// dangling edge endpoints, self-loops).
func Restore(f File) (*Map, error) {
	m := New()
	for _, n := range f.Nodes {
		if err := m.AddNode(n); err != nil {
			return nil, fmt.Errorf("add node %s: %w", n.ID, err)
		}
	}
	for _, e := range f.Edges {
		if err := m.AddEdge(e); err != nil {
			return nil, fmt.Errorf("add edge %s→%s: %w", e.Source, e.Target, err)
		}
	}
	return m, nil
}

// Marshal converts a Map to indented JSON bytes.
func Marshal(m *Map) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(m, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes JSON bytes into a Map.
func Unmarshal(data []byte) (*Map, error) {
	return Read(bytes.NewReader(data))
}

// Write encodes a Map as JSON to w.
func Write(m *Map, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Snapshot(m)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Read decodes a JSON map from r.
func Read(r io.Reader) (*Map, error) {
	var f File
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return Restore(f)
}

// WriteFile writes a Map to a JSON file with 0644 permissions.
func WriteFile(m *Map, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(m, f)
}

// ReadFile reads a JSON file and returns the decoded Map.
func ReadFile(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
