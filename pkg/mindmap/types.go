package mindmap

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Node types forming a closed enumeration. The type controls default styling
// and which validation rules apply to the node.
const (
	NodeRoot       = "root"
	NodeMainTopic  = "main-topic"
	NodeSubtopic   = "subtopic"
	NodeConcept    = "concept"
	NodeExample    = "example"
	NodeDetail     = "detail"
	NodeDefinition = "definition"
)

// ValidNodeTypes is the set of recognized node types.
var ValidNodeTypes = map[string]bool{
	NodeRoot:       true,
	NodeMainTopic:  true,
	NodeSubtopic:   true,
	NodeConcept:    true,
	NodeExample:    true,
	NodeDetail:     true,
	NodeDefinition: true,
}

// Edge types.
const (
	EdgeHierarchy   = "hierarchy"
	EdgeAssociation = "association"
	EdgeDependency  = "dependency"
	EdgeExample     = "example"
	EdgeContrast    = "contrast"
)

// ValidEdgeTypes is the set of recognized edge types.
var ValidEdgeTypes = map[string]bool{
	EdgeHierarchy:   true,
	EdgeAssociation: true,
	EdgeDependency:  true,
	EdgeExample:     true,
	EdgeContrast:    true,
}

// Label length bounds applied after trimming.
const (
	MinLabelLen = 2
	MaxLabelLen = 100
)

// MaxExamples is the soft cap on examples per node. The builder truncates
// beyond this and records a warning-level suggestion.
const MaxExamples = 5

// =============================================================================
// Geometry
// =============================================================================

// Position is a 2-D canvas coordinate. Populated only after layout runs.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a node's rendered width and height in canvas units.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// =============================================================================
// Node
// =============================================================================

// Metadata holds per-node scores and derived counts.
//
// Importance and Complexity are normalized to [0,1]. Connections is a cached
// count of incident edges, recomputed whenever the edge set changes.
type Metadata struct {
	Importance  float64 `json:"importance"`
	Complexity  float64 `json:"complexity"`
	Connections int     `json:"connections"`
}

// Node is a single concept in the map.
//
// Children is a derived view recomputed from parent pointers and hierarchy
// edges - it is never an independent source of truth. Position and Size are
// nil until the layout engine runs.
type Node struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Type        string    `json:"type"`
	Level       int       `json:"level"`
	ParentID    string    `json:"parentId,omitempty"`
	Children    []string  `json:"children"`
	Description string    `json:"description,omitempty"`
	Examples    []string  `json:"examples,omitempty"`
	Category    string    `json:"category,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Position    *Position `json:"position,omitempty"`
	Size        *Size     `json:"size,omitempty"`
	Metadata    Metadata  `json:"metadata"`
}

// IsRoot reports whether the node is the map's root.
func (n *Node) IsRoot() bool { return n.Type == NodeRoot }

// Positioned reports whether the layout engine has assigned coordinates.
func (n *Node) Positioned() bool { return n.Position != nil && n.Size != nil }

// =============================================================================
// Edge
// =============================================================================

// Edge is a typed, directed relationship between two node IDs.
// Bidirectional edges are still stored with a single source/target pair;
// the flag only affects rendering.
type Edge struct {
	ID            string  `json:"id"`
	Source        string  `json:"source"`
	Target        string  `json:"target"`
	Type          string  `json:"type"`
	Label         string  `json:"label,omitempty"`
	Strength      float64 `json:"strength"`
	Bidirectional bool    `json:"bidirectional,omitempty"`
}

// Key returns the (source,target,type) triple used for duplicate detection
// during hierarchy-edge synthesis.
func (e *Edge) Key() EdgeKey {
	return EdgeKey{Source: e.Source, Target: e.Target, Type: e.Type}
}

// EdgeKey identifies an edge by endpoints and type, ignoring its ID.
type EdgeKey struct {
	Source string
	Target string
	Type   string
}
