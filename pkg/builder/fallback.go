package builder

import (
	"fmt"
	"strings"

	"github.com/skommel/mindweave/pkg/errors"
	"github.com/skommel/mindweave/pkg/mindmap"
)

// BuildFallback synthesizes a minimal deterministic map when the concept
// source fails or returns unparsable data: a root plus one main topic per
// entry, each linked to the root.
//
// The result is always structurally valid - connected, single root - though
// it scores low on richness. Callers use it so that an upstream failure never
// leaves the user with nothing.
func BuildFallback(topic string, keyPoints []string) (*mindmap.Map, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, errors.New(errors.ErrCodeEmptyContent, "fallback requires a topic")
	}

	m := mindmap.New()
	m.AddNode(mindmap.Node{
		ID:       RootNodeID,
		Label:    truncateLabel(topic),
		Type:     mindmap.NodeRoot,
		Level:    0,
		Metadata: mindmap.Metadata{Importance: 1, Complexity: defaultComplexity},
	})

	seq := 0
	for _, point := range keyPoints {
		point = strings.TrimSpace(point)
		if len([]rune(point)) < mindmap.MinLabelLen {
			continue
		}
		seq++
		id := fmt.Sprintf("topic-%d", seq)
		m.AddNode(mindmap.Node{
			ID:       id,
			Label:    truncateLabel(point),
			Type:     mindmap.NodeMainTopic,
			Level:    1,
			ParentID: RootNodeID,
			Metadata: mindmap.Metadata{Importance: defaultImportance, Complexity: defaultComplexity},
		})
		m.AddEdge(mindmap.Edge{
			ID:       fmt.Sprintf("h-%s-%s", RootNodeID, id),
			Source:   RootNodeID,
			Target:   id,
			Type:     mindmap.EdgeHierarchy,
			Strength: synthesizedStrength,
		})
	}

	m.RebuildChildren()
	m.RecountConnections()
	return m, nil
}
