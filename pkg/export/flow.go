package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/skommel/mindweave/pkg/mindmap"
)

// Flow-notation shape delimiters per node type. Root is a double circle,
// topics are rounded, plain concepts are rectangles.
var flowShapes = map[string][2]string{
	mindmap.NodeRoot:       {"((", "))"},
	mindmap.NodeMainTopic:  {"(", ")"},
	mindmap.NodeSubtopic:   {"([", "])"},
	mindmap.NodeConcept:    {"[", "]"},
	mindmap.NodeExample:    {">", "]"},
	mindmap.NodeDetail:     {"[[", "]]"},
	mindmap.NodeDefinition: {"{{", "}}"},
}

// Flow-notation connectors per edge type.
var flowLinks = map[string]string{
	mindmap.EdgeHierarchy:   "-->",
	mindmap.EdgeAssociation: "---",
	mindmap.EdgeDependency:  "==>",
	mindmap.EdgeExample:     "-.->",
	mindmap.EdgeContrast:    "--x",
}

// ToFlow renders the map as flow-diagram notation: a "graph TD" header, one
// line per node with a type-dependent shape, one line per edge with a
// type-dependent connector. One string template per element, no layout data.
func ToFlow(m *mindmap.Map) string {
	var buf bytes.Buffer
	buf.WriteString("graph TD\n")

	for _, n := range m.Nodes() {
		shape, ok := flowShapes[n.Type]
		if !ok {
			shape = flowShapes[mindmap.NodeConcept]
		}
		fmt.Fprintf(&buf, "    %s%s\"%s\"%s\n", flowID(n.ID), shape[0], flowText(n.Label), shape[1])
	}

	for _, e := range m.Edges() {
		link, ok := flowLinks[e.Type]
		if !ok {
			link = flowLinks[mindmap.EdgeAssociation]
		}
		if label := flowText(e.Label); label != "" {
			fmt.Fprintf(&buf, "    %s %s|%s| %s\n", flowID(e.Source), link, label, flowID(e.Target))
		} else {
			fmt.Fprintf(&buf, "    %s %s %s\n", flowID(e.Source), link, flowID(e.Target))
		}
	}

	return buf.String()
}

// flowID maps an arbitrary node id onto the notation's identifier alphabet.
func flowID(id string) string {
	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}

// flowText strips characters that would break quoted labels or link text.
func flowText(s string) string {
	replacer := strings.NewReplacer(`"`, "'", "|", "/", "\n", " ")
	return strings.TrimSpace(replacer.Replace(s))
}
