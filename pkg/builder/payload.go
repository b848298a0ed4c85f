package builder

import (
	"encoding/json"

	"github.com/skommel/mindweave/pkg/errors"
)

// =============================================================================
// Untrusted Input Boundary
// =============================================================================

// Payload mirrors the concept-source output contract. The source is a
// generative model and is not trusted to produce well-formed data: every
// field beyond IDs and labels is optional and may be missing, out of range,
// or reference nonexistent nodes. The builder defaults and clamps everything.
type Payload struct {
	RootConcept   RootConcept          `json:"rootConcept"`
	Concepts      []ConceptRecord      `json:"concepts"`
	Relationships []RelationshipRecord `json:"relationships"`
}

// RootConcept is the single top-level concept of a payload.
type RootConcept struct {
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// ConceptRecord is one raw concept candidate.
// Importance and Complexity are pointers so that absent values can be
// distinguished from an explicit zero.
type ConceptRecord struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Type        string   `json:"type,omitempty"`
	Level       int      `json:"level,omitempty"`
	ParentID    string   `json:"parentId,omitempty"`
	Description string   `json:"description,omitempty"`
	Examples    []string `json:"examples,omitempty"`
	Importance  *float64 `json:"importance,omitempty"`
	Complexity  *float64 `json:"complexity,omitempty"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// RelationshipRecord is one raw relationship candidate.
type RelationshipRecord struct {
	SourceID      string   `json:"sourceId"`
	TargetID      string   `json:"targetId"`
	Type          string   `json:"type,omitempty"`
	Label         string   `json:"label,omitempty"`
	Strength      *float64 `json:"strength,omitempty"`
	Bidirectional bool     `json:"bidirectional,omitempty"`
}

// ParsePayload decodes raw concept-source output.
// This is the only place external bytes become typed records - call sites
// never touch the raw shape.
func ParsePayload(data []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, errors.Wrap(errors.ErrCodeInvalidPayload, err, "decode concept payload")
	}
	return p, nil
}

// Empty reports whether the payload carries nothing buildable.
func (p Payload) Empty() bool {
	return p.RootConcept.Label == "" && len(p.Concepts) == 0
}
