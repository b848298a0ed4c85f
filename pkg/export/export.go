// Package export renders a finished mind map into plain-text interchange
// formats: a flow-diagram notation, Graphviz DOT, and canonical JSON.
//
// The exporter performs no validation. It renders whatever map it is given,
// valid or not; callers export already-validated maps.
package export

import (
	"github.com/skommel/mindweave/pkg/errors"
	"github.com/skommel/mindweave/pkg/mindmap"
)

// Format identifies one of the supported export notations.
type Format string

const (
	FormatJSON  Format = "json"
	FormatFlow  Format = "flow"
	FormatGraph Format = "dot"
)

// ValidFormats enumerates the supported export formats.
var ValidFormats = map[Format]bool{
	FormatJSON:  true,
	FormatFlow:  true,
	FormatGraph: true,
}

// ValidateFormat checks that a format name is supported.
func ValidateFormat(f Format) error {
	if !ValidFormats[f] {
		return errors.New(errors.ErrCodeInvalidFormat, "unknown export format: %q", f)
	}
	return nil
}

// Formats bundles every rendered notation of a single map.
type Formats struct {
	JSON          string `json:"json"`
	FlowNotation  string `json:"flowNotation"`
	GraphNotation string `json:"graphNotation"`
}

// Export renders all supported notations for the given map. Output is
// deterministic: nodes appear in insertion order, edges in the order they
// were added.
func Export(m *mindmap.Map) (Formats, error) {
	raw, err := mindmap.Marshal(m)
	if err != nil {
		return Formats{}, errors.Wrap(errors.ErrCodeInternal, err, "marshal map")
	}
	return Formats{
		JSON:          string(raw),
		FlowNotation:  ToFlow(m),
		GraphNotation: ToDOT(m, DOTOptions{}),
	}, nil
}

// One renders a single notation selected by format.
func One(m *mindmap.Map, f Format) (string, error) {
	switch f {
	case FormatJSON:
		raw, err := mindmap.Marshal(m)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInternal, err, "marshal map")
		}
		return string(raw), nil
	case FormatFlow:
		return ToFlow(m), nil
	case FormatGraph:
		return ToDOT(m, DOTOptions{}), nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unknown export format: %q", f)
	}
}
