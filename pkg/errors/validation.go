package errors

import (
	"strings"
	"unicode"
)

// nodeIDMaxLen bounds identifiers coming from the untrusted concept payload.
const nodeIDMaxLen = 256

// ValidateNodeID validates a node identifier from an external payload.
// It rejects IDs that could break downstream notations or file-based caches.
//
// The validation rules are intentionally conservative:
//   - No empty IDs
//   - No control characters or null bytes
//   - No quotes or backslashes (would require escaping in DOT/mermaid output)
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidPayload, "node ID cannot be empty")
	}

	if len(id) > nodeIDMaxLen {
		return New(ErrCodeInvalidPayload, "node ID too long (max %d characters)", nodeIDMaxLen)
	}

	for _, r := range id {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPayload, "node ID contains invalid control characters")
		}
	}

	if strings.ContainsAny(id, `"\`) {
		return New(ErrCodeInvalidPayload, "node ID contains invalid characters")
	}

	return nil
}

// ValidateLabel validates a display label from an external payload.
// Length clamping happens in the builder; this only rejects labels that are
// unusable altogether.
func ValidateLabel(label string) error {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return New(ErrCodeInvalidPayload, "label cannot be empty")
	}
	for _, r := range trimmed {
		if r == '\x00' {
			return New(ErrCodeInvalidPayload, "label contains null bytes")
		}
	}
	return nil
}
