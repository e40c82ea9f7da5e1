package viewer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/memoryhunter/hunter/internal/memhunter"
)

// ParseStatus classifies a result's detection payload.
type ParseStatus int

const (
	Empty ParseStatus = iota
	Detected
	Malformed
)

func (s ParseStatus) String() string {
	switch s {
	case Detected:
		return "detected"
	case Malformed:
		return "malformed"
	default:
		return "empty"
	}
}

// ParseResult is the outcome of ParseObjects. Objects is nil unless Status is
// Detected.
type ParseResult struct {
	Objects []memhunter.DetectedObject
	Status  ParseStatus
	Reason  string
}

// Count returns the number of usable detections.
func (p ParseResult) Count() int {
	return len(p.Objects)
}

// ParseObjects interprets the objects field of a search result. The backend
// stores detections as a JSON-encoded string, but a plain array is accepted
// too. Only an undecodable payload is reported as Malformed, never as an
// error. Individual entries are not validated.
func ParseObjects(raw json.RawMessage) ParseResult {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ParseResult{Status: Empty}
	}

	if trimmed[0] == '"' {
		var encoded string
		if err := json.Unmarshal(trimmed, &encoded); err != nil {
			return malformed("decode objects string: %v", err)
		}
		encoded = strings.TrimSpace(encoded)
		if encoded == "" {
			return ParseResult{Status: Empty}
		}
		trimmed = []byte(encoded)
	}

	var objects []memhunter.DetectedObject
	if err := json.Unmarshal(trimmed, &objects); err != nil {
		return malformed("decode objects: %v", err)
	}
	if len(objects) == 0 {
		return ParseResult{Status: Empty}
	}
	// Boxes come straight from the detector. An unlabeled or zero-area entry
	// still gets a tag; render draws no box for it.
	return ParseResult{Objects: objects, Status: Detected}
}

func malformed(format string, args ...any) ParseResult {
	return ParseResult{Status: Malformed, Reason: fmt.Sprintf(format, args...)}
}
