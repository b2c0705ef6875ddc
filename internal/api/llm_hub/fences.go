package llmHub

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"strings"

	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

var fenceRE = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)```")

// StripFences returns the body of the first fenced code block in raw,
// or the trimmed raw text when there is none.
func StripFences(raw string) string {
	if m := fenceRE.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(raw)
}

// ParseJSON strips fences and requires exactly one well-formed JSON value.
// Failures are *types.MalformedModelOutputError carrying the raw text.
func ParseJSON(raw string) (json.RawMessage, error) {
	text := StripFences(raw)

	dec := json.NewDecoder(strings.NewReader(text))
	var v json.RawMessage
	if err := dec.Decode(&v); err != nil {
		return nil, &types.MalformedModelOutputError{Raw: raw, Err: err}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, &types.MalformedModelOutputError{Raw: raw, Err: errors.New("trailing data after JSON value")}
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, v); err != nil {
		return nil, &types.MalformedModelOutputError{Raw: raw, Err: err}
	}
	return buf.Bytes(), nil
}
