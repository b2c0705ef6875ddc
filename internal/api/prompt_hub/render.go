package promptHub

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

// placeholderRE matches {{ NAME }} and {{ NAME.field.0 }} substitutions.
var placeholderRE = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z0-9_]+)*)\s*\}\}`)

// unsupportedRE finds template syntax outside plain placeholders: filters,
// subscripts, block tags and comments.
var unsupportedRE = regexp.MustCompile(`\{\{|\{%|\{#`)

// Render substitutes every placeholder in body with the matching context value.
// Strings are written verbatim and any other value as compact JSON.
// A placeholder with no value fails the whole render with types.ErrMissingPromptVariable,
// and any other template expression with types.ErrUnsupportedPromptSyntax.
func Render(body string, vars map[string]any) (string, error) {
	rest := placeholderRE.ReplaceAllString(body, "")
	if loc := unsupportedRE.FindStringIndex(rest); loc != nil {
		return "", fmt.Errorf("template expression %q: %w", truncateRunes(rest[loc[0]:], 40), types.ErrUnsupportedPromptSyntax)
	}

	var firstErr error
	out := placeholderRE.ReplaceAllStringFunc(body, func(match string) string {
		if firstErr != nil {
			return match
		}
		path := placeholderRE.FindStringSubmatch(match)[1]
		val, err := lookup(vars, strings.Split(path, "."))
		if err != nil {
			firstErr = fmt.Errorf("%s: %w", path, err)
			return match
		}
		s, err := stringify(val)
		if err != nil {
			firstErr = fmt.Errorf("%s: %w", path, err)
			return match
		}
		return s
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

func lookup(vars map[string]any, path []string) (any, error) {
	cur, ok := vars[path[0]]
	if !ok {
		return nil, types.ErrMissingPromptVariable
	}
	if len(path) == 1 {
		return cur, nil
	}

	// Nested access walks the JSON form of the value.
	generic, err := toGeneric(cur)
	if err != nil {
		return nil, err
	}
	for _, key := range path[1:] {
		switch node := generic.(type) {
		case map[string]any:
			next, found := node[key]
			if !found {
				return nil, types.ErrMissingPromptVariable
			}
			generic = next
		case []any:
			idx, convErr := strconv.Atoi(key)
			if convErr != nil || idx < 0 || idx >= len(node) {
				return nil, types.ErrMissingPromptVariable
			}
			generic = node[idx]
		default:
			return nil, types.ErrMissingPromptVariable
		}
	}
	return generic, nil
}

func toGeneric(v any) (any, error) {
	var raw []byte
	switch t := v.(type) {
	case map[string]any, []any:
		return t, nil
	case json.RawMessage:
		raw = t
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode context value: %w", err)
		}
		raw = b
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode context value: %w", err)
	}
	return out, nil
}

func stringify(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case fmt.Stringer:
		return t.String(), nil
	case json.RawMessage:
		if len(t) == 0 {
			return "null", nil
		}
		var s string
		if json.Unmarshal(t, &s) == nil {
			return s, nil
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, t); err != nil {
			return "", fmt.Errorf("context value is not valid JSON: %w", err)
		}
		return buf.String(), nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encode context value: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
