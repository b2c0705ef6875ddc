package llmHub

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"json tagged fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"untagged fence", "```\n[1, 2]\n```", "[1, 2]"},
		{"uppercase tag", "```JSON {\"b\": true} ```", `{"b": true}`},
		{"prose around fence", "Here you go:\n```json\n{\"x\":\"y\"}\n```\nEnjoy!", `{"x":"y"}`},
		{"first of two fences", "```json\n{\"first\":1}\n```\n```json\n{\"second\":2}\n```", `{"first":1}`},
		{"no fence is trimmed verbatim", "  \n{\"a\": 1}\t\n", `{"a": 1}`},
		{"unterminated fence left alone", "```json {\"a\":1}", "```json {\"a\":1}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.raw))
		})
	}
}

func TestParseJSON(t *testing.T) {
	t.Run("fenced object", func(t *testing.T) {
		out, err := ParseJSON("```json\n{\"a\":1}\n```")
		require.NoError(t, err)
		assert.JSONEq(t, `{"a": 1}`, string(out))
	})

	t.Run("bare array", func(t *testing.T) {
		out, err := ParseJSON(` [ {"k": "v"} ] `)
		require.NoError(t, err)
		assert.Equal(t, `[{"k":"v"}]`, string(out))
	})

	for name, raw := range map[string]string{
		"prose":          "Sure! Here is the plan you asked for.",
		"empty":          "   ",
		"truncated":      "```json\n{\"a\": [1, 2\n```",
		"trailing brace": `{"a":1}}`,
		"two values":     `{"a":1} {"b":2}`,
	} {
		t.Run("rejects "+name, func(t *testing.T) {
			out, err := ParseJSON(raw)
			require.Error(t, err)
			assert.Nil(t, out)
			assert.ErrorIs(t, err, types.ErrMalformedModelOutput)

			var malformed *types.MalformedModelOutputError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, raw, malformed.Raw)
		})
	}
}

func TestKeyPool(t *testing.T) {
	t.Run("empty pool", func(t *testing.T) {
		_, err := NewKeyPool([]string{}, func(k string) (string, error) { return k, nil })
		assert.Error(t, err)
	})

	t.Run("every key reachable", func(t *testing.T) {
		pool, err := NewKeyPool([]string{"a", "b", "c"}, func(k string) (string, error) { return "client-" + k, nil })
		require.NoError(t, err)
		assert.Equal(t, 3, pool.Len())

		seen := map[string]bool{}
		for i := 0; i < 500; i++ {
			seen[pool.Pick()] = true
		}
		assert.Len(t, seen, 3)
	})

	t.Run("build error", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := NewKeyPool([]string{"a"}, func(string) (int, error) { return 0, boom })
		assert.ErrorIs(t, err, boom)
	})
}

func BenchmarkParseJSON(b *testing.B) {
	raw := "Here you go:\n```JSON\n{\"plan_options\":[{\"title\":\"Coorg\",\"days\":3},{\"title\":\"Mysore\",\"days\":1}]}\n```\n"
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := ParseJSON(raw); err != nil {
			b.Fatal(err)
		}
	}
}
