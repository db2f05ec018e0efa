package common

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain object", `{"a": 1}`, `{"a": 1}`},
		{"fenced json block", "```json\n{\"a\": 1}\n```", "{\"a\": 1}"},
		{"plain fence", "```\n{\"a\": 1}\n```", "{\"a\": 1}"},
		{"surrounding prose", `Here you go: {"a": 1} enjoy!`, `{"a": 1}`},
		{"nested braces", `{"a": {"b": 2}}`, `{"a": {"b": 2}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractJSONObjectNoObject(t *testing.T) {
	for _, input := range []string{"", "no braces here", "only open {", "} only close"} {
		_, err := ExtractJSONObject(input)
		assert.Error(t, err, "input: %q", input)
	}
}

func TestParseJSONRejectsTrailingData(t *testing.T) {
	var v map[string]interface{}
	err := ParseJSON(`{"a": 1} {"b": 2}`, &v)
	assert.Error(t, err)
}

func TestParseJSONUsesNumbers(t *testing.T) {
	var v map[string]interface{}
	require.NoError(t, ParseJSON(`{"idx": 3}`, &v))

	// 數字保留為 json.Number，下游可無損轉 int
	n, ok := v["idx"].(json.Number)
	require.True(t, ok)
	i, err := n.Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(3), i)
}
