package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeArgs(t *testing.T) {
	tests := []struct {
		args []string
		want argSummary
	}{
		{[]string{"--ingredient", "tomate", "options"}, argSummary{command: "options"}},
		{[]string{"-u", "couteau", "tags"}, argSummary{command: "tags"}},
		{[]string{"-q", "tui", "coco"}, argSummary{command: "coco"}},
		{[]string{"--source=./r.json", "tui"}, argSummary{command: "tui"}},
		{[]string{"--json", "--", "tags", "--help"}, argSummary{json: true}},
		{[]string{"tags", "-h"}, argSummary{command: "tags", help: true}},
		{[]string{"--watch", "tui"}, argSummary{command: "tui"}},
		{nil, argSummary{empty: true}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, summarizeArgs(tt.args), "%q", tt.args)
	}
}

func TestArgSummary_AutoJSON(t *testing.T) {
	assert.True(t, summarizeArgs([]string{"coco"}).autoJSON(false))
	assert.True(t, summarizeArgs([]string{"options", "ingredients"}).autoJSON(false))
	assert.False(t, summarizeArgs([]string{"coco", "--json"}).autoJSON(false))
	assert.False(t, summarizeArgs([]string{"completion", "zsh"}).autoJSON(false))
	assert.False(t, summarizeArgs([]string{"help", "tags"}).autoJSON(false))
	assert.False(t, summarizeArgs([]string{"--help"}).autoJSON(false))
	assert.False(t, summarizeArgs([]string{"coco"}).autoJSON(true))
	assert.False(t, summarizeArgs(nil).autoJSON(false))
}

func TestPrintQuickStart_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printQuickStart(&buf, true))

	var payload quickStartJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload))

	assert.Equal(t, "plats", payload.Name)
	assert.NotEmpty(t, payload.Usage)
	assert.Len(t, payload.Examples, 3)
	assert.Contains(t, payload.Flags, "--ingredient")
}

func TestPrintQuickStart_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printQuickStart(&buf, false))

	out := buf.String()
	assert.Contains(t, out, "usage: plats")
	assert.Contains(t, out, "  plats coco --limit 5\n")
	assert.Contains(t, out, "flags: --query --ingredient")
}
