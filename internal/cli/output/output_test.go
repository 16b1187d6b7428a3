package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *Table {
	t := &Table{Title: "Accounts", Columns: []string{"name", "balance"}}
	t.Append("Checking", "1200.00")
	t.Append("Savings", "50.00")
	return t
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeAuto, false},
		{"auto", ModeAuto, false},
		{"TEXT", ModeText, false},
		{"md", ModeMarkdown, false},
		{"json", ModeJSON, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderer_AutoIsMarkdownWhenPiped(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, &out, ModeAuto)
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())

	require.NoError(t, r.Render(sampleTable()))
	s := out.String()
	assert.Contains(t, s, "## Accounts")
	assert.Contains(t, s, "| Checking | 1200.00 |")
}

func TestRenderer_Text(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, &out, ModeText)
	require.NoError(t, r.Render(sampleTable()))
	assert.Contains(t, out.String(), "Checking")
	assert.Contains(t, out.String(), "BALANCE")
}

func TestRenderer_JSON(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, &out, ModeJSON)
	require.NoError(t, r.Render(sampleTable()))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Savings", got[1]["name"])
}

func TestRenderer_Empty(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, &out, ModeMarkdown)
	require.NoError(t, r.Render(&Table{Title: "Runs", Columns: []string{"id"}}))
	assert.Contains(t, out.String(), "(0 rows)")
}

func TestRenderer_PlainStylesWhenPiped(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, ModeMarkdown)

	r.Notice("saved %d objects", 3)
	assert.Equal(t, "saved 3 objects\n", errOut.String())
	assert.Equal(t, "ok", r.Status(true))
	assert.Equal(t, "failed", r.Status(false))
}
