package output

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(format string) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return NewRenderer(&out, &errOut, format), &out, &errOut
}

func TestNewRenderer_DefaultsToText(t *testing.T) {
	r, _, _ := newTestRenderer("")
	assert.Equal(t, FormatText, r.Format())
	assert.False(t, r.Structured())
}

func TestRenderer_Text(t *testing.T) {
	r, out, errOut := newTestRenderer(FormatText)

	r.Header("Tables")
	r.Printf("%d rows\n", 2)
	r.Success("done")
	r.Muted("quiet")
	r.Print("raw")
	r.Warning("careful")
	r.Error(errors.New("boom"))

	// Buffers are not terminals, so styles render plain text.
	assert.Equal(t, "Tables\n2 rows\ndone\nquiet\nraw", out.String())
	assert.Equal(t, "Warning: careful\nError: boom\n", errOut.String())
}

func TestRenderer_Encode(t *testing.T) {
	value := map[string]any{"name": "orders", "columns": 3}

	tests := []struct {
		format string
		want   string
	}{
		{FormatJSON, "{\n  \"columns\": 3,\n  \"name\": \"orders\"\n}\n"},
		{FormatYAML, "columns: 3\nname: orders\n"},
		{FormatText, "{\n  \"columns\": 3,\n  \"name\": \"orders\"\n}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			r, out, _ := newTestRenderer(tt.format)
			require.NoError(t, r.Encode(value))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestRenderer_Structured(t *testing.T) {
	for _, f := range []string{FormatJSON, FormatYAML} {
		r, _, _ := newTestRenderer(f)
		assert.True(t, r.Structured(), f)
	}
}

func TestRenderer_Table(t *testing.T) {
	r, out, _ := newTestRenderer(FormatText)

	r.Table([]string{"Name", "Columns"}, [][]string{
		{"customers", "3"},
		{"orders", "3"},
	})

	got := out.String()
	assert.Contains(t, got, "NAME")
	assert.Contains(t, got, "customers")
	assert.Contains(t, got, "orders")
	assert.Contains(t, got, "┌")
}

func TestFormatKeyValue(t *testing.T) {
	assert.Equal(t, "tables: 3", FormatKeyValue(NewStyles(false), "tables", 3))
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}
