package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRenderer_UnknownModeFallsBackToAuto(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, Mode("bogus"))

	// A bytes.Buffer is not a terminal, so auto resolves to markdown.
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
}

func TestEffectiveMode_ExplicitModesPassThrough(t *testing.T) {
	var out, errOut bytes.Buffer
	for _, mode := range []Mode{ModeText, ModeMarkdown, ModeJSON} {
		r := NewRenderer(&out, &errOut, mode)
		assert.Equal(t, mode, r.EffectiveMode())
	}
}

func TestHeader_Markdown(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, ModeMarkdown)

	r.Header(1, "Violations")
	r.Header(2, "Details")

	assert.Equal(t, "# Violations\n## Details\n", out.String())
}

func TestHeader_TextUsesStyles(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, ModeText)

	r.Header(1, "Violations")

	// Styles may or may not emit escape codes depending on the color
	// profile; the text itself must always be present.
	assert.Contains(t, out.String(), "Violations")
}

func TestPrintlnAndErrorf_SplitStreams(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, ModeText)

	r.Println("to stdout")
	r.Errorf("to stderr: %d\n", 7)

	assert.Equal(t, "to stdout\n", out.String())
	assert.Equal(t, "to stderr: 7\n", errOut.String())
}

func TestJSON_Indented(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, ModeJSON)

	require.NoError(t, r.JSON(map[string]int{"violations": 2}))

	assert.Equal(t, "{\n  \"violations\": 2\n}\n", out.String())
}

func TestFormatHeader(t *testing.T) {
	assert.Equal(t, "# Top", FormatHeader(1, "Top"))
	assert.Equal(t, "### Deep", FormatHeader(3, "Deep"))
	assert.Equal(t, "# Clamped", FormatHeader(0, "Clamped"))
}
