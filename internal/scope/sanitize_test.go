package scope

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize_CommentBlanked(t *testing.T) {
	src := "real text % a comment with \\reflem{lem:ghost}\nnext line"
	out := Sanitize(src)

	assert.Len(t, out, len(src), "sanitized text keeps its length")
	assert.NotContains(t, out, "lem:ghost")
	assert.Contains(t, out, "real text ")
	assert.Contains(t, out, "next line")
}

func TestSanitize_EscapedPercentIsLiteral(t *testing.T) {
	src := `a 50\% discount \reflem{lem:real}`
	out := Sanitize(src)

	assert.Contains(t, out, "lem:real", `\% does not start a comment`)
}

func TestSanitize_EscapedBackslashThenPercent(t *testing.T) {
	// \\ ends a line; the following % is unescaped and starts a comment.
	src := "row \\\\% trailing \\ref{thm:gone}\n"
	out := Sanitize(src)

	assert.NotContains(t, out, "thm:gone")
}

func TestSanitize_VerbatimEnvironmentBlanked(t *testing.T) {
	src := "before\n\\begin{verbatim}\n\\label{lem:fake} \\begin{thm}\n\\end{verbatim}\nafter"
	out := Sanitize(src)

	assert.NotContains(t, out, "lem:fake")
	assert.NotContains(t, out, `\begin{thm}`)
	assert.Contains(t, out, "before")
	assert.Contains(t, out, "after")
	assert.Equal(t, strings.Count(src, "\n"), strings.Count(out, "\n"), "newlines survive blanking")
}

func TestSanitize_UnclosedVerbatimRunsToEnd(t *testing.T) {
	src := "x\n\\begin{verbatim}\n\\ref{lem:fake}"
	out := Sanitize(src)

	assert.NotContains(t, out, "lem:fake")
	assert.Len(t, out, len(src))
}

func TestSanitize_InlineVerb(t *testing.T) {
	src := `use \verb|\reflem{lem:fake}| here, then \reflem{lem:real}`
	out := Sanitize(src)

	assert.NotContains(t, out, "lem:fake")
	assert.Contains(t, out, "lem:real")
}

func TestSanitize_VerbDoesNotMatchLongerCommands(t *testing.T) {
	src := `\verbatimfont{x} \reflem{lem:real}`
	out := Sanitize(src)

	assert.Contains(t, out, "lem:real")
}

func TestSanitize_PercentInsideVerbatimIsLiteral(t *testing.T) {
	src := "\\begin{verbatim}\n100%\n\\end{verbatim}\n\\reflem{lem:real}"
	out := Sanitize(src)

	assert.Contains(t, out, "lem:real", "a % inside verbatim must not comment out following lines")
}
