package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		RefMacros:     []string{`\reflem`, `\refdef`, `\refthm`, `\ref`},
		ForwardMacros: []string{`\fref`},
		Environments: map[string][]string{
			"thm": {"thm"},
			"lem": {"lem"},
			"def": {"defn"},
			"cor": {"cor"},
		},
		TrailingMarkers: []string{"proof"},
	}
}

// pairs flattens edges for containment checks.
func pairs(edges []Edge) [][2]string {
	out := make([][2]string, len(edges))
	for i, e := range edges {
		out[i] = [2]string{e.Source, e.Target}
	}
	return out
}

func TestFile_ReferenceInsideEnvironment(t *testing.T) {
	src := `
\begin{thm}
\label{thm:stuff}
Foo
\end{thm}
\begin{proof}
Use \reflem{lem:zorn}.
\end{proof}

A generalization of \refdef{def:category} yields
\begin{defn}
\label{def:twocat}
See also \refthm{thm:stuff}.
\end{defn}
`
	res := New(testConfig()).File("doc.tex", src)

	got := pairs(res.Edges)
	assert.Contains(t, got, [2]string{"def:twocat", "thm:stuff"})
	assert.Contains(t, got, [2]string{"thm:stuff", "lem:zorn"},
		"the trailing proof counts toward the theorem")
	assert.NotContains(t, got, [2]string{"thm:stuff", "def:category"},
		"a reference outside every scope contributes nothing")
}

func TestFile_CorollaryProofScanned(t *testing.T) {
	src := `
\begin{cor}
\label{cor:quick}
text
\end{cor}
\begin{proof}
See \reflem{lem:foo}.
\end{proof}
`
	res := New(testConfig()).File("doc.tex", src)
	assert.Contains(t, pairs(res.Edges), [2]string{"cor:quick", "lem:foo"})
}

func TestFile_SelfReferenceProducesNoEdge(t *testing.T) {
	src := `\begin{lem}\label{lem:self} by \reflem{lem:self}\end{lem}`
	res := New(testConfig()).File("doc.tex", src)

	assert.Empty(t, res.Edges)
	assert.Empty(t, res.Forward)
}

func TestFile_ForwardReferences(t *testing.T) {
	src := `\begin{defn}\label{def:early} anticipates \fref{def:late}\end{defn}`
	res := New(testConfig()).File("doc.tex", src)

	assert.Empty(t, res.Edges)
	require.Len(t, res.Forward, 1)
	assert.Equal(t, "def:early", res.Forward[0].Source)
	assert.Equal(t, "def:late", res.Forward[0].Target)
}

func TestFile_ExcludedPrefixes(t *testing.T) {
	cfg := testConfig()
	cfg.ExcludedPrefixes = []string{"eq", "rem"}
	cfg.Environments["rem"] = []string{"rem"}

	src := `
\begin{thm}\label{thm:a} see \ref{eq:euler} and \reflem{lem:b}\end{thm}
\begin{rem}\label{rem:aside} see \reflem{lem:b}\end{rem}
`
	res := New(cfg).File("doc.tex", src)

	got := pairs(res.Edges)
	assert.Contains(t, got, [2]string{"thm:a", "lem:b"})
	for _, p := range got {
		assert.NotEqual(t, "eq:euler", p[1], "excluded target prefix dropped")
		assert.NotEqual(t, "rem:aside", p[0], "excluded source label skipped entirely")
	}
}

func TestFile_CommentedReferenceIgnored(t *testing.T) {
	src := "\\begin{thm}\\label{thm:a}\nreal content % also \\reflem{lem:ghost}\n\\end{thm}"
	res := New(testConfig()).File("doc.tex", src)

	assert.Empty(t, res.Edges, "a reference after an unescaped %% is invisible")
}

func TestFile_DuplicateOccurrencesCollapse(t *testing.T) {
	src := `\begin{thm}\label{thm:a} \reflem{lem:b} and again \reflem{lem:b}\end{thm}`
	res := New(testConfig()).File("doc.tex", src)

	require.Len(t, res.Edges, 1, "one logical edge per (source, target) pair")
	assert.Len(t, res.Edges[0].Positions, 2, "both occurrences retained for diagnostics")
	assert.Less(t, res.Edges[0].Positions[0], res.Edges[0].Positions[1])
}

func TestFile_UnresolvedLabelReported(t *testing.T) {
	src := `\label{thm:floating} \reflem{lem:b}`
	res := New(testConfig()).File("doc.tex", src)

	assert.Empty(t, res.Edges)
	require.Len(t, res.Unresolved, 1)
	assert.Equal(t, "thm:floating", res.Unresolved[0].Label)
	assert.Equal(t, "doc.tex", res.Unresolved[0].File)
}

func TestFile_UnknownPrefixHasNoOwners(t *testing.T) {
	src := `\begin{thm}\label{conj:open} \reflem{lem:b}\end{thm}`
	res := New(testConfig()).File("doc.tex", src)

	assert.Empty(t, res.Edges, "a prefix with no owning environments produces zero edges")
	require.Len(t, res.Unresolved, 1)
}

func TestFile_RefDoesNotMatchLongerMacro(t *testing.T) {
	cfg := testConfig()
	cfg.RefMacros = []string{`\ref`}

	src := `\begin{thm}\label{thm:a} \reflem{lem:b} \ref{lem:c}\end{thm}`
	res := New(cfg).File("doc.tex", src)

	require.Len(t, res.Edges, 1)
	assert.Equal(t, "lem:c", res.Edges[0].Target, `\ref must not match \reflem`)
}

func TestFile_EmptyMacroLists(t *testing.T) {
	cfg := testConfig()
	cfg.RefMacros = nil
	cfg.ForwardMacros = nil

	src := `\begin{thm}\label{thm:a} \reflem{lem:b}\end{thm}`
	res := New(cfg).File("doc.tex", src)

	assert.Empty(t, res.Edges)
	assert.Empty(t, res.Forward)
}

func TestFile_EdgeOrderFollowsDocumentOrder(t *testing.T) {
	src := `
\begin{thm}\label{thm:one} \reflem{lem:x} then \refdef{def:y}\end{thm}
\begin{lem}\label{lem:two} \refthm{thm:one}\end{lem}
`
	res := New(testConfig()).File("doc.tex", src)

	require.Len(t, res.Edges, 3)
	assert.Equal(t, "lem:x", res.Edges[0].Target)
	assert.Equal(t, "def:y", res.Edges[1].Target)
	assert.Equal(t, "thm:one", res.Edges[2].Target)
}

func TestLabelPrefix(t *testing.T) {
	assert.Equal(t, "lem", labelPrefix("lem:zorn"))
	assert.Equal(t, "lem", labelPrefix("lem:with:colons"))
	assert.Equal(t, "orphan", labelPrefix("orphan"))
}
