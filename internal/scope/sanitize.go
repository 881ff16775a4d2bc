package scope

import "strings"

// verbatimEnvs are environments whose bodies are literal text. Anything
// inside them is invisible to scope and reference extraction.
var verbatimEnvs = map[string]bool{
	"verbatim":   true,
	"verbatim*":  true,
	"Verbatim":   true,
	"lstlisting": true,
}

// Sanitize returns a copy of src with non-semantic text blanked out:
// comment text after an unescaped %, inline \verb bodies, and verbatim
// environments (markers included). The result has the same length as
// src, so byte offsets into it remain valid for the original text.
// An escaped \% does not start a comment.
func Sanitize(src string) string {
	out := []byte(src)
	i := 0
	for i < len(src) {
		switch src[i] {
		case '\\':
			if env, end, ok := matchVerbatimBegin(src, i); ok {
				stop := verbatimEnd(src, end, env)
				blank(out, i, stop)
				i = stop
				continue
			}
			if end, ok := matchVerbInline(src, i); ok {
				blank(out, i, end)
				i = end
				continue
			}
			// Escape: the next character is literal (covers \%).
			i += 2
		case '%':
			stop := strings.IndexByte(src[i:], '\n')
			if stop < 0 {
				stop = len(src)
			} else {
				stop += i
			}
			blank(out, i, stop)
			i = stop
		default:
			i++
		}
	}
	return string(out)
}

// blank overwrites out[from:to) with spaces, preserving newlines so
// line structure survives sanitization.
func blank(out []byte, from, to int) {
	for i := from; i < to && i < len(out); i++ {
		if out[i] != '\n' {
			out[i] = ' '
		}
	}
}

// matchVerbatimBegin reports whether src[i:] starts a verbatim
// environment, returning the environment name and the offset just past
// the \begin{...} token.
func matchVerbatimBegin(src string, i int) (string, int, bool) {
	const begin = `\begin{`
	if !strings.HasPrefix(src[i:], begin) {
		return "", 0, false
	}
	rest := src[i+len(begin):]
	close := strings.IndexByte(rest, '}')
	if close < 0 {
		return "", 0, false
	}
	env := rest[:close]
	if !verbatimEnvs[env] {
		return "", 0, false
	}
	return env, i + len(begin) + close + 1, true
}

// verbatimEnd returns the offset just past \end{env}, or len(src) when
// the environment is never closed.
func verbatimEnd(src string, from int, env string) int {
	token := `\end{` + env + `}`
	idx := strings.Index(src[from:], token)
	if idx < 0 {
		return len(src)
	}
	return from + idx + len(token)
}

// matchVerbInline reports whether src[i:] starts an inline \verb (or
// \verb*) span, returning the offset just past the closing delimiter.
// The delimiter is the first character after the command name; the span
// ends at its next occurrence or at end of line.
func matchVerbInline(src string, i int) (int, bool) {
	const verb = `\verb`
	if !strings.HasPrefix(src[i:], verb) {
		return 0, false
	}
	j := i + len(verb)
	if j < len(src) && src[j] == '*' {
		j++
	}
	if j >= len(src) {
		return 0, false
	}
	delim := src[j]
	// A letter here means a longer command name (e.g. \verbose), not \verb.
	if isLetter(delim) {
		return 0, false
	}
	j++
	for j < len(src) && src[j] != delim && src[j] != '\n' {
		j++
	}
	if j < len(src) && src[j] == delim {
		j++
	}
	return j, true
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
