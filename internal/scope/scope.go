// Package scope resolves the logical extent of numbered statements in
// LaTeX source. A label's scope is the innermost \begin{env}...\end{env}
// pair that contains it, for the environments owning the label's kind,
// optionally extended through an immediately following proof.
package scope

import "regexp"

// Span is a half-open byte range [Start, End) in the source text
// covering one environment, markers included.
type Span struct {
	// Env is the environment name from the begin/end markers.
	Env string
	// Start is the offset of the \begin token.
	Start int
	// End is the offset just past the \end token.
	End int
}

// Contains reports whether the offset falls inside the span.
func (s Span) Contains(offset int) bool {
	return s.Start <= offset && offset < s.End
}

// envToken matches \begin{name} and \end{name} markers.
var envToken = regexp.MustCompile(`\\(begin|end)\{([^}]+)\}`)

// Resolver holds every balanced environment span found in one source
// buffer. Construct it from sanitized text (see Sanitize) so commented
// or verbatim markers are not picked up.
type Resolver struct {
	src   string
	spans []Span
}

// NewResolver scans sanitized source text and collects all balanced
// environment spans. Same-named environments may nest or interleave
// with other names; begin/end markers are matched per name in LIFO
// order. Unclosed begins yield no span.
func NewResolver(sanitized string) *Resolver {
	r := &Resolver{src: sanitized}

	// One open-marker stack per environment name. A generic "most
	// recent begin" stack would mismatch when a proof embeds a lemma
	// restatement, so matching is keyed by name.
	open := make(map[string][]int)
	for _, m := range envToken.FindAllStringSubmatchIndex(sanitized, -1) {
		kind := sanitized[m[2]:m[3]]
		name := sanitized[m[4]:m[5]]
		if kind == "begin" {
			open[name] = append(open[name], m[0])
			continue
		}
		stack := open[name]
		if len(stack) == 0 {
			continue // stray \end
		}
		start := stack[len(stack)-1]
		open[name] = stack[:len(stack)-1]
		r.spans = append(r.spans, Span{Env: name, Start: start, End: m[1]})
	}

	return r
}

// Resolve returns the tightest span among the owner environments that
// contains the given offset. ok is false when no owner environment
// encloses the offset; callers treat that as "no scope", not an error.
func (r *Resolver) Resolve(offset int, owners []string) (Span, bool) {
	var best Span
	found := false
	for _, span := range r.spans {
		if !span.Contains(offset) || !ownedBy(span.Env, owners) {
			continue
		}
		if !found || span.Start > best.Start {
			best = span
			found = true
		}
	}
	return best, found
}

// ExtendThrough grows the span across trailing marker environments
// (typically "proof") separated from it by whitespace only. A theorem's
// proof references count toward the theorem, and successive trailing
// proofs chain.
func (r *Resolver) ExtendThrough(span Span, markers []string) Span {
	if len(markers) == 0 {
		return span
	}
	for {
		next, ok := r.nextAdjacent(span.End, markers)
		if !ok {
			return span
		}
		span.End = next.End
	}
}

// nextAdjacent finds the marker span starting closest after offset with
// nothing but whitespace in between.
func (r *Resolver) nextAdjacent(offset int, markers []string) (Span, bool) {
	var best Span
	found := false
	for _, span := range r.spans {
		if span.Start < offset || !ownedBy(span.Env, markers) {
			continue
		}
		if !found || span.Start < best.Start {
			best = span
			found = true
		}
	}
	if !found || !isBlank(r.src[offset:best.Start]) {
		return Span{}, false
	}
	return best, true
}

func ownedBy(env string, owners []string) bool {
	for _, o := range owners {
		if env == o {
			return true
		}
	}
	return false
}

func isBlank(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
		default:
			return false
		}
	}
	return true
}
