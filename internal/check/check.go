// Package check compares reference edges against the document's
// numbering and reports order violations.
package check

import (
	"fmt"

	"github.com/texdag/texdag/internal/auxtable"
	"github.com/texdag/texdag/internal/extract"
)

// Violation records an ordinary reference pointing at a statement
// numbered after the referencing one.
type Violation struct {
	Source    string
	Target    string
	SourceNum auxtable.NumberTuple
	TargetNum auxtable.NumberTuple
}

func (v Violation) String() string {
	return fmt.Sprintf("%s (#%s) references %s (#%s)", v.Source, v.SourceNum, v.Target, v.TargetNum)
}

// Check walks the ordinary edges and flags every one whose target is
// numbered strictly after its source. Edges where either endpoint has
// no known number are skipped; numbering gaps are the loader's concern.
// The result follows edge order, no extra sort is imposed.
func Check(edges []extract.Edge, table *auxtable.Table) []Violation {
	var violations []Violation
	for _, e := range edges {
		srcNum, ok := table.Get(e.Source)
		if !ok {
			continue
		}
		dstNum, ok := table.Get(e.Target)
		if !ok {
			continue
		}
		if dstNum.Compare(srcNum) > 0 {
			violations = append(violations, Violation{
				Source:    e.Source,
				Target:    e.Target,
				SourceNum: srcNum,
				TargetNum: dstNum,
			})
		}
	}
	return violations
}
