// Package auxtable loads the numbering table produced by a LaTeX run.
// It maps statement labels (\newlabel entries in the .aux file) to their
// hierarchical numbers, e.g. "lem:zorn" -> (1, 5).
package auxtable

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// NumberTuple is a hierarchical statement number (section.subsection.item).
// Comparison is lexicographic: (1,5) < (1,6) < (2,).
type NumberTuple []int

// Compare returns -1, 0 or 1 comparing t to other lexicographically.
// A strict prefix sorts before its extensions: (1) < (1,1).
func (t NumberTuple) Compare(other NumberTuple) int {
	n := len(t)
	if len(other) < n {
		n = len(other)
	}
	for i := 0; i < n; i++ {
		switch {
		case t[i] < other[i]:
			return -1
		case t[i] > other[i]:
			return 1
		}
	}
	switch {
	case len(t) < len(other):
		return -1
	case len(t) > len(other):
		return 1
	}
	return 0
}

// String renders the tuple in dotted form, e.g. "1.5.2".
func (t NumberTuple) String() string {
	parts := make([]string, len(t))
	for i, n := range t {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// Table maps labels to their number tuples. It remembers the order in
// which labels were first seen, which downstream consumers use as a
// deterministic tie-break.
type Table struct {
	nums   map[string]NumberTuple
	labels []string
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{nums: make(map[string]NumberTuple)}
}

// Set records a label's number. First insertion fixes the label's
// position in iteration order; later calls only update the tuple.
func (t *Table) Set(label string, num NumberTuple) {
	if _, exists := t.nums[label]; !exists {
		t.labels = append(t.labels, label)
	}
	t.nums[label] = num
}

// Get returns the number tuple for a label.
func (t *Table) Get(label string) (NumberTuple, bool) {
	num, ok := t.nums[label]
	return num, ok
}

// Labels returns all labels in insertion order. The returned slice is
// shared; callers must not modify it.
func (t *Table) Labels() []string {
	return t.labels
}

// Len returns the number of labels in the table.
func (t *Table) Len() int {
	return len(t.labels)
}

// newlabelPattern matches \newlabel{LABEL}{{NUMBER}{...}}. The number
// group is permissive: real documents emit tokens like "3a" or "A.2"
// for restated or appendix statements.
var newlabelPattern = regexp.MustCompile(`\\newlabel\{([^}]+)\}\{\{([^}]+)\}`)

// leadingDigits matches the leading digit run of a number component.
var leadingDigits = regexp.MustCompile(`^\d+`)

// Parse reads numbering-table text line by line and collects every
// \newlabel entry. Lines that do not match, and entries whose number
// yields no digits at all, are skipped; a single malformed entry never
// fails the whole parse.
func Parse(r io.Reader) (*Table, error) {
	table := NewTable()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		m := newlabelPattern.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		num, ok := parseNumber(m[2])
		if !ok {
			continue
		}
		table.Set(m[1], num)
	}
	if err := scanner.Err(); err != nil {
		return table, fmt.Errorf("scanning numbering table: %w", err)
	}

	return table, nil
}

// parseNumber decomposes a dotted number specification into a tuple.
// Each component contributes its leading digit run ("3a" -> 3); a
// component with no leading digits truncates the tuple at that point.
func parseNumber(spec string) (NumberTuple, bool) {
	var num NumberTuple
	for _, part := range strings.Split(spec, ".") {
		digits := leadingDigits.FindString(part)
		if digits == "" {
			break
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			break
		}
		num = append(num, n)
	}
	if len(num) == 0 {
		return nil, false
	}
	return num, true
}

// Load reads the numbering table from path. When the file cannot be
// opened an empty table is returned together with the error, so callers
// can record a diagnostic and continue.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return NewTable(), fmt.Errorf("opening numbering table: %w", err)
	}
	defer f.Close()

	return Parse(f)
}
