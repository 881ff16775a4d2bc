package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texdag/texdag/internal/auxtable"
	"github.com/texdag/texdag/internal/check"
	"github.com/texdag/texdag/internal/cli/output"
	"github.com/texdag/texdag/internal/engine"
)

func violationResult() *engine.Result {
	table := auxtable.NewTable()
	table.Set("thm:euler", auxtable.NumberTuple{1})
	table.Set("lem:zorn", auxtable.NumberTuple{2})
	return &engine.Result{
		Table: table,
		Violations: []check.Violation{{
			Source:    "thm:euler",
			Target:    "lem:zorn",
			SourceNum: auxtable.NumberTuple{1},
			TargetNum: auxtable.NumberTuple{2},
		}},
	}
}

func TestCheckMarkdown_RendersViolationTable(t *testing.T) {
	var out, errOut bytes.Buffer
	r := output.NewRenderer(&out, &errOut, output.ModeMarkdown)

	require.NoError(t, checkMarkdown(r, violationResult()))

	assert.Contains(t, out.String(), "# Reference Order Check")
	assert.Contains(t, out.String(), "1 ordering violation(s):")
	assert.Contains(t, out.String(), "thm:euler")
	assert.Contains(t, out.String(), "lem:zorn")
	assert.Contains(t, out.String(), "|")
}

func TestCheckMarkdown_CleanRun(t *testing.T) {
	var out, errOut bytes.Buffer
	r := output.NewRenderer(&out, &errOut, output.ModeMarkdown)

	res := violationResult()
	res.Violations = nil
	require.NoError(t, checkMarkdown(r, res))

	assert.Contains(t, out.String(), "No violations. 2 labels, 0 references checked.")
}

func TestCheckJSON_ReportShape(t *testing.T) {
	var out, errOut bytes.Buffer
	r := output.NewRenderer(&out, &errOut, output.ModeJSON)

	require.NoError(t, checkJSON(r, violationResult()))

	var report struct {
		Labels     int `json:"labels"`
		Violations []struct {
			Source    string `json:"source"`
			SourceNum string `json:"source_number"`
			Target    string `json:"target"`
			TargetNum string `json:"target_number"`
		} `json:"violations"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))

	assert.Equal(t, 2, report.Labels)
	require.Len(t, report.Violations, 1)
	assert.Equal(t, "thm:euler", report.Violations[0].Source)
	assert.Equal(t, "1", report.Violations[0].SourceNum)
	assert.Equal(t, "lem:zorn", report.Violations[0].Target)
	assert.Equal(t, "2", report.Violations[0].TargetNum)
}
