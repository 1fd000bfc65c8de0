// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

package publish

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rowbase/cli/internal/backend"
	"rowbase/cli/internal/config"
	"rowbase/cli/internal/gha"
	"rowbase/cli/internal/hashing"
)

func TestProofURLDeterministic(t *testing.T) {
	// Pure string formatting: same four inputs, same URL, no network.
	a := ProofURL("https://rowbase.io", "acme", "metrics", "rev_42")
	b := ProofURL("https://rowbase.io/", "acme", "metrics", "rev_42")
	want := "https://rowbase.io/api/repos/acme/metrics/runs/rev_42/proof"
	assert.Equal(t, want, a)
	assert.Equal(t, want, b)
}

func TestExtractVerdicts(t *testing.T) {
	cfg := config.Config{Owner: "acme", Slug: "metrics", APIBase: "https://rowbase.io"}

	tests := []struct {
		name        string
		checkStatus string
		wantVerdict string
		wantStatus  string
	}{
		{"explicit pass", backend.CheckPass, VerdictPass, "pass"},
		{"explicit fail", backend.CheckFail, VerdictFail, "fail"},
		{"baseline passes", "", VerdictPass, "none"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := backend.Run{ID: "rev_1", Status: backend.RunStatusVerified, CheckStatus: tt.checkStatus}
			res := extract(cfg, run, "rev_1", "ds_1", hashing.Hash{})
			assert.Equal(t, tt.wantVerdict, res.Verdict)
			assert.Equal(t, tt.wantStatus, res.CheckStatus)
		})
	}
}

func TestDiffJSON(t *testing.T) {
	res := Result{Run: backend.Run{}}
	assert.Equal(t, "null", res.DiffJSON())

	res = Result{Run: backend.Run{DiffSummary: &backend.DiffSummary{
		RowCountChange: -50,
		ColumnsRemoved: []string{"region"},
	}}}
	assert.JSONEq(t,
		`{"row_count_change":-50,"column_count_change":0,"columns_removed":["region"]}`,
		res.DiffJSON())
}

func TestDiffLines(t *testing.T) {
	tests := []struct {
		name string
		diff *backend.DiffSummary
		want []string
	}{
		{
			name: "baseline",
			diff: nil,
			want: []string{"No previous revision to compare against (baseline)."},
		},
		{
			name: "no changes",
			diff: &backend.DiffSummary{},
			want: []string{"No structural changes."},
		},
		{
			name: "rows removed",
			diff: &backend.DiffSummary{RowCountChange: -50},
			want: []string{"50 rows removed"},
		},
		{
			name: "mixed changes",
			diff: &backend.DiffSummary{
				RowCountChange:     12,
				ColumnCountChange:  -1,
				ColumnsRemoved:     []string{"region"},
				ColumnsTypeChanged: []string{"amount"},
			},
			want: []string{
				"12 rows added",
				"1 columns removed",
				"Columns removed: region",
				"Columns with changed type: amount",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Result{Run: backend.Run{DiffSummary: tt.diff}}
			assert.Equal(t, tt.want, res.DiffLines())
		})
	}
}

func testResult() (config.Config, Result) {
	cfg := config.Config{
		Owner:       "acme",
		Slug:        "metrics",
		DatasetPath: "daily.csv",
		APIBase:     "https://rowbase.io",
	}
	rows := int64(70)
	run := backend.Run{
		ID:          "rev_42",
		Status:      backend.RunStatusVerified,
		CheckStatus: backend.CheckFail,
		DiffSummary: &backend.DiffSummary{RowCountChange: -50, ColumnsRemoved: []string{"region"}},
		Version:     3,
		RowCount:    &rows,
	}
	return cfg, extract(cfg, run, "rev_42", "ds_1", hashing.Hash{Algo: hashing.BLAKE3, Hex: strings.Repeat("ab", 32)})
}

func TestReportOutputsAndAnnotation(t *testing.T) {
	cfg, res := testResult()

	outPath := filepath.Join(t.TempDir(), "output")
	sumPath := filepath.Join(t.TempDir(), "summary")
	var stdout bytes.Buffer
	rep := gha.NewWithPaths(outPath, sumPath, &stdout)

	require.NoError(t, Report(rep, cfg, res))

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	got := string(out)
	assert.Contains(t, got, "verification_status=FAIL\n")
	assert.Contains(t, got, "check_status=fail\n")
	assert.Contains(t, got, `"row_count_change":-50`)
	assert.Contains(t, got, "run_id=rev_42\n")
	assert.Contains(t, got, "proof_url=https://rowbase.io/api/repos/acme/metrics/runs/rev_42/proof\n")
	assert.Contains(t, got, "version=3\n")

	sum, err := os.ReadFile(sumPath)
	require.NoError(t, err)
	assert.Contains(t, string(sum), "50 rows removed")
	assert.Contains(t, string(sum), "❌ FAIL")
	assert.Contains(t, string(sum), "| Rows | 70 |")
	assert.Contains(t, string(sum), "| Columns | n/a |")

	assert.Contains(t, stdout.String(), "::error::")
	assert.Contains(t, stdout.String(), "rows: -50")
	assert.Contains(t, stdout.String(), "removed: region")
}

func TestReportPassAnnotation(t *testing.T) {
	cfg, res := testResult()
	res.Verdict = VerdictPass
	res.CheckStatus = backend.CheckPass

	var stdout bytes.Buffer
	rep := gha.NewWithPaths("", "", &stdout)
	require.NoError(t, Report(rep, cfg, res))

	assert.Contains(t, stdout.String(), "::notice::")
	assert.NotContains(t, stdout.String(), "::error::")
}

func TestReportBaselineDiffIsNull(t *testing.T) {
	cfg := config.Config{Owner: "acme", Slug: "metrics", DatasetPath: "daily.csv", APIBase: "https://rowbase.io"}
	run := backend.Run{ID: "rev_1", Status: backend.RunStatusVerified, Version: 1}
	res := extract(cfg, run, "rev_1", "ds_1", hashing.Hash{})

	outPath := filepath.Join(t.TempDir(), "output")
	rep := gha.NewWithPaths(outPath, "", &bytes.Buffer{})
	require.NoError(t, Report(rep, cfg, res))

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(out), "diff_summary=null\n")
	assert.Contains(t, string(out), "verification_status=PASS\n")
}
