// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

package publish

import (
	"encoding/json"
	"fmt"
	"strings"

	"rowbase/cli/internal/backend"
	"rowbase/cli/internal/config"
	"rowbase/cli/internal/hashing"
)

// Verdicts of the integrity check. A baseline revision with no check status
// always passes: there is nothing to compare against.
const (
	VerdictPass = "PASS"
	VerdictFail = "FAIL"
)

// CheckNone is the reported check status for a baseline revision.
const CheckNone = "none"

// Result is everything the terminal run record yields for rendering,
// with named defaults already applied.
type Result struct {
	DatasetID   string
	RevisionID  string
	Hash        hashing.Hash
	Run         backend.Run
	Verdict     string // PASS or FAIL
	CheckStatus string // pass, fail, or none
	ProofURL    string
	Version     int
}

// extract derives the result from a terminal run record.
func extract(cfg config.Config, run backend.Run, revisionID, datasetID string, hash hashing.Hash) Result {
	verdict := VerdictPass
	checkStatus := CheckNone
	switch run.CheckStatus {
	case backend.CheckFail:
		verdict = VerdictFail
		checkStatus = backend.CheckFail
	case backend.CheckPass:
		checkStatus = backend.CheckPass
	}
	return Result{
		DatasetID:   datasetID,
		RevisionID:  revisionID,
		Hash:        hash,
		Run:         run,
		Verdict:     verdict,
		CheckStatus: checkStatus,
		ProofURL:    ProofURL(cfg.APIBase, cfg.Owner, cfg.Slug, revisionID),
		Version:     run.Version,
	}
}

// ProofURL constructs the signed-proof download URL. Pure string formatting;
// no server round-trip is needed.
func ProofURL(apiBase, owner, slug, revisionID string) string {
	return fmt.Sprintf("%s/api/repos/%s/%s/runs/%s/proof",
		strings.TrimRight(apiBase, "/"), owner, slug, revisionID)
}

// DiffJSON renders the diff summary output value: the JSON object, or the
// literal "null" for a baseline revision.
func (r Result) DiffJSON() string {
	if r.Run.DiffSummary == nil {
		return "null"
	}
	b, err := json.Marshal(r.Run.DiffSummary)
	if err != nil {
		return "null"
	}
	return string(b)
}

// DiffLines renders the diff summary as human-readable bullet text.
func (r Result) DiffLines() []string {
	d := r.Run.DiffSummary
	if d == nil {
		return []string{"No previous revision to compare against (baseline)."}
	}
	var lines []string
	switch {
	case d.RowCountChange > 0:
		lines = append(lines, fmt.Sprintf("%d rows added", d.RowCountChange))
	case d.RowCountChange < 0:
		lines = append(lines, fmt.Sprintf("%d rows removed", -d.RowCountChange))
	}
	switch {
	case d.ColumnCountChange > 0:
		lines = append(lines, fmt.Sprintf("%d columns added", d.ColumnCountChange))
	case d.ColumnCountChange < 0:
		lines = append(lines, fmt.Sprintf("%d columns removed", -d.ColumnCountChange))
	}
	if len(d.ColumnsAdded) > 0 {
		lines = append(lines, "Columns added: "+strings.Join(d.ColumnsAdded, ", "))
	}
	if len(d.ColumnsRemoved) > 0 {
		lines = append(lines, "Columns removed: "+strings.Join(d.ColumnsRemoved, ", "))
	}
	if len(d.ColumnsTypeChanged) > 0 {
		lines = append(lines, "Columns with changed type: "+strings.Join(d.ColumnsTypeChanged, ", "))
	}
	if len(lines) == 0 {
		return []string{"No structural changes."}
	}
	return lines
}

// diffFields lists the non-zero diff fields compactly for annotations,
// e.g. "rows: -50, cols: +1, removed: region".
func (r Result) diffFields() string {
	d := r.Run.DiffSummary
	if d == nil {
		return ""
	}
	var parts []string
	if d.RowCountChange != 0 {
		parts = append(parts, fmt.Sprintf("rows: %+d", d.RowCountChange))
	}
	if d.ColumnCountChange != 0 {
		parts = append(parts, fmt.Sprintf("cols: %+d", d.ColumnCountChange))
	}
	if len(d.ColumnsAdded) > 0 {
		parts = append(parts, "added: "+strings.Join(d.ColumnsAdded, ", "))
	}
	if len(d.ColumnsRemoved) > 0 {
		parts = append(parts, "removed: "+strings.Join(d.ColumnsRemoved, ", "))
	}
	if len(d.ColumnsTypeChanged) > 0 {
		parts = append(parts, "type-changed: "+strings.Join(d.ColumnsTypeChanged, ", "))
	}
	return strings.Join(parts, ", ")
}

// countOrPlaceholder formats an optional count for display.
func countOrPlaceholder(v *int64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%d", *v)
}
