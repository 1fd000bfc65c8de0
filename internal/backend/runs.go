// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// Run processing statuses reported by the server. Verified and completed are
// terminal success; failed is terminal failure.
const (
	RunStatusVerified  = "verified"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Integrity check outcomes. An absent check status means a baseline revision
// with nothing to compare against.
const (
	CheckPass = "pass"
	CheckFail = "fail"
)

// DiffSummary describes the structural changes of a revision against its
// predecessor. Absent on a baseline revision.
type DiffSummary struct {
	RowCountChange     int64    `json:"row_count_change"`
	ColumnCountChange  int64    `json:"column_count_change"`
	ColumnsAdded       []string `json:"columns_added,omitempty"`
	ColumnsRemoved     []string `json:"columns_removed,omitempty"`
	ColumnsTypeChanged []string `json:"columns_type_changed,omitempty"`
}

// Run is the server-computed outcome for one revision. Optional fields are
// pointers so "absent" survives decoding and defaults are applied in one
// place instead of scattered through rendering.
type Run struct {
	ID          string       `json:"id"`
	Status      string       `json:"status"`
	CheckStatus string       `json:"check_status,omitempty"`
	DiffSummary *DiffSummary `json:"diff_summary,omitempty"`
	Version     int          `json:"version"`
	RowCount    *int64       `json:"row_count,omitempty"`
	ColCount    *int64       `json:"col_count,omitempty"`
}

// Terminal reports whether the run reached a terminal processing state.
func (r Run) Terminal() bool {
	switch r.Status {
	case RunStatusVerified, RunStatusCompleted, RunStatusFailed:
		return true
	}
	return false
}

// ListRuns calls GET /api/repos/{owner}/{slug}/runs?limit={limit}.
func (h *HTTP) ListRuns(ctx context.Context, owner, slug string, limit int) ([]Run, error) {
	url := h.baseURL + fmt.Sprintf(pathRuns, owner, slug) + "?limit=" + strconv.Itoa(limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	h.setStandardHeaders(req)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("list-runs failed: %d %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out struct {
		Runs []Run `json:"runs"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out.Runs, nil
}
