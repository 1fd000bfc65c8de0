// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/desktop/me", r.URL.Path)
		assert.Equal(t, "Bearer rb_key", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{"user_slug": "acme-bot"})
	}))
	defer srv.Close()

	slug, err := New(srv.URL, "rb_key").Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "acme-bot", slug)
}

func TestMeUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := New(srv.URL, "bad").Me(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unauthorized")
}

func TestListDatasets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/desktop/repos/acme/metrics/datasets", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		json.NewEncoder(w).Encode([]Dataset{
			{ID: "ds_1", Name: "daily.csv"},
			{ID: "ds_2", Name: "weekly.csv"},
		})
	}))
	defer srv.Close()

	datasets, err := New(srv.URL, "rb_key").ListDatasets(context.Background(), "acme", "metrics")
	require.NoError(t, err)
	require.Len(t, datasets, 2)
	assert.Equal(t, "ds_1", datasets[0].ID)
	assert.Equal(t, "daily.csv", datasets[0].Name)
}

func TestCreateDataset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "daily.csv", body["name"])
		json.NewEncoder(w).Encode(map[string]string{"dataset_id": "ds_new"})
	}))
	defer srv.Close()

	id, err := New(srv.URL, "rb_key").CreateDataset(context.Background(), "acme", "metrics", "daily.csv")
	require.NoError(t, err)
	assert.Equal(t, "ds_new", id)
}

func TestCreateDatasetNoID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	_, err := New(srv.URL, "rb_key").CreateDataset(context.Background(), "acme", "metrics", "daily.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no dataset_id")
}

func TestCreateRevision(t *testing.T) {
	var got RevisionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/desktop/datasets/ds_1/revisions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]any{
			"revision_id": "rev_42",
			"upload_url":  "https://blobs.example/put/rev_42",
			"upload_headers": map[string]string{
				"x-rb-signature": "sig",
			},
		})
	}))
	defer srv.Close()

	req := RevisionRequest{
		ByteSize:    128,
		ContentHash: "blake3:" + strings.Repeat("ab", 32),
		Source:      &SourceMetadata{Type: "airflow", Timestamp: "2026-08-29T10:00:00Z"},
	}
	target, err := New(srv.URL, "rb_key").CreateRevision(context.Background(), "ds_1", req)
	require.NoError(t, err)
	assert.Equal(t, "rev_42", target.RevisionID)
	assert.Equal(t, "https://blobs.example/put/rev_42", target.URL)
	assert.Equal(t, "sig", target.Headers["x-rb-signature"])

	assert.Equal(t, int64(128), got.ByteSize)
	assert.Equal(t, req.ContentHash, got.ContentHash)
	require.NotNil(t, got.Source)
	assert.Equal(t, "airflow", got.Source.Type)
	assert.Equal(t, "2026-08-29T10:00:00Z", got.Source.Timestamp)
}

func TestCreateRevisionOmitsEmptyHash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		assert.NotContains(t, string(raw), "content_hash")
		assert.NotContains(t, string(raw), "source_metadata")
		json.NewEncoder(w).Encode(map[string]string{
			"revision_id": "rev_1",
			"upload_url":  "https://blobs.example/put/rev_1",
		})
	}))
	defer srv.Close()

	_, err := New(srv.URL, "rb_key").CreateRevision(context.Background(), "ds_1", RevisionRequest{ByteSize: 7})
	require.NoError(t, err)
}

func TestUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "sig", r.Header.Get("x-rb-signature"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "a,b\n1,2\n", string(body))
		w.WriteHeader(http.StatusCreated) // any 2xx is success
	}))
	defer srv.Close()

	target := UploadTarget{
		RevisionID: "rev_1",
		URL:        srv.URL + "/put/rev_1",
		Headers:    map[string]string{"x-rb-signature": "sig"},
	}
	content := "a,b\n1,2\n"
	err := New("https://unused.example", "rb_key").
		Upload(context.Background(), target, strings.NewReader(content), int64(len(content)))
	require.NoError(t, err)
}

func TestUploadNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	target := UploadTarget{RevisionID: "rev_1", URL: srv.URL + "/put/rev_1"}
	err := New("https://unused.example", "rb_key").
		Upload(context.Background(), target, strings.NewReader("x"), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestCompleteRevision(t *testing.T) {
	tests := []struct {
		name     string
		hash     string
		wantBody string
	}{
		{
			name:     "with hash",
			hash:     "blake3:" + strings.Repeat("ab", 32),
			wantBody: `{"content_hash":"blake3:` + strings.Repeat("ab", 32) + `"}`,
		},
		{
			name:     "without hash",
			hash:     "",
			wantBody: `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/desktop/revisions/rev_1/complete", r.URL.Path)
				raw, _ := io.ReadAll(r.Body)
				assert.JSONEq(t, tt.wantBody, string(raw))
				json.NewEncoder(w).Encode(map[string]string{"status": "completed"})
			}))
			defer srv.Close()

			err := New(srv.URL, "rb_key").CompleteRevision(context.Background(), "rev_1", tt.hash)
			require.NoError(t, err)
		})
	}
}

func TestListRuns(t *testing.T) {
	rows := int64(120)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/repos/acme/metrics/runs", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		json.NewEncoder(w).Encode(map[string]any{
			"runs": []any{
				map[string]any{
					"id":           "rev_42",
					"status":       "verified",
					"check_status": "fail",
					"diff_summary": map[string]any{
						"row_count_change": -50,
						"columns_removed":  []string{"region"},
					},
					"version":   3,
					"row_count": rows,
				},
				map[string]any{"id": "rev_41", "status": "verified", "version": 2},
			},
		})
	}))
	defer srv.Close()

	runs, err := New(srv.URL, "rb_key").ListRuns(context.Background(), "acme", "metrics", 5)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	run := runs[0]
	assert.Equal(t, "rev_42", run.ID)
	assert.Equal(t, CheckFail, run.CheckStatus)
	require.NotNil(t, run.DiffSummary)
	assert.Equal(t, int64(-50), run.DiffSummary.RowCountChange)
	assert.Equal(t, []string{"region"}, run.DiffSummary.ColumnsRemoved)
	require.NotNil(t, run.RowCount)
	assert.Equal(t, rows, *run.RowCount)
	assert.Nil(t, run.ColCount)

	// baseline run: no check status, no diff summary
	assert.Empty(t, runs[1].CheckStatus)
	assert.Nil(t, runs[1].DiffSummary)
}

func TestRunTerminal(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{"verified", true},
		{"completed", true},
		{"failed", true},
		{"processing", false},
		{"queued", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := (Run{Status: tt.status}).Terminal(); got != tt.want {
			t.Errorf("Terminal(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
