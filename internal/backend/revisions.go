// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// SourceMetadata carries optional provenance tags on a revision. Timestamp is
// captured client-side at request-build time, UTC, YYYY-MM-DDTHH:MM:SSZ.
type SourceMetadata struct {
	Type      string `json:"type,omitempty"`
	Identity  string `json:"identity,omitempty"`
	Timestamp string `json:"timestamp"`
}

// RevisionRequest is the immutable payload for creating a new revision.
// ContentHash is present only when the preferred algorithm produced it.
type RevisionRequest struct {
	ByteSize    int64           `json:"byte_size"`
	ContentHash string          `json:"content_hash,omitempty"`
	Message     string          `json:"message,omitempty"`
	Source      *SourceMetadata `json:"source_metadata,omitempty"`
}

// UploadTarget is where the file bytes must be PUT, with the headers the
// server requires on that request.
type UploadTarget struct {
	RevisionID string
	URL        string
	Headers    map[string]string
}

// CreateRevision calls POST /api/desktop/datasets/{id}/revisions and returns
// the upload target for the pending revision.
func (h *HTTP) CreateRevision(ctx context.Context, datasetID string, r RevisionRequest) (UploadTarget, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return UploadTarget{}, err
	}

	url := h.baseURL + fmt.Sprintf(pathRevision, datasetID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return UploadTarget{}, err
	}
	h.setStandardHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return UploadTarget{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return UploadTarget{}, fmt.Errorf("create-revision failed: %d %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out struct {
		RevisionID    string            `json:"revision_id"`
		UploadURL     string            `json:"upload_url"`
		UploadHeaders map[string]string `json:"upload_headers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return UploadTarget{}, err
	}
	if out.RevisionID == "" || out.UploadURL == "" {
		return UploadTarget{}, errors.New("create-revision returned no upload target")
	}
	return UploadTarget{RevisionID: out.RevisionID, URL: out.UploadURL, Headers: out.UploadHeaders}, nil
}

// Upload PUTs the full file bytes to the target URL with all provided
// headers attached. Success is any 2xx status.
func (h *HTTP) Upload(ctx context.Context, target UploadTarget, body io.Reader, size int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target.URL, body)
	if err != nil {
		return err
	}
	req.ContentLength = size
	for k, v := range target.Headers {
		req.Header.Set(k, v)
	}

	resp, err := h.uploader.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("upload failed with status %d", resp.StatusCode)
	}
	return nil
}

// CompleteRevision calls POST /api/desktop/revisions/{id}/complete, carrying
// the content hash when one is present.
func (h *HTTP) CompleteRevision(ctx context.Context, revisionID, contentHash string) error {
	payload := map[string]string{}
	if contentHash != "" {
		payload["content_hash"] = contentHash
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := h.baseURL + fmt.Sprintf(pathComplete, revisionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	h.setStandardHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("complete-revision failed: %d %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return nil
}
