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

// Dataset is a named, versioned tabular resource within a repository.
type Dataset struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListDatasets calls GET /api/desktop/repos/{owner}/{slug}/datasets.
// The returned order is server-defined.
func (h *HTTP) ListDatasets(ctx context.Context, owner, slug string) ([]Dataset, error) {
	url := h.baseURL + fmt.Sprintf(pathDatasets, owner, slug)
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
		return nil, fmt.Errorf("list-datasets failed: %d %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out []Dataset
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateDataset calls POST /api/desktop/repos/{owner}/{slug}/datasets with
// {name} and returns the new dataset identifier.
func (h *HTTP) CreateDataset(ctx context.Context, owner, slug, name string) (string, error) {
	body, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return "", err
	}

	url := h.baseURL + fmt.Sprintf(pathDatasets, owner, slug)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	h.setStandardHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("create-dataset failed: %d %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out struct {
		DatasetID string `json:"dataset_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.DatasetID == "" {
		return "", errors.New("create-dataset returned no dataset_id")
	}
	return out.DatasetID, nil
}
