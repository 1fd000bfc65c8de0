// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Me calls GET /api/desktop/me with the bearer key and returns the account
// slug. A 401 means the key was rejected.
func (h *HTTP) Me(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+pathMe, nil)
	if err != nil {
		return "", err
	}
	h.setStandardHeaders(req)

	resp, err := h.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusUnauthorized {
			return "", errors.New("unauthorized")
		}
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("me failed: %d %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out struct {
		UserSlug string `json:"user_slug"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.UserSlug == "" {
		return "", errors.New("no user_slug in response")
	}
	return out.UserSlug, nil
}
