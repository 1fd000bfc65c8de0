// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

// New creates a backend API implementation for the given base URL and API key.
// Returns HTTP client (real backend).
func New(baseURL, apiKey string) API {
	return newHTTP(baseURL, apiKey)
}
