package backend

import (
	"net/http"
	"strings"
	"time"
)

// Endpoint paths of the Rowbase API. The base URL is configuration; the
// paths are fixed by the service contract.
const (
	pathMe       = "/api/desktop/me"
	pathDatasets = "/api/desktop/repos/%s/%s/datasets"  // owner, slug
	pathRevision = "/api/desktop/datasets/%s/revisions" // dataset id
	pathComplete = "/api/desktop/revisions/%s/complete" // revision id
	pathRuns     = "/api/repos/%s/%s/runs"              // owner, slug
)

// apiTimeout bounds every REST call. The upload PUT is exempt; large files
// are bounded by the request context instead.
const apiTimeout = 30 * time.Second

// HTTP implements the API over REST endpoints. It carries the API key and
// attaches it as a bearer token to every request except the upload PUT,
// which authenticates through the server-issued upload headers.
type HTTP struct {
	// baseURL is the base URL for all API requests (e.g., "https://rowbase.io")
	baseURL string
	// apiKey is the bearer credential for the API
	apiKey string
	// client is the underlying HTTP client with configured timeout
	client *http.Client
	// uploader is the client for the binary PUT, without a fixed timeout
	uploader *http.Client
}

// newHTTP creates a new HTTP client with the given base URL and API key.
func newHTTP(baseURL, apiKey string) *HTTP {
	return &HTTP{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		client:   &http.Client{Timeout: apiTimeout},
		uploader: &http.Client{},
	}
}

// setStandardHeaders attaches the headers common to all API requests.
func (h *HTTP) setStandardHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "rowbase-cli")
	req.Header.Set("Accept", "application/json")
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}
}
