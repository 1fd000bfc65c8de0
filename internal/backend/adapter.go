// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend provides interfaces and implementations for communicating with the Rowbase service.
// It defines the API contract for identity, datasets, revisions, uploads, and run listings.
// The package includes both interface definitions and the HTTP-based implementation.
package backend

import (
	"context"
	"io"
)

// API defines the service operations the publisher depends on.
// Implementations may call real HTTP endpoints or provide fakes for tests.
type API interface {
	// Me validates the API key against the identity endpoint and returns the
	// authenticated account slug.
	Me(ctx context.Context) (string, error)
	// ListDatasets returns the datasets of a repository in server-defined order.
	ListDatasets(ctx context.Context, owner, slug string) ([]Dataset, error)
	// CreateDataset creates a dataset by name and returns its identifier.
	CreateDataset(ctx context.Context, owner, slug, name string) (string, error)
	// CreateRevision opens a pending revision on a dataset and returns the
	// upload target the file bytes must be PUT to.
	CreateRevision(ctx context.Context, datasetID string, req RevisionRequest) (UploadTarget, error)
	// Upload performs the single binary PUT of the full file to the target.
	Upload(ctx context.Context, target UploadTarget, body io.Reader, size int64) error
	// CompleteRevision transitions the revision out of the pending state,
	// supplying the content hash when one is carried.
	CompleteRevision(ctx context.Context, revisionID, contentHash string) error
	// ListRuns returns the most recent runs of a repository.
	ListRuns(ctx context.Context, owner, slug string, limit int) ([]Run, error)
}
