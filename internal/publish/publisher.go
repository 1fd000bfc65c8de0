// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package publish orchestrates one revision publish: hash the file, verify
// the API key, resolve the dataset, create and upload the revision, complete
// it, and wait for the server-side integrity check. Execution is strictly
// sequential; the only suspension points are the fixed-interval waits of the
// poll loop.
package publish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"rowbase/cli/internal/backend"
	"rowbase/cli/internal/config"
	"rowbase/cli/internal/hashing"
	"rowbase/cli/internal/poll"
	"rowbase/cli/internal/publisherrors"
)

// runListLimit is how many recent runs each poll fetches; the fresh revision
// is expected near the top of the list.
const runListLimit = 5

// timestampLayout is the UTC format for source metadata timestamps.
const timestampLayout = "2006-01-02T15:04:05Z"

// Publisher runs the publish flow against a backend API.
type Publisher struct {
	api    backend.API
	cfg    config.Config
	hasher *hashing.Hasher
	policy poll.Policy
	now    func() time.Time
	logf   func(format string, args ...any)
}

// Option customizes a Publisher.
type Option func(*Publisher)

// WithHasher overrides the hash preference chain.
func WithHasher(h *hashing.Hasher) Option { return func(p *Publisher) { p.hasher = h } }

// WithPolicy overrides the poll policy.
func WithPolicy(pol poll.Policy) Option { return func(p *Publisher) { p.policy = pol } }

// WithClock overrides the source-metadata timestamp clock.
func WithClock(now func() time.Time) Option { return func(p *Publisher) { p.now = now } }

// WithLogf sets a progress sink; default is silent.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(p *Publisher) { p.logf = logf }
}

// New creates a publisher for an already validated configuration.
func New(api backend.API, cfg config.Config, opts ...Option) *Publisher {
	p := &Publisher{
		api:    api,
		cfg:    cfg,
		hasher: hashing.Default(),
		policy: poll.DefaultPolicy,
		now:    time.Now,
		logf:   func(string, ...any) {},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Run executes the full flow and returns the terminal result. Any error is
// fatal: nothing has been reported and the caller must not write outputs.
func (p *Publisher) Run(ctx context.Context) (Result, error) {
	info, err := os.Stat(p.cfg.FilePath)
	if err != nil {
		return Result{}, publisherrors.Wrap(publisherrors.InvalidInput,
			fmt.Sprintf("cannot stat file %q", p.cfg.FilePath), err)
	}

	hash, err := p.hasher.File(p.cfg.FilePath)
	if err != nil {
		return Result{}, publisherrors.Wrap(publisherrors.InvalidInput,
			fmt.Sprintf("cannot hash file %q", p.cfg.FilePath), err)
	}
	if hash.IsZero() {
		p.logf("no hash algorithm available, publishing without a fingerprint")
	} else {
		p.logf("content hash %s", hash.Tagged())
	}

	account, err := p.api.Me(ctx)
	if err != nil {
		return Result{}, publisherrors.Wrap(publisherrors.AuthFailed, "API key rejected", err)
	}
	p.logf("authenticated as %s", account)

	datasetID, err := p.resolveDataset(ctx)
	if err != nil {
		return Result{}, err
	}

	target, err := p.api.CreateRevision(ctx, datasetID, p.revisionRequest(info.Size(), hash))
	if err != nil {
		return Result{}, publisherrors.Wrap(publisherrors.APIFailed, "creating revision", err)
	}
	p.logf("created revision %s", target.RevisionID)

	if err := p.upload(ctx, target, info.Size()); err != nil {
		return Result{}, err
	}
	p.logf("uploaded %d bytes", info.Size())

	// The SHA-256 fallback is withheld here too; only a BLAKE3 hash travels.
	if err := p.api.CompleteRevision(ctx, target.RevisionID, hash.ForServer()); err != nil {
		return Result{}, publisherrors.Wrap(publisherrors.APIFailed, "completing revision", err)
	}

	run, err := p.waitForRun(ctx, target.RevisionID)
	if err != nil {
		return Result{}, err
	}

	return extract(p.cfg, run, target.RevisionID, datasetID, hash), nil
}

// resolveDataset returns the dataset id for the configured dataset path,
// creating the dataset when absent. With duplicate names the first exact
// match in server list order wins; duplicates are otherwise unspecified.
func (p *Publisher) resolveDataset(ctx context.Context) (string, error) {
	datasets, err := p.api.ListDatasets(ctx, p.cfg.Owner, p.cfg.Slug)
	if err != nil {
		return "", publisherrors.Wrap(publisherrors.APIFailed, "listing datasets", err)
	}
	for _, d := range datasets {
		if d.Name == p.cfg.DatasetPath {
			p.logf("found dataset %s (%s)", d.Name, d.ID)
			return d.ID, nil
		}
	}

	id, err := p.api.CreateDataset(ctx, p.cfg.Owner, p.cfg.Slug, p.cfg.DatasetPath)
	if err != nil {
		return "", publisherrors.Wrap(publisherrors.APIFailed, "creating dataset", err)
	}
	p.logf("created dataset %s (%s)", p.cfg.DatasetPath, id)
	return id, nil
}

// revisionRequest builds the immutable creation payload. Source metadata is
// attached only when a type or identity was supplied; its timestamp is
// captured now, independent of the server clock.
func (p *Publisher) revisionRequest(size int64, hash hashing.Hash) backend.RevisionRequest {
	req := backend.RevisionRequest{
		ByteSize:    size,
		ContentHash: hash.ForServer(),
		Message:     p.cfg.Message,
	}
	if p.cfg.SourceType != "" || p.cfg.SourceIdentity != "" {
		req.Source = &backend.SourceMetadata{
			Type:      p.cfg.SourceType,
			Identity:  p.cfg.SourceIdentity,
			Timestamp: p.now().UTC().Format(timestampLayout),
		}
	}
	return req
}

func (p *Publisher) upload(ctx context.Context, target backend.UploadTarget, size int64) error {
	f, err := os.Open(p.cfg.FilePath)
	if err != nil {
		return publisherrors.Wrap(publisherrors.InvalidInput,
			fmt.Sprintf("cannot read file %q", p.cfg.FilePath), err)
	}
	defer f.Close()

	if err := p.api.Upload(ctx, target, f, size); err != nil {
		return publisherrors.Wrap(publisherrors.UploadFailed, "uploading file", err)
	}
	return nil
}

// waitForRun polls the recent-runs list until the revision's run reaches a
// terminal state. A reported "failed" status aborts at once; exceeding the
// deadline is a timeout error.
func (p *Publisher) waitForRun(ctx context.Context, revisionID string) (backend.Run, error) {
	var terminal backend.Run

	err := poll.Wait(ctx, p.policy, func(ctx context.Context) (poll.Decision, error) {
		runs, err := p.api.ListRuns(ctx, p.cfg.Owner, p.cfg.Slug, runListLimit)
		if err != nil {
			return poll.Again, publisherrors.Wrap(publisherrors.APIFailed, "listing runs", err)
		}
		for _, r := range runs {
			if r.ID != revisionID {
				continue
			}
			if r.Status == backend.RunStatusFailed {
				return poll.Again, publisherrors.New(publisherrors.ProcessingFailed,
					fmt.Sprintf("server reported a failed run for revision %s", revisionID))
			}
			if r.Terminal() {
				terminal = r
				return poll.Done, nil
			}
			p.logf("run %s in progress (%s)", r.ID, r.Status)
			return poll.Again, nil
		}
		p.logf("waiting for run %s to appear", revisionID)
		return poll.Again, nil
	})
	if errors.Is(err, poll.ErrDeadline) {
		return backend.Run{}, publisherrors.Wrap(publisherrors.Timeout,
			fmt.Sprintf("no check result for revision %s within %s", revisionID, p.policy.Deadline), err)
	}
	if err != nil {
		return backend.Run{}, err
	}
	return terminal, nil
}
