// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package publisherrors defines typed errors with categories for user-friendly reporting.
// Each category maps to one failure class of the publish flow, so callers can
// decide between aborting, rendering, and exit-code handling without string
// matching on error text.
package publisherrors

import (
	"errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// InvalidInput indicates a missing or unusable action input, detected
	// before any network call.
	InvalidInput Kind = "invalid_input"
	// AuthFailed indicates the API key was rejected by the identity endpoint.
	AuthFailed Kind = "auth_failed"
	// APIFailed indicates a non-2xx or undecodable response from a REST call.
	APIFailed Kind = "api_failed"
	// UploadFailed indicates the binary PUT to the upload target failed.
	UploadFailed Kind = "upload_failed"
	// ProcessingFailed indicates the server reported a failed run for the revision.
	ProcessingFailed Kind = "processing_failed"
	// Timeout indicates the run never reached a terminal state within the poll deadline.
	Timeout Kind = "timeout"
	// CheckFailed indicates the integrity check reported "fail". Not fatal by
	// itself; it becomes the exit code only when blocking is enabled.
	CheckFailed Kind = "check_failed"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the category of err, or the empty Kind when err carries none.
func KindOf(err error) Kind {
	var e *E
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
