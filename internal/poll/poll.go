// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package poll implements a fixed-interval retry-with-deadline combinator.
// There is deliberately no backoff and no jitter: the checked artifacts are
// small and process quickly, so a short fixed interval favors responsiveness
// over server load. The interval and ceiling are named policy parameters.
package poll

import (
	"context"
	"errors"
	"time"
)

// ErrDeadline is returned when the deadline elapses before fn reports Done.
var ErrDeadline = errors.New("poll: deadline reached")

// Decision tells Wait whether to keep polling.
type Decision int

const (
	// Again means the condition is not met yet; wait one interval and retry.
	Again Decision = iota
	// Done means the condition is met; stop polling.
	Done
)

// Policy names the two parameters of the loop.
type Policy struct {
	// Interval between attempts.
	Interval time.Duration
	// Deadline is the hard ceiling on total wait.
	Deadline time.Duration
}

// DefaultPolicy polls every 3 seconds for at most 120 seconds.
var DefaultPolicy = Policy{
	Interval: 3 * time.Second,
	Deadline: 120 * time.Second,
}

// Wait calls fn immediately and then once per interval until it reports Done,
// returns an error, the context is cancelled, or the deadline elapses.
// An error from fn aborts at once; the remaining budget is not waited out.
func Wait(ctx context.Context, p Policy, fn func(ctx context.Context) (Decision, error)) error {
	d, err := fn(ctx)
	if err != nil {
		return err
	}
	if d == Done {
		return nil
	}

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()
	deadline := time.NewTimer(p.Deadline)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return ErrDeadline
		case <-ticker.C:
			d, err := fn(ctx)
			if err != nil {
				return err
			}
			if d == Done {
				return nil
			}
		}
	}
}
