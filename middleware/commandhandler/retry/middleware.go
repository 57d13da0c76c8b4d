// Copyright (c) 2026 - The bizproc authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package retry re-runs commands that lost an optimistic concurrency race
// against another save of the same aggregate.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jpillora/backoff"

	bp "github.com/looplab/bizproc"
	"github.com/looplab/bizproc/middleware/commandhandler/lock"
)

// DefaultMaxAttempts is the number of times a command is handled before
// giving up, when not set with WithMaxAttempts.
const DefaultMaxAttempts = 5

// Option is an option setter used to configure creation.
type Option func(*middleware)

// WithMaxAttempts sets the total number of attempts for a command.
func WithMaxAttempts(n int) Option {
	return func(m *middleware) {
		if n > 0 {
			m.maxAttempts = n
		}
	}
}

// WithBackoff sets the delays between attempts.
func WithBackoff(min, max time.Duration) Option {
	return func(m *middleware) {
		m.min, m.max = min, max
	}
}

// WithRetryOn replaces the check deciding if an error is worth a new attempt.
func WithRetryOn(f func(bp.Command, error) bool) Option {
	return func(m *middleware) {
		if f != nil {
			m.retryOn = f
		}
	}
}

type middleware struct {
	maxAttempts int
	min, max    time.Duration
	retryOn     func(bp.Command, error) bool
}

// NewMiddleware returns a new retry middleware. By default a command is
// retried when its own aggregate was saved by someone else in between, or
// when the aggregate is locked by another command.
func NewMiddleware(options ...Option) bp.CommandHandlerMiddleware {
	m := &middleware{
		maxAttempts: DefaultMaxAttempts,
		min:         5 * time.Millisecond,
		max:         100 * time.Millisecond,
		retryOn:     IsConflict,
	}

	for _, option := range options {
		option(m)
	}

	return bp.CommandHandlerMiddleware(func(h bp.CommandHandler) bp.CommandHandler {
		return bp.CommandHandlerFunc(func(ctx context.Context, cmd bp.Command) error {
			delay := &backoff.Backoff{
				Min:    m.min,
				Max:    m.max,
				Jitter: true,
			}

			var err error

			for attempt := 1; ; attempt++ {
				if err = h.HandleCommand(ctx, cmd); err == nil {
					return nil
				}

				if !m.retryOn(cmd, err) {
					return err
				}

				if attempt >= m.maxAttempts {
					return &Error{Err: err, Attempts: attempt}
				}

				select {
				case <-time.After(delay.Duration()):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		})
	})
}

// IsConflict reports if err is a save conflict on the aggregate of cmd itself,
// or a busy lock for it. Conflicts raised by handlers further down the chain,
// after the command's own events were stored, are not retried.
func IsConflict(cmd bp.Command, err error) bool {
	if errors.Is(err, lock.ErrLockExists) {
		return true
	}

	var busErr *bp.EventBusError
	if errors.As(err, &busErr) {
		return false
	}

	var storeErr *bp.EventStoreError
	if !errors.As(err, &storeErr) {
		return false
	}

	return errors.Is(storeErr.Err, bp.ErrEventConflictFromOtherSave) &&
		storeErr.AggregateID == cmd.AggregateID()
}

// Error is returned when all attempts failed.
type Error struct {
	// Err is the error of the last attempt.
	Err error
	// Attempts is the number of times the command was handled.
	Attempts int
}

// Error implements the Error method of the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %s", e.Attempts, e.Err)
}

// Unwrap implements the errors.Unwrap method.
func (e *Error) Unwrap() error {
	return e.Err
}

// Cause implements the github.com/pkg/errors Unwrap method.
func (e *Error) Cause() error {
	return e.Unwrap()
}
