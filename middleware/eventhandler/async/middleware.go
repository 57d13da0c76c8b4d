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

package async

import (
	"context"
	"errors"
	"fmt"
	"sync"

	bp "github.com/looplab/bizproc"
)

// Option is an option setter used to configure creation.
type Option func(*eventHandler)

// WithDeliveries delivers every event n times, each in its own goroutine,
// mimicking a transport with at-least-once delivery.
func WithDeliveries(n int) Option {
	return func(h *eventHandler) {
		if n > 0 {
			h.deliveries = n
		}
	}
}

// WithWaitGroup tracks every delivery in wg, so that callers can wait for all
// in-flight handling to finish.
func WithWaitGroup(wg *sync.WaitGroup) Option {
	return func(h *eventHandler) {
		h.wg = wg
	}
}

// ErrClosed is returned when handling an event after Close.
var ErrClosed = errors.New("async handler closed")

// NewMiddleware returns a new async handling middleware that returns any errors
// on a error channel. The channel must be drained by the caller, and is closed
// by Close on any of the handlers created by the middleware.
func NewMiddleware(options ...Option) (bp.EventHandlerMiddleware, chan *Error) {
	d := &deliveries{errCh: make(chan *Error, 20)}

	return bp.EventHandlerMiddleware(func(h bp.EventHandler) bp.EventHandler {
		eh := &eventHandler{
			EventHandler: h,
			d:            d,
			deliveries:   1,
		}

		for _, option := range options {
			option(eh)
		}

		return eh
	}), d.errCh
}

// deliveries tracks the goroutines of all handlers sharing an error channel.
type deliveries struct {
	errCh    chan *Error
	inFlight sync.WaitGroup
	mu       sync.RWMutex
	closed   bool
	once     sync.Once
}

// start registers n deliveries, unless closed.
func (d *deliveries) start(n int) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return false
	}

	d.inFlight.Add(n)

	return true
}

func (d *deliveries) close() {
	d.once.Do(func() {
		d.mu.Lock()
		d.closed = true
		d.mu.Unlock()

		d.inFlight.Wait()
		close(d.errCh)
	})
}

type eventHandler struct {
	bp.EventHandler
	d          *deliveries
	deliveries int
	wg         *sync.WaitGroup
}

// InnerHandler implements EventHandlerChain
func (h *eventHandler) InnerHandler() bp.EventHandler {
	return h.EventHandler
}

// HandleEvent implements the HandleEvent method of the EventHandler.
func (h *eventHandler) HandleEvent(ctx context.Context, event bp.Event) error {
	if !h.d.start(h.deliveries) {
		return ErrClosed
	}

	for i := 0; i < h.deliveries; i++ {
		if h.wg != nil {
			h.wg.Add(1)
		}

		go func() {
			defer h.d.inFlight.Done()

			if h.wg != nil {
				defer h.wg.Done()
			}

			if err := h.EventHandler.HandleEvent(ctx, event); err != nil {
				// Always try to deliver errors.
				h.d.errCh <- &Error{err, ctx, event}
			}
		}()
	}

	return nil
}

// Close stops accepting events, waits for the deliveries in flight and then
// closes the error channel. Deliveries blocked on a full error channel keep
// Close waiting until the channel is drained.
func (h *eventHandler) Close() error {
	h.d.close()

	return nil
}

// Error is an async error containing the error and the event.
type Error struct {
	// Err is the error that happened when handling the event.
	Err error
	// Ctx is the context used when the error happened.
	Ctx context.Context
	// Event is the event handeled when the error happened.
	Event bp.Event
}

// Error implements the Error method of the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Event.String(), e.Err.Error())
}

// Unwrap implements the errors.Unwrap method.
func (e *Error) Unwrap() error {
	return e.Err
}

// Cause implements the github.com/pkg/errors Unwrap method.
func (e *Error) Cause() error {
	return e.Unwrap()
}
