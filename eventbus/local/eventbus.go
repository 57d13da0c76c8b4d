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

// Package local holds an in-process event bus that delivers every event
// synchronously, before HandleEvent returns.
package local

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jinzhu/copier"

	bp "github.com/looplab/bizproc"
)

// ErrBusClosed is returned when publishing on a closed bus.
var ErrBusClosed = errors.New("event bus closed")

// EventBus is a local event bus that delegates handling of published events
// to all matching registered handlers, in order of registration. Events
// published by a handler are delivered, depth first, before the outer
// delivery continues.
type EventBus struct {
	subscribers  []subscriber
	registered   map[bp.EventHandlerType]struct{}
	subscriberMu sync.RWMutex
	closed       bool
}

type subscriber struct {
	m bp.EventMatcher
	h bp.EventHandler
}

// NewEventBus creates a EventBus.
func NewEventBus() *EventBus {
	return &EventBus{
		registered: map[bp.EventHandlerType]struct{}{},
	}
}

// HandlerType implements the HandlerType method of the bizproc.EventHandler interface.
func (b *EventBus) HandlerType() bp.EventHandlerType {
	return "eventbus"
}

// HandleEvent implements the HandleEvent method of the bizproc.EventHandler interface.
func (b *EventBus) HandleEvent(ctx context.Context, event bp.Event) error {
	if event == nil {
		return &bp.EventBusError{Err: bp.ErrMissingEvent, Ctx: ctx}
	}

	// Handlers may add subscribers or publish while being called, deliver to
	// the subscribers that were present when publishing started.
	b.subscriberMu.RLock()
	if b.closed {
		b.subscriberMu.RUnlock()

		return &bp.EventBusError{Err: ErrBusClosed, Ctx: ctx, Event: event}
	}

	subscribers := make([]subscriber, len(b.subscribers))
	copy(subscribers, b.subscribers)
	b.subscriberMu.RUnlock()

	for _, s := range subscribers {
		if !s.m(event) {
			continue
		}

		e, err := copyEvent(event)
		if err != nil {
			return &bp.EventBusError{Err: err, Ctx: ctx, Event: event}
		}

		if err := s.h.HandleEvent(ctx, e); err != nil {
			return &bp.EventBusError{
				Err:   fmt.Errorf("could not handle event (%s): %w", s.h.HandlerType(), err),
				Ctx:   ctx,
				Event: event,
			}
		}
	}

	return nil
}

// AddHandler implements the AddHandler method of the bizproc.EventBus interface.
func (b *EventBus) AddHandler(ctx context.Context, m bp.EventMatcher, h bp.EventHandler) error {
	if m == nil {
		return bp.ErrMissingMatcher
	}

	if h == nil {
		return bp.ErrMissingHandler
	}

	b.subscriberMu.Lock()
	defer b.subscriberMu.Unlock()

	// Check handler existence.
	if _, ok := b.registered[h.HandlerType()]; ok {
		return bp.ErrHandlerAlreadyAdded
	}

	b.registered[h.HandlerType()] = struct{}{}
	b.subscribers = append(b.subscribers, subscriber{m, h})

	return nil
}

// Use implements the Use method of the bizproc.EventBus interface. The handler
// receives every event, and may be added more than once.
func (b *EventBus) Use(h bp.EventHandler) {
	if h == nil {
		return
	}

	b.subscriberMu.Lock()
	defer b.subscriberMu.Unlock()

	b.subscribers = append(b.subscribers, subscriber{bp.MatchAny(), h})
}

// Close implements the Close method of the bizproc.EventBus interface.
func (b *EventBus) Close() error {
	b.subscriberMu.Lock()
	defer b.subscriberMu.Unlock()

	b.closed = true
	b.subscribers = nil

	return nil
}

// copyEvent creates a new event with a deep copy of the data and metadata,
// so that no handler can change what the next one sees.
func copyEvent(event bp.Event) (bp.Event, error) {
	var data bp.EventData

	if event.Data() != nil {
		var err error
		if data, err = bp.CreateEventData(event.EventType()); err != nil {
			return nil, fmt.Errorf("could not create event data: %w", err)
		}

		if err := copier.CopyWithOption(data, event.Data(), copier.Option{DeepCopy: true}); err != nil {
			return nil, fmt.Errorf("could not copy event data: %w", err)
		}
	}

	metadata := make(map[string]interface{}, len(event.Metadata()))
	for k, v := range event.Metadata() {
		metadata[k] = v
	}

	return bp.NewEvent(event.EventType(), data, event.Timestamp(),
		bp.ForAggregate(event.AggregateType(), event.AggregateID(), event.Version()),
		bp.WithMetadata(metadata),
	), nil
}
