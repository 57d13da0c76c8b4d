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

package events

import (
	"context"
	"errors"
	"fmt"

	bp "github.com/looplab/bizproc"
	"github.com/looplab/bizproc/uuid"
)

var (
	// ErrInvalidEventStore is when a dispatcher is created with a nil event store.
	ErrInvalidEventStore = errors.New("invalid event store")
	// ErrInvalidEventBus is when a dispatcher is created with a nil event bus.
	ErrInvalidEventBus = errors.New("invalid event bus")
	// ErrAggregateNotVersioned is when an aggregate is not versioned.
	ErrAggregateNotVersioned = errors.New("aggregate is not versioned")
	// ErrMismatchedEventType occurs when loaded events from ID does not match aggregate type.
	ErrMismatchedEventType = errors.New("mismatched event type and aggregate type")
)

// ApplyEventError is when an event could not be applied. It contains the error
// and the event that caused it.
type ApplyEventError struct {
	// Event is the event that caused the error.
	Event bp.Event
	// Err is the error that happened when applying the event.
	Err error
}

// Error implements the Error method of the error interface.
func (a *ApplyEventError) Error() string {
	return fmt.Sprintf("failed to apply event %s: %s", a.Event, a.Err)
}

// Unwrap implements the errors.Unwrap method.
func (a *ApplyEventError) Unwrap() error {
	return a.Err
}

// AggregateStore is an aggregate store using event sourcing. It
// uses an event store for loading and saving events used to build the aggregate
// and an event bus to publish the saved events.
type AggregateStore struct {
	store     bp.EventStore
	bus       bp.EventBus
	published bp.EventMatcher
}

// Option is an option setter used to configure creation.
type Option func(*AggregateStore) error

// WithPublishedEvents limits which saved events are published on the bus. All
// other events are only kept in the event store, as internal bookkeeping of
// their aggregate.
func WithPublishedEvents(m bp.EventMatcher) Option {
	return func(s *AggregateStore) error {
		if m == nil {
			return bp.ErrMissingMatcher
		}

		s.published = m

		return nil
	}
}

// NewAggregateStore creates an aggregate store with an event store and an event
// bus to publish events on.
func NewAggregateStore(store bp.EventStore, bus bp.EventBus, options ...Option) (*AggregateStore, error) {
	if store == nil {
		return nil, ErrInvalidEventStore
	}

	if bus == nil {
		return nil, ErrInvalidEventBus
	}

	d := &AggregateStore{
		store:     store,
		bus:       bus,
		published: bp.MatchAny(),
	}

	for _, option := range options {
		if err := option(d); err != nil {
			return nil, fmt.Errorf("error while applying option: %w", err)
		}
	}

	return d, nil
}

// Load implements the Load method of the bizproc.AggregateStore interface.
// It loads an aggregate from the event store by creating a new aggregate of the
// type with the ID and then applies all events to it, thus making it the most
// current version of the aggregate. An aggregate without events is returned
// at version 0.
func (r *AggregateStore) Load(ctx context.Context, aggregateType bp.AggregateType, id uuid.UUID) (bp.Aggregate, error) {
	agg, err := bp.CreateAggregate(aggregateType, id)
	if err != nil {
		return nil, err
	}

	a, ok := agg.(VersionedAggregate)
	if !ok {
		return nil, ErrAggregateNotVersioned
	}

	events, err := r.store.Load(ctx, a.EntityID())
	if err != nil && !errors.Is(err, bp.ErrAggregateNotFound) {
		return nil, err
	}

	if err := r.applyEvents(ctx, a, events); err != nil {
		return nil, err
	}

	return a, nil
}

// Save implements the Save method of the bizproc.AggregateStore interface.
// It saves all uncommitted events from an aggregate to the event store and
// then publishes them. An error from the bus is returned after the events have
// been stored.
func (r *AggregateStore) Save(ctx context.Context, agg bp.Aggregate) error {
	a, ok := agg.(VersionedAggregate)
	if !ok {
		return ErrAggregateNotVersioned
	}

	events := a.UncommittedEvents()
	if len(events) == 0 {
		return nil
	}

	if err := r.store.Save(ctx, events, a.AggregateVersion()); err != nil {
		return err
	}

	a.ClearUncommittedEvents()

	// Apply the events in case the aggregate needs to be further used
	// after this save.
	if err := r.applyEvents(ctx, a, events); err != nil {
		return err
	}

	for _, e := range events {
		if !r.published(e) {
			continue
		}

		if err := r.bus.HandleEvent(ctx, e); err != nil {
			return err
		}
	}

	return nil
}

func (r *AggregateStore) applyEvents(ctx context.Context, a VersionedAggregate, events []bp.Event) error {
	for _, event := range events {
		if event.AggregateType() != a.AggregateType() {
			return ErrMismatchedEventType
		}

		if err := a.ApplyEvent(ctx, event); err != nil {
			return &ApplyEventError{
				Event: event,
				Err:   err,
			}
		}

		a.SetAggregateVersion(event.Version())
	}

	return nil
}
