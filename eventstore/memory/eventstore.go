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

package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jinzhu/copier"

	bp "github.com/looplab/bizproc"
	"github.com/looplab/bizproc/uuid"
)

// EventStore implements EventStore as an in memory structure. Each aggregate
// stream is appended with an optimistic version check.
type EventStore struct {
	streams   map[uuid.UUID]*aggregateRecord
	streamsMu sync.RWMutex
}

type aggregateRecord struct {
	aggregateType bp.AggregateType
	events        []bp.Event
}

// NewEventStore creates a new EventStore using memory as storage.
func NewEventStore() *EventStore {
	return &EventStore{
		streams: map[uuid.UUID]*aggregateRecord{},
	}
}

// Save implements the Save method of the bizproc.EventStore interface.
func (s *EventStore) Save(ctx context.Context, events []bp.Event, originalVersion int) error {
	if len(events) == 0 {
		return &bp.EventStoreError{
			Err: bp.ErrMissingEvents,
			Op:  bp.EventStoreOpSave,
		}
	}

	id := events[0].AggregateID()
	at := events[0].AggregateType()

	// Build all event records, with incrementing versions starting from the
	// original aggregate version.
	stored := make([]bp.Event, len(events))
	version := originalVersion

	for i, event := range events {
		if event.AggregateID() != id {
			return &bp.EventStoreError{
				Err:              bp.ErrMismatchedEventAggregateIDs,
				Op:               bp.EventStoreOpSave,
				AggregateType:    at,
				AggregateID:      id,
				AggregateVersion: originalVersion,
				Events:           events,
			}
		}

		if event.AggregateType() != at {
			return &bp.EventStoreError{
				Err:              bp.ErrMismatchedEventAggregateTypes,
				Op:               bp.EventStoreOpSave,
				AggregateType:    at,
				AggregateID:      id,
				AggregateVersion: originalVersion,
				Events:           events,
			}
		}

		// Only accept events that apply to the correct aggregate version.
		if event.Version() != version+1 {
			return &bp.EventStoreError{
				Err:              bp.ErrIncorrectEventVersion,
				Op:               bp.EventStoreOpSave,
				AggregateType:    at,
				AggregateID:      id,
				AggregateVersion: originalVersion,
				Events:           events,
			}
		}

		e, err := copyEvent(event)
		if err != nil {
			return &bp.EventStoreError{
				Err:              err,
				Op:               bp.EventStoreOpSave,
				AggregateType:    at,
				AggregateID:      id,
				AggregateVersion: originalVersion,
				Events:           events,
			}
		}

		stored[i] = e
		version++
	}

	s.streamsMu.Lock()
	defer s.streamsMu.Unlock()

	r, ok := s.streams[id]
	if !ok {
		r = &aggregateRecord{aggregateType: at}
	}

	if len(r.events) != originalVersion || r.aggregateType != at {
		return &bp.EventStoreError{
			Err:              bp.ErrEventConflictFromOtherSave,
			Op:               bp.EventStoreOpSave,
			AggregateType:    at,
			AggregateID:      id,
			AggregateVersion: originalVersion,
			Events:           events,
		}
	}

	r.events = append(r.events, stored...)
	s.streams[id] = r

	return nil
}

// Load implements the Load method of the bizproc.EventStore interface.
func (s *EventStore) Load(ctx context.Context, id uuid.UUID) ([]bp.Event, error) {
	s.streamsMu.RLock()
	defer s.streamsMu.RUnlock()

	r, ok := s.streams[id]
	if !ok {
		return nil, &bp.EventStoreError{
			Err:         bp.ErrAggregateNotFound,
			Op:          bp.EventStoreOpLoad,
			AggregateID: id,
		}
	}

	events := make([]bp.Event, len(r.events))

	for i, event := range r.events {
		e, err := copyEvent(event)
		if err != nil {
			return nil, &bp.EventStoreError{
				Err:              err,
				Op:               bp.EventStoreOpLoad,
				AggregateType:    r.aggregateType,
				AggregateID:      id,
				AggregateVersion: event.Version(),
			}
		}

		events[i] = e
	}

	return events, nil
}

// Close implements the Close method of the bizproc.EventStore interface.
func (s *EventStore) Close() error {
	return nil
}

// copyEvent duplicates an event so that stored events can not be mutated
// through the slices handed out to callers.
func copyEvent(event bp.Event) (bp.Event, error) {
	var data bp.EventData

	// Copy data if there is any.
	if event.Data() != nil {
		var err error
		if data, err = bp.CreateEventData(event.EventType()); err != nil {
			return nil, fmt.Errorf("could not create event data: %w", err)
		}

		if err := copier.Copy(data, event.Data()); err != nil {
			return nil, fmt.Errorf("could not copy event data: %w", err)
		}
	}

	metadata := make(map[string]interface{}, len(event.Metadata()))
	for k, v := range event.Metadata() {
		metadata[k] = v
	}

	return bp.NewEvent(
		event.EventType(),
		data,
		event.Timestamp(),
		bp.ForAggregate(
			event.AggregateType(),
			event.AggregateID(),
			event.Version(),
		),
		bp.WithMetadata(metadata),
	), nil
}
