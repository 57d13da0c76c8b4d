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

package eventstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	bp "github.com/looplab/bizproc"
	"github.com/looplab/bizproc/mocks"
	"github.com/looplab/bizproc/uuid"
)

// AcceptanceTest is the acceptance test that all implementations of EventStore
// should pass. It should manually be called from a test case in each
// implementation:
//
//	func TestEventStore(t *testing.T) {
//	    store := NewEventStore()
//	    eventstore.AcceptanceTest(t, store, context.Background())
//	}
func AcceptanceTest(t *testing.T, store bp.EventStore, ctx context.Context) []bp.Event {
	savedEvents := []bp.Event{}

	type contextKey string

	ctx = context.WithValue(ctx, contextKey("testkey"), "testval")

	// Save no events.
	eventStoreErr := &bp.EventStoreError{}

	err := store.Save(ctx, []bp.Event{}, 0)
	if !errors.As(err, &eventStoreErr) || !errors.Is(err, bp.ErrMissingEvents) {
		t.Error("there should be a event store error:", err)
	}

	// Save event, version 1.
	id := uuid.New()
	timestamp := time.Date(2009, time.November, 10, 23, 0, 0, 0, time.UTC)
	event1 := bp.NewEvent(mocks.EventType, &mocks.EventData{Content: "event1"}, timestamp,
		bp.ForAggregate(mocks.AggregateType, id, 1))

	if err := store.Save(ctx, []bp.Event{event1}, 0); err != nil {
		t.Error("there should be no error:", err)
	}

	savedEvents = append(savedEvents, event1)

	// Try to save same event twice.
	err = store.Save(ctx, []bp.Event{event1}, 1)
	if !errors.As(err, &eventStoreErr) || !errors.Is(err, bp.ErrIncorrectEventVersion) {
		t.Error("there should be a event store error:", err)
	}

	// Try to save the next version from a stale original version.
	eventStale := bp.NewEvent(mocks.EventType, &mocks.EventData{Content: "stale"}, timestamp,
		bp.ForAggregate(mocks.AggregateType, id, 1))

	err = store.Save(ctx, []bp.Event{eventStale}, 0)
	if !errors.As(err, &eventStoreErr) || !errors.Is(err, bp.ErrEventConflictFromOtherSave) {
		t.Error("there should be a conflict error:", err)
	}

	// Save event, version 2, with metadata.
	event2 := bp.NewEvent(mocks.EventType, &mocks.EventData{Content: "event2"}, timestamp,
		bp.ForAggregate(mocks.AggregateType, id, 2),
		bp.WithMetadata(map[string]interface{}{"meta": "data", "num": 42.0}),
	)

	if err := store.Save(ctx, []bp.Event{event2}, 1); err != nil {
		t.Error("there should be no error:", err)
	}

	savedEvents = append(savedEvents, event2)

	// Save event without data, version 3.
	event3 := bp.NewEvent(mocks.EventOtherType, nil, timestamp,
		bp.ForAggregate(mocks.AggregateType, id, 3))

	if err := store.Save(ctx, []bp.Event{event3}, 2); err != nil {
		t.Error("there should be no error:", err)
	}

	savedEvents = append(savedEvents, event3)

	// Save multiple events, version 4,5 and 6.
	event4 := bp.NewEvent(mocks.EventOtherType, nil, timestamp,
		bp.ForAggregate(mocks.AggregateType, id, 4))
	event5 := bp.NewEvent(mocks.EventOtherType, nil, timestamp,
		bp.ForAggregate(mocks.AggregateType, id, 5))
	event6 := bp.NewEvent(mocks.EventOtherType, nil, timestamp,
		bp.ForAggregate(mocks.AggregateType, id, 6))

	if err := store.Save(ctx, []bp.Event{event4, event5, event6}, 3); err != nil {
		t.Error("there should be no error:", err)
	}

	savedEvents = append(savedEvents, event4, event5, event6)

	// Save event for different aggregate IDs.
	eventSameAggID := bp.NewEvent(mocks.EventOtherType, nil, timestamp,
		bp.ForAggregate(mocks.AggregateType, id, 7))
	eventOtherAggID := bp.NewEvent(mocks.EventOtherType, nil, timestamp,
		bp.ForAggregate(mocks.AggregateType, uuid.New(), 8))

	err = store.Save(ctx, []bp.Event{eventSameAggID, eventOtherAggID}, 6)
	if !errors.As(err, &eventStoreErr) || !errors.Is(err, bp.ErrMismatchedEventAggregateIDs) {
		t.Error("there should be a event store error:", err)
	}

	// Save event of different aggregate types.
	eventSameAggType := bp.NewEvent(mocks.EventOtherType, nil, timestamp,
		bp.ForAggregate(mocks.AggregateType, id, 7))
	eventOtherAggType := bp.NewEvent(mocks.EventOtherType, nil, timestamp,
		bp.ForAggregate(bp.AggregateType("OtherAggregate"), id, 8))

	err = store.Save(ctx, []bp.Event{eventSameAggType, eventOtherAggType}, 6)
	if !errors.As(err, &eventStoreErr) || !errors.Is(err, bp.ErrMismatchedEventAggregateTypes) {
		t.Error("there should be a event store error:", err)
	}

	// Save event for another aggregate.
	id2 := uuid.New()
	event7 := bp.NewEvent(mocks.EventType, &mocks.EventData{Content: "event7"}, timestamp,
		bp.ForAggregate(mocks.AggregateType, id2, 1))

	if err := store.Save(ctx, []bp.Event{event7}, 0); err != nil {
		t.Error("there should be no error:", err)
	}

	savedEvents = append(savedEvents, event7)

	// Load events for non-existing aggregate.
	events, err := store.Load(ctx, uuid.New())
	if !errors.As(err, &eventStoreErr) || !errors.Is(err, bp.ErrAggregateNotFound) {
		t.Error("there should be a not found error:", err)
	}

	if len(events) != 0 {
		t.Error("there should be no loaded events:", eventsToString(events))
	}

	// Load events.
	events, err = store.Load(ctx, id)
	if err != nil {
		t.Error("there should be no error:", err)
	}

	expectedEvents := []bp.Event{
		event1,                 // Version 1
		event2,                 // Version 2
		event3,                 // Version 3
		event4, event5, event6, // Version 4, 5 and 6
	}

	if len(events) != len(expectedEvents) {
		t.Errorf("incorrect number of loaded events: %d", len(events))
	}

	for i, event := range events {
		if err := mocks.CompareEvents(event, expectedEvents[i]); err != nil {
			t.Error("the event was incorrect:", err)
		}

		if event.Version() != i+1 {
			t.Error("the event version should be correct:", event, event.Version())
		}
	}

	if len(events) > 1 {
		assert.Equal(t, "data", events[1].Metadata()["meta"])
		assert.Equal(t, 42.0, events[1].Metadata()["num"])
	}

	// Load events for another aggregate.
	events, err = store.Load(ctx, id2)
	if err != nil {
		t.Error("there should be no error:", err)
	}

	expectedEvents = []bp.Event{event7}

	if len(events) != len(expectedEvents) {
		t.Errorf("incorrect number of loaded events: %d", len(events))
	}

	for i, event := range events {
		if err := mocks.CompareEvents(event, expectedEvents[i]); err != nil {
			t.Error("the event was incorrect:", err)
		}

		if event.Version() != i+1 {
			t.Error("the event version should be correct:", event, event.Version())
		}
	}

	return savedEvents
}

// ConcurrencyAcceptanceTest saves the first version of the same aggregate from
// several goroutines, of which exactly one must succeed.
func ConcurrencyAcceptanceTest(t *testing.T, store bp.EventStore, ctx context.Context) {
	const writers = 8

	id := uuid.New()
	timestamp := time.Date(2009, time.November, 10, 23, 0, 0, 0, time.UTC)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)

	for i := 0; i < writers; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			event := bp.NewEvent(mocks.EventType, &mocks.EventData{Content: fmt.Sprint("writer ", i)}, timestamp,
				bp.ForAggregate(mocks.AggregateType, id, 1))
			err := store.Save(ctx, []bp.Event{event}, 0)

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, bp.ErrEventConflictFromOtherSave):
				conflicts++
			default:
				t.Error("there should be no other error:", err)
			}
		}(i)
	}

	wg.Wait()

	assert.Equal(t, 1, succeeded, "exactly one save should succeed")
	assert.Equal(t, writers-1, conflicts, "all other saves should conflict")

	events, err := store.Load(ctx, id)
	if err != nil {
		t.Error("there should be no error:", err)
	}

	if len(events) != 1 {
		t.Error("there should be one stored event:", eventsToString(events))
	}
}

func eventsToString(events []bp.Event) string {
	parts := make([]string, len(events))
	for i, e := range events {
		parts[i] = fmt.Sprintf("%s:%s (%s@%d)",
			e.AggregateType(), e.EventType(),
			e.AggregateID(), e.Version())
	}

	return strings.Join(parts, ", ")
}
