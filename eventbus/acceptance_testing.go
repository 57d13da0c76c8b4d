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

package eventbus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kr/pretty"

	bp "github.com/looplab/bizproc"
	"github.com/looplab/bizproc/mocks"
	"github.com/looplab/bizproc/uuid"
)

// AcceptanceTest is the acceptance test that all synchronous implementations
// of EventBus should pass. It should manually be called from a test case in
// each implementation:
//
//	func TestEventBus(t *testing.T) {
//		bus := NewEventBus()
//		eventbus.AcceptanceTest(t, bus)
//	}
func AcceptanceTest(t *testing.T, bus bp.EventBus) {
	if err := bus.AddHandler(context.Background(), nil, mocks.NewEventHandler("no-matcher")); !errors.Is(err, bp.ErrMissingMatcher) {
		t.Error("there should be a missing matcher error:", err)
	}

	if err := bus.AddHandler(context.Background(), bp.MatchAny(), nil); !errors.Is(err, bp.ErrMissingHandler) {
		t.Error("there should be a missing handler error:", err)
	}

	if err := bus.AddHandler(context.Background(), bp.MatchAny(), mocks.NewEventHandler("multi")); err != nil {
		t.Error("there should be no error:", err)
	}

	if err := bus.AddHandler(context.Background(), bp.MatchAny(), mocks.NewEventHandler("multi")); !errors.Is(err, bp.ErrHandlerAlreadyAdded) {
		t.Error("there should be a handler already added error:", err)
	}

	ctx := mocks.WithContextOne(context.Background(), "testval")

	id := uuid.MustParse("c1138e5f-f6fb-4dd0-8e79-255c6c8d3756")
	timestamp := time.Date(2009, time.November, 10, 23, 0, 0, 0, time.UTC)
	event1 := bp.NewEvent(mocks.EventType, &mocks.EventData{Content: "event1"}, timestamp,
		bp.ForAggregate(mocks.AggregateType, id, 1))
	event2 := bp.NewEvent(mocks.EventOtherType, &mocks.EventData{Content: "event2"}, timestamp,
		bp.ForAggregate(mocks.AggregateType, id, 2))

	// Add a subscriber, a filtered handler and a handler that mutates its data.
	subscriber := mocks.NewEventHandler("subscriber")
	bus.Use(subscriber)

	handler := mocks.NewEventHandler("handler")
	if err := bus.AddHandler(ctx, bp.MatchEvent(mocks.EventOtherType), handler); err != nil {
		t.Error("there should be no error:", err)
	}

	mutator := bp.EventHandlerFunc(func(ctx context.Context, e bp.Event) error {
		if data, ok := e.Data().(*mocks.EventData); ok {
			data.Content = "mutated"
		}

		return nil
	})
	if err := bus.AddHandler(ctx, bp.MatchAny(), mutator); err != nil {
		t.Error("there should be no error:", err)
	}

	after := mocks.NewEventHandler("after")
	if err := bus.AddHandler(ctx, bp.MatchAny(), after); err != nil {
		t.Error("there should be no error:", err)
	}

	// Delivery is done before returning.
	if err := bus.HandleEvent(ctx, event1); err != nil {
		t.Error("there should be no error:", err)
	}

	if err := bus.HandleEvent(ctx, event2); err != nil {
		t.Error("there should be no error:", err)
	}

	expectedEvents := []bp.Event{event1, event2}
	if !mocks.EqualEvents(subscriber.Events, expectedEvents) {
		t.Error("the subscriber events were incorrect:")
		t.Log(pretty.Sprint(subscriber.Events))
	}

	if !mocks.EqualEvents(handler.Events, []bp.Event{event2}) {
		t.Error("the handler events were incorrect:")
		t.Log(pretty.Sprint(handler.Events))
	}

	if !mocks.EqualEvents(after.Events, expectedEvents) {
		t.Error("a handler should not see the data changes of another:")
		t.Log(pretty.Sprint(after.Events))
	}

	if data := event1.Data().(*mocks.EventData); data.Content != "event1" {
		t.Error("the published event should not be changed:", data.Content)
	}

	if val, ok := mocks.ContextOne(subscriber.Context); !ok || val != "testval" {
		t.Error("the context should be correct:", subscriber.Context)
	}

	// Errors abort the delivery.
	errorHandler := mocks.NewEventHandler("error_handler")
	errorHandler.Err = errors.New("handler error")
	if err := bus.AddHandler(ctx, bp.MatchAny(), errorHandler); err != nil {
		t.Error("there should be no error:", err)
	}

	last := mocks.NewEventHandler("last")
	if err := bus.AddHandler(ctx, bp.MatchAny(), last); err != nil {
		t.Error("there should be no error:", err)
	}

	err := bus.HandleEvent(ctx, event1)

	var busErr *bp.EventBusError
	if !errors.As(err, &busErr) {
		t.Fatal("there should be an event bus error:", err)
	}

	if !errors.Is(err, errorHandler.Err) {
		t.Error("the error should be correct:", err)
	}

	if busErr.Event != event1 {
		t.Error("the event should be correct:", busErr.Event)
	}

	if len(last.Events) != 0 {
		t.Error("handlers after a failing one should not be called:", last.Events)
	}
}
