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

package local

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	bp "github.com/looplab/bizproc"
	"github.com/looplab/bizproc/eventbus"
	"github.com/looplab/bizproc/mocks"
	"github.com/looplab/bizproc/uuid"
)

func TestEventBus(t *testing.T) {
	bus := NewEventBus()
	if bus == nil {
		t.Fatal("there should be a bus")
	}

	eventbus.AcceptanceTest(t, bus)
}

func TestEventBus_NestedDepthFirst(t *testing.T) {
	bus := NewEventBus()
	ctx := context.Background()
	id := uuid.New()
	timestamp := time.Date(2009, time.November, 10, 23, 0, 0, 0, time.UTC)
	outer := bp.NewEvent(mocks.EventType, &mocks.EventData{Content: "outer"}, timestamp,
		bp.ForAggregate(mocks.AggregateType, id, 1))
	inner := bp.NewEvent(mocks.EventOtherType, &mocks.EventData{Content: "inner"}, timestamp,
		bp.ForAggregate(mocks.AggregateType, id, 2))

	var order []string
	bus.Use(bp.EventHandlerFunc(func(ctx context.Context, e bp.Event) error {
		order = append(order, "log:"+e.Data().(*mocks.EventData).Content)

		return nil
	}))

	reactor := bp.EventHandlerFunc(func(ctx context.Context, e bp.Event) error {
		return bus.HandleEvent(ctx, inner)
	})
	if err := bus.AddHandler(ctx, bp.MatchEvent(mocks.EventType), reactor); err != nil {
		t.Fatal("there should be no error:", err)
	}

	if err := bus.AddHandler(ctx, bp.MatchAny(), bp.EventHandlerFunc(func(ctx context.Context, e bp.Event) error {
		order = append(order, "tail:"+e.Data().(*mocks.EventData).Content)

		return nil
	})); err != nil {
		t.Fatal("there should be no error:", err)
	}

	if err := bus.HandleEvent(ctx, outer); err != nil {
		t.Error("there should be no error:", err)
	}

	expected := []string{"log:outer", "log:inner", "tail:inner", "tail:outer"}
	if !reflect.DeepEqual(order, expected) {
		t.Error("the delivery order should be depth first:", order)
	}
}

func TestEventBus_Close(t *testing.T) {
	bus := NewEventBus()
	h := mocks.NewEventHandler("handler")
	bus.Use(h)

	if err := bus.Close(); err != nil {
		t.Error("there should be no error:", err)
	}

	event := bp.NewEvent(mocks.EventType, &mocks.EventData{Content: "event"}, time.Now(),
		bp.ForAggregate(mocks.AggregateType, uuid.New(), 1))
	if err := bus.HandleEvent(context.Background(), event); !errors.Is(err, ErrBusClosed) {
		t.Error("there should be a bus closed error:", err)
	}

	if len(h.Events) != 0 {
		t.Error("there should be no events handled:", h.Events)
	}
}

func TestEventBus_MissingEvent(t *testing.T) {
	bus := NewEventBus()
	if err := bus.HandleEvent(context.Background(), nil); !errors.Is(err, bp.ErrMissingEvent) {
		t.Error("there should be a missing event error:", err)
	}
}
