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

package bizproc

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/looplab/bizproc/uuid"
)

func TestNewEvent(t *testing.T) {
	timestamp := time.Date(2009, time.November, 10, 23, 0, 0, 0, time.UTC)
	event := NewEvent(TestEventType, &TestEventData{"event1"}, timestamp)

	if event.EventType() != TestEventType {
		t.Error("the event type should be correct:", event.EventType())
	}

	if !reflect.DeepEqual(event.Data(), &TestEventData{"event1"}) {
		t.Error("the data should be correct:", event.Data())
	}

	if !event.Timestamp().Equal(timestamp) {
		t.Error("the timestamp should be correct:", event.Timestamp())
	}

	if event.Version() != 0 {
		t.Error("the version should be zero:", event.Version())
	}

	if event.String() != "TestEvent" {
		t.Error("the string representation should be correct:", event.String())
	}

	id := uuid.New()
	event = NewEvent(TestEventType, &TestEventData{"event1"}, timestamp,
		ForAggregate(TestAggregateType, id, 3),
		WithMetadata(map[string]interface{}{"meta": "data", "num": 42}),
		nil,
	)

	if event.AggregateType() != TestAggregateType {
		t.Error("the aggregate type should be correct:", event.AggregateType())
	}

	if event.AggregateID() != id {
		t.Error("the aggregate ID should be correct:", event.AggregateID())
	}

	if event.Version() != 3 {
		t.Error("the version should be correct:", event.Version())
	}

	if !reflect.DeepEqual(event.Metadata(), map[string]interface{}{
		"meta": "data",
		"num":  42,
	}) {
		t.Error("the metadata should be correct:", event.Metadata())
	}

	if event.String() != "TestEvent("+id.String()+", v3)" {
		t.Error("the string representation should be correct:", event.String())
	}
}

func TestCreateEventData(t *testing.T) {
	data, err := CreateEventData(TestEventRegisterType)
	if !errors.Is(err, ErrEventDataNotRegistered) {
		t.Error("there should be a event not registered error:", err)
	}

	if data != nil {
		t.Error("the data should be nil")
	}

	RegisterEventData(TestEventRegisterType, func() EventData {
		return &TestEventRegisterData{}
	})

	data, err = CreateEventData(TestEventRegisterType)
	if err != nil {
		t.Error("there should be no error:", err)
	}

	if _, ok := data.(*TestEventRegisterData); !ok {
		t.Errorf("the event type should be correct: %T", data)
	}

	UnregisterEventData(TestEventRegisterType)
}

func TestRegisterEventEmptyName(t *testing.T) {
	defer func() {
		if r := recover(); r == nil || r != "bizproc: attempt to register empty event type" {
			t.Error("there should have been a panic:", r)
		}
	}()
	RegisterEventData("", func() EventData {
		return &TestEventRegisterData{}
	})
}

func TestRegisterEventTwice(t *testing.T) {
	defer func() {
		if r := recover(); r == nil || r != "bizproc: registering duplicate types for \"TestEventRegisterTwice\"" {
			t.Error("there should have been a panic:", r)
		}
	}()
	RegisterEventData(TestEventRegisterTwiceType, func() EventData {
		return &TestEventRegisterData{}
	})
	RegisterEventData(TestEventRegisterTwiceType, func() EventData {
		return &TestEventRegisterData{}
	})
}

func TestUnregisterEventTwice(t *testing.T) {
	defer func() {
		if r := recover(); r == nil || r != "bizproc: unregister of non-registered type \"TestEventUnregisterTwice\"" {
			t.Error("there should have been a panic:", r)
		}
	}()
	RegisterEventData(TestEventUnregisterTwiceType, func() EventData {
		return &TestEventRegisterData{}
	})
	UnregisterEventData(TestEventUnregisterTwiceType)
	UnregisterEventData(TestEventUnregisterTwiceType)
}

func TestEventErrors(t *testing.T) {
	id := uuid.New()
	event := NewEvent(TestEventType, nil, time.Now(), ForAggregate(TestAggregateType, id, 1))

	storeErr := &EventStoreError{
		Err:              ErrEventConflictFromOtherSave,
		Op:               EventStoreOpSave,
		AggregateType:    TestAggregateType,
		AggregateID:      id,
		AggregateVersion: 1,
	}
	if storeErr.Error() != "event store: save: event conflict from other save, TestAggregate("+id.String()+", v1)" {
		t.Error("the error message should be correct:", storeErr)
	}

	busErr := &EventBusError{Err: storeErr, Event: event}
	if !errors.Is(busErr, ErrEventConflictFromOtherSave) {
		t.Error("the bus error should unwrap to the store error")
	}

	if busErr.Error() != "event bus: "+storeErr.Error()+" ["+event.String()+"]" {
		t.Error("the error message should be correct:", busErr)
	}

	aggErr := &AggregateError{Err: ErrAggregateNotFound, AggregateType: TestAggregateType, AggregateID: id}
	if !errors.Is(aggErr, ErrAggregateNotFound) {
		t.Error("the aggregate error should unwrap")
	}

	if aggErr.Error() != "TestAggregate("+id.String()+"): aggregate not found" {
		t.Error("the error message should be correct:", aggErr)
	}
}

const (
	TestEventType                EventType = "TestEvent"
	TestEventRegisterType        EventType = "TestEventRegister"
	TestEventRegisterTwiceType   EventType = "TestEventRegisterTwice"
	TestEventUnregisterTwiceType EventType = "TestEventUnregisterTwice"
)

type TestEventData struct {
	Content string
}

type TestEventRegisterData struct{}
