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

package mocks

import (
	"context"
	"sync"
	"time"

	bp "github.com/looplab/bizproc"
	"github.com/looplab/bizproc/uuid"
)

func init() {
	bp.RegisterAggregate(func(id uuid.UUID) bp.Aggregate {
		return NewAggregate(id)
	})
	bp.RegisterAggregate(func(id uuid.UUID) bp.Aggregate {
		return NewAggregateOther(id)
	})

	bp.RegisterEventData(EventType, func() bp.EventData { return &EventData{} })
	bp.RegisterEventData(EventOtherType, func() bp.EventData { return &EventData{} })

	bp.RegisterCommand(func() bp.Command { return &Command{} })
	bp.RegisterCommand(func() bp.Command { return &CommandOther{} })
}

const (
	// AggregateType is the type for Aggregate.
	AggregateType bp.AggregateType = "Aggregate"
	// AggregateOtherType is the type for AggregateOther.
	AggregateOtherType bp.AggregateType = "AggregateOther"

	// EventType is a the type for Event.
	EventType bp.EventType = "Event"
	// EventOtherType is the type for EventOther.
	EventOtherType bp.EventType = "EventOther"

	// CommandType is the type for Command.
	CommandType bp.CommandType = "Command"
	// CommandOtherType is the type for CommandOther.
	CommandOtherType bp.CommandType = "CommandOther"
)

// Aggregate is a mocked event sourced aggregate, useful in testing.
type Aggregate struct {
	ID       uuid.UUID
	Version  int
	Commands []bp.Command
	Events   []bp.Event
	Context  context.Context
	// Used to simulate errors in HandleCommand.
	Err error
	// Used to simulate errors in ApplyEvent.
	ApplyErr error

	aggregateType bp.AggregateType
	uncommitted   []bp.Event
}

var _ = bp.Aggregate(&Aggregate{})

// NewAggregate returns a new Aggregate.
func NewAggregate(id uuid.UUID) *Aggregate {
	return &Aggregate{
		ID:            id,
		Commands:      []bp.Command{},
		Events:        []bp.Event{},
		aggregateType: AggregateType,
	}
}

// NewAggregateOther returns a new Aggregate of the other type.
func NewAggregateOther(id uuid.UUID) *Aggregate {
	a := NewAggregate(id)
	a.aggregateType = AggregateOtherType

	return a
}

// EntityID implements the EntityID method of the bizproc.Aggregate interface.
func (a *Aggregate) EntityID() uuid.UUID {
	return a.ID
}

// AggregateType implements the AggregateType method of the bizproc.Aggregate interface.
func (a *Aggregate) AggregateType() bp.AggregateType {
	return a.aggregateType
}

// AggregateVersion implements the AggregateVersion method of the
// events.VersionedAggregate interface.
func (a *Aggregate) AggregateVersion() int {
	return a.Version
}

// SetAggregateVersion implements the SetAggregateVersion method of the
// events.VersionedAggregate interface.
func (a *Aggregate) SetAggregateVersion(v int) {
	a.Version = v
}

// UncommittedEvents implements the UncommittedEvents method of the
// events.VersionedAggregate interface.
func (a *Aggregate) UncommittedEvents() []bp.Event {
	return a.uncommitted
}

// ClearUncommittedEvents implements the ClearUncommittedEvents method of the
// events.VersionedAggregate interface.
func (a *Aggregate) ClearUncommittedEvents() {
	a.uncommitted = nil
}

// AppendEvent stores an uncommitted event for the next version.
func (a *Aggregate) AppendEvent(t bp.EventType, data bp.EventData, timestamp time.Time) bp.Event {
	e := bp.NewEvent(t, data, timestamp,
		bp.ForAggregate(a.aggregateType, a.ID, a.Version+len(a.uncommitted)+1))
	a.uncommitted = append(a.uncommitted, e)

	return e
}

// HandleCommand implements the HandleCommand method of the bizproc.Aggregate interface.
func (a *Aggregate) HandleCommand(ctx context.Context, cmd bp.Command) error {
	if a.Err != nil {
		return a.Err
	}

	a.Commands = append(a.Commands, cmd)
	a.Context = ctx

	if c, ok := cmd.(*Command); ok {
		a.AppendEvent(EventType, &EventData{Content: c.Content}, time.Now())
	}

	return nil
}

// ApplyEvent implements the ApplyEvent method of the events.VersionedAggregate interface.
func (a *Aggregate) ApplyEvent(ctx context.Context, event bp.Event) error {
	if a.ApplyErr != nil {
		return a.ApplyErr
	}

	a.Events = append(a.Events, event)
	a.Context = ctx

	return nil
}

// EventData is a mocked event data, useful in testing.
type EventData struct {
	Content string `json:"content" bson:"content"`
}

// Command is a mocked bizproc.Command, useful in testing.
type Command struct {
	ID      uuid.UUID `json:"id"`
	Content string    `json:"content"`
}

var _ = bp.Command(&Command{})

func (t *Command) AggregateID() uuid.UUID          { return t.ID }
func (t *Command) AggregateType() bp.AggregateType { return AggregateType }
func (t *Command) CommandType() bp.CommandType     { return CommandType }

// CommandOther is a mocked bizproc.Command, useful in testing.
type CommandOther struct {
	ID      uuid.UUID `json:"id"`
	Content string    `json:"content" bizproc:"optional"`
}

var _ = bp.Command(&CommandOther{})

func (t *CommandOther) AggregateID() uuid.UUID          { return t.ID }
func (t *CommandOther) AggregateType() bp.AggregateType { return AggregateType }
func (t *CommandOther) CommandType() bp.CommandType     { return CommandOtherType }

// CommandHandler is a mocked bizproc.CommandHandler, useful in testing.
type CommandHandler struct {
	sync.RWMutex
	Commands []bp.Command
	Context  context.Context
	// Used to simulate errors when handling.
	Err error
}

var _ = bp.CommandHandler(&CommandHandler{})

// HandleCommand implements the HandleCommand method of the bizproc.CommandHandler interface.
func (h *CommandHandler) HandleCommand(ctx context.Context, cmd bp.Command) error {
	h.Lock()
	defer h.Unlock()

	if h.Err != nil {
		return h.Err
	}

	h.Commands = append(h.Commands, cmd)
	h.Context = ctx

	return nil
}

// EventHandler is a mocked bizproc.EventHandler, useful in testing.
type EventHandler struct {
	sync.RWMutex
	Type    string
	Events  []bp.Event
	Context context.Context
	Time    time.Time
	Recv    chan bp.Event
	// Used to simulate errors when handling.
	Err error
}

var _ = bp.EventHandler(&EventHandler{})

// NewEventHandler creates a new EventHandler.
func NewEventHandler(handlerType string) *EventHandler {
	return &EventHandler{
		Type:    handlerType,
		Events:  []bp.Event{},
		Context: context.Background(),
		Recv:    make(chan bp.Event, 10),
	}
}

// HandlerType implements the HandlerType method of the bizproc.EventHandler interface.
func (m *EventHandler) HandlerType() bp.EventHandlerType {
	return bp.EventHandlerType(m.Type)
}

// HandleEvent implements the HandleEvent method of the bizproc.EventHandler interface.
func (m *EventHandler) HandleEvent(ctx context.Context, event bp.Event) error {
	m.Lock()
	defer m.Unlock()

	if m.Err != nil {
		return m.Err
	}

	m.Events = append(m.Events, event)
	m.Context = ctx
	m.Time = time.Now()

	select {
	case m.Recv <- event:
	default:
	}

	return nil
}

// Reset resets the mock data.
func (m *EventHandler) Reset() {
	m.Lock()
	defer m.Unlock()

	m.Events = []bp.Event{}
	m.Context = context.Background()
	m.Time = time.Time{}
}

// Wait is a helper to wait some duration until for an event to be handled.
func (m *EventHandler) Wait(d time.Duration) bool {
	select {
	case <-m.Recv:
		return true
	case <-time.After(d):
		return false
	}
}

// AggregateStore is a mocked bizproc.AggregateStore, useful in testing.
type AggregateStore struct {
	Aggregates map[uuid.UUID]bp.Aggregate
	Context    context.Context
	// Used to simulate errors in the store.
	Err error
}

var _ = bp.AggregateStore(&AggregateStore{})

// Load implements the Load method of the bizproc.AggregateStore interface.
func (m *AggregateStore) Load(ctx context.Context, aggregateType bp.AggregateType, id uuid.UUID) (bp.Aggregate, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.Context = ctx

	return m.Aggregates[id], nil
}

// Save implements the Save method of the bizproc.AggregateStore interface.
func (m *AggregateStore) Save(ctx context.Context, aggregate bp.Aggregate) error {
	if m.Err != nil {
		return m.Err
	}

	m.Context = ctx
	m.Aggregates[aggregate.EntityID()] = aggregate

	return nil
}

// EventStore is a mocked bizproc.EventStore, useful in testing.
type EventStore struct {
	Events  []bp.Event
	Context context.Context
	// Used to simulate errors in the store.
	Err error
}

var _ = bp.EventStore(&EventStore{})

// Save implements the Save method of the bizproc.EventStore interface.
func (m *EventStore) Save(ctx context.Context, events []bp.Event, originalVersion int) error {
	if m.Err != nil {
		return m.Err
	}

	m.Events = append(m.Events, events...)
	m.Context = ctx

	return nil
}

// Load implements the Load method of the bizproc.EventStore interface.
func (m *EventStore) Load(ctx context.Context, id uuid.UUID) ([]bp.Event, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.Context = ctx

	var events []bp.Event

	for _, e := range m.Events {
		if e.AggregateID() == id {
			events = append(events, e)
		}
	}

	if len(events) == 0 {
		return nil, &bp.EventStoreError{
			Err:         bp.ErrAggregateNotFound,
			Op:          bp.EventStoreOpLoad,
			AggregateID: id,
		}
	}

	return events, nil
}

// Close implements the Close method of the bizproc.EventStore interface.
func (m *EventStore) Close() error {
	return nil
}

// EventBus is a mocked bizproc.EventBus, useful in testing.
type EventBus struct {
	Events   []bp.Event
	Context  context.Context
	Handlers []bp.EventHandler
	// Used to simulate errors in HandleEvent.
	Err error
}

var _ = bp.EventBus(&EventBus{})

// HandlerType implements the HandlerType method of the bizproc.EventHandler interface.
func (b *EventBus) HandlerType() bp.EventHandlerType {
	return "eventbus"
}

// HandleEvent implements the HandleEvent method of the bizproc.EventHandler interface.
func (b *EventBus) HandleEvent(ctx context.Context, event bp.Event) error {
	if b.Err != nil {
		return b.Err
	}

	b.Events = append(b.Events, event)
	b.Context = ctx

	return nil
}

// AddHandler implements the AddHandler method of the bizproc.EventBus interface.
func (b *EventBus) AddHandler(ctx context.Context, m bp.EventMatcher, h bp.EventHandler) error {
	b.Handlers = append(b.Handlers, h)

	return nil
}

// Use implements the Use method of the bizproc.EventBus interface.
func (b *EventBus) Use(h bp.EventHandler) {
	b.Handlers = append(b.Handlers, h)
}

// Close implements the Close method of the bizproc.EventBus interface.
func (b *EventBus) Close() error {
	return nil
}

type contextKey int

const (
	contextKeyOne contextKey = iota
)

// The string key used to marshal contextKeyOne.
const contextKeyOneStr = "context_one"

func init() {
	bp.RegisterContextCodec(contextKeyOneStr, bp.ContextCodecFuncs{
		Marshal: func(ctx context.Context) (interface{}, bool) {
			return ContextOne(ctx)
		},
		Unmarshal: func(ctx context.Context, v interface{}) context.Context {
			if val, ok := v.(string); ok {
				return WithContextOne(ctx, val)
			}

			return ctx
		},
	})
}

// WithContextOne sets a value for One one the context.
func WithContextOne(ctx context.Context, val string) context.Context {
	return context.WithValue(ctx, contextKeyOne, val)
}

// ContextOne returns a value for One from the context.
func ContextOne(ctx context.Context) (string, bool) {
	val, ok := ctx.Value(contextKeyOne).(string)

	return val, ok
}
