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

// Package catcher records every command and event seen on the buses, in the
// order they were dispatched, so that a whole causal chain can be asserted.
package catcher

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/kr/pretty"

	bp "github.com/looplab/bizproc"
	"github.com/looplab/bizproc/codec/json"
)

// Message is either a command or an event that was caught.
type Message struct {
	Command bp.Command
	Event   bp.Event
}

// Command creates a message for a command.
func Command(cmd bp.Command) Message {
	return Message{Command: cmd}
}

// Event creates a message for an event.
func Event(e bp.Event) Message {
	return Message{Event: e}
}

// String implements the Stringer interface.
func (m Message) String() string {
	switch {
	case m.Command != nil:
		return fmt.Sprintf("%s(%s)", m.Command.CommandType(), m.Command.AggregateID())
	case m.Event != nil:
		return fmt.Sprintf("%s(%s)", m.Event.EventType(), m.Event.AggregateID())
	default:
		return "<empty>"
	}
}

// Catcher is a subscriber for both the command bus and the event bus.
type Catcher struct {
	messages   []Message
	messagesMu sync.RWMutex
}

var (
	_ = bp.EventHandler(&Catcher{})
	_ = bp.CommandHandler(&Catcher{})
)

// New creates a new Catcher.
func New() *Catcher {
	return &Catcher{}
}

// HandlerType implements the HandlerType method of the bizproc.EventHandler interface.
func (c *Catcher) HandlerType() bp.EventHandlerType {
	return "message_catcher"
}

// HandleEvent implements the HandleEvent method of the bizproc.EventHandler interface.
func (c *Catcher) HandleEvent(ctx context.Context, event bp.Event) error {
	c.messagesMu.Lock()
	defer c.messagesMu.Unlock()

	c.messages = append(c.messages, Event(event))

	return nil
}

// HandleCommand implements the HandleCommand method of the bizproc.CommandHandler interface.
func (c *Catcher) HandleCommand(ctx context.Context, cmd bp.Command) error {
	c.messagesMu.Lock()
	defer c.messagesMu.Unlock()

	c.messages = append(c.messages, Command(cmd))

	return nil
}

// Reset forgets all caught messages.
func (c *Catcher) Reset() {
	c.messagesMu.Lock()
	defer c.messagesMu.Unlock()

	c.messages = nil
}

// Messages returns a copy of the caught messages, in order.
func (c *Catcher) Messages() []Message {
	c.messagesMu.RLock()
	defer c.messagesMu.RUnlock()

	messages := make([]Message, len(c.messages))
	copy(messages, c.messages)

	return messages
}

// Events returns the caught events, in order.
func (c *Catcher) Events() []bp.Event {
	var events []bp.Event

	for _, m := range c.Messages() {
		if m.Event != nil {
			events = append(events, m.Event)
		}
	}

	return events
}

// Match returns an error describing every difference between the caught
// messages and the expected ones. Events are compared by type, aggregate,
// data and timestamp; the version is ignored.
func (c *Catcher) Match(expected ...Message) error {
	actual := c.Messages()

	var diffs []string

	if len(actual) != len(expected) {
		diffs = append(diffs, fmt.Sprintf("expected %d messages, got %d: %v", len(expected), len(actual), actual))
	}

	for i := 0; i < len(actual) && i < len(expected); i++ {
		if d := compare(expected[i], actual[i]); d != "" {
			diffs = append(diffs, fmt.Sprintf("message %d (%s): %s", i, expected[i], d))
		}
	}

	if len(diffs) > 0 {
		return fmt.Errorf("incorrect messages:\n%s", strings.Join(diffs, "\n"))
	}

	return nil
}

// Dump writes every caught message as one JSON line. The output can be read
// back with json.NewDecoder.
func (c *Catcher) Dump(ctx context.Context, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, m := range c.Messages() {
		var err error

		switch {
		case m.Command != nil:
			err = enc.EncodeCommand(ctx, m.Command)
		case m.Event != nil:
			err = enc.EncodeEvent(ctx, m.Event)
		default:
			continue
		}

		if err != nil {
			return fmt.Errorf("could not dump %s: %w", m, err)
		}
	}

	return nil
}

func compare(expected, actual Message) string {
	switch {
	case expected.Command != nil:
		if actual.Command == nil {
			return "expected a command, got " + actual.String()
		}

		if !equal(expected.Command, actual.Command) {
			return strings.Join(pretty.Diff(expected.Command, actual.Command), ", ")
		}
	case expected.Event != nil:
		if actual.Event == nil {
			return "expected an event, got " + actual.String()
		}

		e, a := expected.Event, actual.Event

		if e.EventType() != a.EventType() {
			return fmt.Sprintf("incorrect event type: %s (should be %s)", a.EventType(), e.EventType())
		}

		if e.AggregateType() != a.AggregateType() {
			return fmt.Sprintf("incorrect aggregate type: %s (should be %s)", a.AggregateType(), e.AggregateType())
		}

		if e.AggregateID() != a.AggregateID() {
			return fmt.Sprintf("incorrect aggregate id: %s (should be %s)", a.AggregateID(), e.AggregateID())
		}

		if !e.Timestamp().Equal(a.Timestamp()) {
			return fmt.Sprintf("incorrect timestamp: %s (should be %s)", a.Timestamp(), e.Timestamp())
		}

		if !equal(e.Data(), a.Data()) {
			return strings.Join(pretty.Diff(e.Data(), a.Data()), ", ")
		}
	default:
		return "empty expected message"
	}

	return ""
}

// equal compares two payloads with reflect.DeepEqual after normalizing them.
func equal(a, b interface{}) bool {
	return reflect.DeepEqual(normalized(a), normalized(b))
}

// normalized returns a copy of a payload, a pointer to a flat struct, where
// empty slices are nil and times are in UTC without a monotonic reading.
// Anything else is returned as is.
func normalized(v interface{}) interface{} {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return v
	}

	c := reflect.New(rv.Elem().Type()).Elem()
	c.Set(rv.Elem())

	for i := 0; i < c.NumField(); i++ {
		f := c.Field(i)
		if !f.CanSet() {
			continue
		}

		if t, ok := f.Interface().(time.Time); ok {
			f.Set(reflect.ValueOf(t.UTC()))
		} else if f.Kind() == reflect.Slice && f.Len() == 0 {
			f.Set(reflect.Zero(f.Type()))
		}
	}

	return c.Addr().Interface()
}
