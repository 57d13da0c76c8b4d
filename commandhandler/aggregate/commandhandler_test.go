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

package aggregate

import (
	"context"
	"errors"
	"reflect"
	"testing"

	bp "github.com/looplab/bizproc"
	"github.com/looplab/bizproc/mocks"
	"github.com/looplab/bizproc/uuid"
)

type contextKey string

func TestNewCommandHandler(t *testing.T) {
	store := &mocks.AggregateStore{
		Aggregates: make(map[uuid.UUID]bp.Aggregate),
	}

	handler, err := NewCommandHandler(mocks.AggregateType, store)
	if err != nil {
		t.Error("there should be no error:", err)
	}
	if handler == nil {
		t.Error("there should be a handler")
	}

	handler, err = NewCommandHandler(mocks.AggregateType, nil)
	if !errors.Is(err, ErrNilAggregateStore) {
		t.Error("there should be a ErrNilAggregateStore error:", err)
	}
	if handler != nil {
		t.Error("there should be no handler:", handler)
	}
}

func TestCommandHandler(t *testing.T) {
	aggregate, handler, store := createAggregateAndHandler(t)

	ctx := context.WithValue(context.Background(), contextKey("testkey"), "testval")

	cmd := &mocks.Command{
		ID:      aggregate.EntityID(),
		Content: "command1",
	}
	if err := handler.HandleCommand(ctx, cmd); err != nil {
		t.Error("there should be no error:", err)
	}
	if !reflect.DeepEqual(aggregate.Commands, []bp.Command{cmd}) {
		t.Error("the handeled command should be correct:", aggregate.Commands)
	}
	if val, ok := aggregate.Context.Value(contextKey("testkey")).(string); !ok || val != "testval" {
		t.Error("the context should be correct:", aggregate.Context)
	}
	if val, ok := store.Context.Value(contextKey("testkey")).(string); !ok || val != "testval" {
		t.Error("the store context should be correct:", store.Context)
	}
}

func TestCommandHandler_AggregateNotFound(t *testing.T) {
	store := &mocks.AggregateStore{
		Aggregates: map[uuid.UUID]bp.Aggregate{},
	}

	handler, err := NewCommandHandler(mocks.AggregateType, store)
	if err != nil {
		t.Fatal("there should be no error:", err)
	}

	cmd := &mocks.Command{
		ID:      uuid.New(),
		Content: "command1",
	}
	if err := handler.HandleCommand(context.Background(), cmd); !errors.Is(err, bp.ErrAggregateNotFound) {
		t.Error("there should be a ErrAggregateNotFound error:", err)
	}
}

func TestCommandHandler_MissingField(t *testing.T) {
	aggregate, handler, _ := createAggregateAndHandler(t)

	cmd := &mocks.Command{
		ID: aggregate.EntityID(),
	}

	err := handler.HandleCommand(context.Background(), cmd)

	var fieldErr *bp.CommandFieldError
	if !errors.As(err, &fieldErr) || fieldErr.Field != "Content" {
		t.Error("there should be a missing field error:", err)
	}
	if len(aggregate.Commands) != 0 {
		t.Error("the command should not be handled:", aggregate.Commands)
	}
}

func TestCommandHandler_ErrorInHandler(t *testing.T) {
	aggregate, handler, _ := createAggregateAndHandler(t)

	commandErr := errors.New("command error")
	aggregate.Err = commandErr
	cmd := &mocks.Command{
		ID:      aggregate.EntityID(),
		Content: "command1",
	}

	err := handler.HandleCommand(context.Background(), cmd)

	var aggErr *bp.AggregateError
	if !errors.As(err, &aggErr) || !errors.Is(err, commandErr) {
		t.Error("there should be an aggregate error:", err)
	}
	if aggErr != nil && aggErr.AggregateID != aggregate.EntityID() {
		t.Error("the aggregate ID should be correct:", aggErr.AggregateID)
	}
	if !reflect.DeepEqual(aggregate.Commands, []bp.Command{}) {
		t.Error("the handeled command should be correct:", aggregate.Commands)
	}
}

func TestCommandHandler_ErrorWhenSaving(t *testing.T) {
	aggregate, handler, store := createAggregateAndHandler(t)

	store.Err = errors.New("save error")
	cmd := &mocks.Command{
		ID:      aggregate.EntityID(),
		Content: "command1",
	}
	if err := handler.HandleCommand(context.Background(), cmd); err == nil || err.Error() != "save error" {
		t.Error("there should be a command error:", err)
	}
}

func BenchmarkCommandHandler(b *testing.B) {
	aggregate := mocks.NewAggregate(uuid.New())
	store := &mocks.AggregateStore{
		Aggregates: map[uuid.UUID]bp.Aggregate{
			aggregate.EntityID(): aggregate,
		},
	}

	handler, err := NewCommandHandler(mocks.AggregateType, store)
	if err != nil {
		b.Fatal("there should be no error:", err)
	}

	ctx := context.Background()

	cmd := &mocks.Command{
		ID:      aggregate.EntityID(),
		Content: "command1",
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if err := handler.HandleCommand(ctx, cmd); err != nil {
			b.Error("there should be no error:", err)
		}
	}

	if len(aggregate.Commands) != b.N {
		b.Error("the num handled commands should be correct:", len(aggregate.Commands), b.N)
	}
}

func createAggregateAndHandler(t *testing.T) (*mocks.Aggregate, *CommandHandler, *mocks.AggregateStore) {
	t.Helper()

	aggregate := mocks.NewAggregate(uuid.New())
	store := &mocks.AggregateStore{
		Aggregates: map[uuid.UUID]bp.Aggregate{
			aggregate.EntityID(): aggregate,
		},
	}

	handler, err := NewCommandHandler(mocks.AggregateType, store)
	if err != nil {
		t.Fatal("there should be no error:", err)
	}

	return aggregate, handler, store
}
