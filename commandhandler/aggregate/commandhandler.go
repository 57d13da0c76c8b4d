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

	bp "github.com/looplab/bizproc"
)

// ErrNilAggregateStore is when a dispatcher is created with a nil aggregate store.
var ErrNilAggregateStore = errors.New("aggregate store is nil")

// CommandHandler dispatches commands to an aggregate.
//
// The dispatch process is as follows:
// 1. The handler receives a command.
// 2. An aggregate is created or loaded using an aggregate store.
// 3. The aggregate's command handler is called.
// 4. The aggregate stores events in response to the command.
// 5. The new events are stored in the event store.
// 6. The events are published on the event bus after a successful store.
type CommandHandler struct {
	t     bp.AggregateType
	store bp.AggregateStore
}

// NewCommandHandler creates a new CommandHandler for an aggregate type.
func NewCommandHandler(t bp.AggregateType, store bp.AggregateStore) (*CommandHandler, error) {
	if store == nil {
		return nil, ErrNilAggregateStore
	}

	h := &CommandHandler{
		t:     t,
		store: store,
	}

	return h, nil
}

// HandleCommand handles a command with the registered aggregate.
// Returns ErrAggregateNotFound if no aggregate could be found. Errors from the
// aggregate itself are returned as a *bizproc.AggregateError.
func (h *CommandHandler) HandleCommand(ctx context.Context, cmd bp.Command) error {
	if err := bp.CheckCommand(cmd); err != nil {
		return err
	}

	a, err := h.store.Load(ctx, h.t, cmd.AggregateID())
	if err != nil {
		return err
	} else if a == nil {
		return bp.ErrAggregateNotFound
	}

	if err = a.HandleCommand(ctx, cmd); err != nil {
		return &bp.AggregateError{
			Err:           err,
			AggregateType: h.t,
			AggregateID:   cmd.AggregateID(),
		}
	}

	return h.store.Save(ctx, a)
}
