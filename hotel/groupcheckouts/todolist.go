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

package groupcheckouts

import (
	"context"
	"fmt"

	bp "github.com/looplab/bizproc"
	"github.com/looplab/bizproc/commandhandler/aggregate"
	"github.com/looplab/bizproc/eventhandler/saga"
	"github.com/looplab/bizproc/hotel/guests"
	"github.com/looplab/bizproc/uuid"
)

// SagaType is the type of the group checkout to-do list.
const SagaType = saga.Type("group_checkout_todo_list")

// ToDoList is the process manager of group checkouts. Initiating a group
// checkout stores the list of participants; the to-do list then asks every
// guest stay to check out and records each outcome as it arrives, until the
// group checkout completes or fails.
type ToDoList struct {
	store    bp.AggregateStore
	initiate bp.CommandHandler
	record   bp.CommandHandler
}

var _ = saga.Saga(&ToDoList{})

// Option is an option setter used to configure creation.
type Option func(*options)

type options struct {
	initiate []bp.CommandHandlerMiddleware
	record   []bp.CommandHandlerMiddleware
}

// WithInitiateMiddleware wraps the handling of InitiateGroupCheckout.
func WithInitiateMiddleware(m ...bp.CommandHandlerMiddleware) Option {
	return func(o *options) {
		o.initiate = append(o.initiate, m...)
	}
}

// WithOutcomeMiddleware wraps the recording of guest checkout outcomes. It
// runs nested inside the initiation when delivery is synchronous, so it must
// not hold per aggregate locks.
func WithOutcomeMiddleware(m ...bp.CommandHandlerMiddleware) Option {
	return func(o *options) {
		o.record = append(o.record, m...)
	}
}

// NewToDoList creates a to-do list loading and saving group checkouts in store.
func NewToDoList(store bp.AggregateStore, opts ...Option) (*ToDoList, error) {
	h, err := aggregate.NewCommandHandler(AggregateType, store)
	if err != nil {
		return nil, fmt.Errorf("could not create command handler: %w", err)
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	return &ToDoList{
		store:    store,
		initiate: bp.UseCommandHandlerMiddleware(h, o.initiate...),
		record:   bp.UseCommandHandlerMiddleware(h, o.record...),
	}, nil
}

// Matcher matches the events the to-do list reacts to: initiations, and guest
// stay outcomes that belong to a group checkout.
func Matcher() bp.EventMatcher {
	return bp.MatchAnyOf(
		bp.MatchEvent(GroupCheckoutInitiated),
		bp.MatchEventData(func(d *guests.CheckedOutData) bool {
			return d.GroupCheckoutID != uuid.Nil
		}),
		bp.MatchEventData(func(d *guests.CheckOutFailedData) bool {
			return d.GroupCheckoutID != uuid.Nil
		}),
	)
}

// SagaType implements the SagaType method of the saga.Saga interface.
func (l *ToDoList) SagaType() saga.Type {
	return SagaType
}

// InitiateGroupCheckout starts a group checkout. The check outs of the guest
// stays follow from the published GroupCheckoutInitiated event.
func (l *ToDoList) InitiateGroupCheckout(ctx context.Context, cmd *InitiateGroupCheckout) error {
	return l.initiate.HandleCommand(ctx, cmd)
}

// RunSaga implements the RunSaga method of the saga.Saga interface.
func (l *ToDoList) RunSaga(ctx context.Context, event bp.Event, h bp.CommandHandler) error {
	switch data := event.Data().(type) {
	case *InitiatedData:
		summary, err := l.Status(ctx, event.AggregateID())
		if err != nil {
			return fmt.Errorf("could not load group checkout: %w", err)
		}

		// Stays with a recorded outcome are not checked out again.
		resolved := make(map[uuid.UUID]bool, len(summary.CheckedOut)+len(summary.Failed))
		for _, id := range append(summary.CheckedOut, summary.Failed...) {
			resolved[id] = true
		}

		for _, id := range data.GuestStayIDs {
			if resolved[id] {
				continue
			}

			if err := h.HandleCommand(ctx, &guests.CheckOutGuest{
				GuestStayID:     id,
				Time:            event.Timestamp(),
				GroupCheckoutID: event.AggregateID(),
			}); err != nil {
				return fmt.Errorf("could not check out guest stay %s: %w", id, err)
			}
		}
	case *guests.CheckedOutData:
		return l.recordOutcome(ctx, event, data.GroupCheckoutID, CheckedOut)
	case *guests.CheckOutFailedData:
		return l.recordOutcome(ctx, event, data.GroupCheckoutID, Failed)
	}

	return nil
}

func (l *ToDoList) recordOutcome(ctx context.Context, event bp.Event, groupCheckoutID uuid.UUID, outcome Outcome) error {
	if groupCheckoutID == uuid.Nil {
		return nil
	}

	return l.record.HandleCommand(ctx, &RecordGuestCheckoutOutcome{
		GroupCheckoutID: groupCheckoutID,
		GuestStayID:     event.AggregateID(),
		Outcome:         outcome,
		Time:            event.Timestamp(),
	})
}

// Status returns the current state of a group checkout.
func (l *ToDoList) Status(ctx context.Context, id uuid.UUID) (Summary, error) {
	agg, err := l.store.Load(ctx, AggregateType, id)
	if err != nil {
		return Summary{}, err
	}

	a, ok := agg.(*GroupCheckout)
	if !ok {
		return Summary{}, fmt.Errorf("incorrect aggregate type: %T", agg)
	}

	if a.AggregateVersion() == 0 {
		return Summary{}, bp.ErrAggregateNotFound
	}

	return a.Summary(), nil
}
