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

package guests

import (
	"context"
	"errors"
	"fmt"

	bp "github.com/looplab/bizproc"
	"github.com/looplab/bizproc/commandhandler/aggregate"
	"github.com/looplab/bizproc/uuid"
)

// ErrNotGuestCommand is when the facade is given a command for another aggregate type.
var ErrNotGuestCommand = errors.New("not a guest stay account command")

// Facade is the entry point for operating guest stay accounts. Every command
// loads the account from its events, handles the command and saves and
// publishes the new events before returning.
type Facade struct {
	store   bp.AggregateStore
	handler bp.CommandHandler
}

var _ = bp.CommandHandler(&Facade{})

// NewFacade creates a facade loading and saving accounts in store. The
// middleware wraps the handling of every command, outermost first.
func NewFacade(store bp.AggregateStore, middleware ...bp.CommandHandlerMiddleware) (*Facade, error) {
	h, err := aggregate.NewCommandHandler(AggregateType, store)
	if err != nil {
		return nil, fmt.Errorf("could not create command handler: %w", err)
	}

	return &Facade{
		store:   store,
		handler: bp.UseCommandHandlerMiddleware(h, middleware...),
	}, nil
}

// CheckInGuest opens the account of a stay.
func (f *Facade) CheckInGuest(ctx context.Context, cmd *CheckInGuest) error {
	return f.handler.HandleCommand(ctx, cmd)
}

// RecordCharge adds a charge to an open account.
func (f *Facade) RecordCharge(ctx context.Context, cmd *RecordCharge) error {
	return f.handler.HandleCommand(ctx, cmd)
}

// RecordPayment adds a payment to an open account.
func (f *Facade) RecordPayment(ctx context.Context, cmd *RecordPayment) error {
	return f.handler.HandleCommand(ctx, cmd)
}

// CheckOutGuest closes a settled account. A refused check out is not an
// error, it is recorded as a GuestCheckOutFailed event.
func (f *Facade) CheckOutGuest(ctx context.Context, cmd *CheckOutGuest) error {
	return f.handler.HandleCommand(ctx, cmd)
}

// HandleCommand implements the HandleCommand method of the
// bizproc.CommandHandler interface, for use on a command bus.
func (f *Facade) HandleCommand(ctx context.Context, cmd bp.Command) error {
	if cmd.AggregateType() != AggregateType {
		return ErrNotGuestCommand
	}

	return f.handler.HandleCommand(ctx, cmd)
}

// Balance returns the status and the balance of an account.
func (f *Facade) Balance(ctx context.Context, id uuid.UUID) (Status, int64, error) {
	agg, err := f.store.Load(ctx, AggregateType, id)
	if err != nil {
		return StatusNotCheckedIn, 0, err
	}

	a, ok := agg.(*GuestStayAccount)
	if !ok {
		return StatusNotCheckedIn, 0, fmt.Errorf("incorrect aggregate type: %T", agg)
	}

	if a.AggregateVersion() == 0 {
		return StatusNotCheckedIn, 0, bp.ErrAggregateNotFound
	}

	return a.Status(), a.Balance(), nil
}
