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

// Package guests holds the guest stay account: an event sourced aggregate
// keeping the balance of a single stay, and a facade to operate it.
package guests

import (
	"context"
	"errors"
	"fmt"
	"math"

	bp "github.com/looplab/bizproc"
	"github.com/looplab/bizproc/aggregatestore/events"
	"github.com/looplab/bizproc/uuid"
)

func init() {
	bp.RegisterAggregate(func(id uuid.UUID) bp.Aggregate {
		return NewGuestStayAccount(id)
	})
}

// AggregateType is the aggregate type for the guest stay account.
const AggregateType = bp.AggregateType("guest_stay_account")

var (
	// ErrAlreadyCheckedIn is when checking in a stay that already was.
	ErrAlreadyCheckedIn = errors.New("guest stay already checked in")
	// ErrNotCheckedIn is when recording on a stay that is not open.
	ErrNotCheckedIn = errors.New("guest stay not checked in")
	// ErrBalanceOverflow is when a charge or payment would take the balance
	// out of the int64 range.
	ErrBalanceOverflow = errors.New("balance out of range")
)

// Status is the state of a guest stay account.
type Status int

const (
	// StatusNotCheckedIn is the zero state, before any event.
	StatusNotCheckedIn Status = iota
	// StatusCheckedIn is an open account.
	StatusCheckedIn
	// StatusCheckedOut is a closed account, which is final.
	StatusCheckedOut
)

// String implements the Stringer interface.
func (s Status) String() string {
	switch s {
	case StatusNotCheckedIn:
		return "NotCheckedIn"
	case StatusCheckedIn:
		return "CheckedIn"
	case StatusCheckedOut:
		return "CheckedOut"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// GuestStayAccount is the aggregate for the balance of a guest stay.
type GuestStayAccount struct {
	*events.AggregateBase

	status          Status
	balance         int64
	groupCheckoutID uuid.UUID
}

var _ = events.VersionedAggregate(&GuestStayAccount{})

// NewGuestStayAccount creates an empty account, to be built from its events.
func NewGuestStayAccount(id uuid.UUID) *GuestStayAccount {
	return &GuestStayAccount{
		AggregateBase: events.NewAggregateBase(AggregateType, id),
	}
}

// Status returns the state of the account.
func (a *GuestStayAccount) Status() Status {
	return a.status
}

// Balance returns the charges minus the payments, in minor currency units.
func (a *GuestStayAccount) Balance() int64 {
	return a.balance
}

// HandleCommand implements the HandleCommand method of the
// bizproc.CommandHandler interface.
func (a *GuestStayAccount) HandleCommand(ctx context.Context, cmd bp.Command) error {
	switch cmd := cmd.(type) {
	case *CheckInGuest:
		if a.AggregateVersion() > 0 {
			return ErrAlreadyCheckedIn
		}

		a.AppendEvent(GuestCheckedIn, nil, cmd.Time)
	case *RecordCharge:
		if err := cmd.Validate(); err != nil {
			return err
		}

		if a.status != StatusCheckedIn {
			return ErrNotCheckedIn
		}

		if a.balance > math.MaxInt64-cmd.Amount {
			return ErrBalanceOverflow
		}

		a.AppendEvent(GuestChargeRecorded, &ChargeRecordedData{
			Amount: cmd.Amount,
		}, cmd.Time)
	case *RecordPayment:
		if err := cmd.Validate(); err != nil {
			return err
		}

		if a.status != StatusCheckedIn {
			return ErrNotCheckedIn
		}

		if a.balance < math.MinInt64+cmd.Amount {
			return ErrBalanceOverflow
		}

		a.AppendEvent(GuestPaymentRecorded, &PaymentRecordedData{
			Amount: cmd.Amount,
		}, cmd.Time)
	case *CheckOutGuest:
		return a.checkOut(cmd)
	default:
		return fmt.Errorf("could not handle command: %s", cmd.CommandType())
	}

	return nil
}

func (a *GuestStayAccount) checkOut(cmd *CheckOutGuest) error {
	switch a.status {
	case StatusNotCheckedIn:
		// Nothing is known about the stay.
		return bp.ErrAggregateNotFound
	case StatusCheckedOut:
		// A repeated command from the same group checkout changes nothing.
		if cmd.GroupCheckoutID != uuid.Nil && cmd.GroupCheckoutID == a.groupCheckoutID {
			return nil
		}

		a.AppendEvent(GuestCheckOutFailed, &CheckOutFailedData{
			Reason:          NotCheckedIn,
			GroupCheckoutID: cmd.GroupCheckoutID,
		}, cmd.Time)
	default:
		if a.balance != 0 {
			a.AppendEvent(GuestCheckOutFailed, &CheckOutFailedData{
				Reason:          BalanceNotSettled,
				GroupCheckoutID: cmd.GroupCheckoutID,
			}, cmd.Time)

			return nil
		}

		a.AppendEvent(GuestCheckedOut, &CheckedOutData{
			GroupCheckoutID: cmd.GroupCheckoutID,
		}, cmd.Time)
	}

	return nil
}

// ApplyEvent implements the ApplyEvent method of the
// events.VersionedAggregate interface.
func (a *GuestStayAccount) ApplyEvent(ctx context.Context, event bp.Event) error {
	switch event.EventType() {
	case GuestCheckedIn:
		a.status = StatusCheckedIn
	case GuestChargeRecorded:
		data, ok := event.Data().(*ChargeRecordedData)
		if !ok {
			return errors.New("invalid event data")
		}

		a.balance += data.Amount
	case GuestPaymentRecorded:
		data, ok := event.Data().(*PaymentRecordedData)
		if !ok {
			return errors.New("invalid event data")
		}

		a.balance -= data.Amount
	case GuestCheckedOut:
		data, ok := event.Data().(*CheckedOutData)
		if !ok {
			return errors.New("invalid event data")
		}

		a.status = StatusCheckedOut
		a.groupCheckoutID = data.GroupCheckoutID
	case GuestCheckOutFailed:
		// The account stays open.
	default:
		return fmt.Errorf("could not apply event: %s", event.EventType())
	}

	return nil
}
