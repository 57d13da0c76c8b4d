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

// Package groupcheckouts holds the group checkout process: an event sourced
// aggregate recording the outcome of every participant, and the to-do list
// that drives it by reacting to guest stay events.
package groupcheckouts

import (
	"context"
	"errors"
	"fmt"

	bp "github.com/looplab/bizproc"
	"github.com/looplab/bizproc/aggregatestore/events"
	"github.com/looplab/bizproc/uuid"
)

func init() {
	bp.RegisterAggregate(func(id uuid.UUID) bp.Aggregate {
		return NewGroupCheckout(id)
	})
}

// AggregateType is the aggregate type for the group checkout.
const AggregateType = bp.AggregateType("group_checkout")

var (
	// ErrAlreadyInitiated is when initiating a group checkout twice.
	ErrAlreadyInitiated = errors.New("group checkout already initiated")
	// ErrNotInitiated is when recording an outcome before initiation.
	ErrNotInitiated = errors.New("group checkout not initiated")
	// ErrUnknownGuestStay is when recording an outcome for a guest stay that
	// does not take part in the group checkout.
	ErrUnknownGuestStay = errors.New("guest stay not part of group checkout")
	// ErrConflictingOutcome is when a participant already has the other outcome.
	ErrConflictingOutcome = errors.New("conflicting guest checkout outcome")
)

// Status is the state of a group checkout.
type Status int

const (
	// StatusNotInitiated is the zero state, before any event.
	StatusNotInitiated Status = iota
	// StatusInitiated is while outcomes are awaited.
	StatusInitiated
	// StatusCompleted is when every participant was checked out.
	StatusCompleted
	// StatusFailed is when every participant was resolved and some failed.
	StatusFailed
)

// String implements the Stringer interface.
func (s Status) String() string {
	switch s {
	case StatusNotInitiated:
		return "NotInitiated"
	case StatusInitiated:
		return "Initiated"
	case StatusCompleted:
		return "Completed"
	case StatusFailed:
		return "Failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Summary is a read only view of a group checkout.
type Summary struct {
	ID           uuid.UUID
	Status       Status
	ClerkID      uuid.UUID
	GuestStayIDs []uuid.UUID
	CheckedOut   []uuid.UUID
	Failed       []uuid.UUID
}

// GroupCheckout is the aggregate keeping track of a group checkout. It
// completes exactly when every participant is either checked out or failed.
type GroupCheckout struct {
	*events.AggregateBase

	status       Status
	clerkID      uuid.UUID
	guestStayIDs []uuid.UUID
	outcomes     map[uuid.UUID]Outcome
	checkedOut   []uuid.UUID
	failed       []uuid.UUID
}

var _ = events.VersionedAggregate(&GroupCheckout{})

// NewGroupCheckout creates an empty group checkout, to be built from its events.
func NewGroupCheckout(id uuid.UUID) *GroupCheckout {
	return &GroupCheckout{
		AggregateBase: events.NewAggregateBase(AggregateType, id),
		outcomes:      map[uuid.UUID]Outcome{},
	}
}

// Summary returns a copy of the current state.
func (a *GroupCheckout) Summary() Summary {
	return Summary{
		ID:           a.EntityID(),
		Status:       a.status,
		ClerkID:      a.clerkID,
		GuestStayIDs: append([]uuid.UUID{}, a.guestStayIDs...),
		CheckedOut:   append([]uuid.UUID{}, a.checkedOut...),
		Failed:       append([]uuid.UUID{}, a.failed...),
	}
}

// HandleCommand implements the HandleCommand method of the
// bizproc.CommandHandler interface.
func (a *GroupCheckout) HandleCommand(ctx context.Context, cmd bp.Command) error {
	switch cmd := cmd.(type) {
	case *InitiateGroupCheckout:
		if a.status != StatusNotInitiated {
			return ErrAlreadyInitiated
		}

		if err := validateGuestStays(cmd.GuestStayIDs); err != nil {
			return err
		}

		a.AppendEvent(GroupCheckoutInitiated, &InitiatedData{
			ClerkID:      cmd.ClerkID,
			GuestStayIDs: append([]uuid.UUID{}, cmd.GuestStayIDs...),
		}, cmd.Time)
	case *RecordGuestCheckoutOutcome:
		return a.recordOutcome(cmd)
	default:
		return fmt.Errorf("could not handle command: %s", cmd.CommandType())
	}

	return nil
}

func (a *GroupCheckout) recordOutcome(cmd *RecordGuestCheckoutOutcome) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if a.status == StatusNotInitiated {
		return ErrNotInitiated
	}

	if !a.isParticipant(cmd.GuestStayID) {
		return ErrUnknownGuestStay
	}

	// A redelivered outcome has already been recorded.
	if outcome, ok := a.outcomes[cmd.GuestStayID]; ok {
		if outcome != cmd.Outcome {
			return fmt.Errorf("%w: %s is %s, not %s",
				ErrConflictingOutcome, cmd.GuestStayID, outcome, cmd.Outcome)
		}

		return nil
	}

	checkedOut := append([]uuid.UUID{}, a.checkedOut...)
	failed := append([]uuid.UUID{}, a.failed...)

	data := &GuestOutcomeData{GuestStayID: cmd.GuestStayID}
	if cmd.Outcome == CheckedOut {
		a.AppendEvent(GuestCheckoutCompleted, data, cmd.Time)
		checkedOut = append(checkedOut, cmd.GuestStayID)
	} else {
		a.AppendEvent(GuestCheckoutFailed, data, cmd.Time)
		failed = append(failed, cmd.GuestStayID)
	}

	if len(checkedOut)+len(failed) < len(a.guestStayIDs) {
		return nil
	}

	if len(failed) == 0 {
		a.AppendEvent(GroupCheckoutCompleted, &CompletedData{
			GuestStayIDs: checkedOut,
		}, cmd.Time)
	} else {
		a.AppendEvent(GroupCheckoutFailed, &FailedData{
			CheckedOutGuestStayIDs: checkedOut,
			FailedGuestStayIDs:     failed,
		}, cmd.Time)
	}

	return nil
}

func (a *GroupCheckout) isParticipant(id uuid.UUID) bool {
	for _, guestStayID := range a.guestStayIDs {
		if guestStayID == id {
			return true
		}
	}

	return false
}

// ApplyEvent implements the ApplyEvent method of the
// events.VersionedAggregate interface.
func (a *GroupCheckout) ApplyEvent(ctx context.Context, event bp.Event) error {
	switch event.EventType() {
	case GroupCheckoutInitiated:
		data, ok := event.Data().(*InitiatedData)
		if !ok {
			return errors.New("invalid event data")
		}

		a.status = StatusInitiated
		a.clerkID = data.ClerkID
		a.guestStayIDs = append([]uuid.UUID{}, data.GuestStayIDs...)
	case GuestCheckoutCompleted:
		data, ok := event.Data().(*GuestOutcomeData)
		if !ok {
			return errors.New("invalid event data")
		}

		a.outcomes[data.GuestStayID] = CheckedOut
		a.checkedOut = append(a.checkedOut, data.GuestStayID)
	case GuestCheckoutFailed:
		data, ok := event.Data().(*GuestOutcomeData)
		if !ok {
			return errors.New("invalid event data")
		}

		a.outcomes[data.GuestStayID] = Failed
		a.failed = append(a.failed, data.GuestStayID)
	case GroupCheckoutCompleted:
		a.status = StatusCompleted
	case GroupCheckoutFailed:
		a.status = StatusFailed
	default:
		return fmt.Errorf("could not apply event: %s", event.EventType())
	}

	return nil
}
