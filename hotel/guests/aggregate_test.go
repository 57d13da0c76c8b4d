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
	"math"
	"testing"
	"time"

	"github.com/kr/pretty"

	bp "github.com/looplab/bizproc"
	"github.com/looplab/bizproc/mocks"
	"github.com/looplab/bizproc/uuid"
)

func TestAggregateHandleCommand(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	id := uuid.New()
	groupID := uuid.New()

	account := func(status Status, balance int64, version int) *GuestStayAccount {
		a := NewGuestStayAccount(id)
		a.status = status
		a.balance = balance
		a.SetAggregateVersion(version)

		return a
	}

	cases := map[string]struct {
		agg            *GuestStayAccount
		cmd            bp.Command
		expectedEvents []bp.Event
		expectedErr    error
	}{
		"unknown command": {
			account(StatusCheckedIn, 0, 1),
			&mocks.Command{ID: id, Content: "testcontent"},
			nil,
			errors.New("could not handle command: Command"),
		},
		"check in": {
			account(StatusNotCheckedIn, 0, 0),
			&CheckInGuest{GuestStayID: id, Time: now},
			[]bp.Event{
				bp.NewEvent(GuestCheckedIn, nil, now,
					bp.ForAggregate(AggregateType, id, 1)),
			},
			nil,
		},
		"check in (already checked in)": {
			account(StatusCheckedIn, 0, 1),
			&CheckInGuest{GuestStayID: id, Time: now},
			nil,
			ErrAlreadyCheckedIn,
		},
		"check in (already checked out)": {
			account(StatusCheckedOut, 0, 2),
			&CheckInGuest{GuestStayID: id, Time: now},
			nil,
			ErrAlreadyCheckedIn,
		},
		"record charge": {
			account(StatusCheckedIn, 0, 1),
			&RecordCharge{GuestStayID: id, Amount: 1250, Time: now},
			[]bp.Event{
				bp.NewEvent(GuestChargeRecorded, &ChargeRecordedData{Amount: 1250}, now,
					bp.ForAggregate(AggregateType, id, 2)),
			},
			nil,
		},
		"record charge (not checked in)": {
			account(StatusNotCheckedIn, 0, 0),
			&RecordCharge{GuestStayID: id, Amount: 1250, Time: now},
			nil,
			ErrNotCheckedIn,
		},
		"record charge (checked out)": {
			account(StatusCheckedOut, 0, 2),
			&RecordCharge{GuestStayID: id, Amount: 1250, Time: now},
			nil,
			ErrNotCheckedIn,
		},
		"record charge (negative amount)": {
			account(StatusCheckedIn, 0, 1),
			&RecordCharge{GuestStayID: id, Amount: -1, Time: now},
			nil,
			ErrInvalidAmount,
		},
		"record charge (balance overflow)": {
			account(StatusCheckedIn, math.MaxInt64-1, 3),
			&RecordCharge{GuestStayID: id, Amount: 2, Time: now},
			nil,
			ErrBalanceOverflow,
		},
		"record charge (up to the limit)": {
			account(StatusCheckedIn, math.MaxInt64-2, 3),
			&RecordCharge{GuestStayID: id, Amount: 2, Time: now},
			[]bp.Event{
				bp.NewEvent(GuestChargeRecorded, &ChargeRecordedData{Amount: 2}, now,
					bp.ForAggregate(AggregateType, id, 4)),
			},
			nil,
		},
		"record payment": {
			account(StatusCheckedIn, 1250, 2),
			&RecordPayment{GuestStayID: id, Amount: 1250, Time: now},
			[]bp.Event{
				bp.NewEvent(GuestPaymentRecorded, &PaymentRecordedData{Amount: 1250}, now,
					bp.ForAggregate(AggregateType, id, 3)),
			},
			nil,
		},
		"record payment (zero amount)": {
			account(StatusCheckedIn, 0, 1),
			&RecordPayment{GuestStayID: id, Time: now},
			nil,
			ErrInvalidAmount,
		},
		"record payment (balance overflow)": {
			account(StatusCheckedIn, math.MinInt64+1, 3),
			&RecordPayment{GuestStayID: id, Amount: 2, Time: now},
			nil,
			ErrBalanceOverflow,
		},
		"record payment (not checked in)": {
			account(StatusNotCheckedIn, 0, 0),
			&RecordPayment{GuestStayID: id, Amount: 1, Time: now},
			nil,
			ErrNotCheckedIn,
		},
		"check out": {
			account(StatusCheckedIn, 0, 3),
			&CheckOutGuest{GuestStayID: id, Time: now, GroupCheckoutID: groupID},
			[]bp.Event{
				bp.NewEvent(GuestCheckedOut, &CheckedOutData{GroupCheckoutID: groupID}, now,
					bp.ForAggregate(AggregateType, id, 4)),
			},
			nil,
		},
		"check out (without group)": {
			account(StatusCheckedIn, 0, 1),
			&CheckOutGuest{GuestStayID: id, Time: now},
			[]bp.Event{
				bp.NewEvent(GuestCheckedOut, &CheckedOutData{}, now,
					bp.ForAggregate(AggregateType, id, 2)),
			},
			nil,
		},
		"check out (balance not settled)": {
			account(StatusCheckedIn, 500, 2),
			&CheckOutGuest{GuestStayID: id, Time: now, GroupCheckoutID: groupID},
			[]bp.Event{
				bp.NewEvent(GuestCheckOutFailed, &CheckOutFailedData{
					Reason:          BalanceNotSettled,
					GroupCheckoutID: groupID,
				}, now, bp.ForAggregate(AggregateType, id, 3)),
			},
			nil,
		},
		"check out (overpaid)": {
			account(StatusCheckedIn, -500, 2),
			&CheckOutGuest{GuestStayID: id, Time: now},
			[]bp.Event{
				bp.NewEvent(GuestCheckOutFailed, &CheckOutFailedData{
					Reason: BalanceNotSettled,
				}, now, bp.ForAggregate(AggregateType, id, 3)),
			},
			nil,
		},
		"check out (already checked out)": {
			account(StatusCheckedOut, 0, 2),
			&CheckOutGuest{GuestStayID: id, Time: now, GroupCheckoutID: groupID},
			[]bp.Event{
				bp.NewEvent(GuestCheckOutFailed, &CheckOutFailedData{
					Reason:          NotCheckedIn,
					GroupCheckoutID: groupID,
				}, now, bp.ForAggregate(AggregateType, id, 3)),
			},
			nil,
		},
		"check out (unknown stay)": {
			account(StatusNotCheckedIn, 0, 0),
			&CheckOutGuest{GuestStayID: id, Time: now},
			nil,
			bp.ErrAggregateNotFound,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := tc.agg.HandleCommand(context.Background(), tc.cmd)
			if (err != nil && tc.expectedErr == nil) ||
				(err == nil && tc.expectedErr != nil) ||
				(err != nil && tc.expectedErr != nil && !errors.Is(err, tc.expectedErr) && err.Error() != tc.expectedErr.Error()) {
				t.Errorf("test case '%s': incorrect error", name)
				t.Log("exp:", tc.expectedErr)
				t.Log("got:", err)
			}

			events := tc.agg.UncommittedEvents()
			if !mocks.EqualEvents(events, tc.expectedEvents) {
				t.Errorf("test case '%s': incorrect events", name)
				t.Log("exp:\n", pretty.Sprint(tc.expectedEvents))
				t.Log("got:\n", pretty.Sprint(events))
			}
		})
	}
}

func TestAggregateHandleCommand_RepeatedGroupCheckOut(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	id := uuid.New()
	groupID := uuid.New()
	ctx := context.Background()

	a := NewGuestStayAccount(id)
	for _, e := range []bp.Event{
		bp.NewEvent(GuestCheckedIn, nil, now, bp.ForAggregate(AggregateType, id, 1)),
		bp.NewEvent(GuestCheckedOut, &CheckedOutData{GroupCheckoutID: groupID}, now,
			bp.ForAggregate(AggregateType, id, 2)),
	} {
		if err := a.ApplyEvent(ctx, e); err != nil {
			t.Fatal("there should be no error:", err)
		}

		a.SetAggregateVersion(e.Version())
	}

	if err := a.HandleCommand(ctx, &CheckOutGuest{GuestStayID: id, Time: now, GroupCheckoutID: groupID}); err != nil {
		t.Error("there should be no error:", err)
	}

	if events := a.UncommittedEvents(); len(events) != 0 {
		t.Error("a repeated check out of the same group should not create events:", events)
	}

	if err := a.HandleCommand(ctx, &CheckOutGuest{GuestStayID: id, Time: now, GroupCheckoutID: uuid.New()}); err != nil {
		t.Error("there should be no error:", err)
	}

	if events := a.UncommittedEvents(); len(events) != 1 || events[0].EventType() != GuestCheckOutFailed {
		t.Error("a check out from another group should fail:", events)
	}
}

func TestAggregateApplyEvent(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	id := uuid.New()

	cases := map[string]struct {
		events          []bp.Event
		expectedStatus  Status
		expectedBalance int64
		expectedErr     error
	}{
		"no events": {
			nil,
			StatusNotCheckedIn,
			0,
			nil,
		},
		"checked in": {
			[]bp.Event{
				bp.NewEvent(GuestCheckedIn, nil, now, bp.ForAggregate(AggregateType, id, 1)),
			},
			StatusCheckedIn,
			0,
			nil,
		},
		"charges and payments": {
			[]bp.Event{
				bp.NewEvent(GuestCheckedIn, nil, now, bp.ForAggregate(AggregateType, id, 1)),
				bp.NewEvent(GuestChargeRecorded, &ChargeRecordedData{Amount: 1000}, now, bp.ForAggregate(AggregateType, id, 2)),
				bp.NewEvent(GuestPaymentRecorded, &PaymentRecordedData{Amount: 300}, now, bp.ForAggregate(AggregateType, id, 3)),
				bp.NewEvent(GuestCheckOutFailed, &CheckOutFailedData{Reason: BalanceNotSettled}, now, bp.ForAggregate(AggregateType, id, 4)),
			},
			StatusCheckedIn,
			700,
			nil,
		},
		"checked out": {
			[]bp.Event{
				bp.NewEvent(GuestCheckedIn, nil, now, bp.ForAggregate(AggregateType, id, 1)),
				bp.NewEvent(GuestCheckedOut, &CheckedOutData{}, now, bp.ForAggregate(AggregateType, id, 2)),
			},
			StatusCheckedOut,
			0,
			nil,
		},
		"invalid data": {
			[]bp.Event{
				bp.NewEvent(GuestChargeRecorded, &PaymentRecordedData{Amount: 1}, now, bp.ForAggregate(AggregateType, id, 1)),
			},
			StatusNotCheckedIn,
			0,
			errors.New("invalid event data"),
		},
		"unknown event": {
			[]bp.Event{
				bp.NewEvent(mocks.EventType, &mocks.EventData{}, now, bp.ForAggregate(AggregateType, id, 1)),
			},
			StatusNotCheckedIn,
			0,
			errors.New("could not apply event: Event"),
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			a := NewGuestStayAccount(id)

			var err error

			for _, e := range tc.events {
				if err = a.ApplyEvent(context.Background(), e); err != nil {
					break
				}
			}

			if (err == nil) != (tc.expectedErr == nil) || (err != nil && err.Error() != tc.expectedErr.Error()) {
				t.Error("incorrect error:", err)
			}

			if a.Status() != tc.expectedStatus {
				t.Error("incorrect status:", a.Status())
			}

			if a.Balance() != tc.expectedBalance {
				t.Error("incorrect balance:", a.Balance())
			}
		})
	}
}

func TestStatusString(t *testing.T) {
	for s, str := range map[Status]string{
		StatusNotCheckedIn: "NotCheckedIn",
		StatusCheckedIn:    "CheckedIn",
		StatusCheckedOut:   "CheckedOut",
		Status(7):          "Status(7)",
	} {
		if s.String() != str {
			t.Errorf("incorrect string for %d: %s", s, s.String())
		}
	}
}
