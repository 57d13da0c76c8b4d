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
	"errors"
	"time"

	bp "github.com/looplab/bizproc"
	"github.com/looplab/bizproc/uuid"
)

func init() {
	bp.RegisterCommand(func() bp.Command { return &CheckInGuest{} })
	bp.RegisterCommand(func() bp.Command { return &RecordCharge{} })
	bp.RegisterCommand(func() bp.Command { return &RecordPayment{} })
	bp.RegisterCommand(func() bp.Command { return &CheckOutGuest{} })
}

const (
	// CheckInGuestCommand is the type for the CheckInGuest command.
	CheckInGuestCommand = bp.CommandType("guest_stay_account:check_in")
	// RecordChargeCommand is the type for the RecordCharge command.
	RecordChargeCommand = bp.CommandType("guest_stay_account:record_charge")
	// RecordPaymentCommand is the type for the RecordPayment command.
	RecordPaymentCommand = bp.CommandType("guest_stay_account:record_payment")
	// CheckOutGuestCommand is the type for the CheckOutGuest command.
	CheckOutGuestCommand = bp.CommandType("guest_stay_account:check_out")
)

// ErrInvalidAmount is when a charge or payment is not a positive amount.
var ErrInvalidAmount = errors.New("amount must be positive")

// Static type check that the bizproc.Command interface is implemented.
var _ = bp.Command(&CheckInGuest{})
var _ = bp.Command(&RecordCharge{})
var _ = bp.Command(&RecordPayment{})
var _ = bp.Command(&CheckOutGuest{})

// CheckInGuest opens the account of a guest stay.
type CheckInGuest struct {
	GuestStayID uuid.UUID `json:"guest_stay_id"`
	Time        time.Time `json:"time"`
}

func (c *CheckInGuest) AggregateType() bp.AggregateType { return AggregateType }
func (c *CheckInGuest) AggregateID() uuid.UUID          { return c.GuestStayID }
func (c *CheckInGuest) CommandType() bp.CommandType     { return CheckInGuestCommand }

// RecordCharge adds an amount, in minor currency units, to the balance.
type RecordCharge struct {
	GuestStayID uuid.UUID `json:"guest_stay_id"`
	Amount      int64     `json:"amount"`
	Time        time.Time `json:"time"`
}

func (c *RecordCharge) AggregateType() bp.AggregateType { return AggregateType }
func (c *RecordCharge) AggregateID() uuid.UUID          { return c.GuestStayID }
func (c *RecordCharge) CommandType() bp.CommandType     { return RecordChargeCommand }

// Validate implements the Validate method of the validate.Command interface.
func (c *RecordCharge) Validate() error {
	if c.Amount <= 0 {
		return ErrInvalidAmount
	}

	return nil
}

// RecordPayment subtracts an amount, in minor currency units, from the balance.
type RecordPayment struct {
	GuestStayID uuid.UUID `json:"guest_stay_id"`
	Amount      int64     `json:"amount"`
	Time        time.Time `json:"time"`
}

func (c *RecordPayment) AggregateType() bp.AggregateType { return AggregateType }
func (c *RecordPayment) AggregateID() uuid.UUID          { return c.GuestStayID }
func (c *RecordPayment) CommandType() bp.CommandType     { return RecordPaymentCommand }

// Validate implements the Validate method of the validate.Command interface.
func (c *RecordPayment) Validate() error {
	if c.Amount <= 0 {
		return ErrInvalidAmount
	}

	return nil
}

// CheckOutGuest closes the account if the balance is settled. The group
// checkout is set when issued as part of one, and is carried to the outcome.
type CheckOutGuest struct {
	GuestStayID     uuid.UUID `json:"guest_stay_id"`
	Time            time.Time `json:"time"`
	GroupCheckoutID uuid.UUID `json:"group_checkout_id,omitempty" bizproc:"optional"`
}

func (c *CheckOutGuest) AggregateType() bp.AggregateType { return AggregateType }
func (c *CheckOutGuest) AggregateID() uuid.UUID          { return c.GuestStayID }
func (c *CheckOutGuest) CommandType() bp.CommandType     { return CheckOutGuestCommand }
