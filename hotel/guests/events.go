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
	bp "github.com/looplab/bizproc"
	"github.com/looplab/bizproc/uuid"
)

const (
	// GuestCheckedIn is the event after a guest is checked in, opening the account.
	GuestCheckedIn = bp.EventType("guest_stay_account:checked_in")
	// GuestChargeRecorded is the event after a charge is added to the balance.
	GuestChargeRecorded = bp.EventType("guest_stay_account:charge_recorded")
	// GuestPaymentRecorded is the event after a payment is subtracted from the balance.
	GuestPaymentRecorded = bp.EventType("guest_stay_account:payment_recorded")
	// GuestCheckedOut is the event after a settled account is closed.
	GuestCheckedOut = bp.EventType("guest_stay_account:checked_out")
	// GuestCheckOutFailed is the event after a check out was refused.
	GuestCheckOutFailed = bp.EventType("guest_stay_account:check_out_failed")
)

func init() {
	bp.RegisterEventData(GuestChargeRecorded, func() bp.EventData {
		return &ChargeRecordedData{}
	})
	bp.RegisterEventData(GuestPaymentRecorded, func() bp.EventData {
		return &PaymentRecordedData{}
	})
	bp.RegisterEventData(GuestCheckedOut, func() bp.EventData {
		return &CheckedOutData{}
	})
	bp.RegisterEventData(GuestCheckOutFailed, func() bp.EventData {
		return &CheckOutFailedData{}
	})
}

// FailureReason tells why a check out was refused.
type FailureReason string

const (
	// NotCheckedIn is when the stay is not open, because it was already
	// checked out.
	NotCheckedIn FailureReason = "NotCheckedIn"
	// BalanceNotSettled is when charges and payments don't add up to zero.
	BalanceNotSettled FailureReason = "BalanceNotSettled"
)

// ChargeRecordedData is the event data for the GuestChargeRecorded event.
type ChargeRecordedData struct {
	Amount int64 `json:"amount" bson:"amount"`
}

// PaymentRecordedData is the event data for the GuestPaymentRecorded event.
type PaymentRecordedData struct {
	Amount int64 `json:"amount" bson:"amount"`
}

// CheckedOutData is the event data for the GuestCheckedOut event. The group
// checkout is set when the check out was part of one.
type CheckedOutData struct {
	GroupCheckoutID uuid.UUID `json:"group_checkout_id,omitempty" bson:"group_checkout_id,omitempty"`
}

// CheckOutFailedData is the event data for the GuestCheckOutFailed event.
type CheckOutFailedData struct {
	Reason          FailureReason `json:"reason"                      bson:"reason"`
	GroupCheckoutID uuid.UUID     `json:"group_checkout_id,omitempty" bson:"group_checkout_id,omitempty"`
}
