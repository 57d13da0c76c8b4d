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
	"errors"
	"time"

	bp "github.com/looplab/bizproc"
	"github.com/looplab/bizproc/uuid"
)

func init() {
	bp.RegisterCommand(func() bp.Command { return &InitiateGroupCheckout{} })
	bp.RegisterCommand(func() bp.Command { return &RecordGuestCheckoutOutcome{} })
}

const (
	// InitiateGroupCheckoutCommand is the type for the InitiateGroupCheckout command.
	InitiateGroupCheckoutCommand = bp.CommandType("group_checkout:initiate")
	// RecordGuestCheckoutOutcomeCommand is the type for the RecordGuestCheckoutOutcome command.
	RecordGuestCheckoutOutcomeCommand = bp.CommandType("group_checkout:record_guest_checkout_outcome")
)

var (
	// ErrEmptyGroupCheckout is when a group checkout has no guest stays.
	ErrEmptyGroupCheckout = errors.New("group checkout without guest stays")
	// ErrInvalidGuestStay is when a listed guest stay has the nil ID.
	ErrInvalidGuestStay = errors.New("invalid guest stay in group checkout")
	// ErrDuplicateGuestStay is when a guest stay is listed more than once.
	ErrDuplicateGuestStay = errors.New("duplicate guest stay in group checkout")
	// ErrInvalidOutcome is when an outcome is neither checked out nor failed.
	ErrInvalidOutcome = errors.New("invalid guest checkout outcome")
)

// Static type check that the bizproc.Command interface is implemented.
var _ = bp.Command(&InitiateGroupCheckout{})
var _ = bp.Command(&RecordGuestCheckoutOutcome{})

// InitiateGroupCheckout starts checking out several guest stays at once.
type InitiateGroupCheckout struct {
	GroupCheckoutID uuid.UUID   `json:"group_checkout_id"`
	ClerkID         uuid.UUID   `json:"clerk_id"`
	GuestStayIDs    []uuid.UUID `json:"guest_stay_ids"    bizproc:"optional"`
	Time            time.Time   `json:"time"`
}

func (c *InitiateGroupCheckout) AggregateType() bp.AggregateType { return AggregateType }
func (c *InitiateGroupCheckout) AggregateID() uuid.UUID          { return c.GroupCheckoutID }
func (c *InitiateGroupCheckout) CommandType() bp.CommandType     { return InitiateGroupCheckoutCommand }

// Validate implements the Validate method of the validate.Command interface.
func (c *InitiateGroupCheckout) Validate() error {
	return validateGuestStays(c.GuestStayIDs)
}

func validateGuestStays(ids []uuid.UUID) error {
	if len(ids) == 0 {
		return ErrEmptyGroupCheckout
	}

	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			return ErrInvalidGuestStay
		}

		if _, ok := seen[id]; ok {
			return ErrDuplicateGuestStay
		}

		seen[id] = struct{}{}
	}

	return nil
}

// Outcome is the result of checking out one guest stay of a group.
type Outcome string

const (
	// CheckedOut is when the guest stay was closed.
	CheckedOut Outcome = "checked_out"
	// Failed is when the guest stay could not be closed.
	Failed Outcome = "failed"
)

// RecordGuestCheckoutOutcome records how the check out of one participant
// ended. It is issued by the to-do list only.
type RecordGuestCheckoutOutcome struct {
	GroupCheckoutID uuid.UUID `json:"group_checkout_id"`
	GuestStayID     uuid.UUID `json:"guest_stay_id"`
	Outcome         Outcome   `json:"outcome"`
	Time            time.Time `json:"time"`
}

func (c *RecordGuestCheckoutOutcome) AggregateType() bp.AggregateType { return AggregateType }
func (c *RecordGuestCheckoutOutcome) AggregateID() uuid.UUID          { return c.GroupCheckoutID }
func (c *RecordGuestCheckoutOutcome) CommandType() bp.CommandType {
	return RecordGuestCheckoutOutcomeCommand
}

// Validate implements the Validate method of the validate.Command interface.
func (c *RecordGuestCheckoutOutcome) Validate() error {
	if c.Outcome != CheckedOut && c.Outcome != Failed {
		return ErrInvalidOutcome
	}

	return nil
}
