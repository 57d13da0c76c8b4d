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
	bp "github.com/looplab/bizproc"
	"github.com/looplab/bizproc/uuid"
)

const (
	// GroupCheckoutInitiated is the event after a clerk started a group checkout.
	GroupCheckoutInitiated = bp.EventType("group_checkout:initiated")
	// GuestCheckoutCompleted is the event after one participant was checked out.
	GuestCheckoutCompleted = bp.EventType("group_checkout:guest_checkout_completed")
	// GuestCheckoutFailed is the event after one participant could not be checked out.
	GuestCheckoutFailed = bp.EventType("group_checkout:guest_checkout_failed")
	// GroupCheckoutCompleted is the event after every participant was checked out.
	GroupCheckoutCompleted = bp.EventType("group_checkout:completed")
	// GroupCheckoutFailed is the event after every participant was resolved
	// and at least one could not be checked out.
	GroupCheckoutFailed = bp.EventType("group_checkout:failed")
)

func init() {
	bp.RegisterEventData(GroupCheckoutInitiated, func() bp.EventData {
		return &InitiatedData{}
	})
	bp.RegisterEventData(GuestCheckoutCompleted, func() bp.EventData {
		return &GuestOutcomeData{}
	})
	bp.RegisterEventData(GuestCheckoutFailed, func() bp.EventData {
		return &GuestOutcomeData{}
	})
	bp.RegisterEventData(GroupCheckoutCompleted, func() bp.EventData {
		return &CompletedData{}
	})
	bp.RegisterEventData(GroupCheckoutFailed, func() bp.EventData {
		return &FailedData{}
	})
}

// InitiatedData is the event data for the GroupCheckoutInitiated event.
type InitiatedData struct {
	ClerkID      uuid.UUID   `json:"clerk_id"       bson:"clerk_id"`
	GuestStayIDs []uuid.UUID `json:"guest_stay_ids" bson:"guest_stay_ids"`
}

// GuestOutcomeData is the event data for the GuestCheckoutCompleted and
// GuestCheckoutFailed events.
type GuestOutcomeData struct {
	GuestStayID uuid.UUID `json:"guest_stay_id" bson:"guest_stay_id"`
}

// CompletedData is the event data for the GroupCheckoutCompleted event.
type CompletedData struct {
	GuestStayIDs []uuid.UUID `json:"guest_stay_ids" bson:"guest_stay_ids"`
}

// FailedData is the event data for the GroupCheckoutFailed event. Both lists
// are in the order the outcomes were recorded.
type FailedData struct {
	CheckedOutGuestStayIDs []uuid.UUID `json:"checked_out_guest_stay_ids" bson:"checked_out_guest_stay_ids"`
	FailedGuestStayIDs     []uuid.UUID `json:"failed_guest_stay_ids"      bson:"failed_guest_stay_ids"`
}

// PublishedEvents matches the events of a group checkout that are published.
// The per guest outcomes are only kept in its own stream.
func PublishedEvents() bp.EventMatcher {
	return bp.MatchAnyEventOf(
		GroupCheckoutInitiated,
		GroupCheckoutCompleted,
		GroupCheckoutFailed,
	)
}
