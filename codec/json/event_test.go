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

package json

import (
	"context"
	"strings"
	"testing"
	"time"

	bp "github.com/looplab/bizproc"
	"github.com/looplab/bizproc/codec"
	"github.com/looplab/bizproc/hotel/groupcheckouts"
	"github.com/looplab/bizproc/hotel/guests"
	"github.com/looplab/bizproc/mocks"
	"github.com/looplab/bizproc/uuid"
)

func TestEventCodec(t *testing.T) {
	codec.EventCodecAcceptanceTest(t, &EventCodec{}, []byte(compact(`
	{
		"event_type": "CodecEvent",
		"data": {
		  "Bool": true,
		  "String": "string",
		  "Number": 42,
		  "Amount": -1250,
		  "IDs": ["10a7ec0f-7f2b-46f5-bca1-877b6e33c9fd"],
		  "Slice": ["a", "b"],
		  "Map": { "key": "value" },
		  "Time": "2009-11-10T23:00:00Z",
		  "TimeRef": "2009-11-10T23:00:00Z",
		  "NullTime": null,
		  "Struct": { "Bool": true, "String": "string", "Number": 42 },
		  "StructRef": { "Bool": true, "String": "string", "Number": 42 },
		  "NullStruct": null
		},
		"timestamp": "2009-11-10T23:00:00Z",
		"aggregate_type": "Aggregate",
		"aggregate_id": "10a7ec0f-7f2b-46f5-bca1-877b6e33c9fd",
		"version": 1,
		"metadata": { "num": 42 },
		"context": { "context_one": "testval" }
	}`)))
}

func TestEventCodec_HotelEvents(t *testing.T) {
	groupID := uuid.New()
	stayIDs := uuid.NewN(2)
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

	testCases := map[string]struct {
		event    bp.Event
		contains string
	}{
		"group failed without checked out guests": {
			bp.NewEvent(groupcheckouts.GroupCheckoutFailed, &groupcheckouts.FailedData{
				CheckedOutGuestStayIDs: []uuid.UUID{},
				FailedGuestStayIDs:     stayIDs,
			}, now, bp.ForAggregate(groupcheckouts.AggregateType, groupID, 4)),
			`"checked_out_guest_stay_ids":[]`,
		},
		"group completed": {
			bp.NewEvent(groupcheckouts.GroupCheckoutCompleted, &groupcheckouts.CompletedData{
				GuestStayIDs: stayIDs,
			}, now, bp.ForAggregate(groupcheckouts.AggregateType, groupID, 4)),
			`"guest_stay_ids":["` + stayIDs[0].String() + `","` + stayIDs[1].String() + `"]`,
		},
		"guest check out failed": {
			bp.NewEvent(guests.GuestCheckOutFailed, &guests.CheckOutFailedData{
				Reason:          guests.BalanceNotSettled,
				GroupCheckoutID: groupID,
			}, now, bp.ForAggregate(guests.AggregateType, stayIDs[0], 3)),
			`"group_checkout_id":"` + groupID.String() + `"`,
		},
		"guest checked in": {
			bp.NewEvent(guests.GuestCheckedIn, nil, now,
				bp.ForAggregate(guests.AggregateType, stayIDs[0], 1)),
			`"event_type":"guest_stay_account:checked_in","timestamp"`,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			c := &EventCodec{}

			b, err := c.MarshalEvent(ctx, tc.event)
			if err != nil {
				t.Fatal("there should be no error:", err)
			}

			if !strings.Contains(string(b), tc.contains) {
				t.Error("the encoded bytes should contain", tc.contains, "got:", string(b))
			}

			if strings.Contains(string(b), `"metadata"`) || strings.Contains(string(b), `"context"`) {
				t.Error("empty metadata and context should be left out:", string(b))
			}

			decoded, _, err := c.UnmarshalEvent(ctx, b)
			if err != nil {
				t.Fatal("there should be no error:", err)
			}

			if err := mocks.CompareEvents(decoded, tc.event); err != nil {
				t.Error("the decoded event should be correct:", err)
			}

			if decoded.Version() != tc.event.Version() {
				t.Error("the version should be correct:", decoded.Version())
			}

			if d, ok := decoded.Data().(*groupcheckouts.FailedData); ok && d.CheckedOutGuestStayIDs == nil {
				t.Error("an empty checked out list should stay empty, not nil")
			}

			if tc.event.Data() == nil && decoded.Data() != nil {
				t.Error("an event without data should decode without data:", decoded.Data())
			}
		})
	}
}
