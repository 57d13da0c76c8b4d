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

package events

import (
	"time"

	bp "github.com/looplab/bizproc"
	"github.com/looplab/bizproc/uuid"
)

// AggregateBase is a event sourced aggregate base to embed in a domain aggregate.
//
// A typical example:
//
//	type GuestStayAccount struct {
//	    *events.AggregateBase
//
//	    balance int64
//	}
//
// Using a new function to create aggregates and setting up the
// aggregate base is recommended:
//
//	func NewGuestStayAccount(id uuid.UUID) *GuestStayAccount {
//	    return &GuestStayAccount{
//	        AggregateBase: events.NewAggregateBase(AggregateType, id),
//	    }
//	}
//
// The aggregate must also be registered, in this case:
//
//	func init() {
//	    bp.RegisterAggregate(func(id uuid.UUID) bp.Aggregate {
//	        return NewGuestStayAccount(id)
//	    })
//	}
//
// The aggregate must return an error if the event can not be applied, or nil
// to signal success.
type AggregateBase struct {
	id     uuid.UUID
	t      bp.AggregateType
	v      int
	events []bp.Event
}

// NewAggregateBase creates an aggregate.
func NewAggregateBase(t bp.AggregateType, id uuid.UUID) *AggregateBase {
	return &AggregateBase{
		id: id,
		t:  t,
	}
}

// EntityID implements the EntityID method of the bp.Aggregate interface.
func (a *AggregateBase) EntityID() uuid.UUID {
	return a.id
}

// AggregateType implements the AggregateType method of the bp.Aggregate interface.
func (a *AggregateBase) AggregateType() bp.AggregateType {
	return a.t
}

// AggregateVersion implements the AggregateVersion method of the VersionedAggregate interface.
func (a *AggregateBase) AggregateVersion() int {
	return a.v
}

// SetAggregateVersion implements the SetAggregateVersion method of the VersionedAggregate interface.
func (a *AggregateBase) SetAggregateVersion(v int) {
	a.v = v
}

// UncommittedEvents implements the UncommittedEvents method of the VersionedAggregate
// interface.
func (a *AggregateBase) UncommittedEvents() []bp.Event {
	return a.events
}

// ClearUncommittedEvents implements the ClearUncommittedEvents method of the
// VersionedAggregate interface.
func (a *AggregateBase) ClearUncommittedEvents() {
	a.events = nil
}

// AppendEvent appends an event for later retrieval by UncommittedEvents().
func (a *AggregateBase) AppendEvent(t bp.EventType, data bp.EventData, timestamp time.Time, options ...bp.EventOption) bp.Event {
	options = append(options, bp.ForAggregate(
		a.AggregateType(),
		a.EntityID(),
		a.AggregateVersion()+len(a.events)+1),
	)
	e := bp.NewEvent(t, data, timestamp, options...)
	a.events = append(a.events, e)

	return e
}
