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

package tracing

import (
	"context"

	bp "github.com/looplab/bizproc"
)

// EventBus is an event bus wrapper that adds tracing.
type EventBus struct {
	bp.EventBus
	h bp.EventHandler
}

// NewEventBus creates a EventBus.
func NewEventBus(eventBus bp.EventBus) *EventBus {
	return &EventBus{
		EventBus: eventBus,
		// Wrap the publishing side of the bus as well, to get a span for the
		// whole delivery.
		h: bp.UseEventHandlerMiddleware(eventBus, NewEventHandlerMiddleware()),
	}
}

// HandleEvent implements the HandleEvent method of the bizproc.EventHandler interface.
func (b *EventBus) HandleEvent(ctx context.Context, event bp.Event) error {
	return b.h.HandleEvent(ctx, event)
}

// AddHandler implements the AddHandler method of the bizproc.EventBus interface.
func (b *EventBus) AddHandler(ctx context.Context, m bp.EventMatcher, h bp.EventHandler) error {
	if h == nil {
		return bp.ErrMissingHandler
	}

	// Wrap the handlers in tracing middleware.
	h = bp.UseEventHandlerMiddleware(h, NewEventHandlerMiddleware())

	return b.EventBus.AddHandler(ctx, m, h)
}

// Use implements the Use method of the bizproc.EventBus interface.
func (b *EventBus) Use(h bp.EventHandler) {
	if h == nil {
		return
	}

	b.EventBus.Use(bp.UseEventHandlerMiddleware(h, NewEventHandlerMiddleware()))
}
