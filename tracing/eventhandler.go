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
	"fmt"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"

	bp "github.com/looplab/bizproc"
)

// NewEventHandlerMiddleware returns an event handler middleware that adds tracing spans.
func NewEventHandlerMiddleware() bp.EventHandlerMiddleware {
	return bp.EventHandlerMiddleware(func(h bp.EventHandler) bp.EventHandler {
		return &eventHandler{h}
	})
}

type eventHandler struct {
	bp.EventHandler
}

// InnerHandler implements EventHandlerChain
func (h *eventHandler) InnerHandler() bp.EventHandler {
	return h.EventHandler
}

// HandleEvent implements the HandleEvent method of the EventHandler.
func (h *eventHandler) HandleEvent(ctx context.Context, event bp.Event) error {
	opName := fmt.Sprintf("%s.Event(%s)", h.HandlerType(), event.EventType())
	sp, ctx := opentracing.StartSpanFromContext(ctx, opName)

	err := h.EventHandler.HandleEvent(ctx, event)
	if err != nil {
		ext.LogError(sp, err)
	}

	sp.SetTag("bp.event_type", event.EventType())
	sp.SetTag("bp.aggregate_type", event.AggregateType())
	sp.SetTag("bp.aggregate_id", event.AggregateID())
	sp.SetTag("bp.version", event.Version())

	sp.Finish()

	return err
}
