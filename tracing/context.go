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
	"encoding/json"
	"errors"
	"log"

	"github.com/opentracing/opentracing-go"

	bp "github.com/looplab/bizproc"
)

// SpanContextKey is the key the span is stored under in marshaled contexts.
const SpanContextKey = "bp_tracing_span"

// SpanCodec carries the active span through the codecs as a JSON encoded text
// map, so that a command or event decoded later continues the trace it was
// created in. A string survives both the JSON and BSON codecs unchanged.
type SpanCodec struct {
	// Tracer defaults to the global tracer.
	Tracer opentracing.Tracer
}

func (c SpanCodec) tracer() opentracing.Tracer {
	if c.Tracer != nil {
		return c.Tracer
	}

	return opentracing.GlobalTracer()
}

// MarshalContext implements the MarshalContext method of the bp.ContextCodec interface.
func (c SpanCodec) MarshalContext(ctx context.Context) (interface{}, bool) {
	span := opentracing.SpanFromContext(ctx)
	if span == nil {
		return nil, false
	}

	carrier := opentracing.TextMapCarrier{}
	if err := c.tracer().Inject(span.Context(), opentracing.TextMap, carrier); err != nil {
		log.Printf("bizproc: could not inject tracing span: %s", err)

		return nil, false
	}

	b, err := json.Marshal(carrier)
	if err != nil {
		log.Printf("bizproc: could not marshal tracing span: %s", err)

		return nil, false
	}

	return string(b), true
}

// UnmarshalContext implements the UnmarshalContext method of the bp.ContextCodec interface.
// The restored span follows from the marshaled one.
func (c SpanCodec) UnmarshalContext(ctx context.Context, v interface{}) context.Context {
	s, ok := v.(string)
	if !ok {
		return ctx
	}

	carrier := opentracing.TextMapCarrier{}
	if err := json.Unmarshal([]byte(s), &carrier); err != nil {
		log.Printf("bizproc: could not unmarshal tracing span: %s", err)

		return ctx
	}

	tracer := c.tracer()

	parent, err := tracer.Extract(opentracing.TextMap, carrier)
	if errors.Is(err, opentracing.ErrSpanContextNotFound) {
		return ctx
	} else if err != nil {
		log.Printf("bizproc: could not extract tracing span: %s", err)

		return ctx
	}

	span := tracer.StartSpan("Context.Restore", opentracing.FollowsFrom(parent))

	return opentracing.ContextWithSpan(ctx, span)
}

// RegisterContext registers a SpanCodec using the global tracer. Calling it
// again is a no-op.
func RegisterContext() {
	bp.RegisterContextCodec(SpanContextKey, SpanCodec{})
}
