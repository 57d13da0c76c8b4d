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

package bizproc

import (
	"context"
	"sync"
)

// ContextCodec carries one context value across a codec. Commands and events
// written to a store or sent on the wire keep their context values as a map,
// with one entry per registered codec.
type ContextCodec interface {
	// MarshalContext returns the value to store, or false if the context has
	// nothing to carry.
	MarshalContext(context.Context) (interface{}, bool)
	// UnmarshalContext returns ctx with the decoded value added.
	UnmarshalContext(context.Context, interface{}) context.Context
}

// ContextCodecFuncs is a ContextCodec made of two functions.
type ContextCodecFuncs struct {
	Marshal   func(context.Context) (interface{}, bool)
	Unmarshal func(context.Context, interface{}) context.Context
}

// MarshalContext implements the MarshalContext method of the ContextCodec interface.
func (f ContextCodecFuncs) MarshalContext(ctx context.Context) (interface{}, bool) {
	return f.Marshal(ctx)
}

// UnmarshalContext implements the UnmarshalContext method of the ContextCodec interface.
func (f ContextCodecFuncs) UnmarshalContext(ctx context.Context, v interface{}) context.Context {
	return f.Unmarshal(ctx, v)
}

var (
	contextCodecs   = map[string]ContextCodec{}
	contextCodecsMu sync.RWMutex
)

// RegisterContextCodec registers the codec for one context key. Registering a
// key again replaces its codec.
func RegisterContextCodec(key string, c ContextCodec) {
	if key == "" {
		panic("bizproc: attempt to register empty context key")
	}

	if c == nil {
		panic("bizproc: attempt to register nil context codec for " + key)
	}

	contextCodecsMu.Lock()
	defer contextCodecsMu.Unlock()

	contextCodecs[key] = c
}

// UnregisterContextCodec removes the codec for a context key.
func UnregisterContextCodec(key string) {
	contextCodecsMu.Lock()
	defer contextCodecsMu.Unlock()

	delete(contextCodecs, key)
}

// MarshalContext marshals the registered context values into a map.
func MarshalContext(ctx context.Context) map[string]interface{} {
	contextCodecsMu.RLock()
	defer contextCodecsMu.RUnlock()

	vals := map[string]interface{}{}

	for key, c := range contextCodecs {
		if v, ok := c.MarshalContext(ctx); ok {
			vals[key] = v
		}
	}

	return vals
}

// UnmarshalContext adds the values in vals to ctx. Keys without a registered
// codec are ignored.
func UnmarshalContext(ctx context.Context, vals map[string]interface{}) context.Context {
	if len(vals) == 0 {
		return ctx
	}

	contextCodecsMu.RLock()
	defer contextCodecsMu.RUnlock()

	for key, v := range vals {
		if c, ok := contextCodecs[key]; ok {
			ctx = c.UnmarshalContext(ctx, v)
		}
	}

	return ctx
}
