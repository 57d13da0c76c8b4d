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
	"testing"
)

func TestContextCodec(t *testing.T) {
	RegisterContextCodec(contextTestKeyOneStr, ContextCodecFuncs{
		Marshal: func(ctx context.Context) (interface{}, bool) {
			return ContextTestOne(ctx)
		},
		Unmarshal: func(ctx context.Context, v interface{}) context.Context {
			if val, ok := v.(string); ok {
				return WithContextTestOne(ctx, val)
			}

			return ctx
		},
	})
	defer UnregisterContextCodec(contextTestKeyOneStr)

	vals := MarshalContext(context.Background())
	if _, ok := vals[contextTestKeyOneStr]; ok {
		t.Error("the marshaled values should be empty:", vals)
	}

	vals = MarshalContext(WithContextTestOne(context.Background(), "testval"))
	if val, ok := vals[contextTestKeyOneStr]; !ok || val != "testval" {
		t.Error("the marshaled value should be correct:", val)
	}

	ctx := UnmarshalContext(context.Background(), nil)
	if _, ok := ContextTestOne(ctx); ok {
		t.Error("the unmarshaled context should be empty:", ctx)
	}

	ctx = UnmarshalContext(context.Background(), map[string]interface{}{
		"unknown": "value",
	})
	if _, ok := ContextTestOne(ctx); ok {
		t.Error("the unmarshaled context should be empty:", ctx)
	}

	ctx = UnmarshalContext(context.Background(), vals)
	if val, ok := ContextTestOne(ctx); !ok || val != "testval" {
		t.Error("the unmarshaled context should be correct:", val)
	}
}

func TestContextCodec_Replace(t *testing.T) {
	const key = "test_context_replace"

	for _, v := range []string{"first", "second"} {
		v := v
		RegisterContextCodec(key, ContextCodecFuncs{
			Marshal: func(context.Context) (interface{}, bool) {
				return v, true
			},
			Unmarshal: func(ctx context.Context, _ interface{}) context.Context {
				return ctx
			},
		})
	}
	defer UnregisterContextCodec(key)

	if val := MarshalContext(context.Background())[key]; val != "second" {
		t.Error("the last registered codec should be used:", val)
	}
}

func TestRegisterContextCodec_Panics(t *testing.T) {
	func() {
		defer func() {
			if r := recover(); r == nil || r.(string) != "bizproc: attempt to register empty context key" {
				t.Error("there should have been a panic:", r)
			}
		}()
		RegisterContextCodec("", ContextCodecFuncs{})
	}()

	func() {
		defer func() {
			if r := recover(); r == nil || r.(string) != "bizproc: attempt to register nil context codec for key" {
				t.Error("there should have been a panic:", r)
			}
		}()
		RegisterContextCodec("key", nil)
	}()
}

type contextTestKey int

const contextTestKeyOne contextTestKey = iota

const contextTestKeyOneStr = "test_context_one"

func WithContextTestOne(ctx context.Context, val string) context.Context {
	return context.WithValue(ctx, contextTestKeyOne, val)
}

func ContextTestOne(ctx context.Context) (string, bool) {
	val, ok := ctx.Value(contextTestKeyOne).(string)

	return val, ok
}
