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

package eventstore

import (
	"context"
	"testing"
	"time"

	bp "github.com/looplab/bizproc"
	"github.com/looplab/bizproc/mocks"
	"github.com/looplab/bizproc/uuid"
)

// Benchmark appends to and loads back a single stream, like a busy aggregate.
func Benchmark(b *testing.B, store bp.EventStore) {
	id := uuid.New()
	ctx := context.Background()

	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		e := bp.NewEvent(mocks.EventType,
			&mocks.EventData{Content: "event1"}, time.Now(),
			bp.ForAggregate(mocks.AggregateType, id, n+1))

		if err := store.Save(ctx, []bp.Event{e}, n); err != nil {
			b.Fatal("could not save event:", err)
		}

		if _, err := store.Load(ctx, id); err != nil {
			b.Fatal("could not load events:", err)
		}
	}
}

// BenchmarkStreams saves one event to each of many streams in parallel, like
// many aggregates changing at once.
func BenchmarkStreams(b *testing.B, store bp.EventStore) {
	ctx := context.Background()

	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			e := bp.NewEvent(mocks.EventType,
				&mocks.EventData{Content: "event1"}, time.Now(),
				bp.ForAggregate(mocks.AggregateType, uuid.New(), 1))

			if err := store.Save(ctx, []bp.Event{e}, 0); err != nil {
				b.Error("could not save event:", err)
			}
		}
	})
}
