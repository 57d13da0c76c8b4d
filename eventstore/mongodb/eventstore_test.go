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

package mongodb

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"os"
	"testing"

	tcmongodb "github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/looplab/bizproc/eventstore"
)

func TestEventStoreIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	store := newTestEventStore(t)

	eventstore.AcceptanceTest(t, store, context.Background())
	eventstore.ConcurrencyAcceptanceTest(t, store, context.Background())

	if err := store.Clear(context.Background()); err != nil {
		t.Error("there should be no error:", err)
	}

	if err := store.Close(); err != nil {
		t.Error("there should be no error:", err)
	}
}

func TestWithCollectionNameIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	url := mongoURL(t)
	db := randomDBName(t)

	store, err := NewEventStore(url, db, WithCollectionName("bar-stream"))
	if err != nil {
		t.Fatal("there should be no error:", err)
	}

	defer store.Close()

	if store.streams.Name() != "bar-stream" {
		t.Fatal("streams collection should use custom collection name")
	}

	if _, err := NewEventStore(url, db, WithCollectionName("")); err == nil || err.Error() != "error while applying option: streams collection: missing collection name" {
		t.Fatal("there should be an error")
	}

	if _, err := NewEventStore(url, db, WithCollectionName("system.streams")); err == nil {
		t.Fatal("there should be an error")
	}
}

func newTestEventStore(t *testing.T) *EventStore {
	t.Helper()

	db := randomDBName(t)
	t.Log("using DB:", db)

	store, err := NewEventStore(mongoURL(t), db)
	if err != nil {
		t.Fatal("there should be no error:", err)
	}

	if store == nil {
		t.Fatal("there should be a store")
	}

	return store
}

// mongoURL uses MONGODB_ADDR when set, or else starts a MongoDB container.
func mongoURL(t *testing.T) string {
	t.Helper()

	if addr := os.Getenv("MONGODB_ADDR"); addr != "" {
		return "mongodb://" + addr
	}

	ctx := context.Background()

	container, err := tcmongodb.Run(ctx, "mongo:7")
	if err != nil {
		t.Skip("could not start MongoDB container:", err)
	}

	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Log("could not terminate MongoDB container:", err)
		}
	})

	url, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatal("there should be no error:", err)
	}

	return url
}

func randomDBName(t *testing.T) string {
	t.Helper()

	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		t.Fatal(err)
	}

	return "test-" + hex.EncodeToString(b)
}
