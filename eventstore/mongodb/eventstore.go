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
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	mongoOptions "go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readconcern"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.mongodb.org/mongo-driver/v2/mongo/writeconcern"

	bp "github.com/looplab/bizproc"
	codec "github.com/looplab/bizproc/codec/bson"
	"github.com/looplab/bizproc/mongoutils"
	"github.com/looplab/bizproc/uuid"
)

// EventStore is a bizproc.EventStore for MongoDB, using one document per
// aggregate stream. Appends are done with a filter on the stream version, so
// the version check and the append happen in a single atomic write.
type EventStore struct {
	client          *mongo.Client
	clientOwnership clientOwnership
	database        *mongo.Database
	streams         *mongo.Collection
	codec           bp.EventCodec

	streamsCollectionName string
}

type clientOwnership int

const (
	internalClient clientOwnership = iota
	externalClient
)

// NewEventStore creates a new EventStore with a MongoDB URI: `mongodb://hostname`.
func NewEventStore(uri, dbName string, options ...Option) (*EventStore, error) {
	opts := mongoOptions.Client().ApplyURI(uri)
	opts.SetWriteConcern(writeconcern.Majority())
	opts.SetReadConcern(readconcern.Majority())
	opts.SetReadPreference(readpref.Primary())
	opts.SetRegistry(codec.Registry)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("could not connect to DB: %w", err)
	}

	return newEventStoreWithClient(client, internalClient, dbName, options...)
}

// NewEventStoreWithClient creates a new EventStore with a client.
func NewEventStoreWithClient(client *mongo.Client, dbName string, options ...Option) (*EventStore, error) {
	return newEventStoreWithClient(client, externalClient, dbName, options...)
}

func newEventStoreWithClient(client *mongo.Client, clientOwnership clientOwnership, dbName string, options ...Option) (*EventStore, error) {
	if client == nil {
		return nil, fmt.Errorf("missing DB client")
	}

	if err := mongoutils.CheckDatabaseName(dbName); err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	s := &EventStore{
		client:                client,
		clientOwnership:       clientOwnership,
		database:              client.Database(dbName),
		codec:                 &codec.EventCodec{},
		streamsCollectionName: "streams",
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, fmt.Errorf("error while applying option: %w", err)
		}
	}

	s.streams = s.database.Collection(s.streamsCollectionName)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("could not connect to MongoDB: %w", err)
	}

	return s, nil
}

// stream is the document holding all events of one aggregate.
type stream struct {
	ID            string           `bson:"_id"`
	AggregateType bp.AggregateType `bson:"aggregate_type"`
	Version       int              `bson:"version"`
	Events        []bson.Raw       `bson:"events"`
	UpdatedAt     time.Time        `bson:"updated_at"`
}

// Save implements the Save method of the bizproc.EventStore interface.
func (s *EventStore) Save(ctx context.Context, events []bp.Event, originalVersion int) error {
	if len(events) == 0 {
		return &bp.EventStoreError{
			Err: bp.ErrMissingEvents,
			Op:  bp.EventStoreOpSave,
		}
	}

	id := events[0].AggregateID()
	at := events[0].AggregateType()

	// Build all event records, with incrementing versions starting from the
	// original aggregate version.
	raws := make([]bson.Raw, len(events))

	for i, event := range events {
		// Only accept events belonging to the same aggregate.
		if event.AggregateID() != id {
			return &bp.EventStoreError{
				Err:              bp.ErrMismatchedEventAggregateIDs,
				Op:               bp.EventStoreOpSave,
				AggregateType:    at,
				AggregateID:      id,
				AggregateVersion: originalVersion,
				Events:           events,
			}
		}

		if event.AggregateType() != at {
			return &bp.EventStoreError{
				Err:              bp.ErrMismatchedEventAggregateTypes,
				Op:               bp.EventStoreOpSave,
				AggregateType:    at,
				AggregateID:      id,
				AggregateVersion: originalVersion,
				Events:           events,
			}
		}

		// Only accept events that apply to the correct aggregate version.
		if event.Version() != originalVersion+i+1 {
			return &bp.EventStoreError{
				Err:              bp.ErrIncorrectEventVersion,
				Op:               bp.EventStoreOpSave,
				AggregateType:    at,
				AggregateID:      id,
				AggregateVersion: originalVersion,
				Events:           events,
			}
		}

		b, err := s.codec.MarshalEvent(ctx, event)
		if err != nil {
			return &bp.EventStoreError{
				Err:              fmt.Errorf("could not encode event: %w", err),
				Op:               bp.EventStoreOpSave,
				AggregateType:    at,
				AggregateID:      id,
				AggregateVersion: originalVersion,
				Events:           events,
			}
		}

		raws[i] = bson.Raw(b)
	}

	now := time.Now()

	// Either insert a new stream or append to an existing one, but only if
	// its version has not changed since the aggregate was loaded.
	if originalVersion == 0 {
		if _, err := s.streams.InsertOne(ctx, stream{
			ID:            id.String(),
			AggregateType: at,
			Version:       len(raws),
			Events:        raws,
			UpdatedAt:     now,
		}); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				err = bp.ErrEventConflictFromOtherSave
			} else {
				err = fmt.Errorf("could not insert stream: %w", err)
			}

			return &bp.EventStoreError{
				Err:              err,
				Op:               bp.EventStoreOpSave,
				AggregateType:    at,
				AggregateID:      id,
				AggregateVersion: originalVersion,
				Events:           events,
			}
		}

		return nil
	}

	r, err := s.streams.UpdateOne(ctx,
		bson.M{
			"_id":            id.String(),
			"aggregate_type": at,
			"version":        originalVersion,
		},
		bson.M{
			"$push": bson.M{"events": bson.M{"$each": raws}},
			"$set": bson.M{
				"version":    originalVersion + len(raws),
				"updated_at": now,
			},
		},
	)
	if err != nil {
		return &bp.EventStoreError{
			Err:              fmt.Errorf("could not update stream: %w", err),
			Op:               bp.EventStoreOpSave,
			AggregateType:    at,
			AggregateID:      id,
			AggregateVersion: originalVersion,
			Events:           events,
		}
	}

	if r.MatchedCount == 0 {
		return &bp.EventStoreError{
			Err:              bp.ErrEventConflictFromOtherSave,
			Op:               bp.EventStoreOpSave,
			AggregateType:    at,
			AggregateID:      id,
			AggregateVersion: originalVersion,
			Events:           events,
		}
	}

	return nil
}

// Load implements the Load method of the bizproc.EventStore interface.
func (s *EventStore) Load(ctx context.Context, id uuid.UUID) ([]bp.Event, error) {
	var st stream
	if err := s.streams.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&st); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			err = bp.ErrAggregateNotFound
		} else {
			err = fmt.Errorf("could not find stream: %w", err)
		}

		return nil, &bp.EventStoreError{
			Err:         err,
			Op:          bp.EventStoreOpLoad,
			AggregateID: id,
		}
	}

	events := make([]bp.Event, len(st.Events))

	for i, raw := range st.Events {
		event, _, err := s.codec.UnmarshalEvent(ctx, raw)
		if err != nil {
			return nil, &bp.EventStoreError{
				Err:              fmt.Errorf("could not decode event: %w", err),
				Op:               bp.EventStoreOpLoad,
				AggregateType:    st.AggregateType,
				AggregateID:      id,
				AggregateVersion: i + 1,
			}
		}

		events[i] = event
	}

	return events, nil
}

// Clear drops all streams, used in tests.
func (s *EventStore) Clear(ctx context.Context) error {
	if err := s.streams.Drop(ctx); err != nil {
		return fmt.Errorf("could not clear streams collection: %w", err)
	}

	return nil
}

// Close implements the Close method of the bizproc.EventStore interface.
func (s *EventStore) Close() error {
	if s.clientOwnership == externalClient {
		// Don't close a client we don't own.
		return nil
	}

	return s.client.Disconnect(context.Background())
}
