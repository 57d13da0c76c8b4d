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

// Command hotel runs one group checkout for a number of guest stays and dumps
// every command and event it caused, as JSON lines on stdout.
package main

import (
	"context"
	"log"
	"os"
	"sync"
	"time"

	bp "github.com/looplab/bizproc"
	"github.com/looplab/bizproc/catcher"
	"github.com/looplab/bizproc/eventstore/memory"
	"github.com/looplab/bizproc/eventstore/mongodb"
	"github.com/looplab/bizproc/hotel"
	"github.com/looplab/bizproc/hotel/groupcheckouts"
	"github.com/looplab/bizproc/hotel/guests"
	"github.com/looplab/bizproc/middleware/eventhandler/async"
	"github.com/looplab/bizproc/uuid"
)

func main() {
	cfg, err := parseConfig()
	if err != nil {
		log.Fatal("could not read config: ", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg config) error {
	var store bp.EventStore = memory.NewEventStore()

	if cfg.Backend == "mongodb" {
		s, err := mongodb.NewEventStore(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return err
		}

		if cfg.ClearStore {
			if err := s.Clear(ctx); err != nil {
				log.Println("could not clear DB:", err)
			}
		}

		store = s
	}

	c := catcher.New()
	options := []hotel.Option{
		hotel.WithEventStore(store),
		hotel.WithSubscriber(c),
	}

	if cfg.Verbose {
		options = append(options, hotel.WithSubscriber(hotel.NewLogger(nil)))
	}

	if cfg.Tracing {
		closer, err := newTracer("hotel", cfg.ZipkinHost)
		if err != nil {
			return err
		}
		defer closer.Close()

		options = append(options, hotel.WithTracing())
	}

	wg := &sync.WaitGroup{}
	if cfg.Async {
		options = append(options, hotel.WithAsyncSaga(async.WithWaitGroup(wg)))
	}

	h, err := hotel.Configure(ctx, options...)
	if err != nil {
		return err
	}

	drained := make(chan struct{})

	if h.SagaErrors != nil {
		go func() {
			defer close(drained)

			for err := range h.SagaErrors {
				log.Println("group checkout error:", err)
			}
		}()
	} else {
		close(drained)
	}

	defer func() {
		if err := h.Close(); err != nil {
			log.Println("could not close:", err)
		}

		<-drained
	}()

	now := time.Now().UTC()
	ids := uuid.NewN(cfg.Guests)

	for i, id := range ids {
		if err := h.Guests.CheckInGuest(ctx, &guests.CheckInGuest{GuestStayID: id, Time: now}); err != nil {
			return err
		}

		if err := h.Guests.RecordCharge(ctx, &guests.RecordCharge{GuestStayID: id, Amount: 100, Time: now}); err != nil {
			return err
		}

		// The last guests leave without paying in full.
		paid := int64(100)
		if i >= cfg.Guests-cfg.Unsettled {
			paid = 50
		}

		if err := h.Guests.RecordPayment(ctx, &guests.RecordPayment{GuestStayID: id, Amount: paid, Time: now}); err != nil {
			return err
		}
	}

	c.Reset()

	groupID := uuid.New()
	if err := h.GroupCheckouts.InitiateGroupCheckout(ctx, &groupcheckouts.InitiateGroupCheckout{
		GroupCheckoutID: groupID,
		ClerkID:         uuid.New(),
		GuestStayIDs:    ids,
		Time:            now,
	}); err != nil {
		return err
	}

	wg.Wait()

	summary, err := h.GroupCheckouts.Status(ctx, groupID)
	if err != nil {
		return err
	}

	log.Printf("group checkout %s: %s, %d checked out, %d failed",
		summary.ID, summary.Status, len(summary.CheckedOut), len(summary.Failed))

	return c.Dump(ctx, os.Stdout)
}
