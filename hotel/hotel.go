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

// Package hotel wires the guest stay accounts and the group checkout to-do
// list together on an event store, an event bus and a command bus.
package hotel

import (
	"context"
	"errors"
	"fmt"

	bp "github.com/looplab/bizproc"
	"github.com/looplab/bizproc/aggregatestore/events"
	"github.com/looplab/bizproc/commandhandler/bus"
	"github.com/looplab/bizproc/eventbus/local"
	"github.com/looplab/bizproc/eventhandler/saga"
	"github.com/looplab/bizproc/eventstore/memory"
	"github.com/looplab/bizproc/hotel/groupcheckouts"
	"github.com/looplab/bizproc/hotel/guests"
	"github.com/looplab/bizproc/middleware/commandhandler/lock"
	"github.com/looplab/bizproc/middleware/commandhandler/retry"
	"github.com/looplab/bizproc/middleware/commandhandler/validate"
	"github.com/looplab/bizproc/middleware/eventhandler/async"
	"github.com/looplab/bizproc/tracing"
)

// Hotel holds the configured components.
type Hotel struct {
	EventStore     bp.EventStore
	EventBus       bp.EventBus
	CommandBus     *bus.CommandHandler
	Guests         *guests.Facade
	GroupCheckouts *groupcheckouts.ToDoList

	// SagaErrors receives the errors of the to-do list when it runs
	// asynchronously, nil otherwise. It must be drained, and is closed by Close.
	SagaErrors <-chan *async.Error

	saga bp.EventHandler
}

// Option is an option setter used to configure creation.
type Option func(*config)

type config struct {
	eventStore         bp.EventStore
	eventSubscribers   []bp.EventHandler
	commandSubscribers []bp.CommandHandler
	tracing            bool
	async              bool
	asyncOptions       []async.Option
	retryOptions       []retry.Option
}

// WithEventStore uses store instead of a new in-memory event store.
func WithEventStore(store bp.EventStore) Option {
	return func(c *config) {
		c.eventStore = store
	}
}

// WithEventSubscriber adds a subscriber that sees every published event,
// before any handler reacts to it.
func WithEventSubscriber(h bp.EventHandler) Option {
	return func(c *config) {
		c.eventSubscribers = append(c.eventSubscribers, h)
	}
}

// WithCommandSubscriber adds a subscriber that sees every command sent on the
// command bus, before it is handled.
func WithCommandSubscriber(h bp.CommandHandler) Option {
	return func(c *config) {
		c.commandSubscribers = append(c.commandSubscribers, h)
	}
}

// WithSubscriber adds a subscriber to both buses, like a message catcher or a
// logger.
func WithSubscriber(h interface {
	bp.EventHandler
	bp.CommandHandler
}) Option {
	return func(c *config) {
		c.eventSubscribers = append(c.eventSubscribers, h)
		c.commandSubscribers = append(c.commandSubscribers, h)
	}
}

// WithTracing adds tracing spans to the event store, the event bus and all
// command handling.
func WithTracing() Option {
	return func(c *config) {
		c.tracing = true
	}
}

// WithAsyncSaga delivers events to the to-do list asynchronously. Errors are
// sent on Hotel.SagaErrors.
func WithAsyncSaga(options ...async.Option) Option {
	return func(c *config) {
		c.async = true
		c.asyncOptions = append(c.asyncOptions, options...)
	}
}

// WithRetry configures how commands are retried after losing a race.
func WithRetry(options ...retry.Option) Option {
	return func(c *config) {
		c.retryOptions = append(c.retryOptions, options...)
	}
}

// Configure creates all components and registers the to-do list on the event
// bus and the guest stay accounts on the command bus.
func Configure(ctx context.Context, options ...Option) (*Hotel, error) {
	c := &config{}
	for _, option := range options {
		option(c)
	}

	h := &Hotel{
		EventStore: c.eventStore,
		CommandBus: bus.NewCommandHandler(),
	}

	if h.EventStore == nil {
		h.EventStore = memory.NewEventStore()
	}

	eventBus := bp.EventBus(local.NewEventBus())

	var middleware []bp.CommandHandlerMiddleware

	if c.tracing {
		tracing.RegisterContext()
		h.EventStore = tracing.NewEventStore(h.EventStore)
		eventBus = tracing.NewEventBus(eventBus)
		middleware = append(middleware, tracing.NewCommandHandlerMiddleware())
	}

	h.EventBus = eventBus

	// Subscribers go first, to see every message before it causes others.
	for _, s := range c.eventSubscribers {
		h.EventBus.Use(s)
	}

	for _, s := range c.commandSubscribers {
		h.CommandBus.Use(s)
	}

	guestStore, err := events.NewAggregateStore(h.EventStore, h.EventBus)
	if err != nil {
		return nil, fmt.Errorf("could not create guest stay store: %w", err)
	}

	groupStore, err := events.NewAggregateStore(h.EventStore, h.EventBus,
		events.WithPublishedEvents(groupcheckouts.PublishedEvents()))
	if err != nil {
		return nil, fmt.Errorf("could not create group checkout store: %w", err)
	}

	locks := lock.NewLocalLock()
	retries := retry.NewMiddleware(c.retryOptions...)
	locked := append(append([]bp.CommandHandlerMiddleware{}, middleware...),
		validate.NewMiddleware(),
		retries,
		lock.NewMiddleware(locks),
	)

	if h.Guests, err = guests.NewFacade(guestStore, locked...); err != nil {
		return nil, fmt.Errorf("could not create guest stay facade: %w", err)
	}

	if err := h.CommandBus.SetHandler(h.Guests, guests.CheckOutGuestCommand); err != nil {
		return nil, fmt.Errorf("could not register guest stay facade: %w", err)
	}

	// Outcomes are recorded while the initiation may still hold its lock.
	if h.GroupCheckouts, err = groupcheckouts.NewToDoList(groupStore,
		groupcheckouts.WithInitiateMiddleware(locked...),
		groupcheckouts.WithOutcomeMiddleware(append(middleware, retries)...),
	); err != nil {
		return nil, fmt.Errorf("could not create group checkout to-do list: %w", err)
	}

	sagaHandler := bp.EventHandler(saga.NewEventHandler(h.GroupCheckouts, h.CommandBus))

	if c.async {
		m, errCh := async.NewMiddleware(c.asyncOptions...)
		sagaHandler = bp.UseEventHandlerMiddleware(sagaHandler, m)
		h.SagaErrors = errCh
	}

	h.saga = sagaHandler

	if err := h.EventBus.AddHandler(ctx, groupcheckouts.Matcher(), sagaHandler); err != nil {
		return nil, fmt.Errorf("could not register group checkout to-do list: %w", err)
	}

	return h, nil
}

// Close waits for an asynchronous to-do list to finish and closes SagaErrors,
// then closes the event bus and the event store.
func (h *Hotel) Close() error {
	var sagaErr error
	if c, ok := h.saga.(interface{ Close() error }); ok {
		sagaErr = c.Close()
	}

	return errors.Join(sagaErr, h.EventBus.Close(), h.EventStore.Close())
}
