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

package bus

import (
	"context"
	"errors"
	"sync"

	bp "github.com/looplab/bizproc"
)

var (
	// ErrHandlerAlreadySet is when a handler is already registered for a command.
	ErrHandlerAlreadySet = errors.New("handler is already set")
	// ErrHandlerNotFound is when no handler can be found.
	ErrHandlerNotFound = errors.New("no handlers for command")
	// ErrMissingHandler is when a nil handler is registered.
	ErrMissingHandler = errors.New("missing handler")
)

// CommandHandler is a command handler that handles commands by routing to the
// registered CommandHandlers. Subscribers added with Use see every command,
// in the order they were added, before it is routed.
type CommandHandler struct {
	handlers    map[bp.CommandType]bp.CommandHandler
	subscribers []bp.CommandHandler
	handlersMu  sync.RWMutex
}

var _ = bp.CommandBus(&CommandHandler{})

// NewCommandHandler creates a CommandHandler.
func NewCommandHandler() *CommandHandler {
	return &CommandHandler{
		handlers: make(map[bp.CommandType]bp.CommandHandler),
	}
}

// HandleCommand handles a command with a handler capable of handling it.
// The lock is released before dispatching, so that handlers may send further
// commands on the same bus.
func (h *CommandHandler) HandleCommand(ctx context.Context, cmd bp.Command) error {
	h.handlersMu.RLock()
	handler, ok := h.handlers[cmd.CommandType()]
	subscribers := h.subscribers
	h.handlersMu.RUnlock()

	for _, s := range subscribers {
		if err := s.HandleCommand(ctx, cmd); err != nil {
			return err
		}
	}

	if !ok {
		return ErrHandlerNotFound
	}

	return handler.HandleCommand(ctx, cmd)
}

// SetHandler adds a handler for a specific command.
func (h *CommandHandler) SetHandler(handler bp.CommandHandler, cmdType bp.CommandType) error {
	if handler == nil {
		return ErrMissingHandler
	}

	h.handlersMu.Lock()
	defer h.handlersMu.Unlock()

	if _, ok := h.handlers[cmdType]; ok {
		return ErrHandlerAlreadySet
	}

	h.handlers[cmdType] = handler

	return nil
}

// Use adds a subscriber that sees every command sent on the bus.
func (h *CommandHandler) Use(subscriber bp.CommandHandler) {
	h.handlersMu.Lock()
	defer h.handlersMu.Unlock()

	h.subscribers = append(h.subscribers, subscriber)
}
