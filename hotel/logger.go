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

package hotel

import (
	"context"
	"log"

	bp "github.com/looplab/bizproc"
)

// Logger is a subscriber for both buses, logging every command and event.
type Logger struct {
	*log.Logger
}

var (
	_ = bp.EventHandler(&Logger{})
	_ = bp.CommandHandler(&Logger{})
)

// NewLogger creates a Logger writing to l, or to the standard logger if nil.
func NewLogger(l *log.Logger) *Logger {
	if l == nil {
		l = log.Default()
	}

	return &Logger{l}
}

// HandlerType implements the HandlerType method of the bizproc.EventHandler interface.
func (l *Logger) HandlerType() bp.EventHandlerType {
	return "logger"
}

// HandleEvent implements the HandleEvent method of the bizproc.EventHandler interface.
func (l *Logger) HandleEvent(ctx context.Context, event bp.Event) error {
	l.Printf("event: %s %+v", event, event.Data())

	return nil
}

// HandleCommand implements the HandleCommand method of the bizproc.CommandHandler interface.
func (l *Logger) HandleCommand(ctx context.Context, cmd bp.Command) error {
	l.Printf("command: %s(%s) %+v", cmd.CommandType(), cmd.AggregateID(), cmd)

	return nil
}
