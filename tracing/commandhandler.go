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

// Package tracing adds opentracing spans around command handlers, event
// handlers, event buses and event stores.
package tracing

import (
	"context"
	"fmt"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"

	bp "github.com/looplab/bizproc"
)

// NewCommandHandlerMiddleware returns a new command handler middleware that adds tracing spans.
func NewCommandHandlerMiddleware() bp.CommandHandlerMiddleware {
	return bp.CommandHandlerMiddleware(func(h bp.CommandHandler) bp.CommandHandler {
		return bp.CommandHandlerFunc(func(ctx context.Context, cmd bp.Command) error {
			opName := fmt.Sprintf("Command(%s)", cmd.CommandType())
			sp, ctx := opentracing.StartSpanFromContext(ctx, opName)

			err := h.HandleCommand(ctx, cmd)

			sp.SetTag("bp.command_type", cmd.CommandType())
			sp.SetTag("bp.aggregate_type", cmd.AggregateType())
			sp.SetTag("bp.aggregate_id", cmd.AggregateID())

			if err != nil {
				ext.LogError(sp, err)
			}

			sp.Finish()

			return err
		})
	})
}
