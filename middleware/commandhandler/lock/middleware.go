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

package lock

import (
	"context"
	"fmt"
	"log"

	bp "github.com/looplab/bizproc"
)

// NewMiddleware returns a middleware handling one command per aggregate at a
// time. A command for a busy aggregate fails with ErrLockExists.
func NewMiddleware(l Lock) bp.CommandHandlerMiddleware {
	return bp.CommandHandlerMiddleware(func(h bp.CommandHandler) bp.CommandHandler {
		return bp.CommandHandlerFunc(func(ctx context.Context, cmd bp.Command) error {
			k := KeyOf(cmd)
			if err := l.Lock(k); err != nil {
				return fmt.Errorf("could not lock %s: %w", k, err)
			}

			defer func() {
				if err := l.Unlock(k); err != nil {
					log.Printf("bizproc: could not unlock %s: %s", k, err)
				}
			}()

			return h.HandleCommand(ctx, cmd)
		})
	})
}
