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
	"fmt"

	"github.com/looplab/bizproc/mongoutils"
)

// Option is an option setter used to configure creation.
type Option func(*EventStore) error

// WithCollectionName uses a different collection than the default "streams".
func WithCollectionName(streamsColl string) Option {
	return func(s *EventStore) error {
		if err := mongoutils.CheckCollectionName(streamsColl); err != nil {
			return fmt.Errorf("streams collection: %w", err)
		}

		s.streamsCollectionName = streamsColl

		return nil
	}
}
