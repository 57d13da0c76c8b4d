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

// Package uuid holds the identifier type used for aggregates, guest stays,
// clerks and group checkouts.
package uuid

import "github.com/google/uuid"

// UUID is an alias type for github.com/google/uuid.UUID
type UUID = uuid.UUID

// Nil is an empty UUID.
var Nil = UUID(uuid.Nil)

// New creates a new random UUID.
func New() UUID {
	return UUID(uuid.New())
}

// NewN creates n new random UUIDs.
func NewN(n int) []UUID {
	ids := make([]UUID, n)
	for i := range ids {
		ids[i] = New()
	}

	return ids
}

// Parse parses a UUID from a string, or returns an error.
func Parse(s string) (UUID, error) {
	id, err := uuid.Parse(s)

	return UUID(id), err
}

// MustParse parses a UUID from a string, or panics.
func MustParse(s string) UUID {
	return UUID(uuid.MustParse(s))
}

// Strings returns the string form of every id, in order.
func Strings(ids []UUID) []string {
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}

	return strs
}

// ParseAll parses a list of UUIDs, failing on the first invalid one.
func ParseAll(strs []string) ([]UUID, error) {
	ids := make([]UUID, len(strs))
	for i, s := range strs {
		id, err := Parse(s)
		if err != nil {
			return nil, err
		}

		ids[i] = id
	}

	return ids, nil
}
