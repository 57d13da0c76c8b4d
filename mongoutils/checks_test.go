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

package mongoutils

import (
	"errors"
	"testing"
)

func TestCheckCollectionName(t *testing.T) {
	tests := map[string]struct {
		name string
		err  error
	}{
		"empty name":    {"", ErrMissingCollectionName},
		"valid name":    {"guest_stays", nil},
		"with spaces":   {"invalid name", ErrInvalidCharInCollectionName},
		"with dollar":   {"streams$", ErrInvalidCharInCollectionName},
		"system prefix": {"system.streams", ErrReservedCollectionName},
	}

	for desc, tc := range tests {
		t.Run(desc, func(t *testing.T) {
			if err := CheckCollectionName(tc.name); !errors.Is(err, tc.err) {
				t.Errorf("CheckCollectionName() error = %v, want %v", err, tc.err)
			}
		})
	}
}

func TestCheckDatabaseName(t *testing.T) {
	tests := map[string]struct {
		name string
		err  error
	}{
		"empty name": {"", ErrMissingDatabaseName},
		"valid name": {"hotel", nil},
		"with dot":   {"hotel.prod", ErrInvalidCharInDatabaseName},
		"with slash": {"hotel/prod", ErrInvalidCharInDatabaseName},
	}

	for desc, tc := range tests {
		t.Run(desc, func(t *testing.T) {
			if err := CheckDatabaseName(tc.name); !errors.Is(err, tc.err) {
				t.Errorf("CheckDatabaseName() error = %v, want %v", err, tc.err)
			}
		})
	}
}
