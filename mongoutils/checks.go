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

// Package mongoutils holds name checks shared by the MongoDB backed stores.
package mongoutils

import (
	"errors"
	"strings"
)

var (
	// ErrMissingCollectionName is when the collection name is empty.
	ErrMissingCollectionName = errors.New("missing collection name")
	// ErrInvalidCharInCollectionName is when a collection name contains a space,
	// a dollar sign or a null character.
	ErrInvalidCharInCollectionName = errors.New("invalid char in collection name")
	// ErrReservedCollectionName is when a collection name uses the system prefix.
	ErrReservedCollectionName = errors.New("reserved collection name")
	// ErrMissingDatabaseName is when the database name is empty.
	ErrMissingDatabaseName = errors.New("missing database name")
	// ErrInvalidCharInDatabaseName is when a database name contains a char
	// that MongoDB does not allow.
	ErrInvalidCharInDatabaseName = errors.New("invalid char in database name")
)

// CheckCollectionName checks that a collection name is usable.
func CheckCollectionName(name string) error {
	switch {
	case name == "":
		return ErrMissingCollectionName
	case strings.ContainsAny(name, " $\x00"):
		return ErrInvalidCharInCollectionName
	case strings.HasPrefix(name, "system."):
		return ErrReservedCollectionName
	}

	return nil
}

// CheckDatabaseName checks that a database name is usable.
func CheckDatabaseName(name string) error {
	if name == "" {
		return ErrMissingDatabaseName
	} else if strings.ContainsAny(name, "/\\. \"$\x00") {
		return ErrInvalidCharInDatabaseName
	}

	return nil
}
