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
	"errors"
	"fmt"
	"sync"

	bp "github.com/looplab/bizproc"
	"github.com/looplab/bizproc/uuid"
)

var (
	// ErrLockExists is returned from Lock() when the aggregate is busy.
	ErrLockExists = errors.New("lock exists")
	// ErrNoLockExists is returned from Unlock() when the aggregate is not locked.
	ErrNoLockExists = errors.New("no lock exists")
)

// Key identifies one aggregate instance. Aggregates of different types may
// share IDs, so both are part of the key.
type Key struct {
	AggregateType bp.AggregateType
	AggregateID   uuid.UUID
}

// KeyOf returns the key of the aggregate a command is addressed to.
func KeyOf(cmd bp.Command) Key {
	return Key{cmd.AggregateType(), cmd.AggregateID()}
}

// String returns the key as "type(id)".
func (k Key) String() string {
	return fmt.Sprintf("%s(%s)", k.AggregateType, k.AggregateID)
}

// Lock is a locker of aggregates.
type Lock interface {
	// Lock takes the lock for an aggregate, or returns ErrLockExists if it is
	// already taken.
	Lock(Key) error
	// Unlock releases the lock for an aggregate, or returns ErrNoLockExists if
	// it was not taken.
	Unlock(Key) error
}

// LocalLock is a Lock for a single process.
type LocalLock struct {
	locks map[Key]struct{}
	mu    sync.Mutex
}

// NewLocalLock creates a new LocalLock.
func NewLocalLock() *LocalLock {
	return &LocalLock{
		locks: map[Key]struct{}{},
	}
}

// Lock implements the Lock method of the Lock interface.
func (l *LocalLock) Lock(k Key) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.locks[k]; ok {
		return ErrLockExists
	}

	l.locks[k] = struct{}{}

	return nil
}

// Unlock implements the Unlock method of the Lock interface.
func (l *LocalLock) Unlock(k Key) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.locks[k]; !ok {
		return ErrNoLockExists
	}

	delete(l.locks, k)

	return nil
}

// Len returns the number of aggregates currently locked.
func (l *LocalLock) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.locks)
}
