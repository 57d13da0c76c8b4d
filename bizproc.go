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

// Package bizproc is a small CQRS/ES toolkit for event driven business
// processes: event sourced aggregates that decide on commands, and process
// managers (sagas) that react to their events by issuing new commands.
//
// The root package only holds the contracts. Implementations live in sub
// packages: event stores in eventstore/, buses in eventbus/ and
// commandhandler/bus, the aggregate pipeline in aggregatestore/events and
// commandhandler/aggregate, and the saga runner in eventhandler/saga.
//
// The default wiring is synchronous: publishing an event or sending a command
// runs the whole causal chain of follow up commands and events before the call
// returns. Handlers must still be idempotent so that an asynchronous,
// at-least-once transport can be swapped in without changing the outcome.
package bizproc
