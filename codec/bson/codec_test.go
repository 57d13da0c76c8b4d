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

package bson

import (
	"testing"

	"github.com/looplab/bizproc/codec"
	"github.com/looplab/bizproc/uuid"
)

func TestEventCodec(t *testing.T) {
	c := &EventCodec{}
	codec.EventCodecAcceptanceTest(t, c, nil)
}

func TestUUIDAsString(t *testing.T) {
	type doc struct {
		ID  uuid.UUID
		IDs []uuid.UUID
	}

	id := uuid.MustParse("10a7ec0f-7f2b-46f5-bca1-877b6e33c9fd")

	b, err := Marshal(doc{ID: id, IDs: []uuid.UUID{id}})
	if err != nil {
		t.Fatal("there should be no error:", err)
	}

	if s, ok := b.Lookup("id").StringValueOK(); !ok || s != id.String() {
		t.Error("the id should be stored as a string:", b.Lookup("id"))
	}

	var decoded doc
	if err := Unmarshal(b, &decoded); err != nil {
		t.Fatal("there should be no error:", err)
	}

	if decoded.ID != id || len(decoded.IDs) != 1 || decoded.IDs[0] != id {
		t.Error("the decoded doc should be correct:", decoded)
	}
}
