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

package bizproc

import (
	"errors"
	"testing"
	"time"

	"github.com/looplab/bizproc/uuid"
)

func TestCreateCommand(t *testing.T) {
	cmd, err := CreateCommand(TestCommandRegisterType)
	if !errors.Is(err, ErrCommandNotRegistered) {
		t.Error("there should be a command not registered error:", err)
	}

	RegisterCommand(func() Command { return &TestCommandRegister{} })

	cmd, err = CreateCommand(TestCommandRegisterType)
	if err != nil {
		t.Error("there should be no error:", err)
	}

	if cmd.CommandType() != TestCommandRegisterType {
		t.Error("the command type should be correct:", cmd.CommandType())
	}
}

func TestRegisterCommandEmptyName(t *testing.T) {
	defer func() {
		if r := recover(); r == nil || r != "bizproc: attempt to register empty command type" {
			t.Error("there should have been a panic:", r)
		}
	}()
	RegisterCommand(func() Command { return &TestCommandRegisterEmpty{} })
}

func TestRegisterCommandNil(t *testing.T) {
	defer func() {
		if r := recover(); r == nil || r != "bizproc: created command is nil" {
			t.Error("there should have been a panic:", r)
		}
	}()
	RegisterCommand(func() Command { return nil })
}

func TestRegisterCommandTwice(t *testing.T) {
	defer func() {
		if r := recover(); r == nil || r != "bizproc: registering duplicate types for \"TestCommandRegisterTwice\"" {
			t.Error("there should have been a panic:", r)
		}
	}()
	RegisterCommand(func() Command { return &TestCommandRegisterTwice{} })
	RegisterCommand(func() Command { return &TestCommandRegisterTwice{} })
}

func TestCheckCommand(t *testing.T) {
	id := uuid.New()

	testCases := map[string]struct {
		cmd   Command
		field string
	}{
		"all fields": {
			cmd: &TestCommandFields{TestID: id, Content: "command1"},
		},
		"missing uuid": {
			cmd:   &TestCommandUUIDValue{TestID: id},
			field: "Content",
		},
		"missing string": {
			cmd:   &TestCommandFields{TestID: id},
			field: "Content",
		},
		"zero int is allowed": {
			cmd: &TestCommandIntValue{TestID: id},
		},
		"missing slice": {
			cmd:   &TestCommandSlice{TestID: id},
			field: "Slice",
		},
		"empty slice is allowed": {
			cmd: &TestCommandSlice{TestID: id, Slice: []uuid.UUID{}},
		},
		"missing map": {
			cmd:   &TestCommandMap{TestID: id},
			field: "Map",
		},
		"missing struct": {
			cmd:   &TestCommandStruct{TestID: id},
			field: "Struct",
		},
		"missing time": {
			cmd:   &TestCommandTime{TestID: id},
			field: "Time",
		},
		"set time": {
			cmd: &TestCommandTime{TestID: id, Time: time.Now()},
		},
		"missing optional": {
			cmd: &TestCommandOptional{TestID: id},
		},
		"missing private": {
			cmd: &TestCommandPrivate{TestID: id},
		},
		"missing aggregate id": {
			cmd:   &TestCommandFields{Content: "command1"},
			field: "TestID",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			err := CheckCommand(tc.cmd)
			if tc.field == "" {
				if err != nil {
					t.Error("there should be no error:", err)
				}

				return
			}

			var fieldErr *CommandFieldError
			if !errors.As(err, &fieldErr) || fieldErr.Field != tc.field {
				t.Error("there should be a missing field error:", err)
			}

			if err.Error() != "missing field: "+tc.field {
				t.Error("the error message should be correct:", err)
			}
		})
	}
}

const (
	TestCommandRegisterType      CommandType = "TestCommandRegister"
	TestCommandRegisterEmptyType CommandType = ""
	TestCommandRegisterTwiceType CommandType = "TestCommandRegisterTwice"

	TestAggregateType AggregateType = "TestAggregate"
)

type TestCommandRegister struct{}

var _ = Command(TestCommandRegister{})

func (a TestCommandRegister) AggregateID() uuid.UUID       { return uuid.Nil }
func (a TestCommandRegister) AggregateType() AggregateType { return TestAggregateType }
func (a TestCommandRegister) CommandType() CommandType     { return TestCommandRegisterType }

type TestCommandRegisterEmpty struct{}

var _ = Command(TestCommandRegisterEmpty{})

func (a TestCommandRegisterEmpty) AggregateID() uuid.UUID       { return uuid.Nil }
func (a TestCommandRegisterEmpty) AggregateType() AggregateType { return TestAggregateType }
func (a TestCommandRegisterEmpty) CommandType() CommandType     { return TestCommandRegisterEmptyType }

type TestCommandRegisterTwice struct{}

var _ = Command(TestCommandRegisterTwice{})

func (a TestCommandRegisterTwice) AggregateID() uuid.UUID       { return uuid.Nil }
func (a TestCommandRegisterTwice) AggregateType() AggregateType { return TestAggregateType }
func (a TestCommandRegisterTwice) CommandType() CommandType     { return TestCommandRegisterTwiceType }

type TestCommandFields struct {
	TestID  uuid.UUID
	Content string
}

var _ = Command(TestCommandFields{})

func (t TestCommandFields) AggregateID() uuid.UUID       { return t.TestID }
func (t TestCommandFields) AggregateType() AggregateType { return TestAggregateType }
func (t TestCommandFields) CommandType() CommandType     { return "TestCommandFields" }

type TestCommandUUIDValue struct {
	TestID  uuid.UUID
	Content uuid.UUID
}

var _ = Command(TestCommandUUIDValue{})

func (t TestCommandUUIDValue) AggregateID() uuid.UUID       { return t.TestID }
func (t TestCommandUUIDValue) AggregateType() AggregateType { return TestAggregateType }
func (t TestCommandUUIDValue) CommandType() CommandType     { return "TestCommandUUIDValue" }

type TestCommandIntValue struct {
	TestID  uuid.UUID
	Content int64
}

var _ = Command(TestCommandIntValue{})

func (t TestCommandIntValue) AggregateID() uuid.UUID       { return t.TestID }
func (t TestCommandIntValue) AggregateType() AggregateType { return TestAggregateType }
func (t TestCommandIntValue) CommandType() CommandType     { return "TestCommandIntValue" }

type TestCommandSlice struct {
	TestID uuid.UUID
	Slice  []uuid.UUID
}

var _ = Command(TestCommandSlice{})

func (t TestCommandSlice) AggregateID() uuid.UUID       { return t.TestID }
func (t TestCommandSlice) AggregateType() AggregateType { return TestAggregateType }
func (t TestCommandSlice) CommandType() CommandType     { return "TestCommandSlice" }

type TestCommandMap struct {
	TestID uuid.UUID
	Map    map[string]string
}

var _ = Command(TestCommandMap{})

func (t TestCommandMap) AggregateID() uuid.UUID       { return t.TestID }
func (t TestCommandMap) AggregateType() AggregateType { return TestAggregateType }
func (t TestCommandMap) CommandType() CommandType     { return "TestCommandMap" }

type TestCommandStruct struct {
	TestID uuid.UUID
	Struct struct {
		Test string
	}
}

var _ = Command(TestCommandStruct{})

func (t TestCommandStruct) AggregateID() uuid.UUID       { return t.TestID }
func (t TestCommandStruct) AggregateType() AggregateType { return TestAggregateType }
func (t TestCommandStruct) CommandType() CommandType     { return "TestCommandStruct" }

type TestCommandTime struct {
	TestID uuid.UUID
	Time   time.Time
}

var _ = Command(TestCommandTime{})

func (t TestCommandTime) AggregateID() uuid.UUID       { return t.TestID }
func (t TestCommandTime) AggregateType() AggregateType { return TestAggregateType }
func (t TestCommandTime) CommandType() CommandType     { return "TestCommandTime" }

type TestCommandOptional struct {
	TestID  uuid.UUID
	Content string `bizproc:"optional"`
}

var _ = Command(TestCommandOptional{})

func (t TestCommandOptional) AggregateID() uuid.UUID       { return t.TestID }
func (t TestCommandOptional) AggregateType() AggregateType { return TestAggregateType }
func (t TestCommandOptional) CommandType() CommandType     { return "TestCommandOptional" }

type TestCommandPrivate struct {
	TestID  uuid.UUID
	private string
}

var _ = Command(TestCommandPrivate{})

func (t TestCommandPrivate) AggregateID() uuid.UUID       { return t.TestID }
func (t TestCommandPrivate) AggregateType() AggregateType { return TestAggregateType }
func (t TestCommandPrivate) CommandType() CommandType     { return "TestCommandPrivate" }
