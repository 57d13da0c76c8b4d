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

package json

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	bp "github.com/looplab/bizproc"
)

// Encoder writes a stream of commands and events as newline delimited JSON,
// in the formats of CommandCodec and EventCodec.
type Encoder struct {
	w        io.Writer
	events   EventCodec
	commands CommandCodec
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// EncodeCommand writes one command line.
func (e *Encoder) EncodeCommand(ctx context.Context, cmd bp.Command) error {
	b, err := e.commands.MarshalCommand(ctx, cmd)
	if err != nil {
		return err
	}

	return e.writeLine(b)
}

// EncodeEvent writes one event line.
func (e *Encoder) EncodeEvent(ctx context.Context, event bp.Event) error {
	b, err := e.events.MarshalEvent(ctx, event)
	if err != nil {
		return err
	}

	return e.writeLine(b)
}

func (e *Encoder) writeLine(b []byte) error {
	if _, err := e.w.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("could not write: %w", err)
	}

	return nil
}

// Decoder reads a stream written by an Encoder. Each value is decoded as a
// command or an event depending on which type field it has.
type Decoder struct {
	dec      *json.Decoder
	events   EventCodec
	commands CommandCodec
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{dec: json.NewDecoder(r)}
}

// ErrUnknownMessage is returned when a value is neither a command nor an event.
var ErrUnknownMessage = errors.New("neither a command nor an event")

// Decode reads the next value. Exactly one of the returned command and event
// is set. It returns io.EOF at the end of the stream.
func (d *Decoder) Decode(ctx context.Context) (bp.Command, bp.Event, context.Context, error) {
	var raw json.RawMessage
	if err := d.dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, nil, io.EOF
		}

		return nil, nil, nil, fmt.Errorf("could not read: %w", err)
	}

	var kind struct {
		CommandType bp.CommandType `json:"command_type"`
		EventType   bp.EventType   `json:"event_type"`
	}
	if err := json.Unmarshal(raw, &kind); err != nil {
		return nil, nil, nil, fmt.Errorf("could not read message type: %w", err)
	}

	switch {
	case kind.CommandType != "":
		cmd, ctx, err := d.commands.UnmarshalCommand(ctx, raw)

		return cmd, nil, ctx, err
	case kind.EventType != "":
		event, ctx, err := d.events.UnmarshalEvent(ctx, raw)

		return nil, event, ctx, err
	default:
		return nil, nil, nil, ErrUnknownMessage
	}
}
