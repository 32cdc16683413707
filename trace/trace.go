// Copyright 2025 the uart-interface authors
// Licensed under the MIT license. See license text in the LICENSE file.

// Package trace records and replays per-tick line activity as a CBOR
// stream. A capture holds one record per simulation tick, so a stream
// can be fed back through a fresh receiver to reproduce a decode.
package trace

import (
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
)

// Record is the activity of one simulation tick. Integer keys keep
// records small enough to capture every tick of long runs.
type Record struct {
	Tick   uint64 `cbor:"1,keyasint"`
	TxLine bool   `cbor:"2,keyasint"`
	RxLine bool   `cbor:"3,keyasint"`
	Ready  bool   `cbor:"4,keyasint"`
	Done   bool   `cbor:"5,keyasint"`
	Word   uint32 `cbor:"6,keyasint,omitempty"`
}

// Writer appends records to a CBOR stream.
type Writer struct {
	enc *cbor.Encoder
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: cbor.NewEncoder(w)}
}

func (w *Writer) Write(rec Record) error {
	return errors.Wrap(w.enc.Encode(rec), "trace write")
}

// Reader decodes records from a CBOR stream. Read returns io.EOF once
// the stream is exhausted.
type Reader struct {
	dec *cbor.Decoder
}

func NewReader(r io.Reader) *Reader {
	return &Reader{dec: cbor.NewDecoder(r)}
}

func (r *Reader) Read() (Record, error) {
	var rec Record
	if err := r.dec.Decode(&rec); err != nil {
		if err == io.EOF {
			return Record{}, io.EOF
		}
		return Record{}, errors.Wrap(err, "trace read")
	}
	return rec, nil
}

// ReadAll consumes r until EOF and returns the decoded records.
func ReadAll(r io.Reader) ([]Record, error) {
	tr := NewReader(r)
	var recs []Record
	for {
		rec, err := tr.Read()
		if err == io.EOF {
			return recs, nil
		}
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
}
