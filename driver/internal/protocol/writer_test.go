// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"bufio"
	"bytes"
	"context"
	"testing"

	"github.com/SAP/go-hdb-protocol/driver/unicode/cesu8"
	"golang.org/x/text/transform"
)

// TestWriteReadRoundtrip exercises a full Writer.Write -> Reader.IterateParts
// cycle over heterogeneous parts (§4.1 property 3: bytes written equals the
// declared size including padding), checking both the byte count and that
// every part value survives the round trip.
func TestWriteReadRoundtrip(t *testing.T) {
	buf := new(bytes.Buffer)
	w := NewWriter(bufio.NewWriter(buf), func() transform.Transformer { return cesu8.Utf8ToCesu8Transformer }, ClientInfo{}, nil)

	cmd := command("select * from dummy where x = 'a'") // odd length, forces padding
	sid := statementID(0xdeadbeef)

	if err := w.Write(context.Background(), 7, 1, mtExecute, true, CoHoldCursorsOverCommit, cmd, &sid); err != nil {
		t.Fatalf("Write: %v", err)
	}

	wantSize := int64(segmentHeaderSize + 2*partHeaderSize)
	for _, s := range []int{cmd.size(), sid.size()} {
		wantSize += int64(s + padBytes(s))
	}
	wantTotal := messageHeaderSize + int(wantSize)
	if buf.Len() != wantTotal {
		t.Fatalf("wrote %d bytes, want %d (messageHeaderSize + segment/parts with padding)", buf.Len(), wantTotal)
	}

	r := NewReader(buf, func() transform.Transformer { return cesu8.Cesu8ToUtf8Transformer }, nil)

	var gotCmd command
	var gotSid statementID
	var sawCmd, sawSid bool
	err := r.IterateParts(context.Background(), func(ph *PartHeader) Argument {
		switch ph.Kind() {
		case pkCommand:
			sawCmd = true
			return &gotCmd
		case pkStatementID:
			sawSid = true
			return &gotSid
		default:
			return nil
		}
	})
	if err != nil {
		t.Fatalf("IterateParts: %v", err)
	}
	if !sawCmd || !sawSid {
		t.Fatalf("missing parts: sawCmd=%v sawSid=%v", sawCmd, sawSid)
	}
	if string(gotCmd) != string(cmd) {
		t.Fatalf("command roundtrip = %q, want %q", gotCmd, cmd)
	}
	if gotSid != sid {
		t.Fatalf("statementID roundtrip = %d, want %d", gotSid, sid)
	}
	if r.SessionID() != 7 {
		t.Fatalf("SessionID() = %d, want 7", r.SessionID())
	}
}

// TestWriteReadRoundtripEmptyCommand checks the n==0 padding boundary (§4.1
// property 4) for a zero-length CESU-8 command part.
func TestWriteReadRoundtripEmptyCommand(t *testing.T) {
	buf := new(bytes.Buffer)
	w := NewWriter(bufio.NewWriter(buf), func() transform.Transformer { return cesu8.Utf8ToCesu8Transformer }, ClientInfo{}, nil)

	cmd := command("")
	if err := w.Write(context.Background(), 1, 1, mtExecuteDirect, false, 0, cmd); err != nil {
		t.Fatalf("Write: %v", err)
	}

	wantSize := int64(segmentHeaderSize + partHeaderSize)
	wantTotal := messageHeaderSize + int(wantSize)
	if buf.Len() != wantTotal {
		t.Fatalf("wrote %d bytes, want %d", buf.Len(), wantTotal)
	}

	r := NewReader(buf, func() transform.Transformer { return cesu8.Cesu8ToUtf8Transformer }, nil)
	var gotCmd command
	err := r.IterateParts(context.Background(), func(ph *PartHeader) Argument {
		if ph.Kind() == pkCommand {
			return &gotCmd
		}
		return nil
	})
	if err != nil {
		t.Fatalf("IterateParts: %v", err)
	}
	if len(gotCmd) != 0 {
		t.Fatalf("command roundtrip = %q, want empty", gotCmd)
	}
}
