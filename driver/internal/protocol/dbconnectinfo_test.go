// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"bufio"
	"bytes"
	"context"
	"testing"

	"github.com/SAP/go-hdb-protocol/driver/internal/protocol/encoding"
	"github.com/SAP/go-hdb-protocol/driver/unicode/cesu8"
	"golang.org/x/text/transform"
)

// writeDBConnectInfoReply hand-encodes a one-part reply message carrying a
// DBConnectInfo part, bypassing segmentHeader.encode (request-only, §3) the
// way a real server's bytes would arrive on the wire.
func writeDBConnectInfoReply(t *testing.T, enc *encoding.Encoder, info *DBConnectInfo) {
	t.Helper()

	payload := info.size()
	pad := padBytes(payload)
	size := int64(segmentHeaderSize + partHeaderSize + payload + pad)

	mh := messageHeader{sessionID: defaultSessionID, packetCount: 1, varPartLength: uint32(size), varPartSize: uint32(size), noOfSegm: 1}
	if err := mh.encode(enc); err != nil {
		t.Fatalf("message header encode: %v", err)
	}

	enc.Int32(int32(size)) // segmentLength
	enc.Int32(0)           // segmentOfs
	enc.Int16(1)           // noOfParts
	enc.Int16(1)           // segmentNo
	enc.Int8(int8(skReply))
	enc.Zeroes(1) // reserved
	enc.Int16(int16(fcNil))
	enc.Zeroes(8) // reserved

	ph := partHeader{partKind: pkDBConnectInfo, partAttributes: paLastPacket, bufferLength: int32(payload), bufferSize: int32(payload)}
	if err := ph.setNumArg(info.numArg()); err != nil {
		t.Fatalf("setNumArg: %v", err)
	}
	if err := ph.encode(enc); err != nil {
		t.Fatalf("part header encode: %v", err)
	}
	if err := info.encode(enc); err != nil {
		t.Fatalf("DBConnectInfo encode: %v", err)
	}
	enc.Zeroes(pad)
}

func TestLookupDBConnectInfo(t *testing.T) {
	reqBuf := new(bytes.Buffer)
	repBuf := new(bytes.Buffer)

	w := NewWriter(bufio.NewWriter(reqBuf), func() transform.Transformer { return cesu8.Utf8ToCesu8Transformer }, ClientInfo{}, nil)
	r := NewReader(repBuf, func() transform.Transformer { return cesu8.Cesu8ToUtf8Transformer }, nil)

	repEnc := encoding.NewEncoder(repBuf, func() transform.Transformer { return cesu8.Utf8ToCesu8Transformer })
	want := &DBConnectInfo{Options: Options[DBConnectInfoType]{
		CiHost:        "tenant1.internal",
		CiPort:        int32(30015),
		CiIsConnected: false,
	}}
	writeDBConnectInfoReply(t, repEnc, want)

	var seq int32
	next := func() int32 { seq++; return seq }

	got, err := LookupDBConnectInfo(context.Background(), r, w, next, "TENANTDB")
	if err != nil {
		t.Fatalf("LookupDBConnectInfo: %v", err)
	}

	host, ok := got.Host()
	if !ok || host != "tenant1.internal" {
		t.Fatalf("Host() = %q, %v, want %q, true", host, ok, "tenant1.internal")
	}
	port, ok := got.Port()
	if !ok || port != 30015 {
		t.Fatalf("Port() = %d, %v, want 30015, true", port, ok)
	}
	if got.IsConnected() {
		t.Fatal("IsConnected() = true, want false")
	}

	// the request side actually went out as a DBConnectInfo part naming
	// the requested database, on the mtDBConnectInfo message type.
	reqDec := encoding.NewDecoder(reqBuf, func() transform.Transformer { return cesu8.Cesu8ToUtf8Transformer })
	reqMh := messageHeader{}
	if err := reqMh.decode(reqDec); err != nil {
		t.Fatalf("decode request message header: %v", err)
	}
	reqSh := segmentHeader{}
	if err := reqSh.decode(reqDec); err != nil {
		t.Fatalf("decode request segment header: %v", err)
	}
	if reqSh.messageType != mtDBConnectInfo {
		t.Fatalf("request message type = %v, want %v", reqSh.messageType, mtDBConnectInfo)
	}
	reqPh := partHeader{}
	if err := reqPh.decode(reqDec); err != nil {
		t.Fatalf("decode request part header: %v", err)
	}
	if reqPh.partKind != pkDBConnectInfo {
		t.Fatalf("request part kind = %v, want %v", reqPh.partKind, pkDBConnectInfo)
	}
	reqInfo := DBConnectInfo{}
	if err := reqInfo.decode(reqDec, &reqPh); err != nil {
		t.Fatalf("decode request DBConnectInfo: %v", err)
	}
	if name, ok := reqInfo.Options[CiDatabaseName]; !ok || name != "TENANTDB" {
		t.Fatalf("request database name = %v, %v, want %q, true", name, ok, "TENANTDB")
	}
}
