// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"fmt"
	"sort"

	"github.com/SAP/go-hdb-protocol/driver/internal/protocol/encoding"
)

// Options is the generic option-bag wire shape (§4 supplemented features,
// "option-bag pattern"): one entry per key, each encoded as key byte, type
// tag byte and typed value. ConnectOptions, CommitOptions, FetchOptions,
// StatementContext, TransactionFlags, SessionContext, XatOptions and
// DBConnectInfo are all Options[K] instantiated at a distinct key type.
type Options[K ~int8] map[K]any

func (ops Options[K]) String() string {
	s := make([]string, 0, len(ops))
	for k, v := range ops {
		s = append(s, fmt.Sprintf("%v: %v", k, v))
	}
	sort.Strings(s)
	return fmt.Sprintf("%v", s)
}

func (ops Options[K]) numArg() int { return len(ops) }

func (ops Options[K]) size() int {
	size := 2 * len(ops) // key byte + type tag byte
	for _, v := range ops {
		size += optValueSize(v)
	}
	return size
}

func (ops *Options[K]) decode(dec *encoding.Decoder, ph *partHeader) error {
	*ops = Options[K]{} // no reuse of maps - create new one
	for i := 0; i < ph.numArg(); i++ {
		k := K(dec.Int8())
		tc := TypeCode(dec.Byte())
		v, err := decodeOptValue(dec, tc)
		if err != nil {
			return err
		}
		(*ops)[k] = v
	}
	return dec.Error()
}

func (ops Options[K]) encode(enc *encoding.Encoder) error {
	for k, v := range ops {
		enc.Int8(int8(k))
		if _, err := encodeOptValue(enc, v); err != nil {
			return err
		}
	}
	return nil
}

// optValueSize and {decode,encode}OptValue implement the small, fixed set
// of Go types the option-bag pattern actually carries (bool, int32, int64,
// float64, string, []byte); HANA's own option value type codes are a
// proper subset of the general TypeCode space (§4 supplemented features).
func optValueSize(v any) int {
	switch v := v.(type) {
	case bool:
		return 1
	case int32:
		return 4
	case int64:
		return 8
	case float64:
		return 8
	case string:
		return 4 + len(v) // int32 length prefix + CESU-8 bytes, worst case ASCII
	case []byte:
		return 4 + len(v)
	default:
		panic(fmt.Sprintf("protocol: unsupported option value type %T", v))
	}
}

func decodeOptValue(dec *encoding.Decoder, tc TypeCode) (any, error) {
	switch tc {
	case tcBoolean:
		return dec.Bool(), dec.Error()
	case tcInteger:
		return int32(dec.Int32()), dec.Error()
	case tcBigint:
		return dec.Int64(), dec.Error()
	case tcDouble:
		return dec.Float64(), dec.Error()
	case tcString:
		n := dec.Int32()
		b := make([]byte, n)
		dec.Bytes(b)
		return string(b), dec.Error()
	case tcBstring:
		n := dec.Int32()
		b := make([]byte, n)
		dec.Bytes(b)
		return b, dec.Error()
	default:
		return nil, fmt.Errorf("protocol: unsupported option type code %s", tc)
	}
}

func encodeOptValue(enc *encoding.Encoder, v any) (TypeCode, error) {
	switch v := v.(type) {
	case bool:
		enc.Int8(int8(tcBoolean))
		enc.Bool(v)
		return tcBoolean, nil
	case int32:
		enc.Int8(int8(tcInteger))
		enc.Int32(v)
		return tcInteger, nil
	case int64:
		enc.Int8(int8(tcBigint))
		enc.Int64(v)
		return tcBigint, nil
	case float64:
		enc.Int8(int8(tcDouble))
		enc.Float64(v)
		return tcDouble, nil
	case string:
		enc.Int8(int8(tcString))
		enc.Int32(int32(len(v)))
		enc.String(v)
		return tcString, nil
	case []byte:
		enc.Int8(int8(tcBstring))
		enc.Int32(int32(len(v)))
		enc.Bytes(v)
		return tcBstring, nil
	default:
		return 0, fmt.Errorf("protocol: unsupported option value type %T", v)
	}
}

// ConnectOptions negotiates client/server capabilities on CONNECT.
type ConnectOptions struct{ Options[connectOptionType] }

type connectOptionType int8

// The subset of HANA's connect-option keys this driver actually sets or
// reads (§4.9 C6 "connect handshake"); HANA defines many more, but a
// client that never sends or inspects them has no reason to name them.
const (
	coConnectionID                connectOptionType = 1
	coCompleteArrayExecution      connectOptionType = 2
	coClientLocale                connectOptionType = 3
	coDistributionProtocolVersion connectOptionType = 17
	coSelectForUpdateSupported    connectOptionType = 14
	coClientDistributionMode      connectOptionType = 15
	coDataFormatVersion2          connectOptionType = 23
	coSplitBatchCommands          connectOptionType = 18
	coFullVersionString           connectOptionType = 44
	coDatabaseName                connectOptionType = 45
)

// client distribution mode; this driver always advertises cdmOff since it
// never routes statements across a multi-node topology itself (§1 Non-goals).
const cdmOff int32 = 0

// size/encode/decode delegate to the embedded Options[K]; ConnectOptions
// exists as a named type so it can carry a distinct kind() (§4 C6).
func (o *ConnectOptions) decode(dec *encoding.Decoder, ph *partHeader) error {
	return (&o.Options).decode(dec, ph)
}
func (o ConnectOptions) encode(enc *encoding.Encoder) error { return o.Options.encode(enc) }
func (o ConnectOptions) size() int                          { return o.Options.size() }
func (o ConnectOptions) numArg() int                         { return o.Options.numArg() }
func (o ConnectOptions) String() string                      { return o.Options.String() }

// NewClientConnectOptions builds the client-capability bag sent as the
// second part of the CONNECT request (§4.9 C6), grounded on the teacher's
// Session.defaultClientOptions: array execution and batch splitting are
// always on, the client never asks the server to route across nodes for
// it, and locale is only sent when the caller configured one.
func NewClientConnectOptions(locale string, dataFormatVersion int32) *ConnectOptions {
	o := &ConnectOptions{Options: Options[connectOptionType]{
		coDistributionProtocolVersion: false,
		coSelectForUpdateSupported:    false,
		coSplitBatchCommands:          true,
		coDataFormatVersion2:          dataFormatVersion,
		coCompleteArrayExecution:      true,
		coClientDistributionMode:      cdmOff,
	}}
	if locale != "" {
		o.Options[coClientLocale] = locale
	}
	return o
}

// DataFormatVersion2 returns the data format version the server accepted.
func (o ConnectOptions) DataFormatVersion2() (int32, bool) {
	v, ok := o.Options[coDataFormatVersion2]
	if !ok {
		return 0, false
	}
	n, _ := v.(int32)
	return n, true
}

// DatabaseName returns the tenant database name, if the server reported one.
func (o ConnectOptions) DatabaseName() (string, bool) {
	v, ok := o.Options[coDatabaseName]
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, true
}

// FullVersionString returns the server's full version string, used to
// derive the HANA version the connection core exposes to callers.
func (o ConnectOptions) FullVersionString() (string, bool) {
	v, ok := o.Options[coFullVersionString]
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, true
}

// CommitOptions is sent on COMMIT (currently unused by the server but part
// of the wire contract).
type CommitOptions struct{ Options[commitOptionType] }

type commitOptionType int8

func (o *CommitOptions) decode(dec *encoding.Decoder, ph *partHeader) error {
	return (&o.Options).decode(dec, ph)
}
func (o CommitOptions) encode(enc *encoding.Encoder) error { return o.Options.encode(enc) }
func (o CommitOptions) size() int                          { return o.Options.size() }
func (o CommitOptions) numArg() int                         { return o.Options.numArg() }
func (o CommitOptions) String() string                      { return o.Options.String() }

// FetchOptions modifies a FETCH NEXT request.
type FetchOptions struct{ Options[fetchOptionType] }

type fetchOptionType int8

func (o *FetchOptions) decode(dec *encoding.Decoder, ph *partHeader) error {
	return (&o.Options).decode(dec, ph)
}
func (o FetchOptions) encode(enc *encoding.Encoder) error { return o.Options.encode(enc) }
func (o FetchOptions) size() int                          { return o.Options.size() }
func (o FetchOptions) numArg() int                         { return o.Options.numArg() }
func (o FetchOptions) String() string                      { return o.Options.String() }

// LobFlags carries per-request LOB handling flags.
type LobFlags struct{ Options[lobFlagType] }

type lobFlagType int8

const lobFlagImplicitStreaming lobFlagType = 0

func (o *LobFlags) decode(dec *encoding.Decoder, ph *partHeader) error {
	return (&o.Options).decode(dec, ph)
}
func (o LobFlags) encode(enc *encoding.Encoder) error { return o.Options.encode(enc) }
func (o LobFlags) size() int                          { return o.Options.size() }
func (o LobFlags) numArg() int                         { return o.Options.numArg() }
func (o LobFlags) String() string                      { return o.Options.String() }

// SessionContext is sent by the server to communicate session-scoped state
// (e.g. primary connection id in a load-balanced setup).
type SessionContext struct{ Options[sessionContextType] }

type sessionContextType int8

func (o *SessionContext) decode(dec *encoding.Decoder, ph *partHeader) error {
	return (&o.Options).decode(dec, ph)
}
func (o SessionContext) encode(enc *encoding.Encoder) error { return o.Options.encode(enc) }
func (o SessionContext) size() int                          { return o.Options.size() }
func (o SessionContext) numArg() int                         { return o.Options.numArg() }
func (o SessionContext) String() string                      { return o.Options.String() }

// XatOptions carries XA/distributed-transaction parameters.
type XatOptions struct{ Options[xatOptionType] }

type xatOptionType int8

func (o *XatOptions) decode(dec *encoding.Decoder, ph *partHeader) error {
	return (&o.Options).decode(dec, ph)
}
func (o XatOptions) encode(enc *encoding.Encoder) error { return o.Options.encode(enc) }
func (o XatOptions) size() int                          { return o.Options.size() }
func (o XatOptions) numArg() int                         { return o.Options.numArg() }
func (o XatOptions) String() string                      { return o.Options.String() }

// ClientContext advertises the driver's identity on CONNECT (§4.9 C6).
type ClientContext struct{ Options[ClientContextOption] }

func (o *ClientContext) decode(dec *encoding.Decoder, ph *partHeader) error {
	return (&o.Options).decode(dec, ph)
}
func (o ClientContext) encode(enc *encoding.Encoder) error { return o.Options.encode(enc) }
func (o ClientContext) size() int                          { return o.Options.size() }
func (o ClientContext) numArg() int                         { return o.Options.numArg() }
func (o ClientContext) String() string                      { return o.Options.String() }

// DBConnectInfo answers a "which host/port serves this database" request
// (§4 supplemented features, multi-tenant routing).
type DBConnectInfo struct{ Options[DBConnectInfoType] }

func (o *DBConnectInfo) decode(dec *encoding.Decoder, ph *partHeader) error {
	return (&o.Options).decode(dec, ph)
}
func (o DBConnectInfo) encode(enc *encoding.Encoder) error { return o.Options.encode(enc) }
func (o DBConnectInfo) size() int                          { return o.Options.size() }
func (o DBConnectInfo) numArg() int                         { return o.Options.numArg() }
func (o DBConnectInfo) String() string                      { return o.Options.String() }

// Host returns the routed host name, if present.
func (o DBConnectInfo) Host() (string, bool) {
	v, ok := o.Options[CiHost]
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, true
}

// Port returns the routed port number, if present.
func (o DBConnectInfo) Port() (int32, bool) {
	v, ok := o.Options[CiPort]
	if !ok {
		return 0, false
	}
	p, _ := v.(int32)
	return p, true
}

// IsConnected reports whether the connect info indicates the session is
// already connected to the correct database.
func (o DBConnectInfo) IsConnected() bool {
	v, ok := o.Options[CiIsConnected]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}
