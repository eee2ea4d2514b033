// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"github.com/SAP/go-hdb-protocol/driver/internal/protocol/encoding"
	"github.com/SAP/go-hdb-protocol/driver/unicode/cesu8"
)

// keyValues is the flat CESU-8 string-keyed map wire shape used by
// ClientInfo, kept distinct from the option-bag pattern (key byte + type
// tag + typed value) used by ConnectOptions and friends (§4 supplemented
// features).
type keyValues map[string]string

func (kv keyValues) decode(dec *encoding.Decoder, cnt int) error {
	for i := 0; i < cnt; i++ {
		k, err := decodeLengthFramedCesu8(dec)
		if err != nil {
			return err
		}
		v, err := decodeLengthFramedCesu8(dec)
		if err != nil {
			return err
		}
		kv[string(k)] = string(v)
	}
	return nil
}

func (kv keyValues) size() int {
	size := 0
	for k, v := range kv {
		size += varBytesSize(cesu8.StringSize(k)) + varBytesSize(cesu8.StringSize(v))
	}
	return size
}

func (kv keyValues) encode(enc *encoding.Encoder) error {
	for k, v := range kv {
		encodeLengthFramedCesu8(enc, k)
		encodeLengthFramedCesu8(enc, v)
	}
	return enc.Error()
}
