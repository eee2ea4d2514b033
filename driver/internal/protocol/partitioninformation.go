// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

// partitionInformation is the pkPartitionInformation part (§4 supplemented
// features, from original_source/): HANA attaches it to a reply when a
// statement touched a partitioned table. The driver has no partition-aware
// routing of its own, so the part is parsed only, to keep the reply
// dispatcher (C8) from choking on an unrecognized trailing part.
package protocol

import "github.com/SAP/go-hdb-protocol/driver/internal/protocol/encoding"

type partitionInformationOption int8

const (
	poRerunInfo partitionInformationOption = 0x01
)

// partitionInformation carries the raw per-partition host/port rows; the
// driver surfaces none of it to the caller, matching the Non-goal that
// connection routing stays out of scope.
type partitionInformation struct {
	option partitionInformationOption
	raw    []byte
}

func (p *partitionInformation) String() string { return "partitionInformation" }

func (p *partitionInformation) decode(dec *encoding.Decoder, ph *partHeader) error {
	p.option = partitionInformationOption(dec.Int8())
	n := int(ph.bufferLength) - 1
	if n < 0 {
		n = 0
	}
	p.raw = make([]byte, n)
	dec.Bytes(p.raw)
	return dec.Error()
}
