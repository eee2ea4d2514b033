// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

// fieldNames resolves the trailing name blob that ResultSetMetadata and
// ParameterMetadata share: each field carries a byte offset into a single
// CESU-8 name table appended after the fixed-size field records, rather
// than its own length-framed string (§4 supplemented features).
package protocol

import "github.com/SAP/go-hdb-protocol/driver/internal/protocol/encoding"

type offsetName struct {
	offset uint32
	name   string
}

type fieldNames []offsetName

func (ns *fieldNames) search(offset uint32) (int, bool) {
	i, j := 0, len(*ns)
	for i < j {
		m := (i + j) / 2
		if (*ns)[m].offset < offset {
			i = m + 1
		} else {
			j = m
		}
	}
	if i < len(*ns) && (*ns)[i].offset == offset {
		return i, true
	}
	return i, false
}

// insert records that a name lives at offset, deduplicating against
// multiple fields that reference the same offset.
func (ns *fieldNames) insert(offset uint32) {
	i, ok := ns.search(offset)
	if ok {
		return
	}
	*ns = append(*ns, offsetName{})
	copy((*ns)[i+1:], (*ns)[i:])
	(*ns)[i] = offsetName{offset: offset}
}

func (ns fieldNames) name(offset uint32) string {
	i, ok := ns.search(offset)
	if !ok {
		return ""
	}
	return ns[i].name
}

// decode walks the sorted offset list and reads one length-framed CESU-8
// name at each, skipping any gap bytes between consecutive offsets (the
// server may leave unreferenced names in the blob).
func (ns fieldNames) decode(dec *encoding.Decoder) error {
	var pos uint32
	for i := range ns {
		if diff := ns[i].offset - pos; diff > 0 {
			dec.Skip(int(diff))
			pos += diff
		}
		before := dec.Cnt()
		b, err := decodeLengthFramedCesu8(dec)
		if err != nil {
			return err
		}
		ns[i].name = string(b)
		pos += uint32(dec.Cnt() - before)
	}
	return dec.Error()
}
