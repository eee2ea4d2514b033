// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"errors"
	"fmt"
	"testing"

	"github.com/SAP/go-hdb-protocol/driver/internal/protocol"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindImpl, "impl"},
		{KindIO, "io"},
		{KindProtocol, "protocol"},
		{KindDbMessage, "db message"},
		{KindSerialization, "serialization"},
		{KindUsage, "usage"},
		{KindDeserialization, "deserialization"},
		{Kind(99), "unknown"},
	}
	for _, test := range tests {
		if got := test.kind.String(); got != test.want {
			t.Errorf("Kind(%d).String() = %q, want %q", test.kind, got, test.want)
		}
	}
}

func TestErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := usageError("wrapping: %w", inner)

	var dErr *Error
	if !errors.As(err, &dErr) {
		t.Fatal("errors.As did not find *Error")
	}
	if dErr.Kind != KindUsage {
		t.Errorf("Kind = %v, want KindUsage", dErr.Kind)
	}
	if !errors.Is(err, inner) {
		t.Error("errors.Is did not see through Unwrap to the inner error")
	}
}

func TestNewErrorNilIsNil(t *testing.T) {
	if err := newError(KindIO, nil); err != nil {
		t.Errorf("newError(_, nil) = %v, want nil", err)
	}
}

func TestDBErrors(t *testing.T) {
	hdbErrs := &protocol.HdbErrors{}
	err := dbMessageError(hdbErrs)

	got, ok := DBErrors(err)
	if !ok {
		t.Fatal("DBErrors did not recognize a KindDbMessage error")
	}
	if got != hdbErrs {
		t.Error("DBErrors returned a different *protocol.HdbErrors than was wrapped")
	}

	if _, ok := DBErrors(usageError("not a db message")); ok {
		t.Error("DBErrors should not recognize a non-KindDbMessage error")
	}
	if _, ok := DBErrors(fmt.Errorf("plain error")); ok {
		t.Error("DBErrors should not recognize an error that isn't a *Error at all")
	}
}
