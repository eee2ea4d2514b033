// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"context"
	"errors"
	"testing"

	"github.com/SAP/go-hdb-protocol/driver/internal/protocol"
)

func TestAddBatchValidatesArgCount(t *testing.T) {
	stmt := &PreparedStatement{inputFields: []*protocol.ParameterField{{}}}

	if err := stmt.AddBatch([]any{1, 2}); err == nil {
		t.Fatal("expected a usage error for a mismatched argument count")
	} else {
		var dErr *Error
		if !errors.As(err, &dErr) || dErr.Kind != KindUsage {
			t.Errorf("err = %v, want KindUsage", err)
		}
	}

	if err := stmt.AddBatch([]any{1}); err != nil {
		t.Fatalf("AddBatch with a matching argument count: %v", err)
	}
	if len(stmt.batch) != 1 {
		t.Errorf("len(batch) = %d, want 1", len(stmt.batch))
	}
}

func TestAddRowToBatchUnwrapsValues(t *testing.T) {
	stmt := &PreparedStatement{inputFields: []*protocol.ParameterField{{}}}

	if err := stmt.AddRowToBatch([]protocol.Value{{V: "hello"}}); err != nil {
		t.Fatalf("AddRowToBatch: %v", err)
	}
	if len(stmt.batch) != 1 || stmt.batch[0][0] != "hello" {
		t.Errorf("batch = %v, want [[hello]]", stmt.batch)
	}
}

func TestExecuteBatchRejectsEmptyBatch(t *testing.T) {
	stmt := &PreparedStatement{}
	_, err := stmt.ExecuteBatch(context.Background())
	if err == nil {
		t.Fatal("expected a usage error for an empty batch")
	}
	var dErr *Error
	if !errors.As(err, &dErr) || dErr.Kind != KindUsage {
		t.Errorf("err = %v, want KindUsage", err)
	}
}

func TestExecuteValidatesArgCount(t *testing.T) {
	stmt := &PreparedStatement{inputFields: []*protocol.ParameterField{{}, {}}}
	_, err := stmt.execute(context.Background(), []any{1})
	if err == nil {
		t.Fatal("expected a usage error for a mismatched argument count")
	}
	var dErr *Error
	if !errors.As(err, &dErr) || dErr.Kind != KindUsage {
		t.Errorf("err = %v, want KindUsage", err)
	}
}
