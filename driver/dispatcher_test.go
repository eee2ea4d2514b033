// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"errors"
	"testing"

	"github.com/SAP/go-hdb-protocol/driver/internal/protocol"
)

func TestOutcomeRowsAffected(t *testing.T) {
	reply := &Reply{functionCode: protocol.FcUpdate, affectedRows: []int32{3}}
	outcome, err := reply.outcome(&Connection{logger: defaultLogger})
	if err != nil {
		t.Fatalf("outcome: %v", err)
	}
	if outcome.Kind != OutcomeAffectedRows {
		t.Errorf("Kind = %v, want OutcomeAffectedRows", outcome.Kind)
	}
	if len(outcome.AffectedRows) != 1 || outcome.AffectedRows[0] != 3 {
		t.Errorf("AffectedRows = %v, want [3]", outcome.AffectedRows)
	}
}

func TestOutcomeSuccess(t *testing.T) {
	reply := &Reply{functionCode: protocol.FcCommit}
	outcome, err := reply.outcome(&Connection{logger: defaultLogger})
	if err != nil {
		t.Fatalf("outcome: %v", err)
	}
	if outcome.Kind != OutcomeSuccess {
		t.Errorf("Kind = %v, want OutcomeSuccess", outcome.Kind)
	}
}

func TestOutcomeResultSet(t *testing.T) {
	reply := &Reply{
		functionCode:      protocol.FcSelect,
		resultSetMetadata: &protocol.ResultSetMetadata{},
		resultSetID:       protocol.NewResultSetID(1),
		resultSetAttrs:    protocol.PartAttributes(1), // last packet, empty
	}
	outcome, err := reply.outcome(&Connection{logger: defaultLogger})
	if err != nil {
		t.Fatalf("outcome: %v", err)
	}
	if outcome.Kind != OutcomeResultSet {
		t.Errorf("Kind = %v, want OutcomeResultSet", outcome.Kind)
	}
	if outcome.ResultSet == nil {
		t.Error("ResultSet must be populated for a Select outcome")
	}
}

func TestOutcomeMultipleReturnValuesOutputParametersOnly(t *testing.T) {
	reply := &Reply{
		functionCode:     protocol.FcDBProcedureCall,
		outputParameters: &protocol.OutputParameters{},
	}
	outcome, err := reply.outcome(&Connection{logger: defaultLogger})
	if err != nil {
		t.Fatalf("outcome: %v", err)
	}
	if outcome.Kind != OutcomeMultipleReturnValues {
		t.Errorf("Kind = %v, want OutcomeMultipleReturnValues", outcome.Kind)
	}
	if len(outcome.ReturnValues) != 1 || outcome.ReturnValues[0].Kind != OutcomeOutputParameters {
		t.Errorf("ReturnValues = %+v, want one OutcomeOutputParameters entry", outcome.ReturnValues)
	}
}

func TestOutcomeUnexpectedFunctionCodeIsProtocolError(t *testing.T) {
	reply := &Reply{functionCode: protocol.FunctionCode(0)} // fcNil: none of the classifying predicates match
	_, err := reply.outcome(&Connection{logger: defaultLogger})
	if err == nil {
		t.Fatal("expected an error for an unclassifiable function code")
	}
	var dErr *Error
	if !errors.As(err, &dErr) || dErr.Kind != KindProtocol {
		t.Errorf("err = %v, want KindProtocol", err)
	}
}
