package backend

import (
	"fmt"
)

type Operation uint8

const (
	OperationRegisterIncident = Operation(1)
	OperationFetchToken       = Operation(2)
	OperationReportHangup     = Operation(3)
)

func (this Operation) String() string {
	switch this {
	case OperationRegisterIncident:
		return "registerIncident"
	case OperationFetchToken:
		return "fetchToken"
	case OperationReportHangup:
		return "reportHangup"
	default:
		return fmt.Sprintf("illegal-backend-operation-%d", this)
	}
}

// Error is returned by every operation of Client that failed, timed out or
// received a response which does not contain everything required.
type Error struct {
	Operation  Operation
	StatusCode int
	Message    string
	Cause      error
}

func (this *Error) Error() string {
	msg := fmt.Sprintf("backend %v failed", this.Operation)
	if this.StatusCode > 0 {
		msg += fmt.Sprintf(" with status %d", this.StatusCode)
	}
	if this.Message != "" {
		msg += ": " + this.Message
	}
	if this.Cause != nil {
		msg += ": " + this.Cause.Error()
	}
	return msg
}

func (this *Error) Unwrap() error {
	return this.Cause
}
