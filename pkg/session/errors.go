package session

import (
	"fmt"
)

// AttemptError is returned by Orchestrator.Dial if an attempt was aborted.
type AttemptError struct {
	Stage      State
	CallId     string
	IncidentId string
	Err        error
}

func (this *AttemptError) Error() string {
	if this.IncidentId != "" {
		return fmt.Sprintf("call attempt %s (incident %s) failed while %v: %v", this.CallId, this.IncidentId, this.Stage, this.Err)
	}
	return fmt.Sprintf("call attempt %s failed while %v: %v", this.CallId, this.Stage, this.Err)
}

func (this *AttemptError) Unwrap() error {
	return this.Err
}
