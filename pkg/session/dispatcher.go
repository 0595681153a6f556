package session

import (
	"context"
	"fmt"
	"time"

	log "github.com/echocat/slf4g"

	"github.com/blaubaer/sos-station/pkg/common"
)

type Dialer interface {
	Dial(ctx context.Context) (Result, error)
}

// Dispatcher admits presses through the Guard and runs one Dial for every
// admitted press.
type Dispatcher struct {
	Guard  *Guard
	Dialer Dialer
}

func NewDispatcher(dialer Dialer) *Dispatcher {
	return &Dispatcher{
		Guard:  &Guard{},
		Dialer: dialer,
	}
}

// Handle runs the attempt synchronously and returns false if the press was
// dropped because another attempt is in progress. Errors of the attempt are
// logged, never returned.
func (this *Dispatcher) Handle(ctx context.Context, pressedAt time.Time) bool {
	if !this.Guard.TryAcquire() {
		log.With("pressedAt", pressedAt).
			Info("SOS already in progress; ignoring button press.")
		return false
	}
	defer func() {
		this.Guard.Release()
		log.Info("Dialer run finished; ready for next press.")
	}()

	log.With("pressedAt", pressedAt).
		Info("Button pressed; launching SOS dialer.")
	this.dial(ctx)
	return true
}

func (this *Dispatcher) dial(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.WithError(fmt.Errorf("panic: %v", r)).
				Error("SOS dialing flow crashed.")
		}
	}()

	result, err := this.Dialer.Dial(ctx)
	if err != nil {
		logger := log.WithError(err)
		if ae, ok := common.AsError[*AttemptError](err); ok {
			logger = logger.With("stage", ae.Stage).
				With("call", ae.CallId)
			if ae.IncidentId != "" {
				logger = logger.With("incidentId", ae.IncidentId)
			}
		}
		logger.Error("SOS dialing flow failed.")
		return
	}

	log.With("outcome", result.Outcome).
		With("incidentId", result.IncidentId).
		With("answered", result.Answered).
		With("duration", result.Duration).
		Info("SOS call finished.")
}
