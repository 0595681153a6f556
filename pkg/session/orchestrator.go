package session

import (
	"context"
	"time"

	log "github.com/echocat/slf4g"
	"github.com/google/uuid"

	"github.com/blaubaer/sos-station/pkg/backend"
	"github.com/blaubaer/sos-station/pkg/realtime"
)

type Backend interface {
	RegisterIncident(ctx context.Context, req backend.IncidentRequest) (backend.Incident, error)
	FetchToken(ctx context.Context, room, identity string) (string, error)
	ReportHangup(ctx context.Context, incidentId string) error
}

type Tone interface {
	Start()
	Stop()
}

type Settings struct {
	StationId     string
	StationName   string
	RealtimeUrl   string
	AcceptTimeout time.Duration

	// KeepAnsweredCall disarms the accept timeout as soon as a peer joined.
	KeepAnsweredCall bool
	// ReportHangup reports every registered incident as ended after the
	// attempt, including attempts which failed before connecting.
	ReportHangup bool
}

func (this Settings) Identity() string {
	return "station-" + this.StationId
}

// Orchestrator drives exactly one call attempt per Dial. It does not guard
// against concurrent usage itself, see Guard.
type Orchestrator struct {
	Settings  Settings
	Backend   Backend
	Tone      Tone
	Connector realtime.Connector
}

func NewOrchestrator(settings Settings, backend Backend, tone Tone, connector realtime.Connector) *Orchestrator {
	return &Orchestrator{
		Settings:  settings,
		Backend:   backend,
		Tone:      tone,
		Connector: connector,
	}
}

func (this *Orchestrator) Dial(ctx context.Context) (result Result, rErr error) {
	call := &Call{
		Id:        uuid.NewString(),
		State:     StateIdle,
		StartedAt: time.Now(),
	}
	logger := log.With("call", call.Id)

	var sess realtime.Session
	toneStarted := false
	defer func() {
		this.teardown(ctx, logger, call, sess, toneStarted)
		result.Duration = time.Since(call.StartedAt)
	}()

	fail := func(err error) (Result, error) {
		return Result{
				Outcome:    OutcomeFailed,
				IncidentId: call.IncidentId,
				RoomName:   call.RoomName,
			}, &AttemptError{
				Stage:      call.State,
				CallId:     call.Id,
				IncidentId: call.IncidentId,
				Err:        err,
			}
	}

	call.State = StateCreatingEvent
	incident, err := this.Backend.RegisterIncident(ctx, backend.IncidentRequest{
		StationId:   this.Settings.StationId,
		StationName: this.Settings.StationName,
	})
	if err != nil {
		return fail(err)
	}
	call.IncidentId = incident.Id
	call.RoomName = incident.RoomName
	logger = logger.With("incidentId", call.IncidentId)

	call.State = StateFetchingToken
	if call.Token, err = this.Backend.FetchToken(ctx, call.RoomName, this.Settings.Identity()); err != nil {
		return fail(err)
	}

	call.State = StateConnecting
	this.Tone.Start()
	toneStarted = true

	answered := make(chan realtime.Peer, 1)
	logger.With("url", this.Settings.RealtimeUrl).
		Info("Connecting to room...")
	if sess, err = this.Connector.Connect(ctx, this.Settings.RealtimeUrl, call.Token, realtime.Handlers{
		OnPeerJoined: func(peer realtime.Peer) {
			select {
			case answered <- peer:
			default:
			}
		},
	}); err != nil {
		return fail(err)
	}

	logger.Info("Publishing local audio/video tracks...")
	if err := sess.PublishLocalAudio(ctx); err != nil {
		return fail(err)
	}
	if err := sess.PublishLocalVideo(ctx); err != nil {
		return fail(err)
	}

	call.State = StateWaiting
	outcome := this.wait(ctx, logger, call, sess, answered)

	return Result{
		Outcome:    outcome,
		IncidentId: call.IncidentId,
		RoomName:   call.RoomName,
		Answered:   call.AnsweredBy != "",
		AnsweredBy: call.AnsweredBy,
	}, nil
}

func (this *Orchestrator) wait(ctx context.Context, logger log.Logger, call *Call, sess realtime.Session, answered <-chan realtime.Peer) Outcome {
	timer := time.NewTimer(this.Settings.AcceptTimeout)
	defer timer.Stop()
	timeout := timer.C

	logger.With("timeout", this.Settings.AcceptTimeout).
		Info("Waiting for remote participant...")

	onAnswered := func(peer realtime.Peer) {
		call.AnsweredBy = peer.Identity
		logger.With("participant", peer.Identity).
			Info("Call answered.")
	}
	defer func() {
		if call.AnsweredBy != "" {
			return
		}
		select {
		case peer := <-answered:
			onAnswered(peer)
		default:
		}
	}()

	for {
		select {
		case peer := <-answered:
			answered = nil
			this.Tone.Stop()
			onAnswered(peer)
			if this.Settings.KeepAnsweredCall {
				timer.Stop()
				timeout = nil
			}
		case <-sess.Ended():
			logger.Info("Session ended.")
			return OutcomeEnded
		case <-timeout:
			if call.AnsweredBy == "" {
				logger.Warn("Timed out waiting for remote participant; hanging up.")
			} else {
				logger.Info("Accept timeout reached; hanging up.")
			}
			return OutcomeTimedOut
		case <-ctx.Done():
			logger.Info("Call interrupted; hanging up.")
			return OutcomeCancelled
		}
	}
}

// teardown is executed at the end of every attempt, regardless how far it
// came. The tone is always stopped before the session is left.
func (this *Orchestrator) teardown(ctx context.Context, logger log.Logger, call *Call, sess realtime.Session, toneStarted bool) {
	reached := call.State
	call.State = StateDisconnecting

	if toneStarted {
		this.Tone.Stop()
	}
	if sess != nil {
		if err := sess.Disconnect(); err != nil {
			logger.WithError(err).
				Warn("Cannot disconnect from room cleanly.")
		}
	}
	if this.Settings.ReportHangup && call.IncidentId != "" {
		if err := this.Backend.ReportHangup(context.WithoutCancel(ctx), call.IncidentId); err != nil {
			logger.WithError(err).
				Warn("Cannot report incident as ended.")
		}
	}

	call.State = StateIdle
	logger.With("reached", reached).
		With("duration", time.Since(call.StartedAt)).
		Info("Call flow completed.")
}
