package session

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/blaubaer/sos-station/pkg/backend"
	"github.com/blaubaer/sos-station/pkg/realtime"
)

type recorder struct {
	events []string
	mutex  sync.Mutex
}

func (this *recorder) record(event string) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	this.events = append(this.events, event)
}

func (this *recorder) all() []string {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	return slices.Clone(this.events)
}

func (this *recorder) count(event string) (result int) {
	for _, v := range this.all() {
		if v == event {
			result++
		}
	}
	return
}

func (this *recorder) index(event string) int {
	return slices.Index(this.all(), event)
}

type fakeBackend struct {
	rec *recorder

	incident    backend.Incident
	registerErr error
	token       string
	tokenErr    error
	hangupErr   error

	registers atomic.Int32
	hangups   []string
	mutex     sync.Mutex
}

func newFakeBackend(rec *recorder) *fakeBackend {
	return &fakeBackend{
		rec:      rec,
		incident: backend.Incident{Id: "abc", RoomName: "room1"},
		token:    "token1",
	}
}

func (this *fakeBackend) RegisterIncident(_ context.Context, _ backend.IncidentRequest) (backend.Incident, error) {
	this.registers.Add(1)
	this.rec.record("register")
	if err := this.registerErr; err != nil {
		return backend.Incident{}, err
	}
	return this.incident, nil
}

func (this *fakeBackend) FetchToken(_ context.Context, _, _ string) (string, error) {
	this.rec.record("token")
	if err := this.tokenErr; err != nil {
		return "", err
	}
	return this.token, nil
}

func (this *fakeBackend) ReportHangup(_ context.Context, incidentId string) error {
	this.rec.record("hangup")
	this.mutex.Lock()
	this.hangups = append(this.hangups, incidentId)
	this.mutex.Unlock()
	return this.hangupErr
}

type fakeTone struct {
	rec     *recorder
	running atomic.Bool
	// stopDelay lets Stop take the given time like a lingering output.
	stopDelay time.Duration
}

func (this *fakeTone) Start() {
	this.rec.record("tone.start")
	this.running.Store(true)
}

func (this *fakeTone) Stop() {
	if this.running.Load() && this.stopDelay > 0 {
		time.Sleep(this.stopDelay)
	}
	if this.running.CompareAndSwap(true, false) {
		this.rec.record("tone.stop")
	}
}

type fakeConnector struct {
	rec *recorder

	connectErr      error
	publishAudioErr error
	publishVideoErr error

	// peerJoinsAfter > 0 lets a peer join after the given delay.
	peerJoinsAfter time.Duration
	// endsAfter > 0 ends the session after the given delay.
	endsAfter time.Duration

	address  string
	token    string
	sessions []*fakeSession
	handlers []realtime.Handlers
	mutex    sync.Mutex
}

func (this *fakeConnector) Connect(_ context.Context, address, token string, handlers realtime.Handlers) (realtime.Session, error) {
	this.rec.record("connect")
	if err := this.connectErr; err != nil {
		return nil, err
	}
	sess := &fakeSession{
		connector: this,
		ended:     make(chan struct{}),
	}

	this.mutex.Lock()
	this.address = address
	this.token = token
	this.sessions = append(this.sessions, sess)
	this.handlers = append(this.handlers, handlers)
	this.mutex.Unlock()

	if d := this.peerJoinsAfter; d > 0 {
		time.AfterFunc(d, func() {
			sess.peerJoinedCalls.Add(1)
			this.rec.record("peer.joined")
			handlers.OnPeerJoined(realtime.Peer{Identity: "admin"})
			this.rec.record("peer.handled")
		})
	}
	if d := this.endsAfter; d > 0 {
		time.AfterFunc(d, sess.end)
	}
	return sess, nil
}

func (this *fakeConnector) handlersOf(attempt int) realtime.Handlers {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	return this.handlers[attempt]
}

func (this *fakeConnector) session() *fakeSession {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	if len(this.sessions) == 0 {
		return nil
	}
	return this.sessions[len(this.sessions)-1]
}

type fakeSession struct {
	connector *fakeConnector

	ended           chan struct{}
	endOnce         sync.Once
	disconnects     atomic.Int32
	peerJoinedCalls atomic.Int32
}

func (this *fakeSession) end() {
	this.endOnce.Do(func() {
		close(this.ended)
	})
}

func (this *fakeSession) PublishLocalAudio(context.Context) error {
	this.connector.rec.record("publish.audio")
	return this.connector.publishAudioErr
}

func (this *fakeSession) PublishLocalVideo(context.Context) error {
	this.connector.rec.record("publish.video")
	return this.connector.publishVideoErr
}

func (this *fakeSession) Ended() <-chan struct{} {
	return this.ended
}

func (this *fakeSession) Disconnect() error {
	this.disconnects.Add(1)
	this.connector.rec.record("disconnect")
	return nil
}
