package realtime

import (
	"context"
	"sync"
	"time"

	log "github.com/echocat/slf4g"
	"github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"
	"github.com/pion/webrtc/v4"
)

const opusFrameDuration = 20 * time.Millisecond

func NewLiveKit(conf Configuration) *LiveKit {
	return &LiveKit{conf: conf}
}

// LiveKit connects to rooms of a LiveKit server.
type LiveKit struct {
	conf Configuration
}

func (this *LiveKit) Connect(ctx context.Context, address, token string, handlers Handlers) (Session, error) {
	sess := newLiveKitSession(this.conf, handlers)

	type connectResult struct {
		room *lksdk.Room
		err  error
	}
	done := make(chan connectResult, 1)

	go func() {
		room, err := lksdk.ConnectToRoomWithToken(address, token, sess.callback())
		done <- connectResult{room, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			sess.cancel()
			return nil, &ConnectError{OperationConnect, r.err}
		}
		sess.room = r.room
		log.With("room", r.room.Name()).
			Info("Connected to room.")
		return sess, nil
	case <-ctx.Done():
		sess.cancel()
		// The SDK cannot be interrupted while joining; leave as soon as it is done.
		go func() {
			if r := <-done; r.room != nil {
				r.room.Disconnect()
			}
		}()
		return nil, &ConnectError{OperationConnect, ctx.Err()}
	}
}

type liveKitSession struct {
	conf     Configuration
	handlers Handlers
	room     *lksdk.Room

	ctx    context.Context
	cancel context.CancelFunc

	captures []*capture

	peer  string
	mutex sync.Mutex

	ended          chan struct{}
	endOnce        sync.Once
	disconnectOnce sync.Once
}

func newLiveKitSession(conf Configuration, handlers Handlers) *liveKitSession {
	ctx, cancel := context.WithCancel(context.Background())
	return &liveKitSession{
		conf:     conf,
		handlers: handlers,
		ctx:      ctx,
		cancel:   cancel,
		ended:    make(chan struct{}),
	}
}

func (this *liveKitSession) callback() *lksdk.RoomCallback {
	return &lksdk.RoomCallback{
		OnParticipantConnected: func(rp *lksdk.RemoteParticipant) {
			this.onParticipantConnected(rp.Identity())
		},
		OnParticipantDisconnected: func(rp *lksdk.RemoteParticipant) {
			this.onParticipantDisconnected(rp.Identity())
		},
		OnDisconnected: func() {
			log.Info("Room disconnected.")
			this.end()
		},
	}
}

func (this *liveKitSession) onParticipantConnected(identity string) {
	this.mutex.Lock()
	first := this.peer == ""
	if first {
		this.peer = identity
	}
	this.mutex.Unlock()

	logger := log.With("participant", identity)
	if !first {
		logger.Info("Additional participant connected.")
		return
	}
	logger.Info("Remote participant connected.")
	if h := this.handlers.OnPeerJoined; h != nil {
		h(Peer{Identity: identity})
	}
}

func (this *liveKitSession) onParticipantDisconnected(identity string) {
	this.mutex.Lock()
	answeredBy := this.peer
	this.mutex.Unlock()

	log.With("participant", identity).
		Info("Remote participant disconnected.")
	if answeredBy != "" && answeredBy == identity {
		this.end()
	}
}

func (this *liveKitSession) end() {
	this.endOnce.Do(func() {
		close(this.ended)
	})
}

func (this *liveKitSession) PublishLocalAudio(ctx context.Context) error {
	return this.publish(ctx, OperationPublishAudio, "microphone", this.conf.AudioCaptureCommand, webrtc.MimeTypeOpus, livekit.TrackSource_MICROPHONE,
		lksdk.ReaderTrackWithFrameDuration(opusFrameDuration))
}

func (this *liveKitSession) PublishLocalVideo(ctx context.Context) error {
	return this.publish(ctx, OperationPublishVideo, "camera", this.conf.VideoCaptureCommand, webrtc.MimeTypeVP8, livekit.TrackSource_CAMERA)
}

func (this *liveKitSession) publish(ctx context.Context, op Operation, name, command, mime string, source livekit.TrackSource, opts ...lksdk.ReaderSampleProviderOption) error {
	fail := func(err error) error {
		return &ConnectError{op, err}
	}
	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	c, err := startCapture(this.ctx, name, command)
	if err != nil {
		return fail(err)
	}
	this.captures = append(this.captures, c)

	track, err := lksdk.NewLocalReaderTrack(c, mime, opts...)
	if err != nil {
		return fail(err)
	}
	if _, err := this.room.LocalParticipant.PublishTrack(track, &lksdk.TrackPublicationOptions{
		Name:   name,
		Source: source,
	}); err != nil {
		return fail(err)
	}

	log.With("track", name).
		With("mime", mime).
		Info("Local track published.")
	return nil
}

func (this *liveKitSession) Ended() <-chan struct{} {
	return this.ended
}

func (this *liveKitSession) Disconnect() error {
	this.disconnectOnce.Do(func() {
		if room := this.room; room != nil {
			room.Disconnect()
		}
		this.cancel()
		for _, c := range this.captures {
			if err := c.Close(); err != nil {
				log.WithError(err).
					With("capture", c.name).
					Warn("Cannot stop capture.")
			}
		}
		this.end()
		log.Info("Left room.")
	})
	return nil
}
