package realtime

import (
	"context"
	"fmt"
)

type Peer struct {
	Identity string
}

// Handlers are registered while connecting, so no event which happens
// directly after the connection is established is lost.
type Handlers struct {
	// OnPeerJoined is called (at most once per Session) when the first
	// remote participant joined the session.
	OnPeerJoined func(Peer)
}

type Connector interface {
	Connect(ctx context.Context, address, token string, handlers Handlers) (Session, error)
}

type Session interface {
	PublishLocalAudio(ctx context.Context) error
	PublishLocalVideo(ctx context.Context) error

	// Ended is closed once the session ended; either because the room was
	// closed or the remote peer who joined left again.
	Ended() <-chan struct{}

	// Disconnect leaves the session. It is safe to be called more than once.
	Disconnect() error
}

type Operation uint8

const (
	OperationConnect      = Operation(1)
	OperationPublishAudio = Operation(2)
	OperationPublishVideo = Operation(3)
)

func (this Operation) String() string {
	switch this {
	case OperationConnect:
		return "connect"
	case OperationPublishAudio:
		return "publishAudio"
	case OperationPublishVideo:
		return "publishVideo"
	default:
		return fmt.Sprintf("illegal-realtime-operation-%d", this)
	}
}

type ConnectError struct {
	Operation Operation
	Cause     error
}

func (this *ConnectError) Error() string {
	return fmt.Sprintf("realtime session %v failed: %v", this.Operation, this.Cause)
}

func (this *ConnectError) Unwrap() error {
	return this.Cause
}
