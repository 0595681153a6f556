package realtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blaubaer/sos-station/pkg/common"
)

func TestLiveKitSession_peerJoinedOnlyOnce(t *testing.T) {
	var joined []Peer
	instance := newLiveKitSession(NewConfiguration(), Handlers{
		OnPeerJoined: func(p Peer) { joined = append(joined, p) },
	})

	instance.onParticipantConnected("admin-1")
	instance.onParticipantConnected("admin-2")

	assert.Equal(t, []Peer{{Identity: "admin-1"}}, joined)
	assertNotEnded(t, instance)
}

func TestLiveKitSession_endsIfAnsweringPeerLeaves(t *testing.T) {
	instance := newLiveKitSession(NewConfiguration(), Handlers{})

	instance.onParticipantDisconnected("someone")
	assertNotEnded(t, instance)

	instance.onParticipantConnected("admin-1")
	instance.onParticipantConnected("admin-2")
	instance.onParticipantDisconnected("admin-2")
	assertNotEnded(t, instance)

	instance.onParticipantDisconnected("admin-1")
	assertEnded(t, instance)
}

func TestLiveKitSession_disconnectIsIdempotent(t *testing.T) {
	instance := newLiveKitSession(NewConfiguration(), Handlers{})

	require.NoError(t, instance.Disconnect())
	require.NoError(t, instance.Disconnect())

	assertEnded(t, instance)
	assert.Error(t, instance.ctx.Err())
}

func TestLiveKitSession_publishWithoutCommand(t *testing.T) {
	conf := NewConfiguration()
	conf.AudioCaptureCommand = ""
	instance := newLiveKitSession(conf, Handlers{})
	defer func() { _ = instance.Disconnect() }()

	err := instance.PublishLocalAudio(context.Background())
	actual, ok := common.AsError[*ConnectError](err)
	require.True(t, ok)
	assert.Equal(t, OperationPublishAudio, actual.Operation)
	assert.ErrorIs(t, err, errEmptyCommand)
}

func TestLiveKitSession_publishWithCancelledContext(t *testing.T) {
	instance := newLiveKitSession(NewConfiguration(), Handlers{})
	defer func() { _ = instance.Disconnect() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := instance.PublishLocalVideo(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, instance.captures)
}

func assertEnded(t *testing.T, instance *liveKitSession) {
	t.Helper()
	select {
	case <-instance.Ended():
	default:
		assert.Fail(t, "session should be ended")
	}
}

func assertNotEnded(t *testing.T, instance *liveKitSession) {
	t.Helper()
	select {
	case <-instance.Ended():
		assert.Fail(t, "session should not be ended")
	default:
	}
}
