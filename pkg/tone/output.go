package tone

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"
)

const playbackPollInterval = 20 * time.Millisecond

// Output plays a clip once. Play blocks until the clip was played completely
// or ctx is done.
type Output interface {
	Play(ctx context.Context, clip *Clip) error
}

// otoOutput plays using the default audio device of the system. Only one
// instance could exist per process.
type otoOutput struct {
	ctx *oto.Context
}

func newOtoOutput(clip *Clip) (*otoOutput, error) {
	octx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   clip.SampleRate,
		ChannelCount: clip.ChannelCount,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open audio output: %w", ErrUnavailable, err)
	}
	<-ready
	return &otoOutput{octx}, nil
}

func (this *otoOutput) Play(ctx context.Context, clip *Clip) error {
	p := this.ctx.NewPlayer(bytes.NewReader(clip.Pcm))
	p.Play()

	ticker := time.NewTicker(playbackPollInterval)
	defer ticker.Stop()
	for p.IsPlaying() {
		select {
		case <-ctx.Done():
			p.Pause()
			return nil
		case <-ticker.C:
		}
	}
	return p.Err()
}
