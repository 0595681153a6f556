package tone

import (
	"context"
	"sync"
	"time"

	log "github.com/echocat/slf4g"
)

// Player loops a clip in the background while a call waits for an answer.
// A Player without a usable clip or audio output silently does nothing.
type Player struct {
	clip   *Clip
	output Output
	grace  time.Duration

	mutex  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	// abandoned is the done of a loop which was stopped but maybe did not
	// end yet. No other loop plays before it is closed.
	abandoned chan struct{}
	// previous is what the current loop waits for before it plays.
	previous chan struct{}
}

func NewPlayer(conf Configuration) *Player {
	result := NewPlayerFor(nil, nil, conf.StopGrace.Duration())

	if conf.Path == "" {
		log.Info("No wait tone configured. Tone loop disabled.")
		return result
	}

	logger := log.With("path", conf.Path)
	clip, err := LoadClip(conf.Path)
	if err != nil {
		logger.WithError(err).
			Warn("Tone loop disabled.")
		return result
	}
	output, err := newOtoOutput(clip)
	if err != nil {
		logger.WithError(err).
			Warn("Tone loop disabled.")
		return result
	}

	logger.With("sampleRate", clip.SampleRate).
		With("channels", clip.ChannelCount).
		With("duration", clip.Duration()).
		Info("Wait tone loaded.")

	result.clip = clip
	result.output = output
	return result
}

func NewPlayerFor(clip *Clip, output Output, grace time.Duration) *Player {
	if grace <= 0 {
		grace = DefaultStopGrace
	}
	return &Player{
		clip:   clip,
		output: output,
		grace:  grace,
	}
}

func (this *Player) Enabled() bool {
	return this.clip != nil && this.output != nil
}

func (this *Player) Running() bool {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	return this.cancel != nil
}

func (this *Player) Start() {
	if !this.Enabled() {
		return
	}

	this.mutex.Lock()
	defer this.mutex.Unlock()

	if this.cancel != nil {
		if !isClosed(this.done) {
			return
		}
		// Ended on its own after an output failure; start over.
		this.cancel()
	}

	previous := this.abandoned
	if previous != nil && isClosed(previous) {
		previous, this.abandoned = nil, nil
	} else if previous != nil {
		log.Warn("Previous tone loop is still busy. Tone starts once it ended.")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	this.cancel = cancel
	this.done = done
	this.previous = previous

	go this.loop(ctx, previous, done)
	log.Debug("Tone loop started.")
}

// Stop signals the loop to end and waits for it, but not longer than the
// configured grace period. It returns immediately if no loop is running or
// the loop never started playing.
func (this *Player) Stop() {
	this.mutex.Lock()
	cancel, done, previous := this.cancel, this.done, this.previous
	this.cancel, this.done, this.previous = nil, nil, nil
	if done == nil {
		this.mutex.Unlock()
		return
	}
	cancel()
	if previous != nil && !isClosed(previous) {
		// Still waiting for an earlier loop which remains the abandoned one.
		this.mutex.Unlock()
		return
	}
	this.abandoned = done
	this.mutex.Unlock()

	timer := time.NewTimer(this.grace)
	defer timer.Stop()

	select {
	case <-done:
		this.mutex.Lock()
		if this.abandoned == done {
			this.abandoned = nil
		}
		this.mutex.Unlock()
		log.Debug("Tone loop stopped.")
	case <-timer.C:
		log.With("grace", this.grace).
			Warn("Tone loop did not end within grace period. Leaving it behind.")
	}
}

func (this *Player) loop(ctx context.Context, previous <-chan struct{}, done chan struct{}) {
	defer close(done)

	if previous != nil {
		select {
		case <-previous:
		case <-ctx.Done():
			return
		}
	}

	for ctx.Err() == nil {
		if err := this.output.Play(ctx, this.clip); err != nil {
			log.WithError(err).
				Warn("Cannot play wait tone. Tone loop ended.")
			return
		}
	}
}

func isClosed(c <-chan struct{}) bool {
	select {
	case <-c:
		return true
	default:
		return false
	}
}
