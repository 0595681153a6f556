package tone

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/zaf/g711"
)

var (
	ErrUnavailable       = errors.New("tone resource unavailable")
	ErrUnsupportedFormat = errors.New("unsupported clip format")
)

const ulawSampleRate = 8000

// Clip is a decoded audio clip as signed 16 bit little endian PCM.
type Clip struct {
	Pcm          []byte
	SampleRate   int
	ChannelCount int
}

func (this Clip) Duration() float64 {
	bytesPerSecond := this.SampleRate * this.ChannelCount * 2
	if bytesPerSecond <= 0 {
		return 0
	}
	return float64(len(this.Pcm)) / float64(bytesPerSecond)
}

func LoadClip(fn string) (*Clip, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open clip %q: %w", ErrUnavailable, fn, err)
	}
	defer func() {
		_ = f.Close()
	}()

	var result *Clip
	switch ext := strings.ToLower(filepath.Ext(fn)); ext {
	case ".wav", ".wave":
		result, err = decodeWav(f)
	case ".mp3":
		result, err = decodeMp3(f)
	case ".ulaw", ".ul", ".pcmu", ".mulaw":
		result, err = decodeUlaw(f)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: cannot decode clip %q: %w", ErrUnavailable, fn, err)
	}
	if len(result.Pcm) == 0 {
		return nil, fmt.Errorf("%w: clip %q is empty", ErrUnavailable, fn)
	}
	return result, nil
}

func decodeWav(r io.ReadSeeker) (*Clip, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("not a valid wav file")
	}
	if dec.WavAudioFormat != 1 {
		return nil, fmt.Errorf("%w: wav audio format %d", ErrUnsupportedFormat, dec.WavAudioFormat)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, err
	}

	shift := int(dec.BitDepth) - 16
	pcm := make([]byte, len(buf.Data)*2)
	for i, sample := range buf.Data {
		switch {
		case dec.BitDepth == 8:
			// 8 bit wav samples are unsigned.
			sample = (sample - 128) << 8
		case shift > 0:
			sample >>= shift
		}
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(int16(sample)))
	}

	return &Clip{
		Pcm:          pcm,
		SampleRate:   int(dec.SampleRate),
		ChannelCount: int(dec.NumChans),
	}, nil
}

func decodeMp3(r io.Reader) (*Clip, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, err
	}
	pcm, err := io.ReadAll(dec)
	if err != nil {
		return nil, err
	}
	return &Clip{
		Pcm:          pcm,
		SampleRate:   dec.SampleRate(),
		ChannelCount: 2,
	}, nil
}

func decodeUlaw(r io.Reader) (*Clip, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, err
	}
	return &Clip{
		Pcm:          g711.DecodeUlaw(buf.Bytes()),
		SampleRate:   ulawSampleRate,
		ChannelCount: 1,
	}, nil
}
