package realtime

import (
	"github.com/blaubaer/sos-station/pkg/common"
)

const (
	DefaultAudioCaptureCommand = "ffmpeg -hide_banner -loglevel error -f alsa -i default -ac 1 -ar 48000 -c:a libopus -b:a 32k -page_duration 20000 -f ogg -"
	DefaultVideoCaptureCommand = "ffmpeg -hide_banner -loglevel error -f v4l2 -framerate 15 -video_size 640x480 -i /dev/video0 -c:v libvpx -deadline realtime -b:v 600k -f ivf -"
)

func NewConfiguration() Configuration {
	return Configuration{
		AudioCaptureCommand: DefaultAudioCaptureCommand,
		VideoCaptureCommand: DefaultVideoCaptureCommand,
	}
}

type Configuration struct {
	Url string `yaml:"url,omitempty"`

	// AudioCaptureCommand has to write an Ogg/Opus stream to stdout.
	AudioCaptureCommand string `yaml:"audioCaptureCommand,omitempty"`
	// VideoCaptureCommand has to write an IVF (VP8) stream to stdout.
	VideoCaptureCommand string `yaml:"videoCaptureCommand,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("realtime.url", "URL of the LiveKit server, for example wss://sos.livekit.cloud.").
		Envar("LIVEKIT_URL").
		StringVar(&this.Url)
	using.Flag("realtime.audioCaptureCommand", "Command which captures the local microphone and writes Ogg/Opus to stdout.").
		Envar("AUDIO_CAPTURE_COMMAND").
		StringVar(&this.AudioCaptureCommand)
	using.Flag("realtime.videoCaptureCommand", "Command which captures the local camera and writes IVF/VP8 to stdout.").
		Envar("VIDEO_CAPTURE_COMMAND").
		StringVar(&this.VideoCaptureCommand)
}
