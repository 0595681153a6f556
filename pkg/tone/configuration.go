package tone

import (
	"time"

	"github.com/blaubaer/sos-station/pkg/common"
)

const DefaultStopGrace = time.Second

func NewConfiguration() Configuration {
	return Configuration{
		StopGrace: common.SecondsOf(DefaultStopGrace),
	}
}

type Configuration struct {
	Path      string         `yaml:"path,omitempty"`
	StopGrace common.Seconds `yaml:"stopGrace,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("tone.path", "Audio clip (wav, mp3 or raw mu-law) which is played in a loop while waiting for an answer. If absent no tone is played.").
		Envar("WAIT_TONE_PATH").
		StringVar(&this.Path)
	using.Flag("tone.stopGrace", "Maximum time to wait for the tone loop to end after it was stopped.").
		Envar("WAIT_TONE_STOP_GRACE").
		SetValue(&this.StopGrace)
}
