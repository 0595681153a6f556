package backend

import (
	"time"

	"github.com/blaubaer/sos-station/pkg/common"
)

const DefaultTimeout = 15 * time.Second

func NewConfiguration() Configuration {
	return Configuration{
		Timeout:      common.SecondsOf(DefaultTimeout),
		ReportHangup: common.ToggleOn,
	}
}

type Configuration struct {
	Url          string         `yaml:"url,omitempty"`
	Timeout      common.Seconds `yaml:"timeout,omitempty"`
	ReportHangup common.Toggle  `yaml:"reportHangup,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("backend.url", "Base URL of the SOS backend, for example https://sos.example.org.").
		Envar("API_BASE_URL").
		StringVar(&this.Url)
	using.Flag("backend.timeout", "Timeout of each request against the backend. Either seconds or a duration.").
		Envar("BACKEND_TIMEOUT").
		SetValue(&this.Timeout)
	using.Flag("backend.reportHangup", "If set the incident will be reported as ended to the backend after each call attempt.").
		Envar("REPORT_HANGUP").
		SetValue(&this.ReportHangup)
}
