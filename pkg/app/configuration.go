package app

import (
	"fmt"
	"io"
	"net/url"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/blaubaer/sos-station/pkg/backend"
	"github.com/blaubaer/sos-station/pkg/button"
	"github.com/blaubaer/sos-station/pkg/common"
	"github.com/blaubaer/sos-station/pkg/realtime"
	"github.com/blaubaer/sos-station/pkg/session"
	"github.com/blaubaer/sos-station/pkg/tone"
)

const (
	DefaultConfigurationFile = "/etc/sos-station/configuration.yml"
	DefaultAcceptTimeout     = 90
)

func NewConfiguration() Configuration {
	return Configuration{
		AcceptTimeout:    common.NewSeconds(DefaultAcceptTimeout),
		KeepAnsweredCall: common.ToggleOff,

		Backend:  backend.NewConfiguration(),
		Realtime: realtime.NewConfiguration(),
		Button:   button.NewConfiguration(),
		Tone:     tone.NewConfiguration(),
	}
}

type Configuration struct {
	Station StationConfiguration `yaml:"station,omitempty"`

	AcceptTimeout    common.Seconds `yaml:"acceptTimeout,omitempty"`
	KeepAnsweredCall common.Toggle  `yaml:"keepAnsweredCall,omitempty"`

	Backend  backend.Configuration  `yaml:"backend,omitempty"`
	Realtime realtime.Configuration `yaml:"realtime,omitempty"`
	Button   button.Configuration   `yaml:"button,omitempty"`
	Tone     tone.Configuration     `yaml:"tone,omitempty"`
}

type StationConfiguration struct {
	Id   string `yaml:"id,omitempty"`
	Name string `yaml:"name,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("station.id", "Identifier of this station as known to the backend.").
		Envar("STATION_ID").
		StringVar(&this.Station.Id)
	using.Flag("station.name", "Human readable name of this station, shown to the operators.").
		Envar("STATION_NAME").
		StringVar(&this.Station.Name)
	using.Flag("acceptTimeout", fmt.Sprintf("How long a call waits for being answered before it hangs up. Either seconds or a duration. Default: %d", DefaultAcceptTimeout)).
		Envar("ACCEPT_TIMEOUT_SECONDS").
		SetValue(&this.AcceptTimeout)
	using.Flag("keepAnsweredCall", "If set an answered call is no longer ended by the accept timeout.").
		Envar("KEEP_ANSWERED_CALL").
		SetValue(&this.KeepAnsweredCall)

	this.Backend.SetupConfiguration(using)
	this.Realtime.SetupConfiguration(using)
	this.Button.SetupConfiguration(using)
	this.Tone.SetupConfiguration(using)
}

// Validate reports all problems of this configuration at once.
func (this Configuration) Validate() error {
	var err error
	required := func(v, name, envar string) {
		if v == "" {
			err = multierr.Append(err, fmt.Errorf("%s (%s) is required", name, envar))
		}
	}

	required(this.Backend.Url, "backend.url", "API_BASE_URL")
	required(this.Station.Id, "station.id", "STATION_ID")
	required(this.Station.Name, "station.name", "STATION_NAME")
	required(this.Realtime.Url, "realtime.url", "LIVEKIT_URL")

	if v := this.Backend.Url; v != "" {
		if u, uErr := url.Parse(v); uErr != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			err = multierr.Append(err, fmt.Errorf("backend.url (API_BASE_URL) is not a valid http(s) URL: %s", v))
		}
	}
	if this.AcceptTimeout.Duration() <= 0 {
		err = multierr.Append(err, fmt.Errorf("acceptTimeout (ACCEPT_TIMEOUT_SECONDS) has to be positive"))
	}
	if this.Backend.Timeout.Duration() <= 0 {
		err = multierr.Append(err, fmt.Errorf("backend.timeout (BACKEND_TIMEOUT) has to be positive"))
	}
	if _, kErr := this.Button.Kind.MarshalText(); kErr != nil {
		err = multierr.Append(err, fmt.Errorf("button.kind (BUTTON_KIND) is not supported: %v", this.Button.Kind))
	}
	if _, pErr := this.Button.Pull.MarshalText(); pErr != nil {
		err = multierr.Append(err, fmt.Errorf("button.pull (BUTTON_PULL) is not supported: %v", this.Button.Pull))
	}

	if err != nil {
		return &ConfigurationError{Problems: multierr.Errors(err)}
	}
	return nil
}

func (this Configuration) SessionSettings() session.Settings {
	return session.Settings{
		StationId:        this.Station.Id,
		StationName:      this.Station.Name,
		RealtimeUrl:      this.Realtime.Url,
		AcceptTimeout:    this.AcceptTimeout.Duration(),
		KeepAnsweredCall: this.KeepAnsweredCall.Get(false),
		ReportHangup:     this.Backend.ReportHangup.Get(true),
	}
}

func (this *Configuration) loadFrom(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(this); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func (this *Configuration) loadFromFile(fn string, ignoreNotFound bool) error {
	f, err := os.Open(fn)
	if os.IsNotExist(err) && ignoreNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot open configuration file %q: %w", fn, err)
	}
	defer func() {
		_ = f.Close()
	}()

	if err := this.loadFrom(f); err != nil {
		return fmt.Errorf("cannot load configuration file %q: %w", fn, err)
	}

	return nil
}
