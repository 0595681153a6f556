package app

import (
	"context"
	"sync"

	"dario.cat/mergo"
	log "github.com/echocat/slf4g"
	"golang.org/x/sync/errgroup"

	"github.com/blaubaer/sos-station/pkg/backend"
	"github.com/blaubaer/sos-station/pkg/button"
	"github.com/blaubaer/sos-station/pkg/common"
	"github.com/blaubaer/sos-station/pkg/realtime"
	"github.com/blaubaer/sos-station/pkg/session"
	"github.com/blaubaer/sos-station/pkg/tone"
)

func NewApp() *App {
	return &App{
		config: NewConfiguration(),
	}
}

type App struct {
	Button            button.Facade
	ConfigurationFile string

	tone       *tone.Player
	dispatcher *session.Dispatcher

	configFromFlags Configuration
	config          Configuration
}

func (this *App) SetupConfiguration(using common.FlagHolder) {
	this.configFromFlags.SetupConfiguration(using)

	using.Flag("configuration", "YAML file from which the configuration should be loaded. Values from flags and environment take precedence.").
		Short('c').
		Envar("SOS_CONFIGURATION").
		StringVar(&this.ConfigurationFile)
}

func (this *App) Configuration() Configuration {
	return this.config
}

func (this *App) Initialize() (rErr error) {
	success := false
	defer func() {
		if !success {
			if err := this.Dispose(); err != nil && rErr == nil {
				rErr = err
			}
		}
	}()

	if err := this.loadConfiguration(); err != nil {
		return err
	}

	conf := &this.config
	log.With("station", conf.Station.Id).
		With("backend", conf.Backend.Url).
		With("realtime", conf.Realtime.Url).
		With("acceptTimeout", conf.AcceptTimeout).
		Info("Configuration loaded.")

	this.tone = tone.NewPlayer(conf.Tone)
	this.dispatcher = session.NewDispatcher(session.NewOrchestrator(
		conf.SessionSettings(),
		backend.NewClient(conf.Backend),
		this.tone,
		realtime.NewLiveKit(conf.Realtime),
	))

	if err := this.Button.Initialize(&conf.Button); err != nil {
		return err
	}

	success = true
	return nil
}

func (this *App) loadConfiguration() error {
	this.config = NewConfiguration()
	fn, ignoreNotFound := this.ConfigurationFile, false
	if fn == "" {
		fn, ignoreNotFound = DefaultConfigurationFile, true
	}
	if err := this.config.loadFromFile(fn, ignoreNotFound); err != nil {
		return err
	}
	if err := mergo.Merge(&this.config, this.configFromFlags, mergo.WithOverride, mergo.WithTransformers(common.ExplicitTransformers{})); err != nil {
		return err
	}
	return this.config.Validate()
}

// Run watches the button until ctx is done. Every press is handled on its own
// goroutine, so presses during a running call are seen and dropped by the
// guard instead of piling up. On return all calls have been torn down.
func (this *App) Run(ctx context.Context) error {
	presses := make(chan button.Press)
	var inFlight sync.WaitGroup
	defer inFlight.Wait()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return this.Button.Watch(gCtx, presses)
	})
	g.Go(func() error {
		for {
			select {
			case <-gCtx.Done():
				return nil
			case p := <-presses:
				inFlight.Add(1)
				go func() {
					defer inFlight.Done()
					this.dispatcher.Handle(gCtx, p.At)
				}()
			}
		}
	})

	log.With("button", this.Button.GetKind()).
		Info("SOS station ready.")

	err := g.Wait()
	if this.dispatcher.Guard.Busy() {
		log.Info("Waiting for running call to hang up...")
	}
	return err
}

func (this *App) Dispose() (rErr error) {
	defer func() {
		if v := this.tone; v != nil {
			v.Stop()
		}
	}()

	return this.Button.Dispose()
}
