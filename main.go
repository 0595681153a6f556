package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	log "github.com/echocat/slf4g"
	"github.com/echocat/slf4g/native"
	"github.com/echocat/slf4g/native/consumer"
	"github.com/echocat/slf4g/native/facade/value"
	"github.com/echocat/slf4g/native/formatter"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/blaubaer/sos-station/pkg/app"
)

func main() {
	if err := app.LoadEnvironment(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	wf := &writerFacade{delegates: []io.Writer{os.Stdout}}
	consumer.Default = consumer.NewWriter(wf)

	lv := value.NewProvider(native.DefaultProvider)
	lv.Consumer.Formatter.Codec = value.MappingFormatterCodec{
		"text": formatter.NewText(func(v *formatter.Text) {
			bv := true
			v.AllowMultiLineMessage = &bv
			v.MultiLineMessageAfterFields = &bv
		}),
		"json": formatter.NewJson(),
	}

	var logFile string
	a := app.NewApp()

	cmd := kingpin.New("sos-station", "Emergency call station: a button press registers an incident and opens an audio/video call to the operators.").
		Action(func(*kingpin.ParseContext) error {
			if logFile != "" {
				lj := &lumberjack.Logger{
					Filename:   logFile,
					MaxSize:    20,
					MaxBackups: 5,
					MaxAge:     30,
				}
				defer func() { _ = lj.Close() }()
				wf.set([]io.Writer{os.Stdout, lj})
				defer wf.set([]io.Writer{os.Stdout})
			}

			if err := a.Initialize(); err != nil {
				return err
			}
			defer func() {
				if err := a.Dispose(); err != nil {
					log.WithError(err).
						Warn("Cannot dispose station cleanly.")
				}
			}()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			go func() {
				<-ctx.Done()
				log.Info("Terminated. Going down...")
			}()

			return a.Run(ctx)
		})
	a.SetupConfiguration(cmd)

	cmd.Flag("log.level", "").
		SetValue(lv.Level)
	cmd.Flag("log.format", "").
		Default("text").
		SetValue(lv.Consumer.Formatter)
	cmd.Flag("log.color", "").
		Default("auto").
		SetValue(lv.Consumer.Formatter.ColorMode)
	cmd.Flag("log.file", "If set, the log is also written to this file and rotated there.").
		Envar("LOG_FILE").
		StringVar(&logFile)

	if _, err := cmd.Parse(os.Args[1:]); err != nil {
		log.WithError(err).
			Error("SOS station failed.")
		os.Exit(1)
	}
}

type writerFacade struct {
	delegates []io.Writer
	mutex     sync.RWMutex
}

func (this *writerFacade) Write(p []byte) (n int, err error) {
	this.mutex.RLock()
	defer this.mutex.RUnlock()

	for i, w := range this.delegates {
		var nn int
		if nn, err = w.Write(p); err != nil {
			return n, err
		}
		if i == 0 {
			n = nn
		} else if n != nn {
			return n, fmt.Errorf("the previous writer wrote %d, but the current one wrote %d bytes", n, nn)
		}
	}

	return
}

func (this *writerFacade) set(next []io.Writer) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	this.delegates = next
}
