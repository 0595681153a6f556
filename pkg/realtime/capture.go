package realtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	log "github.com/echocat/slf4g"

	"github.com/blaubaer/sos-station/pkg/common"
)

const (
	stderrTailLines     = 20
	stderrMaxLineLength = 512
)

var errEmptyCommand = errors.New("empty capture command")

// capture runs an external process which captures a local media device and
// provides the encoded stream of it via Read.
type capture struct {
	name   string
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr *common.LineTail

	closeOnce sync.Once
	closeErr  error
}

func startCapture(ctx context.Context, name, command string) (*capture, error) {
	args := strings.Fields(command)
	if len(args) == 0 {
		return nil, errEmptyCommand
	}

	logger := log.With("capture", name)
	stderr := common.NewLineTail(stderrTailLines, stderrMaxLineLength)
	stderr.OnLine = func(line []byte) {
		logger.Debug(string(line))
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stderr = stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("cannot capture stdout of %s: %w", args[0], err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("cannot start %s capture %q: %w", name, args[0], err)
	}

	logger.With("pid", cmd.Process.Pid).
		Debug("Capture started.")

	return &capture{
		name:   name,
		cmd:    cmd,
		stdout: stdout,
		stderr: stderr,
	}, nil
}

func (this *capture) Read(p []byte) (int, error) {
	return this.stdout.Read(p)
}

func (this *capture) Close() error {
	this.closeOnce.Do(func() {
		if p := this.cmd.Process; p != nil {
			_ = p.Kill()
		}
		err := this.cmd.Wait()
		this.stderr.Flush()

		logger := log.With("capture", this.name)
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// -1 means killed by us; everything else ended on its own.
			if exitErr.ExitCode() != -1 {
				logger.With("exitCode", exitErr.ExitCode()).
					With("stderr", this.stderr.Lines()).
					Warn("Capture ended unexpectedly.")
			}
		} else if err != nil {
			this.closeErr = err
		}
		logger.Debug("Capture stopped.")
	})
	return this.closeErr
}
