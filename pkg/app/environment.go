package app

import (
	"fmt"
	"os"

	log "github.com/echocat/slf4g"
	"gopkg.in/ini.v1"
)

const (
	EnvFileEnvar   = "SOS_ENV_FILE"
	DefaultEnvFile = ".env"
)

// LoadEnvironment loads KEY=value lines of the file referenced by
// SOS_ENV_FILE (or .env) into the process environment. Variables which are
// already set are left untouched. A missing file is not an error.
func LoadEnvironment() error {
	fn := os.Getenv(EnvFileEnvar)
	if fn == "" {
		fn = DefaultEnvFile
	}
	return LoadEnvFile(fn)
}

func LoadEnvFile(fn string) error {
	if _, err := os.Stat(fn); os.IsNotExist(err) {
		return nil
	}

	f, err := ini.LoadSources(ini.LoadOptions{
		SkipUnrecognizableLines: true,
	}, fn)
	if err != nil {
		return fmt.Errorf("cannot load environment file %q: %w", fn, err)
	}

	applied := 0
	for _, k := range f.Section("").Keys() {
		if _, exists := os.LookupEnv(k.Name()); exists {
			continue
		}
		if err := os.Setenv(k.Name(), k.Value()); err != nil {
			return fmt.Errorf("cannot apply %s of environment file %q: %w", k.Name(), fn, err)
		}
		applied++
	}

	log.With("file", fn).
		With("applied", applied).
		Debug("Environment file loaded.")
	return nil
}
