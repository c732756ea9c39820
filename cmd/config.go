package cmd

import (
	"log/slog"
	"os"
	"runtime"

	"github.com/cottand/matchck/matchcheck"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read from the working directory when --config is not given
const DefaultConfigFile = ".matchck.yaml"

// Config is the contents of a config file. Command line flags override it.
type Config struct {
	MaxWitnesses    int      `yaml:"maxWitnesses"`
	Parallelism     int      `yaml:"parallelism"`
	LogLevel        string   `yaml:"logLevel"`
	LogSections     []string `yaml:"logSections"`
	ShowWitnesses   bool     `yaml:"showWitnesses"`
	ShowUnreachable bool     `yaml:"showUnreachable"`
	ShowSource      bool     `yaml:"showSource"`
}

func defaultConfig() Config {
	return Config{
		MaxWitnesses:  matchcheck.DefaultMaxWitnesses,
		Parallelism:   runtime.GOMAXPROCS(0),
		LogLevel:      "error",
		ShowWitnesses: true,
		ShowSource:    true,
	}
}

// loadConfig reads the config file at path on top of the defaults.
// A missing file is only an error when required is set.
func loadConfig(path string, required bool) (Config, error) {
	cfg := defaultConfig()
	file, err := os.Open(path)
	if os.IsNotExist(err) && !required {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(err, "open config")
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	if cfg.MaxWitnesses <= 0 {
		return cfg, errors.Errorf("config %s: maxWitnesses must be positive, got %d", path, cfg.MaxWitnesses)
	}
	return cfg, nil
}

func (c Config) checkerConfig() matchcheck.Config {
	return matchcheck.Config{MaxWitnesses: c.MaxWitnesses}
}

func (c Config) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, errors.Wrapf(err, "log level %q", c.LogLevel)
	}
	return level, nil
}
