package logx

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Debug        bool   `split_words:"true" default:"false"`
	PrettyFormat bool   `split_words:"true" default:"false"`
	Level        string `split_words:"true"`
	Service      string `split_words:"true" default:"parts-assistant"`
}

var DefaultConfig = &Config{
	Service: "parts-assistant",
}

func safe(opts ...Config) *Config {
	if len(opts) == 0 {
		return DefaultConfig
	}
	return &opts[0]
}

// Init replaces the global logger.
func Init(opts ...Config) {
	log.Logger = New(os.Stdout, *safe(opts...))
}

// New builds a logger writing to w. An explicit Level wins over Debug.
func New(w io.Writer, conf Config) zerolog.Logger {
	if conf.PrettyFormat {
		w = zerolog.ConsoleWriter{Out: w}
	}

	ctx := zerolog.New(w).With().Timestamp()
	if conf.Service != "" {
		ctx = ctx.Str("service", conf.Service)
	}
	logger := ctx.Logger().Level(resolveLevel(conf))

	return logger.With().Caller().Stack().Logger()
}

func resolveLevel(conf Config) zerolog.Level {
	if raw := strings.TrimSpace(conf.Level); raw != "" {
		if level, err := zerolog.ParseLevel(strings.ToLower(raw)); err == nil {
			return level
		}
	}
	if conf.Debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}
