// Package common provides shared utilities used across all features
package common

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger configures the global zerolog logger. Dev environments get
// human-readable console output, everything else stays structured JSON.
func InitLogger(level string, env string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if env == "dev" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// ComponentLogger returns a logger tagged with the owning component name.
func ComponentLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
