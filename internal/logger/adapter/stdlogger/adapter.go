// Package stdlogger adapts the global zerolog logger to the printf
// style logging interface some third-party libraries expect.
package stdlogger

import (
	"github.com/rs/zerolog/log"
)

// Logger forwards printf style log calls to zerolog.
type Logger struct{}

// New creates a new printf style adapter around the global logger.
func New() *Logger {
	return &Logger{}
}

// Infof logs at info level.
func (l *Logger) Infof(format string, v ...interface{}) {
	log.Info().Msgf(format, v...)
}

// Warningf logs at warn level.
func (l *Logger) Warningf(format string, v ...interface{}) {
	log.Warn().Msgf(format, v...)
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, v ...interface{}) {
	log.Error().Msgf(format, v...)
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, v ...interface{}) {
	log.Debug().Msgf(format, v...)
}

// Printf logs at info level.
func (l *Logger) Printf(format string, v ...interface{}) {
	log.Info().Msgf(format, v...)
}
