package providers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"dirpurge/internal/structures"

	"github.com/rs/zerolog"
)

type TypeEnum string

const (
	TypeApp    TypeEnum = "app"
	TypePurge  TypeEnum = "purge"
	TypeLedger TypeEnum = "ledger"
	TypeQuery  TypeEnum = "query"
)

const logFileName = "purge.log"

type Logger interface {
	Errorf(t TypeEnum, format string, args ...interface{})
	Warnf(t TypeEnum, format string, args ...interface{})
	Debugf(t TypeEnum, format string, args ...interface{})
	Infof(t TypeEnum, format string, args ...interface{})
	Fatalf(t TypeEnum, format string, args ...interface{})
	Close()
}

// GetLogTypeByCommand maps a command name to the log type its messages are tagged with.
func GetLogTypeByCommand(command string) TypeEnum {
	switch command {
	case "purge":
		return TypePurge
	case "query":
		return TypeQuery
	default:
		return TypeApp
	}
}

type LogProvider struct {
	logger zerolog.Logger
	file   *os.File
}

func (l *LogProvider) Errorf(t TypeEnum, format string, args ...interface{}) {
	l.logger.Error().Str("type", string(t)).Msgf(format, args...)
}

func (l *LogProvider) Warnf(t TypeEnum, format string, args ...interface{}) {
	l.logger.Warn().Str("type", string(t)).Msgf(format, args...)
}

func (l *LogProvider) Debugf(t TypeEnum, format string, args ...interface{}) {
	l.logger.Debug().Str("type", string(t)).Msgf(format, args...)
}

func (l *LogProvider) Infof(t TypeEnum, format string, args ...interface{}) {
	l.logger.Info().Str("type", string(t)).Msgf(format, args...)
}

func (l *LogProvider) Fatalf(t TypeEnum, format string, args ...interface{}) {
	l.logger.Fatal().Str("type", string(t)).Msgf(format, args...)
}

func (l *LogProvider) Close() {
	if l.file != nil {
		_ = l.file.Close()
		l.file = nil
	}
}

// NewLogProvider logs to stderr in console format and, when a log directory is
// configured, appends JSON lines to purge.log inside it.
func NewLogProvider(conf *structures.Config) (Logger, error) {
	return newLogProvider(conf, os.Stderr)
}

func newLogProvider(conf *structures.Config, console io.Writer) (*LogProvider, error) {
	level, err := zerolog.ParseLevel(conf.Logger.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", conf.Logger.Level, err)
	}
	if conf.Debug {
		level = zerolog.DebugLevel
	}

	writers := []io.Writer{zerolog.ConsoleWriter{Out: console, TimeFormat: "15:04:05"}}

	var file *os.File
	if conf.Logger.Dir != "" {
		file, err = os.OpenFile(filepath.Join(conf.Logger.Dir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, os.FileMode(conf.Logger.Mode))
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, file)
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Str("app", conf.AppName).
		Logger()

	return &LogProvider{logger: logger, file: file}, nil
}
