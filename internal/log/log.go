package log

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel is the string form of a zerolog.Level accepted by --log-level.
type LogLevel string

const (
	DEBUG    LogLevel = "debug"
	INFO     LogLevel = "info"
	WARN     LogLevel = "warn"
	ERROR    LogLevel = "error"
	DISABLED LogLevel = "disabled"
	TRACE    LogLevel = "trace"
)

var (
	Levels  = []LogLevel{DEBUG, INFO, WARN, ERROR, DISABLED, TRACE}
	LogFile *os.File
)

var zerologLevels = map[LogLevel]zerolog.Level{
	DEBUG:    zerolog.DebugLevel,
	INFO:     zerolog.InfoLevel,
	WARN:     zerolog.WarnLevel,
	ERROR:    zerolog.ErrorLevel,
	DISABLED: zerolog.Disabled,
	TRACE:    zerolog.TraceLevel,
}

func (ll LogLevel) String() string {
	return string(ll)
}

func (ll *LogLevel) Set(v string) error {
	lower := LogLevel(strings.ToLower(v))
	if !slices.Contains(Levels, lower) {
		return fmt.Errorf("must be one of %v", Levels)
	}
	*ll = lower
	return nil
}

func (ll LogLevel) Type() string {
	return "LogLevel"
}

// Level returns the zerolog level for ll.
func (ll LogLevel) Level() (zerolog.Level, error) {
	level, ok := zerologLevels[ll]
	if !ok {
		names := make([]string, 0, len(Levels))
		for _, l := range Levels {
			names = append(names, string(l))
		}
		return zerolog.NoLevel, fmt.Errorf("invalid log level (options: %s)", strings.Join(names, ", "))
	}
	return level, nil
}

// InitWithLogLevel points the global logger at stderr and, when logPath is
// set, also appends to that file.
func InitWithLogLevel(logLevel LogLevel, logPath string) error {
	level, err := logLevel.Level()
	if err != nil {
		return fmt.Errorf("failed to convert log level: %w", err)
	}

	writers := []io.Writer{
		&zerolog.FilteredLevelWriter{
			Writer: zerolog.LevelWriterAdapter{Writer: zerolog.ConsoleWriter{Out: os.Stderr}},
			Level:  level,
		},
	}
	if logPath != "" {
		_ = Close()
		LogFile, err = os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0664)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		writers = append(writers, &zerolog.FilteredLevelWriter{
			Writer: zerolog.LevelWriterAdapter{Writer: LogFile},
			Level:  level,
		})
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Caller().
		Logger()
	zerolog.SetGlobalLevel(level)
	return nil
}

// Close releases the log file opened by InitWithLogLevel, if any.
func Close() error {
	if LogFile == nil {
		return nil
	}
	err := LogFile.Close()
	LogFile = nil
	return err
}
