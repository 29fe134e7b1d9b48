package logger

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/anchore/vercheck/vercheck/logger"
)

const (
	logFilePermissions fs.FileMode = 0644
	timestampFormat                = "2006-01-02 15:04:05"
)

var _ logger.Logger = (*LogrusLogger)(nil)

// LogrusConfig selects where log entries go and how they are rendered.
type LogrusConfig struct {
	EnableConsole bool
	EnableFile    bool
	Structured    bool
	Level         logrus.Level
	FileLocation  string
	// Console is where console entries go (stderr when unset)
	Console io.Writer
}

// LogrusLogger satisfies the vercheck logger interface with a configured logrus logger.
type LogrusLogger struct {
	*logrus.Logger
	Config LogrusConfig
	Output io.Writer
}

func NewLogrusLogger(cfg LogrusConfig) (*LogrusLogger, error) {
	output, err := logOutput(cfg)
	if err != nil {
		return nil, err
	}

	l := logrus.New()
	l.SetOutput(output)
	l.SetLevel(cfg.Level)
	l.SetFormatter(logFormatter(cfg.Structured))

	return &LogrusLogger{
		Logger: l,
		Config: cfg,
		Output: output,
	}, nil
}

func logOutput(cfg LogrusConfig) (io.Writer, error) {
	var writers []io.Writer

	if cfg.EnableConsole {
		console := cfg.Console
		if console == nil {
			console = os.Stderr
		}
		writers = append(writers, console)
	}

	if cfg.EnableFile {
		f, err := os.OpenFile(cfg.FileLocation, os.O_WRONLY|os.O_CREATE|os.O_APPEND, logFilePermissions)
		if err != nil {
			return nil, fmt.Errorf("unable to setup log file: %w", err)
		}
		writers = append(writers, f)
	}

	switch len(writers) {
	case 0:
		return io.Discard, nil
	case 1:
		return writers[0], nil
	default:
		return io.MultiWriter(writers...), nil
	}
}

func logFormatter(structured bool) logrus.Formatter {
	if structured {
		return &logrus.JSONFormatter{TimestampFormat: timestampFormat}
	}
	return &prefixed.TextFormatter{
		TimestampFormat: timestampFormat,
		ForceColors:     true,
		ForceFormatting: true,
	}
}

// Nested returns a logger that always carries the given field (e.g. the binary being checked).
func (l *LogrusLogger) Nested(key string, value interface{}) logger.Logger {
	return l.WithField(key, value)
}
