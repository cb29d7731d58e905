package logx

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rl1809/boba-shop/internal/config"
)

var DefaultLoggerOpts = &LoggerOpts{
	Environment: config.Development,
	Output:      os.Stderr,
}

type LoggerOpts struct {
	Environment config.Environment
	Output      io.Writer
}

func safe(opts ...LoggerOpts) *LoggerOpts {
	if len(opts) == 0 {
		return DefaultLoggerOpts
	}
	o := opts[0]
	if o.Output == nil {
		o.Output = os.Stderr
	}
	return &o
}

// Init configures the global logger: JSON at info level in production,
// a console writer at debug level otherwise.
func Init(opts ...LoggerOpts) {
	o := safe(opts...)
	if o.Environment.IsProduction() {
		log.Logger = zerolog.New(o.Output).With().Timestamp().Logger().Level(zerolog.InfoLevel)
		return
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: o.Output}).
		With().Timestamp().Caller().Logger().
		Level(zerolog.DebugLevel)
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}
