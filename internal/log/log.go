// Package log is a thin leveled logger over lorg and cog.
//
// The package logger writes to stderr at info level until Init is called,
// so library code may log before the CLI has parsed its flags.
package log

import (
	"io"
	"os"
	"sync"

	"github.com/kovetskiy/lorg"
	"github.com/reconquest/cog"
	"github.com/reconquest/karma-go"
)

const format = "${time} ${level:[%s]:right:short} ${prefix}%s"

var (
	mu  sync.RWMutex
	log *cog.Logger
)

func init() {
	Init(os.Stderr, false, false)
}

// Init replaces the package logger. trace implies debug.
func Init(output io.Writer, debug, trace bool) {
	stderr := lorg.NewLog()
	stderr.SetIndentLines(true)
	stderr.SetFormat(lorg.NewFormat(format))
	stderr.SetOutput(output)

	logger := cog.NewLogger(stderr)
	logger.SetLevel(lorg.LevelInfo)

	if debug {
		logger.SetLevel(lorg.LevelDebug)
	}

	if trace {
		logger.SetLevel(lorg.LevelTrace)
	}

	mu.Lock()
	log = logger
	mu.Unlock()
}

// Quiet raises the level so that only errors are written.
func Quiet() {
	current().SetLevel(lorg.LevelError)
}

func current() *cog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

func Fatalf(
	reason error,
	message string,
	args ...interface{},
) {
	current().Fatalf(reason, message, args...)
}

func Errorf(
	reason error,
	message string,
	args ...interface{},
) {
	current().Errorf(reason, message, args...)
}

func Warningf(
	reason error,
	message string,
	args ...interface{},
) {
	current().Warningf(reason, message, args...)
}

func Infof(
	context *karma.Context,
	message string,
	args ...interface{},
) {
	current().Infof(context, message, args...)
}

func Debugf(
	context *karma.Context,
	message string,
	args ...interface{},
) {
	current().Debugf(context, message, args...)
}

func Tracef(
	context *karma.Context,
	message string,
	args ...interface{},
) {
	current().Tracef(context, message, args...)
}
