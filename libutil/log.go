package libutil

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	once   sync.Once
	logger *log.Logger
)

// Logger returns the process wide logger, writing to stderr.
func Logger() *log.Logger {
	once.Do(func() {
		logger = NewLogger(os.Stderr)
	})
	return logger
}

func NewLogger(w io.Writer) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "skyboxer",
	})
	l.SetLevel(log.InfoLevel)
	return l
}

// Configure sets the level of the process wide logger. quiet wins over verbose.
func Configure(quiet, verbose bool) {
	switch {
	case quiet:
		Logger().SetLevel(log.ErrorLevel)
	case verbose:
		Logger().SetLevel(log.DebugLevel)
	default:
		Logger().SetLevel(log.InfoLevel)
	}
}
