package logging

import (
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	trackedMu sync.Mutex
	tracked   []*logrus.Logger
)

func track(logger *logrus.Logger) {
	trackedMu.Lock()
	defer trackedMu.Unlock()
	tracked = append(tracked, logger)
}

// SetAllLogLevels applies a level to the global logrus logger and to every
// logger created through this package. Used at startup so early log lines
// respect LOG_LEVEL before configuration is loaded.
func SetAllLogLevels(level logrus.Level) {
	logrus.SetLevel(level)

	trackedMu.Lock()
	defer trackedMu.Unlock()
	for _, logger := range tracked {
		logger.SetLevel(level)
	}
}
