// Package telemetry holds the package-level logger used at a handful of
// decision points worth a maintainer's attention: BigInt promotion,
// parallel dispatch, and partition-type recognition. It is never consulted
// on a per-row hot path.
package telemetry

import "github.com/sirupsen/logrus"

// Log is the shared logger. Library consumers that want visibility can
// raise the level; the default is Warn so embedding this module into a
// larger program stays silent by default.
var Log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}
