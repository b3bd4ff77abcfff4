// Package logging wraps a zap sugared logger with the handful of calls the
// engine needs: one line per stage transition, key-value pairs for the
// fields that matter, nothing structured beyond that.
package logging

import "go.uber.org/zap"

type Logger struct {
	*zap.SugaredLogger
}

// New builds a Logger. debug selects zap's human-readable development
// encoder; otherwise the production JSON encoder is used.
func New(debug bool) (*Logger, error) {
	var zl *zap.Logger
	var err error
	if debug {
		zl, err = zap.NewDevelopment()
	} else {
		zl, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return &Logger{SugaredLogger: zl.Sugar()}, nil
}

// Nop returns a Logger that discards everything, for tests and for any
// Registry constructed without an explicit logger.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}
