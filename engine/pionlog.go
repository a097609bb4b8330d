package engine

import (
	"github.com/pion/logging"
	"go.uber.org/zap"
)

// NewLoggerFactory adapts a zap logger into the pion logging.LoggerFactory
// the engine expects, so engine internals (ICE, DTLS, SCTP) log through the
// same sink as the registry.
func NewLoggerFactory(base *zap.Logger) logging.LoggerFactory {
	return &zapLoggerFactory{base: base}
}

type zapLoggerFactory struct {
	base *zap.Logger
}

func (f *zapLoggerFactory) NewLogger(scope string) logging.LeveledLogger {
	return &zapLeveledLogger{s: f.base.Named(scope).Sugar()}
}

type zapLeveledLogger struct {
	s *zap.SugaredLogger
}

// zap has no trace level; trace maps to debug.

func (l *zapLeveledLogger) Trace(msg string)                  { l.s.Debug(msg) }
func (l *zapLeveledLogger) Tracef(format string, args ...any) { l.s.Debugf(format, args...) }
func (l *zapLeveledLogger) Debug(msg string)                  { l.s.Debug(msg) }
func (l *zapLeveledLogger) Debugf(format string, args ...any) { l.s.Debugf(format, args...) }
func (l *zapLeveledLogger) Info(msg string)                   { l.s.Info(msg) }
func (l *zapLeveledLogger) Infof(format string, args ...any)  { l.s.Infof(format, args...) }
func (l *zapLeveledLogger) Warn(msg string)                   { l.s.Warn(msg) }
func (l *zapLeveledLogger) Warnf(format string, args ...any)  { l.s.Warnf(format, args...) }
func (l *zapLeveledLogger) Error(msg string)                  { l.s.Error(msg) }
func (l *zapLeveledLogger) Errorf(format string, args ...any) { l.s.Errorf(format, args...) }
