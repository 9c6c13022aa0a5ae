package logger

import (
	"go.uber.org/zap"
)

var Log *zap.Logger

// NewLogger 创建 production logger，同时设置包级 Log
func NewLogger() *zap.Logger {
	l, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	Log = l
	return l
}

// Named returns a child logger tagged with the service name.
func Named(l *zap.Logger, service string) *zap.Logger {
	return l.With(zap.String("service", service))
}
