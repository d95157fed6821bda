// Package logx is the logging surface used throughout roled. Components log
// through these interfaces so that tests can observe log output and so that
// the lager wiring stays in one place (lagerx).
package logx

import "context"

type Data struct {
	Key   string
	Value interface{}
}

type Logger interface {
	WithName(name string) Logger
	WithData(data ...Data) Logger

	Debug(msg string, data ...Data)
	Info(msg string, data ...Data)
	Error(msg string, err error, data ...Data)
}

type SecurityData struct {
	Key   string
	Value string
}

// SecurityLogger records security-relevant events (privileged mutations,
// authorization denials) separately from diagnostic logging.
//
//go:generate counterfeiter . SecurityLogger
type SecurityLogger interface {
	Log(ctx context.Context, signature, name string, args ...SecurityData)
}
