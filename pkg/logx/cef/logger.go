// Package cef emits security events in the ArcSight Common Event Format.
package cef

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"code.cloudfoundry.org/roled/cmd/contextx"
	"code.cloudfoundry.org/roled/pkg/logx"
	"github.com/xoebus/ceflog"
)

const (
	CEFTimeFormat             = "Jan 2 2006 15:04:05"
	invalidCEFCustomExtension = "invalid-cef-custom-extension"
)

type Vendor string
type Product string
type Version string
type Hostname string

type Logger struct {
	logger    *ceflog.Logger
	hostname  string
	errLogger logx.Logger
}

func NewLogger(writer io.Writer, vendor Vendor, product Product, version Version, hostname Hostname, errLogger logx.Logger) *Logger {
	return &Logger{
		logger:    ceflog.New(writer, string(vendor), string(product), string(version)),
		hostname:  string(hostname),
		errLogger: errLogger,
	}
}

func (l *Logger) Log(ctx context.Context, signature string, name string, args ...logx.SecurityData) {
	extension := ceflog.Extension{
		ceflog.Pair{Key: "dst", Value: l.hostname},
	}

	if caller, ok := contextx.CallerFromContext(ctx); ok {
		extension = append(extension,
			ceflog.Pair{Key: "suid", Value: strconv.Itoa(caller.UID)},
			ceflog.Pair{Key: "spid", Value: strconv.Itoa(caller.PID)},
			ceflog.Pair{Key: "duid", Value: strconv.FormatInt(int64(caller.User), 10)},
		)
	}

	if rt, ok := contextx.ReceiptTimeFromContext(ctx); ok {
		extension = append(extension, ceflog.Pair{Key: "rt", Value: fmt.Sprintf("\"%s\"", rt.Format(CEFTimeFormat))})
	}

	counter := 1
	invalidFound := false

	for _, ce := range args {
		if ce.Key == "" || ce.Value == "" && invalidFound == false {
			l.errLogger.Error(invalidCEFCustomExtension, errors.New("the extension key and/or value is empty"))
			invalidFound = true
		} else {
			extension = append(extension, ceflog.Pair{Key: fmt.Sprintf("cs%dLabel", counter), Value: ce.Key})
			extension = append(extension, ceflog.Pair{Key: fmt.Sprintf("cs%d", counter), Value: ce.Value})
			counter++
			if counter > 6 {
				l.errLogger.Error(invalidCEFCustomExtension, errors.New("cannot provide more than 6 custom extensions"))
				break
			}
		}
	}

	l.logger.LogEvent(signature, name, 0, extension)
}
