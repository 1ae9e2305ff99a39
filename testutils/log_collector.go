// Collectable log, (*testing.T).Log style.
//
// If the test is not running in verbose mode, redirect the logger's output
// to the test log, so that it is displayed only if the test fails.

package amicontained_testutils

import (
	"io"
	"testing"
)

// The interface expected from a collectable log:
type CollectableLog interface {
	GetLevel() any
	SetLevel(level any)
	GetOutput() io.Writer
	SetOutput(out io.Writer)
}

type TestLogCollect struct {
	log        CollectableLog
	savedOut   io.Writer
	savedLevel any
	t          *testing.T
}

// NewTestLogCollect redirects the log to t; the level, if not nil, is applied
// for the duration of the test. RestoreLog should be deferred.
func NewTestLogCollect(t *testing.T, log any, level any) *TestLogCollect {
	tlc := &TestLogCollect{t: t}
	collectableLog, ok := log.(CollectableLog)
	if !ok || collectableLog == nil {
		return tlc
	}
	tlc.log = collectableLog
	if !testing.Verbose() {
		tlc.savedOut = collectableLog.GetOutput()
		collectableLog.SetOutput(tlc)
	}
	if level != nil {
		tlc.savedLevel = collectableLog.GetLevel()
		collectableLog.SetLevel(level)
	}
	return tlc
}

func (tlc *TestLogCollect) Write(buf []byte) (int, error) {
	n := len(buf)
	if n > 0 && buf[n-1] == '\n' {
		buf = buf[:n-1]
	}
	tlc.t.Log(string(buf))
	return n, nil
}

func (tlc *TestLogCollect) RestoreLog() {
	if tlc.log == nil {
		return
	}
	if tlc.savedOut != nil {
		tlc.log.SetOutput(tlc.savedOut)
	}
	if tlc.savedLevel != nil {
		tlc.log.SetLevel(tlc.savedLevel)
	}
}
