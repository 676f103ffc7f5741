// Package logging provides the thin structured-logging wrapper shared by
// the storage backends. It carries no ledger-specific logic; it exists so
// backends can be constructed with a nil logger during tests without every
// call site checking for nil.
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// EntryOrDiscard returns a *logrus.Entry bound to log, or to a logger that
// discards all output if log is nil.
func EntryOrDiscard(log *logrus.Logger) *logrus.Entry {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		return logrus.NewEntry(discard)
	}
	return logrus.NewEntry(log)
}
