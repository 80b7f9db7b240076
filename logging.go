package op2util

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// ConsoleLogger returns a logger that writes human-readable records at level
// and above to w.
func ConsoleLogger(w io.Writer, level slog.Level) *slog.Logger {
	h := log.NewWithOptions(w, log.Options{
		Prefix:          "op2util",
		Level:           log.Level(level),
		ReportTimestamp: true,
	})
	return slog.New(h)
}

func discardLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }

// SetLogger replaces the Bridge's logger. A nil logger discards output.
func (b *Bridge) SetLogger(l *slog.Logger) {
	if l == nil {
		l = discardLogger()
	}
	b.logger.Store(l)
}

func (b *Bridge) log() *slog.Logger { return b.logger.Load() }

// done is deferred by every exported Bridge method. It turns a panic into
// ErrInternal and logs the failure, if any.
func (b *Bridge) done(op string, errp *error) {
	if r := recover(); r != nil {
		*errp = fmt.Errorf("%w: %s: %v", ErrInternal, op, r)
		b.log().Error("recovered panic", "op", op, "panic", r)
		return
	}
	if *errp != nil {
		b.log().Debug("call failed", "op", op, "err", *errp)
	}
}
