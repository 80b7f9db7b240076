package op2util

import (
	"github.com/logicossoftware/go-op2util/archive"
	"github.com/logicossoftware/go-op2util/gamemap"
)

// Limits bounds what a Bridge will read on behalf of a caller. Zero fields
// take their defaults; Map and Archive are passed to the format packages,
// which apply their own defaults.
type Limits struct {
	Map     gamemap.Limits
	Archive archive.Limits
	// MaxTransferSize caps a single buffer filled through the size/fill
	// protocol.
	MaxTransferSize int64
}

func defaultLimits() Limits {
	return Limits{
		Map:             gamemap.DefaultLimits(),
		Archive:         archive.DefaultLimits(),
		MaxTransferSize: 1 << 30, // 1 GiB
	}
}

func (l Limits) withDefaults() Limits {
	d := defaultLimits()
	if l.MaxTransferSize == 0 {
		l.MaxTransferSize = d.MaxTransferSize
	}
	return l
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits { return defaultLimits() }
