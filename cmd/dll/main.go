// Package main exports the op2util library as a C shared library.
// Build with: go build -buildmode=c-shared -o op2util.dll ./cmd/dll
//
// Objects are referred to by uint64_t handles; 0 is the null handle and is
// returned when creation fails. Calls returning a scalar report success as a
// bool and write the value through an out parameter. Counts and sizes are 0
// on failure. Returned strings are owned by the caller, must be freed with
// OP2_FreeString, and are NULL on failure. No failure reason crosses the
// boundary; enable OP2_SetLogLevel to see it on stderr.
package main

/*
#include <stdlib.h>
#include <stdint.h>
#include <stdbool.h>
*/
import "C"

import (
	"log/slog"
	"math"
	"os"
	"sync/atomic"
	"unsafe"

	"github.com/logicossoftware/go-op2util"
	"github.com/logicossoftware/go-op2util/internal/strlist"
)

func main() {}

var (
	bridge = op2util.New()
	logger atomic.Pointer[slog.Logger]
)

func init() {
	logger.Store(slog.New(slog.DiscardHandler))
}

// OP2_FreeString frees a string returned by any OP2_ function.
//
//export OP2_FreeString
func OP2_FreeString(s *C.char) {
	if s != nil {
		C.free(unsafe.Pointer(s))
	}
}

// OP2_SetLogLevel routes failure details to stderr. Levels are 0 debug,
// 1 info, 2 warn and 3 error; a negative level turns logging off.
//
//export OP2_SetLogLevel
func OP2_SetLogLevel(level C.int) C.bool {
	var l *slog.Logger
	switch {
	case level < 0:
		l = slog.New(slog.DiscardHandler)
	case level <= 3:
		l = op2util.ConsoleLogger(os.Stderr, slog.Level(4*int(level)-4))
	default:
		return false
	}
	logger.Store(l)
	bridge.SetLogger(l)
	return true
}

func handle(h C.uint64_t) op2util.Handle { return op2util.Handle(h) }

// index converts a C index; values beyond int range map to -1, which every
// accessor rejects as out of range.
func index(i C.uint64_t) int {
	if uint64(i) > math.MaxInt {
		return -1
	}
	return int(i)
}

func goString(s *C.char) string {
	if s == nil {
		return ""
	}
	return C.GoString(s)
}

func cString(s string, err error) *C.char {
	if err != nil {
		return nil
	}
	return C.CString(s)
}

// cList flattens names into a pipe-delimited string.
func cList(names []string, err error) *C.char {
	if err != nil {
		return nil
	}
	s, err := strlist.Join(names)
	if err != nil {
		logger.Load().Debug("list not representable", "err", err)
		return nil
	}
	return C.CString(s)
}

func ok(err error) C.bool { return err == nil }

// store writes v through out when err is nil.
func store[T any](out *T, v T, err error) C.bool {
	if err != nil || out == nil {
		return false
	}
	*out = v
	return true
}

func count(n int, err error) C.uint64_t {
	if err != nil {
		return 0
	}
	return C.uint64_t(n)
}

func size(n int64, err error) C.uint64_t {
	if err != nil || n < 0 {
		return 0
	}
	return C.uint64_t(n)
}

// cBytes copies n bytes at p into Go memory.
func cBytes(p unsafe.Pointer, n C.uint64_t) ([]byte, bool) {
	if n == 0 {
		return nil, true
	}
	if p == nil || uint64(n) > math.MaxInt32 {
		return nil, false
	}
	return C.GoBytes(p, C.int(n)), true
}

// cBuffer views the caller's n byte buffer at p without copying.
func cBuffer(p unsafe.Pointer, n C.uint64_t) ([]byte, bool) {
	if n == 0 {
		return []byte{}, true
	}
	if p == nil || uint64(n) > math.MaxInt {
		return nil, false
	}
	return unsafe.Slice((*byte)(p), int(n)), true
}

// created converts the result of a constructor into a handle, 0 on failure.
func created(h op2util.Handle, err error) C.uint64_t {
	if err != nil {
		return 0
	}
	return C.uint64_t(h)
}
