package op2util

import "errors"

var (
	ErrInvalidHandle = errors.New("op2util: invalid handle")
	ErrBufferSize    = errors.New("op2util: buffer length does not match resource size")
	ErrNotVolume     = errors.New("op2util: archive is not a VOL file")
	ErrLimitExceeded = errors.New("op2util: limit exceeded")
	ErrInternal      = errors.New("op2util: internal error")
)
