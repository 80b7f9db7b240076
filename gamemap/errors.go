package gamemap

import "errors"

var (
	ErrInvalidMap         = errors.New("gamemap: invalid map data")
	ErrVersionTag         = errors.New("gamemap: version tag check failed")
	ErrTilesetTag         = errors.New("gamemap: 'TILE SET' tag not found")
	ErrIndexOutOfRange    = errors.New("gamemap: index out of range")
	ErrFieldOverflow      = errors.New("gamemap: value does not fit field")
	ErrWidthNotPowerOfTwo = errors.New("gamemap: width in tiles is not a power of two")
	ErrInvalidPayload     = errors.New("gamemap: invalid packed payload")
	ErrLimitExceeded      = errors.New("gamemap: limit exceeded")
	ErrValidation         = errors.New("gamemap: validation failed")
)
