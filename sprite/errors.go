package sprite

import "errors"

var (
	ErrInvalidArt      = errors.New("sprite: invalid art file")
	ErrIndexOutOfRange = errors.New("sprite: image index out of range")
)
