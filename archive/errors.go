package archive

import "errors"

var (
	ErrInvalidArchive         = errors.New("archive: invalid archive data")
	ErrNotFound               = errors.New("archive: entry not found")
	ErrIndexOutOfRange        = errors.New("archive: index out of range")
	ErrDuplicateName          = errors.New("archive: duplicate entry name")
	ErrUnsupportedCompression = errors.New("archive: unsupported compression")
	ErrInvalidWave            = errors.New("archive: invalid wave file")
	ErrWaveFormatMismatch     = errors.New("archive: wave formats differ")
	ErrInvalidName            = errors.New("archive: invalid entry name")
	ErrLimitExceeded          = errors.New("archive: limit exceeded")
)
