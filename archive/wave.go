package archive

import (
	"bytes"
	"fmt"
	"io"

	"github.com/logicossoftware/go-op2util/internal/binio"
)

var (
	tagRIFF = [4]byte{'R', 'I', 'F', 'F'}
	tagWAVE = [4]byte{'W', 'A', 'V', 'E'}
	tagFMT  = [4]byte{'f', 'm', 't', ' '}
	tagDATA = [4]byte{'d', 'a', 't', 'a'}
)

const (
	riffHeaderSize  = 12
	chunkHeaderSize = 8
	waveFormatSize  = 18
)

// WaveFormat is the WAVEFORMATEX record shared by every entry of a CLM file.
type WaveFormat struct {
	FormatTag      uint16
	Channels       uint16
	SamplesPerSec  uint32
	AvgBytesPerSec uint32
	BlockAlign     uint16
	BitsPerSample  uint16
	CbSize         uint16
}

// defaultWaveFormat is 22.05 kHz 16-bit mono PCM, used for an empty CLM.
var defaultWaveFormat = WaveFormat{
	FormatTag:      1,
	Channels:       1,
	SamplesPerSec:  22050,
	AvgBytesPerSec: 44100,
	BlockAlign:     2,
	BitsPerSample:  16,
}

func (f *WaveFormat) encode(w *binio.Writer) {
	w.U16(f.FormatTag)
	w.U16(f.Channels)
	w.U32(f.SamplesPerSec)
	w.U32(f.AvgBytesPerSec)
	w.U16(f.BlockAlign)
	w.U16(f.BitsPerSample)
	w.U16(f.CbSize)
}

func (f *WaveFormat) decode(r *binio.Reader) {
	f.FormatTag = r.U16()
	f.Channels = r.U16()
	f.SamplesPerSec = r.U32()
	f.AvgBytesPerSec = r.U32()
	f.BlockAlign = r.U16()
	f.BitsPerSample = r.U16()
	f.CbSize = r.U16()
}

// writeWaveHeader writes a RIFF/WAVE header for dataLen bytes of PCM data.
func writeWaveHeader(w *binio.Writer, format WaveFormat, dataLen uint32) {
	format.CbSize = 0
	w.Tag(tagRIFF)
	w.U32(4 + chunkHeaderSize + waveFormatSize + chunkHeaderSize + dataLen)
	w.Tag(tagWAVE)
	w.Tag(tagFMT)
	w.U32(waveFormatSize)
	format.encode(w)
	w.Tag(tagDATA)
	w.U32(dataLen)
}

// waveInfo locates the format and PCM data of a wave file.
type waveInfo struct {
	format     WaveFormat
	dataOffset int64
	dataLen    uint32
}

// readWaveInfo parses the RIFF header of a wave file of the given size and
// finds its fmt and data chunks.
func readWaveInfo(ra io.ReaderAt, size int64) (waveInfo, error) {
	var info waveInfo
	r := binio.NewReader(io.NewSectionReader(ra, 0, size))
	riff, chunkSize, wave := r.Tag(), r.U32(), r.Tag()
	if err := r.Err(); err != nil {
		return info, fmt.Errorf("%w: RIFF header: %w", ErrInvalidWave, err)
	}
	if riff != tagRIFF || wave != tagWAVE {
		return info, fmt.Errorf("%w: not a RIFF/WAVE file", ErrInvalidWave)
	}
	if int64(chunkSize)+8 != size {
		return info, fmt.Errorf("%w: RIFF chunk size %d does not match file length %d", ErrInvalidWave, chunkSize, size)
	}

	off, n, err := findChunk(ra, size, tagFMT)
	if err != nil {
		return info, err
	}
	if n < waveFormatSize-2 {
		return info, fmt.Errorf("%w: fmt chunk of %d bytes", ErrInvalidWave, n)
	}
	// PCM files may omit cbSize; it is zeroed either way.
	var buf [waveFormatSize]byte
	if _, err := ra.ReadAt(buf[:waveFormatSize-2], off); err != nil {
		return info, fmt.Errorf("%w: fmt chunk: %w", ErrInvalidWave, err)
	}
	fr := binio.NewReader(bytes.NewReader(buf[:]))
	info.format.decode(fr)
	info.format.CbSize = 0

	if info.dataOffset, info.dataLen, err = findChunk(ra, size, tagDATA); err != nil {
		return info, err
	}
	if info.dataOffset+int64(info.dataLen) > size {
		return info, fmt.Errorf("%w: data chunk exceeds file", ErrInvalidWave)
	}
	return info, nil
}

// findChunk walks the chunks after the RIFF header and returns the payload
// offset and length of the first chunk tagged want.
func findChunk(ra io.ReaderAt, size int64, want [4]byte) (int64, uint32, error) {
	var hdr [chunkHeaderSize]byte
	for pos := int64(riffHeaderSize); pos+chunkHeaderSize <= size; {
		if _, err := ra.ReadAt(hdr[:], pos); err != nil {
			return 0, 0, fmt.Errorf("%w: chunk header: %w", ErrInvalidWave, err)
		}
		r := binio.NewReader(bytes.NewReader(hdr[:]))
		tag, n := r.Tag(), r.U32()
		if tag == want {
			return pos + chunkHeaderSize, n, nil
		}
		pos += chunkHeaderSize + int64(n)
	}
	return 0, 0, fmt.Errorf("%w: no %q chunk", ErrInvalidWave, want)
}
