package section

import (
	"fmt"

	"github.com/texturelab/ktx2/endian"
	"github.com/texturelab/ktx2/errs"
)

// LevelIndexEntry locates one mip level's payload within the file.
// It is a fixed 24 bytes on disk.
//
// Offsets are absolute file offsets. When a supercompression scheme is
// active, ByteLength is the compressed stream length and
// UncompressedByteLength the original payload length. With no scheme the
// two are written equal; readers treat UncompressedByteLength as unused.
type LevelIndexEntry struct {
	// ByteOffset is the absolute file offset of the level payload.
	//
	// Offset: 0, Size: 8 bytes
	ByteOffset uint64

	// ByteLength is the payload length as stored (post supercompression).
	//
	// Offset: 8, Size: 8 bytes
	ByteLength uint64

	// UncompressedByteLength is the payload length before supercompression.
	// It can be smaller than ByteLength: the compressed framing of a tiny
	// or incompressible payload exceeds the payload itself.
	//
	// Offset: 16, Size: 8 bytes
	UncompressedByteLength uint64
}

// Bytes returns the index entry as a 24-byte slice.
func (e *LevelIndexEntry) Bytes(engine endian.EndianEngine) []byte {
	var b [LevelIndexEntrySize]byte // stack allocation
	engine.PutUint64(b[0:8], e.ByteOffset)
	engine.PutUint64(b[8:16], e.ByteLength)
	engine.PutUint64(b[16:24], e.UncompressedByteLength)

	return b[:]
}

// WriteToSlice writes the entry into a pre-allocated slice at offset and
// returns the next write position.
func (e *LevelIndexEntry) WriteToSlice(data []byte, offset int, engine endian.EndianEngine) int {
	engine.PutUint64(data[offset:offset+8], e.ByteOffset)
	engine.PutUint64(data[offset+8:offset+16], e.ByteLength)
	engine.PutUint64(data[offset+16:offset+24], e.UncompressedByteLength)

	return offset + LevelIndexEntrySize
}

// ParseLevelIndexEntry parses one entry from a byte slice.
func ParseLevelIndexEntry(data []byte, engine endian.EndianEngine) (LevelIndexEntry, error) {
	if len(data) < LevelIndexEntrySize {
		return LevelIndexEntry{}, fmt.Errorf("level index entry: %w", errs.ErrTruncatedFile)
	}

	return LevelIndexEntry{
		ByteOffset:             engine.Uint64(data[0:8]),
		ByteLength:             engine.Uint64(data[8:16]),
		UncompressedByteLength: engine.Uint64(data[16:24]),
	}, nil
}

// ParseLevelIndex parses levelCount entries starting at LevelIndexOffset
// and bounds-checks every declared payload range against streamLen.
func ParseLevelIndex(data []byte, levelCount int, streamLen uint64, engine endian.EndianEngine) ([]LevelIndexEntry, error) {
	need := LevelIndexOffset + levelCount*LevelIndexEntrySize
	if len(data) < need {
		return nil, fmt.Errorf("level index: %w", errs.ErrTruncatedFile)
	}

	entries := make([]LevelIndexEntry, levelCount)
	for i := range entries {
		off := LevelIndexOffset + i*LevelIndexEntrySize
		entry, err := ParseLevelIndexEntry(data[off:], engine)
		if err != nil {
			return nil, err
		}

		if entry.ByteOffset > streamLen || entry.ByteLength > streamLen-entry.ByteOffset {
			return nil, fmt.Errorf("level %d payload [%d,+%d) exceeds stream length %d: %w",
				i, entry.ByteOffset, entry.ByteLength, streamLen, errs.ErrTruncatedFile)
		}

		entries[i] = entry
	}

	return entries, nil
}
