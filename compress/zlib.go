package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// ZlibCodec provides ZLIB supercompression for level payloads.
//
// ZLIB is the faster, lower-ratio scheme; levels run 1-9 with higher
// levels trading speed for smaller output.
type ZlibCodec struct {
	level int
}

var _ Codec = (*ZlibCodec)(nil)

// NewZlibCodec creates a ZLIB codec at the given level (1-9). The level
// must already be validated by the caller; CreateCodec does this.
func NewZlibCodec(level int) ZlibCodec {
	return ZlibCodec{level: level}
}

// Compress compresses the input as a ZLIB stream at the codec's level.
func (c ZlibCodec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	buf.Grow(len(data)/2 + 64)

	w, err := zlib.NewWriterLevel(&buf, c.level)
	if err != nil {
		// never happens with a validated level
		return nil, fmt.Errorf("zlib writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("zlib compression failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("zlib compression failed: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress decompresses a ZLIB stream.
func (c ZlibCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}
	defer r.Close()

	decompressed, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}

	return decompressed, nil
}
