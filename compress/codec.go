package compress

import (
	"fmt"

	"github.com/texturelab/ktx2/errs"
	"github.com/texturelab/ktx2/format"
)

// Compression level bounds per supercompression scheme.
const (
	MinZstdLevel = 1
	MaxZstdLevel = 22
	MinZlibLevel = 1
	MaxZlibLevel = 9
)

// Compressor compresses one level payload.
type Compressor interface {
	// Compress compresses the input and returns the compressed result.
	// The returned slice is newly allocated and owned by the caller; the
	// input slice is not modified.
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores one level payload to its pre-supercompression bytes.
type Decompressor interface {
	// Decompress decompresses the input and returns the original payload.
	// Returns an error if the data is corrupted or was compressed with an
	// incompatible scheme.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines compression and decompression for one scheme.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec creates a Codec for the given scheme at the given level.
//
// Level ranges: Zstd 1-22, ZLIB 1-9. The None scheme ignores the level.
// Returns ErrInvalidParameter for an out-of-range level and
// ErrUnsupportedFormat for the reserved BasisLZ scheme or unknown tags.
func CreateCodec(scheme format.SupercompressionScheme, level int) (Codec, error) {
	switch scheme {
	case format.SchemeNone:
		return NewNoOpCodec(), nil
	case format.SchemeZstd:
		if level < MinZstdLevel || level > MaxZstdLevel {
			return nil, fmt.Errorf("zstd level %d not in [%d,%d]: %w",
				level, MinZstdLevel, MaxZstdLevel, errs.ErrInvalidParameter)
		}

		return NewZstdCodec(level), nil
	case format.SchemeZLIB:
		if level < MinZlibLevel || level > MaxZlibLevel {
			return nil, fmt.Errorf("zlib level %d not in [%d,%d]: %w",
				level, MinZlibLevel, MaxZlibLevel, errs.ErrInvalidParameter)
		}

		return NewZlibCodec(level), nil
	default:
		return nil, fmt.Errorf("supercompression scheme %s: %w", scheme, errs.ErrUnsupportedFormat)
	}
}

var builtinDecompressors = map[format.SupercompressionScheme]Decompressor{
	format.SchemeNone: NewNoOpCodec(),
	format.SchemeZstd: NewZstdCodec(defaultZstdLevel),
	format.SchemeZLIB: NewZlibCodec(defaultZlibLevel),
}

// GetDecompressor retrieves a built-in Decompressor for the scheme.
// Decompression is level-independent, so a shared instance is returned.
func GetDecompressor(scheme format.SupercompressionScheme) (Decompressor, error) {
	if d, ok := builtinDecompressors[scheme]; ok {
		return d, nil
	}

	return nil, fmt.Errorf("supercompression scheme %s: %w", scheme, errs.ErrUnsupportedFormat)
}

const (
	defaultZstdLevel = 3
	defaultZlibLevel = 6
)
