package texture

import (
	"fmt"

	"github.com/texturelab/ktx2/compress"
	"github.com/texturelab/ktx2/errs"
	"github.com/texturelab/ktx2/format"
)

// Deflate supercompresses every level payload with the given scheme.
//
// Level ranges follow the scheme: Zstd 1-22, ZLIB 1-9. SchemeNone is not
// a valid argument; use the reader and writer to drop supercompression.
// Deflating an already supercompressed container fails with
// ErrAlreadySupercompressed. On success the scheme tag and all level
// payloads are replaced together.
func (t *Texture) Deflate(scheme format.SupercompressionScheme, lvl int) error {
	if scheme == format.SchemeNone {
		return fmt.Errorf("deflate with scheme None: %w", errs.ErrInvalidParameter)
	}
	if t.scheme != format.SchemeNone {
		return fmt.Errorf("container already uses %s: %w", t.scheme, errs.ErrAlreadySupercompressed)
	}
	if !t.dataLoaded {
		return fmt.Errorf("deflate: %w", errs.ErrDataNotLoaded)
	}

	codec, err := compress.CreateCodec(scheme, lvl)
	if err != nil {
		return err
	}

	newLevels := make([]level, len(t.levels))
	for i := range t.levels {
		comp, err := codec.Compress(t.levels[i].data)
		if err != nil {
			return fmt.Errorf("level %d: %w", i, err)
		}
		newLevels[i] = level{
			data:            comp,
			uncompressedLen: uint64(len(t.levels[i].data)),
		}
	}

	// commit
	t.levels = newLevels
	t.scheme = scheme

	return nil
}

// inflatedLevels decompresses every level payload under the active scheme
// into fresh buffers without mutating the container. With SchemeNone the
// stored slices are returned as-is.
func (t *Texture) inflatedLevels() ([]level, error) {
	if t.scheme == format.SchemeNone {
		return t.levels, nil
	}

	dec, err := compress.GetDecompressor(t.scheme)
	if err != nil {
		return nil, err
	}

	out := make([]level, len(t.levels))
	for i := range t.levels {
		raw, err := dec.Decompress(t.levels[i].data)
		if err != nil {
			return nil, fmt.Errorf("level %d: %w", i, err)
		}
		if t.levels[i].uncompressedLen != 0 && uint64(len(raw)) != t.levels[i].uncompressedLen {
			return nil, fmt.Errorf("level %d inflated to %d bytes, index says %d: %w",
				i, len(raw), t.levels[i].uncompressedLen, errs.ErrCorruptFile)
		}
		out[i] = level{data: raw}
	}

	return out, nil
}

// Inflate removes the active supercompression scheme, restoring plain
// level payloads. A no-op when no scheme is active.
func (t *Texture) Inflate() error {
	if t.scheme == format.SchemeNone {
		return nil
	}
	if !t.dataLoaded {
		return fmt.Errorf("inflate: %w", errs.ErrDataNotLoaded)
	}

	newLevels, err := t.inflatedLevels()
	if err != nil {
		return err
	}

	// commit
	t.levels = newLevels
	t.scheme = format.SchemeNone

	return nil
}
