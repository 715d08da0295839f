package texture

import (
	"fmt"
	"io"

	"github.com/texturelab/ktx2/endian"
	"github.com/texturelab/ktx2/errs"
	"github.com/texturelab/ktx2/format"
	"github.com/texturelab/ktx2/internal/pool"
	"github.com/texturelab/ktx2/section"
)

// Bytes serializes the container to its file form.
//
// Layout: fixed header, level index, format descriptor block, key/value
// block, then the level payloads with the smallest mip level first. With
// no supercompression scheme each payload is aligned to the texel block
// size (at least 4); supercompressed payloads pack without padding.
func (t *Texture) Bytes() ([]byte, error) {
	buf := pool.GetFileBuffer()
	defer pool.PutFileBuffer(buf)

	if err := t.writeTo(buf); err != nil {
		return nil, err
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())

	return out, nil
}

// WriteTo serializes the container to w. Implements io.WriterTo.
func (t *Texture) WriteTo(w io.Writer) (int64, error) {
	buf := pool.GetFileBuffer()
	defer pool.PutFileBuffer(buf)

	if err := t.writeTo(buf); err != nil {
		return 0, err
	}

	return buf.WriteTo(w)
}

func (t *Texture) writeTo(buf *pool.ByteBuffer) error {
	if !t.dataLoaded {
		return fmt.Errorf("write container: %w", errs.ErrDataNotLoaded)
	}

	engine := endian.GetLittleEndianEngine()

	dfdBytes := t.dfd.Bytes(engine)
	kvdBytes := t.kvd.Bytes(engine)

	indexSize := len(t.levels) * section.LevelIndexEntrySize
	dfdOffset := section.HeaderSize + indexSize
	kvdOffset := dfdOffset + len(dfdBytes)
	dataStart := kvdOffset + len(kvdBytes)

	align := t.levelAlignment()
	entries := make([]section.LevelIndexEntry, len(t.levels))

	// Levels are laid out smallest mip first so a streaming reader can
	// stop after any prefix of the chain, but index entries stay in level
	// order.
	offset := dataStart
	for i := len(t.levels) - 1; i >= 0; i-- {
		offset = alignUp(offset, align)

		byteLen := uint64(len(t.levels[i].data))
		uncompLen := t.levels[i].uncompressedLen
		if t.scheme == format.SchemeNone {
			uncompLen = byteLen
		}

		entries[i] = section.LevelIndexEntry{
			ByteOffset:             uint64(offset),
			ByteLength:             byteLen,
			UncompressedByteLength: uncompLen,
		}
		offset += len(t.levels[i].data)
	}

	header := section.Header{
		VkFormat:      t.vkFormat,
		TypeSize:      t.typeSize,
		PixelWidth:    t.baseWidth,
		PixelHeight:   t.baseHeight,
		PixelDepth:    t.baseDepth,
		LayerCount:    t.layerCount,
		FaceCount:     t.faceCount,
		LevelCount:    uint32(len(t.levels)),
		Scheme:        t.scheme,
		DFDByteOffset: uint32(dfdOffset),
		DFDByteLength: uint32(len(dfdBytes)),
		KVDByteOffset: uint32(kvdOffset),
		KVDByteLength: uint32(len(kvdBytes)),
	}
	if len(kvdBytes) == 0 {
		header.KVDByteOffset = 0
	}

	buf.MustWrite(header.Bytes(engine))

	indexArea := buf.ExtendOrGrow(indexSize)
	pos := 0
	for i := range entries {
		pos = entries[i].WriteToSlice(indexArea, pos, engine)
	}

	buf.MustWrite(dfdBytes)
	buf.MustWrite(kvdBytes)

	for i := len(t.levels) - 1; i >= 0; i-- {
		if pad := int(entries[i].ByteOffset) - buf.Len(); pad > 0 {
			buf.WriteByteN(0, pad)
		}
		buf.MustWrite(t.levels[i].data)
	}

	return nil
}

// levelAlignment is the byte alignment of level payloads in the file:
// the texel block size rounded up to a multiple of 4 with no scheme
// active, 1 (packed) when supercompressed.
func (t *Texture) levelAlignment() int {
	if t.scheme != format.SchemeNone {
		return 1
	}

	_, _, bpb, ok := t.vkFormat.BlockDims()
	if !ok {
		return 4 // universal data has no fixed block size
	}

	return lcm(bpb, 4)
}

func alignUp(n, align int) int {
	if align <= 1 {
		return n
	}

	return (n + align - 1) / align * align
}

func lcm(a, b int) int {
	return a / gcd(a, b) * b
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}

	return a
}
