package section

import (
	"bytes"
	"fmt"

	"github.com/texturelab/ktx2/endian"
	"github.com/texturelab/ktx2/errs"
	"github.com/texturelab/ktx2/format"
)

// Header is the fixed-size header at the start of a container file.
// All multi-byte fields are little-endian on disk.
type Header struct {
	// VkFormat identifies the stored format, or FormatUndefined for
	// universal/transcodable data.
	VkFormat format.Format // byte offset 12-15
	// TypeSize is the size in bytes of the data type of the format, used
	// for endianness conversion by GPU upload paths. Block-compressed and
	// supercompressed data always use 1.
	TypeSize uint32 // byte offset 16-19
	// PixelWidth is the base level width in texels.
	PixelWidth uint32 // byte offset 20-23
	// PixelHeight is the base level height in texels.
	PixelHeight uint32 // byte offset 24-27
	// PixelDepth is the base level depth in texels (1 for 2D textures).
	PixelDepth uint32 // byte offset 28-31
	// LayerCount is the number of array layers, at least 1.
	LayerCount uint32 // byte offset 32-35
	// FaceCount is the number of cube faces: 1, or 6 for cube maps.
	FaceCount uint32 // byte offset 36-39
	// LevelCount is the number of mip levels, at least 1.
	LevelCount uint32 // byte offset 40-43
	// Scheme is the active supercompression scheme tag.
	Scheme format.SupercompressionScheme // byte offset 44-47

	// DFDByteOffset/DFDByteLength locate the format descriptor block.
	DFDByteOffset uint32 // byte offset 48-51
	DFDByteLength uint32 // byte offset 52-55
	// KVDByteOffset/KVDByteLength locate the key/value data block.
	KVDByteOffset uint32 // byte offset 56-59
	KVDByteLength uint32 // byte offset 60-63
}

// Parse parses the header from the start of a container byte stream.
//
// Returns ErrCorruptFile when the identifier does not match the container
// magic, ErrUnsupportedVersion when the framing matches but the version
// token differs, and ErrTruncatedFile when data is shorter than HeaderSize.
func (h *Header) Parse(data []byte, engine endian.EndianEngine) error {
	if len(data) < IdentifierSize {
		return fmt.Errorf("header: %w", errs.ErrTruncatedFile)
	}

	if !bytes.Equal(data[:IdentifierSize], FileIdentifier[:]) {
		if bytes.Equal(data[:len(identifierPrefix)], identifierPrefix[:]) {
			return fmt.Errorf("header version %q: %w", string(data[4:7]), errs.ErrUnsupportedVersion)
		}

		return fmt.Errorf("bad identifier: %w", errs.ErrCorruptFile)
	}

	if len(data) < HeaderSize {
		return fmt.Errorf("header: %w", errs.ErrTruncatedFile)
	}

	h.VkFormat = format.Format(engine.Uint32(data[12:16]))
	h.TypeSize = engine.Uint32(data[16:20])
	h.PixelWidth = engine.Uint32(data[20:24])
	h.PixelHeight = engine.Uint32(data[24:28])
	h.PixelDepth = engine.Uint32(data[28:32])
	h.LayerCount = engine.Uint32(data[32:36])
	h.FaceCount = engine.Uint32(data[36:40])
	h.LevelCount = engine.Uint32(data[40:44])
	h.Scheme = format.SupercompressionScheme(engine.Uint32(data[44:48]))
	h.DFDByteOffset = engine.Uint32(data[48:52])
	h.DFDByteLength = engine.Uint32(data[52:56])
	h.KVDByteOffset = engine.Uint32(data[56:60])
	h.KVDByteLength = engine.Uint32(data[60:64])

	return h.Validate()
}

// Bytes serializes the header, identifier included.
func (h *Header) Bytes(engine endian.EndianEngine) []byte {
	b := make([]byte, HeaderSize)

	copy(b[0:12], FileIdentifier[:])
	engine.PutUint32(b[12:16], uint32(h.VkFormat))
	engine.PutUint32(b[16:20], h.TypeSize)
	engine.PutUint32(b[20:24], h.PixelWidth)
	engine.PutUint32(b[24:28], h.PixelHeight)
	engine.PutUint32(b[28:32], h.PixelDepth)
	engine.PutUint32(b[32:36], h.LayerCount)
	engine.PutUint32(b[36:40], h.FaceCount)
	engine.PutUint32(b[40:44], h.LevelCount)
	engine.PutUint32(b[44:48], uint32(h.Scheme))
	engine.PutUint32(b[48:52], h.DFDByteOffset)
	engine.PutUint32(b[52:56], h.DFDByteLength)
	engine.PutUint32(b[56:60], h.KVDByteOffset)
	engine.PutUint32(b[60:64], h.KVDByteLength)

	return b
}

// Validate checks structural invariants of a parsed header.
func (h *Header) Validate() error {
	if h.PixelWidth == 0 || h.PixelHeight == 0 || h.PixelDepth == 0 {
		return fmt.Errorf("zero dimensions: %w", errs.ErrCorruptFile)
	}
	if h.LayerCount == 0 || h.LevelCount == 0 {
		return fmt.Errorf("zero layer or level count: %w", errs.ErrCorruptFile)
	}
	if h.FaceCount != 1 && h.FaceCount != 6 {
		return fmt.Errorf("face count %d: %w", h.FaceCount, errs.ErrCorruptFile)
	}
	if h.LevelCount > MaxLevelCount {
		return fmt.Errorf("level count %d exceeds %d: %w", h.LevelCount, MaxLevelCount, errs.ErrCorruptFile)
	}
	switch h.Scheme {
	case format.SchemeNone, format.SchemeBasisLZ, format.SchemeZstd, format.SchemeZLIB:
	default:
		return fmt.Errorf("supercompression scheme %d: %w", h.Scheme, errs.ErrCorruptFile)
	}

	return nil
}

// ParseHeader parses a Header from the start of a container byte stream.
func ParseHeader(data []byte, engine endian.EndianEngine) (Header, error) {
	h := Header{}
	if err := h.Parse(data, engine); err != nil {
		return Header{}, err
	}

	return h, nil
}
