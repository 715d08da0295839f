package section

// FileIdentifier is the 12-byte identifier at the start of every container
// file. Bytes 5-6 carry the format version token ("20").
var FileIdentifier = [12]byte{0xAB, 'K', 'T', 'X', ' ', '2', '0', 0xBB, '\r', '\n', 0x1A, '\n'}

// identifier framing shared by all versions of the container family; used to
// distinguish an unsupported version from an unrelated stream.
var identifierPrefix = [4]byte{0xAB, 'K', 'T', 'X'}

const (
	// IdentifierSize is the size of the file identifier in bytes.
	IdentifierSize = 12

	// HeaderSize is the total fixed header size in bytes, identifier included.
	HeaderSize = 64

	// LevelIndexEntrySize is the on-disk size of one level index entry.
	LevelIndexEntrySize = 24

	// LevelIndexOffset is the byte offset where the level index starts.
	LevelIndexOffset = HeaderSize

	// MaxLevelCount bounds the level index table. A 2^31-texel base level
	// has 32 mip levels; anything above that is a corrupt or hostile file.
	MaxLevelCount = 32
)

// Format descriptor tags. Unknown tags are skipped on parse.
const (
	DFDTagColorModel    uint16 = 0x0001 // 1 byte: format.ColorModel
	DFDTagChannelCount  uint16 = 0x0002 // 1 byte
	DFDTagTransfer      uint16 = 0x0003 // 1 byte: format.TransferFunction
	DFDTagFlags         uint16 = 0x0004 // 1 byte: bit 0 = premultiplied alpha
	DFDTagBlockDims     uint16 = 0x0005 // 2 bytes: block width, block height
	DFDTagBytesPerBlock uint16 = 0x0006 // 1 byte
)

// dfdFlagPremultiplied is bit 0 of the DFDTagFlags value.
const dfdFlagPremultiplied = 0x01
