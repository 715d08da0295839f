package format

type (
	// Format identifies the pixel or block format of stored texture data.
	// Values match the VkFormat enumeration; FormatUndefined (0) marks
	// universal/transcodable data whose concrete layout lives in the
	// format descriptor instead.
	Format uint32

	// SupercompressionScheme identifies the byte-stream compressor applied
	// to already format-encoded level data.
	SupercompressionScheme uint32

	// TransferFunction identifies the encoding curve of the stored channels.
	// Values match the Khronos Data Format transfer identifiers.
	TransferFunction uint8

	// ColorModel identifies the channel layout family in the format
	// descriptor. Values match the Khronos Data Format color models.
	ColorModel uint8

	// TranscodeTarget selects the concrete block format produced when
	// transcoding universal data.
	TranscodeTarget uint8

	// TranscodeFlags modify transcoding behavior. No bits are currently
	// defined: the built-in transcoder's outputs reproduce the universal
	// data exactly, leaving no quality or mode ladder to select. All bits
	// are reserved and must be zero.
	TranscodeFlags uint32
)

const (
	FormatUndefined     Format = 0   // universal/transcodable data, see descriptor
	FormatR8G8B8A8Unorm Format = 37  // VK_FORMAT_R8G8B8A8_UNORM
	FormatR8G8B8A8Srgb  Format = 43  // VK_FORMAT_R8G8B8A8_SRGB
	FormatBC1RGBUnorm   Format = 131 // VK_FORMAT_BC1_RGB_UNORM_BLOCK
	FormatBC1RGBSrgb    Format = 132 // VK_FORMAT_BC1_RGB_SRGB_BLOCK
	FormatASTC4x4Unorm  Format = 157 // VK_FORMAT_ASTC_4x4_UNORM_BLOCK
	FormatASTC4x4Srgb   Format = 158 // VK_FORMAT_ASTC_4x4_SRGB_BLOCK
)

const (
	SchemeNone    SupercompressionScheme = 0 // no supercompression
	SchemeBasisLZ SupercompressionScheme = 1 // reserved, never produced by Deflate
	SchemeZstd    SupercompressionScheme = 2 // Zstandard, levels 1-22
	SchemeZLIB    SupercompressionScheme = 3 // ZLIB/deflate, levels 1-9
)

const (
	TransferLinear TransferFunction = 1 // KHR_DF_TRANSFER_LINEAR
	TransferSRGB   TransferFunction = 2 // KHR_DF_TRANSFER_SRGB
)

const (
	ModelRGBSDA ColorModel = 0x01 // uncompressed RGBA channels
	ModelBC1    ColorModel = 0x80 // BC1/DXT1 blocks
	ModelASTC   ColorModel = 0xA2 // ASTC blocks
	ModelETC1S  ColorModel = 0xA3 // universal ETC1S-family intermediate
)

const (
	TargetRGBA32      TranscodeTarget = iota // uncompressed 8-bit RGBA
	TargetBC1RGB                             // BC1 RGB blocks
	TargetBC3RGBA                            // BC3 RGBA blocks
	TargetBC7RGBA                            // BC7 RGBA blocks
	TargetETC1RGB                            // ETC1 RGB blocks
	TargetASTC4x4RGBA                        // ASTC 4x4 blocks
)

// BlockDims returns the texel block dimensions and the byte size of one
// block for the given format. ok is false for unknown formats.
func (f Format) BlockDims() (w, h, blockBytes int, ok bool) {
	switch f {
	case FormatR8G8B8A8Unorm, FormatR8G8B8A8Srgb:
		return 1, 1, 4, true
	case FormatBC1RGBUnorm, FormatBC1RGBSrgb:
		return 4, 4, 8, true
	case FormatASTC4x4Unorm, FormatASTC4x4Srgb:
		return 4, 4, 16, true
	default:
		return 0, 0, 0, false
	}
}

// IsBlockCompressed reports whether the format is a concrete block format.
func (f Format) IsBlockCompressed() bool {
	switch f {
	case FormatBC1RGBUnorm, FormatBC1RGBSrgb, FormatASTC4x4Unorm, FormatASTC4x4Srgb:
		return true
	default:
		return false
	}
}

// IsUncompressedRGBA8 reports whether the format is 8-bit-per-channel RGBA,
// the required source material for both encoder families.
func (f Format) IsUncompressedRGBA8() bool {
	return f == FormatR8G8B8A8Unorm || f == FormatR8G8B8A8Srgb
}

// IsSRGB reports whether the format carries sRGB-encoded channels.
func (f Format) IsSRGB() bool {
	switch f {
	case FormatR8G8B8A8Srgb, FormatBC1RGBSrgb, FormatASTC4x4Srgb:
		return true
	default:
		return false
	}
}

func (f Format) String() string {
	switch f {
	case FormatUndefined:
		return "Undefined"
	case FormatR8G8B8A8Unorm:
		return "R8G8B8A8_UNORM"
	case FormatR8G8B8A8Srgb:
		return "R8G8B8A8_SRGB"
	case FormatBC1RGBUnorm:
		return "BC1_RGB_UNORM"
	case FormatBC1RGBSrgb:
		return "BC1_RGB_SRGB"
	case FormatASTC4x4Unorm:
		return "ASTC_4x4_UNORM"
	case FormatASTC4x4Srgb:
		return "ASTC_4x4_SRGB"
	default:
		return "Unknown"
	}
}

func (s SupercompressionScheme) String() string {
	switch s {
	case SchemeNone:
		return "None"
	case SchemeBasisLZ:
		return "BasisLZ"
	case SchemeZstd:
		return "Zstd"
	case SchemeZLIB:
		return "ZLIB"
	default:
		return "Unknown"
	}
}

func (t TransferFunction) String() string {
	switch t {
	case TransferLinear:
		return "Linear"
	case TransferSRGB:
		return "sRGB"
	default:
		return "Unknown"
	}
}

func (m ColorModel) String() string {
	switch m {
	case ModelRGBSDA:
		return "RGBSDA"
	case ModelBC1:
		return "BC1"
	case ModelASTC:
		return "ASTC"
	case ModelETC1S:
		return "ETC1S"
	default:
		return "Unknown"
	}
}

func (t TranscodeTarget) String() string {
	switch t {
	case TargetRGBA32:
		return "RGBA32"
	case TargetBC1RGB:
		return "BC1_RGB"
	case TargetBC3RGBA:
		return "BC3_RGBA"
	case TargetBC7RGBA:
		return "BC7_RGBA"
	case TargetETC1RGB:
		return "ETC1_RGB"
	case TargetASTC4x4RGBA:
		return "ASTC_4x4_RGBA"
	default:
		return "Unknown"
	}
}
