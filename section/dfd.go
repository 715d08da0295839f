package section

import (
	"fmt"

	"github.com/texturelab/ktx2/endian"
	"github.com/texturelab/ktx2/errs"
	"github.com/texturelab/ktx2/format"
)

// FormatDescriptor is the self-describing metadata block attached to a
// container. On disk it is a length-prefixed sequence of (tag, length,
// value) pairs; unknown tags are skipped so older readers survive newer
// writers.
//
// The descriptor is replaced atomically with the level data whenever an
// operation changes the stored encoding, so a reader never observes a
// stale descriptor against new bytes.
type FormatDescriptor struct {
	// Model is the channel layout family of the stored data.
	Model format.ColorModel
	// ChannelCount is the number of channels described by the model.
	ChannelCount uint8
	// Transfer is the encoding curve of the stored channels.
	Transfer format.TransferFunction
	// PremultipliedAlpha reports whether color channels are premultiplied.
	PremultipliedAlpha bool
	// BlockWidth/BlockHeight are the texel block dimensions.
	BlockWidth, BlockHeight uint8
	// BytesPerBlock is the byte size of one texel block as stored,
	// before any supercompression. Zero for variable-rate universal data.
	BytesPerBlock uint8
}

// descriptor pair header: tag u16 + length u16.
const dfdPairHeaderSize = 4

// Bytes serializes the descriptor block, including its u32 total-length
// prefix. The prefix counts itself in the total.
func (d *FormatDescriptor) Bytes(engine endian.EndianEngine) []byte {
	var body []byte

	put1 := func(tag uint16, v byte) {
		body = engine.AppendUint16(body, tag)
		body = engine.AppendUint16(body, 1)
		body = append(body, v)
	}

	put1(DFDTagColorModel, byte(d.Model))
	put1(DFDTagChannelCount, d.ChannelCount)
	put1(DFDTagTransfer, byte(d.Transfer))

	var flags byte
	if d.PremultipliedAlpha {
		flags |= dfdFlagPremultiplied
	}
	put1(DFDTagFlags, flags)

	body = engine.AppendUint16(body, DFDTagBlockDims)
	body = engine.AppendUint16(body, 2)
	body = append(body, d.BlockWidth, d.BlockHeight)

	put1(DFDTagBytesPerBlock, d.BytesPerBlock)

	out := make([]byte, 0, 4+len(body))
	out = engine.AppendUint32(out, uint32(4+len(body)))
	out = append(out, body...)

	return out
}

// ParseFormatDescriptor parses a descriptor block from data. data must
// start at the block's length prefix and contain the whole block.
func ParseFormatDescriptor(data []byte, engine endian.EndianEngine) (FormatDescriptor, error) {
	var d FormatDescriptor

	if len(data) < 4 {
		return d, fmt.Errorf("format descriptor: %w", errs.ErrTruncatedFile)
	}

	total := engine.Uint32(data[0:4])
	if total < 4 || uint64(total) > uint64(len(data)) {
		return d, fmt.Errorf("format descriptor length %d: %w", total, errs.ErrTruncatedFile)
	}

	body := data[4:total]
	for len(body) > 0 {
		if len(body) < dfdPairHeaderSize {
			return d, fmt.Errorf("format descriptor pair header: %w", errs.ErrCorruptFile)
		}

		tag := engine.Uint16(body[0:2])
		length := int(engine.Uint16(body[2:4]))
		body = body[dfdPairHeaderSize:]
		if length > len(body) {
			return d, fmt.Errorf("format descriptor pair length %d: %w", length, errs.ErrCorruptFile)
		}

		value := body[:length]
		body = body[length:]

		switch tag {
		case DFDTagColorModel:
			if length != 1 {
				return d, fmt.Errorf("color model pair: %w", errs.ErrCorruptFile)
			}
			d.Model = format.ColorModel(value[0])
		case DFDTagChannelCount:
			if length != 1 {
				return d, fmt.Errorf("channel count pair: %w", errs.ErrCorruptFile)
			}
			d.ChannelCount = value[0]
		case DFDTagTransfer:
			if length != 1 {
				return d, fmt.Errorf("transfer pair: %w", errs.ErrCorruptFile)
			}
			d.Transfer = format.TransferFunction(value[0])
		case DFDTagFlags:
			if length != 1 {
				return d, fmt.Errorf("flags pair: %w", errs.ErrCorruptFile)
			}
			d.PremultipliedAlpha = value[0]&dfdFlagPremultiplied != 0
		case DFDTagBlockDims:
			if length != 2 {
				return d, fmt.Errorf("block dims pair: %w", errs.ErrCorruptFile)
			}
			d.BlockWidth, d.BlockHeight = value[0], value[1]
		case DFDTagBytesPerBlock:
			if length != 1 {
				return d, fmt.Errorf("bytes per block pair: %w", errs.ErrCorruptFile)
			}
			d.BytesPerBlock = value[0]
		default:
			// unknown tag, skip
		}
	}

	return d, nil
}

// DescriptorForFormat builds the descriptor matching a concrete format.
// Universal encodings build their descriptor in the encoder instead.
func DescriptorForFormat(f format.Format, premultiplied bool) (FormatDescriptor, error) {
	bw, bh, bpb, ok := f.BlockDims()
	if !ok {
		return FormatDescriptor{}, fmt.Errorf("format %s: %w", f, errs.ErrUnsupportedFormat)
	}

	d := FormatDescriptor{
		ChannelCount:       4,
		Transfer:           format.TransferLinear,
		PremultipliedAlpha: premultiplied,
		BlockWidth:         uint8(bw),
		BlockHeight:        uint8(bh),
		BytesPerBlock:      uint8(bpb),
	}
	if f.IsSRGB() {
		d.Transfer = format.TransferSRGB
	}

	switch {
	case f.IsUncompressedRGBA8():
		d.Model = format.ModelRGBSDA
	case f == format.FormatBC1RGBUnorm || f == format.FormatBC1RGBSrgb:
		d.Model = format.ModelBC1
		d.ChannelCount = 3
	case f == format.FormatASTC4x4Unorm || f == format.FormatASTC4x4Srgb:
		d.Model = format.ModelASTC
	default:
		return FormatDescriptor{}, fmt.Errorf("format %s: %w", f, errs.ErrUnsupportedFormat)
	}

	return d, nil
}
