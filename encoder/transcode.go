package encoder

import (
	"encoding/binary"
	"fmt"

	"github.com/texturelab/ktx2/errs"
	"github.com/texturelab/ktx2/format"
)

// etc1sTranscoder converts built-in universal payloads into concrete block
// formats. BC1 is a direct repack of the endpoint and selector streams;
// RGBA32 is a full decode. No other target has a path from this encoding.
type etc1sTranscoder struct{}

var _ Transcoder = etc1sTranscoder{}

func (etc1sTranscoder) TargetFormat(target format.TranscodeTarget, srgb bool) (format.Format, error) {
	switch target {
	case format.TargetRGBA32:
		if srgb {
			return format.FormatR8G8B8A8Srgb, nil
		}

		return format.FormatR8G8B8A8Unorm, nil
	case format.TargetBC1RGB:
		if srgb {
			return format.FormatBC1RGBSrgb, nil
		}

		return format.FormatBC1RGBUnorm, nil
	default:
		return format.FormatUndefined, fmt.Errorf("no path from ETC1S to %s: %w",
			target, errs.ErrUnsupportedTargetFormat)
	}
}

func (t etc1sTranscoder) TranscodePlane(payload []byte, width, height int, target format.TranscodeTarget, flags format.TranscodeFlags) ([]byte, error) {
	// every flag bit is reserved: the BC1 repack and the RGBA32 decode are
	// both exact, so there is no behavior for a flag to select
	if flags != 0 {
		return nil, fmt.Errorf("transcode flags %#x: %w", uint32(flags), errs.ErrInvalidParameter)
	}

	bw := (width + 3) / 4
	bh := (height + 3) / 4
	plane, err := parsePlanePayload(payload, bw*bh)
	if err != nil {
		return nil, err
	}

	switch target {
	case format.TargetRGBA32:
		return transcodeToRGBA(plane, width, height), nil
	case format.TargetBC1RGB:
		return transcodeToBC1(plane, bw*bh), nil
	default:
		return nil, fmt.Errorf("no path from ETC1S to %s: %w", target, errs.ErrUnsupportedTargetFormat)
	}
}

// transcodeToBC1 interleaves the endpoint and selector streams back into
// 8-byte BC1 blocks. The universal block layout was chosen so this needs
// no pixel round-trip: endpoints are already ordered RGB565 pairs and
// selectors already use the BC1 bit order.
func transcodeToBC1(plane planePayload, blocks int) []byte {
	out := make([]byte, blocks*8)
	for i := range blocks {
		copy(out[i*8:], plane.endpoints[i*4:i*4+4])
		copy(out[i*8+4:], plane.selectors[i*4:i*4+4])
	}

	return out
}

// transcodeToRGBA fully decodes the palettized blocks into 8-bit RGBA
// texels with opaque alpha.
func transcodeToRGBA(plane planePayload, width, height int) []byte {
	bw := (width + 3) / 4
	out := make([]byte, width*height*4)

	for i := 0; i < len(plane.endpoints)/4; i++ {
		q0 := binary.LittleEndian.Uint16(plane.endpoints[i*4:])
		q1 := binary.LittleEndian.Uint16(plane.endpoints[i*4+2:])
		palette := buildPalette(q0, q1)

		x0 := (i % bw) * 4
		y0 := (i / bw) * 4
		for dy := range 4 {
			y := y0 + dy
			if y >= height {
				break
			}
			row := plane.selectors[i*4+dy]
			for dx := range 4 {
				x := x0 + dx
				if x >= width {
					break
				}
				c := palette[row>>(dx*2)&0x3]
				p := (y*width + x) * 4
				out[p] = c[0]
				out[p+1] = c[1]
				out[p+2] = c[2]
				out[p+3] = 0xFF
			}
		}
	}

	return out
}
