package encoder

import (
	"fmt"

	"github.com/texturelab/ktx2/errs"
	"github.com/texturelab/ktx2/format"
)

// ASTC quality presets, matching the 0-100 preset scale of the reference
// astcenc tooling.
const (
	AstcQualityFastest    = 0
	AstcQualityFast       = 10
	AstcQualityMedium     = 60
	AstcQualityThorough   = 98
	AstcQualityExhaustive = 100
)

// AstcParams are the extended parameters of the ASTC family.
// Passed per operation and never stored.
type AstcParams struct {
	// Quality is the encoder effort preset, 0-100.
	Quality int
	// BlockWidth/BlockHeight select the ASTC block footprint. The built-in
	// encoder supports 4x4 only.
	BlockWidth, BlockHeight int
	// Perceptual weights channel errors for human perception instead of
	// direct PSNR. A hint; the built-in encoder ignores it.
	Perceptual bool
	// NormalMap optimizes for two-component normal data. A hint; the
	// built-in encoder ignores it.
	NormalMap bool
}

// DefaultAstcParams returns the parameter bundle selected by the
// single-quality compress overload.
func DefaultAstcParams(quality int) AstcParams {
	return AstcParams{
		Quality:     quality,
		BlockWidth:  4,
		BlockHeight: 4,
	}
}

// Validate checks the parameter ranges common to all ASTC encoders.
func (p AstcParams) Validate() error {
	if p.Quality < 0 || p.Quality > 100 {
		return fmt.Errorf("astc quality %d not in [0,100]: %w", p.Quality, errs.ErrInvalidParameter)
	}
	if p.BlockWidth == 0 || p.BlockHeight == 0 {
		return fmt.Errorf("astc block dimensions %dx%d: %w", p.BlockWidth, p.BlockHeight, errs.ErrInvalidParameter)
	}

	return nil
}

const astcBlockBytes = 16

// astcEncoder is the built-in member of the ASTC family. It emits
// void-extent blocks carrying the block mean color, which is a valid ASTC
// bitstream decodable by any conformant decoder. External encoders with a
// real partition/weight search register over it.
type astcEncoder struct{}

var _ BlockEncoder = astcEncoder{}

func (astcEncoder) Format(srgb bool) format.Format {
	if srgb {
		return format.FormatASTC4x4Srgb
	}

	return format.FormatASTC4x4Unorm
}

func (astcEncoder) EncodePlane(rgba []byte, width, height int, params AstcParams) ([]byte, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if params.BlockWidth != 4 || params.BlockHeight != 4 {
		return nil, fmt.Errorf("built-in astc encoder supports 4x4 blocks, got %dx%d: %w",
			params.BlockWidth, params.BlockHeight, errs.ErrInvalidParameter)
	}
	if len(rgba) != width*height*4 {
		return nil, fmt.Errorf("plane size %d != %dx%dx4: %w", len(rgba), width, height, errs.ErrEncoderFailure)
	}

	bw := (width + 3) / 4
	bh := (height + 3) / 4
	out := make([]byte, bw*bh*astcBlockBytes)

	for by := range bh {
		for bx := range bw {
			r, g, b, a := blockMeanRGBA(rgba, width, height, bx*4, by*4)
			writeVoidExtentBlock(out[(by*bw+bx)*astcBlockBytes:], r, g, b, a)
		}
	}

	return out, nil
}

// blockMeanRGBA averages the texels of one 4x4 block, clamping reads at the
// plane edges.
func blockMeanRGBA(rgba []byte, width, height, x0, y0 int) (r, g, b, a uint8) {
	var sr, sg, sb, sa, n uint32
	for dy := range 4 {
		y := y0 + dy
		if y >= height {
			y = height - 1
		}
		for dx := range 4 {
			x := x0 + dx
			if x >= width {
				x = width - 1
			}
			p := (y*width + x) * 4
			sr += uint32(rgba[p])
			sg += uint32(rgba[p+1])
			sb += uint32(rgba[p+2])
			sa += uint32(rgba[p+3])
			n++
		}
	}

	return uint8((sr + n/2) / n), uint8((sg + n/2) / n), uint8((sb + n/2) / n), uint8((sa + n/2) / n)
}

// writeVoidExtentBlock emits one 128-bit LDR void-extent block: the 9-bit
// void-extent signature, the reserved bits, all-ones extent coordinates,
// and the constant color as four UNORM16 values.
func writeVoidExtentBlock(dst []byte, r, g, b, a uint8) {
	dst[0] = 0xFC
	dst[1] = 0xFD
	for i := 2; i < 8; i++ {
		dst[i] = 0xFF
	}

	put16 := func(off int, c uint8) {
		v := uint16(c) * 257 // replicate to UNORM16
		dst[off] = byte(v)
		dst[off+1] = byte(v >> 8)
	}
	put16(8, r)
	put16(10, g)
	put16(12, b)
	put16(14, a)
}
