package encoder

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/texturelab/ktx2/errs"
	"github.com/texturelab/ktx2/format"
)

// BasisParams are the extended parameters of the universal family.
// Passed per operation and never stored.
type BasisParams struct {
	// Quality is the target quality level, 0-255. Below 16 the encoder
	// skips endpoint refinement; 128 and above runs an extra pass.
	Quality int
	// CompressionLevel is the effort spent LZ-compressing the endpoint and
	// selector streams, 0-5. 0 selects the fast compressor, higher levels
	// the high-compression one. Default 1.
	CompressionLevel int
	// NormalMap optimizes selector assignment for two-component normal
	// data. A hint; the built-in encoder ignores it.
	NormalMap bool
}

// DefaultBasisParams returns the parameter bundle selected by the
// single-quality compress overload.
func DefaultBasisParams(quality int) BasisParams {
	return BasisParams{
		Quality:          quality,
		CompressionLevel: 1,
	}
}

// Validate checks the parameter ranges common to all universal encoders.
func (p BasisParams) Validate() error {
	if p.Quality < 0 || p.Quality > 255 {
		return fmt.Errorf("basis quality %d not in [0,255]: %w", p.Quality, errs.ErrInvalidParameter)
	}
	if p.CompressionLevel < 0 || p.CompressionLevel > 5 {
		return fmt.Errorf("basis compression level %d not in [0,5]: %w", p.CompressionLevel, errs.ErrInvalidParameter)
	}

	return nil
}

// Universal plane payload layout, little-endian:
//
//	u32 rawEndpointsLen   4 bytes per block: two RGB565 endpoints
//	u32 rawSelectorsLen   4 bytes per block: 16 x 2-bit selectors
//	u32 compEndpointsLen  LZ4-block stream; == raw length when stored raw
//	u32 compSelectorsLen  LZ4-block stream; == raw length when stored raw
//	endpoint stream, selector stream
//
// Separating endpoints from selectors is what makes the streams compress:
// each is self-similar in a way the interleaved block stream is not. This
// is the same shape the BasisLZ scheme uses.
const planeHeaderSize = 16

const etc1sBlockEndpointBytes = 4
const etc1sBlockSelectorBytes = 4

// etc1sEncoder is the built-in member of the universal family: 4x4 blocks
// palettized to two RGB565 endpoints plus 2-bit selectors.
type etc1sEncoder struct{}

var _ UniversalEncoder = etc1sEncoder{}

func (etc1sEncoder) Model() format.ColorModel {
	return format.ModelETC1S
}

func (etc1sEncoder) EncodePlane(rgba []byte, width, height int, params BasisParams) ([]byte, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(rgba) != width*height*4 {
		return nil, fmt.Errorf("plane size %d != %dx%dx4: %w", len(rgba), width, height, errs.ErrEncoderFailure)
	}

	bw := (width + 3) / 4
	bh := (height + 3) / 4
	endpoints := make([]byte, 0, bw*bh*etc1sBlockEndpointBytes)
	selectors := make([]byte, 0, bw*bh*etc1sBlockSelectorBytes)

	refinePasses := 1
	switch {
	case params.Quality < 16:
		refinePasses = 0
	case params.Quality >= 128:
		refinePasses = 2
	}

	var px [16][3]uint8
	for by := range bh {
		for bx := range bw {
			gatherBlockRGB(rgba, width, height, bx*4, by*4, &px)
			ep0, ep1, sel := encodePaletteBlock(&px, refinePasses)

			endpoints = binary.LittleEndian.AppendUint16(endpoints, ep0)
			endpoints = binary.LittleEndian.AppendUint16(endpoints, ep1)
			selectors = append(selectors, sel[0], sel[1], sel[2], sel[3])
		}
	}

	compEndpoints, err := lz4Compress(endpoints, params.CompressionLevel)
	if err != nil {
		return nil, fmt.Errorf("endpoint stream: %w", err)
	}
	compSelectors, err := lz4Compress(selectors, params.CompressionLevel)
	if err != nil {
		return nil, fmt.Errorf("selector stream: %w", err)
	}

	out := make([]byte, 0, planeHeaderSize+len(compEndpoints)+len(compSelectors))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(endpoints)))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(selectors)))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(compEndpoints)))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(compSelectors)))
	out = append(out, compEndpoints...)
	out = append(out, compSelectors...)

	return out, nil
}

// gatherBlockRGB copies one 4x4 block of RGB texels, clamping reads at the
// plane edges. Alpha is dropped; the universal encoding is RGB-only.
func gatherBlockRGB(rgba []byte, width, height, x0, y0 int, px *[16][3]uint8) {
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
			px[dy*4+dx] = [3]uint8{rgba[p], rgba[p+1], rgba[p+2]}
		}
	}
}

// encodePaletteBlock palettizes one block to two RGB565 endpoints and 16
// 2-bit selectors. ep0 > ep1 always holds (four-interpolant mode); equal
// endpoints force all selectors to zero.
func encodePaletteBlock(px *[16][3]uint8, refinePasses int) (ep0, ep1 uint16, sel [4]byte) {
	// seed endpoints from the extreme-luminance texels
	minI, maxI := 0, 0
	minL, maxL := blockLuma(px[0]), blockLuma(px[0])
	for i := 1; i < 16; i++ {
		l := blockLuma(px[i])
		if l < minL {
			minL, minI = l, i
		}
		if l > maxL {
			maxL, maxI = l, i
		}
	}

	c0 := [3]float64{float64(px[maxI][0]), float64(px[maxI][1]), float64(px[maxI][2])}
	c1 := [3]float64{float64(px[minI][0]), float64(px[minI][1]), float64(px[minI][2])}

	var selectors [16]uint8
	for pass := 0; ; pass++ {
		q0, q1 := quant565(c0), quant565(c1)
		if q0 == q1 {
			return q0, q1, [4]byte{}
		}
		if q0 < q1 {
			q0, q1 = q1, q0
		}

		palette := buildPalette(q0, q1)
		for i := range 16 {
			selectors[i] = nearestPaletteIndex(palette, px[i])
		}

		ep0, ep1 = q0, q1
		if pass >= refinePasses {
			break
		}
		if !refineEndpoints(px, &selectors, &c0, &c1) {
			break
		}
	}

	for i := range 16 {
		sel[i/4] |= selectors[i] << ((i % 4) * 2)
	}

	return ep0, ep1, sel
}

func blockLuma(c [3]uint8) int {
	return 299*int(c[0]) + 587*int(c[1]) + 114*int(c[2])
}

func quant565(c [3]float64) uint16 {
	clamp := func(v float64, max int) uint16 {
		i := int(v*float64(max)/255.0 + 0.5)
		if i < 0 {
			i = 0
		}
		if i > max {
			i = max
		}

		return uint16(i)
	}

	return clamp(c[0], 31)<<11 | clamp(c[1], 63)<<5 | clamp(c[2], 31)
}

func expand565(q uint16) [3]uint8 {
	r5 := uint8(q >> 11)
	g6 := uint8(q >> 5 & 0x3F)
	b5 := uint8(q & 0x1F)

	return [3]uint8{r5<<3 | r5>>2, g6<<2 | g6>>4, b5<<3 | b5>>2}
}

// buildPalette expands the four interpolants of a block: the two endpoints
// and the 1/3, 2/3 mixes.
func buildPalette(q0, q1 uint16) [4][3]uint8 {
	e0 := expand565(q0)
	e1 := expand565(q1)

	var p [4][3]uint8
	p[0], p[1] = e0, e1
	for ch := range 3 {
		p[2][ch] = uint8((2*int(e0[ch]) + int(e1[ch]) + 1) / 3)
		p[3][ch] = uint8((int(e0[ch]) + 2*int(e1[ch]) + 1) / 3)
	}

	return p
}

func nearestPaletteIndex(palette [4][3]uint8, c [3]uint8) uint8 {
	best, bestDist := uint8(0), 1<<31-1
	for i, p := range palette {
		dr := int(p[0]) - int(c[0])
		dg := int(p[1]) - int(c[1])
		db := int(p[2]) - int(c[2])
		d := dr*dr + dg*dg + db*db
		if d < bestDist {
			best, bestDist = uint8(i), d
		}
	}

	return best
}

// selectorWeight is the interpolation weight of endpoint 1 for each
// selector value.
var selectorWeight = [4]float64{0, 1, 1.0 / 3.0, 2.0 / 3.0}

// refineEndpoints solves the 2x2 least-squares system fitting both
// endpoints to the current selector assignment. Returns false when the
// system is degenerate (all texels on one endpoint).
func refineEndpoints(px *[16][3]uint8, selectors *[16]uint8, c0, c1 *[3]float64) bool {
	var a00, a01, a11 float64
	var b0, b1 [3]float64

	for i := range 16 {
		w := selectorWeight[selectors[i]]
		u := 1 - w
		a00 += u * u
		a01 += u * w
		a11 += w * w
		for ch := range 3 {
			v := float64(px[i][ch])
			b0[ch] += u * v
			b1[ch] += w * v
		}
	}

	det := a00*a11 - a01*a01
	if det < 1e-8 {
		return false
	}

	for ch := range 3 {
		c0[ch] = (a11*b0[ch] - a01*b1[ch]) / det
		c1[ch] = (a00*b1[ch] - a01*b0[ch]) / det
	}

	return true
}

// lz4CompressorPool pools the fast compressor; it keeps internal state that
// benefits from reuse.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// hcLevels maps CompressionLevel 1-5 to LZ4 high-compression depths.
var hcLevels = [6]lz4.CompressionLevel{0, lz4.Level1, lz4.Level3, lz4.Level5, lz4.Level7, lz4.Level9}

// lz4Compress block-compresses a stream. A result as large as the input is
// stored raw; the caller detects this by comparing lengths.
func lz4Compress(data []byte, level int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	var n int
	var err error
	if level <= 0 {
		lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
		n, err = lc.CompressBlock(data, dst)
		lz4CompressorPool.Put(lc)
	} else {
		hc := lz4.CompressorHC{Level: hcLevels[level]}
		n, err = hc.CompressBlock(data, dst)
	}
	if err != nil {
		return nil, fmt.Errorf("lz4: %w", err)
	}
	if n == 0 || n >= len(data) {
		// incompressible, store raw
		return append([]byte(nil), data...), nil
	}

	return dst[:n], nil
}

func lz4Decompress(data []byte, rawLen int) ([]byte, error) {
	if rawLen == 0 {
		return nil, nil
	}
	if len(data) == rawLen {
		return append([]byte(nil), data...), nil
	}

	buf := make([]byte, rawLen)
	n, err := lz4.UncompressBlock(data, buf)
	if err != nil {
		return nil, fmt.Errorf("lz4: %w", err)
	}
	if n != rawLen {
		return nil, fmt.Errorf("lz4 stream decoded to %d bytes, want %d: %w", n, rawLen, errs.ErrCorruptFile)
	}

	return buf, nil
}

// planePayload is the parsed form of one universal plane.
type planePayload struct {
	endpoints []byte // 4 bytes per block
	selectors []byte // 4 bytes per block
}

// parsePlanePayload validates the framing and decompresses both streams.
func parsePlanePayload(payload []byte, blocks int) (planePayload, error) {
	var p planePayload

	if len(payload) < planeHeaderSize {
		return p, fmt.Errorf("universal plane header: %w", errs.ErrCorruptFile)
	}

	rawEP := int(binary.LittleEndian.Uint32(payload[0:4]))
	rawSel := int(binary.LittleEndian.Uint32(payload[4:8]))
	compEP := int(binary.LittleEndian.Uint32(payload[8:12]))
	compSel := int(binary.LittleEndian.Uint32(payload[12:16]))

	if rawEP != blocks*etc1sBlockEndpointBytes || rawSel != blocks*etc1sBlockSelectorBytes {
		return p, fmt.Errorf("universal plane stream lengths %d/%d for %d blocks: %w",
			rawEP, rawSel, blocks, errs.ErrCorruptFile)
	}
	if planeHeaderSize+compEP+compSel != len(payload) {
		return p, fmt.Errorf("universal plane framing: %w", errs.ErrCorruptFile)
	}

	var err error
	p.endpoints, err = lz4Decompress(payload[planeHeaderSize:planeHeaderSize+compEP], rawEP)
	if err != nil {
		return p, fmt.Errorf("endpoint stream: %w", err)
	}
	p.selectors, err = lz4Decompress(payload[planeHeaderSize+compEP:], rawSel)
	if err != nil {
		return p, fmt.Errorf("selector stream: %w", err)
	}

	return p, nil
}

// PlaneSize returns the framed size of the universal plane starting at
// data, or an error when the framing is malformed.
func PlaneSize(data []byte) (int, error) {
	if len(data) < planeHeaderSize {
		return 0, fmt.Errorf("universal plane header: %w", errs.ErrCorruptFile)
	}

	compEP := int(binary.LittleEndian.Uint32(data[8:12]))
	compSel := int(binary.LittleEndian.Uint32(data[12:16]))
	size := planeHeaderSize + compEP + compSel
	if size > len(data) {
		return 0, fmt.Errorf("universal plane framing: %w", errs.ErrCorruptFile)
	}

	return size, nil
}

// SplitPlanes walks the self-framing universal payload of one level and
// returns its planeCount plane payloads.
func SplitPlanes(levelData []byte, planeCount int) ([][]byte, error) {
	planes := make([][]byte, 0, planeCount)
	rest := levelData
	for range planeCount {
		size, err := PlaneSize(rest)
		if err != nil {
			return nil, err
		}
		planes = append(planes, rest[:size])
		rest = rest[size:]
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("universal level has %d trailing bytes: %w", len(rest), errs.ErrCorruptFile)
	}

	return planes, nil
}
