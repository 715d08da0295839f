package encoder

import (
	"fmt"

	"github.com/texturelab/ktx2/errs"
	"github.com/texturelab/ktx2/format"
)

// Family discriminates the two encoder families a compress operation can
// select. Parameters travel as a tagged variant: the discriminant picks the
// family, the matching parameter struct applies, the other is ignored.
type Family uint8

const (
	// FamilyASTC selects the block-compression family.
	FamilyASTC Family = iota + 1
	// FamilyBasis selects the universal/transcodable family.
	FamilyBasis
)

// Params is the tagged parameter variant passed to a compress operation.
type Params struct {
	Family Family
	Astc   AstcParams
	Basis  BasisParams
}

// BlockEncoder compresses uncompressed 8-bit RGBA planes into a concrete
// block format.
type BlockEncoder interface {
	// Format returns the concrete format tag produced by this encoder.
	Format(srgb bool) format.Format

	// EncodePlane encodes one plane of width x height RGBA8 texels.
	// len(rgba) must be width*height*4.
	EncodePlane(rgba []byte, width, height int, params AstcParams) ([]byte, error)
}

// UniversalEncoder compresses uncompressed 8-bit RGBA planes into a
// universal intermediate payload that the matching Transcoder can later
// turn into concrete block formats without the source pixels.
type UniversalEncoder interface {
	// Model returns the color model tag identifying the intermediate
	// encoding in the format descriptor.
	Model() format.ColorModel

	// EncodePlane encodes one plane of width x height RGBA8 texels.
	EncodePlane(rgba []byte, width, height int, params BasisParams) ([]byte, error)
}

// Transcoder converts a universal plane payload into a concrete block
// format at load time.
type Transcoder interface {
	// TargetFormat maps a transcode target to the concrete format tag it
	// produces, honoring the sRGB-ness of the source. Returns
	// ErrUnsupportedTargetFormat when the encoding has no path to target.
	TargetFormat(target format.TranscodeTarget, srgb bool) (format.Format, error)

	// TranscodePlane produces target-format data for one plane.
	TranscodePlane(payload []byte, width, height int, target format.TranscodeTarget, flags format.TranscodeFlags) ([]byte, error)
}

// Strategy tables, populated once at process start. Register replacements
// before issuing container operations; the tables are not synchronized.
var (
	blockEncoders = map[format.ColorModel]BlockEncoder{
		format.ModelASTC: astcEncoder{},
	}
	universalEncoders = map[format.ColorModel]UniversalEncoder{
		format.ModelETC1S: etc1sEncoder{},
	}
	transcoders = map[format.ColorModel]Transcoder{
		format.ModelETC1S: etc1sTranscoder{},
	}
)

// BlockEncoderFor returns the block encoder registered for the color model.
func BlockEncoderFor(model format.ColorModel) (BlockEncoder, error) {
	if e, ok := blockEncoders[model]; ok {
		return e, nil
	}

	return nil, fmt.Errorf("no block encoder for %s: %w", model, errs.ErrUnsupportedFormat)
}

// UniversalEncoderFor returns the universal encoder registered for the model.
func UniversalEncoderFor(model format.ColorModel) (UniversalEncoder, error) {
	if e, ok := universalEncoders[model]; ok {
		return e, nil
	}

	return nil, fmt.Errorf("no universal encoder for %s: %w", model, errs.ErrUnsupportedFormat)
}

// TranscoderFor returns the transcoder registered for the color model.
func TranscoderFor(model format.ColorModel) (Transcoder, error) {
	if t, ok := transcoders[model]; ok {
		return t, nil
	}

	return nil, fmt.Errorf("no transcoder for %s: %w", model, errs.ErrUnsupportedFormat)
}

// RegisterBlockEncoder replaces the block encoder for a color model.
// Intended for wiring external encoders at process start.
func RegisterBlockEncoder(model format.ColorModel, e BlockEncoder) {
	blockEncoders[model] = e
}

// RegisterUniversalEncoder replaces the universal encoder for a color model.
func RegisterUniversalEncoder(model format.ColorModel, e UniversalEncoder) {
	universalEncoders[model] = e
}

// RegisterTranscoder replaces the transcoder for a color model.
func RegisterTranscoder(model format.ColorModel, t Transcoder) {
	transcoders[model] = t
}
