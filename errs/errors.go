// Package errs defines the sentinel errors shared by all texture container
// operations. Callers match them with errors.Is; operations wrap them with
// additional context via fmt.Errorf and %w.
package errs

import "errors"

var (
	// ErrInvalidParameter reports malformed input: zero dimensions or counts,
	// out-of-range compression level or quality, bad plane indices.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidOperation reports an operation invoked on a container not in
	// the required state, e.g. compressing after supercompression or
	// transcoding data that needs no transcoding.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrUnsupportedFormat reports a container format that cannot be source
	// material for the requested encoder.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrUnsupportedTargetFormat reports a transcode target with no path from
	// the stored universal encoding.
	ErrUnsupportedTargetFormat = errors.New("unsupported target format")

	// ErrAlreadySupercompressed reports a deflate attempt on a container with
	// an active supercompression scheme.
	ErrAlreadySupercompressed = errors.New("already supercompressed")

	// ErrCorruptFile reports a stream whose identifier does not match the
	// container magic.
	ErrCorruptFile = errors.New("corrupt file")

	// ErrTruncatedFile reports declared offsets or lengths exceeding the
	// stream length.
	ErrTruncatedFile = errors.New("truncated file")

	// ErrUnsupportedVersion reports a container version newer or older than
	// this implementation understands.
	ErrUnsupportedVersion = errors.New("unsupported container version")

	// ErrEncoderFailure reports an internal encoder or transcoder error,
	// opaque to the caller.
	ErrEncoderFailure = errors.New("encoder failure")

	// ErrDataNotLoaded reports pixel data access on a container whose image
	// data was never allocated or loaded.
	ErrDataNotLoaded = errors.New("image data not loaded")
)
