// Package ktx2 implements a binary texture container with mip levels,
// array layers, and cube faces, GPU-ready block compression, and optional
// lossless supercompression of the stored payloads.
//
// A container holds one texture: a fixed header describing its shape, a
// level index locating each mip level's payload, a self-describing format
// descriptor, optional key/value metadata, and the level payloads
// themselves.
//
// # Core Features
//
//   - Mip chains, array layers, and cube maps in one file
//   - ASTC block compression of uncompressed RGBA8 sources
//   - Universal (Basis-style) compression transcodable to several GPU
//     formats at load time without the source pixels
//   - Zstd and ZLIB supercompression of level payloads
//   - All-or-nothing mutating operations: a failed compress, deflate, or
//     transcode leaves the container untouched
//
// # Basic Usage
//
// Creating, compressing, and writing a texture:
//
//	import "github.com/texturelab/ktx2"
//
//	tex, _ := ktx2.NewTexture(ktx2.CreateInfo{
//	    Format:     format.FormatR8G8B8A8Srgb,
//	    BaseWidth:  256,
//	    BaseHeight: 256,
//	    BaseDepth:  1,
//	    LevelCount: 9,
//	    LayerCount: 1,
//	    FaceCount:  1,
//	}, true)
//
//	for lvl := 0; lvl < 9; lvl++ {
//	    tex.SetImageFromMemory(lvl, 0, 0, pixelsForLevel(lvl))
//	}
//
//	tex.CompressBasis(128)
//	tex.Deflate(format.SchemeZstd, 9)
//	ktx2.WriteFile(tex, "texture.ktx2")
//
// Reading and transcoding at load time:
//
//	tex, _ := ktx2.ReadFile("texture.ktx2")
//	if tex.NeedsTranscoding() {
//	    tex.Transcode(format.TargetBC1RGB, 0)
//	}
//	data, _ := tex.ImageData(0, 0, 0)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the texture
// package, simplifying the most common use cases. For advanced usage and
// fine-grained control, use the texture package directly.
package ktx2

import (
	"fmt"
	"io"
	"os"

	"github.com/texturelab/ktx2/texture"
)

// CreateInfo declares the shape of a new texture container.
// Alias of texture.CreateInfo.
type CreateInfo = texture.CreateInfo

// Texture is the in-memory representation of a texture container.
// Alias of texture.Texture.
type Texture = texture.Texture

// ReadOption configures Read, ReadFile, and Parse.
type ReadOption = texture.ReadOption

// WithoutImageData parses headers, index, descriptor, and metadata only,
// skipping the level payloads. Useful for inspecting files without paying
// for their data.
func WithoutImageData() ReadOption {
	return texture.WithoutImageData()
}

// NewTexture creates a texture container with the declared shape.
//
// With allocateStorage true every image plane is allocated zeroed, ready
// for Texture.SetImageFromMemory. With false the container carries
// headers only.
//
// Example:
//
//	tex, err := ktx2.NewTexture(ktx2.CreateInfo{
//	    Format:     format.FormatR8G8B8A8Unorm,
//	    BaseWidth:  64,
//	    BaseHeight: 64,
//	    BaseDepth:  1,
//	    LevelCount: 7,
//	    LayerCount: 1,
//	    FaceCount:  1,
//	}, true)
func NewTexture(info CreateInfo, allocateStorage bool) (*Texture, error) {
	return texture.Create(info, allocateStorage)
}

// Parse deserializes a texture container from its file bytes.
func Parse(data []byte, opts ...ReadOption) (*Texture, error) {
	return texture.Parse(data, opts...)
}

// Read deserializes a texture container from r.
func Read(r io.Reader, opts ...ReadOption) (*Texture, error) {
	return texture.Read(r, opts...)
}

// ReadFile deserializes a texture container from the file at path.
func ReadFile(path string, opts ...ReadOption) (*Texture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return texture.Parse(data, opts...)
}

// Write serializes the container to w in its file form.
func Write(t *Texture, w io.Writer) error {
	_, err := t.WriteTo(w)
	return err
}

// WriteFile serializes the container to the file at path.
func WriteFile(t *Texture, path string) error {
	data, err := t.Bytes()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}
