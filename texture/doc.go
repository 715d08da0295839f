// Package texture implements the texture container core: the in-memory
// container model, the compression and supercompression operations, the
// transcoder entry point, and the container file reader and writer.
//
// A Texture owns an ordered sequence of mip levels; each level owns one
// image plane per (layer, face) pair. Level, layer, and face counts are
// fixed at creation and consistent across all levels.
//
// Mutating operations are all-or-nothing: they encode into working
// buffers and commit with a single swap, so a failure partway through a
// multi-level loop leaves the container exactly as it was before the
// call.
//
// A Texture is a mutable value owned by one caller context at a time.
// Operations on a single Texture are not safe for concurrent use and must
// be serialized by the caller; distinct Textures may be processed fully in
// parallel.
package texture
