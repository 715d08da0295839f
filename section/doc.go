// Package section implements the on-disk sections of the texture container
// file: the fixed header, the level index table, the format descriptor
// block, and the key/value data block.
//
// Each section type provides a Parse/Bytes pair operating on raw byte
// slices. All sections are little-endian on disk; serializers take an
// endian.EndianEngine so parsing and writing stay symmetric.
//
// File layout:
//
//	identifier (12 bytes)
//	fixed header (vkFormat .. supercompression scheme, section index)
//	level index (levelCount x 24-byte entries)
//	format descriptor block
//	key/value data block
//	level payloads at the offsets declared in the level index
package section
