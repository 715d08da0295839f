// Package encoder implements the pluggable compression strategies invoked
// by the container core: the block-compression family (ASTC), the
// universal/transcodable family (ETC1S-like), and the transcoder that
// turns universal payloads into concrete block formats.
//
// Strategies are selected through a closed registry keyed by color model,
// populated at process start. The built-in encoders are the minimal valid
// members of their families: the ASTC encoder emits bit-exact void-extent
// blocks, the universal encoder palettizes 4x4 blocks into endpoint and
// selector streams and LZ-compresses each stream separately. Production
// rate-distortion search belongs to external encoders registered in their
// place.
package encoder
