// Package filter implements the chunk filter pipeline used by persistent
// container backends.
//
// A chunk is passed through each filter in order when it is stored and in
// reverse order when it is loaded. Each stored chunk carries a filter mask:
// if bit i is set, filter i was skipped for that chunk and is skipped again
// on decode. Compression filters are skipped when they do not shrink the
// chunk.
//
// # Supported Filters
//
//   - DEFLATE (ID 1): zlib compression via [Deflate].
//   - Fletcher32 (ID 3): a trailing Fletcher-32 checksum via [Fletcher32].
//   - Zstandard (ID 32015): zstd compression via [Zstd].
//
// The IDs follow the registered HDF5 filter identifiers so that a chunk's
// filter list reads the same as an HDF5 filter pipeline message.
package filter
