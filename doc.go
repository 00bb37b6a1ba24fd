// Package lz4ultra provides an optimal compressor for the LZ4 format.
//
// The compressor spends considerably more time than LZ4-HC to find a
// command sequence of minimal size and, secondarily, minimal command
// count, so the streams it writes decompress faster with any stock LZ4
// decoder. Streams use the LZ4 frame format, the legacy frame format or
// single headerless raw blocks.
//
// The package offers a Writer and a Reader for streaming, whole-buffer
// functions and file helpers. The block compressor itself lives in the
// lz4 subpackage.
package lz4ultra
