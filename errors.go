package lz4ultra

import "errors"

// Errors reported by the compression and decompression operations.
// I/O failures at the stream boundaries are wrapped into ErrSource and
// ErrSink; the underlying error's message is appended to the error text,
// and errors.Unwrap yields the sentinel.
var (
	// ErrSource reports a read error on the input stream.
	ErrSource = errors.New("lz4ultra: error reading source")
	// ErrSink reports a write error on the output stream, or an output
	// buffer that is too small.
	ErrSink = errors.New("lz4ultra: error writing destination")
	// ErrDictionary reports that the dictionary could not be read.
	ErrDictionary = errors.New("lz4ultra: error reading dictionary")
	// ErrCompression reports an internal compressor error. It indicates
	// a bug, not bad input.
	ErrCompression = errors.New("lz4ultra: internal compression error")
	// ErrRawTooLarge reports input that does not fit into a single raw
	// block.
	ErrRawTooLarge = errors.New("lz4ultra: input too large for a raw block")
	// ErrRawIncompressible reports incompressible input in raw-block
	// mode, which has no way to store data uncompressed.
	ErrRawIncompressible = errors.New(
		"lz4ultra: incompressible data cannot be stored in a raw block")
	// ErrFormat reports an invalid magic number, version, flags or block
	// size while decoding.
	ErrFormat = errors.New("lz4ultra: invalid stream format")
	// ErrHeaderChecksum reports a stream header whose checksum byte does
	// not match its contents.
	ErrHeaderChecksum = errors.New("lz4ultra: invalid header checksum")
	// ErrDecompression reports corrupted compressed block data.
	ErrDecompression = errors.New("lz4ultra: invalid compressed data")
)
