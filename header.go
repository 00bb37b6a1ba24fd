package lz4ultra

import (
	"github.com/OneOfOne/xxhash"
)

// Block size codes select the maximum uncompressed block size of a
// stream: 4 through 7 select 64 KiB, 256 KiB, 1 MiB and 4 MiB blocks.
const (
	MinBlockSizeCode = 4
	MaxBlockSizeCode = 7
)

const (
	headerSize      = 4
	maxHeaderSize   = 7
	blockPrefixSize = 4

	// legacyBlockSize is the implicit block size of legacy frames.
	legacyBlockSize = 8 << 20
)

// Frame magic numbers as they appear on the wire.
var (
	frameMagic       = []byte{0x04, 0x22, 0x4d, 0x18}
	legacyFrameMagic = []byte{0x02, 0x21, 0x4c, 0x18}
)

// blockSize returns the block size selected by a block size code.
func blockSize(code int) int {
	return 1 << (8 + 2*code)
}

func le32(p []byte) uint32 {
	return uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16 |
		uint32(p[3])<<24
}

func putLE32(p []byte, v uint32) {
	p[0] = byte(v)
	p[1] = byte(v >> 8)
	p[2] = byte(v >> 16)
	p[3] = byte(v >> 24)
}

// encodeHeader writes the stream header into p and returns its size. The
// modern header carries the version bits, the block independence flag,
// the block size code and a checksum byte derived from the XXH32 hash of
// the two preceding bytes. The legacy header is the magic number alone.
func encodeHeader(p []byte, blockSizeCode int, independent, legacy bool) int {
	if legacy {
		copy(p, legacyFrameMagic)
		return headerSize
	}
	copy(p, frameMagic)
	p[4] = 0x40
	if independent {
		p[4] |= 0x20
	}
	p[5] = byte(blockSizeCode) << 4
	p[6] = byte(xxhash.Checksum32(p[4:6]) >> 8)
	return maxHeaderSize
}

// checkHeader inspects the first four header bytes and returns the
// number of additional header bytes to read, and whether the stream uses
// the legacy frame format.
func checkHeader(p []byte) (extra int, legacy bool, err error) {
	if len(p) < headerSize {
		return 0, false, ErrFormat
	}
	switch {
	case p[0] == frameMagic[0] && p[1] == frameMagic[1] &&
		p[2] == frameMagic[2] && p[3] == frameMagic[3]:
		return maxHeaderSize - headerSize, false, nil
	case p[0] == legacyFrameMagic[0] && p[1] == legacyFrameMagic[1] &&
		p[2] == legacyFrameMagic[2] && p[3] == legacyFrameMagic[3]:
		return 0, true, nil
	}
	return 0, false, ErrFormat
}

// decodeHeader decodes a complete modern stream header.
func decodeHeader(p []byte) (blockSizeCode int, independent bool, err error) {
	if len(p) != maxHeaderSize {
		return 0, false, ErrFormat
	}
	if p[4]&0xc0 != 0x40 || p[5]&0x0f != 0 {
		return 0, false, ErrFormat
	}
	if byte(xxhash.Checksum32(p[4:6])>>8) != p[6] {
		return 0, false, ErrHeaderChecksum
	}
	blockSizeCode = int(p[5] >> 4)
	if !(MinBlockSizeCode <= blockSizeCode &&
		blockSizeCode <= MaxBlockSizeCode) {
		return 0, false, ErrFormat
	}
	return blockSizeCode, p[4]&0x20 != 0, nil
}

// encodeBlockPrefix writes the four-byte prefix of a block: the low 31
// bits hold the data size, the high bit marks a stored block. Legacy
// frames use the size alone.
func encodeBlockPrefix(p []byte, size int, uncompressed bool) {
	v := uint32(size)
	if uncompressed {
		v |= 1 << 31
	}
	putLE32(p, v)
}

// decodeBlockPrefix decodes the four-byte prefix of a block. For legacy
// frames the whole word is the size and blocks are always compressed.
func decodeBlockPrefix(p []byte, legacy bool) (size int, uncompressed bool) {
	v := le32(p)
	if legacy {
		return int(v), false
	}
	return int(v &^ (1 << 31)), v&(1<<31) != 0
}
