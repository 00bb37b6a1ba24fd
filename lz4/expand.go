package lz4

import "errors"

// ErrCorrupted reports malformed compressed data.
var ErrCorrupted = errors.New("lz4: compressed data is corrupted")

// ExpandBlock decompresses a single block. This decoder verifies the
// compressor output; it checks every access and is not tuned for speed.
//
// dst[:off] holds previously decompressed bytes, which matches may
// reference; the block is decompressed into dst[off:] and its length
// returned. ExpandBlock never writes outside dst.
func ExpandBlock(dst []byte, src []byte, off int) (n int, err error) {
	p := 0
	d := off

	for p < len(src) {
		token := src[p]
		p++

		lits := int(token >> 4)
		if lits == literalsRunLen {
			for {
				if p >= len(src) {
					return 0, ErrCorrupted
				}
				b := src[p]
				p++
				lits += int(b)
				if b != 255 {
					break
				}
			}
		}
		if p+lits > len(src) || d+lits > len(dst) {
			return 0, ErrCorrupted
		}
		copy(dst[d:], src[p:p+lits])
		p += lits
		d += lits

		if p == len(src) {
			// The final command carries no match.
			break
		}
		if p+2 > len(src) {
			return 0, ErrCorrupted
		}
		matchOffset := int(src[p]) | int(src[p+1])<<8
		p += 2

		matchLen := int(token&0x0f) + MinMatch
		if matchLen == matchRunLen+MinMatch {
			for {
				if p >= len(src) {
					return 0, ErrCorrupted
				}
				b := src[p]
				p++
				matchLen += int(b)
				if b != 255 {
					break
				}
			}
		}

		if matchOffset < minOffset || d-matchOffset < 0 {
			return 0, ErrCorrupted
		}
		if d+matchLen > len(dst) {
			return 0, ErrCorrupted
		}
		// Byte-wise copy; source and destination overlap for offsets
		// smaller than the match length.
		s := d - matchOffset
		for j := 0; j < matchLen; j++ {
			dst[d+j] = dst[s+j]
		}
		d += matchLen
	}

	return d - off, nil
}
