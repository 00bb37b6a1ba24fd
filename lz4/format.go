// Package lz4 implements an optimal block compressor for the LZ4 block
// format, together with a decoder used to verify the compressor output.
//
// The compressor selects a command sequence that minimizes the encoded
// size of a block and, as a secondary goal, the number of commands, so
// that the blocks decode faster than greedy or lazy parses of the same
// data. Blocks produced here decompress with any stock LZ4 decoder.
package lz4

// Block format constants.
const (
	// MinMatch is the shortest match the format can encode.
	MinMatch = 4
	// MaxOffset is the largest match offset the format can encode.
	MaxOffset = 65535

	minOffset = 1

	// literalsRunLen is the largest literal run length that fits into the
	// token; longer runs continue in extra length bytes.
	literalsRunLen = 15
	// matchRunLen is the largest encoded match length that fits into the
	// token; longer matches continue in extra length bytes.
	matchRunLen = 15

	// lastLiterals is the number of bytes at the end of a block that must
	// be encoded as literals.
	lastLiterals = 5
	// lastMatchOffset gives the minimum distance from the end of the
	// block at which a match may still start.
	lastMatchOffset = 12
)

// Parser tuning constants.
const (
	// leaveAloneMatchSize is the length from which a match is emitted
	// unshortened; trying all trims of very long matches costs time
	// without changing the result.
	leaveAloneMatchSize = 1000

	// modeSwitchPenalty weighs a literal/match alternation in the cost
	// function.
	modeSwitchPenalty = 1
)

// Packed layout of the interval words: the low lcpShift bits hold a text
// position or interval id, the next lcpBits bits hold the LCP length.
const (
	lcpBits  = 15
	lcpMax   = 1 << (lcpBits - 1)
	lcpShift = 39 - lcpBits
	lcpMask  = ((1 << lcpBits) - 1) << lcpShift
	posMask  = 1<<lcpShift - 1
)

// match describes a single match. A length below MinMatch marks a
// literal position; length -1 marks a position consumed by a joined
// match in front of it.
type match struct {
	length int32
	offset int32
}

// literalsVarlenSize returns the number of extra bits needed to encode a
// literal run of length n.
func literalsVarlenSize(n int) int {
	return (n - literalsRunLen + 255) / 255 << 3
}

// matchVarlenSize returns the number of extra bits needed to encode the
// encoded match length n (actual length - MinMatch).
func matchVarlenSize(n int) int {
	return (n - matchRunLen + 255) / 255 << 3
}

// writeLiteralsVarlen appends the extra length bytes for a literal run of
// length n and returns the new write offset. The caller has checked that
// the bytes fit.
func writeLiteralsVarlen(dst []byte, pos, n int) int {
	if n >= literalsRunLen {
		n -= literalsRunLen
		for n >= 255 {
			dst[pos] = 255
			pos++
			n -= 255
		}
		dst[pos] = byte(n)
		pos++
	}
	return pos
}

// writeMatchVarlen appends the extra length bytes for the encoded match
// length n and returns the new write offset.
func writeMatchVarlen(dst []byte, pos, n int) int {
	if n >= matchRunLen {
		n -= matchRunLen
		for n >= 255 {
			dst[pos] = 255
			pos++
			n -= 255
		}
		dst[pos] = byte(n)
		pos++
	}
	return pos
}
