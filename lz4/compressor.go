package lz4

import (
	"errors"
	"fmt"
)

// HistorySize is the number of bytes preceding a block that matches may
// reference.
const HistorySize = 65536

// maxWindowSize bounds the window a Compressor can index: the largest
// block plus the history in front of it.
const maxWindowSize = 8<<20 + HistorySize

// CompressorConfig holds the parameters for a Compressor.
type CompressorConfig struct {
	// MaxWindowSize is the largest window, history included, that Shrink
	// will be called with. Default: 4 MiB plus HistorySize.
	MaxWindowSize int

	// FavorDecSpeed trades a little compression ratio for faster
	// decompression: the parser weighs commands more heavily and keeps
	// match lengths on the decoder's fast path.
	FavorDecSpeed bool

	// Raw appends the two-byte end marker of raw blocks after the final
	// literals.
	Raw bool
}

// ApplyDefaults replaces zero values by defaults.
func (cfg *CompressorConfig) ApplyDefaults() {
	if cfg.MaxWindowSize == 0 {
		cfg.MaxWindowSize = 4<<20 + HistorySize
	}
}

// Verify checks the configuration.
func (cfg *CompressorConfig) Verify() error {
	if cfg == nil {
		return errors.New("lz4: compressor configuration is nil")
	}
	if !(1 <= cfg.MaxWindowSize && cfg.MaxWindowSize <= maxWindowSize) {
		return fmt.Errorf("lz4: MaxWindowSize out of range [1,%d]",
			maxWindowSize)
	}
	return nil
}

// Compressor compresses blocks of data. The buffers are sized for the
// configured maximum window at construction and reused for every block;
// a Compressor must not be used concurrently.
type Compressor struct {
	intervals     []uint64
	posData       []uint64
	openIntervals []uint64
	match         []match

	cost  []int32
	score []int32

	// suffix sorting scratch
	sa   []int32
	rank []int32
	tmp  []int32
	cnt  []int32

	favorDecSpeed bool
	raw           bool
	numCommands   int
}

// NewCompressor creates a Compressor for the given configuration.
func NewCompressor(cfg CompressorConfig) (*Compressor, error) {
	cfg.ApplyDefaults()
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	n := cfg.MaxWindowSize
	cntSize := n + 1
	if cntSize < 256 {
		cntSize = 256
	}
	z := &Compressor{
		intervals:     make([]uint64, n),
		posData:       make([]uint64, n),
		openIntervals: make([]uint64, lcpMax+1),
		match:         make([]match, n),
		cost:          make([]int32, n),
		score:         make([]int32, n),
		sa:            make([]int32, n),
		rank:          make([]int32, n),
		tmp:           make([]int32, n),
		cnt:           make([]int32, cntSize),
		favorDecSpeed: cfg.FavorDecSpeed,
		raw:           cfg.Raw,
	}
	return z, nil
}

// Shrink compresses one block. The window holds prevLen bytes of already
// processed history followed by the bytes to compress; matches may reach
// back into the history but no command starts there. The compressed
// block is written to dst; len(dst) limits the output size.
//
// Shrink returns ErrIncompressible if the block does not fit into dst.
func (z *Compressor) Shrink(dst []byte, window []byte, prevLen int) (n int, err error) {
	if len(window) > len(z.intervals) {
		return 0, fmt.Errorf("lz4: window larger than the configured "+
			"maximum %d", len(z.intervals))
	}
	if !(0 <= prevLen && prevLen < len(window)) {
		return 0, errors.New("lz4: history size out of range")
	}

	z.buildIndex(window)
	if prevLen > 0 {
		z.skipMatches(0, prevLen)
	}
	z.findAllMatches(prevLen, len(window))
	z.optimizeMatches(prevLen, len(window))
	z.reduceCommandCount(window, prevLen, len(window))
	return z.writeBlock(dst, window, prevLen, len(window))
}

// CommandCount returns the number of commands issued in all blocks
// compressed so far.
func (z *Compressor) CommandCount() int {
	return z.numCommands
}
