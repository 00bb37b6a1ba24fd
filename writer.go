package lz4ultra

import (
	"errors"
	"fmt"
	"io"

	"github.com/ulikunitz/lz4ultra/lz4"
)

// WriterConfig describes the parameters for compression.
type WriterConfig struct {
	// BlockSizeCode selects the maximum block size; see MinBlockSizeCode
	// and MaxBlockSizeCode. Default: MaxBlockSizeCode (4 MiB blocks).
	// When the whole input is shorter than the selected block size, the
	// code is lowered while the next smaller block size is still larger
	// than the input; an input exactly as long as a smaller block size is
	// written with the next larger code.
	BlockSizeCode int

	// IndependentBlocks compresses every block on its own; no matches
	// reach back into the previous block.
	IndependentBlocks bool

	// Legacy writes the legacy frame format: 8 MiB independent blocks,
	// no terminator. BlockSizeCode is ignored.
	Legacy bool

	// Raw writes a single block without any framing, terminated by a
	// two-byte zero end marker. The input must fit into one block.
	Raw bool

	// FavorDecSpeed trades a little compression ratio for faster
	// decompression.
	FavorDecSpeed bool

	// Dictionary provides bytes that seed the history before the first
	// block. Only the last 64 KiB are used. With independent blocks the
	// dictionary seeds every block.
	Dictionary []byte

	// Start is called once the effective block size code is known and
	// compression is about to begin. May be nil.
	Start func(blockSizeCode int, independent bool)

	// Progress is called after each compressed block. May be nil.
	Progress func(originalSize, compressedSize int64)
}

// ApplyDefaults replaces zero values by their defaults.
func (cfg *WriterConfig) ApplyDefaults() {
	if cfg.BlockSizeCode == 0 {
		cfg.BlockSizeCode = MaxBlockSizeCode
	}
	if cfg.Legacy {
		cfg.IndependentBlocks = true
	}
	if len(cfg.Dictionary) > lz4.HistorySize {
		cfg.Dictionary = cfg.Dictionary[len(cfg.Dictionary)-lz4.HistorySize:]
	}
}

// Verify checks the configuration for errors.
func (cfg *WriterConfig) Verify() error {
	if cfg == nil {
		return errors.New("lz4ultra: writer configuration is nil")
	}
	if !(MinBlockSizeCode <= cfg.BlockSizeCode &&
		cfg.BlockSizeCode <= MaxBlockSizeCode) {
		return fmt.Errorf("lz4ultra: block size code out of range [%d,%d]",
			MinBlockSizeCode, MaxBlockSizeCode)
	}
	return nil
}

// Stats reports the byte counts of a compression or decompression
// operation and the number of commands issued into compressed blocks.
type Stats struct {
	OriginalSize   int64
	CompressedSize int64
	Commands       int
}

var errWriterClosed = errors.New("lz4ultra: writer is already closed")

// Writer is an io.WriteCloser that compresses everything written to it.
// Close must be called to flush the last block and write the stream
// terminator.
type Writer struct {
	w   io.Writer
	cfg WriterConfig

	comp         *lz4.Compressor
	inData       []byte
	outData      []byte
	blockMaxSize int

	n         int // bytes buffered for the current block
	prevSize  int
	dict      []byte
	numBlocks int
	started   bool
	closed    bool
	err       error
	st        Stats
}

// NewWriter creates a Writer with the default configuration.
func NewWriter(w io.Writer) (*Writer, error) {
	return NewWriterConfig(w, WriterConfig{})
}

// NewWriterConfig creates a Writer for the given configuration.
func NewWriterConfig(w io.Writer, cfg WriterConfig) (*Writer, error) {
	cfg.ApplyDefaults()
	if err := cfg.Verify(); err != nil {
		return nil, err
	}

	blockMaxSize := blockSize(cfg.BlockSizeCode)
	if cfg.Legacy {
		blockMaxSize = legacyBlockSize
	}
	outSize := blockMaxSize
	if cfg.Legacy {
		// Legacy frames cannot mark stored blocks, so blocks are always
		// written compressed, even if that expands them slightly.
		outSize = blockMaxSize + blockMaxSize/255 + 16
	}

	z := &Writer{
		w:            w,
		cfg:          cfg,
		inData:       make([]byte, lz4.HistorySize+blockMaxSize),
		outData:      make([]byte, outSize),
		blockMaxSize: blockMaxSize,
		dict:         cfg.Dictionary,
	}
	return z, nil
}

// start settles the block size code, creates the block compressor and
// writes the stream header. With final set, no further input will
// arrive and the code shrinks by the rule described at
// WriterConfig.BlockSizeCode, applied to the buffered data.
func (z *Writer) start(final bool) error {
	if z.started {
		return nil
	}
	z.started = true

	if final && !z.cfg.Legacy && z.n < z.blockMaxSize {
		for z.cfg.BlockSizeCode > MinBlockSizeCode &&
			blockSize(z.cfg.BlockSizeCode-1) > z.n {
			z.cfg.BlockSizeCode--
		}
		z.blockMaxSize = blockSize(z.cfg.BlockSizeCode)
	}

	comp, err := lz4.NewCompressor(lz4.CompressorConfig{
		MaxWindowSize: lz4.HistorySize + z.blockMaxSize,
		FavorDecSpeed: z.cfg.FavorDecSpeed,
		Raw:           z.cfg.Raw,
	})
	if err != nil {
		return err
	}
	z.comp = comp

	if !z.cfg.Raw {
		var frame [maxHeaderSize]byte
		n := encodeHeader(frame[:], z.cfg.BlockSizeCode,
			z.cfg.IndependentBlocks, z.cfg.Legacy)
		if err = writeFull(z.w, frame[:n]); err != nil {
			return err
		}
		z.st.CompressedSize += int64(n)
	}
	if z.cfg.Start != nil {
		z.cfg.Start(z.cfg.BlockSizeCode, z.cfg.IndependentBlocks)
	}
	return nil
}

// emitBlock compresses and writes the buffered block.
func (z *Writer) emitBlock() error {
	if err := z.start(false); err != nil {
		return err
	}
	if z.cfg.Raw && z.numBlocks > 0 {
		return ErrRawTooLarge
	}

	if z.prevSize == 0 && len(z.dict) > 0 {
		copy(z.inData[lz4.HistorySize-len(z.dict):lz4.HistorySize], z.dict)
		z.prevSize = len(z.dict)
	}
	if !z.cfg.IndependentBlocks {
		// Dependent blocks carry their own history from now on.
		z.dict = nil
	}

	window := z.inData[lz4.HistorySize-z.prevSize : lz4.HistorySize+z.n]
	budget := z.n
	if z.n >= z.blockMaxSize {
		budget = z.blockMaxSize
	}
	if z.cfg.Legacy {
		budget = len(z.outData)
	}

	var frame [blockPrefixSize]byte
	n, serr := z.comp.Shrink(z.outData[:budget], window, z.prevSize)
	switch {
	case serr == nil:
		if !z.cfg.Raw {
			encodeBlockPrefix(frame[:], n, false)
			if err := writeFull(z.w, frame[:]); err != nil {
				return err
			}
			z.st.CompressedSize += blockPrefixSize
		}
		if err := writeFull(z.w, z.outData[:n]); err != nil {
			return err
		}
		z.st.OriginalSize += int64(z.n)
		z.st.CompressedSize += int64(n)
	case errors.Is(serr, lz4.ErrIncompressible):
		// Store the block uncompressed.
		if z.cfg.Raw {
			return ErrRawIncompressible
		}
		encodeBlockPrefix(frame[:], z.n, true)
		if err := writeFull(z.w, frame[:]); err != nil {
			return err
		}
		if err := writeFull(z.w,
			z.inData[lz4.HistorySize:lz4.HistorySize+z.n]); err != nil {
			return err
		}
		z.st.OriginalSize += int64(z.n)
		z.st.CompressedSize += blockPrefixSize + int64(z.n)
	default:
		return fmt.Errorf("%w: %v", ErrCompression, serr)
	}

	// Keep the tail of the block as history for the next one.
	if z.cfg.IndependentBlocks {
		z.prevSize = 0
	} else {
		z.prevSize = z.n
		if z.prevSize > lz4.HistorySize {
			z.prevSize = lz4.HistorySize
		}
		copy(z.inData[lz4.HistorySize-z.prevSize:lz4.HistorySize],
			z.inData[lz4.HistorySize+z.n-z.prevSize:lz4.HistorySize+z.n])
	}
	z.numBlocks++
	z.n = 0

	if z.cfg.Progress != nil {
		z.cfg.Progress(z.st.OriginalSize, z.st.CompressedSize)
	}
	return nil
}

// Write implements io.Writer.
func (z *Writer) Write(p []byte) (n int, err error) {
	if z.err != nil {
		return 0, z.err
	}
	if z.closed {
		return 0, errWriterClosed
	}
	for len(p) > 0 {
		k := copy(z.inData[lz4.HistorySize+z.n:lz4.HistorySize+z.blockMaxSize], p)
		z.n += k
		n += k
		p = p[k:]
		if z.n == z.blockMaxSize {
			if err = z.emitBlock(); err != nil {
				z.err = err
				return n, err
			}
		}
	}
	return n, nil
}

// Close flushes the remaining data and terminates the stream.
func (z *Writer) Close() error {
	if z.err != nil {
		return z.err
	}
	if z.closed {
		return errWriterClosed
	}
	z.closed = true

	if err := z.start(true); err != nil {
		z.err = err
		return err
	}
	if z.n > 0 {
		if err := z.emitBlock(); err != nil {
			z.err = err
			return err
		}
	}

	if !z.cfg.Raw && !z.cfg.Legacy {
		var frame [blockPrefixSize]byte
		putLE32(frame[:], 0)
		if err := writeFull(z.w, frame[:]); err != nil {
			z.err = err
			return err
		}
		z.st.CompressedSize += blockPrefixSize
	}

	if z.cfg.Progress != nil {
		z.cfg.Progress(z.st.OriginalSize, z.st.CompressedSize)
	}
	z.st.Commands = z.comp.CommandCount()
	return nil
}

// Stats returns the byte counts and the command count of the stream.
// The values are complete after Close.
func (z *Writer) Stats() Stats {
	return z.st
}

func writeFull(w io.Writer, p []byte) error {
	n, err := w.Write(p)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSink, err)
	}
	if n != len(p) {
		return fmt.Errorf("%w: %v", ErrSink, io.ErrShortWrite)
	}
	return nil
}

// readBlock fills buf from r. It reports the number of bytes read and
// whether the stream is exhausted.
func readBlock(r io.Reader, buf []byte) (n int, eof bool, err error) {
	n, err = io.ReadFull(r, buf)
	switch err {
	case nil:
		return n, false, nil
	case io.EOF:
		return 0, true, nil
	case io.ErrUnexpectedEOF:
		return n, true, nil
	}
	return n, false, err
}

// CompressStream reads src to its end and writes the compressed stream
// to dst.
func CompressStream(dst io.Writer, src io.Reader, cfg WriterConfig) (Stats, error) {
	z, err := NewWriterConfig(dst, cfg)
	if err != nil {
		return Stats{}, err
	}

	buf := make([]byte, 32<<10)
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			if _, werr := z.Write(buf[:n]); werr != nil {
				return z.Stats(), werr
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return z.Stats(), fmt.Errorf("%w: %v", ErrSource, rerr)
		}
	}
	if err = z.Close(); err != nil {
		return z.Stats(), err
	}
	return z.Stats(), nil
}
