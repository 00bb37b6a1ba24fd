package lz4ultra

import (
	"errors"
	"fmt"
	"io"

	"github.com/ulikunitz/lz4ultra/lz4"
)

// ReaderConfig describes the parameters for decompression.
type ReaderConfig struct {
	// Raw expects a single headerless block terminated by a two-byte
	// zero end marker.
	Raw bool

	// Dictionary provides the same dictionary the stream was compressed
	// with. Only the last 64 KiB are used.
	Dictionary []byte
}

// ApplyDefaults replaces zero values by their defaults.
func (cfg *ReaderConfig) ApplyDefaults() {
	if len(cfg.Dictionary) > lz4.HistorySize {
		cfg.Dictionary = cfg.Dictionary[len(cfg.Dictionary)-lz4.HistorySize:]
	}
}

// Verify checks the configuration for errors.
func (cfg *ReaderConfig) Verify() error {
	if cfg == nil {
		return errors.New("lz4ultra: reader configuration is nil")
	}
	return nil
}

// Reader is an io.Reader that decompresses an LZ4 stream. The stream
// header is consumed when the Reader is created.
type Reader struct {
	r   io.Reader
	cfg ReaderConfig

	legacy       bool
	independent  bool
	blockMaxSize int

	inBlock []byte
	outData []byte
	buf     []byte // unread part of the current block

	prevSize  int
	lastSize  int
	dict      []byte
	numBlocks int
	err       error // sticky; io.EOF after the last block
	st        Stats
}

// NewReader creates a Reader with the default configuration.
func NewReader(r io.Reader) (*Reader, error) {
	return NewReaderConfig(r, ReaderConfig{})
}

// NewReaderConfig creates a Reader for the given configuration and
// reads the stream header.
func NewReaderConfig(r io.Reader, cfg ReaderConfig) (*Reader, error) {
	cfg.ApplyDefaults()
	if err := cfg.Verify(); err != nil {
		return nil, err
	}

	z := &Reader{
		r:           r,
		cfg:         cfg,
		independent: true,
		dict:        cfg.Dictionary,
	}
	blockSizeCode := MaxBlockSizeCode

	if !cfg.Raw {
		var hdr [maxHeaderSize]byte
		if _, err := io.ReadFull(r, hdr[:headerSize]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSource, err)
		}
		extra, legacy, err := checkHeader(hdr[:headerSize])
		if err != nil {
			return nil, err
		}
		z.legacy = legacy
		if extra > 0 {
			if _, err = io.ReadFull(r,
				hdr[headerSize:headerSize+extra]); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrSource, err)
			}
			blockSizeCode, z.independent, err = decodeHeader(
				hdr[:headerSize+extra])
			if err != nil {
				return nil, err
			}
		}
		z.st.CompressedSize += int64(headerSize + extra)
	}

	z.blockMaxSize = blockSize(blockSizeCode)
	if z.legacy {
		z.blockMaxSize = legacyBlockSize
	}

	inSize := z.blockMaxSize
	switch {
	case z.legacy:
		// Legacy blocks are always compressed and may exceed the block
		// size slightly on incompressible data.
		inSize = z.blockMaxSize + z.blockMaxSize/255 + 16
	case cfg.Raw:
		// Room for the end marker.
		inSize = z.blockMaxSize + 2
	}
	z.inBlock = make([]byte, inSize)
	z.outData = make([]byte, lz4.HistorySize+z.blockMaxSize)
	return z, nil
}

// nextBlock reads and decompresses the next block and makes it
// available in z.buf. At the end of the stream it sets z.err to io.EOF.
func (z *Reader) nextBlock() error {
	// Slide the previous block's tail in front of the block area, or
	// seed the history from the dictionary.
	if z.prevSize > 0 {
		copy(z.outData[lz4.HistorySize-z.prevSize:lz4.HistorySize],
			z.outData[lz4.HistorySize+z.lastSize-z.prevSize:lz4.HistorySize+z.lastSize])
	} else if len(z.dict) > 0 {
		copy(z.outData[lz4.HistorySize-len(z.dict):lz4.HistorySize], z.dict)
		z.prevSize = len(z.dict)
		if !z.independent {
			z.dict = nil
		}
	}

	var blockLen int
	var uncompressed bool

	if !z.cfg.Raw {
		var pfx [blockPrefixSize]byte
		if _, err := io.ReadFull(z.r, pfx[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				// Legacy streams end without a terminator.
				return io.EOF
			}
			return fmt.Errorf("%w: %v", ErrSource, err)
		}
		z.st.CompressedSize += blockPrefixSize
		blockLen, uncompressed = decodeBlockPrefix(pfx[:], z.legacy)
		if blockLen == 0 {
			// Stream terminator.
			return io.EOF
		}
		if blockLen < 0 || blockLen > len(z.inBlock) {
			return ErrFormat
		}
		if _, err := io.ReadFull(z.r, z.inBlock[:blockLen]); err != nil {
			return fmt.Errorf("%w: %v", ErrSource, err)
		}
		z.st.CompressedSize += int64(blockLen)
	} else {
		if z.numBlocks > 0 {
			return io.EOF
		}
		n, _, err := readBlock(z.r, z.inBlock)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSource, err)
		}
		if n < 2 {
			return ErrFormat
		}
		// The end marker belongs to the compressed stream but not to
		// the block payload.
		z.st.CompressedSize += int64(n)
		blockLen = n - 2
	}

	var decSize int
	if uncompressed {
		if blockLen > z.blockMaxSize {
			return ErrFormat
		}
		copy(z.outData[lz4.HistorySize:], z.inBlock[:blockLen])
		decSize = blockLen
	} else {
		var err error
		decSize, err = lz4.ExpandBlock(
			z.outData[:lz4.HistorySize+z.blockMaxSize],
			z.inBlock[:blockLen], lz4.HistorySize)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrDecompression, err)
		}
	}

	z.buf = z.outData[lz4.HistorySize : lz4.HistorySize+decSize]
	z.st.OriginalSize += int64(decSize)
	if z.independent {
		z.prevSize = 0
	} else {
		z.prevSize = decSize
		if z.prevSize > lz4.HistorySize {
			z.prevSize = lz4.HistorySize
		}
	}
	z.lastSize = decSize
	z.numBlocks++
	return nil
}

// Read implements io.Reader.
func (z *Reader) Read(p []byte) (n int, err error) {
	for len(z.buf) == 0 {
		if z.err != nil {
			return 0, z.err
		}
		if err = z.nextBlock(); err != nil {
			z.err = err
			return 0, err
		}
	}
	n = copy(p, z.buf)
	z.buf = z.buf[n:]
	return n, nil
}

// Stats returns the byte counts of the stream so far.
func (z *Reader) Stats() Stats {
	return z.st
}

// DecompressStream reads the compressed stream from src and writes the
// decompressed data to dst.
func DecompressStream(dst io.Writer, src io.Reader, cfg ReaderConfig) (Stats, error) {
	z, err := NewReaderConfig(src, cfg)
	if err != nil {
		return Stats{}, err
	}

	buf := make([]byte, 32<<10)
	for {
		n, rerr := z.Read(buf)
		if n > 0 {
			if werr := writeFull(dst, buf[:n]); werr != nil {
				return z.Stats(), werr
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return z.Stats(), rerr
		}
	}
	return z.Stats(), nil
}
