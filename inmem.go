package lz4ultra

import (
	"errors"
	"fmt"

	"github.com/ulikunitz/lz4ultra/lz4"
)

var errDictionaryInmem = errors.New(
	"lz4ultra: dictionaries are not supported by the in-memory functions")

// effectiveBlockSize returns the block size code and block size the
// stream for an input of n bytes will use.
func effectiveBlockSize(n int, cfg *WriterConfig) (code, size int) {
	if cfg.Legacy {
		return cfg.BlockSizeCode, legacyBlockSize
	}
	code = cfg.BlockSizeCode
	size = blockSize(code)
	if n < size {
		for code > MinBlockSizeCode && blockSize(code-1) > n {
			code--
		}
		size = blockSize(code)
	}
	return code, size
}

// MaxCompressedSize returns the size of an output buffer that is
// guaranteed to hold the compressed form of any input of n bytes under
// the given configuration.
func MaxCompressedSize(n int, cfg WriterConfig) int {
	cfg.ApplyDefaults()
	_, bm := effectiveBlockSize(n, &cfg)
	numBlocks := (n + bm - 1) / bm
	size := maxHeaderSize + numBlocks*blockPrefixSize + n + blockPrefixSize
	if cfg.Legacy {
		// Legacy blocks are always compressed; a block of literals needs
		// a token and extra length bytes on top of its data.
		size += n/255 + 2*numBlocks
	}
	return size
}

// Compress compresses src into dst and returns the number of bytes
// written. Use MaxCompressedSize to size dst. The Start and Progress
// fields of the configuration are ignored by the in-memory functions;
// Compress fails if a dictionary is set.
func Compress(dst, src []byte, cfg WriterConfig) (int, error) {
	cfg.ApplyDefaults()
	if err := cfg.Verify(); err != nil {
		return 0, err
	}
	if len(cfg.Dictionary) > 0 {
		return 0, errDictionaryInmem
	}

	code, blockMaxSize := effectiveBlockSize(len(src), &cfg)
	cfg.BlockSizeCode = code

	comp, err := lz4.NewCompressor(lz4.CompressorConfig{
		MaxWindowSize: lz4.HistorySize + blockMaxSize,
		FavorDecSpeed: cfg.FavorDecSpeed,
		Raw:           cfg.Raw,
	})
	if err != nil {
		return 0, err
	}

	pos := 0
	if !cfg.Raw {
		if len(dst) < maxHeaderSize {
			return 0, fmt.Errorf("%w: output buffer too small", ErrSink)
		}
		pos += encodeHeader(dst[pos:], cfg.BlockSizeCode,
			cfg.IndependentBlocks, cfg.Legacy)
	}

	prefixLen := blockPrefixSize
	if cfg.Raw {
		prefixLen = 0
	}

	orig := 0
	prevSize := 0
	numBlocks := 0

	for orig < len(src) {
		inSize := len(src) - orig
		if inSize > blockMaxSize {
			inSize = blockMaxSize
		}
		if cfg.Raw && numBlocks > 0 {
			return 0, ErrRawTooLarge
		}

		// Reserve room for this block's prefix and the terminator.
		avail := len(dst) - pos - prefixLen - blockPrefixSize
		if avail < 0 {
			return 0, fmt.Errorf("%w: output buffer too small", ErrSink)
		}
		if !cfg.Legacy && avail > blockMaxSize {
			avail = blockMaxSize
		}
		if avail > inSize && !cfg.Legacy {
			avail = inSize
		}

		window := src[orig-prevSize : orig+inSize]
		n, serr := comp.Shrink(dst[pos+prefixLen:pos+prefixLen+avail],
			window, prevSize)
		switch {
		case serr == nil:
			if !cfg.Raw {
				encodeBlockPrefix(dst[pos:pos+blockPrefixSize], n, false)
			}
			pos += prefixLen + n
		case errors.Is(serr, lz4.ErrIncompressible):
			if cfg.Raw {
				return 0, ErrRawIncompressible
			}
			if cfg.Legacy {
				return 0, fmt.Errorf("%w: output buffer too small", ErrSink)
			}
			if len(dst)-pos-prefixLen-blockPrefixSize < inSize {
				return 0, fmt.Errorf("%w: output buffer too small", ErrSink)
			}
			encodeBlockPrefix(dst[pos:pos+blockPrefixSize], inSize, true)
			copy(dst[pos+prefixLen:], src[orig:orig+inSize])
			pos += prefixLen + inSize
		default:
			return 0, fmt.Errorf("%w: %v", ErrCompression, serr)
		}

		if cfg.IndependentBlocks {
			prevSize = 0
		} else {
			prevSize = inSize
			if prevSize > lz4.HistorySize {
				prevSize = lz4.HistorySize
			}
		}
		orig += inSize
		numBlocks++
	}

	if !cfg.Raw && !cfg.Legacy {
		if len(dst)-pos < blockPrefixSize {
			return 0, fmt.Errorf("%w: output buffer too small", ErrSink)
		}
		putLE32(dst[pos:], 0)
		pos += blockPrefixSize
	}
	return pos, nil
}

// Decompress decompresses src into dst and returns the number of bytes
// written. The configuration must match the stream: Raw streams carry no
// self-describing header. Decompress fails if a dictionary is set.
func Decompress(dst, src []byte, cfg ReaderConfig) (int, error) {
	cfg.ApplyDefaults()
	if err := cfg.Verify(); err != nil {
		return 0, err
	}
	if len(cfg.Dictionary) > 0 {
		return 0, errDictionaryInmem
	}

	legacy := false
	blockSizeCode := MaxBlockSizeCode
	pos := 0

	if !cfg.Raw {
		if len(src) < headerSize {
			return 0, ErrFormat
		}
		extra, isLegacy, err := checkHeader(src[:headerSize])
		if err != nil {
			return 0, err
		}
		legacy = isLegacy
		if extra > 0 {
			if len(src) < headerSize+extra {
				return 0, ErrFormat
			}
			// Block dependence needs no special handling here: the
			// history of every block is already present in dst.
			blockSizeCode, _, err = decodeHeader(src[:headerSize+extra])
			if err != nil {
				return 0, err
			}
		}
		pos = headerSize + extra
	}

	blockMaxSize := blockSize(blockSizeCode)
	if legacy {
		blockMaxSize = legacyBlockSize
	}

	dpos := 0
	if cfg.Raw {
		if len(src) < 2 {
			return 0, ErrFormat
		}
		limit := dpos + blockMaxSize
		if limit > len(dst) {
			limit = len(dst)
		}
		n, err := lz4.ExpandBlock(dst[:limit], src[:len(src)-2], dpos)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrDecompression, err)
		}
		return n, nil
	}

	for {
		if len(src)-pos < blockPrefixSize {
			if legacy {
				// Legacy streams end without a terminator.
				break
			}
			return 0, ErrFormat
		}
		blockLen, uncompressed := decodeBlockPrefix(
			src[pos:pos+blockPrefixSize], legacy)
		pos += blockPrefixSize
		if blockLen == 0 {
			break
		}
		if blockLen < 0 || len(src)-pos < blockLen {
			return 0, ErrFormat
		}

		if uncompressed {
			if blockLen > blockMaxSize || len(dst)-dpos < blockLen {
				return 0, ErrFormat
			}
			copy(dst[dpos:], src[pos:pos+blockLen])
			dpos += blockLen
		} else {
			limit := dpos + blockMaxSize
			if limit > len(dst) {
				limit = len(dst)
			}
			n, err := lz4.ExpandBlock(dst[:limit], src[pos:pos+blockLen], dpos)
			if err != nil {
				return 0, fmt.Errorf("%w: %v", ErrDecompression, err)
			}
			dpos += n
		}
		pos += blockLen
	}

	return dpos, nil
}
