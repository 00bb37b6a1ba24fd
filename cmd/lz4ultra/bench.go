package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ulikunitz/lz4ultra"
	"github.com/ulikunitz/lz4ultra/internal/xio"
)

// benchPasses is the number of passes a benchmark runs; the fastest one
// is reported.
const benchPasses = 5

// doCompressBench compresses the file repeatedly in memory and reports
// the best speed.
func doCompressBench(path string, cfg lz4ultra.WriterConfig, verbose bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", lz4ultra.ErrSource, err)
	}

	dst := make([]byte, lz4ultra.MaxCompressedSize(len(data), cfg))
	var best time.Duration
	n := 0
	for i := 0; i < benchPasses; i++ {
		start := time.Now()
		n, err = lz4ultra.Compress(dst, data, cfg)
		delta := time.Since(start)
		if err != nil {
			return err
		}
		if best == 0 || delta < best {
			best = delta
		}
		if verbose {
			fmt.Printf("pass %d: %.3g seconds\n", i+1, delta.Seconds())
		}
	}

	speed := float64(len(data)) / 1048576.0 / best.Seconds()
	ratio := float64(0)
	if len(data) > 0 {
		ratio = float64(n) * 100.0 / float64(len(data))
	}
	fmt.Printf("Compressed '%s': %s into %s (%.4g %%), best of %d: "+
		"%.3g seconds, %.3g MiB/s\n",
		path, humanize.IBytes(uint64(len(data))), humanize.IBytes(uint64(n)),
		ratio, benchPasses, best.Seconds(), speed)
	return nil
}

// doDecompressBench decompresses the file repeatedly in memory and
// reports the best speed.
func doDecompressBench(path string, cfg lz4ultra.ReaderConfig, dictPath string, verbose bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", lz4ultra.ErrSource, err)
	}
	dict, err := lz4ultra.LoadDictionary(dictPath)
	if err != nil {
		return err
	}

	// First pass determines the decompressed size.
	cw := &xio.CountWriter{}
	scfg := cfg
	scfg.Dictionary = dict
	if _, err = lz4ultra.DecompressStream(cw, bytes.NewReader(data),
		scfg); err != nil {
		return err
	}

	dst := make([]byte, cw.N)
	var best time.Duration
	n := 0
	for i := 0; i < benchPasses; i++ {
		start := time.Now()
		if dict == nil {
			n, err = lz4ultra.Decompress(dst, data, cfg)
		} else {
			// The in-memory functions take no dictionary; time the
			// streaming path instead.
			w := &xio.CountWriter{}
			_, err = lz4ultra.DecompressStream(w, bytes.NewReader(data), scfg)
			n = int(w.N)
		}
		delta := time.Since(start)
		if err != nil {
			return err
		}
		if best == 0 || delta < best {
			best = delta
		}
		if verbose {
			fmt.Printf("pass %d: %.3g seconds\n", i+1, delta.Seconds())
		}
	}

	speed := float64(n) / 1048576.0 / best.Seconds()
	fmt.Printf("Decompressed '%s': %s from %s, best of %d: %.3g seconds, "+
		"%.3g MiB/s\n",
		path, humanize.IBytes(uint64(n)), humanize.IBytes(uint64(len(data))),
		benchPasses, best.Seconds(), speed)
	return nil
}
