// Command lz4ultra compresses and decompresses files in the LZ4 format,
// trading compression time for output that is as small as the format
// allows and decompresses quickly.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ulikunitz/lz4ultra"
	"github.com/ulikunitz/lz4ultra/internal/selftest"
	"github.com/ulikunitz/lz4ultra/internal/xio"
)

const usageStr = `Usage: lz4ultra [OPTION]... <infile> [<outfile>]
Optimal compression tool for the lz4 format.

  -z               compress (default)
  -d               decompress
  -cbench          benchmark compression of <infile>
  -dbench          benchmark decompression of <infile>
  -test            run the built-in self test
  -c               verify the resulting stream after compressing
  -B4 ... -B7      compress with 64, 256, 1024 or 4096 KiB blocks (default -B7)
  -BD              use block-dependent compression (default)
  -BI              use block-independent compression
  -l               use the legacy frame format (8 MiB independent blocks)
  -r               raw block without framing (single-block input only)
  -D <file>        use <file> as the compression dictionary
  --favor-decSpeed favor decompression speed over compression ratio
  -v               be verbose
`

func usage() {
	fmt.Fprint(os.Stderr, usageStr)
}

func main() {
	log.SetPrefix("lz4ultra: ")
	log.SetFlags(0)
	flag.Usage = usage

	var (
		compress   = flag.Bool("z", false, "compress")
		decompress = flag.Bool("d", false, "decompress")
		cbench     = flag.Bool("cbench", false, "compression benchmark")
		dbench     = flag.Bool("dbench", false, "decompression benchmark")
		test       = flag.Bool("test", false, "self test")

		check   = flag.Bool("c", false, "verify after compressing")
		b4      = flag.Bool("B4", false, "64 KiB blocks")
		b5      = flag.Bool("B5", false, "256 KiB blocks")
		b6      = flag.Bool("B6", false, "1 MiB blocks")
		b7      = flag.Bool("B7", false, "4 MiB blocks")
		bd      = flag.Bool("BD", false, "block-dependent compression")
		bi      = flag.Bool("BI", false, "block-independent compression")
		legacy  = flag.Bool("l", false, "legacy frame format")
		raw     = flag.Bool("r", false, "raw block format")
		verbose = flag.Bool("v", false, "be verbose")
		favor   = flag.Bool("favor-decSpeed", false,
			"favor decompression speed")
		dict = flag.String("D", "", "dictionary file")
	)
	flag.CommandLine.Init(os.Args[0], flag.ContinueOnError)
	if err := flag.CommandLine.Parse(os.Args[1:]); err != nil {
		os.Exit(100)
	}

	commands := 0
	for _, b := range []bool{*compress, *decompress, *cbench, *dbench, *test} {
		if b {
			commands++
		}
	}
	if commands > 1 {
		usage()
		os.Exit(100)
	}

	blockSizeCode := 0
	for i, b := range []bool{*b4, *b5, *b6, *b7} {
		if !b {
			continue
		}
		if blockSizeCode != 0 {
			usage()
			os.Exit(100)
		}
		blockSizeCode = lz4ultra.MinBlockSizeCode + i
	}
	if *bd && *bi {
		usage()
		os.Exit(100)
	}

	wcfg := lz4ultra.WriterConfig{
		BlockSizeCode:     blockSizeCode,
		IndependentBlocks: *bi,
		Legacy:            *legacy,
		Raw:               *raw,
		FavorDecSpeed:     *favor,
	}
	rcfg := lz4ultra.ReaderConfig{Raw: *raw}

	var err error
	switch {
	case *test:
		err = doTest(*verbose)
	case *cbench:
		err = doCompressBench(arg(0), wcfg, *verbose)
	case *dbench:
		err = doDecompressBench(arg(0), rcfg, *dict, *verbose)
	case *decompress:
		err = doDecompress(arg(0), arg(1), *dict, rcfg, *verbose)
	default:
		err = doCompress(arg(0), arg(1), *dict, wcfg, *verbose)
		if err == nil && *check {
			err = doCompare(arg(1), arg(0), *dict, rcfg, *verbose)
		}
	}
	if err != nil {
		log.Print(err)
		os.Exit(100)
	}
}

// arg returns the i-th positional argument or exits with a usage
// message.
func arg(i int) string {
	if i >= flag.NArg() {
		usage()
		os.Exit(100)
	}
	return flag.Arg(i)
}

func doCompress(inPath, outPath, dictPath string, cfg lz4ultra.WriterConfig, verbose bool) error {
	if verbose {
		cfg.Start = func(code int, independent bool) {
			size := uint64(1) << (8 + 2*code)
			if cfg.Legacy {
				size = 8 << 20
			}
			fmt.Printf("Using %s blocks, independent blocks: %t\n",
				humanize.IBytes(size), independent)
		}
	}

	start := time.Now()
	st, err := lz4ultra.CompressFile(inPath, outPath, dictPath, cfg)
	if err != nil {
		return err
	}
	if verbose {
		delta := time.Since(start)
		reportCompression(inPath, st, delta)
	}
	return nil
}

func reportCompression(path string, st lz4ultra.Stats, delta time.Duration) {
	speed := float64(st.OriginalSize) / 1048576.0 / delta.Seconds()
	bytesPerToken := int64(0)
	if st.Commands > 0 {
		bytesPerToken = st.OriginalSize / int64(st.Commands)
	}
	ratio := float64(0)
	if st.OriginalSize > 0 {
		ratio = float64(st.CompressedSize) * 100.0 / float64(st.OriginalSize)
	}
	fmt.Printf("Compressed '%s' in %.3g seconds, %.3g MiB/s, "+
		"%d tokens (%d bytes/token), %s into %s ==> %.4g %%\n",
		path, delta.Seconds(), speed, st.Commands, bytesPerToken,
		humanize.IBytes(uint64(st.OriginalSize)),
		humanize.IBytes(uint64(st.CompressedSize)), ratio)
}

func doDecompress(inPath, outPath, dictPath string, cfg lz4ultra.ReaderConfig, verbose bool) error {
	start := time.Now()
	st, err := lz4ultra.DecompressFile(inPath, outPath, dictPath, cfg)
	if err != nil {
		return err
	}
	if verbose {
		delta := time.Since(start)
		speed := float64(st.OriginalSize) / 1048576.0 / delta.Seconds()
		fmt.Printf("Decompressed '%s' in %.3g seconds, %.3g MiB/s\n",
			inPath, delta.Seconds(), speed)
	}
	return nil
}

// doCompare decompresses the stream in compressedPath and verifies that
// it reproduces originalPath byte for byte.
func doCompare(compressedPath, originalPath, dictPath string, cfg lz4ultra.ReaderConfig, verbose bool) error {
	dict, err := lz4ultra.LoadDictionary(dictPath)
	if err != nil {
		return err
	}
	cfg.Dictionary = dict

	in, err := os.Open(compressedPath)
	if err != nil {
		return err
	}
	defer in.Close()

	orig, err := os.Open(originalPath)
	if err != nil {
		return err
	}
	defer orig.Close()

	cw := xio.NewCompareWriter(bufio.NewReader(orig))
	start := time.Now()
	if _, err = lz4ultra.DecompressStream(cw, bufio.NewReader(in),
		cfg); err != nil {
		return err
	}
	if err = cw.Close(); err != nil {
		return err
	}
	if verbose {
		fmt.Printf("Compared '%s' with '%s' in %.3g seconds\n",
			compressedPath, originalPath, time.Since(start).Seconds())
	}
	return nil
}

func doTest(verbose bool) error {
	var logf func(format string, v ...interface{})
	if verbose {
		logf = log.Printf
	}
	if err := selftest.Run(logf); err != nil {
		return err
	}
	fmt.Println("All self tests passed")
	return nil
}
