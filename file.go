package lz4ultra

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// CompressFile compresses the file inPath into outPath. If dictPath is
// not empty, the file's last 64 KiB seed the history before the first
// block.
func CompressFile(inPath, outPath, dictPath string, cfg WriterConfig) (Stats, error) {
	var st Stats

	dict, err := LoadDictionary(dictPath)
	if err != nil {
		return st, err
	}
	cfg.Dictionary = dict

	in, err := os.Open(inPath)
	if err != nil {
		return st, fmt.Errorf("%w: %v", ErrSource, err)
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return st, fmt.Errorf("%w: %v", ErrSink, err)
	}

	bw := bufio.NewWriter(out)
	st, err = CompressStream(bw, bufio.NewReader(in), cfg)
	if err == nil {
		err = flushClose(bw, out)
	} else {
		out.Close()
	}
	return st, err
}

// DecompressFile decompresses the file inPath into outPath.
func DecompressFile(inPath, outPath, dictPath string, cfg ReaderConfig) (Stats, error) {
	var st Stats

	dict, err := LoadDictionary(dictPath)
	if err != nil {
		return st, err
	}
	cfg.Dictionary = dict

	in, err := os.Open(inPath)
	if err != nil {
		return st, fmt.Errorf("%w: %v", ErrSource, err)
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return st, fmt.Errorf("%w: %v", ErrSink, err)
	}

	bw := bufio.NewWriter(out)
	st, err = DecompressStream(bw, bufio.NewReader(in), cfg)
	if err == nil {
		err = flushClose(bw, out)
	} else {
		out.Close()
	}
	return st, err
}

func flushClose(bw *bufio.Writer, f io.Closer) error {
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("%w: %v", ErrSink, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrSink, err)
	}
	return nil
}
