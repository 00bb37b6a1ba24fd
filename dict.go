package lz4ultra

import (
	"fmt"
	"io"
	"os"

	"github.com/ulikunitz/lz4ultra/lz4"
)

// LoadDictionary reads the dictionary file at path and returns its
// contents. If the file is larger than the history size, only the last
// 64 KiB are used. An empty path returns a nil dictionary.
func LoadDictionary(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDictionary, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDictionary, err)
	}
	if fi.Size() > lz4.HistorySize {
		if _, err = f.Seek(-lz4.HistorySize, io.SeekEnd); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDictionary, err)
		}
	}

	dict := make([]byte, lz4.HistorySize)
	n, err := io.ReadFull(f, dict)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("%w: %v", ErrDictionary, err)
	}
	return dict[:n], nil
}
