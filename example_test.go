package lz4ultra_test

import (
	"bytes"
	"fmt"
	"io"
	"log"

	"github.com/ulikunitz/lz4ultra"
)

func Example() {
	const text = "The quick brown fox jumps over the lazy dog. " +
		"The quick brown fox jumps over the lazy dog. " +
		"The quick brown fox jumps over the lazy dog."

	var buf bytes.Buffer
	w, err := lz4ultra.NewWriter(&buf)
	if err != nil {
		log.Fatal(err)
	}
	if _, err = io.WriteString(w, text); err != nil {
		log.Fatal(err)
	}
	if err = w.Close(); err != nil {
		log.Fatal(err)
	}

	r, err := lz4ultra.NewReader(&buf)
	if err != nil {
		log.Fatal(err)
	}
	var out bytes.Buffer
	if _, err = io.Copy(&out, r); err != nil {
		log.Fatal(err)
	}
	fmt.Println(out.String() == text)
	// Output: true
}

func ExampleCompress() {
	data := bytes.Repeat([]byte("compressible data "), 100)

	cfg := lz4ultra.WriterConfig{BlockSizeCode: 4}
	dst := make([]byte, lz4ultra.MaxCompressedSize(len(data), cfg))
	n, err := lz4ultra.Compress(dst, data, cfg)
	if err != nil {
		log.Fatal(err)
	}

	out := make([]byte, len(data))
	m, err := lz4ultra.Decompress(out, dst[:n], lz4ultra.ReaderConfig{})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(bytes.Equal(out[:m], data))
	// Output: true
}
