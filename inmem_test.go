package lz4ultra_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/ulikunitz/lz4ultra"
	"github.com/ulikunitz/lz4ultra/internal/selftest"
)

// TestInMemoryMatchesStream verifies that the in-memory functions and
// the streaming functions produce identical streams.
func TestInMemoryMatchesStream(t *testing.T) {
	inputs := map[string][]byte{
		"text":  selftest.Text(150000, 23),
		"zeros": make([]byte, 70000),
		"short": []byte("short input"),
	}
	configs := map[string]lz4ultra.WriterConfig{
		"default":     {},
		"B4":          {BlockSizeCode: 4},
		"B4-BI":       {BlockSizeCode: 4, IndependentBlocks: true},
		"B5-decSpeed": {BlockSizeCode: 5, FavorDecSpeed: true},
		"legacy":      {Legacy: true},
	}

	for iname, data := range inputs {
		for cname, cfg := range configs {
			name := iname + "/" + cname

			var streamBuf bytes.Buffer
			_, err := lz4ultra.CompressStream(&streamBuf,
				bytes.NewReader(data), cfg)
			if err != nil {
				t.Fatalf("%s: CompressStream error %s", name, err)
			}

			dst := make([]byte, lz4ultra.MaxCompressedSize(len(data), cfg))
			n, err := lz4ultra.Compress(dst, data, cfg)
			if err != nil {
				t.Fatalf("%s: Compress error %s", name, err)
			}

			if !bytes.Equal(dst[:n], streamBuf.Bytes()) {
				t.Fatalf("%s: in-memory stream differs: %d vs %d bytes",
					name, n, streamBuf.Len())
			}

			out := make([]byte, len(data))
			m, err := lz4ultra.Decompress(out, dst[:n],
				lz4ultra.ReaderConfig{})
			if err != nil {
				t.Fatalf("%s: Decompress error %s", name, err)
			}
			if !bytes.Equal(out[:m], data) {
				t.Fatalf("%s: in-memory round trip changed data", name)
			}
		}
	}
}

// TestMaxCompressedSize verifies the worst-case bound on incompressible
// input.
func TestMaxCompressedSize(t *testing.T) {
	rnd := rand.New(rand.NewSource(17))
	for _, size := range []int{0, 1, 100, 65535, 65536, 65537, 200000} {
		data := make([]byte, size)
		rnd.Read(data)

		for _, cfg := range []lz4ultra.WriterConfig{
			{}, {BlockSizeCode: 4}, {IndependentBlocks: true},
		} {
			bound := lz4ultra.MaxCompressedSize(size, cfg)
			dst := make([]byte, bound)
			n, err := lz4ultra.Compress(dst, data, cfg)
			if err != nil {
				t.Fatalf("size %d: Compress error %s", size, err)
			}
			if n > bound {
				t.Fatalf("size %d: compressed %d exceeds bound %d",
					size, n, bound)
			}

			out := make([]byte, size)
			m, err := lz4ultra.Decompress(out, dst[:n],
				lz4ultra.ReaderConfig{})
			if err != nil {
				t.Fatalf("size %d: Decompress error %s", size, err)
			}
			if !bytes.Equal(out[:m], data) {
				t.Fatalf("size %d: round trip changed data", size)
			}
		}
	}
}

func TestRawInMemory(t *testing.T) {
	data := bytes.Repeat([]byte("raw in-memory block. "), 50)
	cfg := lz4ultra.WriterConfig{Raw: true}

	dst := make([]byte, lz4ultra.MaxCompressedSize(len(data), cfg))
	n, err := lz4ultra.Compress(dst, data, cfg)
	if err != nil {
		t.Fatalf("Compress error %s", err)
	}
	if dst[n-2] != 0 || dst[n-1] != 0 {
		t.Fatalf("raw block does not end with the zero marker")
	}

	out := make([]byte, len(data))
	m, err := lz4ultra.Decompress(out, dst[:n], lz4ultra.ReaderConfig{Raw: true})
	if err != nil {
		t.Fatalf("Decompress error %s", err)
	}
	if !bytes.Equal(out[:m], data) {
		t.Fatalf("raw in-memory round trip changed data")
	}
}
