package lz4

import (
	"bytes"
	"testing"
)

func TestExpandBlockErrors(t *testing.T) {
	data := bytes.Repeat([]byte("expand error tests. "), 20)
	block := shrink(t, data, 0, CompressorConfig{})

	tests := []struct {
		name string
		src  []byte
	}{
		{"truncated-token", block[:1]},
		{"truncated-literals", block[:2]},
		{"truncated-block", block[:len(block)-3]},
		{"open-literal-run", []byte{0xf0, 255, 255}},
		{"zero-offset", []byte{0x14, 'a', 0x00, 0x00}},
		{"offset-before-window", []byte{0x14, 'a', 0xff, 0xff, 0x10, 'b'}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			dst := make([]byte, len(data))
			if _, err := ExpandBlock(dst, tc.src, 0); err == nil {
				t.Fatalf("ExpandBlock accepted corrupted input")
			}
		})
	}
}

// TestExpandBlockBounded flips single bits in a valid block and verifies
// that decompression either fails or stays within the output bounds.
func TestExpandBlockBounded(t *testing.T) {
	data := bytes.Repeat([]byte("bit flips must not break bounds. "), 30)
	block := shrink(t, data, 0, CompressorConfig{})

	corrupted := make([]byte, len(block))
	for i := 0; i < len(block); i++ {
		for bit := uint(0); bit < 8; bit++ {
			copy(corrupted, block)
			corrupted[i] ^= 1 << bit

			dst := make([]byte, len(data))
			n, err := ExpandBlock(dst, corrupted, 0)
			if err != nil {
				continue
			}
			if n > len(dst) {
				t.Fatalf("flip %d/%d: output %d exceeds buffer %d",
					i, bit, n, len(dst))
			}
		}
	}
}

func FuzzExpandBlock(f *testing.F) {
	data := bytes.Repeat([]byte("fuzzing the verification decoder! "), 10)
	z, err := NewCompressor(CompressorConfig{MaxWindowSize: len(data)})
	if err != nil {
		f.Fatalf("NewCompressor error %s", err)
	}
	dst := make([]byte, 2*len(data))
	n, err := z.Shrink(dst, data, 0)
	if err != nil {
		f.Fatalf("Shrink error %s", err)
	}
	f.Add(dst[:n])
	f.Add([]byte{})
	f.Add([]byte{0x00})
	f.Add([]byte{0xff, 0xff, 0xff})

	f.Fuzz(func(t *testing.T, src []byte) {
		out := make([]byte, 1<<16)
		n, err := ExpandBlock(out, src, 1024)
		if err != nil {
			return
		}
		if n < 0 || 1024+n > len(out) {
			t.Fatalf("output size %d out of bounds", n)
		}
	})
}
