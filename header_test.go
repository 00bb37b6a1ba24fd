package lz4ultra

import (
	"testing"

	"github.com/OneOfOne/xxhash"
	"github.com/kr/pretty"
)

func TestHeaderRoundTrip(t *testing.T) {
	for code := MinBlockSizeCode; code <= MaxBlockSizeCode; code++ {
		for _, independent := range []bool{false, true} {
			var buf [maxHeaderSize]byte
			n := encodeHeader(buf[:], code, independent, false)
			if n != maxHeaderSize {
				t.Fatalf("encodeHeader returned %d bytes; want %d",
					n, maxHeaderSize)
			}

			extra, legacy, err := checkHeader(buf[:headerSize])
			if err != nil {
				t.Fatalf("checkHeader error %s", err)
			}
			if legacy || extra != maxHeaderSize-headerSize {
				t.Fatalf("checkHeader got extra=%d legacy=%t", extra, legacy)
			}

			gotCode, gotIndep, err := decodeHeader(buf[:])
			if err != nil {
				t.Fatalf("decodeHeader error %s", err)
			}
			if gotCode != code || gotIndep != independent {
				t.Fatalf("decodeHeader got (%d, %t); want (%d, %t)",
					gotCode, gotIndep, code, independent)
			}
		}
	}
}

func TestLegacyHeader(t *testing.T) {
	var buf [maxHeaderSize]byte
	n := encodeHeader(buf[:], MaxBlockSizeCode, true, true)
	if n != headerSize {
		t.Fatalf("encodeHeader returned %d bytes; want %d", n, headerSize)
	}
	extra, legacy, err := checkHeader(buf[:headerSize])
	if err != nil {
		t.Fatalf("checkHeader error %s", err)
	}
	if !legacy || extra != 0 {
		t.Fatalf("checkHeader got extra=%d legacy=%t; want 0, true",
			extra, legacy)
	}
}

// TestHeaderChecksumByte verifies the checksum construction: the seventh
// byte is the second byte of the XXH32 hash over the two flag bytes.
func TestHeaderChecksumByte(t *testing.T) {
	var buf [maxHeaderSize]byte
	encodeHeader(buf[:], 6, true, false)
	want := byte(xxhash.Checksum32(buf[4:6]) >> 8)
	if buf[6] != want {
		t.Fatalf("checksum byte %#02x; want %#02x", buf[6], want)
	}
}

// TestHeaderPerturbation verifies that every single-bit corruption of
// the header is rejected.
func TestHeaderPerturbation(t *testing.T) {
	var buf [maxHeaderSize]byte
	encodeHeader(buf[:], 5, false, false)

	for i := 0; i < maxHeaderSize; i++ {
		for bit := uint(0); bit < 8; bit++ {
			hdr := buf
			hdr[i] ^= 1 << bit

			if _, _, err := checkHeader(hdr[:headerSize]); err != nil {
				continue
			}
			if _, _, err := decodeHeader(hdr[:]); err == nil {
				t.Fatalf("corrupted header byte %d bit %d accepted", i, bit)
			}
		}
	}
}

func TestBlockPrefix(t *testing.T) {
	var buf [blockPrefixSize]byte
	for _, tc := range []struct {
		size         int
		uncompressed bool
	}{
		{1, false}, {65536, false}, {65536, true}, {1 << 22, false},
	} {
		encodeBlockPrefix(buf[:], tc.size, tc.uncompressed)
		size, uncompressed := decodeBlockPrefix(buf[:], false)
		if size != tc.size || uncompressed != tc.uncompressed {
			t.Fatalf("prefix round trip got (%d, %t); want (%d, %t)",
				size, uncompressed, tc.size, tc.uncompressed)
		}
	}
}

func TestWriterConfigDefaults(t *testing.T) {
	cfg := WriterConfig{Legacy: true}
	cfg.ApplyDefaults()
	want := WriterConfig{
		BlockSizeCode:     MaxBlockSizeCode,
		IndependentBlocks: true,
		Legacy:            true,
	}
	if diff := pretty.Diff(cfg, want); len(diff) > 0 {
		t.Fatalf("unexpected defaults: %s", diff)
	}

	cfg = WriterConfig{BlockSizeCode: 9}
	cfg.ApplyDefaults()
	if err := cfg.Verify(); err == nil {
		t.Fatalf("Verify accepted block size code 9")
	}
}
