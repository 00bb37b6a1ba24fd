package lz4ultra_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/ulikunitz/lz4ultra"
	"github.com/ulikunitz/lz4ultra/internal/selftest"
)

func TestWriterReader(t *testing.T) {
	data := selftest.Text(250000, 3)

	var buf bytes.Buffer
	w, err := lz4ultra.NewWriterConfig(&buf, lz4ultra.WriterConfig{
		BlockSizeCode: 4,
	})
	if err != nil {
		t.Fatalf("NewWriterConfig error %s", err)
	}
	// Write in odd-sized chunks that straddle block boundaries.
	for n := 0; n < len(data); {
		k := 30000
		if n+k > len(data) {
			k = len(data) - n
		}
		if _, err = w.Write(data[n : n+k]); err != nil {
			t.Fatalf("Write error %s", err)
		}
		n += k
	}
	if err = w.Close(); err != nil {
		t.Fatalf("Close error %s", err)
	}
	if st := w.Stats(); st.OriginalSize != int64(len(data)) {
		t.Fatalf("OriginalSize %d; want %d", st.OriginalSize, len(data))
	}

	r, err := lz4ultra.NewReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("NewReader error %s", err)
	}
	var out bytes.Buffer
	if _, err = io.Copy(&out, r); err != nil {
		t.Fatalf("io.Copy error %s", err)
	}
	if !bytes.Equal(out.Bytes(), data) {
		t.Fatalf("reader round trip changed data: got %d bytes, want %d",
			out.Len(), len(data))
	}
}

func TestWriterClosed(t *testing.T) {
	var buf bytes.Buffer
	w, err := lz4ultra.NewWriter(&buf)
	if err != nil {
		t.Fatalf("NewWriter error %s", err)
	}
	if _, err = w.Write([]byte("some data")); err != nil {
		t.Fatalf("Write error %s", err)
	}
	if err = w.Close(); err != nil {
		t.Fatalf("Close error %s", err)
	}
	if err = w.Close(); err == nil {
		t.Fatalf("second Close succeeded")
	}
	if _, err = w.Write([]byte("more")); err == nil {
		t.Fatalf("Write after Close succeeded")
	}
}

func TestReaderSmallReads(t *testing.T) {
	data := selftest.Text(10000, 9)
	stream, _ := compress(t, data, lz4ultra.WriterConfig{})

	r, err := lz4ultra.NewReader(bytes.NewReader(stream))
	if err != nil {
		t.Fatalf("NewReader error %s", err)
	}
	var out bytes.Buffer
	p := make([]byte, 7)
	for {
		n, rerr := r.Read(p)
		out.Write(p[:n])
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			t.Fatalf("Read error %s", rerr)
		}
	}
	if !bytes.Equal(out.Bytes(), data) {
		t.Fatalf("small reads changed data")
	}
}

func TestReaderStats(t *testing.T) {
	data := selftest.Text(50000, 21)
	stream, wst := compress(t, data, lz4ultra.WriterConfig{BlockSizeCode: 4})

	var out bytes.Buffer
	rst, err := lz4ultra.DecompressStream(&out, bytes.NewReader(stream),
		lz4ultra.ReaderConfig{})
	if err != nil {
		t.Fatalf("DecompressStream error %s", err)
	}
	if rst.OriginalSize != int64(len(data)) {
		t.Fatalf("OriginalSize %d; want %d", rst.OriginalSize, len(data))
	}
	if rst.CompressedSize != wst.CompressedSize {
		t.Fatalf("CompressedSize %d; writer reported %d",
			rst.CompressedSize, wst.CompressedSize)
	}
}
