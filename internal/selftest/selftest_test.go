package selftest

import (
	"bytes"
	"testing"
)

func TestText(t *testing.T) {
	a := Text(5000, 42)
	b := Text(5000, 42)
	if !bytes.Equal(a, b) {
		t.Fatalf("Text is not deterministic")
	}
	if len(a) != 5000 {
		t.Fatalf("Text returned %d bytes; want 5000", len(a))
	}
	c := Text(5000, 43)
	if bytes.Equal(a, c) {
		t.Fatalf("different seeds produced the same text")
	}
}

func TestRun(t *testing.T) {
	if testing.Short() {
		t.Skip("self test takes a while")
	}
	if err := Run(t.Logf); err != nil {
		t.Fatalf("Run error %s", err)
	}
}
