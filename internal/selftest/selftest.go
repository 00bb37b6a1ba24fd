// Package selftest runs the compressor over a fixed set of inputs and
// option combinations and verifies each stream with the in-tree decoder.
// The command line tool and the package tests share this harness.
package selftest

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"

	"github.com/ulikunitz/lz4ultra"
)

// Input is a named test input.
type Input struct {
	Name string
	Data []byte
}

// Inputs generates the deterministic test inputs.
func Inputs() []Input {
	rnd := rand.New(rand.NewSource(41))

	noise := make([]byte, 1<<16)
	rnd.Read(noise)

	alternating := make([]byte, 1<<18)
	for i := range alternating {
		if i&1 == 0 {
			alternating[i] = 0xaa
		} else {
			alternating[i] = 0x55
		}
	}

	return []Input{
		{"empty", nil},
		{"single-byte", []byte("a")},
		{"short-cycle", []byte("abcabcabcabc")},
		{"zeros-64k", make([]byte, 1<<16)},
		{"zeros-64k+1", make([]byte, 1<<16+1)},
		{"alternating-256k", alternating},
		{"noise-64k", noise},
		{"text-100k", Text(100000, 42)},
	}
}

// Text generates low-entropy text of n bytes from a small vocabulary,
// deterministically for a seed.
func Text(n int, seed int64) []byte {
	vocabulary := []string{
		"the", "quick", "brown", "fox", "jumps", "over", "lazy", "dog",
		"compression", "block", "stream", "command", "literal", "match",
		"offset", "and", "with", "for", "token", "of",
	}
	rnd := rand.New(rand.NewSource(seed))
	var buf bytes.Buffer
	for buf.Len() < n {
		buf.WriteString(vocabulary[rnd.Intn(len(vocabulary))])
		if rnd.Intn(12) == 0 {
			buf.WriteByte('\n')
		} else {
			buf.WriteByte(' ')
		}
	}
	return buf.Bytes()[:n]
}

type variant struct {
	name string
	cfg  lz4ultra.WriterConfig
}

// variants enumerates the option matrix: every block size code with
// dependent and independent blocks and both parser biases, plus the
// legacy format and raw blocks.
func variants() []variant {
	var vs []variant
	for code := lz4ultra.MinBlockSizeCode; code <= lz4ultra.MaxBlockSizeCode; code++ {
		for _, indep := range []bool{false, true} {
			for _, favor := range []bool{false, true} {
				name := fmt.Sprintf("B%d", code)
				if indep {
					name += "-BI"
				} else {
					name += "-BD"
				}
				if favor {
					name += "-decSpeed"
				}
				vs = append(vs, variant{name, lz4ultra.WriterConfig{
					BlockSizeCode:     code,
					IndependentBlocks: indep,
					FavorDecSpeed:     favor,
				}})
			}
		}
	}
	vs = append(vs,
		variant{"legacy", lz4ultra.WriterConfig{Legacy: true}},
		variant{"raw", lz4ultra.WriterConfig{Raw: true}},
	)
	return vs
}

// Run compresses and decompresses every input under every variant and
// verifies the round trips. Progress is reported through logf, which may
// be nil.
func Run(logf func(format string, v ...interface{})) error {
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}

	for _, in := range Inputs() {
		var dict []byte
		if len(in.Data) >= 8192 {
			dict = in.Data[:8192]
		}

		for _, v := range variants() {
			if v.cfg.Raw && len(in.Data) == 0 {
				// A raw stream of nothing has no representation.
				continue
			}

			if err := roundTrip(in, v.cfg, nil); err != nil {
				return fmt.Errorf("%s/%s: %v", in.Name, v.name, err)
			}
			if dict != nil && !v.cfg.Raw && !v.cfg.Legacy {
				if err := roundTrip(in, v.cfg, dict); err != nil {
					return fmt.Errorf("%s/%s-dict: %v", in.Name, v.name, err)
				}
			}
			logf("selftest: %s/%s ok", in.Name, v.name)
		}

		if err := checkBias(in); err != nil {
			return fmt.Errorf("%s: %v", in.Name, err)
		}
	}
	return nil
}

func roundTrip(in Input, cfg lz4ultra.WriterConfig, dict []byte) error {
	cfg.Dictionary = dict
	var compressed bytes.Buffer
	st, err := lz4ultra.CompressStream(&compressed, bytes.NewReader(in.Data), cfg)
	if err != nil {
		if cfg.Raw && errors.Is(err, lz4ultra.ErrRawIncompressible) {
			// Raw blocks cannot store incompressible data.
			return nil
		}
		return fmt.Errorf("compress: %v", err)
	}
	if st.OriginalSize != int64(len(in.Data)) {
		return fmt.Errorf("compress consumed %d bytes; want %d",
			st.OriginalSize, len(in.Data))
	}
	if st.CompressedSize != int64(compressed.Len()) {
		return fmt.Errorf("compressed size %d; stream has %d bytes",
			st.CompressedSize, compressed.Len())
	}

	var decompressed bytes.Buffer
	rcfg := lz4ultra.ReaderConfig{Raw: cfg.Raw, Dictionary: dict}
	if _, err = lz4ultra.DecompressStream(&decompressed,
		bytes.NewReader(compressed.Bytes()), rcfg); err != nil {
		return fmt.Errorf("decompress: %v", err)
	}
	if !bytes.Equal(decompressed.Bytes(), in.Data) {
		return fmt.Errorf("round trip changed the data: got %d bytes, "+
			"want %d bytes", decompressed.Len(), len(in.Data))
	}
	return nil
}

// checkBias verifies that favoring decompression speed does not issue
// more commands than favoring ratio. It compares command counts only;
// the round trips of both configurations are checked by roundTrip.
func checkBias(in Input) error {
	if len(in.Data) < 1024 {
		return nil
	}
	var ratio, speed bytes.Buffer
	stRatio, err := lz4ultra.CompressStream(&ratio,
		bytes.NewReader(in.Data), lz4ultra.WriterConfig{})
	if err != nil {
		return err
	}
	stSpeed, err := lz4ultra.CompressStream(&speed,
		bytes.NewReader(in.Data), lz4ultra.WriterConfig{FavorDecSpeed: true})
	if err != nil {
		return err
	}
	if stSpeed.Commands > stRatio.Commands {
		return fmt.Errorf("favor-decSpeed issued %d commands; "+
			"favor-ratio only %d", stSpeed.Commands, stRatio.Commands)
	}
	return nil
}
