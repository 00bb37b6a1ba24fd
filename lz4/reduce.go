package lz4

import "bytes"

// reduceCommandCount walks the chosen parse forward and removes commands
// whose removal cannot grow the output. Small matches are converted back
// to literals when the command bytes cost at least as much as encoding
// the bytes literally; adjacent matches that replay the same data at the
// first match's offset are joined into one long match. Every rewrite
// leaves the encoded size equal or smaller, so the pass never undoes the
// optimizer's work.
func (z *Compressor) reduceCommandCount(window []byte, start, end int) {
	numLiterals := 0

	for i := start; i < end; {
		m := &z.match[i]

		if m.length < MinMatch {
			numLiterals++
			i++
			continue
		}

		matchLen := int(m.length)
		reduce := false

		if matchLen <= 19 && i+matchLen < end {
			encLen := matchLen - MinMatch
			cmdSize := 8 + literalsVarlenSize(numLiterals) + 16 +
				matchVarlenSize(encLen)

			if z.match[i+matchLen].length >= MinMatch {
				// The next command is also a match and carries no
				// literals yet. Turning this match into literals makes
				// the next command pay for them; if the match command
				// costs at least that much, dropping it cannot grow the
				// output and removes one command.
				if cmdSize >= matchLen<<3+
					literalsVarlenSize(numLiterals+matchLen) {
					reduce = true
				}
			} else {
				// The match is followed by literals. Dropping the match
				// merges its bytes into the surrounding literal run; the
				// run's length encoding may grow, which the comparison
				// accounts for.
				cur := i + matchLen
				nextLits := 0
				for {
					cur++
					nextLits++
					if cur >= end || z.match[cur].length >= MinMatch {
						break
					}
				}

				if cmdSize >= matchLen<<3+
					literalsVarlenSize(numLiterals+nextLits+matchLen)-
					literalsVarlenSize(nextLits) {
					reduce = true
				}
			}
		}

		if reduce {
			for j := 0; j < matchLen; j++ {
				z.match[i+j].length = 0
			}
			numLiterals += matchLen
			i += matchLen
			continue
		}

		if next := i + matchLen; next < end && m.offset > 0 && matchLen >= 2 {
			nm := &z.match[next]
			joined := matchLen + int(nm.length)
			if nm.offset > 0 && nm.length >= 2 &&
				joined >= leaveAloneMatchSize && joined <= 65535 &&
				next >= int(m.offset) && next >= int(nm.offset) &&
				next+int(nm.length) <= end &&
				bytes.Equal(
					window[next-int(m.offset):next-int(m.offset)+int(nm.length)],
					window[next-int(nm.offset):next-int(nm.offset)+int(nm.length)]) {
				// The second match replays the same bytes at the first
				// match's offset, so both fold into one command. Stay at
				// i: the joined match may fold further.
				m.length += nm.length
				nm.length = -1
				nm.offset = 0
				continue
			}
		}

		numLiterals = 0
		i += matchLen
	}
}
