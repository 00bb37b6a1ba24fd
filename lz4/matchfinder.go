package lz4

// matchAt returns the best match for the given window position, or the
// zero match if the position has none. It also performs the lazy update
// of the interval index, so it must be called for every position in
// increasing order, including positions whose matches are not wanted.
//
// The traversal ascends from the deepest interval containing pos,
// marking the path, and then walks the position links to visit every
// containing interval in order of decreasing LCP. The first admissible
// candidate is the longest; ties on length keep the smallest offset.
//
// Methodology from the lcp-interval match finder in wimlib:
// https://wimlib.net/git/?p=wimlib;a=blob_plain;f=src/lcpit_matchfinder.c
func (z *Compressor) matchAt(pos int) match {
	intervals := z.intervals
	posData := z.posData

	// Deepest lcp-interval containing the suffix at pos.
	ref := posData[pos]
	posData[pos] = 0

	// Ascend until a visited interval, the root, or a child of the root,
	// linking unvisited intervals to pos on the way.
	var superRef uint64
	for {
		superRef = intervals[ref&posMask]
		if superRef&lcpMask == 0 {
			break
		}
		intervals[ref&posMask] = uint64(pos)
		ref = superRef
	}

	if superRef == 0 {
		// The interval may be the root, an unvisited child of the root,
		// or an interval last visited by the suffix at position 0. The
		// zero placeholder makes these indistinguishable, so matches
		// against position 0 are not reported.
		if ref != 0 {
			intervals[ref&posMask] = uint64(pos)
		}
		return match{}
	}

	// Walk the position links. Each visited interval contributes one
	// candidate position sharing a prefix of the interval's LCP length.
	matchPos := superRef
	var best match
	for {
		for {
			superRef = posData[matchPos]
			if superRef <= ref {
				break
			}
			matchPos = intervals[superRef&posMask]
		}
		intervals[ref&posMask] = uint64(pos)
		posData[matchPos] = ref

		offset := int32(pos) - int32(matchPos)
		if offset <= MaxOffset {
			length := int32(ref >> lcpShift)
			if length > best.length ||
				(length == best.length && offset < best.offset) {
				best = match{length: length, offset: offset}
			}
		}

		if superRef == 0 {
			break
		}
		ref = superRef
		matchPos = intervals[ref&posMask]
	}
	return best
}

// skipMatches advances the match finder over [start, end) without
// recording matches. Skipping still visits every position, as the
// interval index updates lazily.
func (z *Compressor) skipMatches(start, end int) {
	for i := start; i < end; i++ {
		z.matchAt(i)
	}
}

// findAllMatches records the best match for every position in
// [start, end). Positions too close to the end of the block must stay
// literals and get the zero match; match lengths are capped so that no
// match runs into the trailing literal area.
func (z *Compressor) findAllMatches(start, end int) {
	for i := start; i < end; i++ {
		m := z.matchAt(i)
		if i > end-lastMatchOffset {
			m = match{}
		} else if m.length > 0 {
			maxLen := end - lastLiterals - i
			if maxLen < 0 {
				maxLen = 0
			}
			if int(m.length) > maxLen {
				m.length = int32(maxLen)
			}
		}
		z.match[i] = m
	}
}
