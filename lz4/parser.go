package lz4

// optimizeMatches rewrites the match array for [start, end) into the
// cheapest possible commanding of the block. The sweep runs backwards so
// that the cost of everything after a position is already known when the
// position is decided.
//
// cost[i] accumulates the minimum number of bits needed to encode the
// block from position i to the end. score[i] is the tie-break
// accumulator: every command adds at least one, matches add the
// configured weight, and on equal cost the lower score wins, which
// minimizes the command count.
func (z *Compressor) optimizeMatches(start, end int) {
	cost := z.cost
	score := z.score
	extraMatchScore := int32(1)
	if z.favorDecSpeed {
		extraMatchScore = 5
	}

	cost[end-1] = 8
	score[end-1] = 0
	lastLiteralsOffset := end

	for i := end - 2; i >= start; i-- {
		// Taking a literal at i.
		literalsLen := lastLiteralsOffset - i
		bestCost := 8 + cost[i+1]
		bestScore := 1 + score[i+1]
		if literalsLen >= literalsRunLen && (literalsLen-literalsRunLen)%255 == 0 {
			// The literal run crosses a length-byte boundary here; the
			// extra byte accumulates down the chain.
			bestCost += 8
		}
		if z.match[i+1].length >= MinMatch {
			bestCost += modeSwitchPenalty
		}
		bestLen := int32(0)
		bestOffset := int32(0)

		m := &z.match[i]
		if m.length >= MinMatch {
			if m.length >= leaveAloneMatchSize {
				// Long matches are never worth shortening; only the full
				// length is considered.
				matchLen := int(m.length)
				if i+matchLen > end-lastLiterals {
					matchLen = end - lastLiterals - i
				}

				curCost := int32(8+16+matchVarlenSize(matchLen-MinMatch)) +
					cost[i+matchLen]
				if z.match[i+matchLen].length >= MinMatch {
					curCost += modeSwitchPenalty
				}
				curScore := extraMatchScore + score[i+matchLen]

				if bestCost > curCost ||
					(bestCost == curCost && bestScore > curScore) {
					bestCost = curCost
					bestScore = curScore
					bestLen = int32(matchLen)
					bestOffset = m.offset
				}
			} else {
				matchLen := int(m.length)
				if i+matchLen > end-lastLiterals {
					matchLen = end - lastLiterals - i
				}

				if z.favorDecSpeed {
					// A match just above the token limit forces the
					// decoder off its fast path; shorten it back below
					// the limit, trading a little ratio for speed.
					if matchLen > matchRunLen+MinMatch-1 &&
						matchLen-MinMatch <= 2*(matchRunLen-1) {
						matchLen = matchRunLen + MinMatch - 1
					}
				}

				k := matchLen
				for ; k >= matchRunLen+MinMatch; k-- {
					curCost := int32(8+16+matchVarlenSize(k-MinMatch)) +
						cost[i+k]
					if z.match[i+k].length >= MinMatch {
						curCost += modeSwitchPenalty
					}
					curScore := extraMatchScore + score[i+k]

					if bestCost > curCost ||
						(bestCost == curCost && bestScore > curScore) {
						bestCost = curCost
						bestScore = curScore
						bestLen = int32(k)
						bestOffset = m.offset
					}
				}

				for ; k >= MinMatch; k-- {
					// No extra match length bytes in this range.
					curCost := int32(8+16) + cost[i+k]
					if z.match[i+k].length >= MinMatch {
						curCost += modeSwitchPenalty
					}
					curScore := extraMatchScore + score[i+k]

					if bestCost > curCost ||
						(bestCost == curCost && bestScore > curScore) {
						bestCost = curCost
						bestScore = curScore
						bestLen = int32(k)
						bestOffset = m.offset
					}
				}
			}
		}

		if bestLen >= MinMatch {
			lastLiteralsOffset = i
		}

		cost[i] = bestCost
		score[i] = bestScore
		m.length = bestLen
		m.offset = bestOffset
	}
}
