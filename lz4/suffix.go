package lz4

// suffixSort computes the suffix array of data into sa using prefix
// doubling with counting sorts. rank and tmp must have the length of
// data, cnt must have room for max(len(data)+1, 256) entries.
func suffixSort(data []byte, sa, rank, tmp, cnt []int32) {
	n := len(data)
	if n == 0 {
		return
	}

	// Order by the first byte.
	c := cnt[:256]
	for i := range c {
		c[i] = 0
	}
	for _, b := range data {
		c[b]++
	}
	for i := 1; i < 256; i++ {
		c[i] += c[i-1]
	}
	for i := n - 1; i >= 0; i-- {
		b := data[i]
		c[b]--
		sa[c[b]] = int32(i)
	}
	rank[sa[0]] = 0
	r := int32(0)
	for i := 1; i < n; i++ {
		if data[sa[i]] != data[sa[i-1]] {
			r++
		}
		rank[sa[i]] = r
	}

	for k := 1; int(r)+1 < n && k < n; k <<= 1 {
		// Arrange the suffixes by their second key rank[i+k]. Suffixes
		// shorter than k have an empty second key and come first.
		p := 0
		for i := n - k; i < n; i++ {
			tmp[p] = int32(i)
			p++
		}
		for i := 0; i < n; i++ {
			if int(sa[i]) >= k {
				tmp[p] = sa[i] - int32(k)
				p++
			}
		}

		// Stable counting sort by the first key rank[i].
		c = cnt[:int(r)+1]
		for i := range c {
			c[i] = 0
		}
		for i := 0; i < n; i++ {
			c[rank[tmp[i]]]++
		}
		for i := 1; i < len(c); i++ {
			c[i] += c[i-1]
		}
		for i := n - 1; i >= 0; i-- {
			j := tmp[i]
			c[rank[j]]--
			sa[c[rank[j]]] = j
		}

		// Recompute the ranks for doubled prefixes.
		newRank := tmp
		newRank[sa[0]] = 0
		r = 0
		for i := 1; i < n; i++ {
			a, b := int(sa[i-1]), int(sa[i])
			same := rank[a] == rank[b]
			if same {
				if a+k < n && b+k < n {
					same = rank[a+k] == rank[b+k]
				} else {
					same = a+k >= n && b+k >= n
				}
			}
			if !same {
				r++
			}
			newRank[sa[i]] = r
		}
		copy(rank[:n], newRank[:n])
	}
}

// buildIndex computes the suffix array of the window, derives the LCP
// values with the permuted-LCP method and flattens the LCP intervals into
// the intervals and posData arrays. After the call, following posData[p]
// and then the intervals chain visits every LCP interval containing
// position p in order of decreasing LCP length.
func (z *Compressor) buildIndex(window []byte) {
	n := len(window)
	intervals := z.intervals[:n]
	posData := z.posData[:n]

	sa := z.sa[:n]
	suffixSort(window, sa, z.rank[:n], z.tmp[:n], z.cnt)
	for i, s := range sa {
		intervals[i] = uint64(s)
	}

	// Permuted LCP. For each text position the predecessor in suffix
	// order is recorded first; the common prefix counter then shrinks by
	// at most one per step, which keeps the computation linear.
	phi := z.rank[:n]
	plcp := z.tmp[:n]
	phi[sa[0]] = -1
	for i := 1; i < n; i++ {
		phi[sa[i]] = sa[i-1]
	}
	cur := 0
	for i := 0; i < n; i++ {
		j := int(phi[i])
		if j < 0 {
			plcp[i] = 0
			continue
		}
		maxLen := n - i
		if i < j {
			maxLen = n - j
		}
		for cur < maxLen && window[i+cur] == window[j+cur] {
			cur++
		}
		plcp[i] = int32(cur)
		if cur > 0 {
			cur--
		}
	}

	// Rotate the permuted LCP into suffix order, sharing the traversal of
	// the suffix array. Values below MinMatch carry no information for
	// the match finder and are zeroed; values above the cap are clamped.
	intervals[0] &= posMask
	i := 1
	for ; i < n-1; i++ {
		pos := intervals[i] & posMask
		l := plcp[pos]
		if l < MinMatch {
			l = 0
		}
		if l > lcpMax {
			l = lcpMax
		}
		intervals[i] = pos | uint64(l)<<lcpShift
	}
	if i < n {
		intervals[i] &= posMask
	}

	// Flatten the LCP intervals with a single scan over the suffix array,
	// keeping a stack of open intervals: an equal LCP continues the top
	// interval, a greater LCP opens a new one, a smaller LCP closes
	// intervals until the top is no deeper than the current LCP. Closing
	// links the closed interval's slot to its superinterval.
	//
	// Methodology from the lcp-interval match finder in wimlib:
	// https://wimlib.net/git/?p=wimlib;a=blob_plain;f=src/lcpit_matchfinder.c
	top := 0
	stack := z.openIntervals
	stack[0] = 0
	prevPos := intervals[0] & posMask
	intervals[0] = 0
	nextIntervalIdx := uint64(1)

	for r := 1; r < n; r++ {
		nextPos := intervals[r] & posMask
		nextLCP := intervals[r] & lcpMask
		topLCP := stack[top] & lcpMask

		if nextLCP == topLCP {
			// Continuing the deepest open interval.
			posData[prevPos] = stack[top]
		} else if nextLCP > topLCP {
			// Opening a new interval.
			top++
			stack[top] = nextLCP | nextIntervalIdx
			nextIntervalIdx++
			posData[prevPos] = stack[top]
		} else {
			// Closing the deepest open interval.
			posData[prevPos] = stack[top]
			for {
				closedIdx := stack[top] & posMask
				top--
				superLCP := stack[top] & lcpMask

				if nextLCP == superLCP {
					// Continuing the superinterval.
					intervals[closedIdx] = stack[top]
					break
				} else if nextLCP > superLCP {
					// A new interval that contains the closed one but
					// still sits below its superinterval.
					top++
					stack[top] = nextLCP | nextIntervalIdx
					nextIntervalIdx++
					intervals[closedIdx] = stack[top]
					break
				} else {
					// The superinterval closes as well.
					intervals[closedIdx] = stack[top]
				}
			}
		}
		prevPos = nextPos
	}

	// Close the remaining open intervals.
	posData[prevPos] = stack[top]
	for ; top > 0; top-- {
		intervals[stack[top]&posMask] = stack[top-1]
	}
}
