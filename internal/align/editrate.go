package align

// editDistance returns the word-level Levenshtein distance between a
// hypothesis and a reference span.
func editDistance(hyp, ref []string) int {
	row := distanceRow(hyp, ref)
	return row[len(ref)]
}

// distanceRow returns the final dynamic-programming row of the Levenshtein
// computation: row[j] is the edit distance between hyp and ref[:j]. The full
// row lets span search pick the reference prefix that aligns best without
// recomputing the table per boundary.
func distanceRow(hyp, ref []string) []int {
	row := make([]int, len(ref)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(hyp); i++ {
		prev := row[0]
		row[0] = i
		for j := 1; j <= len(ref); j++ {
			cost := 1
			if hyp[i-1] == ref[j-1] {
				cost = 0
			}
			next := min3(row[j]+1, row[j-1]+1, prev+cost)
			prev = row[j]
			row[j] = next
		}
	}
	return row
}

// bestPrefixAlignment picks the reference prefix length that minimizes the
// edit rate of hyp against ref[:n]. Ties prefer the longer prefix so spans
// keep trailing words the hypothesis matched.
func bestPrefixAlignment(hyp, ref []string) (n, distance int) {
	if len(ref) == 0 {
		return 0, len(hyp)
	}
	row := distanceRow(hyp, ref)
	n, distance = 1, row[1]
	bestRate := float64(distance)
	for j := 2; j <= len(ref); j++ {
		rate := float64(row[j]) / float64(j)
		if rate <= bestRate {
			n, distance, bestRate = j, row[j], rate
		}
	}
	return n, distance
}

type anchor struct {
	windowOff int
	probeOff  int
	length    int
}

// commonRuns finds anchor positions where at least minRun consecutive words
// of the probe appear verbatim in the window. Each distinct run start in the
// window is paired with the matching probe offset.
func commonRuns(window, probe []string, minRun int) []anchor {
	if minRun < 1 {
		minRun = 1
	}
	// Index probe word positions for O(window * dup) scanning.
	positions := make(map[string][]int, len(probe))
	for i, word := range probe {
		positions[word] = append(positions[word], i)
	}
	var anchors []anchor
	claimed := make(map[int]bool)
	for w := 0; w+minRun <= len(window); w++ {
		if claimed[w] {
			continue
		}
		for _, p := range positions[window[w]] {
			length := 0
			for w+length < len(window) && p+length < len(probe) && window[w+length] == probe[p+length] {
				length++
			}
			if length >= minRun {
				anchors = append(anchors, anchor{windowOff: w, probeOff: p, length: length})
				for k := w; k < w+length; k++ {
					claimed[k] = true
				}
				break
			}
		}
	}
	return anchors
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
