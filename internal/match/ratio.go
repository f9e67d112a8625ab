package match

// Ratcliff/Obershelp sequence ratio: find the longest common substring,
// recurse on the pieces either side of it, and report
// 2*matched / (len(a)+len(b)) in [0,1].

func sequenceRatio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	matched := matchingRunes(ra, rb)
	return 2 * float64(matched) / float64(total)
}

func matchingRunes(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	ai, bi, size := longestCommonBlock(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingRunes(a[:ai], b[:bi]) +
		matchingRunes(a[ai+size:], b[bi+size:])
}

func longestCommonBlock(a, b []rune) (ai, bi, size int) {
	// lengths[j] = length of common suffix ending at a[i]/b[j-1] from the
	// previous row; single-row DP keeps this O(len(b)) in memory
	lengths := make([]int, len(b)+1)
	for i := 0; i < len(a); i++ {
		prev := 0
		for j := 1; j <= len(b); j++ {
			cur := lengths[j]
			if a[i] == b[j-1] {
				lengths[j] = prev + 1
				if lengths[j] > size {
					size = lengths[j]
					ai = i - size + 1
					bi = j - size
				}
			} else {
				lengths[j] = 0
			}
			prev = cur
		}
	}
	return ai, bi, size
}
