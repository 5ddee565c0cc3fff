// Completion: 100% - Name suggestions complete
package engine

// suggestThreshold is the largest edit distance still worth suggesting
const suggestThreshold = 3

// editDistance is the Levenshtein distance between a and b, computed with
// two rolling rows instead of the full matrix
func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			sub := prev[j-1]
			if a[i-1] != b[j-1] {
				sub++
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, sub)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

// Suggest returns the candidate closest to name, or "" when name is already
// one of the candidates or nothing is within an edit distance of 3.
// Ties are broken alphabetically.
func Suggest(name string, candidates []string) string {
	best, bestDist := "", suggestThreshold+1
	for _, c := range candidates {
		d := editDistance(name, c)
		if d == 0 {
			return ""
		}
		if d < bestDist || (d == bestDist && c < best) {
			best, bestDist = c, d
		}
	}
	return best
}
