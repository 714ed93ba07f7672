package treediff

import "github.com/masmgr/changeminer/internal/linediff"

// lineBag is the multiset of a file's line keys.
type lineBag struct {
	counts map[int]int
	total  int
}

func newLineBag(ids []int) lineBag {
	counts := make(map[int]int, len(ids))
	for _, id := range ids {
		counts[id]++
	}
	return lineBag{counts: counts, total: len(ids)}
}

// similarity returns the multiset line overlap of a and b divided by the
// longer of the two. Two empty files are identical.
func similarity(a, b lineBag) float64 {
	longer := max(a.total, b.total)
	if longer == 0 {
		return 1.0
	}

	small, large := a, b
	if len(small.counts) > len(large.counts) {
		small, large = large, small
	}
	common := 0
	for id, n := range small.counts {
		common += min(n, large.counts[id])
	}
	return float64(common) / float64(longer)
}

// maxSimilarity is the best score two files of these lengths can reach.
func maxSimilarity(a, b lineBag) float64 {
	longer := max(a.total, b.total)
	if longer == 0 {
		return 1.0
	}
	return float64(min(a.total, b.total)) / float64(longer)
}

// Similarity scores two decoded files the way rename detection does.
func Similarity(oldLines, newLines []string, ws linediff.Whitespace) float64 {
	in := linediff.NewInterner(ws)
	return similarity(newLineBag(in.Intern(oldLines)), newLineBag(in.Intern(newLines)))
}
