package linediff

import "math"

const unreachable = math.MaxInt32

// aligner walks the leftmost optimal path through the edit graph of a
// against b: a match is taken whenever one is available, and otherwise an
// old line is dropped before a new one as long as the path stays optimal.
//
// The walk needs the remaining distance G(i,j) from a node to the end.
// G is computed bottom-up over the band of diagonals that optimal paths
// can reach, which is exact for every node on an optimal path. Only every
// step-th row is kept; the rows between two kept rows are recomputed when
// the walk enters them.
type aligner struct {
	a, b []int
	kHi  int // highest diagonal i-j of the band
	w    int // band width in diagonals

	step       int
	marks      map[int][]int32 // rows i with i%step == 0, and row len(a)
	block      [][]int32       // rows blockStart..blockStart+step
	blockStart int
}

// newAligner prepares the band for sequences at edit distance dist.
func newAligner(a, b []int, dist int) *aligner {
	n, m := len(a), len(b)
	delta := n - m
	al := &aligner{
		a:    a,
		b:    b,
		kHi:  (dist + delta) / 2,
		w:    dist + 1,
		step: int(math.Sqrt(float64(n))) + 1,
	}
	al.marks = make(map[int][]int32, n/al.step+2)

	cur := make([]int32, al.w)
	next := make([]int32, al.w)
	for i := n; i >= 0; i-- {
		al.fillRow(i, cur, next)
		if i%al.step == 0 || i == n {
			al.marks[i] = append([]int32(nil), cur...)
		}
		cur, next = next, cur
	}

	al.block = make([][]int32, al.step+1)
	for i := range al.block {
		al.block[i] = make([]int32, al.w)
	}
	al.blockStart = -1
	return al
}

// fillRow computes G for row i into cur, given row i+1 in next.
// Row slot t holds column j = i - kHi + t.
func (al *aligner) fillRow(i int, cur, next []int32) {
	n, m := len(al.a), len(al.b)
	for t := al.w - 1; t >= 0; t-- {
		j := i - al.kHi + t
		switch {
		case j < 0 || j > m:
			cur[t] = unreachable
		case i == n:
			cur[t] = int32(m - j)
		case j == m:
			cur[t] = int32(n - i)
		case al.a[i] == al.b[j]:
			cur[t] = next[t]
		default:
			best := int32(unreachable)
			if t > 0 && next[t-1] < best {
				best = next[t-1]
			}
			if t+1 < al.w && cur[t+1] < best {
				best = cur[t+1]
			}
			if best != unreachable {
				best++
			}
			cur[t] = best
		}
	}
}

// row returns G for row i. Rows must be requested in non-decreasing order
// of their block.
func (al *aligner) row(i int) []int32 {
	if al.blockStart < 0 || i < al.blockStart || i > al.blockStart+al.step {
		al.loadBlock(i - i%al.step)
	}
	return al.block[i-al.blockStart]
}

func (al *aligner) loadBlock(start int) {
	end := min(start+al.step, len(al.a))
	copy(al.block[end-start], al.marks[end])
	for i := end - 1; i >= start; i-- {
		al.fillRow(i, al.block[i-start], al.block[i-start+1])
	}
	al.blockStart = start
}

func (al *aligner) dist(i, j int) int32 {
	t := j - i + al.kHi
	if t < 0 || t >= al.w {
		return unreachable
	}
	return al.row(i)[t]
}

// walk emits the matches of the leftmost optimal path, offset by off.
func (al *aligner) walk(out *scriptBuilder, off int) {
	n, m := len(al.a), len(al.b)
	i, j := 0, 0
	for i < n && j < m {
		if al.a[i] == al.b[j] {
			out.match(off+i, off+j, 1)
			i++
			j++
			continue
		}
		here := al.dist(i, j)
		if al.dist(i+1, j) == here-1 {
			i++
		} else {
			j++
		}
	}
}
