package linediff

import (
	"fmt"
	"math"
)

// Options configures Compute.
type Options struct {
	MaxLines   int        // Per-side line ceiling; 0 disables the check
	Whitespace Whitespace // Line comparison mode
}

// DefaultOptions returns the default diff options.
func DefaultOptions() Options {
	return Options{
		MaxLines:   100000,
		Whitespace: WhitespaceExact,
	}
}

// Compute returns a minimal edit script transforming oldLines into newLines.
//
// When several minimal scripts exist, the one that keeps matched lines as
// early as possible in both sequences is returned: a match is taken as soon
// as one is available, and an old line is dropped before a new one. Myers'
// linear-space O(ND) algorithm finds the edit distance, and a pass over the
// band of optimal paths picks the alignment. Runs of deletions and insertions
// between two matched regions are reported as a single Insert, Delete or
// Replace span.
func Compute(oldLines, newLines []string, opts Options) (Script, error) {
	if opts.MaxLines > 0 && (len(oldLines) > opts.MaxLines || len(newLines) > opts.MaxLines) {
		return Script{}, fmt.Errorf("%w: %d old / %d new lines, limit %d",
			ErrTooLarge, len(oldLines), len(newLines), opts.MaxLines)
	}

	in := NewInterner(opts.Whitespace)
	return computeIDs(in.Intern(oldLines), in.Intern(newLines)), nil
}

func computeIDs(a, b []int) Script {
	var out scriptBuilder
	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	out.match(0, 0, prefix)

	ra, rb := a[prefix:], b[prefix:]
	if len(ra) > 0 && len(rb) > 0 {
		if dist := editDistance(ra, rb); dist < len(ra)+len(rb) {
			newAligner(ra, rb, dist).walk(&out, prefix)
		}
	}
	return out.finish(len(a), len(b))
}

// editDistance returns the number of deleted plus inserted lines of a
// minimal script from a to b.
func editDistance(a, b []int) int {
	d := &differ{
		a:   a,
		b:   b,
		fd:  make([]int, len(a)+len(b)+3),
		bd:  make([]int, len(a)+len(b)+3),
		off: len(b) + 1,
	}
	d.compare(0, len(a), 0, len(b))

	common := 0
	for _, e := range d.out.finish(len(a), len(b)).spans {
		if e.Kind == Equal {
			common += e.OldLen()
		}
	}
	return len(a) + len(b) - 2*common
}

type differ struct {
	a, b   []int
	fd, bd []int // furthest-reaching x per diagonal (x - y), forward and backward
	off    int   // index of diagonal 0 in fd and bd
	out    scriptBuilder
}

// compare diffs a[aLo:aHi] against b[bLo:bHi], emitting matches in order.
func (d *differ) compare(aLo, aHi, bLo, bHi int) {
	prefix := 0
	for aLo+prefix < aHi && bLo+prefix < bHi && d.a[aLo+prefix] == d.b[bLo+prefix] {
		prefix++
	}
	d.out.match(aLo, bLo, prefix)
	aLo += prefix
	bLo += prefix

	suffix := 0
	for aHi-suffix > aLo && bHi-suffix > bLo && d.a[aHi-1-suffix] == d.b[bHi-1-suffix] {
		suffix++
	}
	aHi -= suffix
	bHi -= suffix

	// With the common prefix and suffix stripped and both sides non-empty,
	// the edit distance is at least 2 and the midpoint lies strictly inside
	// the optimal path, so both halves are smaller problems.
	if aLo < aHi && bLo < bHi {
		xm, ym := d.midpoint(aLo, aHi, bLo, bHi)
		d.compare(aLo, xm, bLo, ym)
		d.compare(xm, aHi, ym, bHi)
	}

	d.out.match(aHi, bHi, suffix)
}

// midpoint returns a point on an optimal path through a[xoff:xlim] x
// b[yoff:ylim]. It extends furthest-reaching paths from both corners one
// edit at a time until they meet. Diagonals are bounded to the region, and
// the slots just outside the active range hold sentinels that are never
// chosen. The region must have no common prefix or suffix.
func (d *differ) midpoint(xoff, xlim, yoff, ylim int) (int, int) {
	fd, bd, off := d.fd, d.bd, d.off

	dmin, dmax := xoff-ylim, xlim-yoff
	fmid, bmid := xoff-yoff, xlim-ylim
	fmin, fmax := fmid, fmid
	bmin, bmax := bmid, bmid
	odd := (fmid-bmid)&1 != 0

	fd[off+fmid] = xoff
	bd[off+bmid] = xlim

	for {
		if fmin > dmin {
			fmin--
			fd[off+fmin-1] = -1
		} else {
			fmin++
		}
		if fmax < dmax {
			fmax++
			fd[off+fmax+1] = -1
		} else {
			fmax--
		}
		for k := fmax; k >= fmin; k -= 2 {
			lo, hi := fd[off+k-1], fd[off+k+1]
			x := lo + 1
			if lo < hi {
				x = hi
			}
			y := x - k
			for x < xlim && y < ylim && d.a[x] == d.b[y] {
				x++
				y++
			}
			fd[off+k] = x
			if odd && bmin <= k && k <= bmax && bd[off+k] <= x {
				return x, y
			}
		}

		if bmin > dmin {
			bmin--
			bd[off+bmin-1] = math.MaxInt
		} else {
			bmin++
		}
		if bmax < dmax {
			bmax++
			bd[off+bmax+1] = math.MaxInt
		} else {
			bmax--
		}
		for k := bmax; k >= bmin; k -= 2 {
			lo, hi := bd[off+k-1], bd[off+k+1]
			x := hi - 1
			if lo < hi {
				x = lo
			}
			y := x - k
			for x > xoff && y > yoff && d.a[x-1] == d.b[y-1] {
				x--
				y--
			}
			bd[off+k] = x
			if !odd && fmin <= k && k <= fmax && x <= fd[off+k] {
				return x, y
			}
		}
	}
}
