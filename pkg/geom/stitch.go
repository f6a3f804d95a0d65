package geom

import "math"

// FuseTolerance is the distance within which two segment endpoints are
// considered the same point during stitching.
const FuseTolerance = 1e-5

// StitchResult is the output of stitching a segment soup.
type StitchResult struct {
	Rings      []Ring
	OpenChains int // chains that could not be closed and were discarded
}

type hashKey struct {
	ix, iy int64
}

// segmentHash indexes segment endpoints on a grid of FuseTolerance-sized
// cells. Lookups scan the 3x3 cell neighborhood so near-misses across a
// cell boundary still fuse.
type segmentHash struct {
	cells map[hashKey][]int // endpoint encoded as 2*seg (A) or 2*seg+1 (B)
	segs  []Segment
}

func newSegmentHash(segs []Segment) *segmentHash {
	h := &segmentHash{
		cells: make(map[hashKey][]int, len(segs)*2),
		segs:  segs,
	}
	for i, s := range segs {
		h.insert(s.A, 2*i)
		h.insert(s.B, 2*i+1)
	}
	return h
}

func keyOf(pt Point) hashKey {
	return hashKey{
		ix: int64(math.Round(pt.X / FuseTolerance)),
		iy: int64(math.Round(pt.Y / FuseTolerance)),
	}
}

func (h *segmentHash) insert(pt Point, ref int) {
	k := keyOf(pt)
	h.cells[k] = append(h.cells[k], ref)
}

// endpoint returns the point an encoded reference stands for.
func (h *segmentHash) endpoint(ref int) Point {
	if ref%2 == 0 {
		return h.segs[ref/2].A
	}
	return h.segs[ref/2].B
}

// find returns encoded endpoint references within FuseTolerance of pt.
func (h *segmentHash) find(pt Point) []int {
	k := keyOf(pt)
	var out []int
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for _, ref := range h.cells[hashKey{ix: k.ix + dx, iy: k.iy + dy}] {
				if h.endpoint(ref).Sub(pt).Length() <= FuseTolerance {
					out = append(out, ref)
				}
			}
		}
	}
	return out
}

// Stitch pairs plane-intersection segments by shared endpoints and
// assembles them into closed rings. Chains that cannot be closed are
// discarded and counted, never fatal.
func Stitch(segs []Segment) StitchResult {
	var result StitchResult
	if len(segs) == 0 {
		return result
	}

	h := newSegmentHash(segs)
	used := make([]bool, len(segs))

	for start := range segs {
		if used[start] {
			continue
		}
		used[start] = true
		ring := Ring{segs[start].A}
		cursor := segs[start].B
		closed := false

		for {
			if cursor.Sub(ring[0]).Length() <= FuseTolerance {
				closed = true
				break
			}
			next := -1
			var nextEnd Point
			for _, ref := range h.find(cursor) {
				si := ref / 2
				if used[si] {
					continue
				}
				next = si
				if ref%2 == 0 {
					nextEnd = segs[si].B
				} else {
					nextEnd = segs[si].A
				}
				break
			}
			if next < 0 {
				break
			}
			used[next] = true
			ring = append(ring, cursor)
			cursor = nextEnd
		}

		if closed && len(ring) >= 3 {
			result.Rings = append(result.Rings, dedupRing(ring))
		} else {
			result.OpenChains++
		}
	}
	return result
}

// dedupRing removes consecutive points closer than the fuse tolerance.
func dedupRing(r Ring) Ring {
	out := make(Ring, 0, len(r))
	for _, pt := range r {
		if len(out) > 0 && pt.Sub(out[len(out)-1]).Length() <= FuseTolerance {
			continue
		}
		out = append(out, pt)
	}
	if len(out) > 1 && out[0].Sub(out[len(out)-1]).Length() <= FuseTolerance {
		out = out[:len(out)-1]
	}
	return out
}
