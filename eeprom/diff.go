package eeprom

import (
	"iter"

	"github.com/bits-and-blooms/bitset"
)

// DiffEntry is one offset at which two images disagree.
type DiffEntry struct {
	Offset int
	A      byte
	B      byte

	// Region is the label of the most specific region containing Offset, or
	// "" outside the layout.
	Region string
}

// Comparison is the result of diffing two images. Entries are computed on
// demand each time they are ranged over.
type Comparison struct {
	a, b Image
}

func Diff(a, b Image) *Comparison {
	return &Comparison{a: a, b: b}
}

func (c *Comparison) LenA() int { return c.a.Len() }
func (c *Comparison) LenB() int { return c.b.Len() }

// LengthMismatch reports whether the images differ in size. Bytes past the
// shorter image are not reported as entries.
func (c *Comparison) LengthMismatch() bool {
	return c.a.Len() != c.b.Len()
}

func (c *Comparison) shared() int {
	return min(c.a.Len(), c.b.Len())
}

// Entries yields differing offsets in ascending order.
func (c *Comparison) Entries() iter.Seq[DiffEntry] {
	return func(yield func(DiffEntry) bool) {
		a, b := c.a.data, c.b.data
		for off := 0; off < c.shared(); off++ {
			if a[off] == b[off] {
				continue
			}
			if !yield(DiffEntry{Offset: off, A: a[off], B: b[off], Region: LabelAt(off)}) {
				return
			}
		}
	}
}

// Collect returns up to limit entries; limit <= 0 means all of them.
func (c *Comparison) Collect(limit int) []DiffEntry {
	var entries []DiffEntry
	for e := range c.Entries() {
		if limit > 0 && len(entries) >= limit {
			break
		}
		entries = append(entries, e)
	}
	return entries
}

// Offsets returns the set of differing offsets.
func (c *Comparison) Offsets() *bitset.BitSet {
	set := bitset.New(uint(c.shared()))
	for e := range c.Entries() {
		set.Set(uint(e.Offset))
	}
	return set
}

func (c *Comparison) Count() int {
	return int(c.Offsets().Count())
}

// Identical reports whether the images have the same length and content.
func (c *Comparison) Identical() bool {
	if c.LengthMismatch() {
		return false
	}
	for range c.Entries() {
		return false
	}
	return true
}

// RegionCount is the number of differing bytes attributed to one label.
type RegionCount struct {
	Region string
	Count  int
}

// Touched counts differing bytes per most-specific region label, ordered by
// the first differing offset in each. Differences outside every region are
// counted under "".
func (c *Comparison) Touched() []RegionCount {
	diffs := c.Offsets()
	if diffs.None() {
		return nil
	}

	counts := map[string]int{}
	var order []string
	for i, ok := diffs.NextSet(0); ok; i, ok = diffs.NextSet(i + 1) {
		label := LabelAt(int(i))
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label]++
	}

	touched := make([]RegionCount, 0, len(order))
	for _, label := range order {
		touched = append(touched, RegionCount{Region: label, Count: counts[label]})
	}
	return touched
}
