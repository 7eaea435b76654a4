package hashbench

import "sort"

// FrequencyTable maps each observed code to its number of occurrences.
type FrequencyTable map[Code]int

// Total is the number of codes tallied, i.e. the dataset size.
func (t FrequencyTable) Total() int {
	n := 0
	for _, c := range t {
		n += c
	}
	return n
}

// Counts returns the occupancy of every observed code in descending order.
// The chi-square test does not depend on the order; sorting only makes the
// slice reproducible.
func (t FrequencyTable) Counts() []int {
	out := make([]int, 0, len(t))
	for _, c := range t {
		out = append(out, c)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

// MaxLoad is the largest occupancy of any single code, 0 for an empty table.
func (t FrequencyTable) MaxLoad() int {
	m := 0
	for _, c := range t {
		if c > m {
			m = c
		}
	}
	return m
}

// CollisionStats is the outcome of AnalyzeCollisions.
type CollisionStats struct {
	Size       int
	Collisions int
	Unique     int
	Rate       float64
	Table      FrequencyTable
}

// AnalyzeCollisions tallies codes. Collisions counts redundant occurrences,
// the sum of (count-1) over every code seen more than once, not colliding
// pairs, so Collisions+Unique equals the number of codes for any non-empty
// input. The rate is 0 for an empty input.
func AnalyzeCollisions(codes []Code) CollisionStats {
	table := make(FrequencyTable, len(codes))
	for _, c := range codes {
		table[c]++
	}
	st := CollisionStats{
		Size:   len(codes),
		Unique: len(table),
		Table:  table,
	}
	for _, n := range table {
		if n > 1 {
			st.Collisions += n - 1
		}
	}
	if st.Size > 0 {
		st.Rate = float64(st.Collisions) / float64(st.Size)
	}
	return st
}
