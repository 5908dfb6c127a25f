package attendance

import (
	"sort"
	"strconv"
)

// rollLess orders roll numbers numerically. Rolls that parse as integers come
// first by value (equal values fall back to the raw text, so "007" < "7");
// all other rolls follow in lexicographic order.
func rollLess(a, b string) bool {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		if na != nb {
			return na < nb
		}
		return a < b
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}

func sortStudents(students []Student) {
	sort.SliceStable(students, func(i, j int) bool {
		return rollLess(students[i].RollNo, students[j].RollNo)
	})
}

func sortPresence(rows []PresenceRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rollLess(rows[i].RollNo, rows[j].RollNo)
	})
}
