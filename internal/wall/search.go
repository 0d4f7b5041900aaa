package wall

import (
	"strings"

	"lovewall-backend/internal/domains/couple/model"
)

// Search directions for cycling through matches.
const (
	SearchForward  = "next"
	SearchBackward = "prev"
)

// FirstMatch returns the index of the first couple whose names contain the
// query, case-insensitively, or -1 when nothing matches or the query is
// empty.
func FirstMatch(couples []model.CoupleResponse, query string) int {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return -1
	}

	for i, c := range couples {
		if strings.Contains(strings.ToLower(c.Names), q) {
			return i
		}
	}
	return -1
}

// CycleMatch finds the next or previous match relative to position `from`,
// wrapping around the list. Repeated triggers with the returned index cycle
// through every match. Returns -1 when there is no match at all.
func CycleMatch(couples []model.CoupleResponse, query string, from int, direction string) int {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || len(couples) == 0 {
		return -1
	}

	n := len(couples)
	if from < 0 || from >= n {
		from = 0
	}

	step := 1
	if direction == SearchBackward {
		step = -1
	}

	for offset := 1; offset <= n; offset++ {
		i := ((from+step*offset)%n + n) % n
		if strings.Contains(strings.ToLower(couples[i].Names), q) {
			return i
		}
	}
	return -1
}
