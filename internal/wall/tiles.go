// Package wall renders ordered submissions onto the heart geometry and
// serves the wall, carousel and album views through per-view caches.
package wall

import (
	"fmt"

	"lovewall-backend/internal/domains/couple/model"
	"lovewall-backend/internal/wall/geometry"
)

// DisplayDenominator is the fixed "spots taken" denominator shown to users,
// independent of the actual on-screen capacity.
const DisplayDenominator = 1_000_000

// Tile pairs a geometry point with either a submission or nothing. Entirely
// ephemeral; recomputed on every render pass.
type Tile struct {
	Point  geometry.Point        `json:"point"`
	Couple *model.CoupleResponse `json:"couple,omitempty"`
	Empty  bool                  `json:"empty"`
}

// Layout is the result of zipping submissions onto geometry points.
type Layout struct {
	Tiles       []Tile `json:"tiles"`
	FilledCount int    `json:"filledCount"`
	Capacity    int    `json:"capacity"`
}

// AssignTiles maps the i-th submission in creation order onto the i-th point
// in scan order. Both inputs arrive totally ordered (submissions by createdAt
// ascending with id as tie-break, points by scan order), so the assignment is
// deterministic and stable across re-renders. Points beyond the submission
// count render empty; submissions beyond the point count are not rendered on
// this surface (the album still shows them).
func AssignTiles(couples []model.CoupleResponse, points []geometry.Point) Layout {
	filled := len(couples)
	if len(points) < filled {
		filled = len(points)
	}

	tiles := make([]Tile, len(points))
	for i, p := range points {
		if i < filled {
			tiles[i] = Tile{Point: p, Couple: &couples[i]}
		} else {
			tiles[i] = Tile{Point: p, Empty: true}
		}
	}

	return Layout{
		Tiles:       tiles,
		FilledCount: filled,
		Capacity:    len(points),
	}
}

// Progress returns the percentage of the display denominator taken, capped
// at 100.
func Progress(filled int) float64 {
	pct := float64(filled) / float64(DisplayDenominator) * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// FormatProgress renders the "spots taken" narrative line.
func FormatProgress(filled int) string {
	return fmt.Sprintf("%s / %s spots taken", groupThousands(filled), groupThousands(DisplayDenominator))
}

func groupThousands(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var out []byte
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}
