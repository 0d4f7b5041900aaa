// Package geometry generates the discrete point set that falls inside a
// heart silhouette. Pure functions of their numeric inputs; callers are free
// to memoize results per size.
package geometry

// TileSize is the side length of one grid cell in display units.
const TileSize = 20.0

// MaxPoints is a hard safety cap on generated points. In practice the
// bounding size keeps counts far below it.
const MaxPoints = 1_000_000

// Point is a coordinate inside the heart silhouette eligible to host one
// tile, tagged with its position in scan order.
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Index int     `json:"index"`
}

// GenerateHeartPoints partitions a size×size bounding square into TileSize
// cells and emits a point for every cell whose top-left corner lies inside
// the heart curve, in row-major scan order (top-to-bottom, left-to-right).
// The scan order is significant: it determines which positions fill first as
// the submission count grows, so it must stay stable.
func GenerateHeartPoints(centerX, centerY, size float64) []Point {
	if size <= 0 {
		return nil
	}

	gridSize := int(size / TileSize)
	points := make([]Point, 0, gridSize*gridSize/2)

	index := 0
	for row := 0; row < gridSize; row++ {
		for col := 0; col < gridSize; col++ {
			x := float64(col) * TileSize
			y := float64(row) * TileSize

			if !inHeart(x, y, size) {
				continue
			}

			points = append(points, Point{
				X:     centerX - size/2 + x,
				Y:     centerY - size/2 + y,
				Index: index,
			})
			index++

			if index >= MaxPoints {
				return points
			}
		}
	}

	return points
}

// inHeart tests cell membership against the implicit heart curve
// (x²+y²−1)³ − x²·y³ ≤ 0 after normalizing coordinates into [-1,1]².
func inHeart(x, y, size float64) bool {
	nx := (x/size)*2 - 1
	ny := (y/size)*2 - 1

	x2 := nx * nx
	y2 := ny * ny

	base := x2 + y2 - 1
	heartValue := base*base*base - x2*(ny*ny*ny)

	return heartValue <= 0
}
