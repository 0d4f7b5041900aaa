package geometry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateHeartPoints_Deterministic(t *testing.T) {
	a := GenerateHeartPoints(160, 160, 320)
	b := GenerateHeartPoints(160, 160, 320)

	require.Equal(t, a, b, "identical inputs must produce identical point sets")
}

func TestGenerateHeartPoints_NonEmptyAtDefaultSize(t *testing.T) {
	points := GenerateHeartPoints(160, 160, 320)

	require.NotEmpty(t, points)
	// A 320px heart on a 20px grid can never fill the whole 16x16 square.
	require.Less(t, len(points), 256)
}

func TestGenerateHeartPoints_IndicesAreScanOrder(t *testing.T) {
	points := GenerateHeartPoints(200, 200, 400)

	for i, p := range points {
		require.Equal(t, i, p.Index)
	}

	// Row-major scan: Y never decreases.
	for i := 1; i < len(points); i++ {
		require.GreaterOrEqual(t, points[i].Y, points[i-1].Y)
	}
}

func TestGenerateHeartPoints_CenterOffset(t *testing.T) {
	base := GenerateHeartPoints(160, 160, 320)
	moved := GenerateHeartPoints(660, 410, 320)

	require.Equal(t, len(base), len(moved))
	for i := range base {
		require.InDelta(t, base[i].X+500, moved[i].X, 1e-9)
		require.InDelta(t, base[i].Y+250, moved[i].Y, 1e-9)
	}
}

func TestGenerateHeartPoints_InvalidSize(t *testing.T) {
	require.Nil(t, GenerateHeartPoints(0, 0, 0))
	require.Nil(t, GenerateHeartPoints(0, 0, -100))
}

func TestGenerateHeartPoints_PointsInsideBounds(t *testing.T) {
	size := 480.0
	points := GenerateHeartPoints(size/2, size/2, size)

	for _, p := range points {
		require.GreaterOrEqual(t, p.X, 0.0)
		require.Less(t, p.X, size)
		require.GreaterOrEqual(t, p.Y, 0.0)
		require.Less(t, p.Y, size)
	}
}
