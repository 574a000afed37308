package geometry

// TileGrid produces the placements for a tiled watermark: a row-major grid
// covering the base image, starting at origin and advancing by mark+gap on
// each axis. Generation stops once a placement's origin passes the base
// bounds. The origin placement is always produced, even when the step is
// degenerate (a zero gap means dense tiling; a non-positive step never
// loops forever).
func TileGrid(base, mark Size, gap, origin Point2D) []Point2D {
	xs := axisSteps(origin.X, mark.Width+gap.X, base.Width)
	ys := axisSteps(origin.Y, mark.Height+gap.Y, base.Height)

	placements := make([]Point2D, 0, len(xs)*len(ys))
	for _, y := range ys {
		for _, x := range xs {
			placements = append(placements, Point2D{X: x, Y: y})
		}
	}
	return placements
}

// axisSteps returns the placement coordinates along one axis. The start
// coordinate is always included.
func axisSteps(start, step, extent float64) []float64 {
	steps := []float64{start}
	if step <= 0 {
		return steps
	}
	for v := start + step; v < extent; v += step {
		steps = append(steps, v)
	}
	return steps
}
