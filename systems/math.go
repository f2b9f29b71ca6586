package systems

import "math"

// Clamp functions for common value ranges

// clampFloat clamps a float32 value between min and max.
func clampFloat(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// clamp01 clamps a float32 value to the [0, 1] range.
func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// clampInt clamps an int between min and max.
func clampInt(v, minVal, maxVal int) int {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// smoothstep is the cubic edge taper t²(3-2t) with t clamped to [0,1].
func smoothstep(t float32) float32 {
	t = clamp01(t)
	return t * t * (3 - 2*t)
}

// Distance functions

// aspectDistanceSq returns the squared grid distance with the x term divided by
// the viewport aspect (height/width), keeping influence circular on screen.
func aspectDistanceSq(dx, dy, aspect float32) float32 {
	return dx*dx/aspect + dy*dy
}

// sqrtf is math.Sqrt for float32.
func sqrtf(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}

// sinf is math.Sin for float32.
func sinf(v float32) float32 {
	return float32(math.Sin(float64(v)))
}

// velocityMagnitude returns the magnitude of a velocity vector.
func velocityMagnitude(vx, vy float32) float32 {
	return sqrtf(vx*vx + vy*vy)
}

// scanBox returns the inclusive cell range [lo, hi] along one axis covering
// every cell within reach of center, clamped to [0, n-1]. One extra cell of
// slack on each side keeps rounding from excluding an in-range cell.
func scanBox(center, reach float32, n int) (lo, hi int) {
	lo = int(math.Floor(float64(center-reach))) - 1
	hi = int(math.Ceil(float64(center+reach))) + 1
	return clampInt(lo, 0, n-1), clampInt(hi, 0, n-1)
}

// floorf is math.Floor for float32.
func floorf(v float32) float32 {
	return float32(math.Floor(float64(v)))
}
