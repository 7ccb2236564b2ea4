package easing

// Func maps a progress value in [0,1] onto an eased value in [0,1].
type Func func(t float64) float64

// Linear returns t unchanged.
func Linear(t float64) float64 { return t }

// InQuad accelerates away from 0.
func InQuad(t float64) float64 { return t * t }

// OutQuad decelerates towards 1.
func OutQuad(t float64) float64 { return t * (2 - t) }

// OutCubic decelerates towards 1.
func OutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

// InCubic accelerates away from 0.
func InCubic(t float64) float64 {
	return t * t * t
}

// InOutQuad accelerates until 0.5 and decelerates afterwards.
func InOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp01 limits v to [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Map linearly remaps v from [inMin,inMax] onto [outMin,outMax] without clamping.
func Map(v, inMin, inMax, outMin, outMax float64) float64 {
	if inMax == inMin {
		return outMin
	}
	return outMin + (v-inMin)*(outMax-outMin)/(inMax-inMin)
}
