package common

import "github.com/go-gl/mathgl/mgl64"

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Clamp01 limits t to [0, 1].
func Clamp01(t float64) float64 {
	return mgl64.Clamp(t, 0, 1)
}

// LerpVec3 interpolates between a and b with t clamped to [0, 1]. The ends
// are returned exactly so a finished interpolation lands on b without
// rounding error.
func LerpVec3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	t = Clamp01(t)
	switch t {
	case 0:
		return a
	case 1:
		return b
	}
	return a.Add(b.Sub(a).Mul(t))
}
