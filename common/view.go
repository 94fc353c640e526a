package common

const (
	TPS = 60

	BaseWidth  = 640
	BaseHeight = 360

	// PixelsPerUnit converts world units to screen pixels at zoom 1.
	PixelsPerUnit = 32.0

	// Gravity is the world gravity in units per second squared.
	Gravity = -20.0
)

// WorldToScreen maps a world point (Y up) to a screen point (Y down) for a
// camera centered on camX, camY.
func WorldToScreen(x, y, camX, camY, zoom float64) (float64, float64) {
	if zoom <= 0 {
		zoom = 1
	}
	sx := (x-camX)*PixelsPerUnit*zoom + BaseWidth/2
	sy := BaseHeight/2 - (y-camY)*PixelsPerUnit*zoom
	return sx, sy
}

// ScreenToWorld is the inverse of WorldToScreen.
func ScreenToWorld(sx, sy, camX, camY, zoom float64) (float64, float64) {
	if zoom <= 0 {
		zoom = 1
	}
	x := (sx-BaseWidth/2)/(PixelsPerUnit*zoom) + camX
	y := (BaseHeight/2-sy)/(PixelsPerUnit*zoom) + camY
	return x, y
}
