package geo

import "math"

const (
	degToRad = math.Pi / 180
	radToDeg = 180 / math.Pi
)

// DegreesToRadians converts an angle in degrees to radians.
func DegreesToRadians(deg float64) float64 { return deg * degToRad }

// RadiansToDegrees converts an angle in radians to degrees.
func RadiansToDegrees(rad float64) float64 { return rad * radToDeg }
