package domain

import "math"

// Rotate converts grid-relative velocity series into geographic east/north
// components using the local grid rotation angle theta (radians):
//
//	uGeo = u*cos(theta) - v*sin(theta)
//	vGeo = v*cos(theta) + u*sin(theta)
//
// The transform is orthogonal: theta = 0 is the identity, and rotating by
// +theta then -theta reproduces the input up to floating-point tolerance.
func Rotate(u, v []float64, theta float64) ([]float64, []float64) {
	sin, cos := math.Sincos(theta)
	uGeo := make([]float64, len(u))
	vGeo := make([]float64, len(v))
	for t := range u {
		uGeo[t] = u[t]*cos - v[t]*sin
		vGeo[t] = v[t]*cos + u[t]*sin
	}
	return uGeo, vGeo
}
