// SPDX-License-Identifier: EPL-2.0

package utils

// CatmullRom interpolates between p1 and p2 at fraction t in [0, 1], using
// p0 and p3 as the neighbouring samples.
func CatmullRom(p0, p1, p2, p3, t float32) float32 {
	a := 1.5*(p1-p2) + 0.5*(p3-p0)
	b := p0 - 2.5*p1 + 2*p2 - 0.5*p3
	c := 0.5 * (p2 - p0)

	return ((a*t+b)*t+c)*t + p1
}
