package grid

import "fmt"

// Ruler is an affine axis: n sample points evenly spaced on [min, max].
// Immutable after construction.
type Ruler struct {
	min   float64
	max   float64
	n     int
	delta float64
}

func NewRuler(n int, min, max float64) (*Ruler, error) {
	if n < 2 {
		return nil, fmt.Errorf("ruler needs at least 2 points, got %d", n)
	}
	if max <= min {
		return nil, fmt.Errorf("ruler range invalid: [%g, %g]", min, max)
	}
	return &Ruler{
		min:   min,
		max:   max,
		n:     n,
		delta: (max - min) / float64(n-1),
	}, nil
}

func (r *Ruler) N() int         { return r.n }
func (r *Ruler) Min() float64   { return r.min }
func (r *Ruler) Max() float64   { return r.max }
func (r *Ruler) Delta() float64 { return r.delta }

// Coord returns the coordinate of sample i.
func (r *Ruler) Coord(i int) float64 {
	return r.min + float64(i)*r.delta
}

// Index returns the fractional sample index of coordinate x.
func (r *Ruler) Index(x float64) float64 {
	return (x - r.min) / r.delta
}
