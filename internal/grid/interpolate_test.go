package grid

import (
	"math"
	"testing"
)

func TestLagrangeWeightsSumToOne(t *testing.T) {
	for _, order := range []int{OrderLinear, OrderCubic, OrderQuintic} {
		w := make([]float64, order+1)
		for _, x := range []float64{0, 0.25, 1.5, 3.7, 10.01, 31.99} {
			LagrangeWeights(w, x, order)
			sum := 0.0
			for _, v := range w {
				sum += v
			}
			if math.Abs(sum-1) > 1e-6 {
				t.Errorf("order %d at x=%g: weights sum to %g", order, x, sum)
			}
		}
	}
}

func TestLagrangeWeightsAtNode(t *testing.T) {
	// sampling exactly on a grid point must reproduce it
	for _, order := range []int{OrderLinear, OrderCubic, OrderQuintic} {
		w := make([]float64, order+1)
		anchor := LagrangeWeights(w, 7, order)
		for s, v := range w {
			want := 0.0
			if anchor+s == 7 {
				want = 1
			}
			if math.Abs(v-want) > 1e-14 {
				t.Errorf("order %d: weight[%d] = %g, want %g", order, s, v, want)
			}
		}
	}
}

func TestLagrangeCubicExact(t *testing.T) {
	// cubic interpolation reproduces a cubic polynomial exactly
	f := func(x float64) float64 { return 2 + 3*x - x*x + 0.25*x*x*x }
	w := make([]float64, 4)
	x := 5.3
	anchor := LagrangeWeights(w, x, OrderCubic)
	got := 0.0
	for s, v := range w {
		got += v * f(float64(anchor+s))
	}
	if math.Abs(got-f(x)) > 1e-10 {
		t.Errorf("cubic interpolation of cubic: got %g, want %g", got, f(x))
	}
}

func TestClampIndex(t *testing.T) {
	cases := []struct{ in, n, want int }{
		{-2, 8, 0},
		{0, 8, 0},
		{5, 8, 5},
		{7, 8, 7},
		{9, 8, 7},
	}
	for _, c := range cases {
		if got := ClampIndex(c.in, c.n); got != c.want {
			t.Errorf("ClampIndex(%d, %d) = %d, want %d", c.in, c.n, got, c.want)
		}
	}
}

func TestStencilPoints(t *testing.T) {
	if _, err := StencilPoints(2); err == nil {
		t.Error("expected error for order 2")
	}
	np, err := StencilPoints(5)
	if err != nil || np != 6 {
		t.Errorf("StencilPoints(5) = %d, %v", np, err)
	}
}
