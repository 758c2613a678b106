package mathx

import (
	"math"
	"testing"
)

func TestAiryKnownValues(t *testing.T) {
	cases := []struct {
		x                 float64
		ai, aip, bi, bip  float64
	}{
		{0, 0.3550280539, -0.2588194038, 0.6149266274, 0.4482883574},
		{1, 0.1352924163, -0.1591474413, 1.2074235950, 0.9324359334},
		{2, 0.0349241304, -0.0530903844, 3.2980949999, 4.1006820460},
	}
	for _, c := range cases {
		ai, aip, bi, bip := Airy(c.x)
		if math.Abs(ai-c.ai) > 1e-8 {
			t.Errorf("Ai(%g) = %.10f, want %.10f", c.x, ai, c.ai)
		}
		if math.Abs(aip-c.aip) > 1e-8 {
			t.Errorf("Ai'(%g) = %.10f, want %.10f", c.x, aip, c.aip)
		}
		if math.Abs(bi-c.bi) > 1e-7 {
			t.Errorf("Bi(%g) = %.10f, want %.10f", c.x, bi, c.bi)
		}
		if math.Abs(bip-c.bip) > 1e-7 {
			t.Errorf("Bi'(%g) = %.10f, want %.10f", c.x, bip, c.bip)
		}
	}
}

func TestAiryWronskian(t *testing.T) {
	// Ai(x) Bi'(x) - Ai'(x) Bi(x) = 1/pi on both branches
	want := 1 / math.Pi
	for _, x := range []float64{0, 0.5, 2, 4.5, 4.99, 5.01, 8, 15, 30} {
		ai, aip, bi, bip := Airy(x)
		w := ai*bip - aip*bi
		if math.Abs(w-want)/want > 1e-7 {
			t.Errorf("Wronskian at x=%g: %.12f, want %.12f", x, w, want)
		}
	}
}

func TestAiryCrossoverContinuity(t *testing.T) {
	aiL, aipL, biL, bipL := Airy(4.999)
	aiR, aipR, biR, bipR := Airy(5.001)
	for _, pair := range [][2]float64{{aiL, aiR}, {aipL, aipR}, {biL, biR}, {bipL, bipR}} {
		rel := math.Abs(pair[0]-pair[1]) / math.Abs(pair[0])
		if rel > 1e-2 {
			t.Errorf("branch mismatch at crossover: %g vs %g", pair[0], pair[1])
		}
	}
}

func TestAiryDecayAndGrowth(t *testing.T) {
	ai10, _, bi10, _ := Airy(10)
	ai20, _, bi20, _ := Airy(20)
	if ai20 >= ai10 || ai10 <= 0 {
		t.Errorf("Ai must decay: Ai(10)=%g, Ai(20)=%g", ai10, ai20)
	}
	if bi20 <= bi10 || bi10 <= 0 {
		t.Errorf("Bi must grow: Bi(10)=%g, Bi(20)=%g", bi10, bi20)
	}
	// products stay finite well into the asymptotic regime
	ai, aip, bi, bip := Airy(60)
	for _, v := range []float64{ai * bi, aip * bip} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("Airy product not finite at x=60: %g", v)
		}
	}
}
