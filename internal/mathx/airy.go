// Package mathx holds the special functions the impedance models need
// that gonum does not provide.
package mathx

import "math"

// Ai(0), -Ai'(0)
const (
	airyC1 = 0.35502805388781723926
	airyC2 = 0.25881940379280679841
)

const airySeriesCutoff = 5.0

// Airy returns Ai, Ai', Bi and Bi' for real x >= 0. Below the
// crossover the Maclaurin series is used, above it the standard
// asymptotic expansions. Valid up to x of about 100, past which Bi
// overflows; the impedance mode sum truncates long before that.
func Airy(x float64) (ai, aip, bi, bip float64) {
	if x < airySeriesCutoff {
		return airySeries(x)
	}
	return airyAsymptotic(x)
}

func airySeries(x float64) (ai, aip, bi, bip float64) {
	if x == 0 {
		return airyC1, -airyC2, math.Sqrt(3) * airyC1, math.Sqrt(3) * airyC2
	}
	x3 := x * x * x

	// f = sum x^{3k} prod 1/((3m-1)(3m)), g = sum x^{3k+1} prod 1/((3m)(3m+1))
	tf, f, fp := 1.0, 1.0, 0.0
	tg, g, gp := x, x, 1.0
	for k := 1; k < 64; k++ {
		k3 := float64(3 * k)
		tf *= x3 / ((k3 - 1) * k3)
		tg *= x3 / (k3 * (k3 + 1))
		f += tf
		g += tg
		fp += tf * k3 / x
		gp += tg * (k3 + 1) / x
		if tf < 1e-18*f && tg < 1e-18*g {
			break
		}
	}
	ai = airyC1*f - airyC2*g
	aip = airyC1*fp - airyC2*gp
	s3 := math.Sqrt(3)
	bi = s3 * (airyC1*f + airyC2*g)
	bip = s3 * (airyC1*fp + airyC2*gp)
	return ai, aip, bi, bip
}

func airyAsymptotic(x float64) (ai, aip, bi, bip float64) {
	zeta := 2.0 / 3.0 * x * math.Sqrt(x)
	x4 := math.Sqrt(math.Sqrt(x))
	sp := 1 / math.Sqrt(math.Pi)

	// u_k and v_k expansion coefficients; stop at the smallest term
	var sumAi, sumBi, sumAip, sumBip float64
	u := 1.0
	sign := 1.0
	prev := math.Inf(1)
	for k := 0; k < 24; k++ {
		v := u
		if k > 0 {
			v = u * (6*float64(k) + 1) / (1 - 6*float64(k))
		}
		zk := math.Pow(zeta, float64(k))
		term := u / zk
		if math.Abs(term) > prev {
			break
		}
		prev = math.Abs(term)
		sumAi += sign * term
		sumBi += term
		sumAip += sign * v / zk
		sumBip += v / zk
		kk := float64(k + 1)
		u *= (6*kk - 5) * (6*kk - 3) * (6*kk - 1) / ((2*kk - 1) * 216 * kk)
		sign = -sign
	}

	em := math.Exp(-zeta)
	ep := math.Exp(zeta)
	ai = 0.5 * sp * em / x4 * sumAi
	bi = sp * ep / x4 * sumBi
	aip = -0.5 * sp * x4 * em * sumAip
	bip = sp * x4 * ep * sumBip
	return ai, aip, bi, bip
}
