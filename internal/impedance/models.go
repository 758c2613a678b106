package impedance

import (
	"fmt"
	"math"

	"github.com/san-kum/vfpsim/internal/constants"
	"github.com/san-kum/vfpsim/internal/mathx"
)

// mode-sum terms past this argument are exponentially suppressed
const airyCutoff = 60.0

// FreeSpaceCSR is the steady-state coherent synchrotron radiation
// impedance of a bend without boundaries:
//
//	Z(n) = Z0 * Gamma(2/3)/3^(1/3) * (i n)^(1/3)
//
// with n = f/f0 the revolution harmonic.
func FreeSpaceCSR(n int, f0, fMax float64) (*Impedance, error) {
	imp, err := newImpedance(n, fMax)
	if err != nil {
		return nil, err
	}
	amp := constants.Z0 * math.Gamma(2.0/3.0) / math.Cbrt(3)
	// (i)^(1/3) = exp(i pi/6)
	re := amp * math.Cos(math.Pi/6)
	im := amp * math.Sin(math.Pi/6)
	for k := 1; k < n; k++ {
		cbrtN := math.Cbrt(imp.Freq(k) / f0)
		imp.z[k] = complex(re*cbrtN, im*cbrtN)
	}
	return imp, nil
}

// ParallelPlatesCSR is the CSR impedance shielded by perfectly
// conducting plates a full gap apart, as the Airy mode sum
//
//	Z(n) = Z0 * (4 pi^2 / g) * (2/k)^(1/3) * R^(2/3) * sum_p F(u_p)
//	F(u) = Ai'(u)[Ai'(u) - i Bi'(u)] + u Ai(u)[Ai(u) - i Bi(u)]
//	u_p  = (p pi / g)^2 * (R / (2 k^2))^(2/3),  p odd
//
// truncated where u_p passes the suppression cutoff.
func ParallelPlatesCSR(n int, f0, fMax, gap float64) (*Impedance, error) {
	if gap <= 0 {
		return nil, fmt.Errorf("parallel plates need a positive gap, got %g", gap)
	}
	imp, err := newImpedance(n, fMax)
	if err != nil {
		return nil, err
	}
	rBend := constants.C / (2 * math.Pi * f0)
	for k := 1; k < n; k++ {
		nh := imp.Freq(k) / f0
		kw := nh / rBend
		uScale := math.Pow(rBend/(2*kw*kw), 2.0/3.0)
		var sum complex128
		for p := 1; ; p += 2 {
			beta := float64(p) * math.Pi / gap
			u := beta * beta * uScale
			if u > airyCutoff {
				break
			}
			ai, aip, bi, bip := mathx.Airy(u)
			sum += complex(aip*aip+u*ai*ai, -(aip*bip + u*ai*bi))
		}
		pre := constants.Z0 * 4 * math.Pi * math.Pi / gap *
			math.Cbrt(2/kw) * math.Pow(rBend, 2.0/3.0)
		imp.z[k] = complex(pre, 0) * sum
	}
	return imp, nil
}

// ResistiveWall is the thick-wall impedance of a round chamber of
// half aperture b, conductivity sigma and magnetic susceptibility
// chi, scaling with the square root of frequency.
func ResistiveWall(n int, f0, fMax, sigma, chi, halfGap float64) (*Impedance, error) {
	if sigma <= 0 || halfGap <= 0 {
		return nil, fmt.Errorf("resistive wall needs positive conductivity and aperture")
	}
	imp, err := newImpedance(n, fMax)
	if err != nil {
		return nil, err
	}
	circumference := constants.C / f0
	pre := circumference / (2 * math.Pi * halfGap)
	for k := 1; k < n; k++ {
		s := pre * math.Sqrt(constants.Z0*(1+chi)*math.Pi*imp.Freq(k)/(sigma*constants.C))
		imp.z[k] = complex(s, -s)
	}
	return imp, nil
}

// CollimatorImpedance is the geometric step impedance of an aperture
// reduction from the chamber half gap to the collimator radius,
// constant over frequency.
func CollimatorImpedance(n int, fMax, halfGap, radius float64) (*Impedance, error) {
	if radius <= 0 || halfGap <= radius {
		return nil, fmt.Errorf("collimator radius %g must be positive and below the half gap %g",
			radius, halfGap)
	}
	imp, err := newImpedance(n, fMax)
	if err != nil {
		return nil, err
	}
	z := complex(constants.Z0/math.Pi*math.Log(halfGap/radius), 0)
	for k := 1; k < n; k++ {
		imp.z[k] = z
	}
	return imp, nil
}
