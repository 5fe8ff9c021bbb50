package core

import "math"

// Spectrum is an RGB light quantity (radiance, attenuation or albedo)
type Spectrum struct {
	R, G, B float64
}

// NewSpectrum creates a new Spectrum
func NewSpectrum(r, g, b float64) Spectrum {
	return Spectrum{R: r, G: g, B: b}
}

// Gray returns a spectrum with the same value in every channel
func Gray(v float64) Spectrum {
	return Spectrum{R: v, G: v, B: v}
}

// Add returns the channel-wise sum of two spectra
func (s Spectrum) Add(other Spectrum) Spectrum {
	return Spectrum{s.R + other.R, s.G + other.G, s.B + other.B}
}

// Sub returns the channel-wise difference of two spectra
func (s Spectrum) Sub(other Spectrum) Spectrum {
	return Spectrum{s.R - other.R, s.G - other.G, s.B - other.B}
}

// Multiply returns the spectrum scaled by a scalar
func (s Spectrum) Multiply(scalar float64) Spectrum {
	return Spectrum{s.R * scalar, s.G * scalar, s.B * scalar}
}

// MultiplySpectrum returns the channel-wise product of two spectra
func (s Spectrum) MultiplySpectrum(other Spectrum) Spectrum {
	return Spectrum{s.R * other.R, s.G * other.G, s.B * other.B}
}

// Transmittance returns exp(-distance * s) per channel, the Beer-Lambert transmittance
// for absorption coefficient s over the given distance.
func (s Spectrum) Transmittance(distance float64) Spectrum {
	return Spectrum{
		R: math.Exp(-s.R * distance),
		G: math.Exp(-s.G * distance),
		B: math.Exp(-s.B * distance),
	}
}

// Clamp returns a spectrum with channels clamped to [min, max]
func (s Spectrum) Clamp(minVal, maxVal float64) Spectrum {
	return Spectrum{
		R: max(minVal, min(maxVal, s.R)),
		G: max(minVal, min(maxVal, s.G)),
		B: max(minVal, min(maxVal, s.B)),
	}
}

// GammaCorrect applies gamma correction to each channel
func (s Spectrum) GammaCorrect(gamma float64) Spectrum {
	invGamma := 1.0 / gamma
	return Spectrum{
		R: math.Pow(s.R, invGamma),
		G: math.Pow(s.G, invGamma),
		B: math.Pow(s.B, invGamma),
	}
}

// Luminance returns the perceptual luminance of the spectrum
// Uses standard luminance weights: 0.299*R + 0.587*G + 0.114*B
func (s Spectrum) Luminance() float64 {
	return 0.299*s.R + 0.587*s.G + 0.114*s.B
}

// MaxComponent returns the largest channel value
func (s Spectrum) MaxComponent() float64 {
	return max(s.R, s.G, s.B)
}

// IsBlack reports whether every channel is zero or negative
func (s Spectrum) IsBlack() bool {
	return s.R <= 0 && s.G <= 0 && s.B <= 0
}

// IsFinite reports whether every channel is a finite number
func (s Spectrum) IsFinite() bool {
	for _, c := range [3]float64{s.R, s.G, s.B} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
