package core

import (
	"math"
	"testing"
)

func TestSampleCosineHalfPlane(t *testing.T) {
	normal := Normalize(Vec(1, 2))
	sampler := NewPCGSampler(42, 7)

	const n = 200000
	sumCos := 0.0
	for i := 0; i < n; i++ {
		dir := SampleCosineHalfPlane(normal, sampler.Get1D())
		if math.Abs(dir.Length()-1) > 1e-9 {
			t.Fatalf("Expected unit direction, got length %g", dir.Length())
		}
		cos := dir.Dot(normal)
		if cos < -1e-12 {
			t.Fatalf("Direction %v is below the surface", dir)
		}
		sumCos += cos
	}

	// E[cosθ] for density cosθ/2 on [-π/2, π/2] is π/4
	mean := sumCos / n
	if math.Abs(mean-math.Pi/4) > 0.005 {
		t.Errorf("Expected mean cosine %.4f, got %.4f", math.Pi/4, mean)
	}
}

func TestSampleUniformHalfPlane(t *testing.T) {
	normal := Vec(0, -1)
	sampler := NewPCGSampler(1, 2)

	const n = 200000
	sumCos := 0.0
	for i := 0; i < n; i++ {
		dir := SampleUniformHalfPlane(normal, sampler.Get1D())
		cos := dir.Dot(normal)
		if cos < -1e-12 {
			t.Fatalf("Direction %v is below the surface", dir)
		}
		sumCos += cos
	}

	// E[cosθ] for uniform θ on [-π/2, π/2] is 2/π
	mean := sumCos / n
	if math.Abs(mean-2/math.Pi) > 0.005 {
		t.Errorf("Expected mean cosine %.4f, got %.4f", 2/math.Pi, mean)
	}
}

func TestPCGSampler_Reseed(t *testing.T) {
	sampler := NewPCGSampler(3, 4)
	first := []float64{sampler.Get1D(), sampler.Get1D(), sampler.Get1D()}

	sampler.Get2D()
	sampler.Reseed(3, 4)
	for i, want := range first {
		if got := sampler.Get1D(); got != want {
			t.Errorf("Sample %d after reseed: expected %g, got %g", i, want, got)
		}
	}

	sampler.Reseed(3, 5)
	if sampler.Get1D() == first[0] {
		t.Error("Expected a different stream for a different seed")
	}
}

func TestSplitMix64_Spreads(t *testing.T) {
	seen := make(map[uint64]bool)
	for i := uint64(0); i < 1000; i++ {
		v := SplitMix64(i)
		if seen[v] {
			t.Fatalf("Collision at input %d", i)
		}
		seen[v] = true
	}
	if SplitMix64(0) == 0 {
		t.Error("Expected zero input to be mixed")
	}
}

func TestSpawnRay_OffsetsAlongNormal(t *testing.T) {
	point := Vec(1, 0)
	normal := Vec(1, 0)

	outgoing := SpawnRay(point, normal, Vec(1, 1))
	if outgoing.Origin.X <= point.X {
		t.Errorf("Expected origin pushed outward, got %v", outgoing.Origin)
	}

	inward := SpawnRay(point, normal, Vec(-1, 0))
	if inward.Origin.X >= point.X {
		t.Errorf("Expected origin pushed inward, got %v", inward.Origin)
	}
	if math.Abs(point.Sub(inward.Origin).Length()-Epsilon) > 1e-15 {
		t.Errorf("Expected offset of %g", Epsilon)
	}
	if !math.IsInf(inward.TMax, 1) || inward.TMin != 0 {
		t.Errorf("Expected fresh interval, got (%g, %g]", inward.TMin, inward.TMax)
	}
}

func TestSpectrum_Transmittance(t *testing.T) {
	sigma := NewSpectrum(0, 1, 2)
	got := sigma.Transmittance(0.5)
	want := NewSpectrum(1, math.Exp(-0.5), math.Exp(-1))
	if math.Abs(got.R-want.R) > 1e-12 || math.Abs(got.G-want.G) > 1e-12 || math.Abs(got.B-want.B) > 1e-12 {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if !got.IsFinite() || NewSpectrum(math.NaN(), 0, 0).IsFinite() {
		t.Error("IsFinite mismatch")
	}
}

func TestSpectrum_GammaCorrect(t *testing.T) {
	got := NewSpectrum(0, 0.25, 1).GammaCorrect(2)
	if got.R != 0 || got.G != 0.5 || got.B != 1 {
		t.Errorf("Expected (0, 0.5, 1), got %v", got)
	}
	if same := Gray(0.3).GammaCorrect(1); same != Gray(0.3) {
		t.Errorf("Gamma 1 should be the identity, got %v", same)
	}
}
