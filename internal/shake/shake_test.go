package shake

import (
	"math"
	"testing"

	"github.com/Krimson/reelspin/internal/rng"
)

func TestShake_ResampleCadence(t *testing.T) {
	src := rng.NewSequence(0.5)
	s := New(Vec3{X: 1, Y: 2, Z: 3}, 10, 1, src)

	s.Tick(0.05)
	if src.Calls() != 0 {
		t.Fatalf("expected no resample after first half period, got %d random draws", src.Calls())
	}

	s.Tick(0.05)
	if src.Calls() != 3 {
		t.Fatalf("expected exactly one resample (3 draws), got %d draws", src.Calls())
	}

	want := Vec3{X: 0.5, Y: 1.5, Z: 2.5}
	if s.Point() != want {
		t.Errorf("expected point %+v, got %+v", want, s.Point())
	}
}

func TestShake_OneSidedOffset(t *testing.T) {
	origin := Vec3{X: 0, Y: -0.9, Z: 10.8}
	s := New(origin, 35, 0.7, rng.New(3))

	for i := 0; i < 200; i++ {
		s.Tick(1.0 / 60)
		p := s.Point()
		for axis, pair := range [][2]float64{{p.X, origin.X}, {p.Y, origin.Y}, {p.Z, origin.Z}} {
			offset := pair[1] - pair[0]
			if offset < -1e-12 || offset > 0.7+1e-12 {
				t.Fatalf("tick %d axis %d: offset %v outside [0, 0.7]", i, axis, offset)
			}
		}
	}
}

func TestShake_OriginCopied(t *testing.T) {
	origin := Vec3{X: 1, Y: 1, Z: 1}
	s := New(origin, 10, 0.5, rng.NewSequence(0))

	origin.X = 100
	if s.Origin().X != 1 {
		t.Errorf("origin should be held by value, got %v", s.Origin().X)
	}
}

func TestShake_SetFrequencyKeepsAccumulator(t *testing.T) {
	src := rng.NewSequence(0.25)
	s := New(Vec3{}, 10, 1, src)

	s.Tick(0.08)
	s.SetFrequency(20)
	s.Tick(0.001)

	if src.Calls() != 3 {
		t.Errorf("accumulated delay should carry over frequency change, got %d draws", src.Calls())
	}
}

func TestShake_DisabledFrequency(t *testing.T) {
	src := rng.NewSequence(0.25)
	s := New(Vec3{}, 0, 1, src)

	s.Tick(1000)
	if src.Calls() != 0 {
		t.Errorf("expected no resample with zero frequency, got %d draws", src.Calls())
	}
	if s.Frequency() != 0 {
		t.Errorf("expected frequency 0, got %v", s.Frequency())
	}
}

func TestShake_Reset(t *testing.T) {
	origin := Vec3{X: 2, Y: 2, Z: 2}
	s := New(origin, 100, 1, rng.NewSequence(0.9))

	s.Tick(0.5)
	if s.Point() == origin {
		t.Fatal("expected point to move after resample")
	}

	s.Reset()
	if s.Point() != origin {
		t.Errorf("expected point back at origin, got %+v", s.Point())
	}
	if math.Abs(s.Frequency()-100) > 1e-9 {
		t.Errorf("reset should keep frequency, got %v", s.Frequency())
	}
}
