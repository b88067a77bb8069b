package profile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Krimson/reelspin/internal/ease"
	"github.com/Krimson/reelspin/internal/rng"
	"github.com/Krimson/reelspin/internal/spin"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "profile.yaml", `
curve: linear
shift_degrees: 0
reels:
  - cycles: 1
    duration_seconds: [1, 2]
  - cycles: [2, 3]
    duration_seconds: 2
  - cycles: 4
    duration_seconds: 3
camera:
  origin: {x: 0, y: 0, z: 5}
  shakes_per_second: 20
  amplitude: 0.1
effects:
  camera_shake: true
`)

	profile, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if profile.Curve != "linear" || profile.ShiftDegrees != 0 {
		t.Errorf("unexpected curve/shift: %s/%v", profile.Curve, profile.ShiftDegrees)
	}
	if profile.Reels[0].DurationSeconds != spin.Between(1, 2) || profile.Reels[2].Cycles != spin.Fixed(4) {
		t.Errorf("unexpected reels %+v", profile.Reels)
	}
	if profile.Camera.Origin.Z != 5 || profile.Camera.ShakesPerSecond != 20 {
		t.Errorf("unexpected camera %+v", profile.Camera)
	}
	if !profile.Effects.CameraShake || profile.Effects.SlotGlitch {
		t.Errorf("unexpected effects %+v", profile.Effects)
	}

	opts, err := profile.Options(nil)
	if err != nil {
		t.Fatalf("Options failed: %v", err)
	}
	if opts.Shift != 0 || opts.Curve(0.25) != 0.25 {
		t.Error("options do not reflect the profile")
	}
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	path := writeFile(t, "profile.yaml", "curve: easeOutCubic\n")

	profile, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if profile.Reels != spin.DefaultConfig() || profile.Camera != spin.DefaultCamera() {
		t.Error("missing sections should keep defaults")
	}
}

func TestLoad_Invalid(t *testing.T) {
	unknownCurve := writeFile(t, "curve.yaml", "curve: bounce\n")
	if _, err := Load(unknownCurve); !errors.Is(err, ease.ErrUnknownCurve) {
		t.Errorf("expected ErrUnknownCurve, got %v", err)
	}

	badReels := writeFile(t, "reels.yaml", `
reels:
  - {cycles: 1, duration_seconds: 0}
  - {cycles: 1, duration_seconds: 1}
  - {cycles: 1, duration_seconds: 1}
`)
	if _, err := Load(badReels); !errors.Is(err, spin.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}


func TestEffectsApply(t *testing.T) {
	o, err := spin.New(spin.DefaultConfig(), spin.Options{Random: rng.NewSequence(0.5)})
	if err != nil {
		t.Fatalf("spin.New failed: %v", err)
	}

	Effects{CameraShake: true, CaptionGlitch: true}.Apply(o)

	state := o.Effects()
	if !state.CameraShake || state.SlotGlitch || !state.CaptionGlitch {
		t.Errorf("unexpected effects %+v", state)
	}
}
