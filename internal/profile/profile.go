package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Krimson/reelspin/internal/ease"
	"github.com/Krimson/reelspin/internal/reel"
	"github.com/Krimson/reelspin/internal/rng"
	"github.com/Krimson/reelspin/internal/spin"
)

// Profile параметры анимации вращения, загружаемые из YAML
type Profile struct {
	Curve        string            `yaml:"curve"`
	ShiftDegrees float64           `yaml:"shift_degrees"`
	Reels        spin.Config       `yaml:"reels"`
	Camera       spin.CameraConfig `yaml:"camera"`
	Effects      Effects           `yaml:"effects"`
}

// Effects эффекты, включённые при старте
type Effects struct {
	CameraShake   bool `yaml:"camera_shake"`
	SlotGlitch    bool `yaml:"slot_glitch"`
	CaptionGlitch bool `yaml:"caption_glitch"`
}

// Default профиль по умолчанию, все эффекты выключены
func Default() Profile {
	return Profile{
		Curve:        "easeOutQuint",
		ShiftDegrees: 18,
		Reels:        spin.DefaultConfig(),
		Camera:       spin.DefaultCamera(),
	}
}

// Load читает YAML поверх профиля по умолчанию
func Load(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read spin profile: %w", err)
	}

	p := Default()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("failed to parse spin profile %s: %w", path, err)
	}

	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (p Profile) Validate() error {
	if _, err := ease.CurveByName(p.Curve); err != nil {
		return fmt.Errorf("invalid spin profile: %w", err)
	}
	return p.Reels.Validate()
}

// Options собирает настройки оркестратора из профиля
func (p Profile) Options(rnd rng.Source) (spin.Options, error) {
	curve, err := ease.CurveByName(p.Curve)
	if err != nil {
		return spin.Options{}, err
	}

	return spin.Options{
		Random: rnd,
		Curve:  curve,
		Shift:  reel.Radians(p.ShiftDegrees),
		Camera: p.Camera,
	}, nil
}

// Apply включает эффекты профиля на оркестраторе
func (e Effects) Apply(o *spin.Orchestrator) {
	o.SetCameraShake(e.CameraShake)
	o.SetSlotGlitch(e.SlotGlitch)
	o.SetCaptionGlitch(e.CaptionGlitch)
}
