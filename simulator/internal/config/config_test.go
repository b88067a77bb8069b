package config

import (
	"errors"
	"testing"
	"time"

	"github.com/Krimson/reelspin/internal/spin"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Emulator.Spins) != 3 || cfg.Emulator.Spins[2] != 999 {
		t.Errorf("unexpected default spins %v", cfg.Emulator.Spins)
	}
	if cfg.Emulator.FPS != 60 || cfg.Emulator.FrameEvery != 1 || cfg.Emulator.Seed != 1 {
		t.Errorf("unexpected defaults %+v", cfg.Emulator)
	}
	if cfg.Emulator.MaxDuration != 10*time.Minute {
		t.Errorf("expected 10m limit, got %v", cfg.Emulator.MaxDuration)
	}
	if cfg.Output.FilePath != "data/frames.jsonl" {
		t.Errorf("unexpected output %q", cfg.Output.FilePath)
	}
	if cfg.Profile.Reels != spin.DefaultConfig() {
		t.Error("expected default profile")
	}
}

func TestLoad_Flags(t *testing.T) {
	cfg, err := Load([]string{"-spins", "1, 2 ,3", "-fps", "30", "-every", "5", "-seed", "9", "-output", "out.jsonl"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := cfg.Emulator.Spins; len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("unexpected spins %v", got)
	}
	if cfg.Emulator.Step() != 1.0/30 {
		t.Errorf("expected step 1/30, got %v", cfg.Emulator.Step())
	}
	if cfg.Emulator.FrameEvery != 5 || cfg.Emulator.Seed != 9 || cfg.Output.FilePath != "out.jsonl" {
		t.Errorf("flags not applied: %+v %+v", cfg.Emulator, cfg.Output)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero fps", []string{"-fps", "0"}},
		{"zero every", []string{"-every", "0"}},
		{"bad duration", []string{"-max-duration", "soon"}},
		{"missing profile", []string{"-profile", "/nonexistent/profile.yaml"}},
		{"unknown flag", []string{"-speed", "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.args); err == nil {
				t.Errorf("expected error for %v", tt.args)
			}
		})
	}
}

func TestParseSpins(t *testing.T) {
	if _, err := ParseSpins("1000"); !errors.Is(err, spin.ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
	if _, err := ParseSpins("4.5"); !errors.Is(err, spin.ErrNotInteger) {
		t.Errorf("expected ErrNotInteger, got %v", err)
	}
	if _, err := ParseSpins("abc"); err == nil {
		t.Error("expected parse error")
	}
	if _, err := ParseSpins(" , "); !errors.Is(err, ErrNoSpins) {
		t.Errorf("expected ErrNoSpins, got %v", err)
	}
}
