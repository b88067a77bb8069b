package spin

import (
	"encoding/json"
	"errors"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/Krimson/reelspin/internal/rng"
)

func TestDivideToThreeDigits(t *testing.T) {
	tests := []struct {
		number int
		want   [ReelCount]int
	}{
		{0, [ReelCount]int{0, 0, 0}},
		{7, [ReelCount]int{0, 0, 7}},
		{120, [ReelCount]int{1, 2, 0}},
		{999, [ReelCount]int{9, 9, 9}},
	}

	for _, tt := range tests {
		if got := DivideToThreeDigits(tt.number); got != tt.want {
			t.Errorf("DivideToThreeDigits(%d) = %v, want %v", tt.number, got, tt.want)
		}
	}
}

func TestRange_SampleInt(t *testing.T) {
	r := Between(2, 4)

	if got := r.SampleInt(rng.NewSequence(0)); got != 2 {
		t.Errorf("U=0: expected 2, got %d", got)
	}
	if got := r.SampleInt(rng.NewSequence(0.999)); got != 4 {
		t.Errorf("U=0.999: expected 4, got %d", got)
	}

	src := rng.New(11)
	seen := map[int]bool{}
	for i := 0; i < 500; i++ {
		v := r.SampleInt(src)
		if v < 2 || v > 4 {
			t.Fatalf("sample %d out of [2,4]", v)
		}
		seen[v] = true
	}
	if len(seen) != 3 {
		t.Errorf("expected all of 2..4 to be sampled, got %v", seen)
	}
}

func TestRange_SampleFloat(t *testing.T) {
	if got := Between(7, 10).SampleFloat(rng.NewSequence(0.5)); got != 8.5 {
		t.Errorf("expected 8.5, got %v", got)
	}

	src := rng.NewSequence(0.3)
	if got := Fixed(12).SampleFloat(src); got != 12 {
		t.Errorf("fixed range should return its value, got %v", got)
	}
	if src.Calls() != 0 {
		t.Errorf("fixed range should not draw randomness, got %d draws", src.Calls())
	}
}

func TestRange_JSON(t *testing.T) {
	var cfg ReelConfig
	if err := json.Unmarshal([]byte(`{"cycles": 3, "duration_seconds": [7, 10]}`), &cfg); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if cfg.Cycles != Fixed(3) || cfg.DurationSeconds != Between(7, 10) {
		t.Errorf("unexpected config %+v", cfg)
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"cycles":3,"duration_seconds":[7,10]}` {
		t.Errorf("unexpected JSON %s", data)
	}

	if err := json.Unmarshal([]byte(`{"cycles": [1, 2, 3]}`), &cfg); err == nil {
		t.Error("expected error for three-element range")
	}
}

func TestRange_YAML(t *testing.T) {
	doc := `
- cycles: [2, 4]
  duration_seconds: 8
- cycles: 5
  duration_seconds: [11, 14]
- cycles: [7, 11]
  duration_seconds: [17, 20]
`
	var cfg Config
	if err := yaml.Unmarshal([]byte(doc), &cfg); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if cfg[0].Cycles != Between(2, 4) || cfg[0].DurationSeconds != Fixed(8) {
		t.Errorf("reel 0: unexpected %+v", cfg[0])
	}
	if cfg[1].Cycles != Fixed(5) {
		t.Errorf("reel 1: unexpected %+v", cfg[1])
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"fractional cycles", func(c *Config) { c[0].Cycles = Fixed(1.5) }},
		{"negative cycles", func(c *Config) { c[1].Cycles = Between(-1, 2) }},
		{"inverted cycles", func(c *Config) { c[2].Cycles = Between(5, 4) }},
		{"zero duration", func(c *Config) { c[0].DurationSeconds = Fixed(0) }},
		{"inverted duration", func(c *Config) { c[1].DurationSeconds = Between(3, 2) }},
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestValidateNumber(t *testing.T) {
	n, err := ValidateNumber(999)
	if err != nil || n != 999 {
		t.Errorf("expected 999, got %d (%v)", n, err)
	}
	if _, err := ValidateNumber(0.5); !errors.Is(err, ErrNotInteger) {
		t.Errorf("expected ErrNotInteger, got %v", err)
	}
}
