package config

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Krimson/reelspin/internal/profile"
	"github.com/Krimson/reelspin/internal/spin"
)

var ErrNoSpins = errors.New("at least one spin number is required")

type Config struct {
	Emulator EmulatorConfig
	Output   OutputConfig
	Profile  profile.Profile
	LogLevel string
}

type EmulatorConfig struct {
	Spins      []int
	FPS        int
	Seed       int64
	FrameEvery int
	// MaxDuration ограничение симулированного времени
	MaxDuration time.Duration
}

// Step шаг симуляции в секундах
func (c EmulatorConfig) Step() float64 {
	return 1 / float64(c.FPS)
}

type OutputConfig struct {
	FilePath string
	Format   string
}

// Load разбирает параметры командной строки
func Load(args []string) (*Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("simulator", flag.ContinueOnError)

	spins := fs.String("spins", "7,42,999", "Числа через запятую, по порядку запросов")
	fps := fs.Int("fps", 60, "Кадров в секунду симуляции")
	seed := fs.Int64("seed", 1, "Seed генератора случайных чисел")
	outputFile := fs.String("output", "data/frames.jsonl", "Выходной файл")
	every := fs.Int("every", 1, "Писать каждый N-й кадр")
	maxDuration := fs.String("max-duration", "10m", "Предел симулированного времени")
	profilePath := fs.String("profile", "", "YAML профиль вращения")
	logLevel := fs.String("log-level", "info", "Уровень логирования")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	numbers, err := ParseSpins(*spins)
	if err != nil {
		return nil, err
	}

	limit, err := time.ParseDuration(*maxDuration)
	if err != nil {
		return nil, fmt.Errorf("invalid -max-duration: %w", err)
	}

	if *fps <= 0 {
		return nil, fmt.Errorf("-fps must be positive, got %d", *fps)
	}
	if *every < 1 {
		return nil, fmt.Errorf("-every must be at least 1, got %d", *every)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("-max-duration must be positive, got %v", limit)
	}

	cfg.Emulator = EmulatorConfig{
		Spins:       numbers,
		FPS:         *fps,
		Seed:        *seed,
		FrameEvery:  *every,
		MaxDuration: limit,
	}

	cfg.Output = OutputConfig{
		FilePath: *outputFile,
		Format:   "jsonl",
	}

	cfg.Profile = profile.Default()
	if *profilePath != "" {
		cfg.Profile, err = profile.Load(*profilePath)
		if err != nil {
			return nil, err
		}
	}

	cfg.LogLevel = *logLevel

	return &cfg, nil
}

// ParseSpins разбирает список чисел "7,42,999"
func ParseSpins(value string) ([]int, error) {
	var numbers []int
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid spin number %q: %w", part, err)
		}
		number, err := spin.ValidateNumber(v)
		if err != nil {
			return nil, err
		}
		numbers = append(numbers, number)
	}

	if len(numbers) == 0 {
		return nil, ErrNoSpins
	}
	return numbers, nil
}
