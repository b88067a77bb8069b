package spin

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/Krimson/reelspin/internal/rng"
)

// ReelCount количество барабанов (сотни, десятки, единицы)
const ReelCount = 3

// ErrInvalidConfig конфигурация вращения не прошла проверку
var ErrInvalidConfig = errors.New("invalid spin config")

// Range фиксированное значение (Min == Max) или диапазон [Min, Max]
type Range struct {
	Min float64
	Max float64
}

// Fixed диапазон из одного значения
func Fixed(v float64) Range {
	return Range{Min: v, Max: v}
}

// Between диапазон [min, max]
func Between(min, max float64) Range {
	return Range{Min: min, Max: max}
}

func (r Range) IsFixed() bool {
	return r.Min == r.Max
}

// SampleInt равномерное целое из [Min, Max]
func (r Range) SampleInt(src rng.Source) int {
	if r.IsFixed() {
		return int(r.Min)
	}
	return int(math.Floor(src.Float64()*(r.Max-r.Min+1)) + r.Min)
}

// SampleFloat равномерное вещественное из [Min, Max)
func (r Range) SampleFloat(src rng.Source) float64 {
	if r.IsFixed() {
		return r.Min
	}
	return r.Min + src.Float64()*(r.Max-r.Min)
}

// MarshalJSON фиксированное значение пишется числом, диапазон парой [min, max]
func (r Range) MarshalJSON() ([]byte, error) {
	if r.IsFixed() {
		return json.Marshal(r.Min)
	}
	return json.Marshal([2]float64{r.Min, r.Max})
}

func (r *Range) UnmarshalJSON(data []byte) error {
	var single float64
	if err := json.Unmarshal(data, &single); err == nil {
		*r = Fixed(single)
		return nil
	}

	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("range must be a number or [min, max]: %w", err)
	}
	return r.fromPair(pair)
}

func (r Range) MarshalYAML() (interface{}, error) {
	if r.IsFixed() {
		return r.Min, nil
	}
	return []float64{r.Min, r.Max}, nil
}

func (r *Range) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var single float64
		if err := value.Decode(&single); err != nil {
			return fmt.Errorf("range must be a number or [min, max]: %w", err)
		}
		*r = Fixed(single)
		return nil
	}

	var pair []float64
	if err := value.Decode(&pair); err != nil {
		return fmt.Errorf("range must be a number or [min, max]: %w", err)
	}
	return r.fromPair(pair)
}

func (r *Range) fromPair(pair []float64) error {
	if len(pair) != 2 {
		return fmt.Errorf("range must have exactly 2 elements, got %d", len(pair))
	}
	*r = Between(pair[0], pair[1])
	return nil
}

// ReelConfig диапазоны оборотов и длительности для одного барабана
type ReelConfig struct {
	Cycles          Range `json:"cycles" yaml:"cycles"`
	DurationSeconds Range `json:"duration_seconds" yaml:"duration_seconds"`
}

// Config настройки трёх барабанов, от старшего разряда к младшему
type Config [ReelCount]ReelConfig

// DefaultConfig барабаны останавливаются по очереди слева направо
func DefaultConfig() Config {
	return Config{
		{Cycles: Between(2, 4), DurationSeconds: Between(7, 10)},
		{Cycles: Between(4, 6), DurationSeconds: Between(11, 14)},
		{Cycles: Between(7, 11), DurationSeconds: Between(17, 20)},
	}
}

// Validate проверяет, что любая выборка из диапазонов даст корректное вращение
func (c Config) Validate() error {
	for i, reel := range c {
		if err := validateCycles(reel.Cycles); err != nil {
			return fmt.Errorf("%w: reel %d cycles: %v", ErrInvalidConfig, i, err)
		}
		if err := validateDuration(reel.DurationSeconds); err != nil {
			return fmt.Errorf("%w: reel %d duration: %v", ErrInvalidConfig, i, err)
		}
	}
	return nil
}

func validateCycles(r Range) error {
	if !isInteger(r.Min) || !isInteger(r.Max) {
		return fmt.Errorf("bounds must be integers, got [%v, %v]", r.Min, r.Max)
	}
	if r.Min < 0 {
		return fmt.Errorf("min must be non-negative, got %v", r.Min)
	}
	if r.Min > r.Max {
		return fmt.Errorf("min %v greater than max %v", r.Min, r.Max)
	}
	return nil
}

func validateDuration(r Range) error {
	if !(r.Min > 0) || math.IsInf(r.Max, 0) {
		return fmt.Errorf("bounds must be positive and finite, got [%v, %v]", r.Min, r.Max)
	}
	if r.Min > r.Max {
		return fmt.Errorf("min %v greater than max %v", r.Min, r.Max)
	}
	return nil
}

func isInteger(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v == math.Trunc(v)
}
