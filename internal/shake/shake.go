package shake

import (
	"math"

	"github.com/Krimson/reelspin/internal/rng"
)

// Vec3 точка в пространстве сцены
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Shake дрожание точки вокруг исходной позиции с заданной частотой.
// Смещение одностороннее: point = origin - amplitude*U по каждой оси.
type Shake struct {
	origin    Vec3
	current   Vec3
	amplitude float64

	maxDelay float64
	delay    float64

	rnd rng.Source
}

// New создаёт дрожание; shakesPerSecond <= 0 отключает пересэмплирование
func New(origin Vec3, shakesPerSecond, amplitude float64, rnd rng.Source) *Shake {
	s := &Shake{
		origin:    origin,
		current:   origin,
		amplitude: amplitude,
		rnd:       rnd,
	}
	s.SetFrequency(shakesPerSecond)
	return s
}

// SetFrequency меняет частоту без сброса накопленной задержки
func (s *Shake) SetFrequency(shakesPerSecond float64) {
	if !(shakesPerSecond > 0) {
		s.maxDelay = math.Inf(1)
		return
	}
	s.maxDelay = 1 / shakesPerSecond
}

func (s *Shake) SetAmplitude(amplitude float64) {
	s.amplitude = amplitude
}

// SetOrigin переносит центр дрожания, текущая точка обновится при следующем сэмпле
func (s *Shake) SetOrigin(origin Vec3) {
	s.origin = origin
}

// Tick накапливает время и пересэмплирует точку, когда накопилась задержка
func (s *Shake) Tick(deltaSeconds float64) {
	if !(deltaSeconds > 0) {
		return
	}

	s.delay += deltaSeconds
	if s.delay < s.maxDelay {
		return
	}

	s.delay = 0
	s.current = Vec3{
		X: s.origin.X - s.amplitude*s.rnd.Float64(),
		Y: s.origin.Y - s.amplitude*s.rnd.Float64(),
		Z: s.origin.Z - s.amplitude*s.rnd.Float64(),
	}
}

// Point текущая точка
func (s *Shake) Point() Vec3 {
	return s.current
}

func (s *Shake) Origin() Vec3 {
	return s.origin
}

func (s *Shake) Amplitude() float64 {
	return s.amplitude
}

// Frequency количество пересэмплирований в секунду; 0 если отключено
func (s *Shake) Frequency() float64 {
	if math.IsInf(s.maxDelay, 1) {
		return 0
	}
	return 1 / s.maxDelay
}

// Reset возвращает точку в исходную позицию и обнуляет задержку
func (s *Shake) Reset() {
	s.current = s.origin
	s.delay = 0
}
