package ease

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDuration длительность анимации должна быть положительной
var ErrInvalidDuration = errors.New("duration must be positive")

// Progress нормализованный прогресс анимации от одного значения к другому.
// Внутренний прогресс идёт от 0 к 1, а для обратного диапазона (min > max) от 1 к 0.
type Progress struct {
	curve Curve

	minValue  float64
	maxValue  float64
	userRange float64

	speed    float64
	reversed bool

	minProgress float64
	maxProgress float64
	current     float64
}

// NewProgress создаёт прогресс с функцией формы; nil означает линейную
func NewProgress(curve Curve) *Progress {
	if curve == nil {
		curve = Linear
	}
	return &Progress{curve: curve}
}

// Start запускает прогресс от minValue к maxValue за durationSeconds секунд
func (p *Progress) Start(minValue, maxValue, durationSeconds float64) error {
	if !(durationSeconds > 0) || math.IsInf(durationSeconds, 1) {
		return fmt.Errorf("%w: %v", ErrInvalidDuration, durationSeconds)
	}

	p.minValue = minValue
	p.maxValue = maxValue
	p.userRange = maxValue - minValue
	p.speed = 1 / durationSeconds
	p.reversed = minValue > maxValue

	if p.reversed {
		p.minProgress, p.maxProgress = 1, 0
	} else {
		p.minProgress, p.maxProgress = 0, 1
	}
	p.current = p.minProgress

	return nil
}

// Update продвигает прогресс на deltaSeconds; после завершения ничего не делает
func (p *Progress) Update(deltaSeconds float64) {
	if !(deltaSeconds > 0) || p.Complete() {
		return
	}

	step := deltaSeconds * p.speed
	if p.reversed {
		p.current = math.Max(p.current-step, 0)
	} else {
		p.current = math.Min(p.current+step, 1)
	}
}

// Value текущее значение в пользовательском диапазоне
func (p *Progress) Value() float64 {
	switch p.current {
	case p.maxProgress:
		return p.maxValue
	case p.minProgress:
		return p.minValue
	}

	shaped := p.curve(p.current)
	value := (shaped-p.minProgress)*p.userRange/(p.maxProgress-p.minProgress) + p.minValue

	lo, hi := math.Min(p.minValue, p.maxValue), math.Max(p.minValue, p.maxValue)
	return math.Min(math.Max(value, lo), hi)
}

// Complete true, когда внутренний прогресс достиг конечной границы
func (p *Progress) Complete() bool {
	return p.current == p.maxProgress
}

// Progress сырой внутренний прогресс
func (p *Progress) Progress() float64 {
	return p.current
}
