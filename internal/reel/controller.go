package reel

import (
	"errors"
	"fmt"
	"math"

	"github.com/Krimson/reelspin/internal/ease"
)

const (
	// DigitCount количество граней барабана
	DigitCount = 10

	degreesPerDigit = 360.0 / DigitCount
	fullTurn        = 2 * math.Pi
)

// DefaultShift поворот, при котором цифра 0 смотрит в камеру
var DefaultShift = Radians(18)

var (
	ErrInvalidDigit  = errors.New("digit must be in [0,9]")
	ErrInvalidCycles = errors.New("cycles must be non-negative")
)

// Spin параметры одного вращения барабана
type Spin struct {
	Digit           int
	Cycles          int
	DurationSeconds float64
}

// Controller управляет углом одного барабана
type Controller struct {
	angle    float64
	shift    float64
	progress *ease.Progress
}

// NewController создаёт барабан, установленный на цифру 0
func NewController(shift float64, curve ease.Curve) *Controller {
	c := &Controller{
		shift:    shift,
		progress: ease.NewProgress(curve),
	}
	c.angle = c.AngleForDigit(0, 0)
	return c
}

// AngleForDigit целевой угол для цифры с учётом полных оборотов
func (c *Controller) AngleForDigit(digit, cycles int) float64 {
	return Radians(degreesPerDigit*float64(digit)+360*float64(cycles)) + c.shift
}

// SpinTo запускает вращение от текущего угла к цифре
func (c *Controller) SpinTo(spin Spin) error {
	if spin.Digit < 0 || spin.Digit >= DigitCount {
		return fmt.Errorf("%w: %d", ErrInvalidDigit, spin.Digit)
	}
	if spin.Cycles < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCycles, spin.Cycles)
	}

	target := c.AngleForDigit(spin.Digit, spin.Cycles)
	start := c.normalizedAngle()

	if err := c.progress.Start(start, target, spin.DurationSeconds); err != nil {
		return fmt.Errorf("failed to start reel spin: %w", err)
	}

	c.angle = start
	return nil
}

// Tick продвигает вращение; после завершения угол не меняется
func (c *Controller) Tick(deltaSeconds float64) {
	if c.progress.Complete() {
		return
	}
	c.progress.Update(deltaSeconds)
	c.angle = c.progress.Value()
}

func (c *Controller) Complete() bool {
	return c.progress.Complete()
}

// Angle текущий угол в радианах
func (c *Controller) Angle() float64 {
	return c.angle
}

func (c *Controller) Shift() float64 {
	return c.shift
}

// normalizedAngle угол, приведённый к одному полному обороту
func (c *Controller) normalizedAngle() float64 {
	return c.angle - math.Floor(c.angle/fullTurn)*fullTurn
}

// Radians переводит градусы в радианы
func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
