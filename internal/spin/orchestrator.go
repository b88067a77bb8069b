package spin

import (
	"fmt"

	"github.com/Krimson/reelspin/internal/ease"
	"github.com/Krimson/reelspin/internal/reel"
	"github.com/Krimson/reelspin/internal/rng"
	"github.com/Krimson/reelspin/internal/shake"
)

// State состояние последовательности вращений
type State int

const (
	StateIdle State = iota
	StateSpinning
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSpinning:
		return "spinning"
	case StateFinished:
		return "finished"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*s = StateIdle
	case "spinning":
		*s = StateSpinning
	case "finished":
		*s = StateFinished
	default:
		return fmt.Errorf("unknown spin state %q", text)
	}
	return nil
}

// CameraConfig параметры дрожания камеры
type CameraConfig struct {
	Origin          shake.Vec3 `json:"origin" yaml:"origin"`
	ShakesPerSecond float64    `json:"shakes_per_second" yaml:"shakes_per_second"`
	Amplitude       float64    `json:"amplitude" yaml:"amplitude"`
}

// DefaultCamera камера смотрит на барабаны спереди
func DefaultCamera() CameraConfig {
	return CameraConfig{
		Origin:          shake.Vec3{X: 0, Y: -0.9, Z: 10.8},
		ShakesPerSecond: 35,
		Amplitude:       0.7,
	}
}

// Options зависимости и колбэки оркестратора
type Options struct {
	Random rng.Source
	Curve  ease.Curve
	// Shift поворот барабана в радианах, при котором цифра 0 смотрит в камеру
	Shift  float64
	Camera CameraConfig

	OnSpinStart  func(number int)
	OnSpinFinish func(number int)
}

// DefaultOptions настройки по умолчанию с источником случайности от текущего времени
func DefaultOptions() Options {
	return Options{
		Random: rng.New(0),
		Curve:  ease.EaseOutQuint,
		Shift:  reel.DefaultShift,
		Camera: DefaultCamera(),
	}
}

// Orchestrator запускает вращения трёх барабанов и ставит запросы в очередь.
// Не потокобезопасен, вызывающий код сериализует RequestSpin и Tick.
type Orchestrator struct {
	reels  [ReelCount]*reel.Controller
	config Config
	rnd    rng.Source

	state         State
	currentNumber int
	queue         []int

	camera  *shake.Shake
	effects effects

	onSpinStart  func(number int)
	onSpinFinish func(number int)
}

// New создаёт оркестратор в состоянии idle
func New(cfg Config, opts Options) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if opts.Random == nil {
		opts.Random = rng.New(0)
	}
	if opts.Curve == nil {
		opts.Curve = ease.EaseOutQuint
	}

	o := &Orchestrator{
		config:       cfg,
		rnd:          opts.Random,
		state:        StateIdle,
		camera:       shake.New(opts.Camera.Origin, opts.Camera.ShakesPerSecond, opts.Camera.Amplitude, opts.Random),
		onSpinStart:  opts.OnSpinStart,
		onSpinFinish: opts.OnSpinFinish,
	}
	for i := range o.reels {
		o.reels[i] = reel.NewController(opts.Shift, opts.Curve)
	}

	return o, nil
}

// RequestSpin запускает вращение к числу или ставит его в очередь, если вращение уже идёт
func (o *Orchestrator) RequestSpin(number int) error {
	if number < MinNumber || number > MaxNumber {
		return fmt.Errorf("%w: %d", ErrOutOfRange, number)
	}

	if o.state == StateSpinning {
		o.queue = append(o.queue, number)
		return nil
	}

	o.start(number)
	return nil
}

// RequestSpinValue то же, что RequestSpin, для числа из внешнего ввода
func (o *Orchestrator) RequestSpinValue(v float64) error {
	number, err := ValidateNumber(v)
	if err != nil {
		return err
	}
	return o.RequestSpin(number)
}

// Tick продвигает барабаны, эффекты и проверяет завершение вращения
func (o *Orchestrator) Tick(deltaSeconds float64) {
	for _, r := range o.reels {
		r.Tick(deltaSeconds)
	}

	if o.effects.cameraShake {
		o.camera.Tick(deltaSeconds)
	}
	o.updateGlitch()

	o.checkFinished()
}

func (o *Orchestrator) checkFinished() {
	if o.state != StateSpinning {
		return
	}
	for _, r := range o.reels {
		if !r.Complete() {
			return
		}
	}

	o.state = StateFinished
	if o.onSpinFinish != nil {
		o.onSpinFinish(o.currentNumber)
	}

	if len(o.queue) > 0 {
		next := o.queue[0]
		o.queue = o.queue[1:]
		o.start(next)
	}
}

// start запускает все барабаны; вход уже проверен
func (o *Orchestrator) start(number int) {
	o.currentNumber = number
	o.state = StateSpinning

	digits := DivideToThreeDigits(number)
	for i, r := range o.reels {
		params := o.config[i]
		spin := reel.Spin{
			Digit:           digits[i],
			Cycles:          params.Cycles.SampleInt(o.rnd),
			DurationSeconds: params.DurationSeconds.SampleFloat(o.rnd),
		}
		if err := r.SpinTo(spin); err != nil {
			panic(fmt.Sprintf("reel %d rejected validated spin %+v: %v", i, spin, err))
		}
	}

	if o.onSpinStart != nil {
		o.onSpinStart(number)
	}
}

// SetSpinConfig заменяет конфигурацию целиком; применяется со следующего вращения
func (o *Orchestrator) SetSpinConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.config = cfg
	return nil
}

func (o *Orchestrator) SpinConfig() Config {
	return o.config
}

// IsSpinning true, пока идёт вращение
func (o *Orchestrator) IsSpinning() bool {
	return o.state == StateSpinning
}

func (o *Orchestrator) State() State {
	return o.state
}

// CurrentNumber последнее запущенное число
func (o *Orchestrator) CurrentNumber() int {
	return o.currentNumber
}

// Pending копия очереди ожидающих чисел
func (o *Orchestrator) Pending() []int {
	pending := make([]int, len(o.queue))
	copy(pending, o.queue)
	return pending
}

// ReelAngles текущие углы барабанов в радианах
func (o *Orchestrator) ReelAngles() [ReelCount]float64 {
	var angles [ReelCount]float64
	for i, r := range o.reels {
		angles[i] = r.Angle()
	}
	return angles
}
