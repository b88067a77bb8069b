package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Krimson/reelspin/internal/spin"
)

// EventType тип события вращения
type EventType string

const (
	EventSpinStarted  EventType = "spin_started"
	EventSpinFinished EventType = "spin_finished"
)

// Event событие старта или завершения вращения
type Event struct {
	Type   EventType           `json:"type"`
	Number int                 `json:"number"`
	Digits [spin.ReelCount]int `json:"digits"`
	At     time.Time           `json:"at"`
}

// EventHandler получает события в порядке их возникновения
type EventHandler interface {
	HandleEvent(ctx context.Context, event Event)
}

// FrameSink получает снимок состояния после каждого кадра
type FrameSink interface {
	PublishFrame(frame spin.Frame)
}

// SpinStatus результат запроса вращения
type SpinStatus string

const (
	SpinStatusStarted SpinStatus = "started"
	SpinStatusQueued  SpinStatus = "queued"
)

// Settings параметры цикла кадров
type Settings struct {
	FrameInterval   time.Duration
	MaxFrameDelta   time.Duration
	EventBufferSize int
}

// Stats счётчики работы движка
type Stats struct {
	Frames        uint64 `json:"frames"`
	SpinsStarted  uint64 `json:"spins_started"`
	SpinsFinished uint64 `json:"spins_finished"`
	EventsDropped uint64 `json:"events_dropped"`
}

// Engine хост оркестратора: цикл кадров и сериализация всех обращений к нему
type Engine struct {
	mu      sync.Mutex
	machine *spin.Orchestrator
	// События текущего вызова оркестратора, защищены mu
	pending []Event

	// Сохраняет порядок публикации между вызовами
	publishMu sync.Mutex

	settings Settings
	events   chan Event
	handlers []EventHandler
	sinks    []FrameSink

	logger *zap.SugaredLogger
	now    func() time.Time

	frames        atomic.Uint64
	spinsStarted  atomic.Uint64
	spinsFinished atomic.Uint64
	eventsDropped atomic.Uint64
}

// New создаёт движок; колбэки из opts заменяются собственными
func New(cfg spin.Config, opts spin.Options, settings Settings, logger *zap.SugaredLogger) (*Engine, error) {
	if settings.EventBufferSize <= 0 {
		settings.EventBufferSize = 256
	}

	e := &Engine{
		settings: settings,
		events:   make(chan Event, settings.EventBufferSize),
		logger:   logger,
		now:      time.Now,
	}

	opts.OnSpinStart = func(number int) { e.emit(EventSpinStarted, number) }
	opts.OnSpinFinish = func(number int) { e.emit(EventSpinFinished, number) }

	machine, err := spin.New(cfg, opts)
	if err != nil {
		return nil, err
	}
	e.machine = machine

	return e, nil
}

// AddHandler регистрирует обработчик событий; вызывать до Run
func (e *Engine) AddHandler(h EventHandler) {
	e.handlers = append(e.handlers, h)
}

// AddSink регистрирует получателя кадров; вызывать до Run
func (e *Engine) AddSink(s FrameSink) {
	e.sinks = append(e.sinks, s)
}

// emit вызывается под мьютексом из колбэков оркестратора и только копит события
func (e *Engine) emit(eventType EventType, number int) {
	e.pending = append(e.pending, Event{
		Type:   eventType,
		Number: number,
		Digits: spin.DivideToThreeDigits(number),
		At:     e.now(),
	})
}

// unlockAndPublish отпускает mu и отправляет накопленные события диспетчеру.
// Отправка не блокируется: при переполненном буфере событие отбрасывается.
func (e *Engine) unlockAndPublish() {
	events := e.pending
	e.pending = nil
	if len(events) == 0 {
		e.mu.Unlock()
		return
	}

	e.publishMu.Lock()
	e.mu.Unlock()
	defer e.publishMu.Unlock()

	for _, event := range events {
		select {
		case e.events <- event:
		default:
			e.eventsDropped.Add(1)
			e.logger.Warnf("[WARN] Event buffer full, dropping %s %03d", event.Type, event.Number)
		}
	}
}

// Run крутит цикл кадров до отмены контекста
func (e *Engine) Run(ctx context.Context) error {
	stopDispatch := make(chan struct{})
	dispatchDone := make(chan struct{})
	go e.dispatch(ctx, stopDispatch, dispatchDone)

	e.logger.Infof("[ENGINE] Frame loop started: interval=%v max_delta=%v",
		e.settings.FrameInterval, e.settings.MaxFrameDelta)

	ticker := NewTicker(e.settings.FrameInterval)
	var prev time.Time
	for frameTime := range ticker.Tick(ctx) {
		if !prev.IsZero() {
			e.Step(FrameDelta(prev, frameTime, e.settings.MaxFrameDelta))
		}
		prev = frameTime
	}

	// Последний кадр уже отработал, диспетчер дочитывает буфер
	close(stopDispatch)
	<-dispatchDone
	e.logger.Infof("[ENGINE] Frame loop stopped after %d frames", e.frames.Load())
	return ctx.Err()
}

// Step продвигает оркестратор на deltaSeconds и рассылает кадр
func (e *Engine) Step(deltaSeconds float64) spin.Frame {
	e.mu.Lock()
	e.machine.Tick(deltaSeconds)
	frame := e.machine.Frame()
	e.unlockAndPublish()

	e.frames.Add(1)
	for _, sink := range e.sinks {
		sink.PublishFrame(frame)
	}
	return frame
}

// dispatch доставляет события обработчикам до закрытия stop, затем дочитывает буфер
func (e *Engine) dispatch(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	// Отмена Run не обрывает доставку уже случившихся событий
	deliverCtx := context.WithoutCancel(ctx)

	for {
		select {
		case event := <-e.events:
			e.deliver(deliverCtx, event)
		case <-stop:
			for {
				select {
				case event := <-e.events:
					e.deliver(deliverCtx, event)
				default:
					return
				}
			}
		}
	}
}

func (e *Engine) deliver(ctx context.Context, event Event) {
	switch event.Type {
	case EventSpinStarted:
		e.spinsStarted.Add(1)
		e.logger.Infof("[ENGINE] Spin started: %03d", event.Number)
	case EventSpinFinished:
		e.spinsFinished.Add(1)
		e.logger.Infof("[ENGINE] Spin finished: %03d", event.Number)
	}

	for _, h := range e.handlers {
		h.HandleEvent(ctx, event)
	}
}

// RequestSpin запускает или ставит в очередь вращение к числу из внешнего ввода
func (e *Engine) RequestSpin(value float64) (SpinStatus, error) {
	e.mu.Lock()
	defer e.unlockAndPublish()

	wasSpinning := e.machine.IsSpinning()
	if err := e.machine.RequestSpinValue(value); err != nil {
		return "", err
	}

	if wasSpinning {
		return SpinStatusQueued, nil
	}
	return SpinStatusStarted, nil
}

// Snapshot текущий кадр без продвижения времени
func (e *Engine) Snapshot() spin.Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.Frame()
}

func (e *Engine) IsSpinning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.IsSpinning()
}

func (e *Engine) SpinConfig() spin.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.SpinConfig()
}

// SetSpinConfig заменяет конфигурацию; действует со следующего вращения
func (e *Engine) SetSpinConfig(cfg spin.Config) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.machine.SetSpinConfig(cfg); err != nil {
		return err
	}
	e.logger.Infof("[ENGINE] Spin config updated")
	return nil
}

// EffectsUpdate частичное обновление эффектов; nil поля не меняются
type EffectsUpdate struct {
	CameraShake     *bool    `json:"camera_shake,omitempty"`
	SlotGlitch      *bool    `json:"slot_glitch,omitempty"`
	CaptionGlitch   *bool    `json:"caption_glitch,omitempty"`
	ShakesPerSecond *float64 `json:"shakes_per_second,omitempty"`
	ShakeAmplitude  *float64 `json:"shake_amplitude,omitempty"`
}

// ApplyEffects применяет обновление и возвращает итоговое состояние эффектов
func (e *Engine) ApplyEffects(update EffectsUpdate) spin.EffectsState {
	e.mu.Lock()
	defer e.mu.Unlock()

	if update.ShakesPerSecond != nil {
		e.machine.SetShakeFrequency(*update.ShakesPerSecond)
	}
	if update.ShakeAmplitude != nil {
		e.machine.SetShakeAmplitude(*update.ShakeAmplitude)
	}
	if update.CameraShake != nil {
		e.machine.SetCameraShake(*update.CameraShake)
	}
	if update.SlotGlitch != nil {
		e.machine.SetSlotGlitch(*update.SlotGlitch)
	}
	if update.CaptionGlitch != nil {
		e.machine.SetCaptionGlitch(*update.CaptionGlitch)
	}

	return e.machine.Effects()
}

func (e *Engine) Effects() spin.EffectsState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.Effects()
}

// GetStats возвращает счётчики движка
func (e *Engine) GetStats() Stats {
	return Stats{
		Frames:        e.frames.Load(),
		SpinsStarted:  e.spinsStarted.Load(),
		SpinsFinished: e.spinsFinished.Load(),
		EventsDropped: e.eventsDropped.Load(),
	}
}
