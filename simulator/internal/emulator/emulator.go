package emulator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Krimson/reelspin/internal/profile"
	"github.com/Krimson/reelspin/internal/rng"
	"github.com/Krimson/reelspin/internal/spin"
	"github.com/Krimson/reelspin/simulator/internal/config"
	"github.com/Krimson/reelspin/simulator/internal/senders"
)

// ErrTimeLimit вращения не завершились за отведённое симулированное время
var ErrTimeLimit = errors.New("simulated time limit reached")

// Result итог прогона
type Result struct {
	Frames        int     `json:"frames"`
	FramesWritten int     `json:"frames_written"`
	SpinsFinished int     `json:"spins_finished"`
	Seconds       float64 `json:"seconds"`
}

// Emulator прогоняет оркестратор с фиксированным шагом без реального времени
type Emulator struct {
	machine *spin.Orchestrator
	sender  senders.BatchSender
	config  config.EmulatorConfig
	logger  *zap.SugaredLogger

	clock   float64
	index   int
	batch   []senders.Record
	results Result
}

func NewEmulator(cfg config.EmulatorConfig, p profile.Profile, sender senders.BatchSender, logger *zap.SugaredLogger) (*Emulator, error) {
	e := &Emulator{
		sender: sender,
		config: cfg,
		logger: logger,
	}

	opts, err := p.Options(rng.New(cfg.Seed))
	if err != nil {
		return nil, err
	}
	opts.OnSpinStart = func(number int) { e.event(senders.KindSpinStarted, number) }
	opts.OnSpinFinish = func(number int) {
		e.results.SpinsFinished++
		e.event(senders.KindSpinFinished, number)
	}

	machine, err := spin.New(p.Reels, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create orchestrator: %w", err)
	}
	p.Effects.Apply(machine)
	e.machine = machine

	return e, nil
}

func (e *Emulator) event(kind senders.RecordKind, number int) {
	e.batch = append(e.batch, senders.Record{
		Kind:   kind,
		Index:  e.index,
		Time:   e.clock,
		Number: &number,
	})
	e.index++
}

func (e *Emulator) frame() {
	frame := e.machine.Frame()
	e.batch = append(e.batch, senders.Record{
		Kind:  senders.KindFrame,
		Index: e.index,
		Time:  e.clock,
		Frame: &frame,
	})
	e.index++
	e.results.FramesWritten++
}

func (e *Emulator) flush() error {
	if len(e.batch) == 0 {
		return nil
	}
	err := e.sender.SendBatch(e.batch)
	e.batch = e.batch[:0]
	return err
}

func (e *Emulator) done() bool {
	return e.machine.State() == spin.StateFinished && len(e.machine.Pending()) == 0
}

// Run запрашивает все вращения и крутит кадры, пока очередь не опустеет
func (e *Emulator) Run(ctx context.Context) (Result, error) {
	step := e.config.Step()
	limit := e.config.MaxDuration.Seconds()

	e.logger.Infof("[INFO] Starting simulation: spins=%v fps=%d seed=%d every=%d",
		e.config.Spins, e.config.FPS, e.config.Seed, e.config.FrameEvery)
	startedAt := time.Now()

	for _, number := range e.config.Spins {
		if err := e.machine.RequestSpin(number); err != nil {
			return e.results, fmt.Errorf("failed to request spin %d: %w", number, err)
		}
	}
	e.frame()
	if err := e.flush(); err != nil {
		return e.results, fmt.Errorf("failed to send records: %w", err)
	}

	for !e.done() {
		select {
		case <-ctx.Done():
			return e.results, ctx.Err()
		default:
		}

		if e.clock >= limit {
			return e.results, fmt.Errorf("%w: %.1fs, pending %v", ErrTimeLimit, e.clock, e.machine.Pending())
		}

		e.clock += step
		e.results.Frames++
		e.results.Seconds = e.clock
		e.machine.Tick(step)

		if e.results.Frames%e.config.FrameEvery == 0 || e.done() {
			e.frame()
		}
		if err := e.flush(); err != nil {
			return e.results, fmt.Errorf("failed to send records: %w", err)
		}
	}

	e.logger.Infof("[INFO] Simulation finished: %d frames (%.2fs simulated) in %v, %d frames written",
		e.results.Frames, e.results.Seconds, time.Since(startedAt).Round(time.Millisecond), e.results.FramesWritten)
	return e.results, nil
}
