package spin

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/Krimson/reelspin/internal/ease"
	"github.com/Krimson/reelspin/internal/reel"
	"github.com/Krimson/reelspin/internal/rng"
)

// eventLog собирает события старта и завершения в порядке вызова
type eventLog struct {
	events []string
}

func (l *eventLog) started(n int)  { l.events = append(l.events, fmt.Sprintf("start:%d", n)) }
func (l *eventLog) finished(n int) { l.events = append(l.events, fmt.Sprintf("finish:%d", n)) }

func fixedConfig(cycles, duration float64) Config {
	var cfg Config
	for i := range cfg {
		cfg[i] = ReelConfig{Cycles: Fixed(cycles), DurationSeconds: Fixed(duration)}
	}
	return cfg
}

func newTestOrchestrator(t *testing.T, cfg Config, log *eventLog) *Orchestrator {
	t.Helper()

	opts := DefaultOptions()
	opts.Random = rng.NewSequence(0.5)
	if log != nil {
		opts.OnSpinStart = log.started
		opts.OnSpinFinish = log.finished
	}

	o, err := New(cfg, opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return o
}

func tickUntilIdle(t *testing.T, o *Orchestrator, delta float64) {
	t.Helper()
	for i := 0; i < 100000 && o.IsSpinning(); i++ {
		o.Tick(delta)
	}
	if o.IsSpinning() {
		t.Fatal("orchestrator still spinning")
	}
}

func TestOrchestrator_SingleSpinLifecycle(t *testing.T) {
	log := &eventLog{}
	o := newTestOrchestrator(t, fixedConfig(1, 0.5), log)

	if o.State() != StateIdle {
		t.Fatalf("expected idle, got %s", o.State())
	}

	if err := o.RequestSpin(427); err != nil {
		t.Fatalf("RequestSpin failed: %v", err)
	}
	if !o.IsSpinning() {
		t.Fatal("expected spinning after request")
	}

	tickUntilIdle(t, o, 1.0/60)

	if o.State() != StateFinished {
		t.Errorf("expected finished, got %s", o.State())
	}
	if o.CurrentNumber() != 427 {
		t.Errorf("expected current number 427, got %d", o.CurrentNumber())
	}

	want := []string{"start:427", "finish:427"}
	if fmt.Sprint(log.events) != fmt.Sprint(want) {
		t.Errorf("expected events %v, got %v", want, log.events)
	}

	digits := [ReelCount]int{4, 2, 7}
	for i, angle := range o.ReelAngles() {
		expected := reel.Radians(36*float64(digits[i])+360) + reel.DefaultShift
		if angle != expected {
			t.Errorf("reel %d: expected angle %v, got %v", i, expected, angle)
		}
	}
}

func TestOrchestrator_QueueIsFIFO(t *testing.T) {
	log := &eventLog{}
	o := newTestOrchestrator(t, fixedConfig(2, 1), log)

	for _, n := range []int{5, 8, 13} {
		if err := o.RequestSpin(n); err != nil {
			t.Fatalf("RequestSpin(%d) failed: %v", n, err)
		}
	}

	if got := o.Pending(); fmt.Sprint(got) != "[8 13]" {
		t.Fatalf("expected pending [8 13], got %v", got)
	}

	for i := 0; i < 1000 && len(log.events) < 6; i++ {
		o.Tick(0.05)
	}

	want := []string{"start:5", "finish:5", "start:8", "finish:8", "start:13", "finish:13"}
	if fmt.Sprint(log.events) != fmt.Sprint(want) {
		t.Errorf("expected events %v, got %v", want, log.events)
	}
	if len(o.Pending()) != 0 {
		t.Errorf("expected empty queue, got %v", o.Pending())
	}
}

func TestOrchestrator_FinishedStateVisibleInCallback(t *testing.T) {
	var o *Orchestrator
	var stateInCallback State

	opts := DefaultOptions()
	opts.Random = rng.NewSequence(0.1)
	opts.OnSpinFinish = func(int) { stateInCallback = o.State() }

	o, err := New(fixedConfig(0, 0.2), opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := o.RequestSpin(1); err != nil {
		t.Fatalf("RequestSpin failed: %v", err)
	}
	tickUntilIdle(t, o, 0.05)

	if stateInCallback != StateFinished {
		t.Errorf("expected finished state inside callback, got %s", stateInCallback)
	}
}

func TestOrchestrator_RequestAfterFinishStartsImmediately(t *testing.T) {
	o := newTestOrchestrator(t, fixedConfig(1, 0.3), nil)

	if err := o.RequestSpin(9); err != nil {
		t.Fatalf("RequestSpin failed: %v", err)
	}
	tickUntilIdle(t, o, 0.1)

	if err := o.RequestSpin(90); err != nil {
		t.Fatalf("RequestSpin failed: %v", err)
	}
	if !o.IsSpinning() || o.CurrentNumber() != 90 {
		t.Errorf("expected immediate start of 90, state %s number %d", o.State(), o.CurrentNumber())
	}
	if len(o.Pending()) != 0 {
		t.Errorf("expected nothing queued, got %v", o.Pending())
	}
}

func TestOrchestrator_RejectsInvalidNumbers(t *testing.T) {
	tests := []struct {
		value float64
		want  error
	}{
		{1000, ErrOutOfRange},
		{-1, ErrOutOfRange},
		{4.5, ErrNotInteger},
		{math.NaN(), ErrNotInteger},
		{math.Inf(1), ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.value), func(t *testing.T) {
			log := &eventLog{}
			o := newTestOrchestrator(t, fixedConfig(1, 1), log)

			err := o.RequestSpinValue(tt.value)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if o.State() != StateIdle || len(log.events) != 0 || len(o.Pending()) != 0 {
				t.Error("rejected request must not change state")
			}
		})
	}
}

func TestOrchestrator_RejectedRequestWhileSpinningKeepsQueue(t *testing.T) {
	o := newTestOrchestrator(t, fixedConfig(1, 1), nil)

	if err := o.RequestSpin(1); err != nil {
		t.Fatalf("RequestSpin failed: %v", err)
	}
	if err := o.RequestSpin(1000); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
	if len(o.Pending()) != 0 {
		t.Errorf("expected empty queue, got %v", o.Pending())
	}
}

func TestOrchestrator_SetSpinConfig(t *testing.T) {
	o := newTestOrchestrator(t, DefaultConfig(), nil)

	bad := fixedConfig(1, 0)
	if err := o.SetSpinConfig(bad); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if o.SpinConfig() != DefaultConfig() {
		t.Error("rejected config must keep the previous one")
	}

	good := fixedConfig(3, 2)
	if err := o.SetSpinConfig(good); err != nil {
		t.Fatalf("SetSpinConfig failed: %v", err)
	}
	if o.SpinConfig() != good {
		t.Errorf("expected config %+v, got %+v", good, o.SpinConfig())
	}
}

func TestOrchestrator_SetSpinConfigKeepsCurrentSpin(t *testing.T) {
	log := &eventLog{}
	o := newTestOrchestrator(t, fixedConfig(1, 1), log)

	if err := o.RequestSpin(314); err != nil {
		t.Fatalf("RequestSpin failed: %v", err)
	}
	o.Tick(0.5)

	slow := fixedConfig(1, 100)
	if err := o.SetSpinConfig(slow); err != nil {
		t.Fatalf("SetSpinConfig failed: %v", err)
	}

	o.Tick(0.4)
	if !o.IsSpinning() {
		t.Fatal("spin finished too early")
	}
	o.Tick(0.2)
	if o.IsSpinning() {
		t.Fatal("running spin must keep its 1s duration")
	}

	if err := o.RequestSpin(159); err != nil {
		t.Fatalf("RequestSpin failed: %v", err)
	}
	for i := 0; i < 50; i++ {
		o.Tick(1)
	}
	if !o.IsSpinning() {
		t.Error("next spin must use the new 100s duration")
	}
	o.Tick(51)
	if o.IsSpinning() {
		t.Error("next spin should finish after 100s")
	}

	want := []string{"start:314", "finish:314", "start:159", "finish:159"}
	if fmt.Sprint(log.events) != fmt.Sprint(want) {
		t.Errorf("expected events %v, got %v", want, log.events)
	}
}

func TestOrchestrator_CameraShakeToggle(t *testing.T) {
	o := newTestOrchestrator(t, fixedConfig(1, 1), nil)
	origin := DefaultCamera().Origin

	o.Tick(1)
	if o.Frame().Camera != origin {
		t.Fatal("camera must stay at origin while shake is disabled")
	}

	o.SetCameraShake(true)
	o.Tick(1)
	moved := o.Frame().Camera
	if moved == origin {
		t.Fatal("expected camera to move with shake enabled")
	}
	if math.Abs(moved.Z-(origin.Z-0.35)) > 1e-9 {
		t.Errorf("expected z offset of amplitude*U, got %v", moved.Z)
	}

	o.SetCameraShake(false)
	if o.Frame().Camera != origin {
		t.Errorf("expected camera back at origin, got %+v", o.Frame().Camera)
	}
}

func TestOrchestrator_GlitchFollowsMiddleReel(t *testing.T) {
	o := newTestOrchestrator(t, fixedConfig(1, 1), nil)
	o.SetSlotGlitch(true)
	o.SetCaptionGlitch(true)

	if err := o.RequestSpin(50); err != nil {
		t.Fatalf("RequestSpin failed: %v", err)
	}
	o.Tick(0.25)

	frame := o.Frame()
	angle := frame.Reels[1] - reel.DefaultShift
	if frame.Slot.RotationY != angle {
		t.Errorf("slot rotation %v, expected %v", frame.Slot.RotationY, angle)
	}
	if frame.Caption.RotationY != angle || frame.Caption.RotationZ != angle || frame.Caption.OffsetZ != angle/2 {
		t.Errorf("unexpected caption pose %+v for angle %v", frame.Caption, angle)
	}

	o.SetSlotGlitch(false)
	o.SetCaptionGlitch(false)
	frame = o.Frame()
	if frame.Slot != (SlotPose{}) || frame.Caption != (CaptionPose{}) {
		t.Errorf("expected reset poses, got %+v %+v", frame.Slot, frame.Caption)
	}
}

func TestOrchestrator_NewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg[2].Cycles = Between(3, 1)

	if _, err := New(cfg, DefaultOptions()); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestOrchestrator_UsesCustomCurve(t *testing.T) {
	opts := DefaultOptions()
	opts.Random = rng.NewSequence(0)
	opts.Curve = ease.Linear

	o, err := New(fixedConfig(0, 2), opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := o.RequestSpin(5); err != nil {
		t.Fatalf("RequestSpin failed: %v", err)
	}
	o.Tick(1)

	start := reel.DefaultShift
	target := reel.Radians(36*5) + reel.DefaultShift
	if got := o.ReelAngles()[2]; math.Abs(got-(start+target)/2) > 1e-9 {
		t.Errorf("expected linear midpoint %v, got %v", (start+target)/2, got)
	}
}
