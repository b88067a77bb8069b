package ease

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func runToCompletion(t *testing.T, p *Progress, delta float64, maxSteps int) []float64 {
	t.Helper()

	values := []float64{p.Value()}
	for i := 0; i < maxSteps && !p.Complete(); i++ {
		p.Update(delta)
		values = append(values, p.Value())
	}
	if !p.Complete() {
		t.Fatalf("progress did not complete in %d steps", maxSteps)
	}
	return values
}

func TestProgress_ForwardMonotonicAndExact(t *testing.T) {
	p := NewProgress(EaseOutQuint)
	if err := p.Start(10, 20, 1); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if p.Value() != 10 {
		t.Errorf("expected start value 10, got %v", p.Value())
	}

	values := runToCompletion(t, p, 0.1, 100)
	for i := 1; i < len(values); i++ {
		if values[i] < values[i-1] {
			t.Errorf("step %d: value decreased from %v to %v", i, values[i-1], values[i])
		}
		if values[i] < 10 || values[i] > 20 {
			t.Errorf("step %d: value %v out of [10,20]", i, values[i])
		}
	}

	if got := values[len(values)-1]; got != 20 {
		t.Errorf("expected exact final value 20, got %v", got)
	}
}

func TestProgress_ReversedRange(t *testing.T) {
	p := NewProgress(EaseOutQuint)
	if err := p.Start(5, 2, 0.5); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if p.Progress() != 1 {
		t.Errorf("reversed progress should start at 1, got %v", p.Progress())
	}

	values := runToCompletion(t, p, 0.03, 1000)
	for i := 1; i < len(values); i++ {
		if values[i] > values[i-1] {
			t.Errorf("step %d: value increased from %v to %v", i, values[i-1], values[i])
		}
		if values[i] < 2 || values[i] > 5 {
			t.Errorf("step %d: value %v out of [2,5]", i, values[i])
		}
	}

	if got := values[len(values)-1]; got != 2 {
		t.Errorf("expected exact final value 2, got %v", got)
	}
	if p.Progress() != 0 {
		t.Errorf("expected internal progress clamped at 0, got %v", p.Progress())
	}
}

func TestProgress_LinearMidpoint(t *testing.T) {
	p := NewProgress(nil)
	if err := p.Start(0, 100, 2); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	p.Update(1)
	if got := p.Value(); math.Abs(got-50) > 1e-9 {
		t.Errorf("expected 50 at half duration, got %v", got)
	}
	if p.Complete() {
		t.Error("progress should not be complete at half duration")
	}
}

func TestProgress_UpdateAfterCompleteIsNoop(t *testing.T) {
	p := NewProgress(EaseOutQuint)
	if err := p.Start(0, 1, 0.1); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	p.Update(1)
	if !p.Complete() {
		t.Fatal("expected completion after overshooting delta")
	}

	p.Update(5)
	if p.Value() != 1 || p.Progress() != 1 {
		t.Errorf("expected value and progress to stay at 1, got %v / %v", p.Value(), p.Progress())
	}
}

func TestProgress_IgnoresNegativeDelta(t *testing.T) {
	p := NewProgress(Linear)
	if err := p.Start(0, 10, 1); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	p.Update(0.5)
	p.Update(-0.3)
	p.Update(math.NaN())

	if got := p.Progress(); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("expected progress 0.5, got %v", got)
	}
}

func TestProgress_InvalidDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration float64
	}{
		{"zero", 0},
		{"negative", -1},
		{"nan", math.NaN()},
		{"inf", math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProgress(Linear)
			err := p.Start(0, 1, tt.duration)
			if !errors.Is(err, ErrInvalidDuration) {
				t.Errorf("expected ErrInvalidDuration, got %v", err)
			}
		})
	}
}

func TestProgress_FreshIsComplete(t *testing.T) {
	p := NewProgress(EaseOutQuint)
	if !p.Complete() {
		t.Error("never-started progress should be complete")
	}
}

func TestCurveByName(t *testing.T) {
	for _, name := range CurveNames() {
		curve, err := CurveByName(name)
		if err != nil {
			t.Fatalf("CurveByName(%q) failed: %v", name, err)
		}
		if curve(0) != 0 || curve(1) != 1 {
			t.Errorf("%s: expected f(0)=0 and f(1)=1, got %v and %v", name, curve(0), curve(1))
		}
	}

	_, err := CurveByName("bounce")
	if !errors.Is(err, ErrUnknownCurve) {
		t.Fatalf("expected ErrUnknownCurve, got %v", err)
	}
	if !strings.Contains(err.Error(), "easeOutQuint") {
		t.Errorf("expected available curves in error, got %q", err)
	}
}
