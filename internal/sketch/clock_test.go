package sketch

import (
	"math"
	"testing"
	"time"
)

func TestSmoothRateFirstStep(t *testing.T) {
	got := SmoothRate(60, 1.0/30)
	want := 1 / (0.95*(1.0/60) + 0.05*(1.0/30))
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("SmoothRate(60, 1/30) = %v, expected %v", got, want)
	}
	if got >= 60 || got <= 30 {
		t.Errorf("one step should move toward 30 without reaching it, got %v", got)
	}
}

func TestSmoothRateConvergesWithoutOvershoot(t *testing.T) {
	tests := []struct {
		name  string
		start float64
		dt    float64
	}{
		{"slowing down", 60, 1.0 / 30},
		{"speeding up", 30, 1.0 / 60},
		{"irregular target", 120, 1.0 / 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := 1 / tt.dt
			rate := tt.start
			for i := 0; i < 500; i++ {
				next := SmoothRate(rate, tt.dt)
				if math.Abs(next-target) > math.Abs(rate-target) {
					t.Fatalf("step %d moved away from %v: %v -> %v", i, target, rate, next)
				}
				if (tt.start > target && next < target) || (tt.start < target && next > target) {
					t.Fatalf("step %d overshot %v: %v", i, target, next)
				}
				rate = next
			}
			if math.Abs(rate-target) > 0.01 {
				t.Errorf("after 500 steps rate is %v, expected about %v", rate, target)
			}
		})
	}
}

func TestSmoothRateIgnoresBadInterval(t *testing.T) {
	if got := SmoothRate(60, 0); got != 60 {
		t.Errorf("zero interval changed rate to %v", got)
	}
	if got := SmoothRate(60, -1); got != 60 {
		t.Errorf("negative interval changed rate to %v", got)
	}
}

func TestFrameClock(t *testing.T) {
	c := NewFrameClock(0)
	if c.Target() != DefaultFrameRate || c.Rate() != DefaultFrameRate {
		t.Fatalf("expected defaults, got target %v rate %v", c.Target(), c.Rate())
	}

	base := time.Unix(1000, 0)
	c.Sample(base)
	if c.Rate() != DefaultFrameRate {
		t.Error("Sample before any Mark should not change the rate")
	}

	c.Mark(base)
	c.Sample(base.Add(time.Second / 30))
	if r := c.Rate(); r >= 60 || r <= 30 {
		t.Errorf("expected rate between 30 and 60, got %v", r)
	}
	if !c.Last().Equal(base) {
		t.Errorf("Last = %v, expected %v", c.Last(), base)
	}

	if c.SetTarget(0) {
		t.Error("SetTarget(0) should be rejected")
	}
	if !c.SetTarget(25) || c.Target() != 25 {
		t.Errorf("expected target 25, got %v", c.Target())
	}
}

func TestRunStateString(t *testing.T) {
	tests := []struct {
		state RunState
		want  string
	}{
		{Constructed, "constructed"},
		{ConfiguringSettings, "configuring"},
		{Ready, "ready"},
		{Looping, "looping"},
		{Paused, "paused"},
		{Stopping, "stopping"},
		{Disposed, "disposed"},
		{RunState(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("%d.String() = %q, expected %q", tt.state, got, tt.want)
		}
	}
	if !Stopping.Exited() || !Disposed.Exited() || Paused.Exited() {
		t.Error("Exited classification is wrong")
	}
}
