package stats

import (
	"math"
	"strings"
	"testing"

	"github.com/guidoenr/cellscape/internal/cells"
)

func TestAverage(t *testing.T) {
	vals := []float64{0.2, 0.4, 0.6, 0.8}
	want := 0.5
	if got := average(vals); math.Abs(got-want) > 1e-6 {
		t.Fatalf("average=%f want=%f", got, want)
	}
}

func TestNextPow2(t *testing.T) {
	cases := map[int]int{
		0:   1,
		1:   1,
		2:   2,
		3:   4,
		5:   8,
		16:  16,
		31:  32,
		257: 512,
	}
	for input, want := range cases {
		if got := nextPow2(input); got != want {
			t.Fatalf("nextPow2(%d)=%d want=%d", input, got, want)
		}
	}
}

func TestClamp(t *testing.T) {
	if clamp(2, 0, 1) != 1 {
		t.Fatalf("expected clamp high to be 1")
	}
	if clamp(-1, 0, 1) != 0 {
		t.Fatalf("expected clamp low to be 0")
	}
	if clamp(0.5, 0, 1) != 0.5 {
		t.Fatalf("expected clamp middle to be unchanged")
	}
}

func TestFlickerPeriod(t *testing.T) {
	a := New(Config{Capacity: 1000, HistorySize: 128})
	var s Summary
	for i := 0; i < 300; i++ {
		settled := 300 + int(150*math.Sin(2*math.Pi*float64(i)/26))
		s = a.Analyze(cells.Population{Settled: settled}, 1)
	}
	if math.Abs(s.FlickerPeriod-26) > 3 {
		t.Fatalf("flicker period=%f want about 26 ticks", s.FlickerPeriod)
	}
}

func TestFlickerUnknownUntilHistoryFull(t *testing.T) {
	a := New(Config{Capacity: 10, HistorySize: 64})
	for i := 0; i < 63; i++ {
		if s := a.Analyze(cells.Population{Settled: i % 5}, 1); s.FlickerPeriod != 0 {
			t.Fatalf("period reported after %d samples", i+1)
		}
	}
	flat := New(Config{Capacity: 10, HistorySize: 16})
	var s Summary
	for i := 0; i < 40; i++ {
		s = flat.Analyze(cells.Population{Settled: 5}, 1)
	}
	if s.FlickerPeriod != 0 {
		t.Fatalf("constant population reported period %f", s.FlickerPeriod)
	}
}

func TestSummaryFields(t *testing.T) {
	a := New(Config{Capacity: 100})
	a.Analyze(cells.Population{Settled: 10}, 1)
	s := a.Analyze(cells.Population{Appearing: 5, Settled: 10, Fading: 5, NoiseSum: 10}, 1)
	if s.Active != 15 || s.Churn != 5 {
		t.Fatalf("active=%d churn=%d", s.Active, s.Churn)
	}
	if math.Abs(s.MeanNoise-0.5) > 1e-12 || math.Abs(s.Activity-0.15) > 1e-12 {
		t.Fatalf("mean=%f activity=%f", s.MeanNoise, s.Activity)
	}
	if s.Envelope <= 0 || s.Envelope > 1 {
		t.Fatalf("envelope=%f", s.Envelope)
	}

	var b strings.Builder
	s.AppendStatus(&b)
	if !strings.HasPrefix(b.String(), "cells 15 (+5 -5)") {
		t.Fatalf("status=%q", b.String())
	}
}
