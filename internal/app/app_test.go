package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/eiannone/keyboard"

	"github.com/guidoenr/cellscape/internal/params"
)

func headlessConfig(out io.Writer, frames int) Config {
	p := params.Defaults()
	p.Seed = 42
	p.Display.Width = 40
	p.Display.Height = 12
	p.Display.Color = false
	return Config{
		Params:   p,
		Headless: true,
		Frames:   frames,
		Out:      out,
		Log:      log.New(io.Discard, "", 0),
	}
}

func TestStatusBar(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"abc", 5, "abc  "},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
		{"ŋŋŋŋ", 2, "ŋŋ"},
	}
	for _, tc := range tests {
		if got := statusBar(tc.text, tc.width); got != tc.want {
			t.Fatalf("statusBar(%q,%d)=%q want %q", tc.text, tc.width, got, tc.want)
		}
	}
}

func TestFakeClockAdvancesOneFrame(t *testing.T) {
	c := newFakeClock(50)
	for i := 1; i <= 3; i++ {
		if got := c.Elapsed(); got != time.Duration(i)*20*time.Millisecond {
			t.Fatalf("call %d: %s", i, got)
		}
	}
	if newFakeClock(0).frame <= 0 {
		t.Fatalf("non-positive fps should fall back to a default")
	}
}

func TestQuitKeys(t *testing.T) {
	if !isQuitKey('q', 0) || !isQuitKey(0, keyboard.KeyEsc) || !isQuitKey(0, keyboard.KeyCtrlC) {
		t.Fatalf("quit keys not recognized")
	}
	if isQuitKey('r', 0) {
		t.Fatalf("r should not quit")
	}
}

func TestHeadlessRun(t *testing.T) {
	var out bytes.Buffer
	cfg := headlessConfig(&out, 30)
	cfg.ProfilePath = filepath.Join(t.TempDir(), "profile.csv")

	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if a.Frames() != 30 || a.World().Context().Frame != 30 {
		t.Fatalf("frames=%d world frames=%d", a.Frames(), a.World().Context().Frame)
	}
	// 30 frames at 60 fps is 500ms of simulated time, two cell updates.
	if tick := a.World().Context().Tick; tick != 2 {
		t.Fatalf("tick=%d want 2", tick)
	}
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 12 {
		t.Fatalf("printed %d lines want 12", len(lines))
	}
	if !strings.Contains(lines[11], "cells ") || !strings.Contains(lines[11], "fps 60.0") {
		t.Fatalf("status line %q", lines[11])
	}

	profile, err := os.ReadFile(cfg.ProfilePath)
	if err != nil {
		t.Fatalf("read profile: %v", err)
	}
	text := string(profile)
	if !strings.HasPrefix(text, "timestamp,section,delta_ms\n") {
		t.Fatalf("profile header missing")
	}
	if strings.Count(text, ",world,") != 30 || strings.Count(text, ",render,") != 30 {
		t.Fatalf("profile sections not recorded per frame")
	}
}

func TestHeadlessRunIsDeterministic(t *testing.T) {
	run := func() string {
		var out bytes.Buffer
		a, err := New(headlessConfig(&out, 90))
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if err := a.Run(context.Background()); err != nil {
			t.Fatalf("Run: %v", err)
		}
		return out.String()
	}
	if first, second := run(), run(); first != second {
		t.Fatalf("same seed produced different frames")
	}
}

func TestHeadlessRunCancelled(t *testing.T) {
	a, err := New(headlessConfig(io.Discard, 0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := a.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if a.Frames() != 0 {
		t.Fatalf("frames rendered after cancel: %d", a.Frames())
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := headlessConfig(io.Discard, 1)
	cfg.Params.Display.FPS = 0
	if _, err := New(cfg); err == nil {
		t.Fatalf("expected error for zero fps")
	}
}
