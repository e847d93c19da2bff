// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/chatline-tui/internal/ui/styles"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestManager(d time.Duration) (*ToastManager, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	m := NewToastManager(d)
	m.SetClock(clock.Now)
	return m, clock
}

func TestNewToastManager_DefaultDuration(t *testing.T) {
	if got := NewToastManager(0).Duration(); got != DefaultErrorDismiss {
		t.Errorf("Duration() = %v, want %v", got, DefaultErrorDismiss)
	}
	if got := NewToastManager(-time.Second).Duration(); got != DefaultErrorDismiss {
		t.Errorf("negative duration should fall back, got %v", got)
	}
	if got := NewToastManager(2 * time.Second).Duration(); got != 2*time.Second {
		t.Errorf("Duration() = %v, want 2s", got)
	}
}

func TestToast_AutoDismissAfterFiveSeconds(t *testing.T) {
	m, clock := newTestManager(5 * time.Second)
	m.Add("Error: Failed to send message")

	clock.Advance(4900 * time.Millisecond)
	if got := m.Tick(); len(got) != 1 {
		t.Fatalf("toast removed early: %d visible at 4.9s", len(got))
	}

	clock.Advance(100 * time.Millisecond)
	if got := m.Tick(); len(got) != 0 {
		t.Errorf("toast still visible at 5s: %v", got)
	}
	if m.HasToasts() {
		t.Error("HasToasts() should be false after expiry")
	}
}

func TestToast_IndependentLifetimes(t *testing.T) {
	m, clock := newTestManager(5 * time.Second)
	first := m.Add("first")
	clock.Advance(3 * time.Second)
	second := m.Add("second")

	clock.Advance(2 * time.Second)
	got := m.Tick()
	if len(got) != 1 || got[0].ID != second {
		t.Fatalf("after 5s only the second toast should remain, got %v", got)
	}

	clock.Advance(3 * time.Second)
	if got := m.Tick(); len(got) != 0 {
		t.Errorf("second toast should expire 5s after creation, got %v", got)
	}
	_ = first
}

func TestToast_Dismiss(t *testing.T) {
	m, _ := newTestManager(0)
	a := m.Add("a")
	m.Add("b")

	m.Dismiss(a)
	toasts := m.Toasts()
	if len(toasts) != 1 || toasts[0].Message != "b" {
		t.Fatalf("Dismiss(a) left %v", toasts)
	}
	m.Dismiss(999)
	if len(m.Toasts()) != 1 {
		t.Error("unknown id should be ignored")
	}

	if !m.DismissNewest() {
		t.Error("DismissNewest() should report a removed toast")
	}
	if m.DismissNewest() {
		t.Error("DismissNewest() on empty manager should return false")
	}
}

func TestToast_MaxVisible(t *testing.T) {
	m, _ := newTestManager(0)
	for i := 0; i < 5; i++ {
		m.Add("e")
	}
	if got := len(m.Toasts()); got != 3 {
		t.Errorf("visible toasts = %d, want 3", got)
	}
	m.Clear()
	if m.HasToasts() {
		t.Error("Clear() should remove all toasts")
	}
}

func TestToast_SetDurationAffectsNewToasts(t *testing.T) {
	m, clock := newTestManager(5 * time.Second)
	m.Add("old")
	m.SetDuration(10 * time.Second)
	m.Add("new")

	clock.Advance(6 * time.Second)
	got := m.Tick()
	if len(got) != 1 || got[0].Message != "new" {
		t.Errorf("after 6s only the 10s toast should remain, got %v", got)
	}
}

func TestRenderToast(t *testing.T) {
	theme := styles.NewTheme("dark")
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	toast := ErrorToast{ID: 1, Message: "Error: \x1b[31mboom\x1b[0m", CreatedAt: now, Duration: 5 * time.Second}

	out := RenderToast(theme, toast, now.Add(2*time.Second), 80)
	for _, want := range []string{styles.StatusIndicators.Error, "boom", "[x] Dismiss", "3s"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderToast() missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "[31m") {
		t.Error("escape sequences from the message should be stripped")
	}

	if RenderToastStack(theme, nil, now, 80) != "" {
		t.Error("empty stack should render nothing")
	}
}
