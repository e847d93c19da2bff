// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file implements the transient error artifact shown when a turn fails.
// Toasts never block input and are removed automatically after their
// duration; the user may dismiss them early.
package components

import (
	"strconv"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatline-tui/internal/ui/styles"
)

// DefaultErrorDismiss is how long an error toast stays on screen.
const DefaultErrorDismiss = 5 * time.Second

// toastTickInterval drives expiry checks and the countdown hint.
const toastTickInterval = 250 * time.Millisecond

// =============================================================================
// ERROR TOAST
// =============================================================================

// ErrorToast is one transient error notification.
type ErrorToast struct {
	ID        int
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// ExpiresAt returns the instant the toast is removed.
func (t ErrorToast) ExpiresAt() time.Time {
	return t.CreatedAt.Add(t.Duration)
}

// IsExpiredAt reports whether the toast has lived its full duration at now.
func (t ErrorToast) IsExpiredAt(now time.Time) bool {
	return !now.Before(t.ExpiresAt())
}

// RemainingAt returns how much time is left at now, never negative.
func (t ErrorToast) RemainingAt(now time.Time) time.Duration {
	remaining := t.ExpiresAt().Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// =============================================================================
// TOAST MANAGER
// =============================================================================

// ToastManager tracks the visible error toasts.
type ToastManager struct {
	mu        sync.Mutex
	toasts    []ErrorToast
	nextID    int
	maxToasts int
	duration  time.Duration
	now       func() time.Time
}

// NewToastManager creates a manager whose toasts last duration.
// A non-positive duration selects DefaultErrorDismiss.
func NewToastManager(duration time.Duration) *ToastManager {
	if duration <= 0 {
		duration = DefaultErrorDismiss
	}
	return &ToastManager{
		nextID:    1,
		maxToasts: 3,
		duration:  duration,
		now:       time.Now,
	}
}

// SetClock replaces the time source. Used by tests.
func (m *ToastManager) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// SetDuration changes the lifetime of toasts added from now on.
func (m *ToastManager) SetDuration(d time.Duration) {
	if d <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duration = d
}

// Duration returns the lifetime applied to new toasts.
func (m *ToastManager) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

// Add shows message and returns the new toast's ID.
func (m *ToastManager) Add(message string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	toast := ErrorToast{
		ID:        m.nextID,
		Message:   message,
		CreatedAt: m.now(),
		Duration:  m.duration,
	}
	m.nextID++

	// Newest first
	m.toasts = append([]ErrorToast{toast}, m.toasts...)
	if len(m.toasts) > m.maxToasts {
		m.toasts = m.toasts[:m.maxToasts]
	}
	return toast.ID
}

// Dismiss removes the toast with id. Unknown ids are ignored.
func (m *ToastManager) Dismiss(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, toast := range m.toasts {
		if toast.ID == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

// DismissNewest removes the most recent toast and reports whether one existed.
func (m *ToastManager) DismissNewest() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.toasts) == 0 {
		return false
	}
	m.toasts = m.toasts[1:]
	return true
}

// Tick drops expired toasts and returns the remaining ones.
func (m *ToastManager) Tick() []ErrorToast {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	active := m.toasts[:0]
	for _, toast := range m.toasts {
		if !toast.IsExpiredAt(now) {
			active = append(active, toast)
		}
	}
	m.toasts = active
	return append([]ErrorToast(nil), m.toasts...)
}

// Toasts returns a copy of the visible toasts, newest first.
func (m *ToastManager) Toasts() []ErrorToast {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ErrorToast(nil), m.toasts...)
}

// HasToasts reports whether any toast is visible.
func (m *ToastManager) HasToasts() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.toasts) > 0
}

// Clear removes all toasts.
func (m *ToastManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toasts = nil
}

// Now returns the manager's current time.
func (m *ToastManager) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now()
}

// =============================================================================
// TOAST MESSAGES
// =============================================================================

// ToastTickMsg is sent periodically while toasts are visible.
type ToastTickMsg struct {
	Time time.Time
}

// ToastTickCmd schedules the next toast tick.
func ToastTickCmd() tea.Cmd {
	return tea.Tick(toastTickInterval, func(t time.Time) tea.Msg {
		return ToastTickMsg{Time: t}
	})
}

// =============================================================================
// TOAST RENDERING
// =============================================================================

// RenderToast renders a single toast at now.
func RenderToast(theme *styles.Theme, toast ErrorToast, now time.Time, width int) string {
	maxWidth := 60
	if width > 0 && width-4 < maxWidth {
		maxWidth = width - 4
	}
	if maxWidth < 20 {
		maxWidth = 20
	}

	icon := theme.ToastTitle.Render(styles.StatusIndicators.Error)
	body := lipgloss.NewStyle().Width(maxWidth - 8).Render(Sanitize(toast.Message))

	hints := []string{"[x] Dismiss"}
	if secs := int(toast.RemainingAt(now).Round(time.Second) / time.Second); secs > 0 {
		hints = append(hints, strconv.Itoa(secs)+"s")
	}

	content := icon + " " + body + "\n" + theme.ToastClose.Render(strings.Join(hints, "  "))
	return theme.Toast.MaxWidth(maxWidth).Render(content)
}

// RenderToastStack renders toasts stacked vertically, oldest on top.
func RenderToastStack(theme *styles.Theme, toasts []ErrorToast, now time.Time, width int) string {
	if len(toasts) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(toasts))
	for i := len(toasts) - 1; i >= 0; i-- {
		rendered = append(rendered, RenderToast(theme, toasts[i], now, width))
	}
	return lipgloss.JoinVertical(lipgloss.Right, rendered...)
}
