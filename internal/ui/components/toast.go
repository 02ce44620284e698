// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable UI pieces for the OpenClaw TUI.
//
// Toasts are non-blocking, dismissible notifications. Errors never
// block input or kill the program; they appear as a toast and either
// auto-dismiss or go away on esc.
package components

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/openclaw/openclaw-tui/internal/ui/styles"
	"github.com/openclaw/openclaw-tui/internal/util"
)

// =============================================================================
// TOAST
// =============================================================================

// ToastKind selects the toast color and icon.
type ToastKind int

const (
	ToastInfo ToastKind = iota
	ToastError
	ToastSuccess
)

// Durations before auto-dismiss. Errors linger longer to be read.
const (
	infoToastDuration  = 4 * time.Second
	errorToastDuration = 8 * time.Second
)

// Toast is one notification.
type Toast struct {
	ID        int
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired reports whether the toast should auto-dismiss.
func (t *Toast) IsExpired() bool {
	return time.Since(t.CreatedAt) >= t.Duration
}

// =============================================================================
// TOAST MANAGER
// =============================================================================

// ToastManager holds the active toasts, newest first.
type ToastManager struct {
	mu     sync.Mutex
	toasts []Toast
	nextID int
}

// NewToastManager creates an empty manager.
func NewToastManager() *ToastManager {
	return &ToastManager{nextID: 1}
}

const maxToasts = 3

func (m *ToastManager) add(message string, kind ToastKind, d time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	toast := Toast{
		ID:        m.nextID,
		Message:   message,
		Kind:      kind,
		CreatedAt: time.Now(),
		Duration:  d,
	}
	m.nextID++

	m.toasts = append([]Toast{toast}, m.toasts...)
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[:maxToasts]
	}
	return toast.ID
}

// AddError shows an error toast.
func (m *ToastManager) AddError(message string) int {
	return m.add(message, ToastError, errorToastDuration)
}

// AddInfo shows an informational toast.
func (m *ToastManager) AddInfo(message string) int {
	return m.add(message, ToastInfo, infoToastDuration)
}

// AddSuccess shows a success toast.
func (m *ToastManager) AddSuccess(message string) int {
	return m.add(message, ToastSuccess, infoToastDuration)
}

// Dismiss removes the newest toast. Returns false when empty.
func (m *ToastManager) Dismiss() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.toasts) == 0 {
		return false
	}
	m.toasts = m.toasts[1:]
	return true
}

// Tick drops expired toasts and returns the survivors.
func (m *ToastManager) Tick() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()

	active := m.toasts[:0]
	for _, toast := range m.toasts {
		if !toast.IsExpired() {
			active = append(active, toast)
		}
	}
	m.toasts = active
	return append([]Toast(nil), m.toasts...)
}

// Active returns a copy of the current toasts.
func (m *ToastManager) Active() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Toast(nil), m.toasts...)
}

// HasToasts reports whether anything is showing.
func (m *ToastManager) HasToasts() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.toasts) > 0
}

// =============================================================================
// TICK MESSAGE
// =============================================================================

// ToastTickMsg drives toast expiry.
type ToastTickMsg struct{ Time time.Time }

// ToastTickCmd ticks toasts every 250ms.
func ToastTickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return ToastTickMsg{Time: t}
	})
}

// =============================================================================
// RENDERING
// =============================================================================

// RenderToasts renders the toast stack for the given width.
func RenderToasts(toasts []Toast, width int) string {
	if len(toasts) == 0 {
		return ""
	}

	maxWidth := 60
	if width > 0 && width-4 < maxWidth {
		maxWidth = width - 4
	}
	if maxWidth < 20 {
		maxWidth = 20
	}

	rendered := make([]string, 0, len(toasts))
	for _, toast := range toasts {
		var border lipgloss.AdaptiveColor
		var icon string
		switch toast.Kind {
		case ToastError:
			border, icon = styles.Rose, "✗"
		case ToastSuccess:
			border, icon = styles.Emerald, "✓"
		default:
			border, icon = styles.Cyan, "•"
		}

		body := lipgloss.NewStyle().Foreground(border).Bold(true).Render(icon+" ") +
			util.WrapWords(toast.Message, maxWidth-6)
		body += "\n" + styles.Hint.Render("[esc] dismiss")

		box := lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1).
			MaxWidth(maxWidth).
			Render(body)
		rendered = append(rendered, box)
	}

	return lipgloss.JoinVertical(lipgloss.Right, rendered...)
}
