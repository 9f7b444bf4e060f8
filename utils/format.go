package utils

import (
	"fmt"
	"time"
)

// MessageType is a custom type used as a placeholder for various message types.
type MessageType int

// The message types used across the CLI application.
const (
	DefaultMessage MessageType = iota
	SuccessMessage
	ErrorMessage
	StatusMessage
)

// Colors used across the CLI application.
const (
	DefaultColor = "\x1b[0m"
	StatusColor  = "\x1b[36m"
	SuccessColor = "\x1b[32m"
	ErrorColor   = "\x1b[31m"
)

// Decorator colors the CLI messages. The escape sequences are emitted only when
// Enabled is set, which is expected to be the case when writing to a terminal.
type Decorator struct {
	Enabled bool
}

// Text shows the message types in different colors.
func (d Decorator) Text(s string, msgType MessageType) string {
	if !d.Enabled {
		return s
	}

	switch msgType {
	case DefaultMessage:
		s = DefaultColor + s
	case StatusMessage:
		s = StatusColor + s
	case SuccessMessage:
		s = SuccessColor + s
	case ErrorMessage:
		s = ErrorColor + s
	default:
		return s
	}
	return s + DefaultColor
}

// FormatTime formats time.Duration output to a human readable value.
// Durations below one second are shown in milliseconds.
func FormatTime(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}

	m := int64(d / time.Minute)
	s := (d % time.Minute).Seconds()
	if m < 60 {
		return fmt.Sprintf("%dm %.2fs", m, s)
	}
	return fmt.Sprintf("%dh %dm %.2fs", m/60, m%60, s)
}
