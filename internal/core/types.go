package core

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// SignalType is the trade direction of a signal
type SignalType string

const (
	SignalBuy  SignalType = "BUY"
	SignalSell SignalType = "SELL"
)

// Status is the outcome of a signal as reported by the backend.
type Status string

const (
	StatusHitTP   Status = "Hit TP"
	StatusHitSL   Status = "Hit SL"
	StatusPending Status = "Pending"
)

// Statuses lists the known outcomes in display order.
var Statuses = []Status{StatusHitTP, StatusHitSL, StatusPending}

// Normalize maps the status onto one of the known outcomes. Empty and
// unrecognized values are treated as pending.
func (s Status) Normalize() Status {
	switch s {
	case StatusHitTP, StatusHitSL:
		return s
	default:
		return StatusPending
	}
}

// IsCompleted reports whether the signal reached take-profit or stop-loss.
func (s Status) IsCompleted() bool {
	return s.Normalize() != StatusPending
}

// Signal is a trade recommendation generated by the bot backend.
type Signal struct {
	ID         string          `json:"_id"`
	Pair       string          `json:"pair"`
	Type       SignalType      `json:"type"`
	Entry      decimal.Decimal `json:"entry"`
	TakeProfit decimal.Decimal `json:"tp"`
	StopLoss   decimal.Decimal `json:"sl"`
	Status     Status          `json:"status,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	Strategy   string          `json:"strategy,omitempty"`
}

// UnmarshalJSON applies the Pending default when the backend omits status.
func (s *Signal) UnmarshalJSON(data []byte) error {
	type alias Signal
	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Status == "" {
		raw.Status = StatusPending
	}
	*s = Signal(raw)
	return nil
}

// LogLevel is the severity of a backend log entry
type LogLevel string

const (
	LevelDebug   LogLevel = "DEBUG"
	LevelInfo    LogLevel = "INFO"
	LevelWarn    LogLevel = "WARN"
	LevelError   LogLevel = "ERROR"
	LevelSuccess LogLevel = "SUCCESS"
)

// LogEntry is a server-generated log line.
type LogEntry struct {
	ID        string    `json:"_id"`
	Timestamp time.Time `json:"timestamp"`
	Level     LogLevel  `json:"level"`
	Source    string    `json:"source,omitempty"`
	Message   string    `json:"message"`
}

// Subsystem health values
const (
	Online  = "online"
	Offline = "offline"
)

// Subsystems reported by the backend
const (
	SubsystemNode   = "node"
	SubsystemPython = "python"
)

// SystemStatus maps a backend subsystem to "online" or "offline".
type SystemStatus map[string]string

// DefaultSystemStatus is the status assumed before the first successful load.
func DefaultSystemStatus() SystemStatus {
	return SystemStatus{SubsystemNode: Offline, SubsystemPython: Offline}
}

// IsOnline reports whether the named subsystem is online. Unknown
// subsystems are offline.
func (s SystemStatus) IsOnline(name string) bool {
	return s[name] == Online
}

// Clone returns a copy safe to hand to other goroutines.
func (s SystemStatus) Clone() SystemStatus {
	out := make(SystemStatus, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
