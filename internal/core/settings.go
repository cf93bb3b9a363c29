package core

import (
	"fmt"
	"strconv"
	"strings"
)

// ScanInterval is how often the bot scans the market
type ScanInterval string

const (
	Interval15m ScanInterval = "15m"
	Interval30m ScanInterval = "30m"
	Interval1h  ScanInterval = "1h"
	Interval4h  ScanInterval = "4h"
)

// ScanIntervals lists the intervals the backend accepts.
var ScanIntervals = []ScanInterval{Interval15m, Interval30m, Interval1h, Interval4h}

// IsValid reports whether the interval is one of ScanIntervals.
func (i ScanInterval) IsValid() bool {
	for _, v := range ScanIntervals {
		if i == v {
			return true
		}
	}
	return false
}

// Label returns a human readable form, e.g. "15 Minutes".
func (i ScanInterval) Label() string {
	switch i {
	case Interval15m:
		return "15 Minutes"
	case Interval30m:
		return "30 Minutes"
	case Interval1h:
		return "1 Hour"
	case Interval4h:
		return "4 Hours"
	default:
		return string(i)
	}
}

// Settings is the bot configuration as stored by the backend.
type Settings struct {
	TrackedPairs      []string     `json:"trackedPairs" yaml:"trackedPairs"`
	ATRMultiplier     float64      `json:"atrMultiplier" yaml:"atrMultiplier"`
	SchedulerInterval ScanInterval `json:"schedulerInterval" yaml:"schedulerInterval"`
	TelegramToken     string       `json:"telegramToken" yaml:"telegramToken"`
	TelegramGroupID   string       `json:"telegramGroupId" yaml:"telegramGroupId"`
}

// SettingsForm is the editable representation of Settings. Pairs are a
// single comma separated string and the multiplier is raw user input.
type SettingsForm struct {
	TrackedPairs      string       `json:"trackedPairs"`
	ATRMultiplier     string       `json:"atrMultiplier"`
	SchedulerInterval ScanInterval `json:"schedulerInterval"`
	TelegramToken     string       `json:"telegramToken"`
	TelegramGroupID   string       `json:"telegramGroupId"`
}

// DefaultSettingsForm mirrors the values shown before settings are loaded.
func DefaultSettingsForm() SettingsForm {
	return SettingsForm{
		ATRMultiplier:     "2.5",
		SchedulerInterval: Interval15m,
	}
}

// PairSeparator joins pairs for editing.
const PairSeparator = ", "

// JoinPairs renders pairs as "XAUUSD, EURUSD".
func JoinPairs(pairs []string) string {
	return strings.Join(pairs, PairSeparator)
}

// SplitPairs splits a comma separated list, trimming whitespace and
// dropping empty entries. Order is preserved.
func SplitPairs(s string) []string {
	parts := strings.Split(s, ",")
	pairs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			pairs = append(pairs, p)
		}
	}
	return pairs
}

// Form converts settings into their editable form.
func (s Settings) Form() SettingsForm {
	return SettingsForm{
		TrackedPairs:      JoinPairs(s.TrackedPairs),
		ATRMultiplier:     strconv.FormatFloat(s.ATRMultiplier, 'f', -1, 64),
		SchedulerInterval: s.SchedulerInterval,
		TelegramToken:     s.TelegramToken,
		TelegramGroupID:   s.TelegramGroupID,
	}
}

// Settings parses the form back into settings.
func (f SettingsForm) Settings() (Settings, error) {
	multiplier, err := strconv.ParseFloat(strings.TrimSpace(f.ATRMultiplier), 64)
	if err != nil {
		return Settings{}, InvalidSettings("ATR multiplier must be a number",
			fmt.Errorf("atr multiplier %q: %w", f.ATRMultiplier, err))
	}
	if f.SchedulerInterval != "" && !f.SchedulerInterval.IsValid() {
		return Settings{}, InvalidSettings(
			fmt.Sprintf("Scan interval must be one of %s", joinIntervals()),
			fmt.Errorf("scan interval %q", f.SchedulerInterval))
	}

	return Settings{
		TrackedPairs:      SplitPairs(f.TrackedPairs),
		ATRMultiplier:     multiplier,
		SchedulerInterval: f.SchedulerInterval,
		TelegramToken:     f.TelegramToken,
		TelegramGroupID:   f.TelegramGroupID,
	}, nil
}

func joinIntervals() string {
	names := make([]string, len(ScanIntervals))
	for i, iv := range ScanIntervals {
		names[i] = string(iv)
	}
	return strings.Join(names, ", ")
}
