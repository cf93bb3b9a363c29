package view

import (
	"context"

	"github.com/newthinker/signaldeck/internal/core"
)

// Log view defaults.
const (
	DefaultLogSource = "SYSTEM"
	LogsErrorMessage = "Failed to fetch logs"
)

// LogFetcher retrieves backend logs. *service.Service satisfies it.
type LogFetcher interface {
	FetchLogs(ctx context.Context) ([]core.LogEntry, error)
}

type LogLine struct {
	ID         string `json:"id"`
	Time       string `json:"time"`
	Level      string `json:"level"`
	LevelClass string `json:"levelClass"`
	Source     string `json:"source"`
	Message    string `json:"message"`
}

type LogsData struct {
	Title        string    `json:"title"`
	Phase        Phase     `json:"phase"`
	Error        string    `json:"error,omitempty"`
	ErrorTitle   string    `json:"errorTitle,omitempty"`
	Lines        []LogLine `json:"lines"`
	EmptyMessage string    `json:"emptyMessage,omitempty"`
}

// LoadLogs fetches logs independently of the store. The view carries its
// own error; it never touches store state.
func LoadLogs(ctx context.Context, f LogFetcher) LogsData {
	entries, err := f.FetchLogs(ctx)
	if err != nil {
		return LogsData{
			Title:      "System Logs",
			Phase:      PhaseError,
			Error:      core.Message(err, LogsErrorMessage),
			ErrorTitle: "Failed to load system logs.",
			Lines:      []LogLine{},
		}
	}
	return Logs(entries)
}

// LoadingLogs is the view shown while a fetch is in flight.
func LoadingLogs() LogsData {
	return LogsData{Title: "System Logs", Phase: PhaseLoading, Lines: []LogLine{}}
}

// Logs renders entries newest first. The backend returns them oldest
// first; entries is not modified.
func Logs(entries []core.LogEntry) LogsData {
	data := LogsData{
		Title: "System Logs",
		Phase: phase(false, "", len(entries) == 0),
		Lines: make([]LogLine, 0, len(entries)),
	}

	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		source := e.Source
		if source == "" {
			source = DefaultLogSource
		}
		data.Lines = append(data.Lines, LogLine{
			ID:         e.ID,
			Time:       formatTime(e.Timestamp),
			Level:      string(e.Level),
			LevelClass: LevelClass(e.Level),
			Source:     source,
			Message:    e.Message,
		})
	}

	if data.Phase == PhaseEmpty {
		data.EmptyMessage = "No log entries found."
	}
	return data
}

// LevelClass maps a log level to a value class. DEBUG and unknown levels
// are muted.
func LevelClass(l core.LogLevel) string {
	switch l {
	case core.LevelError:
		return ClassBad
	case core.LevelWarn:
		return ClassWarn
	case core.LevelInfo:
		return ClassInfo
	case core.LevelSuccess:
		return ClassGood
	default:
		return ClassMuted
	}
}
