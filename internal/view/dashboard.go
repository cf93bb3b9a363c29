package view

import (
	"time"

	"github.com/newthinker/signaldeck/internal/core"
	"github.com/newthinker/signaldeck/internal/store"
)

// Display defaults for signal cards.
const (
	DefaultStrategy   = "Fibo Trend"
	DefaultCardStatus = "ACTIVE"
)

// Indicator is one subsystem health badge.
type Indicator struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Online bool   `json:"online"`
	Text   string `json:"text"`
}

// SignalCard is a latest-signal tile on the dashboard.
type SignalCard struct {
	ID         string `json:"id"`
	Pair       string `json:"pair"`
	Type       string `json:"type"`
	TypeClass  string `json:"typeClass"`
	Entry      string `json:"entry"`
	TakeProfit string `json:"tp"`
	StopLoss   string `json:"sl"`
	Time       string `json:"time"`
	Strategy   string `json:"strategy"`
	Status     string `json:"status"`
	Pending    bool   `json:"pending"`
}

// DashboardData holds data for the dashboard
type DashboardData struct {
	Title        string       `json:"title"`
	Phase        Phase        `json:"phase"`
	Error        string       `json:"error,omitempty"`
	ErrorTitle   string       `json:"errorTitle,omitempty"`
	Indicators   []Indicator  `json:"indicators"`
	Cards        []SignalCard `json:"cards"`
	EmptyMessage string       `json:"emptyMessage,omitempty"`
	EmptyHint    string       `json:"emptyHint,omitempty"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// Dashboard builds the live dashboard from a store snapshot. Indicators are
// always present, whatever the phase.
func Dashboard(st store.State) DashboardData {
	data := DashboardData{
		Title:      "Live Dashboard",
		Phase:      phase(st.IsLoading, st.Error, len(st.LatestSignals) == 0),
		Error:      st.Error,
		Indicators: Indicators(st.SystemStatus),
		Cards:      make([]SignalCard, 0, len(st.LatestSignals)),
		UpdatedAt:  st.UpdatedAt,
	}

	if st.Error != "" {
		data.ErrorTitle = "Failed to load data."
	}

	for _, s := range st.LatestSignals {
		data.Cards = append(data.Cards, Card(s))
	}

	if data.Phase == PhaseEmpty {
		data.EmptyMessage = "No active signals at the moment."
		data.EmptyHint = "The bot is scanning the markets..."
	}

	return data
}

// Indicators returns the node, python and database badges. The database
// badge is always online.
func Indicators(status core.SystemStatus) []Indicator {
	return []Indicator{
		indicator(core.SubsystemNode, "Node.js Engine", status.IsOnline(core.SubsystemNode)),
		indicator(core.SubsystemPython, "Python Logic", status.IsOnline(core.SubsystemPython)),
		indicator("database", "Database", true),
	}
}

func indicator(key, label string, online bool) Indicator {
	text := "Offline"
	if online {
		text = "Operational"
	}
	return Indicator{Key: key, Label: label, Online: online, Text: text}
}

// Card renders a single signal as a dashboard tile.
func Card(s core.Signal) SignalCard {
	strategy := s.Strategy
	if strategy == "" {
		strategy = DefaultStrategy
	}
	status := string(s.Status)
	if status == "" {
		status = DefaultCardStatus
	}

	return SignalCard{
		ID:         s.ID,
		Pair:       s.Pair,
		Type:       string(s.Type),
		TypeClass:  typeClass(s.Type),
		Entry:      formatPrice(s.Entry),
		TakeProfit: formatPrice(s.TakeProfit),
		StopLoss:   formatPrice(s.StopLoss),
		Time:       formatTime(s.CreatedAt),
		Strategy:   strategy,
		Status:     status,
		Pending:    s.Status == core.StatusPending,
	}
}

func typeClass(t core.SignalType) string {
	if t == core.SignalBuy {
		return ClassBuy
	}
	return ClassSell
}
