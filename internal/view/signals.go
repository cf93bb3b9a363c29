package view

import (
	"github.com/newthinker/signaldeck/internal/core"
	"github.com/newthinker/signaldeck/internal/store"
)

type SignalRow struct {
	ID          string `json:"id"`
	Time        string `json:"time"`
	Pair        string `json:"pair"`
	Type        string `json:"type"`
	TypeClass   string `json:"typeClass"`
	Entry       string `json:"entry"`
	TakeProfit  string `json:"tp"`
	StopLoss    string `json:"sl"`
	Result      string `json:"result"`
	ResultClass string `json:"resultClass"`
}

type SignalsData struct {
	Title        string      `json:"title"`
	Phase        Phase       `json:"phase"`
	Error        string      `json:"error,omitempty"`
	ErrorTitle   string      `json:"errorTitle,omitempty"`
	Rows         []SignalRow `json:"rows"`
	EmptyMessage string      `json:"emptyMessage,omitempty"`
}

// Signals builds the signal history table in backend order.
func Signals(st store.State) SignalsData {
	data := SignalsData{
		Title: "Signal History",
		Phase: phase(st.IsLoading, st.Error, len(st.AllSignals) == 0),
		Error: st.Error,
		Rows:  make([]SignalRow, 0, len(st.AllSignals)),
	}
	if st.Error != "" {
		data.ErrorTitle = "Failed to load signal history."
	}

	for _, s := range st.AllSignals {
		data.Rows = append(data.Rows, Row(s))
	}

	if data.Phase == PhaseEmpty {
		data.EmptyMessage = "No signals found in database."
	}
	return data
}

// Row renders one signal as a history row. Unknown statuses are shown as
// received.
func Row(s core.Signal) SignalRow {
	result := string(s.Status)
	if result == "" {
		result = string(core.StatusPending)
	}

	return SignalRow{
		ID:          s.ID,
		Time:        formatTime(s.CreatedAt),
		Pair:        s.Pair,
		Type:        string(s.Type),
		TypeClass:   typeClass(s.Type),
		Entry:       formatPrice(s.Entry),
		TakeProfit:  formatPrice(s.TakeProfit),
		StopLoss:    formatPrice(s.StopLoss),
		Result:      result,
		ResultClass: resultClass(s.Status),
	}
}

func resultClass(s core.Status) string {
	switch s {
	case core.StatusHitTP:
		return ClassGood
	case core.StatusHitSL:
		return ClassBad
	default:
		return ClassPending
	}
}
