package view

import (
	"strconv"

	"github.com/newthinker/signaldeck/internal/analytics"
	"github.com/newthinker/signaldeck/internal/store"
)

// GoodWinRate is the threshold at which the win rate is shown as good.
const GoodWinRate = 50.0

// KPI is a headline number card.
type KPI struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Class string `json:"class,omitempty"`
}

// AnalyticsData holds the performance page.
type AnalyticsData struct {
	Title        string                `json:"title"`
	Phase        Phase                 `json:"phase"`
	Error        string                `json:"error,omitempty"`
	ErrorTitle   string                `json:"errorTitle,omitempty"`
	KPIs         []KPI                 `json:"kpis"`
	Report       analytics.Report      `json:"report"`
	PieData      []analytics.Slice     `json:"pieData"`
	BarData      []analytics.PairStats `json:"barData"`
	EmptyMessage string                `json:"emptyMessage,omitempty"`
}

// Analytics aggregates every held signal into the performance page.
func Analytics(st store.State) AnalyticsData {
	report := analytics.Compute(st.AllSignals)

	data := AnalyticsData{
		Title:   "Performance Analytics",
		Phase:   phase(st.IsLoading, st.Error, len(st.AllSignals) == 0),
		Error:   st.Error,
		Report:  report,
		PieData: report.PieData,
		BarData: report.PairStats,
	}
	if st.Error != "" {
		data.ErrorTitle = "Error loading analytics:"
	}

	if data.Phase == PhaseEmpty {
		data.EmptyMessage = "No trading data available yet."
		data.KPIs = []KPI{}
		return data
	}

	data.KPIs = []KPI{
		{Title: "Total Signals", Value: strconv.Itoa(report.TotalSignals)},
		{Title: "Completed Trades", Value: strconv.Itoa(report.CompletedTrades)},
		{Title: "Win Rate", Value: report.FormattedWinRate() + "%", Class: WinRateClass(report.WinRate)},
	}
	return data
}

// WinRateClass is good at or above GoodWinRate and bad below it.
func WinRateClass(rate float64) string {
	if rate >= GoodWinRate {
		return ClassGood
	}
	return ClassBad
}
