// Package analytics aggregates signal outcomes for the analytics views.
package analytics

import (
	"math"
	"strconv"

	"github.com/newthinker/signaldeck/internal/core"
)

// Tally counts signals per outcome. Every status has a slot.
type Tally struct {
	HitTP   int `json:"Hit TP"`
	HitSL   int `json:"Hit SL"`
	Pending int `json:"Pending"`
}

// Add counts one signal with the given status.
func (t *Tally) Add(s core.Status) {
	switch s.Normalize() {
	case core.StatusHitTP:
		t.HitTP++
	case core.StatusHitSL:
		t.HitSL++
	default:
		t.Pending++
	}
}

// Count returns the tally for a status. Unknown statuses read as Pending.
func (t Tally) Count(s core.Status) int {
	switch s.Normalize() {
	case core.StatusHitTP:
		return t.HitTP
	case core.StatusHitSL:
		return t.HitSL
	default:
		return t.Pending
	}
}

// Total is the number of signals counted.
func (t Tally) Total() int {
	return t.HitTP + t.HitSL + t.Pending
}

// Slice is one pie chart segment
type Slice struct {
	Name  core.Status `json:"name"`
	Value int         `json:"value"`
}

// PairStats holds outcomes for a single currency pair.
type PairStats struct {
	Name    string  `json:"name"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	Total   int     `json:"total"`
	WinRate float64 `json:"winRate"`
}

// Report is the aggregate consumed by the analytics views.
type Report struct {
	TotalSignals    int         `json:"totalSignals"`
	CompletedTrades int         `json:"totalTrades"`
	WinRate         float64     `json:"winRate"`
	Outcomes        Tally       `json:"outcomes"`
	PieData         []Slice     `json:"pieData"`
	PairStats       []PairStats `json:"barData"`
}

// Compute aggregates signals into a Report. The input is not modified.
func Compute(signals []core.Signal) Report {
	var (
		outcomes  Tally
		completed int
	)
	for _, sig := range signals {
		outcomes.Add(sig.Status)
		if sig.Status.IsCompleted() {
			completed++
		}
	}

	return Report{
		TotalSignals:    len(signals),
		CompletedTrades: completed,
		WinRate:         WinRate(outcomes.HitTP, completed),
		Outcomes:        outcomes,
		PieData:         pieData(outcomes),
		PairStats:       pairStats(signals),
	}
}

// WinRate returns wins/completed as a percentage rounded to one decimal,
// or 0 when nothing has completed.
func WinRate(wins, completed int) float64 {
	if completed == 0 {
		return 0
	}
	return math.Round(float64(wins)/float64(completed)*1000) / 10
}

// FormatWinRate renders a win rate the way the views print it: one decimal
// place, or "0" when there are no completed trades.
func FormatWinRate(rate float64, completed int) string {
	if completed == 0 {
		return "0"
	}
	return strconv.FormatFloat(rate, 'f', 1, 64)
}

// FormattedWinRate is FormatWinRate for the report's overall rate.
func (r Report) FormattedWinRate() string {
	return FormatWinRate(r.WinRate, r.CompletedTrades)
}

func pieData(t Tally) []Slice {
	slices := make([]Slice, 0, len(core.Statuses))
	for _, s := range core.Statuses {
		if n := t.Count(s); n > 0 {
			slices = append(slices, Slice{Name: s, Value: n})
		}
	}
	return slices
}

// pairStats groups by pair in first-seen order.
func pairStats(signals []core.Signal) []PairStats {
	index := make(map[string]int)
	stats := make([]PairStats, 0)

	for _, sig := range signals {
		i, ok := index[sig.Pair]
		if !ok {
			i = len(stats)
			index[sig.Pair] = i
			stats = append(stats, PairStats{Name: sig.Pair})
		}

		switch sig.Status.Normalize() {
		case core.StatusHitTP:
			stats[i].Wins++
			stats[i].Total++
		case core.StatusHitSL:
			stats[i].Losses++
			stats[i].Total++
		}
	}

	for i := range stats {
		stats[i].WinRate = WinRate(stats[i].Wins, stats[i].Total)
	}
	return stats
}
