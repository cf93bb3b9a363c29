// Package view turns store state and backend data into display models
// shared by the local API, the terminal dashboard and the CLI.
package view

import (
	"time"

	"github.com/shopspring/decimal"
)

// Phase is what a view should render.
type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseError   Phase = "error"
	PhaseEmpty   Phase = "empty"
	PhaseReady   Phase = "ready"
)

// TimeLayout is used for every timestamp shown to users.
const TimeLayout = "2006-01-02 15:04:05"

// Value classes used by renderers to pick colors.
const (
	ClassGood    = "good"
	ClassBad     = "bad"
	ClassWarn    = "warn"
	ClassInfo    = "info"
	ClassMuted   = "muted"
	ClassBuy     = "buy"
	ClassSell    = "sell"
	ClassPending = "pending"
)

// phase applies the loading, error, content precedence every view uses.
func phase(loading bool, err string, empty bool) Phase {
	switch {
	case loading:
		return PhaseLoading
	case err != "":
		return PhaseError
	case empty:
		return PhaseEmpty
	default:
		return PhaseReady
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(TimeLayout)
}

func formatPrice(d decimal.Decimal) string {
	return d.String()
}
