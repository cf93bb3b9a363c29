package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/newthinker/signaldeck/internal/analytics"
	"github.com/newthinker/signaldeck/internal/core"
	"github.com/newthinker/signaldeck/internal/view"
	"gopkg.in/yaml.v3"
)

// Output formats for settings get.
const (
	formatTable = "table"
	formatYAML  = "yaml"
	formatJSON  = "json"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func writeSignals(w io.Writer, signals []core.Signal) error {
	if len(signals) == 0 {
		_, err := fmt.Fprintln(w, "No signals found in database.")
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "TIME\tPAIR\tTYPE\tENTRY\tTP\tSL\tRESULT")
	for _, s := range signals {
		r := view.Row(s)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Time, r.Pair, r.Type, r.Entry, r.TakeProfit, r.StopLoss, r.Result)
	}
	return tw.Flush()
}

func writeAnalytics(w io.Writer, r analytics.Report) error {
	if r.TotalSignals == 0 {
		_, err := fmt.Fprintln(w, "No trading data available yet.")
		return err
	}

	fmt.Fprintf(w, "Total Signals:    %d\n", r.TotalSignals)
	fmt.Fprintf(w, "Completed Trades: %d\n", r.CompletedTrades)
	fmt.Fprintf(w, "Win Rate:         %s%%\n", r.FormattedWinRate())
	fmt.Fprintln(w)

	tw := newTable(w)
	fmt.Fprintln(tw, "OUTCOME\tCOUNT")
	for _, s := range r.PieData {
		fmt.Fprintf(tw, "%s\t%d\n", s.Name, s.Value)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)

	tw = newTable(w)
	fmt.Fprintln(tw, "PAIR\tWINS\tLOSSES\tTOTAL\tWIN RATE")
	for _, p := range r.PairStats {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.1f%%\n", p.Name, p.Wins, p.Losses, p.Total, p.WinRate)
	}
	return tw.Flush()
}

func writeStatus(w io.Writer, indicators []view.Indicator) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "SUBSYSTEM\tSTATUS")
	for _, i := range indicators {
		fmt.Fprintf(tw, "%s\t%s\n", i.Label, i.Text)
	}
	return tw.Flush()
}

func writeLogs(w io.Writer, data view.LogsData) error {
	if data.Phase == view.PhaseEmpty {
		_, err := fmt.Fprintln(w, data.EmptyMessage)
		return err
	}
	for _, l := range data.Lines {
		if _, err := fmt.Fprintf(w, "%s [%s] %s: %s\n", l.Time, l.Source, l.Level, l.Message); err != nil {
			return err
		}
	}
	return nil
}

func writeSettings(w io.Writer, s core.Settings, format string) error {
	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case formatTable, "":
		tw := newTable(w)
		fmt.Fprintf(tw, "Tracked Pairs\t%s\n", core.JoinPairs(s.TrackedPairs))
		fmt.Fprintf(tw, "ATR Multiplier\t%g\n", s.ATRMultiplier)
		fmt.Fprintf(tw, "Scan Interval\t%s\n", s.SchedulerInterval.Label())
		fmt.Fprintf(tw, "Telegram Token\t%s\n", mask(s.TelegramToken))
		fmt.Fprintf(tw, "Telegram Group\t%s\n", s.TelegramGroupID)
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q (want table, yaml or json)", format)
	}
}

// mask hides all but the last four characters of a secret.
func mask(secret string) string {
	if len(secret) <= 4 {
		if secret == "" {
			return ""
		}
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}
