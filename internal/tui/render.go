package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/newthinker/signaldeck/internal/view"
)

var (
	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	activeTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("62")).Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)

	goodStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	badStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	boldStyle    = lipgloss.NewStyle().Bold(true)
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("228"))
)

// style maps a view class to a color.
func style(class string) lipgloss.Style {
	switch class {
	case view.ClassGood, view.ClassBuy:
		return goodStyle
	case view.ClassBad, view.ClassSell:
		return badStyle
	case view.ClassWarn:
		return warnStyle
	case view.ClassInfo:
		return infoStyle
	case view.ClassPending:
		return pendingStyle
	default:
		return mutedStyle
	}
}

// View renders the UI
func (m Model) View() string {
	var body string
	switch m.active {
	case tabDashboard:
		body = renderDashboard(view.Dashboard(m.state))
	case tabSignals:
		body = renderSignals(view.Signals(m.state))
	case tabAnalytics:
		body = renderAnalytics(view.Analytics(m.state))
	case tabLogs:
		body = renderLogs(m.logs)
	case tabSettings:
		body = renderSettings(m.settings)
	}

	status := "idle"
	if m.state.IsLoading {
		status = "refreshing..."
	} else if !m.state.UpdatedAt.IsZero() {
		status = "updated " + m.state.UpdatedAt.Local().Format(view.TimeLayout)
	}
	footer := mutedStyle.Render(fmt.Sprintf("%s | tab/1-5 switch | r refresh | q quit", status))

	return lipgloss.JoinVertical(lipgloss.Left, m.renderTabs(), body, footer)
}

func (m Model) renderTabs() string {
	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if tab(i) == m.active {
			tabs[i] = activeTabStyle.Render(label)
		} else {
			tabs[i] = inactiveTabStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func box(title, content string) string {
	return borderStyle.Render(lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), content))
}

// phaseContent returns the placeholder for non-ready phases.
func phaseContent(phase view.Phase, errTitle, errMsg, empty string) (string, bool) {
	switch phase {
	case view.PhaseLoading:
		return mutedStyle.Render("Loading..."), true
	case view.PhaseError:
		return badStyle.Render(strings.TrimSpace(errTitle + " " + errMsg)), true
	case view.PhaseEmpty:
		return mutedStyle.Render(empty), true
	}
	return "", false
}

func renderDashboard(d view.DashboardData) string {
	var ind []string
	for _, i := range d.Indicators {
		st := badStyle
		if i.Online {
			st = goodStyle
		}
		ind = append(ind, fmt.Sprintf("%s %s", boldStyle.Render(i.Label), st.Render("● "+i.Text)))
	}
	status := box("System Status", strings.Join(ind, "   "))

	content, done := phaseContent(d.Phase, d.ErrorTitle, d.Error, d.EmptyMessage+"\n"+d.EmptyHint)
	if !done {
		cards := make([]string, 0, len(d.Cards))
		for _, c := range d.Cards {
			cards = append(cards, renderCard(c))
		}
		content = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}

	return lipgloss.JoinVertical(lipgloss.Left, box(d.Title, status), box("Latest Signals", content))
}

func renderCard(c view.SignalCard) string {
	statusStyle := mutedStyle
	if c.Pending {
		statusStyle = pendingStyle
	}
	lines := []string{
		fmt.Sprintf("%s  %s", boldStyle.Render(c.Pair), style(c.TypeClass).Render(c.Type)),
		mutedStyle.Render(c.Time),
		fmt.Sprintf("ENTRY %s", c.Entry),
		goodStyle.Render("TP    " + c.TakeProfit),
		badStyle.Render("SL    " + c.StopLoss),
		fmt.Sprintf("%s  %s", mutedStyle.Render(c.Strategy), statusStyle.Render(c.Status)),
	}
	return borderStyle.Render(strings.Join(lines, "\n"))
}

func renderSignals(d view.SignalsData) string {
	content, done := phaseContent(d.Phase, d.ErrorTitle, d.Error, d.EmptyMessage)
	if done {
		return box(d.Title, content)
	}

	var b strings.Builder
	b.WriteString(boldStyle.Render(fmt.Sprintf("%-19s  %-8s  %-4s  %12s  %12s  %12s  %s",
		"Time", "Pair", "Type", "Entry", "Take Profit", "Stop Loss", "Result")))
	for _, r := range d.Rows {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%-19s  %-8s  %s  %12s  %12s  %12s  %s",
			r.Time, r.Pair,
			style(r.TypeClass).Render(fmt.Sprintf("%-4s", r.Type)),
			r.Entry, r.TakeProfit, r.StopLoss,
			style(r.ResultClass).Render(r.Result)))
	}
	return box(d.Title, b.String())
}

func renderAnalytics(d view.AnalyticsData) string {
	content, done := phaseContent(d.Phase, d.ErrorTitle, d.Error, d.EmptyMessage)
	if done {
		return box(d.Title, content)
	}

	kpis := make([]string, 0, len(d.KPIs))
	for _, k := range d.KPIs {
		kpis = append(kpis, borderStyle.Render(mutedStyle.Render(k.Title)+"\n"+style(k.Class).Bold(true).Render(k.Value)))
	}

	var pie strings.Builder
	for _, s := range d.PieData {
		pie.WriteString(fmt.Sprintf("%-8s %s %d\n", s.Name, bar(s.Value, d.Report.TotalSignals, 30), s.Value))
	}

	var pairs strings.Builder
	pairs.WriteString(boldStyle.Render(fmt.Sprintf("%-8s %5s %6s %6s %8s", "Pair", "Wins", "Losses", "Total", "Win Rate")))
	for _, p := range d.BarData {
		pairs.WriteString(fmt.Sprintf("\n%-8s %5s %6s %6d %8s",
			p.Name,
			goodStyle.Render(fmt.Sprintf("%5d", p.Wins)),
			badStyle.Render(fmt.Sprintf("%6d", p.Losses)),
			p.Total,
			style(view.WinRateClass(p.WinRate)).Render(fmt.Sprintf("%7.1f%%", p.WinRate))))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, kpis...),
		box("Overall Performance", strings.TrimRight(pie.String(), "\n")),
		box("Performance by Pair", pairs.String()),
	)
}

func bar(n, total, width int) string {
	if total == 0 {
		return strings.Repeat(" ", width)
	}
	filled := n * width / total
	return infoStyle.Render(strings.Repeat("█", filled)) + strings.Repeat(" ", width-filled)
}

func renderLogs(d view.LogsData) string {
	content, done := phaseContent(d.Phase, d.ErrorTitle, d.Error, d.EmptyMessage)
	if done {
		return box(d.Title, content)
	}

	lines := make([]string, 0, len(d.Lines))
	for _, l := range d.Lines {
		lines = append(lines, fmt.Sprintf("%s %s %s",
			mutedStyle.Render(l.Time),
			style(l.LevelClass).Bold(true).Render(fmt.Sprintf("[%s %s]", l.Source, l.Level)),
			l.Message))
	}
	return box(d.Title, strings.Join(lines, "\n"))
}

func renderSettings(d view.SettingsData) string {
	token := ""
	if d.Form.TelegramToken != "" {
		token = strings.Repeat("•", 8)
	}

	interval := string(d.Form.SchedulerInterval)
	for _, o := range d.Intervals {
		if o.Selected {
			interval = o.Label
		}
	}

	lines := []string{
		fmt.Sprintf("%-24s %s", "Tracked Currency Pairs", d.Form.TrackedPairs),
		fmt.Sprintf("%-24s %s", "ATR Multiplier (SL/TP)", d.Form.ATRMultiplier),
		fmt.Sprintf("%-24s %s", "Scan Interval", interval),
		fmt.Sprintf("%-24s %s", "Bot Token", token),
		fmt.Sprintf("%-24s %s", "Chat / Channel ID", d.Form.TelegramGroupID),
		"",
		mutedStyle.Render("Edit with: signaldeck settings set"),
	}
	if d.Error != "" {
		lines = append([]string{badStyle.Render(d.Error), ""}, lines...)
	}
	return box(d.Title, strings.Join(lines, "\n"))
}
