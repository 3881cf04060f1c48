package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"upbit-trade-dashboard/internal/analytics"
	"upbit-trade-dashboard/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

var coinNames = map[models.Coin]string{
	models.BTC: "Bitcoin",
	models.ETH: "Ethereum",
}

// CoinName returns the display name of a coin.
func CoinName(c models.Coin) string {
	if name, ok := coinNames[c]; ok {
		return name
	}
	return string(c)
}

// Report renders a dashboard for a terminal.
func Report(d *analytics.Dashboard, timeFormat string) string {
	if timeFormat == "" {
		timeFormat = analytics.DefaultLabelTimeFormat
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Crypto Trading Dashboard (" + string(d.View) + ")"))
	b.WriteString("\n")

	if d.Empty {
		b.WriteString(mutedStyle.Render("No trade data available."))
		b.WriteString("\n")
		return b.String()
	}

	panels := make([]string, 0, len(d.Assets))
	for _, a := range d.Assets {
		panels = append(panels, boxStyle.Render(performancePanel(a)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panels...))
	b.WriteString("\n\n")

	section(&b, "Portfolio Distribution")
	rows := make([][]string, 0, len(d.Composition))
	for _, c := range d.Composition {
		rows = append(rows, []string{c.Asset, c.Balance, c.Percentage})
	}
	b.WriteString(newTable([]string{"Asset", "Balance", "Percentage"}, rows))
	b.WriteString("\n")
	if d.LivePrices {
		b.WriteString(mutedStyle.Render("valued at live Upbit prices"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	section(&b, "Trade Decisions ("+string(d.View)+")")
	rows = rows[:0]
	for _, dc := range d.Decisions {
		rows = append(rows, []string{string(dc.Decision), strconv.Itoa(dc.Count)})
	}
	b.WriteString(newTable([]string{"Decision", "Count"}, rows))
	b.WriteString("\n\n")

	section(&b, "Recent Trades")
	rows = make([][]string, 0, len(d.Trades))
	for _, tr := range d.Trades {
		rows = append(rows, []string{
			tr.Timestamp.Format(timeFormat),
			string(tr.Coin),
			string(tr.Decision),
			strconv.FormatFloat(tr.Percentage, 'f', -1, 64),
			tr.Reason,
		})
	}
	b.WriteString(newTable([]string{"Timestamp", "Coin", "Decision", "Percentage", "Reason"}, rows))
	b.WriteString("\n\n")

	section(&b, "Recent Trading Reflections")
	if len(d.Reflections) == 0 {
		b.WriteString(mutedStyle.Render("No reflections recorded."))
		b.WriteString("\n")
	}
	for _, r := range d.Reflections {
		fmt.Fprintf(&b, "%s %s\n", mutedStyle.Render(fmt.Sprintf("[%d]", r.ID)), r.Label)
	}
	return b.String()
}

func performancePanel(a analytics.AssetPerformance) string {
	return strings.Join([]string{
		headerStyle.Render(CoinName(a.Coin) + " 7-Day Performance"),
		fmt.Sprintf("Success Rate          %.1f%%", a.SuccessRate),
		fmt.Sprintf("Total/Success Trades  %d/%d", a.Success.Total, a.Success.Successful),
	}, "\n")
}

// ReflectionDetail renders the details of one selected reflection.
func ReflectionDetail(e analytics.ReflectionEntry) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Details for " + e.Label))
	b.WriteString("\n\n")
	b.WriteString(headerStyle.Render("Reflection:"))
	b.WriteString("\n" + e.Reflection + "\n\n")
	b.WriteString(headerStyle.Render("Reason:"))
	b.WriteString("\n" + e.Reason + "\n")
	return boxStyle.Render(b.String())
}

func section(b *strings.Builder, title string) {
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n")
}

func newTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		String()
}
