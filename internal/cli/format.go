package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"TradeMind/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
	upStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("46"))
	downStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))
	codeStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

func signed(v float64, format string) string {
	s := fmt.Sprintf(format, v)
	if v < 0 {
		return downStyle.Render(s)
	}
	return upStyle.Render(s)
}

// FormatBacktest renders a backtest result with its Pine Script.
func FormatBacktest(pair, from, to string, r model.BacktestResult) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Backtest | %s | %s → %s", pair, from, to)))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s %.2f%%\n", labelStyle.Render("Win rate:     "), r.WinRate))
	b.WriteString(fmt.Sprintf("%s %d\n", labelStyle.Render("Total trades: "), r.TotalTrades))
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Net profit:   "), signed(r.NetProfit, "%+.2f%%")))
	b.WriteString(fmt.Sprintf("%s %.2f\n", labelStyle.Render("Profit factor:"), r.ProfitFactor))
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Max drawdown: "), downStyle.Render(fmt.Sprintf("%.2f%%", r.MaxDrawdown))))
	b.WriteString("\n")
	b.WriteString(r.Analysis)
	b.WriteString("\n\n")
	b.WriteString(codeStyle.Render(r.PineScriptCode))
	b.WriteString("\n")
	return b.String()
}

// FormatTrend renders the AI trend read for a pair.
func FormatTrend(p model.Pair, price float64, text string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s | %s", p.Symbol, p.Name)))
	b.WriteString(fmt.Sprintf("  %.2f  %s\n\n", price, signed(p.Change, "%+.2f%%")))
	b.WriteString(text)
	b.WriteString("\n")
	return b.String()
}

// FormatWatchlist renders pairs as an aligned table.
func FormatWatchlist(pairs []model.Pair) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Watchlist"))
	b.WriteString("\n\n")
	for _, p := range pairs {
		b.WriteString(fmt.Sprintf("%-10s %-14s %-12s %12.2f  %s\n",
			p.Symbol, p.Name, labelStyle.Render(string(p.Category)), p.Price, signed(p.Change, "%+.2f%%")))
	}
	return b.String()
}

// FormatNews renders headlines with their sentiment.
func FormatNews(items []model.NewsItem) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Headlines"))
	b.WriteString("\n\n")
	for _, n := range items {
		mark := labelStyle.Render("•")
		switch n.Sentiment {
		case model.SentimentPositive:
			mark = upStyle.Render("▲")
		case model.SentimentNegative:
			mark = downStyle.Render("▼")
		}
		b.WriteString(fmt.Sprintf("%s %s\n  %s\n", mark, n.Title, labelStyle.Render(n.Source+" · "+n.Time)))
	}
	return b.String()
}

// FormatStrategies renders the strategy library.
func FormatStrategies(list []model.SavedStrategy) string {
	if len(list) == 0 {
		return labelStyle.Render("No saved strategies.") + "\n"
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Saved strategies (%d)", len(list))))
	b.WriteString("\n\n")
	for _, s := range list {
		saved := time.UnixMilli(s.Timestamp).Format("2006-01-02 15:04")
		b.WriteString(fmt.Sprintf("%s  %s\n  %s\n  %s\n", s.Name, labelStyle.Render(s.ID), s.Description, labelStyle.Render(saved)))
	}
	return b.String()
}
