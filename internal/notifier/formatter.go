package notifier

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/masoncj86-ctrl/mason-trader/internal/model"
)

const reportSeparator = "------------------"

// FormatDailyReport renders the daily screening report as plain text.
func FormatDailyReport(r *model.Report) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📅 %s\n", r.Date.Format("2006-01-02 (Mon)")))
	b.WriteString("🌅 [Mason Daily Report]\n")
	rate := humanize.FormatFloat("#,###.#", r.Rate)
	if r.RateFallback {
		rate += " (fallback)"
	}
	b.WriteString(fmt.Sprintf("SEED: %s x10k %s / RATE: %s %s\n",
		humanize.Commaf(r.Seed), r.Currency, rate, r.Currency))

	if len(r.Candidates) == 0 {
		b.WriteString(fmt.Sprintf("\n✅ No new candidates (RSI > %s).\n", trimFloat(r.Threshold)))
	}
	for _, e := range r.Candidates {
		b.WriteString(fmt.Sprintf("\n🚀 [NEW] %s\n", e.Ticker))
		b.WriteString(fmt.Sprintf("RSI: %s%s / PRICE: $%.2f\n", formatRSI(e.RSI), trendMarker(e.RSI, e.PrevRSI), e.LastClose))
		b.WriteString(fmt.Sprintf("QTY: %d\n", e.Quantity))
	}

	for _, e := range r.Holdings {
		b.WriteString(fmt.Sprintf("\n📦 [HOLDING] %s\n", e.Ticker))
		b.WriteString(fmt.Sprintf("RSI: %s%s / QTY: %d\n", formatRSI(e.RSI), trendMarker(e.RSI, e.PrevRSI), e.Quantity))
		b.WriteString(fmt.Sprintf("LOC(%s%%): $%.2f\n", trimFloat(r.LOCMarkup*100), e.LimitPrice))
	}

	b.WriteString("\n" + reportSeparator + "\nEND OF REPORT.")
	return b.String()
}

// FormatStatus renders the persisted settings for the /status command.
func FormatStatus(st model.Settings) string {
	var b strings.Builder
	b.WriteString("⚙️ [Mason Settings]\n")
	b.WriteString(fmt.Sprintf("SEED: %s\n", st.Seed))
	holdings := st.Holdings
	if holdings == "" {
		holdings = "(none)"
	}
	b.WriteString(fmt.Sprintf("HOLDINGS: %s\n", holdings))
	last := st.LastRunDate
	if last == "" {
		last = "never"
	}
	b.WriteString(fmt.Sprintf("LAST RUN: %s", last))
	return b.String()
}

func formatRSI(rsi float64) string {
	if math.IsNaN(rsi) {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", rsi)
}

// trendMarker compares the RSI with its value one bar earlier.
func trendMarker(rsi, prev float64) string {
	switch {
	case math.IsNaN(rsi) || math.IsNaN(prev):
		return ""
	case rsi > prev:
		return " ▲"
	case rsi < prev:
		return " ▼"
	}
	return ""
}

func trimFloat(v float64) string {
	return humanize.Ftoa(math.Round(v*100) / 100)
}
