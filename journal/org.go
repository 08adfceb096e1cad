package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatTradeOrg renders a TradeRecord as an Org-mode block. Structured facts
// go in the PROPERTIES drawer; the reasoning becomes the Thesis.
func FormatTradeOrg(t TradeRecord) string {
	heading := fmt.Sprintf("** %s %s %d %s (%s)", t.Outcome, t.Side, t.Contracts, t.Symbol, shortID(t.TradeID))

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":TRADE_ID: %s\n", t.TradeID))
	b.WriteString(fmt.Sprintf(":TIME: %s\n", t.Time.UTC().Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf(":SYMBOL: %s\n", t.Symbol))
	b.WriteString(fmt.Sprintf(":SIDE: %s\n", t.Side))
	b.WriteString(fmt.Sprintf(":CONTRACTS: %d\n", t.Contracts))
	b.WriteString(fmt.Sprintf(":FILL_PRICE: %s\n", t.FillPrice.StringFixed(2)))
	b.WriteString(fmt.Sprintf(":STOP_PRICE: %s\n", t.StopPrice.StringFixed(2)))
	b.WriteString(fmt.Sprintf(":COMMISSION: %s\n", t.Commission.StringFixed(2)))
	b.WriteString(fmt.Sprintf(":REALIZED_PL: %s\n", t.RealizedPL.StringFixed(2)))
	b.WriteString(fmt.Sprintf(":OUTCOME: %s\n", t.Outcome))
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Thesis\n- ")
	b.WriteString(t.Reasoning)
	b.WriteString("\n\n*** Review\n- \n")

	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []TradeRecord) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
