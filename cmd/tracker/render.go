package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/anystockai/tracker/internal/core"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printSignal(w io.Writer, s *core.Signal) {
	fmt.Fprintf(w, "Symbol:        %s\n", core.FormatText(s.Symbol))
	fmt.Fprintf(w, "Buy:           %s\n", core.YesNo(s.BuySignal))
	fmt.Fprintf(w, "Sell:          %s\n", core.YesNo(s.SellSignal))
	fmt.Fprintf(w, "Hold:          %s\n", core.YesNo(s.HoldSignal))
	fmt.Fprintf(w, "Confidence:    %s\n", core.FormatFloat(s.Confidence))
	fmt.Fprintf(w, "Current Price: %s\n", core.FormatFloat(s.CurrentPrice))
	fmt.Fprintf(w, "Open Price:    %s\n", core.FormatFloat(s.OpenPrice))
	fmt.Fprintf(w, "High Price:    %s\n", core.FormatFloat(s.HighPrice))
	fmt.Fprintf(w, "Low Price:     %s\n", core.FormatFloat(s.LowPrice))
	if s.Timestamp != "" {
		fmt.Fprintf(w, "Timestamp:     %s\n", s.Timestamp)
	}
}

func printRealtime(w io.Writer, s core.Signal) {
	fmt.Fprintf(w, "%s  %-6s buy=%s sell=%s confidence=%s price=%s\n",
		core.FormatText(s.Timestamp),
		core.FormatText(s.Symbol),
		core.YesNo(s.BuySignal),
		core.YesNo(s.SellSignal),
		core.FormatFloat(s.Confidence),
		core.FormatFloat(s.CurrentPrice),
	)
}

func printHistory(w io.Writer, records []core.HistoryRecord) error {
	if len(records) == 0 {
		fmt.Fprintln(w, "No signal history.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tTIMESTAMP\tBUY\tSELL\tCONFIDENCE\tPRICE\tOPEN\tHIGH\tLOW")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			core.FormatText(r.Symbol),
			core.FormatText(r.Timestamp),
			core.YesNo(r.BuySignal),
			core.YesNo(r.SellSignal),
			core.FormatFloat(r.Confidence),
			core.FormatFloat(r.CurrentPrice),
			core.FormatFloat(r.OpenPrice),
			core.FormatFloat(r.HighPrice),
			core.FormatFloat(r.LowPrice),
		)
	}
	return tw.Flush()
}

func printPrices(w io.Writer, bars []core.PriceBar) error {
	if len(bars) == 0 {
		fmt.Fprintln(w, "No price data.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIMESTAMP\tOPEN\tHIGH\tLOW\tCLOSE\tVOLUME")
	for _, b := range bars {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			core.FormatText(b.Timestamp),
			core.FormatFloat(b.Open),
			core.FormatFloat(b.High),
			core.FormatFloat(b.Low),
			core.FormatFloat(b.Close),
			core.FormatFloat(b.Volume),
		)
	}
	return tw.Flush()
}
