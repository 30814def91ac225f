package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
)

// WriteText dumps the report in the developer format: every settlement with
// its price table and producers, then routes and ships.
func (r *Report) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	p := func(format string, args ...any) {
		fmt.Fprintf(tw, format, args...)
	}

	p("tick %s  cycle %s  sim %ss\n\n", humanize.Comma(int64(r.Tick)), humanize.Comma(int64(r.Cycle)), humanize.Commaf(float64(int64(r.SimSeconds))))

	for _, s := range r.Settlements {
		p("== %s (%s)\n", s.Name, s.Class)
		p("population\t%s\tmoney\t%s\n", humanize.Comma(int64(s.Population)), humanize.Commaf(round2(s.PopulationMoney)))
		p("market money\t%s\thappiness\t%.3f\tunemployment\t%.3f\n", humanize.Commaf(round2(s.MarketMoney)), s.Happiness, s.Unemployment)
		if s.Famine {
			p("FAMINE\n")
		}
		p("good\tprice\tqty\tprod\tcons\timport\texport\tbought\tsold\n")
		for _, g := range s.Goods {
			p("%s\t%.2f\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n", g.Good, g.Price,
				humanize.Comma(int64(g.Quantity)),
				humanize.Comma(int64(g.Production)),
				humanize.Comma(int64(g.Consumption)),
				humanize.Comma(int64(g.Import)),
				humanize.Comma(int64(g.Export)),
				humanize.Comma(int64(g.Volume.Bought)),
				humanize.Comma(int64(g.Volume.Sold)))
		}
		for _, pr := range s.Producers {
			p("producer\t%s\tlevel %d\tmoney %s\tmade %s\tsold %s\n", pr.Good, pr.Level,
				humanize.Commaf(round2(pr.Money)), humanize.Comma(int64(pr.Produced)), humanize.Comma(int64(pr.Sold)))
		}
		p("\n")
	}

	p("== routes (%d)\n", len(r.Routes))
	for _, rt := range r.Routes {
		p("#%d\t%s\t%s -> %s\tspread %.2f\n", rt.ID, rt.Good, rt.Origin, rt.Destination, rt.Spread)
	}
	p("\n== ships (%d)\n", len(r.Ships))
	for _, s := range r.Ships {
		where := s.Location
		if where == "" {
			where = "-> " + s.Target
		}
		p("%s\t%s\t%s\tmoney %s\tcargo %v\n", s.Name, s.State, where, humanize.Commaf(round2(s.Money)), s.Cargo)
	}
	return tw.Flush()
}

func round2(v float64) float64 {
	return float64(int64(v*100)) / 100
}
