package renderer

import (
	"encoding/csv"
	"io"
)

// WriteCSV exports the computed report, one row per lot, metrics included.
// Undefined metrics are exported as empty cells.
func WriteCSV(w io.Writer, p *Portfolio) error {
	out := csv.NewWriter(w)
	header := []string{
		"instrument", "type", "category", "scheme_code",
		"units", "purchase_nav", "amount",
		"current_nav", "current_value", "abs_return_pct", "cagr_pct", "holding_years",
	}
	if err := out.Write(header); err != nil {
		return err
	}
	for _, r := range p.Rows {
		rec := []string{
			r.Name, r.Type, r.Category, r.SchemeCode,
			r.Units.String(),
			r.PurchaseNAV.Decimal().String(),
			r.Amount.Decimal().String(),
			blankDash(r.CurrentNAV), blankDash(r.Value),
			blankDash(r.AbsReturn), blankDash(r.CAGR),
			r.Years,
		}
		if err := out.Write(rec); err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}

func blankDash(s string) string {
	if s == "-" {
		return ""
	}
	return s
}
