// Package renderer turns a holding set into displayable reports: a
// markdown portfolio table for the terminal, and a CSV export.
package renderer

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"text/template"

	"github.com/avinashs/navtrack"
	"github.com/avinashs/navtrack/date"
)

// Sort metrics accepted by NewPortfolio.
const (
	ByCAGR      = "cagr"
	ByAbsReturn = "abs"
	ByValue     = "value"
)

// Row is one holding with its derived metrics, ready for rendering.
// Undefined metrics (no price known yet, zero amount, zero holding
// period) render as "-", they are never coerced to zero.
type Row struct {
	Name        string
	Type        string
	Category    string
	SchemeCode  string
	Units       navtrack.Quantity
	PurchaseNAV navtrack.Money
	Amount      navtrack.Money
	Years       string
	CurrentNAV  string
	Value       string
	AbsReturn   string
	CAGR        string

	// numeric sort keys, -Inf when the metric is undefined
	cagr, abs, value float64
}

// Portfolio is the report of one owner's holdings on a given date.
type Portfolio struct {
	Owner string
	Date  date.Date
	Rows  []Row
	// TotalAmount is the sum of invested amounts over all lots.
	TotalAmount navtrack.Money
	// TotalValue sums the current value of priced lots only; lots without
	// a known NAV are excluded, not counted as zero.
	TotalValue navtrack.Money
	// Unpriced is the number of lots excluded from TotalValue.
	Unpriced int
	// Top holds the TopK best rows by the sort metric.
	Top []Row
	// Metric is the sort metric used for ordering and top performers.
	Metric string
}

// NewPortfolio computes derived metrics for every holding and sorts the
// rows by the given metric, best first. topK bounds the top performers
// section; zero disables it.
func NewPortfolio(holdings []navtrack.Holding, on date.Date, metric string, topK int, currency string) *Portfolio {
	p := &Portfolio{
		Date:        on,
		Metric:      metric,
		TotalAmount: navtrack.M(0, currency),
		TotalValue:  navtrack.M(0, currency),
	}
	if metric != ByAbsReturn && metric != ByValue {
		p.Metric = ByCAGR
	}

	for _, h := range holdings {
		if p.Owner == "" {
			p.Owner = h.Owner
		}
		row := newRow(h, on)
		p.TotalAmount = p.TotalAmount.Add(h.Amount)
		if value, ok := h.CurrentValue(); ok {
			p.TotalValue = p.TotalValue.Add(value)
		} else {
			p.Unpriced++
		}
		p.Rows = append(p.Rows, row)
	}

	key := func(r Row) float64 { return r.cagr }
	switch p.Metric {
	case ByAbsReturn:
		key = func(r Row) float64 { return r.abs }
	case ByValue:
		key = func(r Row) float64 { return r.value }
	}
	sort.SliceStable(p.Rows, func(i, j int) bool { return key(p.Rows[i]) > key(p.Rows[j]) })

	if topK > len(p.Rows) {
		topK = len(p.Rows)
	}
	if topK > 0 {
		p.Top = p.Rows[:topK]
	}
	return p
}

func newRow(h navtrack.Holding, on date.Date) Row {
	row := Row{
		Name:        h.Name,
		Type:        h.Type,
		Category:    h.Category,
		SchemeCode:  h.SchemeCode,
		Units:       h.Units,
		PurchaseNAV: h.PurchaseNAV,
		Amount:      h.Amount,
		Years:       fmt.Sprintf("%.2f", h.HoldingYears(on)),
		CurrentNAV:  "-",
		Value:       "-",
		AbsReturn:   "-",
		CAGR:        "-",
		cagr:        math.Inf(-1),
		abs:         math.Inf(-1),
		value:       math.Inf(-1),
	}
	value, ok := h.CurrentValue()
	if !ok {
		return row
	}
	row.CurrentNAV = h.CurrentNAV.String()
	row.Value = value.String()
	row.value = value.Decimal().InexactFloat64()
	if abs, ok := h.AbsoluteReturn(); ok {
		row.AbsReturn = abs.SignedString()
		row.abs = float64(abs)
	}
	if cagr, ok := h.AnnualizedReturn(on); ok {
		row.CAGR = cagr.SignedString()
		row.cagr = float64(cagr)
	}
	return row
}

// metricLabel names the sort metric in the report.
func (p *Portfolio) MetricLabel() string {
	switch p.Metric {
	case ByAbsReturn:
		return "absolute return"
	case ByValue:
		return "current value"
	default:
		return "CAGR"
	}
}

const portfolioMarkdownTemplate = `# Portfolio of {{ .Owner }} on {{ .Date }}

| Instrument | Type | Units | Purchase NAV | Invested | Current NAV | Current Value | Abs Return | CAGR | Held (yrs) |
|:---|:---|---:|---:|---:|---:|---:|---:|---:|---:|
{{- range .Rows }}
| {{ .Name }} | {{ .Type }} | {{ .Units }} | {{ .PurchaseNAV }} | {{ .Amount }} | {{ .CurrentNAV }} | {{ .Value }} | {{ .AbsReturn }} | {{ .CAGR }} | {{ .Years }} |
{{- end }}
| **Total** | | | | **{{ .TotalAmount }}** | | **{{ .TotalValue }}** | | | |
{{- if .Unpriced }}

{{ .Unpriced }} lot(s) have no known NAV yet and are excluded from the total current value.
{{- end }}
{{- if .Top }}

## Top performers by {{ .MetricLabel }}

| Instrument | Current Value | Abs Return | CAGR |
|:---|---:|---:|---:|
{{- range .Top }}
| {{ .Name }} | {{ .Value }} | {{ .AbsReturn }} | {{ .CAGR }} |
{{- end }}
{{- end }}
`

// PortfolioMarkdown renders the report as a markdown document.
func PortfolioMarkdown(p *Portfolio) string {
	tmpl := template.Must(template.New("portfolio").Parse(portfolioMarkdownTemplate))
	var b strings.Builder
	if err := tmpl.Execute(&b, p); err != nil {
		return fmt.Sprintf("Error executing template: %v", err)
	}
	return b.String()
}
