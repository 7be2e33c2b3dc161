package layout

import (
	"log"
	"math"

	"docgen/internal/finance"
	"docgen/internal/model"
	"docgen/internal/qrbill"
)

// A4, in millimeters. Every position upstream of the render boundary is in
// mm; backends convert to their native units themselves.
const (
	PageWidth  = 210.0
	PageHeight = 297.0

	// The payment slip occupies the full bottom band of the last page and
	// must never be split: receipt and payment part travel together.
	SlipHeight = 105.0
)

// Metrics are the fixed geometry knobs of the composer. Defaults match the
// production templates; tests tighten them to force specific breaks.
type Metrics struct {
	PageWidth  float64
	PageHeight float64

	MarginTop    float64
	MarginSide   float64
	MarginBottom float64

	HeaderBaseHeight   float64 // title row + address block
	HeaderMinHeight    float64
	HeaderLineHeight   float64 // per enabled company-info line
	AbbrevHeaderHeight float64 // repeated band on later pages
	TableHeaderHeight  float64

	RowBaseHeight   float64
	RowLineHeight   float64 // per wrapped description line beyond the first
	RowCharsPerLine int

	TotalsLineHeight float64
	SlipHeight       float64
}

// DefaultMetrics returns the production geometry.
func DefaultMetrics() Metrics {
	return Metrics{
		PageWidth:          PageWidth,
		PageHeight:         PageHeight,
		MarginTop:          18,
		MarginSide:         18,
		MarginBottom:       12,
		HeaderBaseHeight:   42,
		HeaderMinHeight:    52,
		HeaderLineHeight:   4.5,
		AbbrevHeaderHeight: 22,
		TableHeaderHeight:  9,
		RowBaseHeight:      8,
		RowLineHeight:      4.5,
		RowCharsPerLine:    55,
		TotalsLineHeight:   7,
		SlipHeight:         SlipHeight,
	}
}

// HeaderBand is the painted top band of a page. Later pages repeat the band
// abbreviated: same colors, no address block.
type HeaderBand struct {
	Height       float64
	Abbreviated  bool
	CompanyLines []string
}

// Row is one atomic item row; rows are never split across pages.
type Row struct {
	Y      float64
	Height float64
	Item   model.LineItem
}

// TotalsBlock closes the item table on the last page.
type TotalsBlock struct {
	Y      float64
	Height float64
}

// SlipContent pairs the structured slip input with its encoded payload.
type SlipContent struct {
	Data   qrbill.SlipData
	Result qrbill.EncodeResult
}

// SlipBlock pins the slip content to a page position.
type SlipBlock struct {
	Y       float64
	Content SlipContent
}

// Page is one composed A4 page.
type Page struct {
	Number int
	Header HeaderBand
	Rows   []Row
	Totals *TotalsBlock
	Slip   *SlipBlock
}

// ComposedDocument is the composer's output: the source aggregate, the
// derived presentation and the fully positioned pages. The slip, when
// included, sits on the final page only.
type ComposedDocument struct {
	Doc          *model.InvoiceDocument
	Presentation finance.Presentation
	Toggles      model.CompanyInfoToggles
	Metrics      Metrics
	Pages        []Page
	SlipIncluded bool
	RowOverflow  bool // a single row exceeded a full page; clipped after one forced break
}

// Composer is a small state machine over {current page, cursorY}.
type Composer struct {
	m       Metrics
	toggles model.CompanyInfoToggles
}

func NewComposer(m Metrics, toggles model.CompanyInfoToggles) *Composer {
	return &Composer{m: m, toggles: toggles}
}

// Compose paginates the document. Item rows are appended atomically; the
// totals block and the slip zone form one unbreakable group that is pushed
// to a fresh page when the remaining space cannot hold it.
func (c *Composer) Compose(doc *model.InvoiceDocument, pres finance.Presentation, slip *SlipContent) *ComposedDocument {
	out := &ComposedDocument{
		Doc:          doc,
		Presentation: pres,
		Toggles:      c.toggles,
		Metrics:      c.m,
	}

	companyLines := CompanyInfoLines(doc.Creditor, c.toggles)
	firstHeader := math.Max(c.m.HeaderMinHeight, c.m.HeaderBaseHeight+float64(len(companyLines))*c.m.HeaderLineHeight)

	bottom := c.m.PageHeight - c.m.MarginBottom

	page := Page{
		Number: 1,
		Header: HeaderBand{Height: firstHeader, CompanyLines: companyLines},
	}
	cursorY := c.m.MarginTop + firstHeader + c.m.TableHeaderHeight

	newPage := func() {
		out.Pages = append(out.Pages, page)
		page = Page{
			Number: page.Number + 1,
			Header: HeaderBand{Height: c.m.AbbrevHeaderHeight, Abbreviated: true},
		}
		cursorY = c.m.MarginTop + c.m.AbbrevHeaderHeight + c.m.TableHeaderHeight
	}

	for _, item := range doc.Items {
		h := c.rowHeight(item)
		if cursorY+h > bottom {
			newPage()
			if cursorY+h > bottom {
				// Defensive: one forced break only, then clip. Never loops.
				out.RowOverflow = true
				log.Printf("WARNING: document %s: item row of %.1fmm exceeds printable page height", doc.Number, h)
			}
		}
		page.Rows = append(page.Rows, Row{Y: cursorY, Height: h, Item: item})
		cursorY += h
	}

	includeSlip := slip != nil && !slip.Result.Skip
	totalsH := c.totalsHeight(doc, pres)

	groupLimit := bottom
	if includeSlip {
		groupLimit = math.Min(groupLimit, c.m.PageHeight-c.m.SlipHeight)
	}
	if cursorY+totalsH > groupLimit {
		newPage()
	}

	page.Totals = &TotalsBlock{Y: cursorY, Height: totalsH}
	if includeSlip {
		page.Slip = &SlipBlock{Y: c.m.PageHeight - c.m.SlipHeight, Content: *slip}
		out.SlipIncluded = true
	}
	out.Pages = append(out.Pages, page)

	return out
}

// rowHeight grows with the wrapped description; rows stay atomic regardless.
func (c *Composer) rowHeight(item model.LineItem) float64 {
	lines := 1
	if c.m.RowCharsPerLine > 0 && len(item.Description) > c.m.RowCharsPerLine {
		lines = (len(item.Description) + c.m.RowCharsPerLine - 1) / c.m.RowCharsPerLine
	}
	return c.m.RowBaseHeight + float64(lines-1)*c.m.RowLineHeight
}

// totalsHeight covers subtotal, the per-rate breakdown, an optional global
// discount line and the emphasized total.
func (c *Composer) totalsHeight(doc *model.InvoiceDocument, pres finance.Presentation) float64 {
	lines := 2 + len(pres.TaxBreakdown) // subtotal + breakdown + total
	if !doc.GlobalDiscount.IsNone() {
		lines++
	}
	return float64(lines) * c.m.TotalsLineHeight
}

// CompanyInfoLines builds the togglable company-info lines of the header
// band, in fixed order.
func CompanyInfoLines(creditor model.Party, t model.CompanyInfoToggles) []string {
	var lines []string
	if t.ShowVAT && creditor.VATNumber != "" {
		lines = append(lines, "VAT "+creditor.VATNumber)
	}
	if t.ShowPhone && creditor.Phone != "" {
		lines = append(lines, creditor.Phone)
	}
	if t.ShowEmail && creditor.Email != "" {
		lines = append(lines, creditor.Email)
	}
	if t.ShowWebsite && creditor.Website != "" {
		lines = append(lines, creditor.Website)
	}
	if t.ShowIBAN && creditor.IBAN != "" {
		lines = append(lines, qrbill.FormatIBAN(creditor.IBAN))
	}
	return lines
}
