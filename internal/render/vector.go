package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"docgen/internal/layout"
	"docgen/internal/model"
	"docgen/internal/theme"

	"github.com/jung-kurt/gofpdf"
)

// ErrPreviewUnsupported is returned when a raster preview is requested from
// the vector strategy; previews are routed to the markup backend.
var ErrPreviewUnsupported = errors.New("vector backend produces PDF only")

// VectorBackend draws the document directly: text runs, rectangles, rules
// and raster images at the composer's absolute millimeter positions. Kept
// for the legacy template family; fully synchronous, no shared state beyond
// its output buffer.
type VectorBackend struct{}

func NewVectorBackend() *VectorBackend {
	return &VectorBackend{}
}

func (b *VectorBackend) Render(ctx context.Context, doc *layout.ComposedDocument, spec theme.Spec, opts Options) (*model.RenderedDocument, error) {
	if opts.Preview {
		return nil, backendErr(opts, ErrPreviewUnsupported)
	}
	_ = ctx // drawing is in-process and not cancellable

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont(spec.FontFamily, "", spec.BaseFontSize)

	d := &vectorDrawer{pdf: pdf, doc: doc, spec: spec}
	for _, page := range doc.Pages {
		d.drawPage(page)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, backendErr(opts, fmt.Errorf("pdf output: %w", err))
	}

	return &model.RenderedDocument{
		Bytes:       buf.Bytes(),
		PageCount:   pdf.PageCount(),
		ContentType: "application/pdf",
	}, nil
}

type vectorDrawer struct {
	pdf  *gofpdf.Fpdf
	doc  *layout.ComposedDocument
	spec theme.Spec
}

func fill(pdf *gofpdf.Fpdf, c theme.Color)   { pdf.SetFillColor(int(c.R), int(c.G), int(c.B)) }
func stroke(pdf *gofpdf.Fpdf, c theme.Color) { pdf.SetDrawColor(int(c.R), int(c.G), int(c.B)) }
func text(pdf *gofpdf.Fpdf, c theme.Color)   { pdf.SetTextColor(int(c.R), int(c.G), int(c.B)) }

var ink = theme.Color{R: 33, G: 37, B: 41}

func (d *vectorDrawer) drawPage(page layout.Page) {
	pdf, spec, m := d.pdf, d.spec, d.doc.Metrics
	inv := d.doc.Doc

	pdf.AddPage()

	// Header band, full bleed to the top edge.
	bandHeight := m.MarginTop + page.Header.Height
	fill(pdf, spec.HeaderBackground)
	pdf.Rect(0, 0, m.PageWidth, bandHeight, "F")

	// Logo first: it is an inline raster placed before anything else shares
	// its coordinate space.
	y := m.MarginTop
	if !page.Header.Abbreviated && len(inv.Creditor.LogoPNG) > 0 {
		name := "logo-" + inv.Number
		pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(inv.Creditor.LogoPNG))
		pdf.ImageOptions(name, m.PageWidth-m.MarginSide-28, y, 28, 0, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	title := "Invoice"
	if inv.IsQuote {
		title = "Quote"
	}
	text(pdf, spec.HeaderText)
	pdf.SetFont(spec.FontFamily, "B", spec.TitleFontSize)
	pdf.Text(m.MarginSide, y+7, fmt.Sprintf("%s %s", title, inv.Number))

	pdf.SetFont(spec.FontFamily, "", spec.BaseFontSize)
	if !page.Header.Abbreviated {
		pdf.Text(m.MarginSide, y+13, fmt.Sprintf("Date: %s   Due: %s   %s",
			inv.IssueDate.Format("02.01.2006"), inv.DueDate.Format("02.01.2006"), inv.Currency))
		lineY := y + 19
		for _, line := range page.Header.CompanyLines {
			pdf.Text(m.MarginSide, lineY, line)
			lineY += m.HeaderLineHeight
		}
		d.drawAddresses(bandHeight)
	}

	d.drawTableHeader(m.MarginTop + page.Header.Height)

	for _, row := range page.Rows {
		d.drawRow(row)
	}
	if page.Totals != nil {
		d.drawTotals(*page.Totals)
	}
	if page.Slip != nil {
		d.drawSlip(*page.Slip)
	}
}

// drawAddresses paints the creditor and debtor blocks below the band on the
// first page.
func (d *vectorDrawer) drawAddresses(bandBottom float64) {
	pdf, spec, m := d.pdf, d.spec, d.doc.Metrics
	inv := d.doc.Doc

	text(pdf, ink)
	y := bandBottom - 24 // address block sits inside the lower part of the band area
	if y < m.MarginTop+16 {
		y = m.MarginTop + 16
	}

	pdf.SetFont(spec.FontFamily, "B", spec.BaseFontSize)
	pdf.Text(m.MarginSide, y, inv.Creditor.Name)
	pdf.Text(m.PageWidth/2, y, inv.Debtor.Name)
	pdf.SetFont(spec.FontFamily, "", spec.BaseFontSize)

	lineY := y + 4.5
	for _, line := range AddressDisplayLines(inv.Creditor) {
		pdf.Text(m.MarginSide, lineY, line)
		lineY += 4.5
	}
	lineY = y + 4.5
	for _, line := range AddressDisplayLines(inv.Debtor) {
		pdf.Text(m.PageWidth/2, lineY, line)
		lineY += 4.5
	}
}

// column x offsets relative to the side margin, in mm
var itemColumns = []struct {
	label string
	x     float64
	width float64
	right bool
}{
	{"Description", 0, 74, false},
	{"Qty", 74, 14, true},
	{"Unit", 88, 14, false},
	{"Unit price", 102, 24, true},
	{"Discount", 126, 22, true},
	{"Total", 148, 26, true},
}

func (d *vectorDrawer) drawTableHeader(top float64) {
	pdf, spec, m := d.pdf, d.spec, d.doc.Metrics

	fill(pdf, spec.TableHeaderBackground)
	pdf.Rect(m.MarginSide, top, m.PageWidth-2*m.MarginSide, m.TableHeaderHeight, "F")

	text(pdf, spec.TableHeaderText)
	pdf.SetFont(spec.FontFamily, "B", spec.BaseFontSize)
	for _, col := range itemColumns {
		d.cellText(top+m.TableHeaderHeight-3, col.x, col.width, col.label, col.right)
	}
	pdf.SetFont(spec.FontFamily, "", spec.BaseFontSize)
}

func (d *vectorDrawer) cellText(baseline, x, width float64, s string, right bool) {
	pdf, m := d.pdf, d.doc.Metrics
	if right {
		w := pdf.GetStringWidth(s)
		pdf.Text(m.MarginSide+x+width-w-2, baseline, s)
		return
	}
	pdf.Text(m.MarginSide+x+2, baseline, s)
}

func (d *vectorDrawer) drawRow(row layout.Row) {
	pdf, spec, m := d.pdf, d.spec, d.doc.Metrics
	item := row.Item

	text(pdf, ink)
	baseline := row.Y + 5.5

	desc := item.Description
	for i := 0; len(desc) > 0; i++ {
		n := m.RowCharsPerLine
		if n <= 0 || n > len(desc) {
			n = len(desc)
		}
		pdf.Text(m.MarginSide+2, baseline+float64(i)*m.RowLineHeight, desc[:n])
		desc = desc[n:]
	}

	discount := ""
	if !item.Discount.IsNone() {
		discount = discountLabel(item.Discount)
	}
	values := []string{"", item.Quantity.String(), item.Unit, FormatAmount(item.UnitPrice), discount, FormatAmount(item.Total)}
	for i, col := range itemColumns[1:] {
		d.cellText(baseline, col.x, col.width, values[i+1], col.right)
	}

	stroke(pdf, spec.TableBorder)
	pdf.Line(m.MarginSide, row.Y+row.Height, m.PageWidth-m.MarginSide, row.Y+row.Height)
}

func (d *vectorDrawer) drawTotals(block layout.TotalsBlock) {
	pdf, spec, m := d.pdf, d.spec, d.doc.Metrics
	inv := d.doc.Doc

	labelX := m.PageWidth - m.MarginSide - 70
	valueRight := m.PageWidth - m.MarginSide

	text(pdf, ink)
	y := block.Y + m.TotalsLineHeight

	put := func(label, value string) {
		pdf.Text(labelX, y, label)
		w := pdf.GetStringWidth(value)
		pdf.Text(valueRight-w, y, value)
		y += m.TotalsLineHeight
	}

	put("Subtotal", FormatAmount(inv.Subtotal))
	if !inv.GlobalDiscount.IsNone() {
		put("Discount "+discountLabel(inv.GlobalDiscount), "-"+discountLabel(inv.GlobalDiscount))
	}
	for _, entry := range d.doc.Presentation.TaxBreakdown {
		put(fmt.Sprintf("VAT %s%% of %s", entry.Rate.String(), FormatAmount(entry.Net)), FormatAmount(entry.Tax))
	}

	stroke(pdf, spec.TotalEmphasis)
	pdf.Line(labelX, y-m.TotalsLineHeight+2, valueRight, y-m.TotalsLineHeight+2)
	text(pdf, spec.TotalEmphasis)
	pdf.SetFont(spec.FontFamily, "B", spec.BaseFontSize+1)
	put("Total "+inv.Currency, FormatAmount(inv.Total))
	pdf.SetFont(spec.FontFamily, "", spec.BaseFontSize)

	if inv.Notes != "" {
		text(pdf, ink)
		pdf.SetFont(spec.FontFamily, "", spec.BaseFontSize-1)
		notes := inv.Notes
		noteY := y + 4
		for len(notes) > 0 {
			n := 90
			if n > len(notes) {
				n = len(notes)
			}
			pdf.Text(m.MarginSide, noteY, strings.TrimSpace(notes[:n]))
			notes = notes[n:]
			noteY += 4
		}
		pdf.SetFont(spec.FontFamily, "", spec.BaseFontSize)
	}
}
