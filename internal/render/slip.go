package render

import (
	"bytes"
	"log"

	"docgen/internal/layout"
	"docgen/internal/qrbill"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// Slip geometry per the Swiss implementation guidelines, in mm. The slip
// band is full-bleed: 210mm wide, 105mm tall, receipt on the left.
const (
	slipReceiptWidth = 62.0
	slipPadding      = 5.0
	slipQRSize       = 46.0
	slipCrossSize    = 7.0
	slipLabelSize    = 6.0
	slipValueSize    = 8.0
	slipTitleSize    = 11.0
)

// drawSlip paints the receipt and payment-part halves of the QR-bill at the
// bottom of the last page. The two halves are always emitted together.
func (d *vectorDrawer) drawSlip(block layout.SlipBlock) {
	pdf, spec, m := d.pdf, d.spec, d.doc.Metrics
	content := block.Content
	top := block.Y

	// Separation lines: horizontal above the slip, vertical between the
	// receipt and the payment part.
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetDashPattern([]float64{1.5, 1.5}, 0)
	pdf.Line(0, top, m.PageWidth, top)
	pdf.Line(slipReceiptWidth, top, slipReceiptWidth, m.PageHeight)
	pdf.SetDashPattern([]float64{}, 0)

	text(pdf, ink)

	creditorLines := append([]string{content.Data.Creditor.Name}, AddressDisplayLines(content.Data.Creditor)...)
	var debtorLines []string
	if content.Data.Debtor != nil {
		debtorLines = append([]string{content.Data.Debtor.Name}, AddressDisplayLines(*content.Data.Debtor)...)
	}
	amount := ""
	if content.Data.Amount != nil {
		amount = FormatAmount(*content.Data.Amount)
	}

	// Receipt half.
	x := slipPadding
	y := top + slipPadding + 3
	pdf.SetFont(spec.FontFamily, "B", slipTitleSize)
	pdf.Text(x, y, "Receipt")
	y += 6
	y = d.slipBlockText(x, y, "Account / Payable to",
		append([]string{qrbill.FormatIBAN(content.Data.Account)}, creditorLines...))
	if content.Result.ReferenceDisplay != "" {
		y = d.slipBlockText(x, y, "Reference", []string{content.Result.ReferenceDisplay})
	}
	if len(debtorLines) > 0 {
		y = d.slipBlockText(x, y, "Payable by", debtorLines)
	}
	d.slipAmountRow(x, top+82, content.Data.Currency, amount)
	pdf.SetFont(spec.FontFamily, "B", slipLabelSize)
	pdf.Text(slipReceiptWidth-slipPadding-pdf.GetStringWidth("Acceptance point"), top+94, "Acceptance point")

	// Payment part: QR column then text column.
	x = slipReceiptWidth + slipPadding
	y = top + slipPadding + 3
	pdf.SetFont(spec.FontFamily, "B", slipTitleSize)
	pdf.Text(x, y, "Payment part")

	d.drawSlipQR(content.Result.Payload, x, top+slipPadding+12)
	d.slipAmountRow(x, top+slipPadding+12+slipQRSize+8, content.Data.Currency, amount)

	x = slipReceiptWidth + slipPadding + slipQRSize + 10
	y = top + slipPadding + 3
	y = d.slipBlockText(x, y, "Account / Payable to",
		append([]string{qrbill.FormatIBAN(content.Data.Account)}, creditorLines...))
	if content.Result.ReferenceDisplay != "" {
		y = d.slipBlockText(x, y, "Reference", []string{content.Result.ReferenceDisplay})
	}
	if content.Data.Message != "" {
		y = d.slipBlockText(x, y, "Additional information", []string{content.Data.Message})
	}
	if len(debtorLines) > 0 {
		d.slipBlockText(x, y, "Payable by", debtorLines)
	}
}

// slipBlockText draws a bold label and its value lines, returning the next
// free baseline.
func (d *vectorDrawer) slipBlockText(x, y float64, label string, lines []string) float64 {
	pdf, spec := d.pdf, d.spec
	pdf.SetFont(spec.FontFamily, "B", slipLabelSize)
	pdf.Text(x, y, label)
	y += 3.2
	pdf.SetFont(spec.FontFamily, "", slipValueSize)
	for _, line := range lines {
		pdf.Text(x, y, line)
		y += 3.6
	}
	return y + 2
}

func (d *vectorDrawer) slipAmountRow(x, y float64, currency, amount string) {
	pdf, spec := d.pdf, d.spec
	pdf.SetFont(spec.FontFamily, "B", slipLabelSize)
	pdf.Text(x, y, "Currency")
	pdf.Text(x+16, y, "Amount")
	pdf.SetFont(spec.FontFamily, "", slipValueSize)
	pdf.Text(x, y+4, currency)
	if amount != "" {
		pdf.Text(x+16, y+4, amount)
	} else {
		// Blank corner-marked field: amount left to the payer.
		pdf.Rect(x+16, y+1, 24, 8, "D")
	}
}

// drawSlipQR embeds the encoded payload as a QR raster with the Swiss cross
// overlay in the center.
func (d *vectorDrawer) drawSlipQR(payload string, x, y float64) {
	pdf := d.pdf

	png, err := qrcode.Encode(payload, qrcode.Medium, 512)
	if err != nil {
		// Slip without QR is still legible; degrade, don't fail the render.
		log.Printf("WARNING: slip qr code generation failed: %v", err)
		return
	}

	name := "slip-qr"
	pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	pdf.ImageOptions(name, x, y, slipQRSize, slipQRSize, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	// Swiss cross: black square with a white cross, centered on the code.
	cx := x + slipQRSize/2 - slipCrossSize/2
	cy := y + slipQRSize/2 - slipCrossSize/2
	pdf.SetFillColor(0, 0, 0)
	pdf.Rect(cx, cy, slipCrossSize, slipCrossSize, "F")
	pdf.SetFillColor(255, 255, 255)
	pdf.Rect(cx+slipCrossSize*0.42, cy+slipCrossSize*0.17, slipCrossSize*0.16, slipCrossSize*0.66, "F")
	pdf.Rect(cx+slipCrossSize*0.17, cy+slipCrossSize*0.42, slipCrossSize*0.66, slipCrossSize*0.16, "F")
}
