package render

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"strings"

	"docgen/internal/layout"
	"docgen/internal/model"
	"docgen/internal/qrbill"
	"docgen/internal/theme"

	qrcode "github.com/skip2/go-qrcode"
)

//go:embed templates/invoice.html.tmpl
var templateFS embed.FS

var invoiceTmpl = template.Must(template.ParseFS(templateFS, "templates/invoice.html.tmpl"))

type themeView struct {
	HeaderBg        string
	HeaderText      string
	TableHeaderBg   string
	TableHeaderText string
	Border          string
	TotalEmphasis   string
	FontFamily      string
	BaseFontSize    float64
	TitleFontSize   float64
	MarginTop       float64
	MarginSide      float64
	MarginBottom    float64
}

type partyView struct {
	Name  string
	Lines []string
}

type rowView struct {
	Description string
	Quantity    string
	Unit        string
	UnitPrice   string
	Discount    string
	Total       string
}

type breakdownView struct {
	Label  string
	Amount string
}

type totalsView struct {
	Subtotal      string
	Breakdown     []breakdownView
	DiscountLabel string
	Discount      string
	Total         string
}

type slipView struct {
	QRDataURI        template.URL
	Amount           string
	Currency         string
	AccountDisplay   string
	CreditorLines    []string
	DebtorLines      []string
	ReferenceDisplay string
	Message          string
}

type pageView struct {
	Abbreviated bool
	Rows        []rowView
	Totals      *totalsView
	Slip        *slipView
}

type docView struct {
	Title        string
	Number       string
	IssueDate    string
	DueDate      string
	Currency     string
	Notes        string
	Creditor     partyView
	Debtor       partyView
	CompanyLines []string
	LogoDataURI  template.URL
	Theme        themeView
	Pages        []pageView
}

// buildHTML turns the composed document into the print markup the headless
// browser consumes. Deterministic for a given input apart from nothing:
// no timestamps are embedded here.
func buildHTML(doc *layout.ComposedDocument, spec theme.Spec) (string, error) {
	view, err := buildView(doc, spec)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := invoiceTmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("invoice template: %w", err)
	}
	return buf.String(), nil
}

func buildView(doc *layout.ComposedDocument, spec theme.Spec) (*docView, error) {
	inv := doc.Doc

	title := "Invoice"
	if inv.IsQuote {
		title = "Quote"
	}

	view := &docView{
		Title:        title,
		Number:       inv.Number,
		IssueDate:    inv.IssueDate.Format("02.01.2006"),
		DueDate:      inv.DueDate.Format("02.01.2006"),
		Currency:     inv.Currency,
		Notes:        inv.Notes,
		Creditor:     partyView{Name: inv.Creditor.Name, Lines: AddressDisplayLines(inv.Creditor)},
		Debtor:       partyView{Name: inv.Debtor.Name, Lines: AddressDisplayLines(inv.Debtor)},
		CompanyLines: layout.CompanyInfoLines(inv.Creditor, doc.Toggles),
		Theme: themeView{
			HeaderBg:        spec.HeaderBackground.Hex(),
			HeaderText:      spec.HeaderText.Hex(),
			TableHeaderBg:   spec.TableHeaderBackground.Hex(),
			TableHeaderText: spec.TableHeaderText.Hex(),
			Border:          spec.TableBorder.Hex(),
			TotalEmphasis:   spec.TotalEmphasis.Hex(),
			FontFamily:      spec.FontFamily,
			BaseFontSize:    spec.BaseFontSize,
			TitleFontSize:   spec.TitleFontSize,
			MarginTop:       spec.MarginTop,
			MarginSide:      spec.MarginSide,
			MarginBottom:    spec.MarginBottom,
		},
	}

	if len(inv.Creditor.LogoPNG) > 0 {
		view.LogoDataURI = pngDataURI(inv.Creditor.LogoPNG)
	}

	for _, page := range doc.Pages {
		pv := pageView{Abbreviated: page.Header.Abbreviated}
		for _, row := range page.Rows {
			pv.Rows = append(pv.Rows, buildRowView(row.Item))
		}
		if page.Totals != nil {
			pv.Totals = buildTotalsView(doc)
		}
		if page.Slip != nil {
			sv, err := buildSlipView(page.Slip.Content)
			if err != nil {
				return nil, err
			}
			pv.Slip = sv
		}
		view.Pages = append(view.Pages, pv)
	}

	return view, nil
}

func buildRowView(item model.LineItem) rowView {
	rv := rowView{
		Description: item.Description,
		Quantity:    item.Quantity.String(),
		Unit:        item.Unit,
		UnitPrice:   FormatAmount(item.UnitPrice),
		Total:       FormatAmount(item.Total),
	}
	if !item.Discount.IsNone() {
		rv.Discount = discountLabel(item.Discount)
	}
	return rv
}

func buildTotalsView(doc *layout.ComposedDocument) *totalsView {
	inv := doc.Doc
	tv := &totalsView{
		Subtotal: FormatAmount(inv.Subtotal),
		Total:    FormatAmount(inv.Total),
	}
	for _, entry := range doc.Presentation.TaxBreakdown {
		tv.Breakdown = append(tv.Breakdown, breakdownView{
			Label:  fmt.Sprintf("VAT %s%% of %s", entry.Rate.String(), FormatAmount(entry.Net)),
			Amount: FormatAmount(entry.Tax),
		})
	}
	if !inv.GlobalDiscount.IsNone() {
		tv.DiscountLabel = "Discount " + discountLabel(inv.GlobalDiscount)
		tv.Discount = "-" + FormatAmount(inv.GlobalDiscount.Value)
		if inv.GlobalDiscount.Type == model.DiscountPercent {
			tv.Discount = "-" + inv.GlobalDiscount.Value.String() + "%"
		}
	}
	return tv
}

func buildSlipView(content layout.SlipContent) (*slipView, error) {
	png, err := qrcode.Encode(content.Result.Payload, qrcode.Medium, 512)
	if err != nil {
		return nil, fmt.Errorf("slip qr code: %w", err)
	}

	sv := &slipView{
		QRDataURI:        pngDataURI(png),
		Currency:         content.Data.Currency,
		AccountDisplay:   qrbill.FormatIBAN(content.Data.Account),
		CreditorLines:    append([]string{content.Data.Creditor.Name}, AddressDisplayLines(content.Data.Creditor)...),
		ReferenceDisplay: content.Result.ReferenceDisplay,
		Message:          content.Data.Message,
	}
	if content.Data.Amount != nil {
		sv.Amount = FormatAmount(*content.Data.Amount)
	}
	if content.Data.Debtor != nil {
		sv.DebtorLines = append([]string{content.Data.Debtor.Name}, AddressDisplayLines(*content.Data.Debtor)...)
	}
	return sv, nil
}

// AddressDisplayLines renders a party's address for print: structured form
// first, combined lines as fallback.
func AddressDisplayLines(p model.Party) []string {
	if p.HasStructuredAddress() {
		street := strings.TrimSpace(p.Street + " " + p.BuildingNumber)
		return []string{street, p.PostalCode + " " + p.City}
	}
	if len(p.AddressLines) > 0 {
		return p.AddressLines
	}
	line := strings.TrimSpace(p.PostalCode + " " + p.City)
	if line == "" {
		return nil
	}
	return []string{line}
}

func discountLabel(d model.Discount) string {
	if d.Type == model.DiscountPercent {
		return d.Value.String() + "%"
	}
	return FormatAmount(d.Value)
}

func pngDataURI(png []byte) template.URL {
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
}
