package render

import (
	"context"
	"strings"
	"testing"
	"time"

	"docgen/internal/finance"
	"docgen/internal/layout"
	"docgen/internal/model"
	"docgen/internal/qrbill"
	"docgen/internal/theme"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestFormatAmount(t *testing.T) {
	tests := []struct{ in, want string }{
		{"0", "0.00"},
		{"7.5", "7.50"},
		{"999.99", "999.99"},
		{"1000", "1'000.00"},
		{"12345.6", "12'345.60"},
		{"1234567.89", "1'234'567.89"},
		{"-12345.6", "-12'345.60"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(dec(tt.in)), "input %s", tt.in)
	}
}

func TestAddressDisplayLines(t *testing.T) {
	structured := model.Party{
		Name: "Robert Schneider AG", Street: "Rue du Lac", BuildingNumber: "1268",
		PostalCode: "2501", City: "Biel", CountryCode: "CH",
	}
	assert.Equal(t, []string{"Rue du Lac 1268", "2501 Biel"}, AddressDisplayLines(structured))

	combined := model.Party{Name: "Atelier", AddressLines: []string{"Postfach 318", "3000 Bern"}}
	assert.Equal(t, []string{"Postfach 318", "3000 Bern"}, AddressDisplayLines(combined))

	cityOnly := model.Party{Name: "X", PostalCode: "8001", City: "Zurich"}
	assert.Equal(t, []string{"8001 Zurich"}, AddressDisplayLines(cityOnly))

	assert.Nil(t, AddressDisplayLines(model.Party{Name: "X"}))
}

func TestBackendError(t *testing.T) {
	inner := context.DeadlineExceeded
	err := backendErr(Options{TemplateKey: "modern", DocumentNumber: "INV-7"}, inner)

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "modern")
	assert.Contains(t, err.Error(), "INV-7")
}

func composedFixture(t *testing.T, withSlip bool) *layout.ComposedDocument {
	t.Helper()
	doc := &model.InvoiceDocument{
		Number:    "INV-2024-042",
		IssueDate: time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC),
		Currency:  "CHF",
		Creditor: model.Party{
			Name: "Muster Treuhand AG", Street: "Bahnhofstrasse", BuildingNumber: "12",
			PostalCode: "8001", City: "Zurich", CountryCode: "CH",
			IBAN: "CH9300762011623852957", VATNumber: "CHE-123.456.789",
		},
		Debtor: model.Party{
			Name: "Hans Beispiel", AddressLines: []string{"Dorfweg 3", "3000 Bern"}, CountryCode: "CH",
		},
		Items: []model.LineItem{{
			Description: "Consulting",
			Quantity:    dec("2"),
			Unit:        "h",
			UnitPrice:   dec("650.00"),
			TaxRate:     dec("8.1"),
			Total:       dec("1300.00"),
		}},
		Subtotal: dec("1300.00"),
		Total:    dec("1300.00"),
	}

	pres := finance.BuildPresentation(doc)

	var slip *layout.SlipContent
	if withSlip {
		amount := pres.SlipAmount
		data := qrbill.SlipData{
			Account:       doc.Creditor.IBAN,
			Creditor:      doc.Creditor,
			ReferenceType: qrbill.ReferenceNON,
			Amount:        &amount,
			Currency:      doc.Currency,
			Message:       "Invoice " + doc.Number,
		}
		res := qrbill.Encode(data)
		require.False(t, res.Skip)
		slip = &layout.SlipContent{Data: data, Result: res}
	}

	toggles := model.CompanyInfoToggles{ShowVAT: true, ShowIBAN: true}
	return layout.NewComposer(layout.DefaultMetrics(), toggles).Compose(doc, pres, slip)
}

func TestBuildHTML(t *testing.T) {
	composed := composedFixture(t, true)
	spec := theme.Resolve("modern", nil)

	html, err := buildHTML(composed, spec)
	require.NoError(t, err)

	assert.Contains(t, html, "INV-2024-042")
	assert.Contains(t, html, "Muster Treuhand AG")
	assert.Contains(t, html, "15.06.2024")
	assert.Contains(t, html, spec.HeaderBackground.Hex())
	assert.Contains(t, html, "1&#39;300.00")
	assert.Contains(t, html, "VAT 8.1%")
	// QR code inlined for the headless browser; no external fetches.
	assert.Contains(t, html, "data:image/png;base64,")
	assert.Contains(t, html, "CH93 0076 2011 6238 5295 7")
}

func TestBuildHTML_QuoteWithoutSlip(t *testing.T) {
	composed := composedFixture(t, false)
	composed.Doc.IsQuote = true

	html, err := buildHTML(composed, theme.Resolve("classic", nil))
	require.NoError(t, err)

	assert.Contains(t, html, "Quote")
	assert.NotContains(t, html, "data:image/png;base64,")
}

func TestBuildHTML_Deterministic(t *testing.T) {
	composed := composedFixture(t, true)
	spec := theme.Resolve("swiss", nil)

	first, err := buildHTML(composed, spec)
	require.NoError(t, err)
	second, err := buildHTML(composed, spec)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestVectorBackend_RendersPDF(t *testing.T) {
	backend := NewVectorBackend()
	composed := composedFixture(t, true)

	out, err := backend.Render(context.Background(), composed, theme.Resolve("classic", nil), Options{
		TemplateKey:    "classic-legacy",
		DocumentNumber: "INV-2024-042",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(out.Bytes), "%PDF"), "not a PDF header")
	assert.Equal(t, "application/pdf", out.ContentType)
	assert.Equal(t, len(composed.Pages), out.PageCount)
}

func TestVectorBackend_PreviewUnsupported(t *testing.T) {
	backend := NewVectorBackend()
	composed := composedFixture(t, false)

	_, err := backend.Render(context.Background(), composed, theme.Resolve("classic", nil), Options{Preview: true})
	assert.ErrorIs(t, err, ErrPreviewUnsupported)
}

func TestDiscountLabel(t *testing.T) {
	assert.Equal(t, "10%", discountLabel(model.PercentDiscount(model.DiscountManual, dec("10"))))
	assert.Equal(t, "25.00", discountLabel(model.AmountDiscount(model.DiscountManual, dec("25"))))
}
