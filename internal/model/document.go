package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountSource enum constants
const (
	DiscountFromProduct = "FROM_PRODUCT"
	DiscountManual      = "MANUAL"
	DiscountNone        = "NONE"
)

// DiscountType enum constants
const (
	DiscountPercent = "PERCENT"
	DiscountAmount  = "AMOUNT"
)

// Discount is a tagged variant: None, Percent(value) or Amount(value).
// Consumers switch on Type instead of nil-checking scattered fields.
type Discount struct {
	Source string          `json:"source"` // FROM_PRODUCT, MANUAL, NONE
	Type   string          `json:"type"`   // PERCENT, AMOUNT (meaningless when Source is NONE)
	Value  decimal.Decimal `json:"value"`
	Note   string          `json:"note"`
}

// NoDiscount returns the None variant.
func NoDiscount() Discount {
	return Discount{Source: DiscountNone}
}

// PercentDiscount returns a percentage discount from the given source.
func PercentDiscount(source string, value decimal.Decimal) Discount {
	return Discount{Source: source, Type: DiscountPercent, Value: value}
}

// AmountDiscount returns a fixed-amount discount from the given source.
func AmountDiscount(source string, value decimal.Decimal) Discount {
	return Discount{Source: source, Type: DiscountAmount, Value: value}
}

// IsNone reports whether the discount is the None variant. The zero value
// counts as None so an omitted JSON field behaves like an explicit NONE.
func (d Discount) IsNone() bool {
	return d.Source == "" || d.Source == DiscountNone
}

// Party is one side of the document: the issuing company (creditor) or the
// client (debtor). Addresses are either structured (street + number + postal
// code + city) or combined free-form lines; the two forms are mutually
// exclusive in the Swiss payment spec.
type Party struct {
	Name           string   `json:"name"`
	Street         string   `json:"street"`
	BuildingNumber string   `json:"building_number"`
	AddressLines   []string `json:"address_lines"` // combined form, max 2 lines
	PostalCode     string   `json:"postal_code"`
	City           string   `json:"city"`
	CountryCode    string   `json:"country_code"` // ISO 3166-1 alpha-2
	VATNumber      string   `json:"vat_number"`
	IBAN           string   `json:"iban"` // creditor only
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Website        string   `json:"website"`
	LogoPNG        []byte   `json:"logo_png,omitempty"` // inline raster, creditor only
}

// HasStructuredAddress reports whether the party carries the structured
// address form. Combined lines are used as fallback when it does not.
func (p Party) HasStructuredAddress() bool {
	return p.Street != "" && p.PostalCode != "" && p.City != ""
}

// LineItem is one invoice row. All money fields are precomputed by the
// upstream invoicing service; the engine never recomputes them.
type LineItem struct {
	Description            string          `json:"description"`
	Quantity               decimal.Decimal `json:"quantity"`
	Unit                   string          `json:"unit"`
	UnitPrice              decimal.Decimal `json:"unit_price"`
	TaxRate                decimal.Decimal `json:"tax_rate"` // percent, e.g. 8.1
	Discount               Discount        `json:"discount"`
	SubtotalBeforeDiscount decimal.Decimal `json:"subtotal_before_discount"`
	DiscountAmount         decimal.Decimal `json:"discount_amount"`
	SubtotalAfterDiscount  decimal.Decimal `json:"subtotal_after_discount"`
	Total                  decimal.Decimal `json:"total"` // gross, tax-inclusive
}

// InvoiceDocument is the fully-resolved aggregate a generation call consumes.
// It is built per call from externally-owned records, is immutable for the
// call's duration and is never persisted by the engine.
type InvoiceDocument struct {
	Number         string          `json:"number"`
	IssueDate      time.Time       `json:"issue_date"`
	DueDate        time.Time       `json:"due_date"`
	Currency       string          `json:"currency"`
	IsQuote        bool            `json:"is_quote"`
	TemplateKey    string          `json:"template_key"` // document's own stored template
	Creditor       Party           `json:"creditor"`
	Debtor         Party           `json:"debtor"`
	Items          []LineItem      `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`   // finalized upstream
	TaxAmount      decimal.Decimal `json:"tax_amount"` // finalized upstream
	Total          decimal.Decimal `json:"total"`      // finalized upstream, never mutated here
	GlobalDiscount Discount        `json:"global_discount"`
	Notes          string          `json:"notes"`
	PaymentRef     string          `json:"payment_ref"` // QRR/SCOR reference, empty for NON
}

// CompanyInfoToggles controls which company-info lines appear in the header
// band. Each line is independently togglable; the band height follows.
type CompanyInfoToggles struct {
	ShowVAT     bool `json:"show_vat"`
	ShowPhone   bool `json:"show_phone"`
	ShowEmail   bool `json:"show_email"`
	ShowWebsite bool `json:"show_website"`
	ShowIBAN    bool `json:"show_iban"`
}

// RenderedDocument is the engine's output: raw bytes plus page count.
type RenderedDocument struct {
	Bytes       []byte `json:"-"`
	PageCount   int    `json:"page_count"`
	ContentType string `json:"content_type"` // application/pdf or image/png
}
