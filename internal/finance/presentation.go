package finance

import (
	"log"

	"docgen/internal/model"

	"github.com/shopspring/decimal"
)

var (
	twenty  = decimal.NewFromInt(20)
	hundred = decimal.NewFromInt(100)

	// Tolerance for the presentational breakdown against the finalized
	// invoice total. The breakdown is derived, not authoritative, so a
	// mismatch is logged for reconciliation but never "corrected".
	reconcileEpsilon = decimal.NewFromFloat(0.05)
)

// TaxBreakdownEntry is the per-rate net/tax/gross split shown on the
// document. Tax is defined as gross minus net so the two always reconstitute
// the gross total to the cent.
type TaxBreakdownEntry struct {
	Rate  decimal.Decimal
	Net   decimal.Decimal
	Tax   decimal.Decimal
	Gross decimal.Decimal
}

// Presentation carries everything the layout needs that is derived rather
// than supplied: the per-rate tax breakdown and the slip-rounded amount.
type Presentation struct {
	TaxBreakdown []TaxBreakdownEntry
	SlipAmount   decimal.Decimal
}

// BuildPresentation derives the tax breakdown from the tax-inclusive item
// totals and computes the payment-slip amount. The invoice's own finalized
// figures are trusted as-is: if the derived gross sum drifts beyond a small
// epsilon a reconciliation warning is logged and the finalized total is
// still the displayed figure.
func BuildPresentation(doc *model.InvoiceDocument) Presentation {
	type bucket struct {
		rate  decimal.Decimal
		gross decimal.Decimal
	}

	var order []string
	buckets := make(map[string]*bucket)

	for _, item := range doc.Items {
		key := item.TaxRate.String()
		b, ok := buckets[key]
		if !ok {
			b = &bucket{rate: item.TaxRate}
			buckets[key] = b
			order = append(order, key) // stable: first-seen rate order
		}
		b.gross = b.gross.Add(item.Total)
	}

	breakdown := make([]TaxBreakdownEntry, 0, len(order))
	sumGross := decimal.Zero
	for _, key := range order {
		b := buckets[key]
		divisor := decimal.NewFromInt(1).Add(b.rate.Div(hundred))
		net := b.gross.Div(divisor).Round(2)
		breakdown = append(breakdown, TaxBreakdownEntry{
			Rate:  b.rate,
			Net:   net,
			Tax:   b.gross.Sub(net),
			Gross: b.gross,
		})
		sumGross = sumGross.Add(b.gross)
	}

	if diff := sumGross.Sub(doc.Total).Abs(); diff.GreaterThan(reconcileEpsilon) {
		log.Printf("WARNING: document %s: derived gross %s deviates from finalized total %s by %s",
			doc.Number, sumGross.StringFixed(2), doc.Total.StringFixed(2), diff.StringFixed(2))
	}

	return Presentation{
		TaxBreakdown: breakdown,
		SlipAmount:   SlipAmount(doc.Total, doc.Currency),
	}
}

// SlipAmount returns the amount printed on the payment slip. CHF amounts are
// rounded to the nearest 0.05 (Rappen rounding); other currencies pass
// through unchanged. The invoice's recorded total is never mutated.
func SlipAmount(total decimal.Decimal, currency string) decimal.Decimal {
	if currency == "CHF" {
		return Round005(total)
	}
	return total
}

// Round005 rounds to the nearest 0.05, half away from zero. Idempotent, and
// never moves a value by more than 0.025.
func Round005(v decimal.Decimal) decimal.Decimal {
	return v.Mul(twenty).Round(0).Div(twenty)
}
