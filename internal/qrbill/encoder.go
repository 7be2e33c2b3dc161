package qrbill

import (
	"errors"
	"fmt"
	"strings"

	"docgen/internal/model"

	"github.com/shopspring/decimal"
)

// ReferenceType selects the structured-reference scheme of a slip.
type ReferenceType string

const (
	ReferenceQRR  ReferenceType = "QRR"
	ReferenceSCOR ReferenceType = "SCOR"
	ReferenceNON  ReferenceType = "NON"
)

// Address type markers of the Swiss Payments Code.
const (
	addressStructured = "S"
	addressCombined   = "K"
)

const maxFreeTextLength = 140

// Validation failures. Each yields a SkipSlip result rather than an error
// escaping the encoder; the document is still produced without the slip.
var (
	ErrInvalidIBAN          = errors.New("creditor account is not a valid CH/LI IBAN")
	ErrQRReferenceRequired  = errors.New("QR-IBAN requires a valid 27-digit QRR reference")
	ErrQRReferenceForbidden = errors.New("QRR reference not allowed with a non-QR IBAN")
	ErrInvalidReference     = errors.New("structured reference failed validation")
	ErrNonPositiveAmount    = errors.New("slip amount must be greater than zero")
	ErrUnsupportedCurrency  = errors.New("slip currency must be CHF or EUR")
)

// SlipData is everything the payload needs, already resolved upstream.
// Amount nil means the amount is left to the payer.
type SlipData struct {
	Account       string
	Creditor      model.Party
	Debtor        *model.Party
	ReferenceType ReferenceType
	Reference     string
	Amount        *decimal.Decimal
	Currency      string
	Message       string
	BillingInfo   string
}

// EncodeResult is the encoder's outcome. A validation failure sets Skip with
// the reason instead of returning an error, so callers can still emit the
// document without the payment part.
type EncodeResult struct {
	Payload          string
	ReferenceType    ReferenceType
	Reference        string
	ReferenceDisplay string
	Skip             bool
	SkipReason       error
}

func skip(reason error) EncodeResult {
	return EncodeResult{Skip: true, SkipReason: reason}
}

// Encode validates the slip preconditions in order (account, reference
// scheme against the IID, amount, currency) and builds the newline-delimited
// Swiss Payments Code. The payload is deterministic: the same input always
// yields byte-identical output.
func Encode(data SlipData) EncodeResult {
	iban := NormalizeIBAN(data.Account)
	if !ValidIBAN(iban) {
		return skip(fmt.Errorf("%w: %q", ErrInvalidIBAN, data.Account))
	}

	refType, ref, err := resolveReference(iban, data.ReferenceType, strings.TrimSpace(data.Reference))
	if err != nil {
		return skip(err)
	}

	if data.Amount != nil && !data.Amount.IsPositive() {
		return skip(fmt.Errorf("%w: %s", ErrNonPositiveAmount, data.Amount.String()))
	}

	if data.Currency != "CHF" && data.Currency != "EUR" {
		return skip(fmt.Errorf("%w: %q", ErrUnsupportedCurrency, data.Currency))
	}

	amount := ""
	if data.Amount != nil {
		amount = data.Amount.StringFixed(2)
	}

	lines := []string{"SPC", "0200", "1", iban}
	lines = append(lines, addressLines(&data.Creditor)...)
	// Seven reserved ultimate-creditor lines, always empty.
	lines = append(lines, "", "", "", "", "", "", "")
	lines = append(lines, amount, data.Currency)
	lines = append(lines, addressLines(data.Debtor)...)
	lines = append(lines, string(refType), ref)
	lines = append(lines, truncate(data.Message, maxFreeTextLength), "EPD")
	if info := truncate(data.BillingInfo, maxFreeTextLength); info != "" {
		lines = append(lines, info)
	}

	return EncodeResult{
		Payload:          strings.Join(lines, "\n"),
		ReferenceType:    refType,
		Reference:        ref,
		ReferenceDisplay: FormatReference(refType, ref),
	}
}

// resolveReference enforces the IID rule: accounts inside the reserved QR
// range must carry a checksum-valid QRR reference; accounts outside it must
// never carry QRR. A QRR request on a plain IBAN falls back to SCOR when the
// reference happens to be a valid creditor reference, otherwise to NON.
func resolveReference(iban string, refType ReferenceType, ref string) (ReferenceType, string, error) {
	if IsQRIBAN(iban) {
		if refType != ReferenceQRR {
			return "", "", fmt.Errorf("%w: got %q", ErrQRReferenceRequired, refType)
		}
		if !ValidQRR(ref) {
			return "", "", fmt.Errorf("%w: %q", ErrQRReferenceRequired, ref)
		}
		return ReferenceQRR, ref, nil
	}

	switch refType {
	case ReferenceQRR:
		if ValidSCOR(ref) {
			return ReferenceSCOR, ref, nil
		}
		return ReferenceNON, "", nil
	case ReferenceSCOR:
		if !ValidSCOR(ref) {
			return "", "", fmt.Errorf("%w: %q", ErrInvalidReference, ref)
		}
		return ReferenceSCOR, ref, nil
	case ReferenceNON, "":
		return ReferenceNON, "", nil
	default:
		return "", "", fmt.Errorf("%w: unknown reference type %q", ErrInvalidReference, refType)
	}
}

// addressLines emits the six address lines of one party. A nil party (no
// debtor) yields seven empty lines including the address-type marker, as the
// code requires.
func addressLines(p *model.Party) []string {
	if p == nil || p.Name == "" {
		return []string{"", "", "", "", "", "", ""}
	}
	if p.HasStructuredAddress() {
		return []string{addressStructured, p.Name, p.Street, p.BuildingNumber, p.PostalCode, p.City, p.CountryCode}
	}
	line1, line2 := combinedLines(p)
	return []string{addressCombined, p.Name, line1, line2, "", "", p.CountryCode}
}

func combinedLines(p *model.Party) (string, string) {
	switch len(p.AddressLines) {
	case 0:
		return "", strings.TrimSpace(p.PostalCode + " " + p.City)
	case 1:
		return p.AddressLines[0], strings.TrimSpace(p.PostalCode + " " + p.City)
	default:
		return p.AddressLines[0], p.AddressLines[1]
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
