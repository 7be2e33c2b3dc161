package qrbill

import (
	"fmt"
	"strconv"
	"strings"
)

// QR-IBANs carry an IID (bank code) inside the range reserved for the QR
// procedure; they demand a QRR reference and nothing else.
const (
	qrIIDMin = 30000
	qrIIDMax = 31999

	swissIBANLength = 21
)

// NormalizeIBAN strips all spaces and upper-cases the account string. The
// payload always carries the normalized form.
func NormalizeIBAN(iban string) string {
	return strings.ToUpper(strings.ReplaceAll(iban, " ", ""))
}

// ValidIBAN reports whether the normalized account passes the ISO 13616
// mod-97 checksum and is a Swiss or Liechtenstein account of the length the
// QR-bill spec requires.
func ValidIBAN(iban string) bool {
	if len(iban) != swissIBANLength {
		return false
	}
	cc := iban[:2]
	if cc != "CH" && cc != "LI" {
		return false
	}
	return mod97(iban[4:]+iban[:4]) == 1
}

// IID extracts the bank clearing number: the five digits following the
// check digits of a Swiss IBAN.
func IID(iban string) (int, error) {
	if len(iban) < 9 {
		return 0, fmt.Errorf("iban too short for IID extraction: %q", iban)
	}
	iid, err := strconv.Atoi(iban[4:9])
	if err != nil {
		return 0, fmt.Errorf("non-numeric IID segment in %q: %w", iban, err)
	}
	return iid, nil
}

// IsQRIBAN reports whether the account's IID falls in the reserved QR range.
func IsQRIBAN(iban string) bool {
	iid, err := IID(iban)
	if err != nil {
		return false
	}
	return iid >= qrIIDMin && iid <= qrIIDMax
}

// FormatIBAN groups a normalized IBAN in blocks of four for display on the
// printed document. The payload always carries the ungrouped form.
func FormatIBAN(iban string) string {
	return groupString(NormalizeIBAN(iban), 4)
}

// mod97 computes the ISO 7064 remainder over the rearranged account string,
// mapping letters to 10..35. Returns -1 for characters outside [0-9A-Z].
func mod97(s string) int {
	rem := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			rem = (rem*10 + int(r-'0')) % 97
		case r >= 'A' && r <= 'Z':
			v := int(r-'A') + 10
			rem = (rem*100 + v) % 97
		default:
			return -1
		}
	}
	return rem
}
