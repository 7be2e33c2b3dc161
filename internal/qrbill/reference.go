package qrbill

import (
	"fmt"
	"strings"
)

// Carry table for the recursive mod-10 algorithm used by QRR references
// (the former ESR check-digit scheme).
var mod10Table = [10]int{0, 9, 4, 6, 8, 2, 7, 1, 3, 5}

// CheckDigit computes the mod-10 recursive check digit for a numeric prefix.
// Appending the result to the prefix yields a reference that ValidQRR
// accepts.
func CheckDigit(digits string) (int, error) {
	carry := 0
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("reference prefix contains non-digit %q", r)
		}
		carry = mod10Table[(carry+int(r-'0'))%10]
	}
	return (10 - carry) % 10, nil
}

// ValidQRR reports whether ref is a well-formed QRR reference: exactly 27
// digits whose final digit is the recursive mod-10 check digit of the first
// 26.
func ValidQRR(ref string) bool {
	if len(ref) != 27 {
		return false
	}
	check, err := CheckDigit(ref[:26])
	if err != nil {
		return false
	}
	return check == int(ref[26]-'0')
}

// ValidSCOR reports whether ref is a valid ISO 11649 creditor reference:
// "RF", two check digits, then up to 21 alphanumeric characters, passing
// mod-97 after moving the RF block to the end.
func ValidSCOR(ref string) bool {
	if len(ref) < 5 || len(ref) > 25 {
		return false
	}
	if !strings.HasPrefix(ref, "RF") {
		return false
	}
	return mod97(ref[4:]+ref[:4]) == 1
}

// FormatReference groups a reference for the printed receipt and payment
// part: QRR digits in blocks of five from the left, SCOR in blocks of four.
// The machine payload is never grouped.
func FormatReference(refType ReferenceType, ref string) string {
	switch refType {
	case ReferenceQRR:
		return groupString(ref, 5)
	case ReferenceSCOR:
		return groupString(ref, 4)
	default:
		return ""
	}
}

func groupString(s string, n int) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && i%n == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
