package qrbill_test

import (
	"fmt"
	"testing"

	"docgen/internal/qrbill"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDigit_KnownReference(t *testing.T) {
	// Reference example from the Swiss implementation guidelines.
	check, err := qrbill.CheckDigit("21000000000313947143000901")
	require.NoError(t, err)
	assert.Equal(t, 7, check)
}

func TestCheckDigit_RejectsNonDigits(t *testing.T) {
	_, err := qrbill.CheckDigit("2100000000031394714300090A")
	assert.Error(t, err)
}

func TestCheckDigit_ClosesAnyPrefix(t *testing.T) {
	// The computed digit must always make the full reference validate.
	prefixes := []string{
		"21000000000313947143000901",
		"00000000000000000000000000",
		"99999999999999999999999999",
		"12345678901234567890123456",
		"00000001000000000000000001",
	}
	for _, prefix := range prefixes {
		check, err := qrbill.CheckDigit(prefix)
		require.NoError(t, err)
		full := fmt.Sprintf("%s%d", prefix, check)
		assert.True(t, qrbill.ValidQRR(full), "reference %s should validate", full)
	}
}

func TestValidQRR(t *testing.T) {
	tests := []struct {
		name  string
		ref   string
		valid bool
	}{
		{"guidelines example", "210000000003139471430009017", true},
		{"wrong check digit", "210000000003139471430009018", false},
		{"too short", "21000000000313947143000901", false},
		{"too long", "2100000000031394714300090170", false},
		{"non-numeric", "21000000000313947143000901X", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, qrbill.ValidQRR(tt.ref))
		})
	}
}

func TestValidSCOR(t *testing.T) {
	tests := []struct {
		name  string
		ref   string
		valid bool
	}{
		{"iso example", "RF18539007547034", true},
		{"wrong check digits", "RF19539007547034", false},
		{"missing RF", "XX18539007547034", false},
		{"too short", "RF18", false},
		{"qrr digits", "210000000003139471430009017", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, qrbill.ValidSCOR(tt.ref))
		})
	}
}

func TestFormatReference(t *testing.T) {
	// Display grouping only; the payload itself stays ungrouped.
	assert.Equal(t, "21000 00000 03139 47143 00090 17",
		qrbill.FormatReference(qrbill.ReferenceQRR, "210000000003139471430009017"))
	assert.Equal(t, "RF18 5390 0754 7034",
		qrbill.FormatReference(qrbill.ReferenceSCOR, "RF18539007547034"))
	assert.Equal(t, "", qrbill.FormatReference(qrbill.ReferenceNON, ""))
}
