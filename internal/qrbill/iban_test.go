package qrbill_test

import (
	"testing"

	"docgen/internal/qrbill"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeIBAN(t *testing.T) {
	assert.Equal(t, "CH9300762011623852957", qrbill.NormalizeIBAN("ch93 0076 2011 6238 5295 7"))
}

func TestValidIBAN(t *testing.T) {
	tests := []struct {
		name  string
		iban  string
		valid bool
	}{
		{"swiss", "CH9300762011623852957", true},
		{"qr-iban", "CH4431999123000889012", true},
		{"liechtenstein", "LI21088100002324013AA", true},
		{"bad checksum", "CH9300762011623852958", false},
		{"german account", "DE89370400440532013000", false},
		{"too short", "CH93", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, qrbill.ValidIBAN(tt.iban))
		})
	}
}

func TestIID(t *testing.T) {
	iid, err := qrbill.IID("CH9300762011623852957")
	require.NoError(t, err)
	assert.Equal(t, 762, iid)

	iid, err = qrbill.IID("CH4431999123000889012")
	require.NoError(t, err)
	assert.Equal(t, 31999, iid)
}

func TestIsQRIBAN(t *testing.T) {
	// Lower bound, upper bound and everything around them.
	assert.True(t, qrbill.IsQRIBAN("CH4431999123000889012"))  // IID 31999
	assert.False(t, qrbill.IsQRIBAN("CH9300762011623852957")) // IID 00762
}

func TestFormatIBAN(t *testing.T) {
	assert.Equal(t, "CH44 3199 9123 0008 8901 2", qrbill.FormatIBAN("CH4431999123000889012"))
}
