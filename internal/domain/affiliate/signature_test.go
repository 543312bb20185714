package affiliate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignatureVerifyPostback(t *testing.T) {
	sig := NewSignature("postback-secret")
	body := []byte(`{"slug":"abc123","value":49.9}`)

	signed := sig.Sign("1700000000|" + string(body))

	assert.True(t, sig.VerifyPostback("1700000000", body, signed))
}

func TestSignatureRejectsTamperedPostback(t *testing.T) {
	sig := NewSignature("postback-secret")
	body := []byte(`{"slug":"abc123","value":49.9}`)
	signed := sig.Sign("1700000000|" + string(body))

	tampered := []byte(`{"slug":"abc123","value":9999}`)
	assert.False(t, sig.VerifyPostback("1700000000", tampered, signed))

	assert.False(t, sig.VerifyPostback("1700000001", body, signed))

	other := NewSignature("other-secret")
	assert.False(t, other.VerifyPostback("1700000000", body, signed))
}

func TestValidateTimestamp(t *testing.T) {
	const now = int64(1700000000)

	tests := []struct {
		name      string
		timestamp int64
		want      bool
	}{
		{"exact", now, true},
		{"within window behind", now - 299, true},
		{"within window ahead", now + 299, true},
		{"at limit", now - 300, true},
		{"too old", now - 301, false},
		{"too far ahead", now + 301, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateTimestamp(tt.timestamp, now))
		})
	}
}
