package affiliate

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Signature provides HMAC-SHA256 signing and verification for inbound
// tracking-network postbacks.
type Signature struct {
	secret string
}

// NewSignature creates a new Signature utility keyed with the shared
// postback secret.
func NewSignature(secret string) *Signature {
	return &Signature{secret: secret}
}

// Sign computes the hex-encoded HMAC-SHA256 of the base string.
func (s *Signature) Sign(baseString string) string {
	h := hmac.New(sha256.New, []byte(s.secret))
	h.Write([]byte(baseString))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyPostback verifies the signature of an inbound postback request.
// Base string: timestamp + "|" + body.
func (s *Signature) VerifyPostback(timestamp string, body []byte, providedSignature string) bool {
	expected := s.Sign(timestamp + "|" + string(body))
	return hmac.Equal([]byte(expected), []byte(providedSignature))
}

// ValidateTimestamp checks if the timestamp is within acceptable range
// of the server clock. The network allows a 5-minute window.
func ValidateTimestamp(timestamp, serverTimestamp int64) bool {
	const maxDrift = 300 // 5 minutes in seconds
	diff := serverTimestamp - timestamp
	if diff < 0 {
		diff = -diff
	}
	return diff <= maxDrift
}
