package sign

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Signer computes the token that marks a farm request as legitimate.
// It must be deterministic for the same action and body.
type Signer interface {
	Sign(action, body string) string
}

// SignerFunc is a helper to use functions as Signers.
type SignerFunc func(action, body string) string

// Sign satisfies Signer interface.
func (f SignerFunc) Sign(action, body string) string { return f(action, body) }

type hmacSigner struct {
	secret []byte
}

// NewHMAC returns a Signer that signs with HMAC-SHA256 using a shared secret.
func NewHMAC(secret string) (Signer, error) {
	if secret == "" {
		return nil, fmt.Errorf("signing secret is required")
	}

	return hmacSigner{secret: []byte(secret)}, nil
}

func (h hmacSigner) Sign(action, body string) string {
	mac := hmac.New(sha256.New, h.secret)
	mac.Write([]byte(action))
	mac.Write([]byte("\n"))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}
