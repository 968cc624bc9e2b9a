package auth

import "crypto/subtle"

// SecretVerifier checks caller-supplied shared secrets against a configured
// value. Each trigger surface (webhook, admin, on-demand) gets its own
// verifier so the secrets can be rotated independently.
type SecretVerifier struct {
	configured string
}

// NewSecretVerifier creates a verifier for the given configured secret.
func NewSecretVerifier(configured string) *SecretVerifier {
	return &SecretVerifier{configured: configured}
}

// Verify reports whether candidate matches the configured secret. Comparison
// is constant-time. A verifier with no configured secret matches nothing:
// a missing deployment variable must lock the endpoint, not open it.
func (v *SecretVerifier) Verify(candidate string) bool {
	if v.configured == "" || candidate == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(v.configured), []byte(candidate)) == 1
}
