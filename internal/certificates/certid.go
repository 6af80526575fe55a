package certificates

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

const fallbackTag = "GEN"

// NewCertificateID mints a human-shareable identifier of the form
// {NAMESPACE}-{TAG}-{EPOCH_MILLIS}-{RANDOM_HEX8}. The tag is derived from
// the course framework, reduced to uppercase alphanumerics so the value
// survives URLs, QR payloads and manual transcription unchanged.
func NewCertificateID(namespace, tag string, issuedAt time.Time) (string, error) {
	ns := sanitizeToken(namespace)
	if ns == "" {
		return "", fmt.Errorf("certificate namespace is required")
	}
	t := sanitizeToken(tag)
	if t == "" {
		t = fallbackTag
	}

	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("read random suffix: %w", err)
	}

	return fmt.Sprintf("%s-%s-%d-%s", ns, t, issuedAt.UnixMilli(), hex.EncodeToString(suffix)), nil
}

// sanitizeToken uppercases the input and keeps only A-Z and 0-9. The dash
// is reserved as the identifier's field separator.
func sanitizeToken(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
