package utils

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]+`)
	slugMultiHyphen  = regexp.MustCompile(`-+`)
)

const slugSuffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateSlug builds a URL slug from a couple's display names plus a random
// 6-character suffix. The suffix keeps slugs distinct for identical names;
// uniqueness is still enforced by the caller with a bounded retry loop.
func GenerateSlug(names string) string {
	base := strings.ToLower(names)
	base = strings.ReplaceAll(base, " ", "-")
	base = slugInvalidChars.ReplaceAllString(base, "")
	base = slugMultiHyphen.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")

	if base == "" {
		base = "couple"
	}

	return base + "-" + randomString(slugSuffixAlphabet, 6)
}

// GenerateSecretCode returns an 8-digit numeric removal code. Deliberately
// low entropy: it deters casual removal by others, nothing more.
func GenerateSecretCode() string {
	return randomString("0123456789", 8)
}

func randomString(alphabet string, n int) string {
	max := big.NewInt(int64(len(alphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand never fails on supported platforms; fall back to
			// a fixed character rather than panic in a request path.
			b[i] = alphabet[0]
			continue
		}
		b[i] = alphabet[idx.Int64()]
	}
	return string(b)
}
