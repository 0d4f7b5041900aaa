package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// =====================================================
// STRIPE WEBHOOK SIGNATURE
// =====================================================

// SignatureTolerance bounds the age of a webhook delivery. Older timestamps
// are rejected to block replays.
const SignatureTolerance = 5 * time.Minute

// VerifySignature checks a Stripe-Signature header against the raw body.
//
// Header format: t=<unix-timestamp>,v1=<hex-hmac>[,v1=<hex-hmac>...]
// Signed payload: "<timestamp>.<raw body>", HMAC-SHA256 with the endpoint
// secret, lowercase hex. Any matching v1 entry within tolerance passes.
func VerifySignature(payload []byte, header, secret string, now time.Time) bool {
	if header == "" || secret == "" {
		return false
	}

	var timestamp int64
	var signatures []string

	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			ts, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return false
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}

	if timestamp == 0 || len(signatures) == 0 {
		return false
	}

	age := now.Sub(time.Unix(timestamp, 0))
	if age > SignatureTolerance || age < -SignatureTolerance {
		return false
	}

	expected := ComputeSignature(payload, timestamp, secret)
	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return true
		}
	}
	return false
}

// ComputeSignature produces the v1 signature for a payload at a timestamp.
func ComputeSignature(payload []byte, timestamp int64, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
