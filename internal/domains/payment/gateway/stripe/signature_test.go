package stripe

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test_secret"

func signedHeader(payload []byte, at time.Time) string {
	ts := at.Unix()
	return fmt.Sprintf("t=%d,v1=%s", ts, ComputeSignature(payload, ts, testSecret))
}

func TestVerifySignature_Valid(t *testing.T) {
	payload := []byte(`{"type":"checkout.session.completed"}`)
	now := time.Unix(1_700_000_000, 0)

	header := signedHeader(payload, now)
	require.True(t, VerifySignature(payload, header, testSecret, now))
}

func TestVerifySignature_ValidWithinTolerance(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Unix(1_700_000_000, 0)

	header := signedHeader(payload, now.Add(-4*time.Minute))
	require.True(t, VerifySignature(payload, header, testSecret, now))
}

func TestVerifySignature_RejectsStaleTimestamp(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Unix(1_700_000_000, 0)

	header := signedHeader(payload, now.Add(-6*time.Minute))
	require.False(t, VerifySignature(payload, header, testSecret, now))
}

func TestVerifySignature_RejectsWrongSecret(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Unix(1_700_000_000, 0)

	ts := now.Unix()
	header := fmt.Sprintf("t=%d,v1=%s", ts, ComputeSignature(payload, ts, "whsec_other"))
	require.False(t, VerifySignature(payload, header, testSecret, now))
}

func TestVerifySignature_RejectsTamperedPayload(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	header := signedHeader([]byte(`{"amount":500}`), now)
	require.False(t, VerifySignature([]byte(`{"amount":9999}`), header, testSecret, now))
}

func TestVerifySignature_AcceptsAnyMatchingV1(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Unix(1_700_000_000, 0)
	ts := now.Unix()

	// Secret rotation sends multiple v1 entries; one match is enough.
	header := fmt.Sprintf("t=%d,v1=%s,v1=%s",
		ts, "deadbeef", ComputeSignature(payload, ts, testSecret))
	require.True(t, VerifySignature(payload, header, testSecret, now))
}

func TestVerifySignature_MalformedHeaders(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Unix(1_700_000_000, 0)

	cases := []string{
		"",
		"t=notanumber,v1=abc",
		"v1=abc",
		fmt.Sprintf("t=%d", now.Unix()),
		"garbage",
	}
	for _, header := range cases {
		require.False(t, VerifySignature(payload, header, testSecret, now), "header %q", header)
	}
}

func TestVerifySignature_EmptySecret(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Unix(1_700_000_000, 0)

	header := signedHeader(payload, now)
	require.False(t, VerifySignature(payload, header, "", now))
}
