package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func signPayload(payload []byte, secret string, ts int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifyWebhookSignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	secret := "whsec_test"
	now := time.Now()
	ts := now.Unix()

	header := signPayload(payload, secret, ts)

	assert.True(t, verifyWebhookSignatureAt(payload, header, secret, DefaultSignatureTolerance, now))
	assert.False(t, verifyWebhookSignatureAt(payload, header, "whsec_other", DefaultSignatureTolerance, now))
	assert.False(t, verifyWebhookSignatureAt([]byte("tampered"), header, secret, DefaultSignatureTolerance, now))
	assert.False(t, verifyWebhookSignatureAt(payload, "", secret, DefaultSignatureTolerance, now))
	assert.False(t, verifyWebhookSignatureAt(payload, header, "", DefaultSignatureTolerance, now))
}

func TestVerifyWebhookSignatureRejectsStaleTimestamp(t *testing.T) {
	payload := []byte(`{}`)
	secret := "whsec_test"
	now := time.Now()
	stale := now.Add(-10 * time.Minute).Unix()

	header := signPayload(payload, secret, stale)
	assert.False(t, verifyWebhookSignatureAt(payload, header, secret, DefaultSignatureTolerance, now))
	// zero tolerance disables the replay window
	assert.True(t, verifyWebhookSignatureAt(payload, header, secret, 0, now))
}

func TestVerifyWebhookSignatureMultipleV1(t *testing.T) {
	payload := []byte(`{"id":"evt_2"}`)
	secret := "whsec_test"
	now := time.Now()
	ts := now.Unix()

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	valid := hex.EncodeToString(mac.Sum(nil))
	bogus := strings.Repeat("ab", 32)

	header := fmt.Sprintf("t=%d,v1=%s,v1=%s", ts, bogus, valid)
	assert.True(t, verifyWebhookSignatureAt(payload, header, secret, DefaultSignatureTolerance, now))
}

func TestParseEventAndSession(t *testing.T) {
	payload := []byte(`{
		"id": "evt_123",
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_test_456",
			"amount_total": 500000,
			"currency": "usd",
			"customer": "cus_789",
			"metadata": {"contract_id": "uuid-1", "customer_id": "uuid-2"}
		}}
	}`)

	evt, err := ParseEvent(payload)
	assert.NoError(t, err)
	assert.Equal(t, "evt_123", evt.ID)
	assert.Equal(t, "checkout.session.completed", evt.Type)

	session, err := evt.CheckoutSession()
	assert.NoError(t, err)
	assert.Equal(t, "cs_test_456", session.ID)
	assert.Equal(t, int64(500000), session.AmountTotal)
	assert.Equal(t, "uuid-1", session.Metadata["contract_id"])
}

func TestAmountToCents(t *testing.T) {
	tests := []struct {
		in   float64
		want int64
	}{
		{in: 5000, want: 500000},
		{in: 0.01, want: 1},
		{in: 19.99, want: 1999},
		{in: 0, want: 0},
		{in: 1234.565, want: 123457},
	}
	for _, tt := range tests {
		if got := AmountToCents(tt.in); got != tt.want {
			t.Fatalf("AmountToCents(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestConfigured(t *testing.T) {
	assert.False(t, Config{}.Configured())
	assert.False(t, Config{SecretKey: "sk_test_..."}.Configured())
	assert.True(t, Config{SecretKey: "sk_live_abc"}.Configured())
}
