package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Polar signs webhooks per the Standard Webhooks specification:
// HMAC-SHA256 over "{id}.{timestamp}.{payload}" with a base64 secret,
// delivered in the webhook-id, webhook-timestamp and webhook-signature
// headers. The signature header holds a space-separated list of
// "v1,<base64 signature>" entries to support secret rotation.
const (
	headerWebhookID        = "webhook-id"
	headerWebhookTimestamp = "webhook-timestamp"
	headerWebhookSignature = "webhook-signature"

	signatureSecretPrefix = "whsec_"
	signatureVersion      = "v1"

	// Replay window. Deliveries older than this, or timestamped further
	// than this into the future, are rejected.
	signatureTolerance = 5 * time.Minute
)

// verifyStandardSignature authenticates payload against the Standard
// Webhooks headers in h. All failures wrap ErrSignatureInvalid so the
// caller can map the whole class to one transport response.
func verifyStandardSignature(secret string, payload []byte, h http.Header, now time.Time) error {
	if secret == "" {
		return fmt.Errorf("%w: secret is not configured", ErrSignatureInvalid)
	}

	id := h.Get(headerWebhookID)
	ts := h.Get(headerWebhookTimestamp)
	sigs := h.Get(headerWebhookSignature)
	if id == "" || ts == "" || sigs == "" {
		return fmt.Errorf("%w: missing signature headers", ErrSignatureInvalid)
	}

	timestamp, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid timestamp format", ErrSignatureInvalid)
	}
	age := now.Sub(time.Unix(timestamp, 0))
	if age > signatureTolerance {
		return fmt.Errorf("%w: timestamp too old: %v", ErrSignatureInvalid, age)
	}
	if age < -signatureTolerance {
		return fmt.Errorf("%w: timestamp is in the future", ErrSignatureInvalid)
	}

	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, signatureSecretPrefix))
	if err != nil {
		return fmt.Errorf("%w: malformed secret", ErrSignatureInvalid)
	}

	mac := hmac.New(sha256.New, key)
	fmt.Fprintf(mac, "%s.%s.", id, ts)
	mac.Write(payload)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	// The header may carry one signature per active secret; any match
	// authenticates the payload.
	for sig := range strings.FieldsSeq(sigs) {
		version, value, found := strings.Cut(sig, ",")
		if !found || version != signatureVersion {
			continue
		}
		if hmac.Equal([]byte(expected), []byte(value)) {
			return nil
		}
	}

	return fmt.Errorf("%w: signature mismatch", ErrSignatureInvalid)
}

// signStandardPayload produces Standard Webhooks headers for payload.
// Used by tests and by local delivery tooling.
func signStandardPayload(secret string, id string, timestamp time.Time, payload []byte) (http.Header, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, signatureSecretPrefix))
	if err != nil {
		return nil, fmt.Errorf("%w: malformed secret", ErrSignatureInvalid)
	}

	ts := strconv.FormatInt(timestamp.Unix(), 10)
	mac := hmac.New(sha256.New, key)
	fmt.Fprintf(mac, "%s.%s.", id, ts)
	mac.Write(payload)

	h := http.Header{}
	h.Set(headerWebhookID, id)
	h.Set(headerWebhookTimestamp, ts)
	h.Set(headerWebhookSignature, signatureVersion+","+base64.StdEncoding.EncodeToString(mac.Sum(nil)))
	return h, nil
}
