package billing

import (
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSecret(t *testing.T) string {
	t.Helper()
	return signatureSecretPrefix + base64.StdEncoding.EncodeToString([]byte("test-signing-key-32-bytes-long!!"))
}

func TestVerifyStandardSignature(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	payload := []byte(`{"type":"subscription.created","data":{"id":"sub_1"}}`)

	t.Run("valid signature", func(t *testing.T) {
		t.Parallel()

		secret := testSecret(t)
		h, err := signStandardPayload(secret, "msg_1", now, payload)
		require.NoError(t, err)

		err = verifyStandardSignature(secret, payload, h, now)
		assert.NoError(t, err)
	})

	t.Run("tampered payload", func(t *testing.T) {
		t.Parallel()

		secret := testSecret(t)
		h, err := signStandardPayload(secret, "msg_1", now, payload)
		require.NoError(t, err)

		err = verifyStandardSignature(secret, []byte(`{"type":"subscription.created"}`), h, now)
		assert.ErrorIs(t, err, ErrSignatureInvalid)
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()

		h, err := signStandardPayload(testSecret(t), "msg_1", now, payload)
		require.NoError(t, err)

		other := signatureSecretPrefix + base64.StdEncoding.EncodeToString([]byte("another-signing-key"))
		err = verifyStandardSignature(other, payload, h, now)
		assert.ErrorIs(t, err, ErrSignatureInvalid)
	})

	t.Run("missing headers", func(t *testing.T) {
		t.Parallel()

		err := verifyStandardSignature(testSecret(t), payload, http.Header{}, now)
		assert.ErrorIs(t, err, ErrSignatureInvalid)
	})

	t.Run("empty secret", func(t *testing.T) {
		t.Parallel()

		h, err := signStandardPayload(testSecret(t), "msg_1", now, payload)
		require.NoError(t, err)

		err = verifyStandardSignature("", payload, h, now)
		assert.ErrorIs(t, err, ErrSignatureInvalid)
	})

	t.Run("timestamp too old", func(t *testing.T) {
		t.Parallel()

		secret := testSecret(t)
		h, err := signStandardPayload(secret, "msg_1", now.Add(-signatureTolerance-time.Minute), payload)
		require.NoError(t, err)

		err = verifyStandardSignature(secret, payload, h, now)
		assert.ErrorIs(t, err, ErrSignatureInvalid)
	})

	t.Run("timestamp in the future", func(t *testing.T) {
		t.Parallel()

		secret := testSecret(t)
		h, err := signStandardPayload(secret, "msg_1", now.Add(signatureTolerance+time.Minute), payload)
		require.NoError(t, err)

		err = verifyStandardSignature(secret, payload, h, now)
		assert.ErrorIs(t, err, ErrSignatureInvalid)
	})

	t.Run("non numeric timestamp", func(t *testing.T) {
		t.Parallel()

		secret := testSecret(t)
		h, err := signStandardPayload(secret, "msg_1", now, payload)
		require.NoError(t, err)
		h.Set(headerWebhookTimestamp, "not-a-timestamp")

		err = verifyStandardSignature(secret, payload, h, now)
		assert.ErrorIs(t, err, ErrSignatureInvalid)
	})

	t.Run("accepts any matching signature in rotation list", func(t *testing.T) {
		t.Parallel()

		secret := testSecret(t)
		h, err := signStandardPayload(secret, "msg_1", now, payload)
		require.NoError(t, err)
		h.Set(headerWebhookSignature, "v1,b2xkLXNpZ25hdHVyZQ== "+h.Get(headerWebhookSignature))

		err = verifyStandardSignature(secret, payload, h, now)
		assert.NoError(t, err)
	})

	t.Run("ignores unknown signature versions", func(t *testing.T) {
		t.Parallel()

		secret := testSecret(t)
		h, err := signStandardPayload(secret, "msg_1", now, payload)
		require.NoError(t, err)
		_, value, _ := strings.Cut(h.Get(headerWebhookSignature), ",")
		h.Set(headerWebhookSignature, "v2,"+value)

		err = verifyStandardSignature(secret, payload, h, now)
		assert.ErrorIs(t, err, ErrSignatureInvalid)
	})
}

func TestSignStandardPayload(t *testing.T) {
	t.Parallel()

	t.Run("sets all three headers", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		h, err := signStandardPayload(testSecret(t), "msg_42", now, []byte(`{}`))
		require.NoError(t, err)

		assert.Equal(t, "msg_42", h.Get(headerWebhookID))
		assert.Equal(t, strconv.FormatInt(now.Unix(), 10), h.Get(headerWebhookTimestamp))
		assert.True(t, len(h.Get(headerWebhookSignature)) > len(signatureVersion)+1)
	})

	t.Run("malformed secret", func(t *testing.T) {
		t.Parallel()

		_, err := signStandardPayload(signatureSecretPrefix+"%%%not-base64%%%", "msg_1", time.Now(), []byte(`{}`))
		assert.ErrorIs(t, err, ErrSignatureInvalid)
	})
}
