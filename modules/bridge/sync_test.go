package bridge_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/polarbridge/pkg/customer"
)

func postSync(t *testing.T, tm testModule, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/updateCustomer", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	tm.module.Router().ServeHTTP(rec, req)
	return rec
}

func TestHandleSync(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("missing user id returns 400", func(t *testing.T) {
		t.Parallel()

		tm := newTestModule(t)
		rec := postSync(t, tm, `{"membership":"pro"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Missing userId")
		assert.Equal(t, 0, tm.store.Len())
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		t.Parallel()

		tm := newTestModule(t)
		rec := postSync(t, tm, `{not json`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid body")
	})

	t.Run("upserts full state", func(t *testing.T) {
		t.Parallel()

		tm := newTestModule(t)
		rec := postSync(t, tm, `{
			"userId": "user_42",
			"membership": "pro",
			"polarCustomerId": "cus_1",
			"polarSubscriptionId": "sub_1"
		}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", rec.Body.String())

		c, err := tm.store.GetByUserID(ctx, "user_42")
		require.NoError(t, err)
		assert.Equal(t, customer.MembershipPro, c.Membership)
		assert.Equal(t, "cus_1", c.PolarCustomerID)
		assert.Equal(t, "sub_1", c.PolarSubscriptionID)
	})

	t.Run("omitted membership defaults to free", func(t *testing.T) {
		t.Parallel()

		tm := newTestModule(t)
		rec := postSync(t, tm, `{"userId": "user_42"}`)

		assert.Equal(t, http.StatusOK, rec.Code)

		c, err := tm.store.GetByUserID(ctx, "user_42")
		require.NoError(t, err)
		assert.Equal(t, customer.MembershipFree, c.Membership)
	})

	t.Run("invalid membership returns 500", func(t *testing.T) {
		t.Parallel()

		tm := newTestModule(t)
		rec := postSync(t, tm, `{"userId": "user_42", "membership": "platinum"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, 0, tm.store.Len())
	})

	t.Run("partial update leaves other fields intact", func(t *testing.T) {
		t.Parallel()

		tm := newTestModule(t)
		rec := postSync(t, tm, `{
			"userId": "user_42",
			"membership": "pro",
			"polarCustomerId": "cus_1",
			"polarSubscriptionId": "sub_1"
		}`)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = postSync(t, tm, `{"userId": "user_42", "membership": "free"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		c, err := tm.store.GetByUserID(ctx, "user_42")
		require.NoError(t, err)
		assert.Equal(t, customer.MembershipFree, c.Membership)
		assert.Equal(t, "cus_1", c.PolarCustomerID)
		assert.Equal(t, "sub_1", c.PolarSubscriptionID)
	})
}
