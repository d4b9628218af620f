package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jollyhome/jollyhome-api/internal/apps/apptest"
)

type fakeProcessor struct {
	amounts  []int64
	currency string
	err      error
}

func (f *fakeProcessor) CreateIntent(_ context.Context, amount int64, currency string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.amounts = append(f.amounts, amount)
	f.currency = currency
	return "pi_secret_123", nil
}

func TestToCents(t *testing.T) {
	assert.EqualValues(t, 1999, ToCents(19.99))
	assert.EqualValues(t, 1000, ToCents(10))
	assert.EqualValues(t, 1, ToCents(0.005))
	assert.EqualValues(t, 0, ToCents(0.004))
}

func TestCreatePaymentIntent(t *testing.T) {
	proc := &fakeProcessor{}
	h := apptest.New(t, false, New(proc, "usd"))

	status, raw := h.Do(t, "POST", "/create-payment-intent", "", CreateIntentRequest{Price: 12.5})
	require.Equal(t, fiber.StatusOK, status, string(raw))
	assert.JSONEq(t, `{"clientSecret":"pi_secret_123"}`, string(raw))
	assert.Equal(t, []int64{1250}, proc.amounts)
	assert.Equal(t, "usd", proc.currency)

	for _, price := range []float64{0, -3} {
		status, _ = h.Do(t, "POST", "/create-payment-intent", "", CreateIntentRequest{Price: price})
		assert.Equal(t, fiber.StatusBadRequest, status, "price %v", price)
	}
	assert.Len(t, proc.amounts, 1)
}

func TestCreatePaymentIntent_Failures(t *testing.T) {
	h := apptest.New(t, false, New(nil, "usd"))
	status, _ := h.Do(t, "POST", "/create-payment-intent", "", CreateIntentRequest{Price: 5})
	assert.Equal(t, fiber.StatusServiceUnavailable, status)

	h = apptest.New(t, false, New(&fakeProcessor{err: errors.New("card network down")}, "usd"))
	status, _ = h.Do(t, "POST", "/create-payment-intent", "", CreateIntentRequest{Price: 5})
	assert.Equal(t, fiber.StatusBadGateway, status)
}

func TestCreatePaymentIntent_Hardened(t *testing.T) {
	h := apptest.New(t, true, New(&fakeProcessor{}, "usd"))

	status, _ := h.Do(t, "POST", "/create-payment-intent", "", CreateIntentRequest{Price: 5})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = h.Do(t, "POST", "/create-payment-intent", h.Token(t, "a@x.com"), CreateIntentRequest{Price: 5})
	assert.Equal(t, fiber.StatusOK, status)
}

func TestPaymentRecords(t *testing.T) {
	h := apptest.New(t, false, New(&fakeProcessor{}, "usd"))
	alice := h.Member(t, "alice@x.com")
	bob := h.Member(t, "bob@x.com")
	admin := h.Admin(t, "admin@x.com")

	status, raw := h.Do(t, "POST", "/payments", alice, RecordPaymentRequest{Amount: 1200, Month: "March", TransactionID: "pi_1"})
	require.Equal(t, fiber.StatusCreated, status, string(raw))
	var payment Payment
	apptest.Decode(t, raw, &payment)
	assert.Equal(t, "alice@x.com", payment.Email)

	status, _ = h.Do(t, "POST", "/payments", alice, RecordPaymentRequest{Amount: 1200})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = h.Do(t, "POST", "/payments", "", RecordPaymentRequest{Amount: 1200, TransactionID: "pi_2"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, raw = h.Do(t, "GET", "/payments/alice@x.com", alice, nil)
	require.Equal(t, fiber.StatusOK, status)
	var own []Payment
	apptest.Decode(t, raw, &own)
	assert.Len(t, own, 1)

	status, _ = h.Do(t, "GET", "/payments/alice@x.com", bob, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = h.Do(t, "GET", "/payments/alice@x.com", admin, nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = h.Do(t, "GET", "/payments", alice, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, raw = h.Do(t, "GET", "/payments", admin, nil)
	require.Equal(t, fiber.StatusOK, status)
	var all []Payment
	apptest.Decode(t, raw, &all)
	assert.Len(t, all, 1)
}
