package coupons

import (
	"context"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jollyhome/jollyhome-api/internal/apps/apptest"
	"github.com/jollyhome/jollyhome-api/internal/testutil"
)

func TestCouponService_Create(t *testing.T) {
	svc := NewCouponService(testutil.NewDB(t, &Coupon{}))
	ctx := context.Background()

	coupon, err := svc.Create(ctx, &CreateCouponRequest{Code: " summer10 ", Discount: 10})
	require.NoError(t, err)
	assert.Equal(t, "SUMMER10", coupon.Code)
	assert.True(t, coupon.Available)

	_, err = svc.Create(ctx, &CreateCouponRequest{Code: "SUMMER10", Discount: 5})
	assert.ErrorIs(t, err, ErrCouponExists)

	for _, d := range []float64{0, -5, 101} {
		_, err = svc.Create(ctx, &CreateCouponRequest{Code: "X", Discount: d})
		assert.ErrorIs(t, err, ErrInvalidDiscount, "discount %v", d)
	}

	_, err = svc.Create(ctx, &CreateCouponRequest{Code: "  ", Discount: 5})
	assert.ErrorIs(t, err, ErrInvalidCoupon)
}

func TestCouponService_UnavailableIsNotFound(t *testing.T) {
	svc := NewCouponService(testutil.NewDB(t, &Coupon{}))
	ctx := context.Background()

	off := false
	coupon, err := svc.Create(ctx, &CreateCouponRequest{Code: "HIDDEN", Discount: 20, Available: &off})
	require.NoError(t, err)
	assert.False(t, coupon.Available)

	_, err = svc.GetAvailable(ctx, "hidden")
	assert.ErrorIs(t, err, ErrCouponNotFound)

	on := true
	_, err = svc.Update(ctx, coupon.ID, &UpdateCouponRequest{Available: &on})
	require.NoError(t, err)

	found, err := svc.GetAvailable(ctx, "hidden")
	require.NoError(t, err)
	assert.Equal(t, 20.0, found.Discount)
}

func TestCouponRoutes(t *testing.T) {
	h := apptest.New(t, false, New())
	admin := h.Admin(t, "admin@x.com")
	member := h.Member(t, "member@x.com")

	status, _ := h.Do(t, "POST", "/coupons", member, CreateCouponRequest{Code: "A", Discount: 5})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, raw := h.Do(t, "POST", "/coupons", admin, CreateCouponRequest{Code: "WELCOME", Discount: 15})
	require.Equal(t, fiber.StatusCreated, status, string(raw))
	var created Coupon
	apptest.Decode(t, raw, &created)

	status, _ = h.Do(t, "POST", "/coupons", admin, CreateCouponRequest{Code: "welcome", Discount: 15})
	assert.Equal(t, fiber.StatusConflict, status)

	status, raw = h.Do(t, "GET", "/coupons/WELCOME", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	var found Coupon
	apptest.Decode(t, raw, &found)
	assert.Equal(t, created.ID, found.ID)

	status, _ = h.Do(t, "GET", "/coupons/NOPE", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = h.Do(t, "PATCH", "/coupons/"+created.ID.String(), admin, map[string]interface{}{"discount": 150})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = h.Do(t, "DELETE", "/coupons/"+created.ID.String(), admin, nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, raw = h.Do(t, "GET", "/coupons", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	var remaining []Coupon
	apptest.Decode(t, raw, &remaining)
	assert.Empty(t, remaining)
}
