package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jollyhome/jollyhome-api/internal/dto"
	"github.com/jollyhome/jollyhome-api/internal/models"
	"github.com/jollyhome/jollyhome-api/internal/testutil"
)

func TestAgreementService_SubmitAndDuplicate(t *testing.T) {
	svc := NewAgreementService(testutil.NewDB(t))
	ctx := context.Background()
	req := &dto.SubmitAgreementRequest{OwnerEmail: "a@x.com", Apartment: "3B", Rent: 1200}

	first, err := svc.Submit(ctx, req)
	require.NoError(t, err)
	assert.True(t, first.Accepted)
	require.NotNil(t, first.Agreement)
	assert.Equal(t, models.AgreementPending, first.Agreement.Status)

	second, err := svc.Submit(ctx, req)
	require.NoError(t, err)
	assert.False(t, second.Accepted)
	assert.Equal(t, ReasonDuplicate, second.Reason)

	all, err := svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAgreementService_ConcurrentSubmissions(t *testing.T) {
	svc := NewAgreementService(testutil.NewDB(t))
	ctx := context.Background()

	const n = 8
	results := make([]*Submission, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Submit(ctx, &dto.SubmitAgreementRequest{OwnerEmail: "a@x.com", Apartment: "3B"})
		}(i)
	}
	wg.Wait()

	accepted := 0
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		if results[i].Accepted {
			accepted++
		} else {
			assert.Equal(t, ReasonDuplicate, results[i].Reason)
		}
	}
	assert.Equal(t, 1, accepted)

	all, err := svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAgreementService_SubmitRequiresOwner(t *testing.T) {
	svc := NewAgreementService(testutil.NewDB(t))
	_, err := svc.Submit(context.Background(), &dto.SubmitAgreementRequest{Apartment: "3B"})
	assert.ErrorIs(t, err, ErrOwnerRequired)
}

func TestAgreementService_GetByEmailAbsent(t *testing.T) {
	svc := NewAgreementService(testutil.NewDB(t))
	agreement, err := svc.GetByEmail(context.Background(), "nobody@x.com")
	require.NoError(t, err)
	assert.Nil(t, agreement)
}

func TestAgreementService_DeleteByID(t *testing.T) {
	svc := NewAgreementService(testutil.NewDB(t))
	ctx := context.Background()

	sub, err := svc.Submit(ctx, &dto.SubmitAgreementRequest{OwnerEmail: "a@x.com"})
	require.NoError(t, err)

	deleted, err := svc.DeleteByID(ctx, sub.Agreement.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.DeleteByID(ctx, sub.Agreement.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	// The owner may submit again once the previous agreement is gone.
	again, err := svc.Submit(ctx, &dto.SubmitAgreementRequest{OwnerEmail: "a@x.com"})
	require.NoError(t, err)
	assert.True(t, again.Accepted)
}

func TestAgreementService_Approve(t *testing.T) {
	db := testutil.NewDB(t)
	users := NewUserService(db)
	svc := NewAgreementService(db)
	ctx := context.Background()

	_, err := users.Upsert(ctx, &dto.UpsertUserRequest{Email: "a@x.com", DisplayName: "A"})
	require.NoError(t, err)
	sub, err := svc.Submit(ctx, &dto.SubmitAgreementRequest{
		OwnerEmail: "a@x.com", Apartment: "3B", FloorNo: "3", BlockName: "B", ApartmentNo: "3B", Rent: 1500,
	})
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, sub.Agreement.ID)
	require.NoError(t, err)
	assert.Equal(t, "3B", approved.ApartmentNo)
	assert.Equal(t, 1500.0, approved.Rent)
	assert.Equal(t, models.StatusApproved, approved.Status)
	assert.NotEmpty(t, approved.AgreementAcceptDate)

	remaining, err := svc.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Nil(t, remaining)

	_, err = svc.Approve(ctx, sub.Agreement.ID)
	assert.ErrorIs(t, err, ErrAgreementNotFound)
}

func TestAgreementService_ApproveWithoutOwnerRollsBack(t *testing.T) {
	svc := NewAgreementService(testutil.NewDB(t))
	ctx := context.Background()

	sub, err := svc.Submit(ctx, &dto.SubmitAgreementRequest{OwnerEmail: "ghost@x.com", Apartment: "1A"})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, sub.Agreement.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	kept, err := svc.GetByEmail(ctx, "ghost@x.com")
	require.NoError(t, err)
	assert.NotNil(t, kept)
}

func TestAgreementService_ApproveUnknown(t *testing.T) {
	svc := NewAgreementService(testutil.NewDB(t))
	_, err := svc.Approve(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrAgreementNotFound)
}

func TestAgreementService_OwnerEmailCaseVariantsAreOneOwner(t *testing.T) {
	svc := NewAgreementService(testutil.NewDB(t))
	ctx := context.Background()

	first, err := svc.Submit(ctx, &dto.SubmitAgreementRequest{OwnerEmail: "a@x.com", Apartment: "3B"})
	require.NoError(t, err)
	require.True(t, first.Accepted)

	for _, variant := range []string{"A@X.COM", " a@x.com ", "A@x.Com"} {
		sub, err := svc.Submit(ctx, &dto.SubmitAgreementRequest{OwnerEmail: variant, Apartment: "4C"})
		require.NoError(t, err)
		assert.False(t, sub.Accepted, variant)
		assert.Equal(t, ReasonDuplicate, sub.Reason, variant)
	}

	all, err := svc.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "a@x.com", all[0].OwnerEmail)

	found, err := svc.GetByEmail(ctx, "A@X.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, first.Agreement.ID, found.ID)
}

func TestAgreementService_ApproveApartmentLabelOnly(t *testing.T) {
	db := testutil.NewDB(t)
	users := NewUserService(db)
	svc := NewAgreementService(db)
	ctx := context.Background()

	_, err := users.Upsert(ctx, &dto.UpsertUserRequest{Email: "a@x.com", DisplayName: "A"})
	require.NoError(t, err)
	sub, err := svc.Submit(ctx, &dto.SubmitAgreementRequest{OwnerEmail: "a@x.com", Apartment: "3B"})
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, sub.Agreement.ID)
	require.NoError(t, err)
	assert.Equal(t, "3B", approved.ApartmentNo)
	assert.Equal(t, models.StatusApproved, approved.Status)
}

func TestAgreementService_AcceptDate(t *testing.T) {
	db := testutil.NewDB(t)
	users := NewUserService(db)
	svc := NewAgreementService(db)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	stamped, err := svc.Submit(ctx, &dto.SubmitAgreementRequest{OwnerEmail: "a@x.com", Apartment: "1A"})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01T10:00:00Z", stamped.Agreement.AcceptDate)

	_, err = users.Upsert(ctx, &dto.UpsertUserRequest{Email: "b@x.com"})
	require.NoError(t, err)
	supplied, err := svc.Submit(ctx, &dto.SubmitAgreementRequest{
		OwnerEmail: "b@x.com", Apartment: "2B", AgreementAcceptDate: "2025-02-14",
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-02-14", supplied.Agreement.AcceptDate)

	approved, err := svc.Approve(ctx, supplied.Agreement.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-02-14", approved.AgreementAcceptDate)
}
