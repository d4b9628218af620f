package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jollyhome/jollyhome-api/internal/dto"
	"github.com/jollyhome/jollyhome-api/internal/models"
	"github.com/jollyhome/jollyhome-api/internal/testutil"
)

func TestUserService_UpsertCreatesMember(t *testing.T) {
	svc := NewUserService(testutil.NewDB(t))
	ctx := context.Background()

	res, err := svc.Upsert(ctx, &dto.UpsertUserRequest{Email: "a@x.com", DisplayName: "A"})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, models.RoleMember, res.User.Role)
	assert.Equal(t, "A", res.User.Name)
	assert.NotZero(t, res.User.Timestamp)

	stored, err := svc.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, stored.ID)
}

func TestUserService_UpsertIsIdempotent(t *testing.T) {
	svc := NewUserService(testutil.NewDB(t))
	ctx := context.Background()
	req := &dto.UpsertUserRequest{Email: "a@x.com", DisplayName: "A", Status: "Active"}

	first, err := svc.Upsert(ctx, req)
	require.NoError(t, err)
	before, err := svc.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)

	second, err := svc.Upsert(ctx, req)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.False(t, second.StatusUpdated)
	assert.Equal(t, first.User.ID, second.User.ID)

	after, err := svc.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, before.Status, after.Status)
	assert.Equal(t, before.Timestamp, after.Timestamp)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)

	users, err := svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUserService_UpsertRequestedUpdatesStatusOnly(t *testing.T) {
	svc := NewUserService(testutil.NewDB(t))
	ctx := context.Background()

	_, err := svc.Upsert(ctx, &dto.UpsertUserRequest{Email: "a@x.com", DisplayName: "A"})
	require.NoError(t, err)

	res, err := svc.Upsert(ctx, &dto.UpsertUserRequest{Email: "a@x.com", DisplayName: "Renamed", Status: models.StatusRequested})
	require.NoError(t, err)
	assert.True(t, res.StatusUpdated)
	assert.Equal(t, models.StatusRequested, res.User.Status)

	stored, err := svc.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRequested, stored.Status)
	assert.Equal(t, "A", stored.Name)
}

func TestUserService_UpsertRequiresEmail(t *testing.T) {
	svc := NewUserService(testutil.NewDB(t))
	_, err := svc.Upsert(context.Background(), &dto.UpsertUserRequest{DisplayName: "A"})
	assert.ErrorIs(t, err, ErrEmailRequired)
}

func TestUserService_GetByEmailNotFound(t *testing.T) {
	svc := NewUserService(testutil.NewDB(t))
	_, err := svc.GetByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_PatchByEmail(t *testing.T) {
	svc := NewUserService(testutil.NewDB(t))
	ctx := context.Background()
	_, err := svc.Upsert(ctx, &dto.UpsertUserRequest{Email: "a@x.com", DisplayName: "A"})
	require.NoError(t, err)

	req := &dto.PatchUserRequest{
		Role:        models.RoleMember,
		IDs:         json.RawMessage(`{"nid": "123"}`),
		FloorNo:     "3",
		BlockName:   "B",
		ApartmentNo: "3B",
		Rent:        1200,
	}

	updated, err := svc.PatchByEmail(ctx, "a@x.com", req)
	require.NoError(t, err)
	assert.Equal(t, "3B", updated.ApartmentNo)
	assert.Equal(t, 1200.0, updated.Rent)
	assert.JSONEq(t, `{"nid":"123"}`, string(updated.IDs))

	t.Run("identical replacement is no change", func(t *testing.T) {
		same := *req
		same.IDs = json.RawMessage(`{"nid":"123"}`)
		_, err := svc.PatchByEmail(ctx, "a@x.com", &same)
		assert.ErrorIs(t, err, ErrNoChange)
	})

	t.Run("unknown email is not found", func(t *testing.T) {
		_, err := svc.PatchByEmail(ctx, "nobody@x.com", req)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("omitted fields are cleared", func(t *testing.T) {
		cleared, err := svc.PatchByEmail(ctx, "a@x.com", &dto.PatchUserRequest{FloorNo: "3"})
		require.NoError(t, err)
		assert.Equal(t, models.RoleMember, cleared.Role)
		assert.Empty(t, cleared.ApartmentNo)
		assert.Zero(t, cleared.Rent)
	})

	t.Run("invalid role", func(t *testing.T) {
		_, err := svc.PatchByEmail(ctx, "a@x.com", &dto.PatchUserRequest{Role: "owner"})
		assert.ErrorIs(t, err, ErrInvalidRole)
	})
}

func TestUserService_SetRoleByID(t *testing.T) {
	svc := NewUserService(testutil.NewDB(t))
	ctx := context.Background()
	res, err := svc.Upsert(ctx, &dto.UpsertUserRequest{Email: "a@x.com"})
	require.NoError(t, err)
	id := res.User.ID

	changed, err := svc.SetRoleByID(ctx, id, models.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, changed)

	role, err := svc.RoleOf(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role)

	// Same value is reported as a failure.
	changed, err = svc.SetRoleByID(ctx, id, models.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = svc.SetRoleByID(ctx, uuid.New(), models.RoleMember)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = svc.SetRoleByID(ctx, id, "root")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestUserService_EnsureAdmins(t *testing.T) {
	svc := NewUserService(testutil.NewDB(t))
	ctx := context.Background()
	_, err := svc.Upsert(ctx, &dto.UpsertUserRequest{Email: "old@x.com", DisplayName: "Old"})
	require.NoError(t, err)

	require.NoError(t, svc.EnsureAdmins(ctx, []string{"old@x.com", "new@x.com"}))
	require.NoError(t, svc.EnsureAdmins(ctx, []string{"old@x.com"}))

	for _, email := range []string{"old@x.com", "new@x.com"} {
		role, err := svc.RoleOf(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, role, email)
	}

	old, err := svc.GetByEmail(ctx, "old@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Old", old.Name)
}

func TestUserService_EmailIsNormalized(t *testing.T) {
	svc := NewUserService(testutil.NewDB(t))
	ctx := context.Background()

	res, err := svc.Upsert(ctx, &dto.UpsertUserRequest{Email: " A@X.com ", DisplayName: "A"})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", res.User.Email)

	again, err := svc.Upsert(ctx, &dto.UpsertUserRequest{Email: "a@x.COM"})
	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.Equal(t, res.User.ID, again.User.ID)

	_, err = svc.PatchByEmail(ctx, "A@X.COM", &dto.PatchUserRequest{FloorNo: "2"})
	require.NoError(t, err)

	require.NoError(t, svc.EnsureAdmins(ctx, []string{" A@x.com"}))
	role, err := svc.RoleOf(ctx, " a@X.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role)

	users, err := svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
