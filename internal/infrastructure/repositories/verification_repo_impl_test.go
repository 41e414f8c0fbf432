package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"dropmarket.backend/internal/domain/entities"
	domainerrors "dropmarket.backend/internal/domain/errors"
)

func TestVerificationRepository_SubmitMovesUserToPending(t *testing.T) {
	db := newTestDB(t)
	createAllTables(t, db)
	users := NewUserRepository(db)
	repo := NewVerificationRepository(db)
	ctx := context.Background()

	_, err := users.Upsert(ctx, 10, "bob")
	require.NoError(t, err)

	v := &entities.Verification{
		UserID:        10,
		Name:          "Bob",
		Age:           21,
		DocumentPhoto: null.StringFrom("photo-1"),
		Activity:      "Courier",
	}
	require.NoError(t, repo.Submit(ctx, v))

	stored, err := repo.GetByUserID(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, entities.VerificationStatusPending, stored.Status)
	require.Equal(t, "Bob", stored.Name)

	u, err := users.GetByID(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, entities.UserStatusPending, u.Status)
	require.Equal(t, "Bob", u.Name.String)
	require.Equal(t, 21, u.Age.Int)
}

func TestVerificationRepository_ResubmitOverwrites(t *testing.T) {
	db := newTestDB(t)
	createAllTables(t, db)
	users := NewUserRepository(db)
	repo := NewVerificationRepository(db)
	ctx := context.Background()

	_, err := users.Upsert(ctx, 10, "bob")
	require.NoError(t, err)

	require.NoError(t, repo.Submit(ctx, &entities.Verification{UserID: 10, Name: "Bob", Age: 21, Activity: "Courier"}))
	require.NoError(t, repo.Decide(ctx, 10, entities.VerificationStatusRejected))

	require.NoError(t, repo.Submit(ctx, &entities.Verification{UserID: 10, Name: "Robert", Age: 22, Activity: "Pickup"}))

	stored, err := repo.GetByUserID(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, "Robert", stored.Name)
	require.Equal(t, 22, stored.Age)
	require.Equal(t, entities.VerificationStatusPending, stored.Status)

	// still exactly one row per user
	verifs, err := repo.ListPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, verifs, 1)
}

func TestVerificationRepository_SubmitUnknownUser(t *testing.T) {
	db := newTestDB(t)
	createAllTables(t, db)
	repo := NewVerificationRepository(db)

	err := repo.Submit(context.Background(), &entities.Verification{UserID: 99, Name: "X", Age: 20, Activity: "Courier"})
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestVerificationRepository_DecideKeepsStatusesInSync(t *testing.T) {
	db := newTestDB(t)
	createAllTables(t, db)
	users := NewUserRepository(db)
	repo := NewVerificationRepository(db)
	ctx := context.Background()

	_, err := users.Upsert(ctx, 10, "bob")
	require.NoError(t, err)
	require.NoError(t, repo.Submit(ctx, &entities.Verification{UserID: 10, Name: "Bob", Age: 21, Activity: "Courier"}))

	require.NoError(t, repo.Decide(ctx, 10, entities.VerificationStatusVerified))

	v, err := repo.GetByUserID(ctx, 10)
	require.NoError(t, err)
	u, err := users.GetByID(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, entities.VerificationStatusVerified, v.Status)
	require.Equal(t, entities.UserStatusVerified, u.Status)
}

func TestVerificationRepository_DecideRequiresPending(t *testing.T) {
	db := newTestDB(t)
	createAllTables(t, db)
	users := NewUserRepository(db)
	repo := NewVerificationRepository(db)
	ctx := context.Background()

	// no application at all
	err := repo.Decide(ctx, 10, entities.VerificationStatusVerified)
	require.ErrorIs(t, err, domainerrors.ErrNotPending)

	_, err = users.Upsert(ctx, 10, "bob")
	require.NoError(t, err)
	require.NoError(t, repo.Submit(ctx, &entities.Verification{UserID: 10, Name: "Bob", Age: 21, Activity: "Courier"}))
	require.NoError(t, repo.Decide(ctx, 10, entities.VerificationStatusVerified))

	// already decided
	err = repo.Decide(ctx, 10, entities.VerificationStatusRejected)
	require.ErrorIs(t, err, domainerrors.ErrNotPending)
}

func TestVerificationRepository_ListPendingOrderAndCap(t *testing.T) {
	db := newTestDB(t)
	createAllTables(t, db)
	users := NewUserRepository(db)
	repo := NewVerificationRepository(db)
	ctx := context.Background()

	for _, id := range []int64{1, 2, 3} {
		_, err := users.Upsert(ctx, id, "u")
		require.NoError(t, err)
		require.NoError(t, repo.Submit(ctx, &entities.Verification{UserID: id, Name: "N", Age: 20, Activity: "Courier"}))
	}

	verifs, err := repo.ListPending(ctx, 2)
	require.NoError(t, err)
	require.Len(t, verifs, 2)
	require.Equal(t, int64(3), verifs[0].UserID)
	require.Equal(t, int64(2), verifs[1].UserID)
}
