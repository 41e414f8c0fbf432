package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"dropmarket.backend/internal/domain/entities"
	domainerrors "dropmarket.backend/internal/domain/errors"
	infrarepos "dropmarket.backend/internal/infrastructure/repositories"
)

func newVerificationUsecase(t *testing.T, env *testEnv) *VerificationUsecase {
	t.Helper()
	return NewVerificationUsecase(env.users, infrarepos.NewVerificationRepository(env.db), env.notifier)
}

func validApplication() entities.SubmitVerificationInput {
	return entities.SubmitVerificationInput{
		Name:     "Alex Smith",
		Age:      21,
		Activity: "Courier",
	}
}

func TestVerificationSubmit(t *testing.T) {
	env := newTestEnv(t)
	uc := newVerificationUsecase(t, env)
	seedUser(t, env.db, 100, "guest")

	v, err := uc.Submit(context.Background(), 100, validApplication())
	require.NoError(t, err)
	require.Equal(t, entities.VerificationStatusPending, v.Status)

	user, err := env.users.GetByID(context.Background(), 100)
	require.NoError(t, err)
	require.Equal(t, entities.UserStatusPending, user.Status)

	// application lands in the audit channel
	require.Len(t, env.sender.sentTo(testAuditChatID), 1)
}

func TestVerificationSubmitForwardsDocumentPhoto(t *testing.T) {
	env := newTestEnv(t)
	uc := newVerificationUsecase(t, env)
	seedUser(t, env.db, 100, "guest")

	input := validApplication()
	input.DocumentPhoto = "doc-file-id"
	_, err := uc.Submit(context.Background(), 100, input)
	require.NoError(t, err)

	// the document lands in the audit channel alongside the details
	photos := env.sender.photosTo(testAuditChatID)
	require.Len(t, photos, 1)
	require.Equal(t, "doc-file-id", photos[0])
	require.Contains(t, env.sender.sentTo(testAuditChatID)[0], "Alex Smith")
}

func TestVerificationSubmitUnderage(t *testing.T) {
	env := newTestEnv(t)
	uc := newVerificationUsecase(t, env)
	seedUser(t, env.db, 100, "guest")

	input := validApplication()
	input.Age = 13
	_, err := uc.Submit(context.Background(), 100, input)
	require.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestVerificationSubmitBlankName(t *testing.T) {
	env := newTestEnv(t)
	uc := newVerificationUsecase(t, env)
	seedUser(t, env.db, 100, "guest")

	input := validApplication()
	input.Name = "   "
	_, err := uc.Submit(context.Background(), 100, input)
	require.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestVerificationSubmitAlreadyPending(t *testing.T) {
	env := newTestEnv(t)
	uc := newVerificationUsecase(t, env)
	seedUser(t, env.db, 100, "guest")

	_, err := uc.Submit(context.Background(), 100, validApplication())
	require.NoError(t, err)

	_, err = uc.Submit(context.Background(), 100, validApplication())
	require.ErrorIs(t, err, domainerrors.ErrAlreadyApplied)
}

func TestVerificationSubmitVerifiedRefused(t *testing.T) {
	env := newTestEnv(t)
	uc := newVerificationUsecase(t, env)
	seedUser(t, env.db, 100, "verified")

	_, err := uc.Submit(context.Background(), 100, validApplication())
	require.ErrorIs(t, err, domainerrors.ErrAlreadyApplied)
}

func TestVerificationResubmitAfterRejection(t *testing.T) {
	env := newTestEnv(t)
	uc := newVerificationUsecase(t, env)
	seedUser(t, env.db, 100, "guest")

	_, err := uc.Submit(context.Background(), 100, validApplication())
	require.NoError(t, err)
	require.NoError(t, uc.Reject(context.Background(), 100))

	input := validApplication()
	input.Activity = "Driver"
	_, err = uc.Submit(context.Background(), 100, input)
	require.NoError(t, err)

	v, err := uc.GetByUserID(context.Background(), 100)
	require.NoError(t, err)
	require.Equal(t, "Driver", v.Activity)
	require.Equal(t, entities.VerificationStatusPending, v.Status)
}

func TestVerificationApprove(t *testing.T) {
	env := newTestEnv(t)
	uc := newVerificationUsecase(t, env)
	seedUser(t, env.db, 100, "guest")

	_, err := uc.Submit(context.Background(), 100, validApplication())
	require.NoError(t, err)
	require.NoError(t, uc.Approve(context.Background(), 100))

	user, err := env.users.GetByID(context.Background(), 100)
	require.NoError(t, err)
	require.True(t, user.IsVerified())

	v, err := uc.GetByUserID(context.Background(), 100)
	require.NoError(t, err)
	require.Equal(t, entities.VerificationStatusVerified, v.Status)

	// subject user is told about the outcome
	require.NotEmpty(t, env.sender.sentTo(100))
}

func TestVerificationDecideWithoutPending(t *testing.T) {
	env := newTestEnv(t)
	uc := newVerificationUsecase(t, env)
	seedUser(t, env.db, 100, "guest")

	require.ErrorIs(t, uc.Approve(context.Background(), 100), domainerrors.ErrNotPending)
}

func TestVerificationListPending(t *testing.T) {
	env := newTestEnv(t)
	uc := newVerificationUsecase(t, env)
	seedUser(t, env.db, 100, "guest")
	seedUser(t, env.db, 101, "guest")

	_, err := uc.Submit(context.Background(), 100, validApplication())
	require.NoError(t, err)
	_, err = uc.Submit(context.Background(), 101, validApplication())
	require.NoError(t, err)
	require.NoError(t, uc.Approve(context.Background(), 101))

	pending, err := uc.ListPending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, int64(100), pending[0].UserID)
}

func TestVerificationListPendingZeroLimitUsesDefault(t *testing.T) {
	env := newTestEnv(t)
	uc := newVerificationUsecase(t, env)
	seedUser(t, env.db, 100, "guest")

	_, err := uc.Submit(context.Background(), 100, validApplication())
	require.NoError(t, err)

	// a zero limit must fall back to the default cap, not LIMIT 0
	pending, err := uc.ListPending(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, int64(100), pending[0].UserID)
}
