package auth

import (
	"context"
	"testing"

	"propertyflow-backend/internal/models"
	"propertyflow-backend/internal/pkg/apperrors"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthTest(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return &Service{DB: db}
}

func TestSignup_CreatesAccount(t *testing.T) {
	svc := setupAuthTest(t)
	user, err := svc.Signup(context.Background(), SignupInput{
		Email:    "photo@studio.com",
		Password: "correct-h0rse!",
	})
	require.NoError(t, err)
	assert.Equal(t, "photo@studio.com", user.Email)
	assert.Equal(t, models.TierFree, user.SubscriptionTier)
	assert.NotEqual(t, "correct-h0rse!", user.PasswordHash)
}

func TestSignup_DuplicateEmailIsConflict(t *testing.T) {
	svc := setupAuthTest(t)
	_, err := svc.Signup(context.Background(), SignupInput{Email: "photo@studio.com", Password: "correct-h0rse!"})
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), SignupInput{Email: "photo@studio.com", Password: "correct-h0rse!"})
	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
	assert.Equal(t, 409, apperrors.HTTPStatus(err))
}

func TestSignup_RejectsWeakPassword(t *testing.T) {
	svc := setupAuthTest(t)
	_, err := svc.Signup(context.Background(), SignupInput{Email: "photo@studio.com", Password: "short"})
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.HTTPStatus(err))
}

func TestLogin_GoodAndBadPassword(t *testing.T) {
	svc := setupAuthTest(t)
	_, err := svc.Signup(context.Background(), SignupInput{Email: "photo@studio.com", Password: "correct-h0rse!"})
	require.NoError(t, err)

	user, err := svc.Login(context.Background(), LoginInput{Email: "photo@studio.com", Password: "correct-h0rse!"})
	require.NoError(t, err)
	assert.Equal(t, "photo@studio.com", user.Email)

	_, err = svc.Login(context.Background(), LoginInput{Email: "photo@studio.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmailIndistinguishable(t *testing.T) {
	svc := setupAuthTest(t)
	_, err := svc.Login(context.Background(), LoginInput{Email: "nobody@studio.com", Password: "whatever1!"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
