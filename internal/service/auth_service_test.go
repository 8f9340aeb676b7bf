package service

import (
	"context"
	"testing"
	"time"

	"benfit/meustreinos/internal/domain"
	"benfit/meustreinos/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func TestNewAuthService_EmptySecretPanics(t *testing.T) {
	f := newFixture(t)
	assert.Panics(t, func() { NewAuthService(f.users, "", time.Hour, nil) })
}

func TestAuthService_Register(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.users, testSecret, time.Hour, []string{"Coach@Example.com"})
	ctx := context.Background()
	newID := primitive.NewObjectID()

	f.users.EXPECT().GetByEmail(gomock.Any(), "ana@example.com").Return(nil, repository.ErrNotFound)
	f.users.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, u *domain.User) (primitive.ObjectID, error) {
			assert.Equal(t, domain.RoleMember, u.Role)
			assert.Equal(t, domain.DefaultAvatarID, u.AvatarID)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret")))
			return newID, nil
		})

	user, err := svc.Register(ctx, " Ana ", " ANA@example.com ", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, newID, user.ID)
	assert.Equal(t, "Ana", user.Name)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)

	f.users.EXPECT().GetByEmail(gomock.Any(), "coach@example.com").Return(nil, repository.ErrNotFound)
	f.users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(primitive.NewObjectID(), nil)
	admin, err := svc.Register(ctx, "Coach", "coach@example.com", "pw")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())
}

func TestAuthService_Register_Errors(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.users, testSecret, time.Hour, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "a@b.c", "pw")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	f.users.EXPECT().GetByEmail(gomock.Any(), "a@b.c").Return(&domain.User{}, nil)
	_, err = svc.Register(ctx, "A", "a@b.c", "pw")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	f.users.EXPECT().GetByEmail(gomock.Any(), "b@b.c").Return(nil, repository.ErrNotFound)
	f.users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(primitive.NilObjectID, repository.ErrDuplicate)
	_, err = svc.Register(ctx, "B", "b@b.c", "pw")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestAuthService_Login(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.users, testSecret, time.Hour, nil)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &domain.User{
		ID:           primitive.NewObjectID(),
		Email:        "ana@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	f.users.EXPECT().GetByEmail(gomock.Any(), "ana@example.com").Return(stored, nil).Times(2)

	_, _, err = svc.Login(ctx, "ana@example.com", "wrong")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	token, user, err := svc.Login(ctx, "Ana@Example.com", "s3cret")
	require.NoError(t, err)
	assert.Empty(t, user.PasswordHash)

	claims := &JWTClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, stored.ID.Hex(), claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, TokenIssuer, claims.Issuer)

	f.users.EXPECT().GetByEmail(gomock.Any(), "nobody@example.com").Return(nil, repository.ErrNotFound)
	_, _, err = svc.Login(ctx, "nobody@example.com", "x")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}
