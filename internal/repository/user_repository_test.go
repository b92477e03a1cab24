package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mkarlsson/showtime/internal/utils"
)

// bcrypt's minimum cost keeps these tests fast.
const testBcryptCost = 4

func TestUserCreateAndLookup(t *testing.T) {
	db := newTestDB(t)
	r := NewUserRepo(db)
	ctx := context.Background()

	id, err := r.Create(ctx, "  Booker@Example.COM ", "hunter22", testBcryptCost)
	require.NoError(t, err)
	require.NotZero(t, id)

	// Email is normalized on the way in and on lookup.
	u, err := r.GetByEmail(ctx, "booker@example.com")
	require.NoError(t, err)
	require.Equal(t, id, u.ID)
	require.Equal(t, "booker@example.com", u.Email)
	require.True(t, utils.VerifyPassword(u.PasswordHash, "hunter22"))
	require.False(t, utils.VerifyPassword(u.PasswordHash, "wrong"))

	u2, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, u.Email, u2.Email)
}

func TestUserDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	r := NewUserRepo(db)
	ctx := context.Background()

	_, err := r.Create(ctx, "booker@example.com", "hunter22", testBcryptCost)
	require.NoError(t, err)
	_, err = r.Create(ctx, "BOOKER@example.com", "other", testBcryptCost)
	require.ErrorIs(t, err, ErrEmailExists)
}

func TestUserNotFound(t *testing.T) {
	db := newTestDB(t)
	r := NewUserRepo(db)

	_, err := r.GetByEmail(context.Background(), "ghost@example.com")
	require.ErrorIs(t, err, ErrUserNotFound)
	_, err = r.GetByID(context.Background(), 404)
	require.ErrorIs(t, err, ErrUserNotFound)
}
