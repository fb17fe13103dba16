package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/secure-users-api/internal/domain/entity"
	"github.com/oksasatya/secure-users-api/internal/domain/repository"
)

func TestUserRepository_UniqueEmail(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, &entity.User{Email: "a@example.com"}))
	err := r.Create(ctx, &entity.User{Email: "a@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestUserRepository_PatchIgnoresUnknown(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()

	u := &entity.User{Email: "a@example.com", City: "Tashkent"}
	require.NoError(t, r.Create(ctx, u))

	_, err := r.Patch(ctx, u.ID, repository.Changes{"id": "7"})
	assert.ErrorIs(t, err, repository.ErrNoChanges)

	got, err := r.Patch(ctx, u.ID, repository.Changes{repository.FieldCity: "Nukus"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "Nukus", got.City)
	assert.True(t, got.UpdatedAt.After(u.UpdatedAt))
}
