package service

import (
	"context"
	"strings"
	"testing"

	"codetrek/internal/common"
	"codetrek/internal/domain/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestProfileGetAfterRegister(t *testing.T) {
	store := memory.NewStore()
	user := registerUser(t, newAuth(t, store), "olga").User
	svc := NewProfileService(store.Profiles(), nil)

	p, err := svc.Get(context.Background(), user.ID)

	require.NoError(t, err)
	assert.Equal(t, "olga", p.Username)
	assert.Equal(t, "olga@example.com", p.Email)
	assert.Equal(t, "python", p.PreferredLanguage)
	assert.Nil(t, p.Bio)
}

func TestProfileUpdateAppliesOnlyProvidedFields(t *testing.T) {
	store := memory.NewStore()
	user := registerUser(t, newAuth(t, store), "pete").User
	svc := NewProfileService(store.Profiles(), nil)
	ctx := context.Background()

	_, err := svc.Update(ctx, user.ID, UpdateProfileRequest{Bio: strPtr("I like graphs"), PreferredTopics: strPtr("graphs")})
	require.NoError(t, err)

	p, err := svc.Update(ctx, user.ID, UpdateProfileRequest{PreferredLanguage: strPtr("cpp")})
	require.NoError(t, err)
	assert.Equal(t, "cpp", p.PreferredLanguage)
	require.NotNil(t, p.Bio)
	assert.Equal(t, "I like graphs", *p.Bio)

	stored, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "cpp", stored.PreferredLanguage)
	assert.Equal(t, "graphs", *stored.PreferredTopics)
}

func TestProfileUpdateValidation(t *testing.T) {
	store := memory.NewStore()
	user := registerUser(t, newAuth(t, store), "quinn").User
	svc := NewProfileService(store.Profiles(), nil)
	ctx := context.Background()

	cases := map[string]UpdateProfileRequest{
		"preferred_language": {PreferredLanguage: strPtr("  ")},
		"preferred_topics":   {PreferredTopics: strPtr(strings.Repeat("t", 256))},
	}
	for field, req := range cases {
		_, err := svc.Update(ctx, user.ID, req)
		var verr *common.ValidationError
		require.ErrorAs(t, err, &verr, field)
		assert.Contains(t, verr.Fields, field)
	}

	_, err := svc.Update(ctx, user.ID, UpdateProfileRequest{PreferredLanguage: strPtr(strings.Repeat("l", 51))})
	assert.ErrorIs(t, err, common.ErrValidation)

	p, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "python", p.PreferredLanguage)
}

func TestProfileMissing(t *testing.T) {
	svc := NewProfileService(memory.NewStore().Profiles(), nil)

	_, err := svc.Get(context.Background(), "nobody")

	assert.ErrorIs(t, err, common.ErrNotFound)
}
