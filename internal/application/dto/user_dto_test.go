package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

func TestNewUserResponse_SinHash(t *testing.T) {
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	u := &entity.User{
		ID:           "u1",
		Email:        "ana@example.com",
		PasswordHash: "$2a$10$secreto",
		Name:         "Ana",
		Role:         entity.RoleManager,
		CreatedAt:    at,
		UpdatedAt:    at,
	}

	out := NewUserResponse(u)
	require.NotNil(t, out)
	assert.Equal(t, "u1", out.ID)
	assert.Equal(t, "ana@example.com", out.Email)
	assert.Equal(t, entity.RoleManager, out.Role)
	assert.Equal(t, at, out.CreatedAt)

	raw, err := json.Marshal(out)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secreto")
	assert.NotContains(t, string(raw), "profile_image_url")
}

func TestNewUserResponse_Nil(t *testing.T) {
	assert.Nil(t, NewUserResponse(nil))
}
