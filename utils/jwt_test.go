package utils

import (
	"testing"
	"time"

	"gymbook/config"
	"gymbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActorFromToken(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	token, err := GenerateToken("admin-1", models.RoleAdmin, time.Hour)
	require.NoError(t, err)

	actor, err := ActorFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", actor.ID)
	assert.True(t, actor.IsAdmin())

	token, err = GenerateToken("member-1", "owner", time.Hour)
	require.NoError(t, err)
	actor, err = ActorFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleClient, actor.Role, "unknown roles degrade to client")
}

func TestActorFromTokenRejectsExpiredAndForeign(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	expired, err := GenerateToken("member-1", models.RoleClient, -time.Minute)
	require.NoError(t, err)
	_, err = ActorFromToken(expired)
	assert.Error(t, err)

	config.AppConfig.JWTSecret = "other-secret"
	foreign, err := GenerateToken("member-1", models.RoleClient, time.Hour)
	require.NoError(t, err)
	config.AppConfig.JWTSecret = "test-secret"
	_, err = ActorFromToken(foreign)
	assert.Error(t, err)
}
