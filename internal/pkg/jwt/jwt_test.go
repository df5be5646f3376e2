package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_RoundTripsActor(t *testing.T) {
	svc := NewJWTService("test-secret-key-for-jwt", time.Hour)

	token, expiresAt, err := svc.GenerateAccessToken(42, "hr@example.com", user.RoleHR)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Greater(t, expiresAt, time.Now().Unix())

	parsed, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	claims, err := parsed.AsMap(context.Background())
	require.NoError(t, err)

	actor, err := ActorFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, user.Actor{EmployeeID: 42, Role: user.RoleHR}, actor)
}

func TestActorFromClaims_Rejects(t *testing.T) {
	cases := map[string]map[string]interface{}{
		"refresh token": {"type": "refresh", "employee_id": float64(1), "role": "HR"},
		"missing id":    {"type": "access", "role": "HR"},
		"unknown role":  {"type": "access", "employee_id": float64(1), "role": "owner"},
	}
	for name, claims := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ActorFromClaims(claims)
			assert.Error(t, err)
		})
	}
}

func TestActorFromClaims_StringEmployeeID(t *testing.T) {
	actor, err := ActorFromClaims(map[string]interface{}{"type": "access", "employee_id": "17", "role": "EMPLOYEE"})
	require.NoError(t, err)
	assert.Equal(t, int64(17), actor.EmployeeID)
}
