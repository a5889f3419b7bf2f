package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfmap/internal/pkg/token"
)

func TestService_RoundTrip(t *testing.T) {
	svc := token.NewService("segredo", time.Hour)

	signed, err := svc.GenerateToken("operador-1", token.RoleOperator)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "operador-1", claims.Subject)
	assert.Equal(t, token.RoleOperator, claims.Role)
}

func TestService_RejectsOtherSecret(t *testing.T) {
	signed, err := token.NewService("a", time.Hour).GenerateToken("x", token.RoleAdmin)
	require.NoError(t, err)

	_, err = token.NewService("b", time.Hour).ValidateToken(signed)
	assert.Error(t, err)
}

func TestService_RejectsExpired(t *testing.T) {
	svc := token.NewService("segredo", -time.Minute)
	signed, err := svc.GenerateToken("x", token.RoleOperator)
	require.NoError(t, err)

	_, err = svc.ValidateToken(signed)
	assert.Error(t, err)
}
