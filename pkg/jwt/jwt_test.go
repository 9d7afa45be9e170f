package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizdesk-api/pkg/jwt"
)

const secret = "test-secret-key-for-unit-tests"

func TestGenerateAndParse_ConRole(t *testing.T) {
	tok, err := jwt.Generate(secret, "u-1", "jane@example.com", "client", "bizdesk-test", 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := jwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "client", claims.Role)
	assert.Equal(t, "bizdesk-test", claims.Issuer)
}

func TestParse_TokenExpirado_RetornaError(t *testing.T) {
	tok, err := jwt.Generate(secret, "u-1", "jane@example.com", "admin", "bizdesk-test", -1)
	require.NoError(t, err)

	_, err = jwt.Parse(secret, tok)
	assert.Error(t, err)
}

func TestParse_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := jwt.Generate(secret, "u-1", "jane@example.com", "admin", "bizdesk-test", 60)
	require.NoError(t, err)

	_, err = jwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio_RetornaError(t *testing.T) {
	_, err := jwt.Generate("", "u-1", "jane@example.com", "admin", "bizdesk-test", 60)
	assert.Error(t, err)
}

func TestGenerateActivation_LlevaProposito(t *testing.T) {
	tok, exp, err := jwt.GenerateActivation(secret, "u-9", "jane@example.com", "bizdesk-test", time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := jwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, jwt.PurposeActivation, claims.Purpose)
	assert.Equal(t, "u-9", claims.UserID)
	assert.Empty(t, claims.Role)

	session, err := jwt.Generate(secret, "u-9", "jane@example.com", "client", "bizdesk-test", 60)
	require.NoError(t, err)
	sc, err := jwt.Parse(secret, session)
	require.NoError(t, err)
	assert.Empty(t, sc.Purpose)
}
