package server

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/fica-intake/internal/config"
	"github.com/jonathan/fica-intake/internal/server/middleware"
)

func newTokenService(t *testing.T) *CaseTokenService {
	t.Helper()
	cfg, err := config.NewCaseTokenConfig("test-secret-key", 24)
	require.NoError(t, err)
	return NewCaseTokenService(cfg)
}

func TestCaseToken_RoundTrip(t *testing.T) {
	svc := newTokenService(t)
	c := middleware.Case{Number: "CASE-42", ClientName: "Acme (Pty) Ltd", EntityType: "PrivateCompany", AccountType: "Transporter"}

	token, err := svc.GenerateToken(c)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, c, claims.GetCase())
	assert.Equal(t, "CASE-42", claims.Subject)
}

func TestCaseToken_RequiresCaseNumber(t *testing.T) {
	_, err := newTokenService(t).GenerateToken(middleware.Case{ClientName: "x"})
	assert.Error(t, err)
}

func TestCaseToken_Expired(t *testing.T) {
	svc := newTokenService(t)
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	token, err := svc.GenerateToken(middleware.Case{Number: "CASE-1"})
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(25 * time.Hour) }
	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token expired")
}

func TestCaseToken_WrongSecret(t *testing.T) {
	token, err := newTokenService(t).GenerateToken(middleware.Case{Number: "CASE-1"})
	require.NoError(t, err)

	other, err := config.NewCaseTokenConfig("another-secret", 24)
	require.NoError(t, err)
	_, err = NewCaseTokenService(other).ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token signature")
}

func TestCaseToken_Malformed(t *testing.T) {
	svc := newTokenService(t)

	_, err := svc.ValidateToken("")
	assert.Error(t, err)

	_, err = svc.ValidateToken("not.a.token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed token")
}

func TestCaseToken_RejectsOtherAlgorithms(t *testing.T) {
	svc := newTokenService(t)
	claims := &CaseClaims{CaseNumber: "CASE-1", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestCaseToken_RequiresCaseClaim(t *testing.T) {
	svc := newTokenService(t)
	claims := &CaseClaims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret-key"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no case number")
}

func TestAsTokenValidator(t *testing.T) {
	svc := newTokenService(t)
	token, err := svc.GenerateToken(middleware.Case{Number: "CASE-5"})
	require.NoError(t, err)

	getter, err := svc.AsTokenValidator().ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "CASE-5", getter.GetCase().Number)
}
