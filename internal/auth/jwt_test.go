package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	iss := NewIssuer("secret")
	tok, err := iss.Session("u1", "co1", "a@b.co", "admin")
	require.NoError(t, err)

	claims, err := iss.Parse(tok, PurposeSession)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "co1", claims.CompanyID)
	assert.Equal(t, "admin", claims.Role)
}

func TestPurposeIsEnforced(t *testing.T) {
	iss := NewIssuer("secret")
	tok, err := iss.Invite("u1", "co1", "a@b.co", "admin")
	require.NoError(t, err)

	_, err = iss.Parse(tok, PurposeSession)
	assert.ErrorIs(t, err, ErrWrongPurpose)
}

func TestWrongSecretRejected(t *testing.T) {
	tok, err := NewIssuer("one").Session("u1", "co1", "", "")
	require.NoError(t, err)

	_, err = NewIssuer("two").Parse(tok, PurposeSession)
	assert.Error(t, err)
}

func TestExpiredStateRejected(t *testing.T) {
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	iss := NewIssuer("secret").WithNow(func() time.Time { return start })
	tok, err := iss.State("u1", "co1")
	require.NoError(t, err)

	later := iss.WithNow(func() time.Time { return start.Add(StateTTL + time.Second) })
	_, err = later.Parse(tok, PurposeState)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestNoneAlgorithmRejected(t *testing.T) {
	claims := Claims{CompanyID: "co1", Purpose: PurposeSession, RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewIssuer("secret").Parse(tok, PurposeSession)
	assert.Error(t, err)
}
