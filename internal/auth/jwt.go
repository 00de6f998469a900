package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token purposes. A token is only accepted where its purpose is expected.
const (
	PurposeSession = "session"
	PurposeInvite  = "invite"
	PurposeState   = "oauth_state"
)

const (
	SessionTTL = 7 * 24 * time.Hour
	InviteTTL  = 72 * time.Hour
	StateTTL   = 10 * time.Minute
)

const issuer = "cpaas-portal"

var ErrWrongPurpose = errors.New("token purpose mismatch")

// Claims is the payload of every token the portal signs.
type Claims struct {
	UserID    string `json:"userId,omitempty"`
	CompanyID string `json:"companyId"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	Purpose   string `json:"purpose"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HMAC tokens with one secret.
type Issuer struct {
	secret []byte
	now    func() time.Time
}

func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret), now: time.Now}
}

// WithNow returns a copy of the issuer reading time from now.
func (i *Issuer) WithNow(now func() time.Time) *Issuer {
	cp := *i
	cp.now = now
	return &cp
}

func (i *Issuer) sign(claims Claims, ttl time.Duration) (string, error) {
	now := i.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    issuer,
		Subject:   claims.UserID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Session issues the bearer token of a signed-in admin.
func (i *Issuer) Session(userID, companyID, email, role string) (string, error) {
	return i.sign(Claims{UserID: userID, CompanyID: companyID, Email: email, Role: role, Purpose: PurposeSession}, SessionTTL)
}

// Invite issues the token mailed to an invited admin.
func (i *Issuer) Invite(userID, companyID, email, role string) (string, error) {
	return i.sign(Claims{UserID: userID, CompanyID: companyID, Email: email, Role: role, Purpose: PurposeInvite}, InviteTTL)
}

// State issues the OAuth state that binds a consent callback to its admin.
func (i *Issuer) State(userID, companyID string) (string, error) {
	return i.sign(Claims{UserID: userID, CompanyID: companyID, Purpose: PurposeState}, StateTTL)
}

// Parse verifies tokenString and checks it was issued for purpose.
func (i *Issuer) Parse(tokenString, purpose string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return i.secret, nil
		},
		jwt.WithTimeFunc(i.now),
		jwt.WithIssuer(issuer),
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Purpose != purpose {
		return nil, ErrWrongPurpose
	}
	return claims, nil
}
