package security

import (
	"errors"
	"time"

	"messagely/internal/common"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

// TokenService issues and verifies HS256-signed tokens. The signing key
// and expiry are fixed at construction and never change afterwards.
type TokenService struct {
	auth *jwtauth.JWTAuth
	exp  time.Duration
}

func NewTokenService(key []byte, exp time.Duration) *TokenService {
	return &TokenService{
		auth: jwtauth.New("HS256", key, nil),
		exp:  exp,
	}
}

// JWTAuth exposes the underlying verifier for the router middleware.
func (ts *TokenService) JWTAuth() *jwtauth.JWTAuth {
	return ts.auth
}

// Issue signs the given claims, stamping "iat" and, when an expiry is
// configured, "exp". The input map is not modified.
func (ts *TokenService) Issue(claims jwt.MapClaims) (string, error) {
	all := jwt.MapClaims{}
	for k, v := range claims {
		all[k] = v
	}
	now := time.Now()
	all["iat"] = now.Unix()
	if ts.exp > 0 {
		all["exp"] = now.Add(ts.exp).Unix()
	}
	_, tokenString, err := ts.auth.Encode(all)
	return tokenString, err
}

// Decode verifies the token's signature and structure and returns its
// claims, including a numeric "iat". Any failure is common.ErrInvalidToken.
func (ts *TokenService) Decode(tokenString string) (jwt.MapClaims, error) {
	token, err := jwtauth.VerifyToken(ts.auth, tokenString)
	if err != nil {
		return nil, common.ErrInvalidToken
	}
	claims := jwt.MapClaims{}
	for k, v := range token.PrivateClaims() {
		claims[k] = v
	}
	if iat := token.IssuedAt(); !iat.IsZero() {
		claims["iat"] = iat.Unix()
	}
	return claims, nil
}

// GetUsernameFromClaims extracts the identity claim every token must carry.
func GetUsernameFromClaims(claims map[string]interface{}) (string, error) {
	username, ok := claims["username"].(string)
	if !ok || username == "" {
		return "", errors.New("username claim is missing or not a string")
	}
	return username, nil
}
