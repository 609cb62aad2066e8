package service

import (
	"errors"
	"fmt"
	"time"

	"cafebackend/apperr"
	"cafebackend/models"

	"github.com/golang-jwt/jwt"
)

// Principal is the authenticated caller carried by a token.
type Principal struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
}

type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

// Tokens issues and verifies HS256 tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *Tokens) TTL() time.Duration {
	return t.ttl
}

func (t *Tokens) Issue(user *models.User) (string, error) {
	now := t.now()
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(t.ttl).Unix(),
			Subject:   fmt.Sprint(user.ID),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies signature and expiry. Expired tokens yield
// apperr.ErrTokenExpired, every other failure apperr.ErrInvalidToken.
func (t *Tokens) Parse(raw string) (*Principal, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		// Expired only counts when the signature itself checked out.
		if errors.As(err, &ve) && ve.Errors == jwt.ValidationErrorExpired {
			return nil, apperr.ErrTokenExpired
		}
		return nil, apperr.ErrInvalidToken
	}
	if claims.UserID == 0 || claims.Role == "" {
		return nil, apperr.ErrInvalidToken
	}
	return &Principal{UserID: claims.UserID, Role: claims.Role}, nil
}
