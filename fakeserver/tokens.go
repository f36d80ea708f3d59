package fakeserver

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var errTokenInvalid = errors.New("Token is invalid or expired")

type tokenClaims struct {
	TokenType  string `json:"token_type"`
	UserId     int    `json:"user_id"`
	Generation int    `json:"gen"`
	jwt.RegisteredClaims
}

func (s *Server) mintToken(tokenType string, userId int, ttl time.Duration) (string, error) {
	now := s.now()
	claims := tokenClaims{
		TokenType:  tokenType,
		UserId:     userId,
		Generation: s.generation(tokenType),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
	if err != nil {
		return "", errors.Wrap(err, "error signing token")
	}
	return signed, nil
}

// MintAccessToken issues an access token with an arbitrary lifetime. A
// negative ttl yields an already expired token.
func (s *Server) MintAccessToken(userId int, ttl time.Duration) (string, error) {
	return s.mintToken(tokenTypeAccess, userId, ttl)
}

func (s *Server) parseToken(raw, tokenType string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)

	_, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return s.cfg.Secret, nil
	})
	if err != nil {
		return nil, errors.Wrap(errTokenInvalid, err.Error())
	}

	if claims.TokenType != tokenType {
		return nil, errors.Wrap(errTokenInvalid, fmt.Sprintf("expected %s token, got %s", tokenType, claims.TokenType))
	}

	if claims.Generation < s.generation(tokenType) {
		return nil, errors.Wrap(errTokenInvalid, "token revoked")
	}

	return claims, nil
}
