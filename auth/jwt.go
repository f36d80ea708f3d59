package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var jwtParser = jwt.NewParser()

// TokenExpiry reads the exp claim without verifying the signature. The
// client treats the token as opaque apart from this.
func TokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	_, _, err := jwtParser.ParseUnverified(token, claims)
	if err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}

	return exp.Time, true
}
