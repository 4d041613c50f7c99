package security

import (
	"fmt"
	"strconv"
	"time"

	"retohub/internal/common"
	"retohub/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

var TokenAuth *jwtauth.JWTAuth

func InitJWT() {
	TokenAuth = jwtauth.New("HS256", config.AppConfig.JWTKey, nil)
}

// GenerateToken issues a signed token whose subject is the person id.
func GenerateToken(personID int) (string, error) {
	claims := jwt.MapClaims{
		"sub": strconv.Itoa(personID),
		"exp": time.Now().Add(config.AppConfig.JWTExp).Unix(),
		"iat": time.Now().Unix(),
	}
	_, tokenString, err := TokenAuth.Encode(claims)
	return tokenString, err
}

// SubjectFromClaims resolves the token subject to a person id. A subject
// that does not parse as a decimal integer is a malformed identity, not a
// missing one.
func SubjectFromClaims(claims map[string]interface{}) (int, error) {
	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, fmt.Errorf("sub claim is missing or not a string: %w", common.ErrUnprocessable)
	}
	id, err := strconv.Atoi(sub)
	if err != nil {
		return 0, fmt.Errorf("sub claim %q is not numeric: %w", sub, common.ErrUnprocessable)
	}
	return id, nil
}
