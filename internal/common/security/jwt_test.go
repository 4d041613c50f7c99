package security

import (
	"context"
	"errors"
	"testing"
	"time"

	"retohub/internal/common"
	"retohub/internal/platform/config"
)

func setupJWT(t *testing.T) {
	t.Helper()
	config.AppConfig = &config.Config{
		JWTKey: []byte("test-secret"),
		JWTExp: time.Hour,
	}
	InitJWT()
}

func TestGenerateTokenRoundTrip(t *testing.T) {
	setupJWT(t)

	tokenString, err := GenerateToken(42)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	token, err := TokenAuth.Decode(tokenString)
	if err != nil {
		t.Fatalf("decoding issued token: %v", err)
	}
	claims, err := token.AsMap(context.Background())
	if err != nil {
		t.Fatalf("claims as map: %v", err)
	}

	id, err := SubjectFromClaims(claims)
	if err != nil {
		t.Fatalf("SubjectFromClaims: %v", err)
	}
	if id != 42 {
		t.Errorf("subject id = %d, want 42", id)
	}
}

func TestSubjectFromClaimsMalformed(t *testing.T) {
	setupJWT(t)

	cases := []struct {
		name   string
		claims map[string]interface{}
	}{
		{"missing sub", map[string]interface{}{}},
		{"non-string sub", map[string]interface{}{"sub": 42}},
		{"non-numeric sub", map[string]interface{}{"sub": "not-a-number"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := SubjectFromClaims(tc.claims)
			if !errors.Is(err, common.ErrUnprocessable) {
				t.Errorf("err = %v, want ErrUnprocessable", err)
			}
		})
	}
}
