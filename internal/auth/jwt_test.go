package auth

import (
	"strings"
	"testing"
	"time"

	"simasosial-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

var testUser = &models.User{ID: 7, NamaLengkap: "Admin Satu", Role: models.RoleAdmin}

func TestTokenExpiryBoundary(t *testing.T) {
	issuedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	issuer := NewTokenIssuer("test-secret", time.Hour).WithClock(func() time.Time { return issuedAt })

	token, err := issuer.GenerateToken(testUser)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	at59 := issuer.WithClock(func() time.Time { return issuedAt.Add(59 * time.Minute) })
	claims, err := at59.ParseToken(token)
	if err != nil {
		t.Fatalf("token rejected at T+59m: %v", err)
	}
	if claims.UserID != 7 || claims.Nama != "Admin Satu" || claims.Role != models.RoleAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	at61 := issuer.WithClock(func() time.Time { return issuedAt.Add(61 * time.Minute) })
	if _, err := at61.ParseToken(token); err == nil {
		t.Fatalf("token accepted at T+61m")
	}
}

func TestParseTokenRejectsForeignSignature(t *testing.T) {
	token, err := NewTokenIssuer("secret-a", time.Hour).GenerateToken(testUser)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := NewTokenIssuer("secret-b", time.Hour).ParseToken(token); err == nil {
		t.Fatalf("ParseToken accepted a token signed with another secret")
	}
}

func TestParseTokenRejectsOtherAlgorithms(t *testing.T) {
	claims := &JWTCustomClaims{
		UserID: 1,
		Role:   models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign HS512: %v", err)
	}
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	issuer := NewTokenIssuer("test-secret", time.Hour)
	for _, tok := range []string{hs512, none} {
		if _, err := issuer.ParseToken(tok); err == nil {
			t.Fatalf("ParseToken accepted %q", tok)
		}
	}
}

func TestParseTokenRequiresExpiry(t *testing.T) {
	claims := &JWTCustomClaims{UserID: 1, Role: models.RoleAdmin}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewTokenIssuer("test-secret", time.Hour).ParseToken(tok); err == nil {
		t.Fatalf("ParseToken accepted a token without exp")
	}
}

func TestParseTokenRejectsMalformed(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	for _, tok := range []string{"", "abc", strings.Repeat("a.", 3)} {
		if _, err := issuer.ParseToken(tok); err == nil {
			t.Fatalf("ParseToken accepted malformed %q", tok)
		}
	}
}
