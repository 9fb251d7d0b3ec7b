package auth

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/edusoma/portal/core"
)

func TestGenerateVerifyToken(t *testing.T) {
	core.Conf.SecretKey = "secret"
	core.Conf.Server.JWTExpirationDelta = time.Hour

	prc := Principal{ID: "42", Email: "jane@school.test", Name: "Jane Doe", Role: RoleTeacher}

	validToken, err := GenerateToken(GetPrincipalClaims(prc))
	if err != nil {
		t.Fatalf("GenerateToken() failed, %v", err)
	}

	// a token minted with another secret
	core.Conf.SecretKey = "hacked"
	forgedToken, err := GenerateToken(GetPrincipalClaims(prc))
	if err != nil {
		t.Fatalf("GenerateToken() failed, %v", err)
	}
	core.Conf.SecretKey = "secret" // reset

	// an expired token
	expiredClaims := GetPrincipalClaims(prc)
	expiredClaims.ExpiresAt = time.Now().Add(-time.Minute).Unix()
	expiredToken, err := GenerateToken(expiredClaims)
	if err != nil {
		t.Fatalf("GenerateToken() failed, %v", err)
	}

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "no token", wantErr: ErrNoSession},
		{name: "garbage token", token: "lmaooolol", wantErr: ErrNoSession},
		{name: "forged token", token: forgedToken, wantErr: ErrNoSession},
		{name: "expired token", token: expiredToken, wantErr: ErrNoSession},
		{name: "valid token", token: validToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := VerifyToken(tt.token)
			if err != tt.wantErr {
				t.Fatalf("VerifyToken() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got := claims.Principal(); got != prc {
				t.Errorf("Principal() = %+v, want %+v", got, prc)
			}
		})
	}
}

func TestClaims_ResolveRole(t *testing.T) {
	tests := []struct {
		name   string
		claims Claims
		want   Role
	}{
		{name: "canonical claim", claims: Claims{Role: "TEACHER"}, want: RoleTeacher},
		{name: "legacy claim only", claims: Claims{LegacyRole: "teacher"}, want: RoleTeacher},
		{name: "canonical wins", claims: Claims{Role: "ADMIN", LegacyRole: "STUDENT"}, want: RoleAdmin},
		{name: "no claim defaults to student", claims: Claims{}, want: RoleStudent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.claims.ResolveRole(); got != tt.want {
				t.Errorf("ResolveRole() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetPrincipalClaims(t *testing.T) {
	core.Conf.Server.JWTExpirationDelta = time.Hour

	prc := Principal{ID: "7", Email: "bob@school.test", Name: "Bob Admin", Role: RoleAdmin}
	claims := GetPrincipalClaims(prc)

	if claims.Subject != prc.ID {
		t.Errorf("Subject = %v, want %v", claims.Subject, prc.ID)
	}
	if claims.Role != string(RoleAdmin) || claims.LegacyRole != string(RoleAdmin) {
		t.Errorf("role claims = (%v, %v), want both %v", claims.Role, claims.LegacyRole, RoleAdmin)
	}
	if claims.Id == "" {
		t.Error("Id is empty, want a unique token id")
	}
	if err := claims.StandardClaims.Valid(); err != nil {
		t.Errorf("StandardClaims.Valid() = %v", err)
	}
	if exp := time.Unix(claims.ExpiresAt, 0); time.Until(exp) > time.Hour {
		t.Errorf("ExpiresAt = %v, want within %v", exp, time.Hour)
	}

	var _ jwt.Claims = claims // Claims must remain signable
}
