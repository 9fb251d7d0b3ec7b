package auth

import (
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/edusoma/portal/core"
)

// Demo accounts, one per role. They are only consulted when the identity
// backend is unreachable or rejects the credentials, and only when
// core.Conf.DemoLoginEnabled is set (DEV/TEST by default).
type demoAccount struct {
	id           string
	email        string
	name         string
	role         Role
	passwordHash []byte
}

var demoAccounts []demoAccount

func init() {
	for _, acc := range []struct {
		id, email, name, password string
		role                      Role
	}{
		{"demo-student", "test@example.com", "John Student", "testpass123", RoleStudent},
		{"demo-teacher", "teacher@test.com", "Jane Teacher", "test123", RoleTeacher},
		{"demo-admin", "admin@test.com", "Bob Admin", "test123", RoleAdmin},
		{"demo-parent", "parent@test.com", "Mary Parent", "test123", RoleParent},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(acc.password), bcrypt.MinCost)
		if err != nil {
			log.Fatalf("auth.demoAccounts: %v", err)
		}
		demoAccounts = append(demoAccounts, demoAccount{
			id:           acc.id,
			email:        acc.email,
			name:         acc.name,
			role:         acc.role,
			passwordHash: hash,
		})
	}
}

// CheckDemoAccount matches the credentials against the demo-account table.
func CheckDemoAccount(creds Credentials) (Principal, bool) {
	if !core.Conf.DemoLoginEnabled {
		return Principal{}, false
	}
	for _, acc := range demoAccounts {
		if acc.email != creds.Email {
			continue
		}
		if bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(creds.Password)) != nil {
			return Principal{}, false
		}
		return Principal{
			ID:    acc.id,
			Email: acc.email,
			Name:  acc.name,
			Role:  acc.role,
		}, true
	}
	return Principal{}, false
}
