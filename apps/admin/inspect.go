package main

import (
	"fmt"
	"time"

	"github.com/edusoma/portal/core/auth"
)

// inspect verifies a session token and prints its claims.
func (cli *commandLine) inspect(token string) error {
	claims, err := auth.VerifyToken(token)
	if err != nil {
		return err
	}

	prc := claims.Principal()
	fmt.Fprintf(cli.out, "id: %s\n", prc.ID)
	fmt.Fprintf(cli.out, "email: %s\n", prc.Email)
	fmt.Fprintf(cli.out, "name: %s\n", prc.Name)
	fmt.Fprintf(cli.out, "role: %s\n", prc.Role)
	fmt.Fprintf(cli.out, "issuer: %s\n", claims.Issuer)
	fmt.Fprintf(cli.out, "expires: %s\n", time.Unix(claims.ExpiresAt, 0).UTC().Format(time.RFC3339))
	return nil
}
