package main

import (
	"context"
	"fmt"

	"github.com/edusoma/portal/core"
	"github.com/edusoma/portal/core/auth"
)

// login exchanges the credentials for a Principal and prints a freshly
// minted session token. Demo accounts are consulted when the identity
// backend rejects the credentials or cannot be reached.
func (cli *commandLine) login(email, pwd string) error {
	creds := auth.Credentials{
		Email:    core.CleanString(email, true /* lower */),
		Password: pwd,
	}
	if err := creds.Validate(); err != nil {
		return err
	}

	prc, err := cli.authenticate(context.Background(), creds)
	if err != nil {
		return err
	}

	token, err := auth.GenerateToken(auth.GetPrincipalClaims(prc))
	if err != nil {
		return err
	}

	fmt.Fprintf(cli.out, "authenticated as %s <%s>\n", prc.Name, prc.Email)
	fmt.Fprintf(cli.out, "role: %s\n", prc.Role)
	fmt.Fprintf(cli.out, "landing: %s\n", prc.Role.LandingPath())
	fmt.Fprintf(cli.out, "token: %s\n", token)
	return nil
}

func (cli *commandLine) authenticate(ctx context.Context, creds auth.Credentials) (auth.Principal, error) {
	res, err := cli.exchangeCli.Exchange(ctx, creds)
	if err != nil {
		if prc, ok := auth.CheckDemoAccount(creds); ok {
			return prc, nil
		}
		return auth.Principal{}, err
	}
	return res.Principal, nil
}
