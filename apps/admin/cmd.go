package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/edusoma/portal/core/auth"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type exchanger interface {
	Exchange(ctx context.Context, creds auth.Credentials) (auth.ExchangeResult, error)
}

type commandLine struct {
	out         io.Writer
	exchangeCli exchanger
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  login -email EMAIL - authenticate against the identity backend and print a session token")
	fmt.Println("  inspect -token TOKEN - verify a session token and print its claims")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	loginEmail := loginCmd.String("email", "", "The account's email. The password will be prompted next.")

	inspectCmd := flag.NewFlagSet("inspect", flag.ExitOnError)
	inspectToken := inspectCmd.String("token", "", "The session token to verify.")

	switch args[1] {
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *loginEmail == "" {
			loginCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			loginCmd.Usage()
			return errHelp
		}
		return cli.login(*loginEmail, string(pwd))
	case "inspect":
		if err := inspectCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *inspectToken == "" {
			inspectCmd.Usage()
			return errHelp
		}
		return cli.inspect(*inspectToken)
	default:
		cli.printUsage()
		return errHelp
	}
}
