package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/edusoma/portal/core"
	"github.com/edusoma/portal/core/auth"
)

type exchangerMock struct {
	res auth.ExchangeResult
	err error
}

func (m *exchangerMock) Exchange(context.Context, auth.Credentials) (auth.ExchangeResult, error) {
	return m.res, m.err
}

type cliTest struct {
	name    string
	args    []string // without program name
	pwd     string
	exchRes auth.ExchangeResult
	exchErr error
	wantErr error
	wantOut []string
}

func Test_commandLine_login(t *testing.T) {
	core.Conf.DemoLoginEnabled = true

	mock := new(exchangerMock)
	out := new(bytes.Buffer)
	cli := &commandLine{out: out, exchangeCli: mock}

	jane := auth.Principal{ID: "7", Email: "jane@school.test", Name: "Jane Doe", Role: auth.RoleTeacher}
	rejected := &auth.CredentialError{Detail: "Invalid credentials"}

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no email", args: []string{"login"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"login", "-email", jane.Email}, wantErr: errHelp},
		{
			name:    "backend success",
			args:    []string{"login", "-email", jane.Email},
			pwd:     "pass1234",
			exchRes: auth.ExchangeResult{Principal: jane},
			wantOut: []string{"role: TEACHER", "landing: /teacher/dashboard", "token: "},
		},
		{
			name:    "demo fallback",
			args:    []string{"login", "-email", "admin@test.com"},
			pwd:     "test123",
			exchErr: rejected,
			wantOut: []string{"role: ADMIN", "landing: /admin/dashboard"},
		},
		{
			name:    "rejected",
			args:    []string{"login", "-email", jane.Email},
			pwd:     "nope1234",
			exchErr: rejected,
			wantErr: rejected,
		},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		mock.res, mock.err = tt.exchRes, tt.exchErr
		out.Reset()

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err != tt.wantErr {
				t.Fatalf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
			for _, want := range tt.wantOut {
				if !strings.Contains(out.String(), want) {
					t.Errorf("cli.run() output missing %q:\n%s", want, out.String())
				}
			}
		})
	}
}

func Test_commandLine_inspect(t *testing.T) {
	out := new(bytes.Buffer)
	cli := &commandLine{out: out, exchangeCli: new(exchangerMock)}

	prc := auth.Principal{ID: "42", Email: "bob@school.test", Name: "Bob Admin", Role: auth.RoleAdmin}
	token, err := auth.GenerateToken(auth.GetPrincipalClaims(prc))
	if err != nil {
		t.Fatalf("GenerateToken() failed, %v", err)
	}

	tests := []cliTest{
		{name: "no token", args: []string{"inspect"}, wantErr: errHelp},
		{name: "garbage token", args: []string{"inspect", "-token", "lol"}, wantErr: auth.ErrNoSession},
		{
			name:    "valid token",
			args:    []string{"inspect", "-token", token},
			wantOut: []string{"id: 42", "email: bob@school.test", "role: ADMIN"},
		},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		out.Reset()

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err != tt.wantErr {
				t.Fatalf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
			for _, want := range tt.wantOut {
				if !strings.Contains(out.String(), want) {
					t.Errorf("cli.run() output missing %q:\n%s", want, out.String())
				}
			}
		})
	}
}
