package main

import (
	"bytes"
	"testing"

	"github.com/suvrat007/tutora-sub000/core/user"
	dummydb "github.com/suvrat007/tutora-sub000/storage/database/dummy"
)

func setup(t *testing.T) (*commandLine, *user.Service) {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	usrSvc := user.NewService(dummydb.NewUserRepository(db))
	return &commandLine{usrSvc: usrSvc}, usrSvc
}

type cliTest struct {
	name    string
	args    []string // without program name
	pwd     string
	wantErr error
}

func Test_commandLine_help(t *testing.T) {
	cli, _ := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "migrate without subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "adduser without username", args: []string{"adduser"}, wantErr: errHelp},
		{name: "resetpassword without username", args: []string{"resetpassword"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) { return []byte(tt.pwd), nil }

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli, usrSvc := setup(t)

	tests := []cliTest{
		{name: "password but no username", args: []string{"adduser"}, pwd: "lol", wantErr: errHelp},
		{name: "username but no password", args: []string{"adduser", "-username", "awe"}, wantErr: errHelp},
		{name: "create", args: []string{"adduser", "-username", "awe", "-email", "awe@test.cd"}, pwd: "lol"},
		{name: "create admin", args: []string{"adduser", "-username", "boss", "-admin"}, pwd: "lol"},
		{name: "existing user gets admin roles", args: []string{"adduser", "-username", "awe", "-admin"}, pwd: "lmao"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) { return []byte(tt.pwd), nil }

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	usr, err := usrSvc.GetByUsername("awe")
	if err != nil {
		t.Fatalf("GetByUsername() failed: %v", err)
	}
	if !usr.IsAdmin() {
		t.Error("existing user was not promoted to admin")
	}
	if err = usr.CheckPassword("lmao"); err != nil {
		t.Error("existing user's password was not refreshed")
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, usrSvc := setup(t)

	usr, err := usrSvc.Create(user.NewUser{
		Name:     "User",
		Username: "awe",
		Email:    "awe@test.cd",
		Password: "mdr",
	})
	if err != nil {
		t.Fatalf("creating user failed: %v", err)
	}

	tests := []cliTest{
		{name: "user not found", args: []string{"resetpassword", "-username", "lol"}, pwd: "lol", wantErr: user.ErrNotFound},
		{name: "reset with username", args: []string{"resetpassword", "-username", usr.Username}, pwd: "lol"},
		{name: "reset with email", args: []string{"resetpassword", "-username", usr.Email}, pwd: "lmao"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) { return []byte(tt.pwd), nil }

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				refreshedUsr, err := usrSvc.GetByID(usr.ID)
				if err != nil {
					t.Fatalf("GetByID() failed: %v", err)
				}
				if bytes.Equal(refreshedUsr.PasswordHash, usr.PasswordHash) {
					t.Error("failed to update new password")
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
