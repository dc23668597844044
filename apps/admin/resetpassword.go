package main

import (
	"time"

	"github.com/suvrat007/tutora-sub000/core"
)

// resetPassword sets a new password for the user matching the given
// username or email.
func (cli *commandLine) resetPassword(uname, pwd string) error {
	usr, err := cli.usrSvc.GetByUsernameOrEmail(core.CleanString(uname, true /* lower */))
	if err != nil {
		return err
	}
	if err = usr.SetPassword(pwd); err != nil {
		return err
	}
	usr.UpdatedAt = time.Now().UTC()
	_, err = cli.usrSvc.Save(usr, nil)
	return err
}
