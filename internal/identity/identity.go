// Package identity checks that node-util runs as the account that owns the node files.
package identity

import (
	"fmt"
	"os/user"
	"strconv"

	"golang.org/x/sys/unix"

	"github.com/conn-castle/node-util/internal/messages"
	"github.com/conn-castle/node-util/internal/nodeerr"
)

// System reports the effective user of the process.
type System interface {
	EffectiveUser() (string, error)
}

// RealSystem implements System from the effective uid.
type RealSystem struct{}

var geteuid = unix.Geteuid

// EffectiveUser returns the login name of the effective uid.
func (RealSystem) EffectiveUser() (string, error) {
	uid := strconv.Itoa(geteuid())
	u, err := user.LookupId(uid)
	if err != nil {
		return "", fmt.Errorf(messages.IdentityLookupFmt, uid, err)
	}
	return u.Username, nil
}

// Require fails with nodeerr.ErrWrongIdentity unless the effective user is want.
func Require(sys System, want string) error {
	if sys == nil {
		sys = RealSystem{}
	}
	got, err := sys.EffectiveUser()
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf(messages.IdentityWrongUserFmt, nodeerr.ErrWrongIdentity, got, want)
	}
	return nil
}
