package splitter

import (
	"github.com/iov-one/revsplit"
	"github.com/iov-one/revsplit/errors"
	"github.com/iov-one/revsplit/x"
)

// RoleChecker authorizes privileged router operations. Both checks are
// made for the signers of the currently processed transaction.
type RoleChecker interface {
	IsGovernor(revsplit.Context, revsplit.ReadOnlyKVStore) (bool, error)
	IsAdmin(revsplit.Context, revsplit.ReadOnlyKVStore) (bool, error)
}

// ConfiguredRoles grants the governor and the admin role to the addresses
// declared by the package configuration.
type ConfiguredRoles struct {
	auth x.Authenticator
}

var _ RoleChecker = ConfiguredRoles{}

// NewConfiguredRoles returns a role checker that authenticates signers
// using given authenticator.
func NewConfiguredRoles(auth x.Authenticator) ConfiguredRoles {
	return ConfiguredRoles{auth: auth}
}

// IsGovernor returns true if the configured governor signed the
// transaction.
func (r ConfiguredRoles) IsGovernor(ctx revsplit.Context, db revsplit.ReadOnlyKVStore) (bool, error) {
	conf, err := loadConf(db)
	if err != nil {
		return false, err
	}
	return r.auth.HasAddress(ctx, conf.Governor), nil
}

// IsAdmin returns true if the configured admin signed the transaction.
func (r ConfiguredRoles) IsAdmin(ctx revsplit.Context, db revsplit.ReadOnlyKVStore) (bool, error) {
	conf, err := loadConf(db)
	if err != nil {
		return false, err
	}
	return r.auth.HasAddress(ctx, conf.Admin), nil
}

type role int

const (
	roleGovernor role = 1 << iota
	roleAdmin
)

func (r role) String() string {
	switch r {
	case roleGovernor:
		return "governor"
	case roleAdmin:
		return "admin"
	case roleGovernor | roleAdmin:
		return "governor or admin"
	default:
		return "unknown"
	}
}

// requireRole returns ErrUnauthorized unless the transaction was signed by
// any of the given roles.
func requireRole(ctx revsplit.Context, db revsplit.ReadOnlyKVStore, roles RoleChecker, want role) error {
	if want&roleGovernor != 0 {
		ok, err := roles.IsGovernor(ctx, db)
		if err != nil {
			return errors.Wrap(err, "governor role")
		}
		if ok {
			return nil
		}
	}
	if want&roleAdmin != 0 {
		ok, err := roles.IsAdmin(ctx, db)
		if err != nil {
			return errors.Wrap(err, "admin role")
		}
		if ok {
			return nil
		}
	}
	return errors.Wrapf(errors.ErrUnauthorized, "%s signature required", want)
}
