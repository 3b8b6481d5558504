package cash

import (
	"github.com/iov-one/revsplit"
	"github.com/iov-one/revsplit/coin"
	"github.com/iov-one/revsplit/errors"
	"github.com/iov-one/revsplit/orm"
)

// Balancer is an interface to query the amount of coins owned by an address.
type Balancer interface {
	Balance(revsplit.ReadOnlyKVStore, revsplit.Address) (coin.Coins, error)
}

// CoinMover is an interface for moving coins between accounts.
type CoinMover interface {
	MoveCoins(revsplit.KVStore, revsplit.Address, revsplit.Address, coin.Coin) error
}

// Issuer is an interface for creating coins out of nothing.
type Issuer interface {
	IssueCoins(revsplit.KVStore, revsplit.Address, coin.Coin) error
}

// Controller is the functionality needed by cash.SendHandler and the
// genesis initializer.
// BaseController should work plenty fine, but you can add other logic if
// so desired.
type Controller interface {
	Balancer
	CoinMover
	Issuer
}

// BaseController is a simple implementation of controller that keeps a Set
// of coins per address in the given bucket.
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a base controller
func NewController(bucket orm.ModelBucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns the amount of funds stored under given account address.
// ErrNotFound is returned if the account does not exist.
func (c BaseController) Balance(db revsplit.ReadOnlyKVStore, addr revsplit.Address) (coin.Coins, error) {
	var set Set
	if err := c.bucket.One(db, addr, &set); err != nil {
		return nil, err
	}
	return set.Coins, nil
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c BaseController) MoveCoins(db revsplit.KVStore, src revsplit.Address, dest revsplit.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive amount: %s", amount)
	}
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}

	sender, err := c.load(db, src)
	if err != nil {
		return err
	}
	if sender.Coins.IsEmpty() {
		return errors.Wrapf(ErrEmptyAccount, "%s", src)
	}
	if !sender.Coins.Contains(amount) {
		return errors.Wrapf(ErrInsufficientFunds, "%s holds %s", src, sender.Coins.Balance(amount.Ticker))
	}
	if sender.Coins, err = sender.Coins.Subtract(amount); err != nil {
		return err
	}
	if err := c.save(db, src, sender); err != nil {
		return err
	}

	// Recipient is loaded after the sender was saved, so that moving coins
	// to the same address is a no-op.
	recipient, err := c.load(db, dest)
	if err != nil {
		return err
	}
	if recipient.Coins, err = recipient.Coins.Add(amount); err != nil {
		return err
	}
	return c.save(db, dest, recipient)
}

// IssueCoins attempts to add the given amount of coins to
// the destination address. Fails if it overflows the wallet.
//
// Note the amount may also be negative:
// "the lord giveth and the lord taketh away"
func (c BaseController) IssueCoins(db revsplit.KVStore, dest revsplit.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	recipient, err := c.load(db, dest)
	if err != nil {
		return err
	}
	if recipient.Coins, err = recipient.Coins.Add(amount); err != nil {
		return err
	}
	if !recipient.Coins.IsNonNegative() {
		return errors.Wrapf(ErrInsufficientFunds, "cannot take %s from %s", amount.Negative(), dest)
	}
	return c.save(db, dest, recipient)
}

// load returns the balance of given address. A missing account is returned
// as an empty set.
func (c BaseController) load(db revsplit.ReadOnlyKVStore, addr revsplit.Address) (*Set, error) {
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "address")
	}
	var set Set
	switch err := c.bucket.One(db, addr, &set); {
	case err == nil:
		set.Coins = set.Coins.Clone()
		return &set, nil
	case errors.ErrNotFound.Is(err):
		return &Set{Metadata: &revsplit.Metadata{Schema: 1}}, nil
	default:
		return nil, err
	}
}

func (c BaseController) save(db revsplit.KVStore, addr revsplit.Address, set *Set) error {
	if set.Coins.IsEmpty() {
		if err := c.bucket.Delete(db, addr); err != nil && !errors.ErrNotFound.Is(err) {
			return err
		}
		return nil
	}
	return c.bucket.Put(db, addr, set)
}
