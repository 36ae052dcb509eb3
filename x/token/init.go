package token

import (
	"github.com/iov-one/curio"
	"github.com/iov-one/curio/errors"
)

const optKey = "token"

// GenesisAccount is used to parse the json from genesis file.
// Owner may be left empty to make the account its own owner.
type GenesisAccount struct {
	Address curio.Address `json:"address"`
	Owner   curio.Address `json:"owner"`
	Asset   AssetID       `json:"asset"`
	Balance int64         `json:"balance"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ curio.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts curio.Options, db curio.KVStore) error {
	accts := []GenesisAccount{}
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	bucket := NewBucket()
	for _, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrap(err, "address")
		}
		owner := acct.Owner
		if len(owner) == 0 {
			owner = acct.Address
		}
		entry := Account{
			Owner:   owner,
			Asset:   acct.Asset,
			Balance: acct.Balance,
		}
		if err := bucket.Put(db, acct.Address, &entry); err != nil {
			return errors.Wrapf(err, "account %s", acct.Address)
		}
	}
	return nil
}
