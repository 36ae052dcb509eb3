package token

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"

	"github.com/iov-one/curio"
	"github.com/iov-one/curio/errors"
	"github.com/iov-one/curio/orm"
)

// AssetIDLength is the size of every asset identifier.
const AssetIDLength = 32

// AssetID identifies one asset class tracked by the ledger. For a
// one-of-a-kind collectible the total supply of the asset is 1.
type AssetID []byte

// Validate returns an error if this is not a well-formed asset id
func (a AssetID) Validate() error {
	if len(a) != AssetIDLength {
		return errors.Wrapf(errors.ErrInput, "invalid asset id length: %d", len(a))
	}
	return nil
}

// Equals checks if two asset ids are the same
func (a AssetID) Equals(b AssetID) bool {
	return bytes.Equal(a, b)
}

// Clone returns an independent copy of this asset id
func (a AssetID) Clone() AssetID {
	if a == nil {
		return nil
	}
	return append(AssetID(nil), a...)
}

func (a AssetID) String() string {
	if len(a) == 0 {
		return "(empty)"
	}
	return hex.EncodeToString(a)
}

// MarshalJSON encodes the asset id as a hex string
func (a AssetID) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(a))
}

// UnmarshalJSON parses the asset id from a hex string
func (a *AssetID) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	id, err := hex.DecodeString(s)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "invalid asset id: %s", err)
	}
	*a = id
	return (*a).Validate()
}

// accountDisc prefixes every serialized account so raw bytes from
// another bucket can never be parsed as an account
var accountDisc = discriminator("token/account")

// discriminator returns the first 8 bytes of sha256 over the name
func discriminator(name string) []byte {
	h := sha256.Sum256([]byte(name))
	return h[:8]
}

const accountSize = 8 + curio.AddressLength + AssetIDLength + 8

// Account is the ledger entry for one address. It holds a balance of
// exactly one asset. Owner is the only authority that can move funds
// out of the account or close it. Most accounts are their own owner.
type Account struct {
	Owner   curio.Address
	Asset   AssetID
	Balance int64
}

var _ orm.Model = (*Account)(nil)

// Marshal serializes the account with a fixed size layout:
// discriminator, owner, asset, big-endian balance.
func (a *Account) Marshal() ([]byte, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	out := make([]byte, 0, accountSize)
	out = append(out, accountDisc...)
	out = append(out, a.Owner...)
	out = append(out, a.Asset...)
	var raw [8]byte
	binary.BigEndian.PutUint64(raw[:], uint64(a.Balance))
	return append(out, raw[:]...), nil
}

// Unmarshal parses the fixed size layout written by Marshal
func (a *Account) Unmarshal(raw []byte) error {
	if len(raw) != accountSize {
		return errors.Wrapf(errors.ErrInput, "invalid account size: %d", len(raw))
	}
	if !bytes.Equal(raw[:8], accountDisc) {
		return errors.Wrap(errors.ErrType, "account discriminator mismatch")
	}
	raw = raw[8:]
	a.Owner = append(curio.Address(nil), raw[:curio.AddressLength]...)
	raw = raw[curio.AddressLength:]
	a.Asset = append(AssetID(nil), raw[:AssetIDLength]...)
	a.Balance = int64(binary.BigEndian.Uint64(raw[AssetIDLength:]))
	return nil
}

// Validate ensures the account is well formed before storing
func (a *Account) Validate() error {
	if err := a.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := a.Asset.Validate(); err != nil {
		return errors.Wrap(err, "asset")
	}
	if a.Balance < 0 {
		return errors.Wrapf(errors.ErrState, "negative balance: %d", a.Balance)
	}
	return nil
}

// Copy produces an independent copy of the account
func (a *Account) Copy() orm.Model {
	return &Account{
		Owner:   append(curio.Address(nil), a.Owner...),
		Asset:   a.Asset.Clone(),
		Balance: a.Balance,
	}
}

// NewBucket returns a bucket for keeping ledger accounts, keyed by
// the account address
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("tok", &Account{})
}
