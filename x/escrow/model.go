package escrow

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"

	"github.com/iov-one/curio"
	"github.com/iov-one/curio/errors"
	"github.com/iov-one/curio/orm"
	"github.com/iov-one/curio/x/token"
)

// recordDisc prefixes every serialized record so raw bytes from
// another bucket can never be parsed as an escrow
var recordDisc = discriminator("escrow/record")

// discriminator returns the first 8 bytes of sha256 over the name
func discriminator(name string) []byte {
	h := sha256.Sum256([]byte(name))
	return h[:8]
}

const recordSize = 8 + 4*curio.AddressLength + 8

// Escrow is one listing: the collectible under custody, the asset it
// is sold for, the account receiving the fee cut and the asking
// price. Price stays 0 between creation and listing.
type Escrow struct {
	Owner        curio.Address
	Collectible  token.AssetID
	PaymentAsset token.AssetID
	Beneficiary  curio.Address
	Price        int64
}

var _ orm.Model = (*Escrow)(nil)

// Marshal serializes the record with a fixed size layout:
// discriminator, four 32 byte identities, big-endian price.
func (e *Escrow) Marshal() ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	out := make([]byte, 0, recordSize)
	out = append(out, recordDisc...)
	out = append(out, e.Owner...)
	out = append(out, e.Collectible...)
	out = append(out, e.PaymentAsset...)
	out = append(out, e.Beneficiary...)
	var raw [8]byte
	binary.BigEndian.PutUint64(raw[:], uint64(e.Price))
	return append(out, raw[:]...), nil
}

// Unmarshal parses the fixed size layout written by Marshal
func (e *Escrow) Unmarshal(raw []byte) error {
	if len(raw) != recordSize {
		return errors.Wrapf(errors.ErrInput, "invalid record size: %d", len(raw))
	}
	if !bytes.Equal(raw[:8], recordDisc) {
		return errors.Wrap(errors.ErrType, "record discriminator mismatch")
	}
	raw = raw[8:]
	e.Owner = append(curio.Address(nil), raw[:curio.AddressLength]...)
	raw = raw[curio.AddressLength:]
	e.Collectible = append(token.AssetID(nil), raw[:token.AssetIDLength]...)
	raw = raw[token.AssetIDLength:]
	e.PaymentAsset = append(token.AssetID(nil), raw[:token.AssetIDLength]...)
	raw = raw[token.AssetIDLength:]
	e.Beneficiary = append(curio.Address(nil), raw[:curio.AddressLength]...)
	e.Price = int64(binary.BigEndian.Uint64(raw[curio.AddressLength:]))
	return nil
}

// Validate ensures the record is well formed before storing
func (e *Escrow) Validate() error {
	if err := e.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := e.Collectible.Validate(); err != nil {
		return errors.Wrap(err, "collectible")
	}
	if err := e.PaymentAsset.Validate(); err != nil {
		return errors.Wrap(err, "payment asset")
	}
	if err := e.Beneficiary.Validate(); err != nil {
		return errors.Wrap(err, "beneficiary")
	}
	if e.Price < 0 {
		return errors.Wrapf(errors.ErrAmount, "negative price: %d", e.Price)
	}
	return nil
}

// Copy produces an independent copy of the record
func (e *Escrow) Copy() orm.Model {
	return &Escrow{
		Owner:        append(curio.Address(nil), e.Owner...),
		Collectible:  e.Collectible.Clone(),
		PaymentAsset: e.PaymentAsset.Clone(),
		Beneficiary:  append(curio.Address(nil), e.Beneficiary...),
		Price:        e.Price,
	}
}

// NewBucket returns a bucket for keeping escrow records, keyed by
// the record address
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("esc", &Escrow{})
}

// seed joins the owner and collectible identities into the seed
// shared by all derived addresses of one listing
func seed(owner curio.Address, collectible token.AssetID) []byte {
	out := make([]byte, 0, len(owner)+len(collectible))
	out = append(out, owner...)
	return append(out, collectible...)
}

// RecordCondition is the deterministic location of the record for
// this (owner, collectible) pair. Deriving instead of indexing makes
// a second create for the same pair collide with the first.
func RecordCondition(owner curio.Address, collectible token.AssetID) curio.Condition {
	return curio.NewCondition("escrow", "record", seed(owner, collectible))
}

// RecordAddress returns the address of the record for this pair
func RecordAddress(owner curio.Address, collectible token.AssetID) curio.Address {
	return RecordCondition(owner, collectible).Address()
}

// HoldingCondition is the deterministic location of the account that
// takes custody of the collectible while listed
func HoldingCondition(owner curio.Address, collectible token.AssetID) curio.Condition {
	return curio.NewCondition("escrow", "token", seed(owner, collectible))
}

// HoldingAddress returns the address of the custody account
func HoldingAddress(owner curio.Address, collectible token.AssetID) curio.Address {
	return HoldingCondition(owner, collectible).Address()
}
