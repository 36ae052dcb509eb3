package escrow

import (
	"bytes"
	"encoding/binary"

	"github.com/iov-one/curio"
	"github.com/iov-one/curio/errors"
	"github.com/iov-one/curio/x/token"
)

var (
	createMsgDisc = discriminator("escrow/create")
	listMsgDisc   = discriminator("escrow/list")
	buyMsgDisc    = discriminator("escrow/buy")
	returnMsgDisc = discriminator("escrow/return")
)

const (
	createMsgSize = 8 + 4*curio.AddressLength
	listMsgSize   = 8 + 3*curio.AddressLength + 8
	buyMsgSize    = 8 + 5*curio.AddressLength + 1
	returnMsgSize = 8 + 2*curio.AddressLength + 1
)

// CreateMsg opens a listing: it writes the escrow record at its
// deterministic address and allocates the empty holding account.
// Must be signed by the owner.
type CreateMsg struct {
	Owner        curio.Address
	Collectible  token.AssetID
	PaymentAsset token.AssetID
	Beneficiary  curio.Address
}

var _ curio.Msg = (*CreateMsg)(nil)

func (CreateMsg) Path() string {
	return "escrow/create"
}

// Validate makes sure that this is sensible
func (m *CreateMsg) Validate() error {
	if err := m.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := m.Collectible.Validate(); err != nil {
		return errors.Wrap(err, "collectible")
	}
	if err := m.PaymentAsset.Validate(); err != nil {
		return errors.Wrap(err, "payment asset")
	}
	if err := m.Beneficiary.Validate(); err != nil {
		return errors.Wrap(err, "beneficiary")
	}
	return nil
}

func (m *CreateMsg) Marshal() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	out := make([]byte, 0, createMsgSize)
	out = append(out, createMsgDisc...)
	out = append(out, m.Owner...)
	out = append(out, m.Collectible...)
	out = append(out, m.PaymentAsset...)
	return append(out, m.Beneficiary...), nil
}

func (m *CreateMsg) Unmarshal(raw []byte) error {
	if len(raw) != createMsgSize {
		return errors.Wrapf(errors.ErrInput, "invalid message size: %d", len(raw))
	}
	if !bytes.Equal(raw[:8], createMsgDisc) {
		return errors.Wrap(errors.ErrType, "message discriminator mismatch")
	}
	raw = raw[8:]
	m.Owner = append(curio.Address(nil), raw[:curio.AddressLength]...)
	raw = raw[curio.AddressLength:]
	m.Collectible = append(token.AssetID(nil), raw[:token.AssetIDLength]...)
	raw = raw[token.AssetIDLength:]
	m.PaymentAsset = append(token.AssetID(nil), raw[:token.AssetIDLength]...)
	m.Beneficiary = append(curio.Address(nil), raw[token.AssetIDLength:]...)
	return nil
}

// ListMsg makes a created escrow purchasable: it sets the price,
// optionally redirects the fee cut and moves one unit of the
// collectible from the owner wallet into custody. Must be signed by
// the owner.
type ListMsg struct {
	// Escrow is the address of the record to list.
	Escrow curio.Address
	// Source is the owner wallet currently holding the collectible.
	Source curio.Address
	// Beneficiary, when set, replaces the fee destination recorded
	// at creation time.
	Beneficiary curio.Address
	Price       int64
}

var _ curio.Msg = (*ListMsg)(nil)

func (ListMsg) Path() string {
	return "escrow/list"
}

// Validate makes sure that this is sensible
func (m *ListMsg) Validate() error {
	if err := m.Escrow.Validate(); err != nil {
		return errors.Wrap(err, "escrow")
	}
	if err := m.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if len(m.Beneficiary) != 0 {
		if err := m.Beneficiary.Validate(); err != nil {
			return errors.Wrap(err, "beneficiary")
		}
	}
	if m.Price <= 0 {
		return errors.Wrapf(errors.ErrAmount, "non-positive price: %d", m.Price)
	}
	return nil
}

func (m *ListMsg) Marshal() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	out := make([]byte, 0, listMsgSize)
	out = append(out, listMsgDisc...)
	out = append(out, m.Escrow...)
	out = append(out, m.Source...)
	// an unset beneficiary is all zeros on the wire
	beneficiary := m.Beneficiary
	if len(beneficiary) == 0 {
		beneficiary = make(curio.Address, curio.AddressLength)
	}
	out = append(out, beneficiary...)
	var raw [8]byte
	binary.BigEndian.PutUint64(raw[:], uint64(m.Price))
	return append(out, raw[:]...), nil
}

func (m *ListMsg) Unmarshal(raw []byte) error {
	if len(raw) != listMsgSize {
		return errors.Wrapf(errors.ErrInput, "invalid message size: %d", len(raw))
	}
	if !bytes.Equal(raw[:8], listMsgDisc) {
		return errors.Wrap(errors.ErrType, "message discriminator mismatch")
	}
	raw = raw[8:]
	m.Escrow = append(curio.Address(nil), raw[:curio.AddressLength]...)
	raw = raw[curio.AddressLength:]
	m.Source = append(curio.Address(nil), raw[:curio.AddressLength]...)
	raw = raw[curio.AddressLength:]
	beneficiary := raw[:curio.AddressLength]
	if bytes.Equal(beneficiary, make([]byte, curio.AddressLength)) {
		m.Beneficiary = nil
	} else {
		m.Beneficiary = append(curio.Address(nil), beneficiary...)
	}
	m.Price = int64(binary.BigEndian.Uint64(raw[curio.AddressLength:]))
	return nil
}

// BuyMsg settles a listed escrow: the signer pays the fee cut to the
// beneficiary and the remainder to the seller, then receives the
// collectible. The seller field must match the record owner and the
// lock bump must re-derive the custody authority.
type BuyMsg struct {
	// Escrow is the address of the record to settle.
	Escrow curio.Address
	// Seller is the party the signer believes they are buying from.
	Seller curio.Address
	// BuyerPayment is the signer wallet paying the price.
	BuyerPayment curio.Address
	// SellerPayment is the wallet receiving the seller share.
	SellerPayment curio.Address
	// BuyerCollectible is the wallet receiving the collectible.
	BuyerCollectible curio.Address
	// LockBump re-derives the custody authority.
	LockBump byte
}

var _ curio.Msg = (*BuyMsg)(nil)

func (BuyMsg) Path() string {
	return "escrow/buy"
}

// Validate makes sure that this is sensible
func (m *BuyMsg) Validate() error {
	if err := m.Escrow.Validate(); err != nil {
		return errors.Wrap(err, "escrow")
	}
	if err := m.Seller.Validate(); err != nil {
		return errors.Wrap(err, "seller")
	}
	if err := m.BuyerPayment.Validate(); err != nil {
		return errors.Wrap(err, "buyer payment")
	}
	if err := m.SellerPayment.Validate(); err != nil {
		return errors.Wrap(err, "seller payment")
	}
	if err := m.BuyerCollectible.Validate(); err != nil {
		return errors.Wrap(err, "buyer collectible")
	}
	return nil
}

func (m *BuyMsg) Marshal() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	out := make([]byte, 0, buyMsgSize)
	out = append(out, buyMsgDisc...)
	out = append(out, m.Escrow...)
	out = append(out, m.Seller...)
	out = append(out, m.BuyerPayment...)
	out = append(out, m.SellerPayment...)
	out = append(out, m.BuyerCollectible...)
	return append(out, m.LockBump), nil
}

func (m *BuyMsg) Unmarshal(raw []byte) error {
	if len(raw) != buyMsgSize {
		return errors.Wrapf(errors.ErrInput, "invalid message size: %d", len(raw))
	}
	if !bytes.Equal(raw[:8], buyMsgDisc) {
		return errors.Wrap(errors.ErrType, "message discriminator mismatch")
	}
	raw = raw[8:]
	fields := []*curio.Address{&m.Escrow, &m.Seller, &m.BuyerPayment, &m.SellerPayment, &m.BuyerCollectible}
	for _, f := range fields {
		*f = append(curio.Address(nil), raw[:curio.AddressLength]...)
		raw = raw[curio.AddressLength:]
	}
	m.LockBump = raw[0]
	return nil
}

// ReturnMsg cancels a listing: the collectible goes back to the
// owner and the holding account is closed. No payment moves. Must be
// signed by the owner.
type ReturnMsg struct {
	// Escrow is the address of the record to cancel.
	Escrow curio.Address
	// Destination is the owner wallet receiving the collectible back.
	Destination curio.Address
	// LockBump re-derives the custody authority.
	LockBump byte
}

var _ curio.Msg = (*ReturnMsg)(nil)

func (ReturnMsg) Path() string {
	return "escrow/return"
}

// Validate makes sure that this is sensible
func (m *ReturnMsg) Validate() error {
	if err := m.Escrow.Validate(); err != nil {
		return errors.Wrap(err, "escrow")
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	return nil
}

func (m *ReturnMsg) Marshal() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	out := make([]byte, 0, returnMsgSize)
	out = append(out, returnMsgDisc...)
	out = append(out, m.Escrow...)
	out = append(out, m.Destination...)
	return append(out, m.LockBump), nil
}

func (m *ReturnMsg) Unmarshal(raw []byte) error {
	if len(raw) != returnMsgSize {
		return errors.Wrapf(errors.ErrInput, "invalid message size: %d", len(raw))
	}
	if !bytes.Equal(raw[:8], returnMsgDisc) {
		return errors.Wrap(errors.ErrType, "message discriminator mismatch")
	}
	raw = raw[8:]
	m.Escrow = append(curio.Address(nil), raw[:curio.AddressLength]...)
	raw = raw[curio.AddressLength:]
	m.Destination = append(curio.Address(nil), raw[:curio.AddressLength]...)
	m.LockBump = raw[curio.AddressLength]
	return nil
}
