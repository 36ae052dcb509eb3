package escrow

import (
	"github.com/btcsuite/btcd/btcec"

	"github.com/iov-one/curio"
	"github.com/iov-one/curio/errors"
	"github.com/iov-one/curio/x/token"
)

// The holding account must be controlled by an authority that no key
// pair can ever sign for. The authority address is derived from the
// listing seed plus a one byte disambiguator (bump). A bump is usable
// only when the derived 32 bytes are NOT a valid compressed secp256k1
// x-coordinate, which rules out any matching key pair. Creation
// searches for the canonical bump, the exit paths only verify the
// bump the caller supplies.

// lockCondition derives the signing authority over the holding
// account for a given bump
func lockCondition(owner curio.Address, collectible token.AssetID, bump byte) curio.Condition {
	data := append(seed(owner, collectible), bump)
	return curio.NewCondition("escrow", "lock", data)
}

// usable reports whether no secp256k1 key pair can control this
// address. The address bytes are treated as a compressed point
// x-coordinate: if they parse as a valid curve point, some key pair
// could match the address.
func usable(addr curio.Address) bool {
	candidate := append([]byte{0x02}, addr...)
	_, err := btcec.ParsePubKey(candidate, btcec.S256())
	return err != nil
}

// FindLockBump searches from 255 down for the first bump whose
// derived address no key pair can control. It returns the canonical
// bump and the authority address.
func FindLockBump(owner curio.Address, collectible token.AssetID) (byte, curio.Address, error) {
	for i := 255; i >= 0; i-- {
		bump := byte(i)
		addr := lockCondition(owner, collectible, bump).Address()
		if usable(addr) {
			return bump, addr, nil
		}
	}
	// about (1/2)^256, but the caller still gets a typed failure
	return 0, nil, errors.Wrap(ErrAuthorityMismatch, "no usable disambiguator")
}

// LockAddress re-derives the authority address for a caller supplied
// bump. Bumps deriving a key-controllable address are rejected, so a
// verified address proves custody can only be exercised here.
func LockAddress(owner curio.Address, collectible token.AssetID, bump byte) (curio.Address, error) {
	addr := lockCondition(owner, collectible, bump).Address()
	if !usable(addr) {
		return nil, errors.Wrapf(ErrAuthorityMismatch, "disambiguator %d derives a key-controllable address", bump)
	}
	return addr, nil
}
