package escrow

import (
	"github.com/iov-one/curio/errors"
)

var (
	// ErrDuplicateListing is returned when a record already exists for
	// the (owner, collectible) pair.
	ErrDuplicateListing = errors.Register(1010, "duplicate listing")

	// ErrInvalidSeller is returned when the seller named in a purchase
	// does not match the record owner.
	ErrInvalidSeller = errors.Register(1011, "invalid seller")

	// ErrNotOwner is returned when an owner-only operation is signed
	// by someone else.
	ErrNotOwner = errors.Register(1012, "not the record owner")

	// ErrAuthorityMismatch is returned when the supplied disambiguator
	// does not re-derive the authority controlling the holding account.
	ErrAuthorityMismatch = errors.Register(1013, "authority mismatch")
)
