package curiotest

import (
	"crypto/rand"

	"github.com/iov-one/curio"
)

// NewCondition returns a random condition, usable as a transaction signer
// in tests.
func NewCondition() curio.Condition {
	data := make([]byte, 32)
	if _, err := rand.Read(data); err != nil {
		panic(err)
	}
	return curio.NewCondition("sigs", "ed25519", data)
}

// NewAddress returns a random address.
func NewAddress() curio.Address {
	return NewCondition().Address()
}
