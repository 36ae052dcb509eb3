package token

import (
	"bytes"
	"encoding/binary"

	"github.com/iov-one/curio"
	"github.com/iov-one/curio/errors"
)

var sendMsgDisc = discriminator("token/send")

const sendMsgSize = 8 + 2*curio.AddressLength + 8

// SendMsg moves funds between two wallet accounts holding the same
// asset. The transaction must be signed by the owner of the source
// account.
type SendMsg struct {
	Source      curio.Address
	Destination curio.Address
	Amount      int64
}

var _ curio.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "token/send"
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	if err := m.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if m.Source.Equals(m.Destination) {
		return errors.Wrap(errors.ErrInput, "source and destination are the same")
	}
	if m.Amount <= 0 {
		return errors.Wrapf(errors.ErrAmount, "non-positive amount: %d", m.Amount)
	}
	return nil
}

// Marshal serializes the message with a fixed size layout
func (m *SendMsg) Marshal() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	out := make([]byte, 0, sendMsgSize)
	out = append(out, sendMsgDisc...)
	out = append(out, m.Source...)
	out = append(out, m.Destination...)
	var raw [8]byte
	binary.BigEndian.PutUint64(raw[:], uint64(m.Amount))
	return append(out, raw[:]...), nil
}

// Unmarshal parses the fixed size layout written by Marshal
func (m *SendMsg) Unmarshal(raw []byte) error {
	if len(raw) != sendMsgSize {
		return errors.Wrapf(errors.ErrInput, "invalid message size: %d", len(raw))
	}
	if !bytes.Equal(raw[:8], sendMsgDisc) {
		return errors.Wrap(errors.ErrType, "message discriminator mismatch")
	}
	raw = raw[8:]
	m.Source = append(curio.Address(nil), raw[:curio.AddressLength]...)
	raw = raw[curio.AddressLength:]
	m.Destination = append(curio.Address(nil), raw[:curio.AddressLength]...)
	m.Amount = int64(binary.BigEndian.Uint64(raw[curio.AddressLength:]))
	return nil
}
