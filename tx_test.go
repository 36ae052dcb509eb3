package curio

import (
	"testing"

	"github.com/iov-one/curio/errors"
)

type mockMsg struct {
	value   string
	invalid bool
}

var _ Msg = (*mockMsg)(nil)

func (m *mockMsg) Marshal() ([]byte, error) { return []byte(m.value), nil }

func (m *mockMsg) Unmarshal(b []byte) error { m.value = string(b); return nil }

func (m *mockMsg) Path() string { return "mock/msg" }
func (m *mockMsg) Validate() error {
	if m.invalid {
		return errors.Wrap(errors.ErrMsg, "invalid by declaration")
	}
	return nil
}

type mockTx struct {
	msg Msg
}

var _ Tx = (*mockTx)(nil)

func (tx *mockTx) GetMsg() (Msg, error) { return tx.msg, nil }

func (tx *mockTx) Marshal() ([]byte, error) { return nil, errors.ErrHuman }

func (tx *mockTx) Unmarshal([]byte) error { return errors.ErrHuman }

func TestLoadMsg(t *testing.T) {
	tx := &mockTx{msg: &mockMsg{value: "foo"}}

	var msg mockMsg
	if err := LoadMsg(tx, &msg); err != nil {
		t.Fatalf("cannot load message: %+v", err)
	}
	if msg.value != "foo" {
		t.Fatalf("unexpected message state: %+v", msg)
	}
}

func TestLoadMsgValidates(t *testing.T) {
	tx := &mockTx{msg: &mockMsg{invalid: true}}

	var msg mockMsg
	if err := LoadMsg(tx, &msg); !errors.ErrMsg.Is(err) {
		t.Fatalf("want a message error, got %+v", err)
	}
}

func TestLoadMsgWrongDestination(t *testing.T) {
	tx := &mockTx{msg: &mockMsg{value: "foo"}}

	if err := LoadMsg(tx, nil); !errors.ErrType.Is(err) {
		t.Fatalf("want a type error, got %+v", err)
	}
}

func TestGetPath(t *testing.T) {
	if got := GetPath(&mockTx{msg: &mockMsg{}}); got != "mock/msg" {
		t.Fatalf("unexpected path: %q", got)
	}
	if got := GetPath(&mockTx{}); got != "(missing)" {
		t.Fatalf("unexpected path: %q", got)
	}
}
