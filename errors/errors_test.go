package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		kind   *Error
		err    error
		wantIs bool
	}{
		"instance of the same root error": {
			kind:   ErrNotFound,
			err:    ErrNotFound,
			wantIs: true,
		},
		"wrapped root error": {
			kind:   ErrNotFound,
			err:    Wrap(ErrNotFound, "gone"),
			wantIs: true,
		},
		"deeply wrapped root error": {
			kind:   ErrNotFound,
			err:    Wrap(Wrap(ErrNotFound, "gone"), "very gone"),
			wantIs: true,
		},
		"different root error": {
			kind:   ErrNotFound,
			err:    ErrUnauthorized,
			wantIs: false,
		},
		"stdlib error": {
			kind:   ErrNotFound,
			err:    errors.New("stdlib"),
			wantIs: false,
		},
		"wrapped stdlib error": {
			kind:   ErrNotFound,
			err:    Wrap(errors.New("stdlib"), "wrapped"),
			wantIs: false,
		},
		"nil is nil": {
			kind:   nil,
			err:    nil,
			wantIs: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.kind.Is(tc.err); got != tc.wantIs {
				t.Fatalf("unexpected result: %v", got)
			}
		})
	}
}

func TestABCICode(t *testing.T) {
	cases := map[string]struct {
		err      error
		wantCode uint32
	}{
		"registered error": {
			err:      ErrUnauthorized,
			wantCode: 2,
		},
		"wrapped registered error": {
			err:      Wrap(ErrUnauthorized, "no signature"),
			wantCode: 2,
		},
		"stdlib error is internal": {
			err:      errors.New("stdlib"),
			wantCode: internalABCICode,
		},
		"wrapped stdlib error is internal": {
			err:      Wrapf(errors.New("stdlib"), "id %d", 42),
			wantCode: internalABCICode,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if code := abciCode(tc.err); code != tc.wantCode {
				t.Fatalf("want %d code, got %d", tc.wantCode, code)
			}
		})
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, "ignored"); err != nil {
		t.Fatalf("want nil, got %+v", err)
	}
}

func TestWrappedErrorMessage(t *testing.T) {
	err := Wrap(ErrNotFound, "listing")
	if got, want := err.Error(), "listing: not found"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestWrappedErrorStackTrace(t *testing.T) {
	err := Wrap(ErrState, "outer")
	rendered := fmt.Sprintf("%+v", err)
	if !strings.Contains(rendered, "errors_test.go") {
		t.Fatalf("missing stack trace: %s", rendered)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	// Code 2 belongs to ErrUnauthorized.
	Register(2, "duplicate code")
}

func TestRecover(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		panic("exploded")
	}
	err := run()
	if !ErrPanic.Is(err) {
		t.Fatalf("want panic error, got %+v", err)
	}
}
