package errors

import (
	stdlib "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestCause(t *testing.T) {
	std := stdlib.New("this is a stdlib error")

	cases := map[string]struct {
		err  error
		root error
	}{
		"Errors are self-causing": {
			err:  ErrNotFound,
			root: ErrNotFound,
		},
		"Wrap reveals root cause": {
			err:  Wrap(ErrNotFound, "foo"),
			root: ErrNotFound,
		},
		"Cause works for stderr as root": {
			err:  Wrap(std, "Some helpful text"),
			root: std,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := errors.Cause(tc.err); got != tc.root {
				t.Fatal("unexpected result")
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		a      *Error
		b      error
		wantIs bool
	}{
		"instance of the same error": {
			a:      ErrNotFound,
			b:      ErrNotFound,
			wantIs: true,
		},
		"two different coded errors": {
			a:      ErrNotFound,
			b:      ErrModel,
			wantIs: false,
		},
		"successful comparison to a wrapped error": {
			a:      ErrNotFound,
			b:      errors.Wrap(ErrNotFound, "gone"),
			wantIs: true,
		},
		"unsuccessful comparison to a wrapped error": {
			a:      ErrNotFound,
			b:      errors.Wrap(ErrOverflow, "too big"),
			wantIs: false,
		},
		"not equal to stdlib error": {
			a:      ErrNotFound,
			b:      fmt.Errorf("stdlib error"),
			wantIs: false,
		},
		"not equal to a wrapped stdlib error": {
			a:      ErrNotFound,
			b:      errors.Wrap(fmt.Errorf("stdlib error"), "wrapped"),
			wantIs: false,
		},
		"nil is nil": {
			a:      nil,
			b:      nil,
			wantIs: true,
		},
		"nil is any error nil": {
			a:      nil,
			b:      (*wrappedError)(nil),
			wantIs: true,
		},
		"nil is not not-nil": {
			a:      nil,
			b:      ErrUnauthorized,
			wantIs: false,
		},
		"multiple wraps": {
			a:      ErrUnauthorized,
			b:      Wrap(Wrapf(ErrUnauthorized, "level %d", 1), "level 2"),
			wantIs: true,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.a.Is(tc.b); got != tc.wantIs {
				t.Fatalf("unexpected result - got:%v want: %v", got, tc.wantIs)
			}
		})
	}
}

func TestStdlibCompatibility(t *testing.T) {
	err := Wrap(ErrState, "outer")
	if !stdlib.Is(err, ErrState) {
		t.Fatal("stdlib errors.Is must see the root error")
	}
}

func TestRegisterPanicsOnDuplicatedCode(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	Register(ErrNotFound.ABCICode(), "duplicate")
}

func TestWrapEmpty(t *testing.T) {
	if err := Wrap(nil, "wrapping <nil>"); err != nil {
		t.Fatal(err)
	}
}

func TestRecover(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		panic("boom")
	}
	err := run()
	if !ErrPanic.Is(err) {
		t.Fatalf("want panic error, got %+v", err)
	}
	if Redact(err) != ErrPanic {
		t.Fatal("panic details must be redacted")
	}
}

func TestABCIInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"plain registered error": {
			err:      ErrUnauthorized,
			wantCode: ErrUnauthorized.code,
			wantLog:  ErrUnauthorized.desc,
		},
		"wrapped registered error": {
			err:      Wrap(Wrap(ErrNotFound, "foo"), "bar"),
			wantCode: ErrNotFound.code,
			wantLog:  "bar: foo: not found",
		},
		"nil is empty message": {
			err:      nil,
			wantCode: 0,
			wantLog:  "",
		},
		"nil registered error is not an error": {
			err:      (*Error)(nil),
			wantCode: 0,
			wantLog:  "",
		},
		"stdlib is generic message": {
			err:      stdlib.New("stdlib error"),
			wantCode: 1,
			wantLog:  "internal error",
		},
		"wrapped stdlib is only a generic message": {
			err:      Wrap(stdlib.New("stdlib error"), "wrapped"),
			wantCode: 1,
			wantLog:  "internal error",
		},
		"panic details are hidden": {
			err:      Wrap(ErrPanic, "secret"),
			wantCode: ErrPanic.code,
			wantLog:  ErrPanic.desc,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			code, log := ABCIInfo(tc.err, tc.debug)
			if code != tc.wantCode {
				t.Errorf("want %d code, got %d", tc.wantCode, code)
			}
			if log != tc.wantLog {
				t.Errorf("want %q log, got %q", tc.wantLog, log)
			}
		})
	}
}

func TestStackTraceIsPrinted(t *testing.T) {
	err := Wrap(ErrEmpty, "cannot continue")
	full := fmt.Sprintf("%+v", err)
	if !strings.Contains(full, "errors_test.go") {
		t.Fatalf("stack trace not printed: %s", full)
	}
	if short := fmt.Sprintf("%v", err); short != "cannot continue: value is empty" {
		t.Fatalf("unexpected message: %q", short)
	}
}
