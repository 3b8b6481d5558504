package revsplittest

import (
	"testing"

	"github.com/iov-one/revsplit"
)

// ParseAddress takes an address in a human readable format and returns its
// binary representation.
func ParseAddress(t testing.TB, encodedAddress string) revsplit.Address {
	t.Helper()

	addr, err := revsplit.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
